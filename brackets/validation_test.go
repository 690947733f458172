package brackets

import (
	"context"
	"testing"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateParticipantCount(t *testing.T) {
	tests := []struct {
		format      models.FormatType
		count       int
		valid       bool
		advice      bool
		recommended int
	}{
		{models.FormatTypeSingleElimination, 1, false, true, 0},
		{models.FormatTypeSingleElimination, 2, true, false, 0},
		{models.FormatTypeSingleElimination, 5, true, true, 4},
		{models.FormatTypeSingleElimination, 6, true, false, 0},
		{models.FormatTypeSingleElimination, 9, true, true, 8},
		{models.FormatTypeSingleElimination, 3, true, false, 0},
		{models.FormatTypeDoubleElimination, 2, false, true, 0},
		{models.FormatTypeDoubleElimination, 3, true, false, 0},
		{models.FormatTypeRoundRobin, 2, true, false, 0},
		{models.FormatTypePoolPlay, 2, false, true, 0},
		{models.FormatTypePoolPlay, 30, true, false, 0},
	}
	for _, tt := range tests {
		res := ValidateParticipantCount(tt.format, tt.count)
		assert.Equal(t, tt.valid, res.Valid, "%s/%d", tt.format, tt.count)
		assert.Equal(t, tt.advice, res.Message != "", "%s/%d: %q", tt.format, tt.count, res.Message)
		assert.Equal(t, tt.recommended, res.Recommended, "%s/%d", tt.format, tt.count)
	}

	sparse := ValidateParticipantCount(models.FormatTypeSingleElimination, 9)
	assert.Equal(t, 16, sparse.BracketSize)
	assert.Equal(t, 7, sparse.Byes)
	assert.Contains(t, sparse.Message, "more than half of first-round matches are byes (7 of 8)")

	unknown := ValidateParticipantCount("swiss", 10)
	assert.False(t, unknown.Valid)
	assert.NotEmpty(t, unknown.Message)
}

func TestNewGenerator(t *testing.T) {
	g, err := NewGenerator(models.FormatSingleElimination)
	require.NoError(t, err)
	assert.Equal(t, "SingleElimination", g.GetName())

	g, err = NewGenerator(models.FormatDoubleElimination)
	require.NoError(t, err)
	assert.Equal(t, "DoubleElimination", g.GetName())

	_, err = NewGenerator("ladder")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestGenerateBracket(t *testing.T) {
	ctx := context.Background()
	g := NewSingleEliminationGenerator()

	_, err := g.GenerateBracket(ctx, GenerateBracketParams{Participants: field(1)})
	assert.ErrorIs(t, err, ErrNotEnoughParticipants)

	set, err := g.GenerateBracket(ctx, GenerateBracketParams{
		Name:         "Open",
		Participants: field(8),
		Settings:     models.GenerationSettings{ThirdPlaceMatch: true, Consolation: true, BestOf: 3},
		IDs:          seqIDs("id-"),
	})
	require.NoError(t, err)
	require.Len(t, set.Brackets, 2)
	assert.Equal(t, "Open", set.Name)
	assert.Equal(t, ThirdPlaceMatchID, set.Brackets[0].ThirdPlaceMatchID)
	assert.Equal(t, models.BracketConsolation, set.Brackets[1].Type)
	assert.Equal(t, 3, set.Brackets[0].Rounds[2].BestOf, "finals default to the regular best-of")

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = NewDoubleEliminationGenerator().GenerateBracket(canceled, GenerateBracketParams{Participants: field(4)})
	assert.ErrorIs(t, err, context.Canceled)
}
