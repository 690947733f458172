package brackets

import (
	"math"
	"math/rand"
	"testing"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedParticipants_Rating(t *testing.T) {
	ps := singles(4.7, 5.0, 4.8, 4.9)
	seeded := SeedParticipants(ps, models.SeedingRating, nil)

	assert.Equal(t, []int{2, 4, 3, 1}, ids(seeded))
	assert.Equal(t, []int{1, 2, 3, 4}, ids(ps), "input must not be reordered")
}

func TestSeedParticipants_SnakeSortsLikeRating(t *testing.T) {
	ps := singles(1, 3, 2)
	assert.Equal(t, ids(SeedParticipants(ps, models.SeedingRating, nil)), ids(SeedParticipants(ps, models.SeedingSnake, nil)))
}

func TestSeedParticipants_ManualKeepsOrder(t *testing.T) {
	ps := singles(1, 3, 2)
	assert.Equal(t, []int{1, 2, 3}, ids(SeedParticipants(ps, models.SeedingManual, nil)))
	assert.Equal(t, []int{1, 2, 3}, ids(SeedParticipants(ps, "unknown", nil)))
}

func TestSeedParticipants_RandomIsPermutation(t *testing.T) {
	ps := field(12)
	seeded := SeedParticipants(ps, models.SeedingRandom, rand.New(rand.NewSource(7)))

	require.Len(t, seeded, 12)
	assert.ElementsMatch(t, ids(ps), ids(seeded))

	again := SeedParticipants(ps, models.SeedingRandom, rand.New(rand.NewSource(7)))
	assert.Equal(t, ids(seeded), ids(again), "same source, same order")
}

func TestSeedParticipants_HybridKeepsTopQuarter(t *testing.T) {
	ps := field(10)
	seeded := SeedParticipants(ps, models.SeedingHybrid, rand.New(rand.NewSource(3)))

	// ceil(10/4) = 3 stay in rating order
	assert.Equal(t, []int{1, 2, 3}, ids(seeded[:3]))
	assert.ElementsMatch(t, []int{4, 5, 6, 7, 8, 9, 10}, ids(seeded[3:]))
}

func TestSeedParticipants_BadRatingsSortLast(t *testing.T) {
	ps := singles(math.NaN(), -3, 1.5)
	seeded := SeedParticipants(ps, models.SeedingRating, nil)
	assert.Equal(t, 3, seeded[0].ID())
}

func TestSeedParticipants_DoublesUseTeamAverage(t *testing.T) {
	strong := models.NewDoubles(models.Team{ID: 10, Name: "Strong",
		Player1: models.Player{ID: 1, Rating: 5.0}, Player2: models.Player{ID: 2, Rating: 4.0}})
	weak := models.NewDoubles(models.Team{ID: 20, Name: "Weak",
		Player1: models.Player{ID: 3, Rating: 4.6}, Player2: models.Player{ID: 4, Rating: 4.2}})

	seeded := SeedParticipants([]models.Participant{weak, strong}, models.SeedingRating, nil)
	assert.Equal(t, []int{10, 20}, ids(seeded))
}

func TestSeedField_StampsSeedsInOrder(t *testing.T) {
	seeded := SeedField(singles(1, 3, 2), models.SeedingRating, nil)
	assert.Equal(t, []int{2, 3, 1}, ids(seeded))
	for i, p := range seeded {
		assert.Equal(t, i+1, pid(p.Seed))
	}
}
