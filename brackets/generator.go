package brackets

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/bracket-engine/models"
)

var (
	ErrNotEnoughParticipants = errors.New("not enough participants")
	ErrUnsupportedFormat     = errors.New("unsupported bracket format")
)

type GenerateBracketParams struct {
	Name         string
	Participants []models.Participant
	Settings     models.GenerationSettings
	Rand         Shuffler
	IDs          IDGenerator
}

// BracketGenerator builds a bracket set for one elimination format.
type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) (*models.BracketSet, error)

	GetName() string
}

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) (*models.BracketSet, error) {
	return generate(ctx, models.FormatSingleElimination, params)
}

type DoubleEliminationGenerator struct{}

func NewDoubleEliminationGenerator() BracketGenerator {
	return &DoubleEliminationGenerator{}
}

func (g *DoubleEliminationGenerator) GetName() string {
	return "DoubleElimination"
}

func (g *DoubleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) (*models.BracketSet, error) {
	return generate(ctx, models.FormatDoubleElimination, params)
}

// NewGenerator picks the generator for an elimination format.
func NewGenerator(format models.EliminationFormat) (BracketGenerator, error) {
	switch format {
	case models.FormatSingleElimination:
		return NewSingleEliminationGenerator(), nil
	case models.FormatDoubleElimination:
		return NewDoubleEliminationGenerator(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func generate(ctx context.Context, format models.EliminationFormat, params GenerateBracketParams) (*models.BracketSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	check := ValidateParticipantCount(models.FormatType(format), len(params.Participants))
	if !check.Valid {
		return nil, fmt.Errorf("%w: %s", ErrNotEnoughParticipants, check.Message)
	}

	settings := params.Settings.WithDefaults()
	opts := SetOptions{
		BracketOptions: BracketOptions{
			Name:         params.Name,
			Seeding:      settings.Seeding,
			Rand:         params.Rand,
			BestOf:       settings.BestOf,
			FinalsBestOf: settings.FinalsBestOf,
			IDs:          params.IDs,
		},
		Format:      format,
		ThirdPlace:  settings.ThirdPlaceMatch,
		Consolation: settings.Consolation,
	}
	return BuildBracketSet(params.Participants, opts), nil
}

type SetOptions struct {
	BracketOptions
	Format models.EliminationFormat
	// ThirdPlace and Consolation apply to single elimination only.
	ThirdPlace  bool
	Consolation bool
}

// BuildBracketSet seeds the participants and builds every bracket of the
// chosen format: the main bracket alone, plus its consolation bracket when
// asked, or the winners, losers and finals brackets of double elimination.
func BuildBracketSet(participants []models.Participant, opts SetOptions) *models.BracketSet {
	seeded := SeedField(participants, opts.Seeding, opts.Rand)
	return buildSet(seeded, nil, opts)
}

func buildSet(seeded []models.Participant, sources map[int]*models.SlotSource, opts SetOptions) *models.BracketSet {
	opts.IDs = idsOrDefault(opts.IDs)
	if opts.Format == models.FormatDoubleElimination {
		return buildSeededDoubleElimination(seeded, sources, opts.BracketOptions)
	}

	main := buildSeededElimination(seeded, sources, opts.BracketOptions)
	if opts.ThirdPlace {
		main = AddThirdPlaceMatch(main)
	}
	set := &models.BracketSet{
		ID:       opts.IDs(),
		Name:     main.Name,
		Format:   models.FormatSingleElimination,
		Brackets: []*models.Bracket{main},
	}
	if opts.Consolation {
		consolationOpts := opts.BracketOptions
		consolationOpts.Name = ""
		updated, consolation := BuildConsolationBracket(main, consolationOpts)
		if consolation != nil {
			set.Brackets = []*models.Bracket{updated, consolation}
		}
	}
	return set
}
