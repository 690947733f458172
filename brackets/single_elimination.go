package brackets

import (
	"fmt"

	"github.com/Dosada05/bracket-engine/models"
)

type BracketOptions struct {
	Name    string
	Seeding models.SeedingMethod
	Rand    Shuffler
	// BestOf applies to every round but the final, which uses FinalsBestOf.
	BestOf       int
	FinalsBestOf int
	IDs          IDGenerator
}

func (o BracketOptions) bestOf() int {
	if o.BestOf < 1 {
		return 1
	}
	return o.BestOf
}

func (o BracketOptions) finalsBestOf() int {
	if o.FinalsBestOf < 1 {
		return o.bestOf()
	}
	return o.FinalsBestOf
}

// BuildSingleElimination seeds the participants and places them into a
// power-of-two bracket. Byes are resolved and pushed into round two before
// the bracket is returned. Zero or one participant yields a bracket that is
// already complete.
func BuildSingleElimination(participants []models.Participant, opts BracketOptions) *models.Bracket {
	seeded := assignSeeds(SeedParticipants(participants, opts.Seeding, opts.Rand))
	return buildSeededElimination(seeded, nil, opts)
}

// buildSeededElimination places an already ordered, seed-stamped list.
// sources optionally tags first-round slots with where the participant came
// from, keyed by participant id.
func buildSeededElimination(seeded []models.Participant, sources map[int]*models.SlotSource, opts BracketOptions) *models.Bracket {
	name := opts.Name
	if name == "" {
		name = "Main Bracket"
	}
	b := newBracket(idsOrDefault(opts.IDs)(), name, models.BracketWinners, seeded)
	if len(seeded) < 2 {
		refreshCompletion(b)
		return b
	}

	size := nextPowerOfTwo(len(seeded))
	feeds := make([]feed, size)
	for i, seed := range seedPositions(size) {
		if seed > len(seeded) {
			feeds[i] = deadFeed()
			continue
		}
		p := seeded[seed-1]
		feeds[i] = seededFeed(p, sources[p.ID()])
	}

	total := log2(size)
	tb := &treeBuilder{bracket: b}
	tb.halvingRounds(feeds, func(distance int) (string, int) {
		name := RoundName(total-distance+1, total)
		if distance == 1 {
			return name, opts.finalsBestOf()
		}
		return name, opts.bestOf()
	}, mainLabel(total))

	refreshCompletion(b)
	return b
}

// seedPositions returns the seed placed at each first-round slot of a
// bracket of the given power-of-two size: 1 v 8, 4 v 5, 2 v 7, 3 v 6 for 8.
// Each doubling replaces seed s with the pair s, 2k+1-s.
func seedPositions(size int) []int {
	positions := []int{1}
	for len(positions) < size {
		k := len(positions) * 2
		next := make([]int, 0, k)
		for _, s := range positions {
			next = append(next, s, k+1-s)
		}
		positions = next
	}
	return positions
}

// RoundName names round (1-based) of a bracket with total rounds by its
// distance from the final.
func RoundName(round, total int) string {
	distance := total - round + 1
	switch distance {
	case 1:
		return "Finals"
	case 2:
		return "Semifinals"
	case 3:
		return "Quarterfinals"
	}
	if distance >= 4 && distance <= 7 {
		return fmt.Sprintf("Round of %d", 1<<distance)
	}
	return fmt.Sprintf("Round %d", round)
}

// mainLabel produces F, SF1, QF3 near the end of a bracket and R1M5 elsewhere.
func mainLabel(totalRounds int) func(round, position, count int) string {
	return func(round, position, count int) string {
		switch totalRounds - round + 1 {
		case 1:
			return "F"
		case 2:
			return fmt.Sprintf("SF%d", position)
		case 3:
			return fmt.Sprintf("QF%d", position)
		}
		return fmt.Sprintf("R%dM%d", round, position)
	}
}
