package brackets

import (
	"math"
	"sort"

	"github.com/Dosada05/bracket-engine/models"
)

// SeedParticipants returns a reordered copy of participants. The input
// slice is not modified. Unknown methods behave like manual.
func SeedParticipants(participants []models.Participant, method models.SeedingMethod, rng Shuffler) []models.Participant {
	seeded := make([]models.Participant, len(participants))
	copy(seeded, participants)

	switch method {
	case models.SeedingRating, models.SeedingSnake:
		sortByRating(seeded)
	case models.SeedingRandom:
		shuffle(seeded, shufflerOrDefault(rng))
	case models.SeedingHybrid:
		sortByRating(seeded)
		top := int(math.Ceil(float64(len(seeded)) / 4))
		shuffle(seeded[top:], shufflerOrDefault(rng))
	}
	return seeded
}

// sortByRating orders by descending rating; equal ratings keep input order.
func sortByRating(ps []models.Participant) {
	sort.SliceStable(ps, func(i, j int) bool {
		return ps[i].Rating() > ps[j].Rating()
	})
}

func shuffle(ps []models.Participant, rng Shuffler) {
	rng.Shuffle(len(ps), func(i, j int) {
		ps[i], ps[j] = ps[j], ps[i]
	})
}

// assignSeeds stamps 1-based seeds in list order.
func assignSeeds(ps []models.Participant) []models.Participant {
	out := make([]models.Participant, len(ps))
	for i, p := range ps {
		out[i] = p.WithSeed(i + 1)
	}
	return out
}

// SeedField seeds participants and stamps seeds 1..n in the resulting order.
func SeedField(participants []models.Participant, method models.SeedingMethod, rng Shuffler) []models.Participant {
	return assignSeeds(SeedParticipants(participants, method, rng))
}
