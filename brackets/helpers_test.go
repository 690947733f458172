package brackets

import (
	"fmt"
	"time"

	"github.com/Dosada05/bracket-engine/models"
)

var testTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func singles(ratings ...float64) []models.Participant {
	out := make([]models.Participant, len(ratings))
	for i, r := range ratings {
		out[i] = models.NewSingles(models.Player{ID: i + 1, Name: fmt.Sprintf("P%d", i+1), Rating: r})
	}
	return out
}

// field returns n players whose ids match their rating order.
func field(n int) []models.Participant {
	ratings := make([]float64, n)
	for i := range ratings {
		ratings[i] = 10 - float64(i)*0.1
	}
	return singles(ratings...)
}

func seqIDs(prefix string) IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func win(side int) models.Score {
	if side == 2 {
		return models.Score{Games: []models.GameScore{{Side1: 5, Side2: 11}}, Winner: 2}
	}
	return models.Score{Games: []models.GameScore{{Side1: 11, Side2: 5}}, Winner: 1}
}

// playAll records slot one as the winner of every ready match until none is left.
func playAll(set *models.BracketSet) *models.BracketSet {
	for {
		m := NextMatch(set.Brackets...)
		if m == nil {
			return set
		}
		set = RecordSetResult(set, m.ID, win(1), testTime)
	}
}

func ids(ps []models.Participant) []int {
	out := make([]int, len(ps))
	for i, p := range ps {
		out[i] = p.ID()
	}
	return out
}

func pid(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
