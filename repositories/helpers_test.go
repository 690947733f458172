package repositories

import (
	"fmt"
	"time"

	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/Dosada05/bracket-engine/models"
)

func players(n int) []models.Participant {
	out := make([]models.Participant, n)
	for i := range out {
		out[i] = models.NewSingles(models.Player{ID: i + 1, Name: fmt.Sprintf("P%d", i+1), Rating: float64(100 - i)})
	}
	return out
}

func sampleSet(id string, n int) *models.BracketSet {
	set := brackets.BuildBracketSet(players(n), brackets.SetOptions{
		BracketOptions: brackets.BracketOptions{
			Name:    "Open Singles",
			Seeding: models.SeedingRating,
			IDs:     func() string { return id },
		},
		Format: models.FormatSingleElimination,
	})
	return set
}

// completedSet plays every match of a fresh set with slot one winning.
func completedSet(id string, n int) *models.BracketSet {
	set := sampleSet(id, n)
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for {
		m := brackets.NextMatch(set.Brackets...)
		if m == nil {
			return set
		}
		set = brackets.RecordSetResult(set, m.ID, models.Score{Games: []models.GameScore{{Side1: 11, Side2: 4}}, Winner: 1}, at)
	}
}

func sampleStage(id string) *models.PoolStage {
	n := 0
	pools := brackets.BuildPools(players(8), brackets.PoolOptions{
		PoolCount:        2,
		AdvancementCount: 2,
		IDs: func() string {
			n++
			return fmt.Sprintf("%s-pool-%d", id, n)
		},
	})
	return &models.PoolStage{ID: id, Name: "Group Stage", Pools: pools, AdvancementCount: 2}
}
