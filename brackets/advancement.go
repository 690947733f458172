package brackets

import (
	"sort"

	"github.com/Dosada05/bracket-engine/models"
)

// Advancer is a pool finisher on their way into the playoff bracket.
type Advancer struct {
	Participant models.Participant `json:"participant"`
	PoolID      string             `json:"pool_id"`
	PoolNumber  int                `json:"pool_number"`
	Rank        int                `json:"rank"`
}

// CollectAdvancers takes the top advancementCount of each pool's current
// standings. A count of zero or less uses each pool's own setting.
func CollectAdvancers(pools []models.Pool, advancementCount int) []Advancer {
	var out []Advancer
	for i := range pools {
		pool := &pools[i]
		limit := advancementCount
		if limit <= 0 {
			limit = pool.AdvancementCount
		}
		for _, s := range pool.Standings {
			if s.Rank < 1 || s.Rank > limit {
				continue
			}
			p, ok := pool.Participant(s.ParticipantID)
			if !ok {
				continue
			}
			out = append(out, Advancer{Participant: p, PoolID: pool.ID, PoolNumber: pool.Number, Rank: s.Rank})
		}
	}
	return out
}

// CrossPoolSeed orders the advancers into a seed list for the playoff
// bracket so finishers from the same pool stay apart.
//
//   - standard: rank groups in order, pools ascending, flipped on every
//     second rank. With exactly two pools the list alternates A1 B1 A2 B2,
//     which the bracket places as A1 v Bk, A2 v Bk-1 ... so the two pool
//     winners can only meet in the final.
//   - reverse: rank groups in order, pools descending.
//   - snake: rank groups in order with the direction alternating, without the
//     two-pool shortcut.
func CrossPoolSeed(pools []models.Pool, advancementCount int, method models.CrossPoolMethod) []Advancer {
	advancers := CollectAdvancers(pools, advancementCount)
	byRank := make(map[int][]Advancer)
	maxRank := 0
	poolNumbers := make(map[int]struct{})
	for _, a := range advancers {
		byRank[a.Rank] = append(byRank[a.Rank], a)
		maxRank = max(maxRank, a.Rank)
		poolNumbers[a.PoolNumber] = struct{}{}
	}
	for _, group := range byRank {
		sort.SliceStable(group, func(i, j int) bool { return group[i].PoolNumber < group[j].PoolNumber })
	}

	out := make([]Advancer, 0, len(advancers))
	switch method {
	case models.CrossPoolReverse:
		for rank := 1; rank <= maxRank; rank++ {
			group := byRank[rank]
			for i := len(group) - 1; i >= 0; i-- {
				out = append(out, group[i])
			}
		}
	case models.CrossPoolSnake:
		out = snakeRanks(byRank, maxRank)
	default:
		if len(poolNumbers) == 2 {
			for rank := 1; rank <= maxRank; rank++ {
				out = append(out, byRank[rank]...)
			}
			return out
		}
		out = snakeRanks(byRank, maxRank)
	}
	return out
}

func snakeRanks(byRank map[int][]Advancer, maxRank int) []Advancer {
	var out []Advancer
	for rank := 1; rank <= maxRank; rank++ {
		group := byRank[rank]
		if rank%2 == 1 {
			out = append(out, group...)
			continue
		}
		for i := len(group) - 1; i >= 0; i-- {
			out = append(out, group[i])
		}
	}
	return out
}

type PlayoffOptions struct {
	BracketOptions
	Format           models.EliminationFormat
	AdvancementCount int
	CrossPool        models.CrossPoolMethod
	ThirdPlace       bool
	Consolation      bool
}

// BuildPlayoff seeds the pool advancers with CrossPoolSeed and builds the
// playoff bracket set from that order. First-round slots remember the pool
// and rank each participant qualified from.
func BuildPlayoff(pools []models.Pool, opts PlayoffOptions) *models.BracketSet {
	order := CrossPoolSeed(pools, opts.AdvancementCount, opts.CrossPool)
	participants := make([]models.Participant, len(order))
	sources := make(map[int]*models.SlotSource, len(order))
	for i, a := range order {
		participants[i] = a.Participant.WithSeed(i + 1)
		sources[a.Participant.ID()] = &models.SlotSource{
			Kind:     models.SourcePoolRank,
			PoolID:   a.PoolID,
			PoolRank: a.Rank,
		}
	}
	if opts.Name == "" {
		opts.Name = "Playoffs"
	}
	return buildSet(participants, sources, SetOptions{
		BracketOptions: opts.BracketOptions,
		Format:         opts.Format,
		ThirdPlace:     opts.ThirdPlace,
		Consolation:    opts.Consolation,
	})
}
