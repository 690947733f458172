package brackets

import (
	"fmt"
	"math"

	"github.com/Dosada05/bracket-engine/models"
)

const defaultPoolSize = 4

type PoolOptions struct {
	// PoolCount wins over PoolSize; with neither set pools hold four.
	PoolCount        int
	PoolSize         int
	AdvancementCount int
	Tiebreakers      []models.Tiebreaker
	MaxRounds        *int
	IDs              IDGenerator
}

// BuildPools splits an already seeded list into pools with a serpentine
// walk (1..K, then K..1, ...) and schedules a round robin inside each.
// Fewer than three participants produce no pools.
func BuildPools(seeded []models.Participant, opts PoolOptions) []models.Pool {
	n := len(seeded)
	if n < 3 {
		return []models.Pool{}
	}
	ids := idsOrDefault(opts.IDs)

	count := poolCount(n, opts.PoolCount, opts.PoolSize)
	members := make([][]models.Participant, count)
	for i, p := range seeded {
		members[snakeIndex(i, count)] = append(members[snakeIndex(i, count)], p)
	}

	pools := make([]models.Pool, count)
	for i := range pools {
		label := poolLabel(i)
		pool := models.Pool{
			ID:               ids(),
			Name:             "Pool " + label,
			Number:           i + 1,
			Participants:     members[i],
			AdvancementCount: opts.AdvancementCount,
			Tiebreakers:      opts.Tiebreakers,
		}
		schedule := ScheduleRoundRobin(pool.Participants, ScheduleOptions{
			MaxRounds: opts.MaxRounds,
			PoolID:    pool.ID,
			IDPrefix:  "P" + label + "-",
		})
		pool.Matches = schedule.Matches
		pool.Standings = CalculateStandings(pool.Matches, pool.Participants, pool.AdvancementCount, pool.Tiebreakers)
		pools[i] = pool
	}
	return pools
}

// BuildRoundRobinEvent puts the whole field into one pool.
func BuildRoundRobinEvent(participants []models.Participant, opts PoolOptions) models.Pool {
	ids := idsOrDefault(opts.IDs)
	pool := models.Pool{
		ID:               ids(),
		Name:             "Round Robin",
		Number:           1,
		Participants:     append([]models.Participant(nil), participants...),
		AdvancementCount: opts.AdvancementCount,
		Tiebreakers:      opts.Tiebreakers,
	}
	schedule := ScheduleRoundRobin(pool.Participants, ScheduleOptions{MaxRounds: opts.MaxRounds, PoolID: pool.ID, IDPrefix: "RR-"})
	pool.Matches = schedule.Matches
	pool.Standings = CalculateStandings(pool.Matches, pool.Participants, pool.AdvancementCount, pool.Tiebreakers)
	return pool
}

func poolCount(n, requested, size int) int {
	count := requested
	if count <= 0 {
		if size <= 0 {
			size = defaultPoolSize
		}
		count = int(math.Ceil(float64(n) / float64(size)))
	}
	if limit := n / 2; count > limit {
		count = limit
	}
	return max(count, 1)
}

// snakeIndex maps the i-th seed to its pool for k pools.
func snakeIndex(i, k int) int {
	pos := i % k
	if (i/k)%2 == 1 {
		return k - 1 - pos
	}
	return pos
}

// poolLabel renders 0 → A, 25 → Z, 26 → AA.
func poolLabel(i int) string {
	label := ""
	for i >= 0 {
		label = fmt.Sprintf("%c", 'A'+i%26) + label
		i = i/26 - 1
	}
	return label
}
