package brackets

import (
	"fmt"

	"github.com/Dosada05/bracket-engine/models"
)

// byeSlot pads an odd field so the circle has an even number of positions.
const byeSlot = -1

type ScheduleOptions struct {
	// MaxRounds caps the schedule. Values above TotalPossibleRounds repeat
	// the cycle from its start; nil means one full cycle.
	MaxRounds *int
	PoolID    string
	IDPrefix  string
}

type Schedule struct {
	Matches             []models.PoolMatch `json:"matches"`
	Rounds              int                `json:"rounds"`
	TotalPossibleRounds int                `json:"total_possible_rounds"`
}

// ScheduleRoundRobin pairs every participant with every other one using the
// circle method: position 0 stays fixed, the rest rotate one step per round,
// and position i meets position n-1-i. Pairings against the padding bye
// are skipped.
func ScheduleRoundRobin(participants []models.Participant, opts ScheduleOptions) Schedule {
	n := len(participants)
	if n < 2 {
		return Schedule{Matches: []models.PoolMatch{}}
	}

	cycle := circleRounds(n)
	total := len(cycle)
	rounds := total
	if opts.MaxRounds != nil {
		rounds = max(*opts.MaxRounds, 0)
	}

	matches := make([]models.PoolMatch, 0, rounds*(n/2))
	for r := 0; r < rounds; r++ {
		num := 0
		for _, pair := range cycle[r%total] {
			if pair[0] == byeSlot || pair[1] == byeSlot {
				continue
			}
			num++
			matches = append(matches, models.PoolMatch{
				ID:             fmt.Sprintf("%sR%dM%d", opts.IDPrefix, r+1, num),
				PoolID:         opts.PoolID,
				Round:          r + 1,
				MatchNumber:    num,
				Court:          num,
				Participant1ID: participants[pair[0]].ID(),
				Participant2ID: participants[pair[1]].ID(),
				Status:         models.StatusScheduled,
			})
		}
	}

	return Schedule{Matches: matches, Rounds: rounds, TotalPossibleRounds: total}
}

// circleRounds returns, per round, the index pairs of one full cycle.
func circleRounds(n int) [][][2]int {
	positions := make([]int, 0, n+1)
	for i := 0; i < n; i++ {
		positions = append(positions, i)
	}
	if n%2 == 1 {
		positions = append(positions, byeSlot)
	}
	size := len(positions)

	rounds := make([][][2]int, 0, size-1)
	for r := 0; r < size-1; r++ {
		pairs := make([][2]int, 0, size/2)
		for i := 0; i < size/2; i++ {
			pairs = append(pairs, [2]int{positions[i], positions[size-1-i]})
		}
		rounds = append(rounds, pairs)

		last := positions[size-1]
		copy(positions[2:], positions[1:size-1])
		positions[1] = last
	}
	return rounds
}

// RotatingMatch is a doubles game between two ad-hoc partnerships.
type RotatingMatch struct {
	ID     string             `json:"id"`
	Round  int                `json:"round"`
	Court  int                `json:"court"`
	Side1  [2]int             `json:"side1"`
	Side2  [2]int             `json:"side2"`
	Status models.MatchStatus `json:"status"`
}

// ScheduleRotatingPartners builds a doubles schedule where partners change
// every round. Each round takes the circle-method pairing of the individual
// players as partnerships, drops the one holding the padding bye, and plays
// the remaining partnerships against each other in order; an odd
// partnership out sits the round.
func ScheduleRotatingPartners(players []models.Player, maxRounds *int) []RotatingMatch {
	n := len(players)
	if n < 4 {
		return []RotatingMatch{}
	}

	cycle := circleRounds(n)
	rounds := len(cycle)
	if maxRounds != nil {
		rounds = max(*maxRounds, 0)
	}

	matches := make([]RotatingMatch, 0)
	for r := 0; r < rounds; r++ {
		teams := make([][2]int, 0, len(cycle[r%len(cycle)]))
		for _, pair := range cycle[r%len(cycle)] {
			if pair[0] == byeSlot || pair[1] == byeSlot {
				continue
			}
			teams = append(teams, [2]int{players[pair[0]].ID, players[pair[1]].ID})
		}
		court := 0
		for i := 0; i+1 < len(teams); i += 2 {
			court++
			matches = append(matches, RotatingMatch{
				ID:     fmt.Sprintf("DR%dM%d", r+1, court),
				Round:  r + 1,
				Court:  court,
				Side1:  teams[i],
				Side2:  teams[i+1],
				Status: models.StatusScheduled,
			})
		}
	}
	return matches
}
