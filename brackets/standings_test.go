package brackets

import (
	"testing"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func played(id string, p1, p2 int, games ...models.GameScore) models.PoolMatch {
	return models.PoolMatch{
		ID:             id,
		Participant1ID: p1,
		Participant2ID: p2,
		Status:         models.StatusCompleted,
		Score:          &models.Score{Games: games},
	}
}

func g(a, b int) models.GameScore { return models.GameScore{Side1: a, Side2: b} }

func rankOrder(standings []models.PoolStanding) []int {
	out := make([]int, len(standings))
	for i, s := range standings {
		out[i] = s.ParticipantID
	}
	return out
}

func TestCalculateStandings_ThreeWayCycle(t *testing.T) {
	// 1 beats 2, 2 beats 3, 3 beats 1, every match 2-0
	ps := singles(4.0, 4.0, 4.0)
	matches := []models.PoolMatch{
		played("m1", 1, 2, g(11, 3), g(11, 3)),
		played("m2", 2, 3, g(11, 9), g(11, 9)),
		played("m3", 3, 1, g(11, 7), g(11, 7)),
	}

	standings := CalculateStandings(matches, ps, 2, nil)

	require.Len(t, standings, 3)
	for _, s := range standings {
		assert.Equal(t, 1, s.MatchesWon)
		assert.Equal(t, 1, s.MatchesLost)
		assert.Equal(t, 0.5, s.WinPercentage)
	}
	// head-to-head is a wash inside the cycle, point differential decides
	assert.Equal(t, []int{1, 3, 2}, rankOrder(standings))
	assert.Equal(t, 8, standings[0].PointDifferential)
	assert.Equal(t, 4, standings[1].PointDifferential)
	assert.Equal(t, -12, standings[2].PointDifferential)
	assert.True(t, standings[0].Advances)
	assert.True(t, standings[1].Advances)
	assert.False(t, standings[2].Advances)

	again := CalculateStandings(matches, ps, 2, nil)
	assert.Equal(t, standings, again)
}

func TestCalculateStandings_HeadToHeadBeforePoints(t *testing.T) {
	ps := singles(1, 1, 1, 1)
	matches := []models.PoolMatch{
		played("ab", 1, 2, g(11, 9)),
		played("bc", 2, 3, g(11, 0)),
		played("da", 4, 1, g(11, 0)),
	}

	standings := CalculateStandings(matches, ps, 2, nil)
	assert.Equal(t, []int{4, 1, 2, 3}, rankOrder(standings))

	byDiff := CalculateStandings(matches, ps, 2, []models.Tiebreaker{models.TiebreakPointDifferential})
	assert.Equal(t, []int{4, 2, 1, 3}, rankOrder(byDiff))
}

func TestCalculateStandings_PointsAgainstLowerIsBetter(t *testing.T) {
	ps := singles(1, 1, 1, 1)
	matches := []models.PoolMatch{
		played("m1", 1, 3, g(11, 9)),
		played("m2", 2, 4, g(11, 2)),
	}
	standings := CalculateStandings(matches, ps, 1, []models.Tiebreaker{models.TiebreakPointsAgainst})
	assert.Equal(t, []int{2, 1}, rankOrder(standings)[:2])
}

func TestCalculateStandings_RatingFallback(t *testing.T) {
	ps := singles(3.0, 4.5)
	standings := CalculateStandings(nil, ps, 1, []models.Tiebreaker{models.TiebreakRating})
	assert.Equal(t, []int{2, 1}, rankOrder(standings))
}

func TestCalculateStandings_OnlyCompletedMatchesCount(t *testing.T) {
	ps := singles(1, 1)
	m := played("m1", 1, 2, g(11, 2))
	m.Status = models.StatusInProgress

	standings := CalculateStandings([]models.PoolMatch{m}, ps, 1, nil)
	for _, s := range standings {
		assert.Zero(t, s.MatchesPlayed)
		assert.Zero(t, s.PointsFor)
	}
	assert.Equal(t, []int{1, 2}, rankOrder(standings))
}

func TestCalculateStandings_WinsEqualLosses(t *testing.T) {
	ps := field(6)
	schedule := ScheduleRoundRobin(ps, ScheduleOptions{})
	for i := range schedule.Matches {
		if i%3 == 0 {
			continue
		}
		m := &schedule.Matches[i]
		m.Status = models.StatusCompleted
		if i%2 == 0 {
			m.Score = &models.Score{Games: []models.GameScore{g(11, 4), g(11, 8)}}
		} else {
			m.Score = &models.Score{Games: []models.GameScore{g(6, 11), g(11, 9), g(3, 11)}}
		}
	}

	standings := CalculateStandings(schedule.Matches, ps, 3, nil)
	won, lost := 0, 0
	ranks := map[int]bool{}
	for _, s := range standings {
		won += s.MatchesWon
		lost += s.MatchesLost
		ranks[s.Rank] = true
	}
	assert.Equal(t, won, lost)
	assert.Len(t, ranks, 6)
}

func TestCalculateStandings_DeclaredWinnerOverridesGames(t *testing.T) {
	ps := singles(1, 1)
	m := played("m1", 1, 2, g(11, 5))
	m.Score.Winner = 2

	standings := CalculateStandings([]models.PoolMatch{m}, ps, 1, nil)
	assert.Equal(t, 2, standings[0].ParticipantID)
	assert.Equal(t, 1, standings[0].MatchesWon)
}
