package brackets

import (
	"sort"

	"github.com/Dosada05/bracket-engine/models"
)

type standingRow struct {
	models.PoolStanding
	rating float64
	order  int
}

type pairKey struct{ a, b int }

func newPairKey(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// CalculateStandings derives a ranked table from completed matches. Rows
// are ordered by win percentage, then by each tiebreaker in turn applied to
// the whole tied group; anything still tied keeps participant order. The
// result is recomputed from scratch on every call.
func CalculateStandings(matches []models.PoolMatch, participants []models.Participant, advancementCount int, tiebreakers []models.Tiebreaker) []models.PoolStanding {
	if len(tiebreakers) == 0 {
		tiebreakers = models.DefaultTiebreakers
	}

	rows := make([]*standingRow, len(participants))
	byID := make(map[int]*standingRow, len(participants))
	for i, p := range participants {
		row := &standingRow{
			PoolStanding: models.PoolStanding{ParticipantID: p.ID()},
			rating:       p.Rating(),
			order:        i,
		}
		rows[i] = row
		byID[p.ID()] = row
	}

	headToHead := make(map[pairKey]int)
	for _, m := range matches {
		if m.Status != models.StatusCompleted || m.Score == nil {
			continue
		}
		r1, ok1 := byID[m.Participant1ID]
		r2, ok2 := byID[m.Participant2ID]
		if !ok1 || !ok2 {
			continue
		}

		points1, points2, games1, games2 := m.Score.Totals()
		r1.MatchesPlayed++
		r2.MatchesPlayed++
		r1.GamesWon += games1
		r1.GamesLost += games2
		r2.GamesWon += games2
		r2.GamesLost += games1
		r1.PointsFor += points1
		r1.PointsAgainst += points2
		r2.PointsFor += points2
		r2.PointsAgainst += points1

		switch poolMatchWinnerSide(m) {
		case 1:
			r1.MatchesWon++
			r2.MatchesLost++
			headToHead[newPairKey(m.Participant1ID, m.Participant2ID)] = m.Participant1ID
		case 2:
			r2.MatchesWon++
			r1.MatchesLost++
			headToHead[newPairKey(m.Participant1ID, m.Participant2ID)] = m.Participant2ID
		}
	}

	for _, row := range rows {
		row.PointDifferential = row.PointsFor - row.PointsAgainst
		if row.MatchesPlayed > 0 {
			row.WinPercentage = float64(row.MatchesWon) / float64(row.MatchesPlayed)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].WinPercentage > rows[j].WinPercentage
	})

	ranked := make([]*standingRow, 0, len(rows))
	for start := 0; start < len(rows); {
		end := start + 1
		for end < len(rows) && rows[end].WinPercentage == rows[start].WinPercentage {
			end++
		}
		ranked = append(ranked, breakTies(rows[start:end], tiebreakers, headToHead)...)
		start = end
	}

	standings := make([]models.PoolStanding, len(ranked))
	for i, row := range ranked {
		s := row.PoolStanding
		s.Rank = i + 1
		s.Advances = s.Rank <= advancementCount
		standings[i] = s
	}
	return standings
}

// breakTies orders a group of rows with equal records. The first rule splits
// the group into sub-groups of equal value; each sub-group moves on to the
// remaining rules.
func breakTies(group []*standingRow, rules []models.Tiebreaker, headToHead map[pairKey]int) []*standingRow {
	if len(group) < 2 || len(rules) == 0 {
		sorted := append([]*standingRow(nil), group...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].order < sorted[j].order })
		return sorted
	}

	rule := rules[0]
	keys := make(map[int]float64, len(group))
	for _, row := range group {
		keys[row.ParticipantID] = tiebreakKey(rule, row, group, headToHead)
	}

	sorted := append([]*standingRow(nil), group...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ki, kj := keys[sorted[i].ParticipantID], keys[sorted[j].ParticipantID]
		if ki != kj {
			return ki > kj
		}
		return sorted[i].order < sorted[j].order
	})

	out := make([]*standingRow, 0, len(sorted))
	for start := 0; start < len(sorted); {
		end := start + 1
		for end < len(sorted) && keys[sorted[end].ParticipantID] == keys[sorted[start].ParticipantID] {
			end++
		}
		out = append(out, breakTies(sorted[start:end], rules[1:], headToHead)...)
		start = end
	}
	return out
}

// tiebreakKey returns a value where higher ranks better.
func tiebreakKey(rule models.Tiebreaker, row *standingRow, group []*standingRow, headToHead map[pairKey]int) float64 {
	switch rule {
	case models.TiebreakHeadToHead:
		wins := 0
		for _, other := range group {
			if other.ParticipantID == row.ParticipantID {
				continue
			}
			if headToHead[newPairKey(row.ParticipantID, other.ParticipantID)] == row.ParticipantID {
				wins++
			}
		}
		return float64(wins)
	case models.TiebreakPointDifferential:
		return float64(row.PointDifferential)
	case models.TiebreakPointsFor:
		return float64(row.PointsFor)
	case models.TiebreakPointsAgainst:
		return -float64(row.PointsAgainst)
	case models.TiebreakGamesWon:
		return float64(row.GamesWon)
	case models.TiebreakRating:
		return row.rating
	default:
		return 0
	}
}

// poolMatchWinnerSide resolves the winning side from the recorded winner id,
// then the declared score winner, then games won. Zero means undecided.
func poolMatchWinnerSide(m models.PoolMatch) int {
	if m.WinnerID != nil {
		switch *m.WinnerID {
		case m.Participant1ID:
			return 1
		case m.Participant2ID:
			return 2
		}
	}
	if m.Score == nil {
		return 0
	}
	if m.Score.Winner == 1 || m.Score.Winner == 2 {
		return m.Score.Winner
	}
	_, _, games1, games2 := m.Score.Totals()
	switch {
	case games1 > games2:
		return 1
	case games2 > games1:
		return 2
	}
	return 0
}
