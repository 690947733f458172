package brackets

import (
	"fmt"
	"strings"

	"github.com/Dosada05/bracket-engine/models"
)

// GameRules describe how a single game is won: first to PointsToWin with a
// lead of WinBy, unless a side reaches Cap first.
type GameRules struct {
	PointsToWin int  `json:"points_to_win"`
	WinBy       int  `json:"win_by"`
	Cap         *int `json:"cap,omitempty"`
}

var DefaultGameRules = GameRules{PointsToWin: 11, WinBy: 2}

// GameWinner returns 1 or 2 for a finished game and 0 while it is still open.
func GameWinner(game models.GameScore, rules GameRules) int {
	if rules.Cap != nil {
		switch {
		case game.Side1 >= *rules.Cap && game.Side1 > game.Side2:
			return 1
		case game.Side2 >= *rules.Cap && game.Side2 > game.Side1:
			return 2
		}
	}
	winBy := max(rules.WinBy, 1)
	switch {
	case game.Side1 >= rules.PointsToWin && game.Side1-game.Side2 >= winBy:
		return 1
	case game.Side2 >= rules.PointsToWin && game.Side2-game.Side1 >= winBy:
		return 2
	}
	return 0
}

// MatchWinner returns the side that has taken a majority of bestOf games,
// or 0 if neither has yet.
func MatchWinner(games []models.GameScore, bestOf int, rules GameRules) int {
	need := (max(bestOf, 1) + 1) / 2
	won := [3]int{}
	for _, g := range games {
		won[GameWinner(g, rules)]++
		if won[1] >= need {
			return 1
		}
		if won[2] >= need {
			return 2
		}
	}
	return 0
}

// FormatScore renders games as "11-7, 9-11, 11-5". An empty score renders
// as an empty string.
func FormatScore(score *models.Score) string {
	if score == nil {
		return ""
	}
	parts := make([]string, len(score.Games))
	for i, g := range score.Games {
		parts[i] = fmt.Sprintf("%d-%d", g.Side1, g.Side2)
	}
	return strings.Join(parts, ", ")
}
