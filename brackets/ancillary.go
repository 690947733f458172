package brackets

import (
	"github.com/Dosada05/bracket-engine/models"
)

const ThirdPlaceMatchID = "3P"

// AddThirdPlaceMatch returns a copy of b with a bronze match between the two
// semifinal losers. Brackets with fewer than two rounds, that already carry
// one, or whose semifinal losers are already routed elsewhere come back
// unchanged.
func AddThirdPlaceMatch(b *models.Bracket) *models.Bracket {
	if len(b.Rounds) < 2 || b.ThirdPlaceMatchID != "" {
		return b
	}
	semis := b.Rounds[len(b.Rounds)-2]
	if len(semis.MatchIDs) != 2 || routesLosers(b, semis) {
		return b
	}

	out := b.Clone()
	final := out.Rounds[len(out.Rounds)-1]
	tb := &treeBuilder{bracket: out}
	tb.addMatch(ThirdPlaceMatchID, ThirdPlaceMatchID, final.Number, 2, final.BestOf,
		loserFeed(out.Matches[semis.MatchIDs[0]]),
		loserFeed(out.Matches[semis.MatchIDs[1]]))
	out.ThirdPlaceMatchID = ThirdPlaceMatchID
	refreshCompletion(out)
	return out
}

// BuildConsolationBracket gives the first-round losers of main a bracket of
// their own: losers of matches 1 and 2 meet, then 3 and 4, and so on. It
// returns the updated main bracket, whose first-round matches now route
// their losers, and the consolation bracket. A main bracket with fewer than
// two first-round matches gets no consolation bracket (nil), and neither
// does one whose first-round losers already play on, as in a two-round
// bracket with a bronze match.
func BuildConsolationBracket(main *models.Bracket, opts BracketOptions) (*models.Bracket, *models.Bracket) {
	if len(main.Rounds) < 2 || routesLosers(main, main.Rounds[0]) {
		return main, nil
	}
	out := main.Clone()
	first := out.Rounds[0]
	feeds := make([]feed, 0, len(first.MatchIDs))
	for _, id := range first.MatchIDs {
		feeds = append(feeds, loserFeed(out.Matches[id]))
	}

	name := opts.Name
	if name == "" {
		name = "Consolation Bracket"
	}
	consolation := newBracket(idsOrDefault(opts.IDs)(), name, models.BracketConsolation, out.Participants)
	total := log2(len(feeds))
	label := mainLabel(total)
	tb := &treeBuilder{bracket: consolation, prefix: "C"}
	tb.halvingRounds(feeds, func(distance int) (string, int) {
		if distance == 1 {
			return "Consolation Finals", opts.bestOf()
		}
		return "Consolation " + RoundName(total-distance+1, total), opts.bestOf()
	}, func(round, position, count int) string {
		return "C" + label(round, position, count)
	})

	refreshCompletion(out)
	refreshCompletion(consolation)
	return out, consolation
}

func routesLosers(b *models.Bracket, round models.Round) bool {
	for _, id := range round.MatchIDs {
		if m, ok := b.Matches[id]; ok && m.LoserGoesTo != nil {
			return true
		}
	}
	return false
}
