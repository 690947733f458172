package brackets

import (
	"fmt"

	"github.com/Dosada05/bracket-engine/models"
)

const GrandFinalMatchID = "GF"

// BuildDoubleElimination builds a winners bracket, a losers bracket fed by
// every winners-bracket loser, and a one-match grand final between the two
// bracket champions. The grand final is never replayed.
func BuildDoubleElimination(participants []models.Participant, opts BracketOptions) *models.BracketSet {
	seeded := assignSeeds(SeedParticipants(participants, opts.Seeding, opts.Rand))
	return buildSeededDoubleElimination(seeded, nil, opts)
}

func buildSeededDoubleElimination(seeded []models.Participant, sources map[int]*models.SlotSource, opts BracketOptions) *models.BracketSet {
	ids := idsOrDefault(opts.IDs)
	opts.IDs = ids
	if opts.Name == "" {
		opts.Name = "Double Elimination"
	}

	// The winners final is not the event final.
	wbOpts := opts
	wbOpts.Name = "Winners Bracket"
	wbOpts.FinalsBestOf = opts.bestOf()
	winners := buildSeededElimination(seeded, sources, wbOpts)

	set := &models.BracketSet{
		ID:       ids(),
		Name:     opts.Name,
		Format:   models.FormatDoubleElimination,
		Brackets: []*models.Bracket{winners},
	}
	if len(seeded) < 2 {
		return set
	}

	losers := newBracket(ids(), "Losers Bracket", models.BracketLosers, seeded)
	lb := &treeBuilder{bracket: losers, prefix: "L"}
	totalRounds := len(winners.Rounds)
	lbRounds := losersRoundCount(totalRounds)
	label := func(round, position, count int) string {
		return fmt.Sprintf("L%d-%d", round, position)
	}
	lbRoundName := func() string {
		if len(losers.Rounds)+1 == lbRounds {
			return "Losers Finals"
		}
		return fmt.Sprintf("Losers Round %d", len(losers.Rounds)+1)
	}

	var survivors []feed
	for k := 1; k <= totalRounds; k++ {
		incoming := make([]feed, 0, len(winners.Rounds[k-1].MatchIDs))
		for _, id := range winners.Rounds[k-1].MatchIDs {
			incoming = append(incoming, loserFeed(winners.Matches[id]))
		}
		if k == 1 {
			survivors = winnerFeeds(lb.addRound(lbRoundName(), opts.bestOf(), adjacentPairs(incoming), label))
			continue
		}

		// Consolidate until every newcomer has exactly one survivor to meet.
		for len(survivors) > len(incoming) {
			survivors = winnerFeeds(lb.addRound(lbRoundName(), opts.bestOf(), adjacentPairs(survivors), label))
		}
		// Drop-down round: survivors meet the newcomers from the far end so
		// early rematches are avoided.
		survivors = winnerFeeds(lb.addRound(lbRoundName(), opts.bestOf(), foldPairs(append(survivors, incoming...)), label))
	}
	refreshCompletion(losers)

	finals := newBracket(ids(), "Grand Finals", models.BracketFinals, seeded)
	fb := &treeBuilder{bracket: finals}
	wbFinal, _ := winners.FinalMatch()
	gf := fb.addMatch(GrandFinalMatchID, GrandFinalMatchID, 1, 1, opts.finalsBestOf(), winnerFeed(wbFinal), survivors[0])
	finals.Rounds = append(finals.Rounds, models.Round{
		Number:   1,
		Name:     "Grand Finals",
		BestOf:   gf.BestOf,
		MatchIDs: []string{gf.ID},
	})
	refreshCompletion(finals)

	set.Brackets = append(set.Brackets, losers, finals)
	return set
}

// losersRoundCount is the number of losers-bracket rounds behind a winners
// bracket of winnersRounds rounds: the first-round losers pair off, then
// every later winners round adds a drop-down round, and each drop-down
// after the first is preceded by a consolidation round.
func losersRoundCount(winnersRounds int) int {
	if winnersRounds < 2 {
		return winnersRounds
	}
	return 2*winnersRounds - 2
}

func winnerFeeds(matches []*models.BracketMatch) []feed {
	out := make([]feed, len(matches))
	for i, m := range matches {
		out[i] = winnerFeed(m)
	}
	return out
}
