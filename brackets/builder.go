package brackets

import (
	"fmt"

	"github.com/Dosada05/bracket-engine/models"
)

// feed is what flows into a bracket slot: a seeded participant, or the
// winner/loser of an earlier match. from is the producing match, whose
// destination gets wired when the feed is consumed.
type feed struct {
	slot  models.MatchSlot
	from  *models.BracketMatch
	loser bool
}

func seededFeed(p models.Participant, source *models.SlotSource) feed {
	return feed{slot: models.MatchSlot{
		ParticipantID: models.IntPtr(p.ID()),
		Seed:          p.Seed,
		Source:        source,
	}}
}

func deadFeed() feed {
	return feed{}
}

// winnerFeed describes the eventual winner of m.
func winnerFeed(m *models.BracketMatch) feed {
	f := feed{from: m}
	if m.IsBye && m.Status.Done() && m.WinnerID == nil {
		return f
	}
	f.slot.Source = &models.SlotSource{Kind: models.SourceMatchWinner, BracketID: m.BracketID, MatchID: m.ID}
	if m.WinnerID != nil {
		f.slot.ParticipantID = models.IntPtr(*m.WinnerID)
		f.slot.Seed = seedOf(m, *m.WinnerID)
	}
	return f
}

// loserFeed describes the eventual loser of m. Bye matches never produce one.
func loserFeed(m *models.BracketMatch) feed {
	f := feed{from: m, loser: true}
	if m.IsBye {
		return f
	}
	f.slot.Source = &models.SlotSource{Kind: models.SourceMatchLoser, BracketID: m.BracketID, MatchID: m.ID}
	if m.LoserID != nil {
		f.slot.ParticipantID = models.IntPtr(*m.LoserID)
		f.slot.Seed = seedOf(m, *m.LoserID)
	}
	return f
}

func seedOf(m *models.BracketMatch, participantID int) *int {
	for _, s := range []models.MatchSlot{m.Slot1, m.Slot2} {
		if s.ParticipantID != nil && *s.ParticipantID == participantID && s.Seed != nil {
			return models.IntPtr(*s.Seed)
		}
	}
	return nil
}

type treeBuilder struct {
	bracket *models.Bracket
	prefix  string
}

func newBracket(id, name string, t models.BracketType, participants []models.Participant) *models.Bracket {
	return &models.Bracket{
		ID:           id,
		Name:         name,
		Type:         t,
		Participants: participants,
		Rounds:       []models.Round{},
		Matches:      make(map[string]*models.BracketMatch),
	}
}

func (tb *treeBuilder) matchID(round, position int) string {
	return fmt.Sprintf("%sR%dM%d", tb.prefix, round, position)
}

// addMatch creates a match from two feeds and wires the producers'
// destinations. A match with one dead side is a bye: resolved now when the
// live side is known, otherwise it resolves when that participant arrives.
func (tb *treeBuilder) addMatch(id, label string, round, position, bestOf int, f1, f2 feed) *models.BracketMatch {
	m := &models.BracketMatch{
		ID:        id,
		BracketID: tb.bracket.ID,
		Label:     label,
		Round:     round,
		Position:  position,
		BestOf:    bestOf,
		Slot1:     f1.slot,
		Slot2:     f2.slot,
		Status:    models.StatusScheduled,
	}
	for slot, f := range map[int]feed{1: f1, 2: f2} {
		if f.from == nil {
			continue
		}
		ref := &models.SlotRef{BracketID: m.BracketID, MatchID: m.ID, Slot: slot}
		if f.loser {
			f.from.LoserGoesTo = ref
		} else {
			f.from.WinnerGoesTo = ref
		}
	}

	dead1, dead2 := m.Slot1.Dead(), m.Slot2.Dead()
	switch {
	case dead1 && dead2:
		m.IsBye = true
		m.Status = models.StatusBye
	case dead1 || dead2:
		m.IsBye = true
		resolveBye(m)
	}

	tb.bracket.Matches[m.ID] = m
	return m
}

// resolveBye completes a bye once its live side holds a participant.
func resolveBye(m *models.BracketMatch) bool {
	live := m.Slot1
	if m.Slot1.Dead() {
		live = m.Slot2
	}
	if live.ParticipantID == nil {
		return false
	}
	m.Status = models.StatusBye
	m.WinnerID = models.IntPtr(*live.ParticipantID)
	m.LoserID = nil
	return true
}

func (tb *treeBuilder) addRound(name string, bestOf int, pairs [][2]feed, label func(round, position, count int) string) []*models.BracketMatch {
	number := len(tb.bracket.Rounds) + 1
	round := models.Round{Number: number, Name: name, BestOf: bestOf, MatchIDs: make([]string, 0, len(pairs))}
	matches := make([]*models.BracketMatch, 0, len(pairs))
	for i, pair := range pairs {
		id := tb.matchID(number, i+1)
		m := tb.addMatch(id, label(number, i+1, len(pairs)), number, i+1, bestOf, pair[0], pair[1])
		round.MatchIDs = append(round.MatchIDs, id)
		matches = append(matches, m)
	}
	tb.bracket.Rounds = append(tb.bracket.Rounds, round)
	return matches
}

// halvingRounds plays adjacent feeds against each other until one remains.
// roundInfo receives the distance from the final (1 = final) and returns the
// round name and best-of.
func (tb *treeBuilder) halvingRounds(feeds []feed, roundInfo func(distance int) (string, int), label func(round, position, count int) string) []*models.BracketMatch {
	var last []*models.BracketMatch
	total := log2(len(feeds))
	for distance := total; distance >= 1; distance-- {
		pairs := make([][2]feed, 0, len(feeds)/2)
		for i := 0; i+1 < len(feeds); i += 2 {
			pairs = append(pairs, [2]feed{feeds[i], feeds[i+1]})
		}
		name, bestOf := roundInfo(distance)
		last = tb.addRound(name, bestOf, pairs, label)
		feeds = make([]feed, len(last))
		for i, m := range last {
			feeds[i] = winnerFeed(m)
		}
	}
	return last
}

// foldPairs pairs the i-th feed with the i-th from the end; an odd middle
// feed gets a bye.
func foldPairs(feeds []feed) [][2]feed {
	pairs := make([][2]feed, 0, (len(feeds)+1)/2)
	for i := 0; i < len(feeds)/2; i++ {
		pairs = append(pairs, [2]feed{feeds[i], feeds[len(feeds)-1-i]})
	}
	if len(feeds)%2 == 1 {
		pairs = append(pairs, [2]feed{feeds[len(feeds)/2], deadFeed()})
	}
	return pairs
}

// adjacentPairs pairs feeds 0-1, 2-3, ...; an odd last feed gets a bye.
func adjacentPairs(feeds []feed) [][2]feed {
	pairs := make([][2]feed, 0, (len(feeds)+1)/2)
	for i := 0; i < len(feeds); i += 2 {
		if i+1 < len(feeds) {
			pairs = append(pairs, [2]feed{feeds[i], feeds[i+1]})
		} else {
			pairs = append(pairs, [2]feed{feeds[i], deadFeed()})
		}
	}
	return pairs
}

func nextPowerOfTwo(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

func log2(n int) int {
	r := 0
	for n > 1 {
		n >>= 1
		r++
	}
	return r
}
