package brackets

import (
	"time"

	"github.com/Dosada05/bracket-engine/models"
)

// RecordMatchResult applies a completed score to one match of a standalone
// bracket and returns the updated copy. Unknown ids, byes and matches still
// waiting on a participant return b itself.
func RecordMatchResult(b *models.Bracket, matchID string, score models.Score, at time.Time) *models.Bracket {
	set := &models.BracketSet{Brackets: []*models.Bracket{b}}
	return RecordSetResult(set, matchID, score, at).Brackets[0]
}

// RecordSetResult applies a completed score to a match anywhere in the set
// and pushes the winner and loser into their destination slots, following
// the edges into sibling brackets. Byes that were waiting on one of those
// participants resolve along the way. Recording the same match again
// overwrites the earlier result and re-propagates. When that changes who
// advances, downstream matches the old participants had reached are reset
// to scheduled and everything they propagated is withdrawn first.
func RecordSetResult(set *models.BracketSet, matchID string, score models.Score, at time.Time) *models.BracketSet {
	_, m := set.FindMatch(matchID)
	if m == nil || !recordable(m) {
		return set
	}
	side := WinningSide(score)
	if side == 0 {
		return set
	}

	out := set.Clone()
	_, m = out.FindMatch(matchID)

	winner, loser := m.Slot1, m.Slot2
	if side == 2 {
		winner, loser = m.Slot2, m.Slot1
	}
	if m.Status == models.StatusCompleted && m.WinnerID != nil && *m.WinnerID != *winner.ParticipantID {
		withdraw(out, m.WinnerGoesTo, *m.WinnerID)
		if m.LoserID != nil {
			withdraw(out, m.LoserGoesTo, *m.LoserID)
		}
	}
	recorded := score
	recorded.Games = append([]models.GameScore(nil), score.Games...)
	recorded.Winner = side
	completedAt := at
	m.Score = &recorded
	m.Status = models.StatusCompleted
	m.WinnerID = models.IntPtr(*winner.ParticipantID)
	m.LoserID = models.IntPtr(*loser.ParticipantID)
	m.CompletedAt = &completedAt

	queue := []placement{
		{to: m.WinnerGoesTo, slot: winner},
		{to: m.LoserGoesTo, slot: loser},
	}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		queue = append(queue, place(out, next)...)
	}

	for _, b := range out.Brackets {
		refreshCompletion(b)
	}
	return out
}

func recordable(m *models.BracketMatch) bool {
	if m.IsBye || m.Status == models.StatusCanceled {
		return false
	}
	return m.Slot1.Filled() && m.Slot2.Filled()
}

// WinningSide is the side (1 or 2) a score awards the match to, or 0 when
// it names no winner. A declared winner is trusted; otherwise games decide.
func WinningSide(score models.Score) int {
	if score.Winner == 1 || score.Winner == 2 {
		return score.Winner
	}
	_, _, games1, games2 := score.Totals()
	switch {
	case games1 > games2:
		return 1
	case games2 > games1:
		return 2
	}
	return 0
}

type placement struct {
	to   *models.SlotRef
	slot models.MatchSlot
}

// place writes a participant into its destination slot. When that resolves
// a waiting bye, the bye's winner is returned as a further placement.
func place(set *models.BracketSet, p placement) []placement {
	if p.to == nil || p.slot.ParticipantID == nil {
		return nil
	}
	target := destination(set, p.to)
	if target == nil {
		return nil
	}

	dst := target.SlotAt(p.to.Slot)
	dst.ParticipantID = models.IntPtr(*p.slot.ParticipantID)
	dst.Seed = nil
	if p.slot.Seed != nil {
		dst.Seed = models.IntPtr(*p.slot.Seed)
	}

	if target.IsBye && resolveBye(target) {
		return []placement{{to: target.WinnerGoesTo, slot: *target.SlotAt(p.to.Slot)}}
	}
	return nil
}

// withdraw takes participantID back out of the slot ref names. A match that
// had already started or finished with it is reset, and whatever that
// match sent on is withdrawn in turn.
func withdraw(set *models.BracketSet, ref *models.SlotRef, participantID int) {
	if ref == nil {
		return
	}
	target := destination(set, ref)
	if target == nil {
		return
	}
	dst := target.SlotAt(ref.Slot)
	if dst.ParticipantID == nil || *dst.ParticipantID != participantID {
		return
	}
	dst.ParticipantID, dst.Seed = nil, nil

	winnerID, loserID := target.WinnerID, target.LoserID
	target.WinnerID, target.LoserID = nil, nil
	target.Score, target.CompletedAt = nil, nil
	if target.IsBye {
		// A bye with its live side emptied waits again.
		if !target.Slot1.Dead() || !target.Slot2.Dead() {
			target.Status = models.StatusScheduled
		}
	} else if target.Status != models.StatusCanceled {
		target.Status = models.StatusScheduled
	}
	if winnerID != nil {
		withdraw(set, target.WinnerGoesTo, *winnerID)
	}
	if loserID != nil {
		withdraw(set, target.LoserGoesTo, *loserID)
	}
}

func destination(set *models.BracketSet, ref *models.SlotRef) *models.BracketMatch {
	if b, _ := set.Bracket(ref.BracketID); b != nil {
		if m, ok := b.Matches[ref.MatchID]; ok {
			return m
		}
	}
	// Edges into a bracket outside the set are dropped.
	return nil
}

// refreshCompletion recomputes round and bracket completion plus the
// placings read off the final and bronze matches.
func refreshCompletion(b *models.Bracket) {
	for i := range b.Rounds {
		complete := true
		for _, id := range b.Rounds[i].MatchIDs {
			if m, ok := b.Matches[id]; !ok || !m.Status.Done() {
				complete = false
				break
			}
		}
		b.Rounds[i].IsComplete = complete
	}

	b.ChampionID, b.RunnerUpID, b.ThirdPlaceID = nil, nil, nil
	if len(b.Matches) == 0 {
		b.IsComplete = true
		if len(b.Participants) == 1 {
			b.ChampionID = models.IntPtr(b.Participants[0].ID())
		}
		return
	}

	b.IsComplete = true
	for _, m := range b.Matches {
		if !m.Status.Done() {
			b.IsComplete = false
			break
		}
	}
	if !b.IsComplete {
		return
	}
	if final, ok := b.FinalMatch(); ok {
		b.ChampionID = cloneID(final.WinnerID)
		b.RunnerUpID = cloneID(final.LoserID)
	}
	if bronze, ok := b.Match(b.ThirdPlaceMatchID); ok {
		b.ThirdPlaceID = cloneID(bronze.WinnerID)
	}
}

func cloneID(id *int) *int {
	if id == nil {
		return nil
	}
	return models.IntPtr(*id)
}

// StartMatch marks a ready match as in progress. Anything else returns b.
func StartMatch(b *models.Bracket, matchID string) *models.Bracket {
	set := &models.BracketSet{Brackets: []*models.Bracket{b}}
	return StartSetMatch(set, matchID).Brackets[0]
}

func StartSetMatch(set *models.BracketSet, matchID string) *models.BracketSet {
	_, m := set.FindMatch(matchID)
	if m == nil || !m.Ready() || m.Status != models.StatusScheduled {
		return set
	}
	out := set.Clone()
	_, m = out.FindMatch(matchID)
	m.Status = models.StatusInProgress
	return out
}

// RecordPoolResult stores a completed score on a pool match and recomputes
// the pool's standings. Unknown ids, canceled matches and scores without a
// winner return pool unchanged.
func RecordPoolResult(pool models.Pool, matchID string, score models.Score, at time.Time) models.Pool {
	i := pool.MatchIndex(matchID)
	if i < 0 || pool.Matches[i].Status == models.StatusCanceled {
		return pool
	}
	side := WinningSide(score)
	if side == 0 {
		return pool
	}

	out := *pool.Clone()
	m := &out.Matches[i]
	recorded := score
	recorded.Games = append([]models.GameScore(nil), score.Games...)
	recorded.Winner = side
	completedAt := at
	m.Score = &recorded
	m.Status = models.StatusCompleted
	m.WinnerID, m.LoserID = models.IntPtr(m.Participant1ID), models.IntPtr(m.Participant2ID)
	if side == 2 {
		m.WinnerID, m.LoserID = m.LoserID, m.WinnerID
	}
	m.CompletedAt = &completedAt

	out.Standings = CalculateStandings(out.Matches, out.Participants, out.AdvancementCount, out.Tiebreakers)
	return out
}

// StartPoolMatch marks a scheduled pool match as in progress.
func StartPoolMatch(pool models.Pool, matchID string) models.Pool {
	i := pool.MatchIndex(matchID)
	if i < 0 || pool.Matches[i].Status != models.StatusScheduled {
		return pool
	}
	out := *pool.Clone()
	out.Matches[i].Status = models.StatusInProgress
	return out
}
