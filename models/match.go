package models

import "time"

type MatchStatus string

const (
	StatusScheduled  MatchStatus = "scheduled"
	StatusInProgress MatchStatus = "in_progress"
	StatusCompleted  MatchStatus = "completed"
	StatusBye        MatchStatus = "bye"
	StatusCanceled   MatchStatus = "canceled"
)

// Done reports whether a match in this status no longer needs to be played.
func (s MatchStatus) Done() bool {
	return s == StatusCompleted || s == StatusBye
}

type GameScore struct {
	Side1 int `json:"side1"`
	Side2 int `json:"side2"`
}

// Score is a completed result. Winner is the declared winning side (1 or 2).
type Score struct {
	Games  []GameScore `json:"games"`
	Winner int         `json:"winner"`
}

// Totals sums points and games won for each side.
func (s Score) Totals() (points1, points2, games1, games2 int) {
	for _, g := range s.Games {
		points1 += g.Side1
		points2 += g.Side2
		switch {
		case g.Side1 > g.Side2:
			games1++
		case g.Side2 > g.Side1:
			games2++
		}
	}
	return
}

// PoolMatch is a round-robin match; both participants are known when the
// schedule is built.
type PoolMatch struct {
	ID             string      `json:"id"`
	PoolID         string      `json:"pool_id,omitempty"`
	Round          int         `json:"round"`
	MatchNumber    int         `json:"match_number"`
	Court          int         `json:"court"`
	Participant1ID int         `json:"participant1_id"`
	Participant2ID int         `json:"participant2_id"`
	Status         MatchStatus `json:"status"`
	Score          *Score      `json:"score,omitempty"`
	WinnerID       *int        `json:"winner_id,omitempty"`
	LoserID        *int        `json:"loser_id,omitempty"`
	CompletedAt    *time.Time  `json:"completed_at,omitempty"`
}

func (m PoolMatch) Involves(participantID int) bool {
	return m.Participant1ID == participantID || m.Participant2ID == participantID
}

type SourceKind string

const (
	SourceMatchWinner SourceKind = "match_winner"
	SourceMatchLoser  SourceKind = "match_loser"
	SourcePoolRank    SourceKind = "pool_rank"
)

// SlotSource says where a bracket slot's participant comes from.
type SlotSource struct {
	Kind      SourceKind `json:"kind"`
	BracketID string     `json:"bracket_id,omitempty"`
	MatchID   string     `json:"match_id,omitempty"`
	PoolID    string     `json:"pool_id,omitempty"`
	PoolRank  int        `json:"pool_rank,omitempty"`
}

// SlotRef names one of the two slots (1 or 2) of a match.
type SlotRef struct {
	BracketID string `json:"bracket_id"`
	MatchID   string `json:"match_id"`
	Slot      int    `json:"slot"`
}

// MatchSlot holds one side of a bracket match. A slot with no participant
// and no match source will never be filled.
type MatchSlot struct {
	ParticipantID *int        `json:"participant_id,omitempty"`
	Seed          *int        `json:"seed,omitempty"`
	Source        *SlotSource `json:"source,omitempty"`
}

func (s MatchSlot) Filled() bool {
	return s.ParticipantID != nil
}

// Pending reports whether the slot waits on another match.
func (s MatchSlot) Pending() bool {
	return s.ParticipantID == nil && s.Source != nil && s.Source.Kind != SourcePoolRank
}

// Dead reports whether the slot can never receive a participant.
func (s MatchSlot) Dead() bool {
	return s.ParticipantID == nil && !s.Pending()
}

type BracketMatch struct {
	ID           string      `json:"id"`
	BracketID    string      `json:"bracket_id"`
	Label        string      `json:"label"`
	Round        int         `json:"round"`
	Position     int         `json:"position"`
	BestOf       int         `json:"best_of"`
	Slot1        MatchSlot   `json:"slot1"`
	Slot2        MatchSlot   `json:"slot2"`
	WinnerGoesTo *SlotRef    `json:"winner_goes_to,omitempty"`
	LoserGoesTo  *SlotRef    `json:"loser_goes_to,omitempty"`
	Status       MatchStatus `json:"status"`
	IsBye        bool        `json:"is_bye"`
	Score        *Score      `json:"score,omitempty"`
	WinnerID     *int        `json:"winner_id,omitempty"`
	LoserID      *int        `json:"loser_id,omitempty"`
	CompletedAt  *time.Time  `json:"completed_at,omitempty"`
}

func (m *BracketMatch) SlotAt(n int) *MatchSlot {
	if n == 2 {
		return &m.Slot2
	}
	return &m.Slot1
}

// Ready reports whether both participants are known and the match can be played.
func (m *BracketMatch) Ready() bool {
	return !m.IsBye && m.Slot1.Filled() && m.Slot2.Filled() &&
		(m.Status == StatusScheduled || m.Status == StatusInProgress)
}

func (m *BracketMatch) Clone() *BracketMatch {
	c := *m
	c.Slot1 = cloneSlot(m.Slot1)
	c.Slot2 = cloneSlot(m.Slot2)
	if m.WinnerGoesTo != nil {
		ref := *m.WinnerGoesTo
		c.WinnerGoesTo = &ref
	}
	if m.LoserGoesTo != nil {
		ref := *m.LoserGoesTo
		c.LoserGoesTo = &ref
	}
	if m.Score != nil {
		sc := *m.Score
		sc.Games = append([]GameScore(nil), m.Score.Games...)
		c.Score = &sc
	}
	c.WinnerID = cloneInt(m.WinnerID)
	c.LoserID = cloneInt(m.LoserID)
	if m.CompletedAt != nil {
		t := *m.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

func cloneSlot(s MatchSlot) MatchSlot {
	out := MatchSlot{ParticipantID: cloneInt(s.ParticipantID), Seed: cloneInt(s.Seed)}
	if s.Source != nil {
		src := *s.Source
		out.Source = &src
	}
	return out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// IntPtr is a small helper for optional ids.
func IntPtr(v int) *int {
	return &v
}
