package models

import "time"

type BracketType string

const (
	BracketWinners     BracketType = "winners"
	BracketLosers      BracketType = "losers"
	BracketConsolation BracketType = "consolation"
	BracketFinals      BracketType = "finals"
)

type Round struct {
	Number     int      `json:"number"`
	Name       string   `json:"name"`
	MatchIDs   []string `json:"match_ids"`
	BestOf     int      `json:"best_of"`
	IsComplete bool     `json:"is_complete"`
}

// Bracket is an arena of matches keyed by id; Rounds keep display order.
type Bracket struct {
	ID                string                   `json:"id"`
	Name              string                   `json:"name"`
	Type              BracketType              `json:"type"`
	Participants      []Participant            `json:"participants"`
	Rounds            []Round                  `json:"rounds"`
	Matches           map[string]*BracketMatch `json:"matches"`
	ThirdPlaceMatchID string                   `json:"third_place_match_id,omitempty"`
	IsComplete        bool                     `json:"is_complete"`
	ChampionID        *int                     `json:"champion_id,omitempty"`
	RunnerUpID        *int                     `json:"runner_up_id,omitempty"`
	ThirdPlaceID      *int                     `json:"third_place_id,omitempty"`
}

func (b *Bracket) Match(id string) (*BracketMatch, bool) {
	m, ok := b.Matches[id]
	return m, ok
}

// OrderedMatches lists round matches by round then position, followed by
// the third-place match if there is one.
func (b *Bracket) OrderedMatches() []*BracketMatch {
	out := make([]*BracketMatch, 0, len(b.Matches))
	for _, r := range b.Rounds {
		for _, id := range r.MatchIDs {
			if m, ok := b.Matches[id]; ok {
				out = append(out, m)
			}
		}
	}
	if m, ok := b.Matches[b.ThirdPlaceMatchID]; ok {
		out = append(out, m)
	}
	return out
}

// FinalMatch is the single match of the last round.
func (b *Bracket) FinalMatch() (*BracketMatch, bool) {
	if len(b.Rounds) == 0 {
		return nil, false
	}
	last := b.Rounds[len(b.Rounds)-1]
	if len(last.MatchIDs) != 1 {
		return nil, false
	}
	return b.Match(last.MatchIDs[0])
}

func (b *Bracket) Clone() *Bracket {
	c := *b
	c.Participants = append([]Participant(nil), b.Participants...)
	c.Rounds = make([]Round, len(b.Rounds))
	for i, r := range b.Rounds {
		r.MatchIDs = append([]string(nil), r.MatchIDs...)
		c.Rounds[i] = r
	}
	c.Matches = make(map[string]*BracketMatch, len(b.Matches))
	for id, m := range b.Matches {
		c.Matches[id] = m.Clone()
	}
	c.ChampionID = cloneInt(b.ChampionID)
	c.RunnerUpID = cloneInt(b.RunnerUpID)
	c.ThirdPlaceID = cloneInt(b.ThirdPlaceID)
	return &c
}

type EliminationFormat string

const (
	FormatSingleElimination EliminationFormat = "single_elimination"
	FormatDoubleElimination EliminationFormat = "double_elimination"
)

// BracketSet groups brackets that reference each other's matches: the main
// bracket first, then losers/finals or consolation brackets.
type BracketSet struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Format     EliminationFormat `json:"format"`
	Brackets   []*Bracket        `json:"brackets"`
	ArchivedAt *time.Time        `json:"archived_at,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

func (s *BracketSet) Bracket(id string) (*Bracket, int) {
	for i, b := range s.Brackets {
		if b.ID == id {
			return b, i
		}
	}
	return nil, -1
}

func (s *BracketSet) BracketOfType(t BracketType) *Bracket {
	for _, b := range s.Brackets {
		if b.Type == t {
			return b
		}
	}
	return nil
}

// FindMatch locates a match across every bracket of the set.
func (s *BracketSet) FindMatch(matchID string) (*Bracket, *BracketMatch) {
	for _, b := range s.Brackets {
		if m, ok := b.Matches[matchID]; ok {
			return b, m
		}
	}
	return nil, nil
}

// Decider is the bracket whose champion wins the event: finals for double
// elimination, otherwise the main bracket.
func (s *BracketSet) Decider() *Bracket {
	if f := s.BracketOfType(BracketFinals); f != nil {
		return f
	}
	if len(s.Brackets) == 0 {
		return nil
	}
	return s.Brackets[0]
}

func (s *BracketSet) IsComplete() bool {
	if len(s.Brackets) == 0 {
		return false
	}
	for _, b := range s.Brackets {
		if !b.IsComplete {
			return false
		}
	}
	return true
}

func (s *BracketSet) Clone() *BracketSet {
	c := *s
	c.Brackets = make([]*Bracket, len(s.Brackets))
	for i, b := range s.Brackets {
		c.Brackets[i] = b.Clone()
	}
	if s.ArchivedAt != nil {
		t := *s.ArchivedAt
		c.ArchivedAt = &t
	}
	return &c
}
