package models

import "time"

type Tiebreaker string

const (
	TiebreakHeadToHead        Tiebreaker = "head_to_head"
	TiebreakPointDifferential Tiebreaker = "point_differential"
	TiebreakPointsFor         Tiebreaker = "points_for"
	TiebreakPointsAgainst     Tiebreaker = "points_against"
	TiebreakGamesWon          Tiebreaker = "games_won"
	TiebreakRating            Tiebreaker = "rating"
)

// DefaultTiebreakers is the chain used when none is configured.
var DefaultTiebreakers = []Tiebreaker{TiebreakHeadToHead, TiebreakPointDifferential, TiebreakPointsFor}

// PoolStanding is one derived row of a pool table.
type PoolStanding struct {
	ParticipantID     int     `json:"participant_id"`
	MatchesPlayed     int     `json:"matches_played"`
	MatchesWon        int     `json:"matches_won"`
	MatchesLost       int     `json:"matches_lost"`
	GamesWon          int     `json:"games_won"`
	GamesLost         int     `json:"games_lost"`
	PointsFor         int     `json:"points_for"`
	PointsAgainst     int     `json:"points_against"`
	PointDifferential int     `json:"point_differential"`
	WinPercentage     float64 `json:"win_percentage"`
	Rank              int     `json:"rank"`
	Advances          bool    `json:"advances"`
}

type Pool struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Number           int            `json:"number"`
	Participants     []Participant  `json:"participants"`
	Matches          []PoolMatch    `json:"matches"`
	Standings        []PoolStanding `json:"standings"`
	AdvancementCount int            `json:"advancement_count"`
	Tiebreakers      []Tiebreaker   `json:"tiebreakers,omitempty"`
}

// Participant looks up a pool member by id.
func (p *Pool) Participant(id int) (Participant, bool) {
	for _, part := range p.Participants {
		if part.ID() == id {
			return part, true
		}
	}
	return Participant{}, false
}

func (p *Pool) MatchIndex(matchID string) int {
	for i := range p.Matches {
		if p.Matches[i].ID == matchID {
			return i
		}
	}
	return -1
}

// Clone deep-copies the pool's mutable parts.
func (p *Pool) Clone() *Pool {
	c := *p
	c.Participants = append([]Participant(nil), p.Participants...)
	c.Tiebreakers = append([]Tiebreaker(nil), p.Tiebreakers...)
	c.Standings = append([]PoolStanding(nil), p.Standings...)
	c.Matches = make([]PoolMatch, len(p.Matches))
	for i, m := range p.Matches {
		cm := m
		if m.Score != nil {
			sc := *m.Score
			sc.Games = append([]GameScore(nil), m.Score.Games...)
			cm.Score = &sc
		}
		cm.WinnerID = cloneInt(m.WinnerID)
		cm.LoserID = cloneInt(m.LoserID)
		if m.CompletedAt != nil {
			t := *m.CompletedAt
			cm.CompletedAt = &t
		}
		c.Matches[i] = cm
	}
	return &c
}

// PoolStage is the persisted unit for pool play: every pool generated in
// one call plus the playoff bracket built from it, if any.
type PoolStage struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Pools            []Pool       `json:"pools"`
	AdvancementCount int          `json:"advancement_count"`
	Tiebreakers      []Tiebreaker `json:"tiebreakers,omitempty"`
	PlayoffSetID     string       `json:"playoff_set_id,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

func (s *PoolStage) PoolIndex(poolID string) int {
	for i := range s.Pools {
		if s.Pools[i].ID == poolID {
			return i
		}
	}
	return -1
}
