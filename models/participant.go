package models

import (
	"fmt"
	"math"
)

type ParticipantKind string

const (
	ParticipantSingles ParticipantKind = "singles"
	ParticipantDoubles ParticipantKind = "doubles"
)

type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "pending"
	RegistrationConfirmed RegistrationStatus = "confirmed"
	RegistrationWithdrawn RegistrationStatus = "withdrawn"
)

type Player struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
}

type Team struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Player1 Player `json:"player1"`
	Player2 Player `json:"player2"`
}

// Participant is a singles player or a doubles team. Exactly one of Player
// and Team is set, matching Kind.
type Participant struct {
	Kind   ParticipantKind    `json:"kind"`
	Player *Player            `json:"player,omitempty"`
	Team   *Team              `json:"team,omitempty"`
	Seed   *int               `json:"seed,omitempty"`
	Status RegistrationStatus `json:"status,omitempty"`
}

func NewSingles(p Player) Participant {
	return Participant{Kind: ParticipantSingles, Player: &p, Status: RegistrationConfirmed}
}

func NewDoubles(t Team) Participant {
	return Participant{Kind: ParticipantDoubles, Team: &t, Status: RegistrationConfirmed}
}

// ID returns the player id for singles and the team id for doubles.
func (p Participant) ID() int {
	switch p.Kind {
	case ParticipantSingles:
		if p.Player != nil {
			return p.Player.ID
		}
	case ParticipantDoubles:
		if p.Team != nil {
			return p.Team.ID
		}
	}
	return 0
}

// Rating is the player's rating, or the mean of both team members for
// doubles. Negative or non-numeric ratings read as 0.
func (p Participant) Rating() float64 {
	switch p.Kind {
	case ParticipantSingles:
		if p.Player != nil {
			return sanitizeRating(p.Player.Rating)
		}
	case ParticipantDoubles:
		if p.Team != nil {
			return (sanitizeRating(p.Team.Player1.Rating) + sanitizeRating(p.Team.Player2.Rating)) / 2
		}
	}
	return 0
}

func (p Participant) DisplayName() string {
	switch p.Kind {
	case ParticipantSingles:
		if p.Player != nil && p.Player.Name != "" {
			return p.Player.Name
		}
	case ParticipantDoubles:
		if p.Team != nil {
			if p.Team.Name != "" {
				return p.Team.Name
			}
			return p.Team.Player1.Name + " / " + p.Team.Player2.Name
		}
	}
	return fmt.Sprintf("Participant %d", p.ID())
}

// WithSeed returns a copy of p carrying the given seed.
func (p Participant) WithSeed(seed int) Participant {
	s := seed
	p.Seed = &s
	return p
}

func sanitizeRating(r float64) float64 {
	if math.IsNaN(r) || math.IsInf(r, 0) || r < 0 {
		return 0
	}
	return r
}
