package brackets

import (
	"math"

	"github.com/Dosada05/bracket-engine/models"
)

type Progress struct {
	TotalMatches int     `json:"total_matches"`
	Completed    int     `json:"completed"`
	InProgress   int     `json:"in_progress"`
	Byes         int     `json:"byes"`
	Canceled     int     `json:"canceled"`
	Remaining    int     `json:"remaining"`
	Percent      float64 `json:"percent"`
	CurrentRound int     `json:"current_round,omitempty"`
	IsComplete   bool    `json:"is_complete"`
}

// NextMatch is the first ready, not yet started match in bracket order.
func NextMatch(bs ...*models.Bracket) *models.BracketMatch {
	ready := ReadyMatches(bs...)
	for _, m := range ready {
		if m.Status == models.StatusScheduled {
			return m
		}
	}
	return nil
}

// ReadyMatches lists matches with both participants known that are not
// finished, in bracket, round and position order.
func ReadyMatches(bs ...*models.Bracket) []*models.BracketMatch {
	return filterMatches(bs, func(m *models.BracketMatch) bool { return m.Ready() })
}

func InProgressMatches(bs ...*models.Bracket) []*models.BracketMatch {
	return filterMatches(bs, func(m *models.BracketMatch) bool { return m.Status == models.StatusInProgress })
}

func filterMatches(bs []*models.Bracket, keep func(*models.BracketMatch) bool) []*models.BracketMatch {
	out := []*models.BracketMatch{}
	for _, b := range bs {
		for _, m := range b.OrderedMatches() {
			if keep(m) {
				out = append(out, m)
			}
		}
	}
	return out
}

// BracketProgress counts matches across the given brackets. Byes and
// canceled matches do not count toward Percent.
func BracketProgress(bs ...*models.Bracket) Progress {
	var p Progress
	p.IsComplete = len(bs) > 0
	for _, b := range bs {
		if !b.IsComplete {
			p.IsComplete = false
		}
		for _, m := range b.OrderedMatches() {
			p.TotalMatches++
			switch m.Status {
			case models.StatusBye:
				p.Byes++
			case models.StatusCanceled:
				p.Canceled++
			case models.StatusCompleted:
				p.Completed++
			case models.StatusInProgress:
				p.InProgress++
			}
		}
		if p.CurrentRound == 0 {
			for _, r := range b.Rounds {
				if !r.IsComplete {
					p.CurrentRound = r.Number
					break
				}
			}
		}
	}
	finish(&p)
	return p
}

func PoolProgress(pools ...models.Pool) Progress {
	p := Progress{IsComplete: len(pools) > 0}
	for _, pool := range pools {
		for _, m := range pool.Matches {
			p.TotalMatches++
			switch m.Status {
			case models.StatusCompleted:
				p.Completed++
			case models.StatusInProgress:
				p.InProgress++
			case models.StatusCanceled:
				p.Canceled++
			}
			if !m.Status.Done() && m.Status != models.StatusCanceled {
				if p.CurrentRound == 0 || m.Round < p.CurrentRound {
					p.CurrentRound = m.Round
				}
			}
		}
	}
	finish(&p)
	p.IsComplete = p.IsComplete && p.Remaining == 0
	return p
}

func finish(p *Progress) {
	playable := p.TotalMatches - p.Byes - p.Canceled
	p.Remaining = playable - p.Completed
	if playable > 0 {
		p.Percent = math.Round(float64(p.Completed)/float64(playable)*1000) / 10
	} else {
		p.Percent = 100
	}
}

// NextPoolMatch is the scheduled match of the lowest round, lowest court.
func NextPoolMatch(pools ...models.Pool) *models.PoolMatch {
	var next *models.PoolMatch
	for pi := range pools {
		for mi := range pools[pi].Matches {
			m := &pools[pi].Matches[mi]
			if m.Status != models.StatusScheduled {
				continue
			}
			if next == nil || m.Round < next.Round || (m.Round == next.Round && m.Court < next.Court) {
				next = m
			}
		}
	}
	return next
}
