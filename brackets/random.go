package brackets

import (
	"math/rand"

	"github.com/google/uuid"
)

// Shuffler is the random source used by random and hybrid seeding.
// *rand.Rand satisfies it; tests pass a seeded one.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type globalShuffler struct{}

func (globalShuffler) Shuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}

// DefaultShuffler uses the process-wide math/rand source.
var DefaultShuffler Shuffler = globalShuffler{}

// IDGenerator produces ids for brackets and pools.
type IDGenerator func() string

func NewUUID() string {
	return uuid.NewString()
}

func shufflerOrDefault(s Shuffler) Shuffler {
	if s == nil {
		return DefaultShuffler
	}
	return s
}

func idsOrDefault(g IDGenerator) IDGenerator {
	if g == nil {
		return NewUUID
	}
	return g
}
