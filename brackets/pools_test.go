package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPools_SnakeDistribution(t *testing.T) {
	seeded := assignSeeds(field(8))
	pools := BuildPools(seeded, PoolOptions{PoolCount: 2, AdvancementCount: 2, IDs: seqIDs("pool-")})

	require.Len(t, pools, 2)
	assert.Equal(t, "Pool A", pools[0].Name)
	assert.Equal(t, "Pool B", pools[1].Name)
	assert.Equal(t, []int{1, 4, 5, 8}, ids(pools[0].Participants))
	assert.Equal(t, []int{2, 3, 6, 7}, ids(pools[1].Participants))

	for _, pool := range pools {
		assert.Len(t, pool.Matches, 6)
		require.Len(t, pool.Standings, 4)
		for i, s := range pool.Standings {
			assert.Equal(t, i+1, s.Rank)
			assert.Zero(t, s.MatchesPlayed)
		}
		for _, m := range pool.Matches {
			assert.Equal(t, pool.ID, m.PoolID)
			_, ok1 := pool.Participant(m.Participant1ID)
			_, ok2 := pool.Participant(m.Participant2ID)
			assert.True(t, ok1 && ok2, "match %s references a player outside its pool", m.ID)
		}
	}
	assert.Equal(t, "PA-R1M1", pools[0].Matches[0].ID)
	assert.Equal(t, "PB-R1M1", pools[1].Matches[0].ID)
}

func TestBuildPools_TooFew(t *testing.T) {
	assert.Empty(t, BuildPools(field(2), PoolOptions{}))
}

func TestBuildPools_DefaultSizeAndClamp(t *testing.T) {
	pools := BuildPools(field(10), PoolOptions{})
	require.Len(t, pools, 3)
	total := 0
	for _, p := range pools {
		total += len(p.Participants)
	}
	assert.Equal(t, 10, total)

	assert.Len(t, BuildPools(field(5), PoolOptions{PoolCount: 4}), 2)
	assert.Len(t, BuildPools(field(9), PoolOptions{PoolSize: 3}), 3)
}

func TestBuildRoundRobinEvent(t *testing.T) {
	pool := BuildRoundRobinEvent(field(5), PoolOptions{AdvancementCount: 1, IDs: seqIDs("rr-")})

	assert.Equal(t, "rr-1", pool.ID)
	assert.Equal(t, "Round Robin", pool.Name)
	assert.Len(t, pool.Matches, 10)
	assert.Equal(t, "RR-R1M1", pool.Matches[0].ID)
	require.Len(t, pool.Standings, 5)
	assert.True(t, pool.Standings[0].Advances)
	assert.False(t, pool.Standings[1].Advances)
}

func TestPoolLabel(t *testing.T) {
	assert.Equal(t, "A", poolLabel(0))
	assert.Equal(t, "Z", poolLabel(25))
	assert.Equal(t, "AA", poolLabel(26))
	assert.Equal(t, "AB", poolLabel(27))
}

func TestSnakeIndex(t *testing.T) {
	got := make([]int, 0, 9)
	for i := 0; i < 9; i++ {
		got = append(got, snakeIndex(i, 3))
	}
	assert.Equal(t, []int{0, 1, 2, 2, 1, 0, 0, 1, 2}, got)
}
