package brackets

import (
	"testing"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordMatchResult_PropagatesWinnerAndSeed(t *testing.T) {
	b := BuildSingleElimination(field(4), BracketOptions{Seeding: models.SeedingRating})
	out := RecordMatchResult(b, "R1M1", win(2), testTime)

	m := out.Matches["R1M1"]
	assert.Equal(t, models.StatusCompleted, m.Status)
	assert.Equal(t, 4, pid(m.WinnerID))
	assert.Equal(t, 1, pid(m.LoserID))
	require.NotNil(t, m.CompletedAt)
	assert.True(t, m.CompletedAt.Equal(testTime))
	assert.Equal(t, 2, m.Score.Winner)

	final := out.Matches["R2M1"]
	assert.Equal(t, 4, pid(final.Slot1.ParticipantID))
	assert.Equal(t, 4, pid(final.Slot1.Seed))
	assert.True(t, final.Slot2.Pending())

	// the input is left alone
	assert.Equal(t, models.StatusScheduled, b.Matches["R1M1"].Status)
	assert.Nil(t, b.Matches["R2M1"].Slot1.ParticipantID)
}

func TestRecordMatchResult_UnknownMatch(t *testing.T) {
	b := BuildSingleElimination(field(4), BracketOptions{})
	assert.Same(t, b, RecordMatchResult(b, "nope", win(1), testTime))
}

func TestRecordMatchResult_WaitingMatchIsUntouched(t *testing.T) {
	b := BuildSingleElimination(field(5), BracketOptions{Seeding: models.SeedingRating})
	require.True(t, b.Matches["R2M1"].Slot2.Pending())

	out := RecordMatchResult(b, "R2M1", win(1), testTime)
	assert.Same(t, b, out)
	assert.Nil(t, out.Matches["R2M1"].Slot2.ParticipantID)
	assert.Equal(t, models.StatusScheduled, out.Matches["R2M1"].Status)

	assert.Same(t, b, RecordMatchResult(b, "R1M1", win(1), testTime), "byes cannot be recorded")
}

func TestRecordMatchResult_WinnerFromGames(t *testing.T) {
	b := BuildSingleElimination(field(2), BracketOptions{Seeding: models.SeedingRating})
	score := models.Score{Games: []models.GameScore{{Side1: 8, Side2: 11}, {Side1: 11, Side2: 4}, {Side1: 9, Side2: 11}}}

	out := RecordMatchResult(b, "R1M1", score, testTime)
	assert.Equal(t, 2, pid(out.ChampionID))
	assert.Equal(t, 1, pid(out.RunnerUpID))

	undecided := models.Score{Games: []models.GameScore{{Side1: 11, Side2: 4}, {Side1: 4, Side2: 11}}}
	assert.Same(t, b, RecordMatchResult(b, "R1M1", undecided, testTime))
}

func TestRecordMatchResult_RerecordOverwrites(t *testing.T) {
	b := BuildSingleElimination(field(4), BracketOptions{Seeding: models.SeedingRating})
	b = RecordMatchResult(b, "R1M1", win(1), testTime)
	b = RecordMatchResult(b, "R1M1", win(2), testTime)

	assert.Equal(t, 4, pid(b.Matches["R1M1"].WinnerID))
	assert.Equal(t, 4, pid(b.Matches["R2M1"].Slot1.ParticipantID))
}

func TestRecordMatchResult_RerecordResetsDownstream(t *testing.T) {
	b := BuildSingleElimination(field(4), BracketOptions{Seeding: models.SeedingRating})
	b = RecordMatchResult(b, "R1M1", win(1), testTime)
	b = RecordMatchResult(b, "R1M2", win(1), testTime)
	b = RecordMatchResult(b, "R2M1", win(1), testTime)
	require.True(t, b.IsComplete)
	require.Equal(t, 1, pid(b.ChampionID))

	b = RecordMatchResult(b, "R1M1", win(2), testTime)
	final := b.Matches["R2M1"]
	assert.Equal(t, 4, pid(final.Slot1.ParticipantID))
	assert.Equal(t, 2, pid(final.Slot2.ParticipantID))
	assert.Equal(t, models.StatusScheduled, final.Status)
	assert.Nil(t, final.WinnerID)
	assert.Nil(t, final.LoserID)
	assert.Nil(t, final.Score)
	assert.Nil(t, final.CompletedAt)
	assert.False(t, b.IsComplete)
	assert.Nil(t, b.ChampionID)
	assert.True(t, final.Ready())

	b = RecordMatchResult(b, "R2M1", win(1), testTime)
	assert.Equal(t, 4, pid(b.ChampionID))
	assert.Equal(t, 2, pid(b.RunnerUpID))
}

func TestRecordSetResult_RerecordWithdrawsAcrossBrackets(t *testing.T) {
	set := BuildBracketSet(field(8), SetOptions{
		BracketOptions: BracketOptions{Seeding: models.SeedingRating},
		Format:         models.FormatSingleElimination,
		ThirdPlace:     true,
	})
	set = playAll(set)
	require.True(t, set.IsComplete())
	main := set.Brackets[0]
	require.Equal(t, 1, pid(main.ChampionID))

	// seed 4 now wins the first semifinal: the final and bronze both reopen
	set = RecordSetResult(set, "R2M1", win(2), testTime)
	main = set.Brackets[0]
	final, bronze := main.Matches["R3M1"], main.Matches[ThirdPlaceMatchID]
	assert.Equal(t, 4, pid(final.Slot1.ParticipantID))
	assert.Equal(t, 1, pid(bronze.Slot1.ParticipantID))
	assert.Equal(t, models.StatusScheduled, final.Status)
	assert.Equal(t, models.StatusScheduled, bronze.Status)
	assert.Nil(t, main.ChampionID)
	assert.Nil(t, main.ThirdPlaceID)

	set = playAll(set)
	main = set.Brackets[0]
	assert.True(t, set.IsComplete())
	assert.Equal(t, 4, pid(main.ChampionID))
	assert.Equal(t, 1, pid(main.ThirdPlaceID))
}

func TestRecordMatchResult_RerecordSameWinnerKeepsDownstream(t *testing.T) {
	b := BuildSingleElimination(field(4), BracketOptions{Seeding: models.SeedingRating})
	b = RecordMatchResult(b, "R1M1", win(1), testTime)
	b = RecordMatchResult(b, "R1M2", win(1), testTime)
	b = RecordMatchResult(b, "R2M1", win(1), testTime)

	closer := models.Score{Games: []models.GameScore{{Side1: 11, Side2: 9}}}
	b = RecordMatchResult(b, "R1M1", closer, testTime)
	assert.Equal(t, 9, b.Matches["R1M1"].Score.Games[0].Side2)
	assert.Equal(t, models.StatusCompleted, b.Matches["R2M1"].Status)
	assert.Equal(t, 1, pid(b.ChampionID))
}

func TestRecordMatchResult_Completion(t *testing.T) {
	b := BuildSingleElimination(field(4), BracketOptions{Seeding: models.SeedingRating})
	b = RecordMatchResult(b, "R1M1", win(1), testTime)
	assert.False(t, b.Rounds[0].IsComplete)

	b = RecordMatchResult(b, "R1M2", win(2), testTime)
	assert.True(t, b.Rounds[0].IsComplete)
	assert.False(t, b.IsComplete)
	assert.Nil(t, b.ChampionID)

	b = RecordMatchResult(b, "R2M1", win(2), testTime)
	assert.True(t, b.Rounds[1].IsComplete)
	assert.True(t, b.IsComplete)
	assert.Equal(t, 3, pid(b.ChampionID))
	assert.Equal(t, 1, pid(b.RunnerUpID))
}

func TestRecordMatchResult_ByeRoundCompleteAtBuild(t *testing.T) {
	b := BuildSingleElimination(field(3), BracketOptions{Seeding: models.SeedingRating})
	assert.False(t, b.Rounds[0].IsComplete)

	b = RecordMatchResult(b, "R1M2", win(1), testTime)
	assert.True(t, b.Rounds[0].IsComplete)
	assert.True(t, b.Matches["R2M1"].Ready())
}

func TestStartMatch(t *testing.T) {
	b := BuildSingleElimination(field(4), BracketOptions{})
	started := StartMatch(b, "R1M1")

	assert.Equal(t, models.StatusInProgress, started.Matches["R1M1"].Status)
	assert.Equal(t, models.StatusScheduled, b.Matches["R1M1"].Status)
	assert.Len(t, InProgressMatches(started), 1)
	assert.Same(t, b, StartMatch(b, "R2M1"), "final is not ready yet")
	assert.Same(t, started, StartMatch(started, "R1M1"), "already started")

	done := RecordMatchResult(started, "R1M1", win(1), testTime)
	assert.Equal(t, models.StatusCompleted, done.Matches["R1M1"].Status)
}

func TestRecordPoolResult(t *testing.T) {
	pool := BuildRoundRobinEvent(field(3), PoolOptions{AdvancementCount: 1})
	m := pool.Matches[0]

	out := RecordPoolResult(pool, m.ID, win(2), testTime)
	recorded := out.Matches[0]
	assert.Equal(t, models.StatusCompleted, recorded.Status)
	assert.Equal(t, m.Participant2ID, pid(recorded.WinnerID))
	assert.Equal(t, m.Participant1ID, pid(recorded.LoserID))
	assert.Equal(t, m.Participant2ID, out.Standings[0].ParticipantID)
	assert.True(t, out.Standings[0].Advances)

	assert.Equal(t, models.StatusScheduled, pool.Matches[0].Status)
	assert.Zero(t, pool.Standings[0].MatchesPlayed)

	unchanged := RecordPoolResult(pool, "missing", win(1), testTime)
	assert.Equal(t, pool.Matches, unchanged.Matches)
}

func TestStartPoolMatch(t *testing.T) {
	pool := BuildRoundRobinEvent(field(4), PoolOptions{})
	started := StartPoolMatch(pool, pool.Matches[1].ID)
	assert.Equal(t, models.StatusInProgress, started.Matches[1].Status)
	assert.Equal(t, models.StatusScheduled, pool.Matches[1].Status)

	again := StartPoolMatch(started, pool.Matches[1].ID)
	assert.Equal(t, models.StatusInProgress, again.Matches[1].Status)
}
