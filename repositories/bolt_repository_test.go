package repositories

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/bracket-engine/models"
)

func openTestStore(t *testing.T) *BoltStore {
	t.Helper()
	store, err := OpenBoltStore(filepath.Join(t.TempDir(), "nested", "brackets.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBoltBracketSetCreateAndGet(t *testing.T) {
	repo := NewBoltBracketSetRepository(openTestStore(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, sampleSet("set-1", 5)))
	assert.ErrorIs(t, repo.Create(ctx, sampleSet("set-1", 5)), ErrSnapshotConflict)

	got, err := repo.GetByID(ctx, "set-1")
	require.NoError(t, err)
	assert.Equal(t, "Open Singles", got.Name)
	assert.Len(t, got.Brackets[0].Participants, 5)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestBoltBracketSetUpdate(t *testing.T) {
	repo := NewBoltBracketSetRepository(openTestStore(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, sampleSet("set-1", 4)))

	boom := errors.New("rejected")
	_, err := repo.Update(ctx, "set-1", func(*models.BracketSet) (*models.BracketSet, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	updated, err := repo.Update(ctx, "set-1", func(set *models.BracketSet) (*models.BracketSet, error) {
		set.Name = "Renamed"
		return set, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	got, err := repo.GetByID(ctx, "set-1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))

	_, err = repo.Update(ctx, "missing", func(s *models.BracketSet) (*models.BracketSet, error) { return s, nil })
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestBoltBracketSetConcurrentUpdatesSerialize(t *testing.T) {
	repo := NewBoltBracketSetRepository(openTestStore(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, sampleSet("set-1", 4)))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Update(ctx, "set-1", func(set *models.BracketSet) (*models.BracketSet, error) {
				set.Name += "x"
				return set, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, "set-1")
	require.NoError(t, err)
	assert.Equal(t, "Open Singles"+"xxxxxxxxxxxxxxxxxxxx", got.Name)
}

func TestBoltBracketSetArchiving(t *testing.T) {
	repo := NewBoltBracketSetRepository(openTestStore(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, sampleSet("open", 4)))
	require.NoError(t, repo.Create(ctx, completedSet("done", 4)))

	sets, err := repo.ListArchivable(ctx, 10)
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, "done", sets[0].ID)

	require.NoError(t, repo.MarkArchived(ctx, "done", time.Now()))
	sets, err = repo.ListArchivable(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, sets)

	got, err := repo.GetByID(ctx, "done")
	require.NoError(t, err)
	assert.NotNil(t, got.ArchivedAt)

	assert.ErrorIs(t, repo.MarkArchived(ctx, "missing", time.Now()), ErrSnapshotNotFound)
}

func TestBoltPoolStageRepository(t *testing.T) {
	repo := NewBoltPoolStageRepository(openTestStore(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, sampleStage("stage-1")))

	updated, err := repo.Update(ctx, "stage-1", func(stage *models.PoolStage) (*models.PoolStage, error) {
		stage.PlayoffSetID = "playoff-1"
		return stage, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "playoff-1", updated.PlayoffSetID)

	got, err := repo.GetByID(ctx, "stage-1")
	require.NoError(t, err)
	assert.Equal(t, "playoff-1", got.PlayoffSetID)
	assert.Len(t, got.Pools, 2)
}

func TestBoltRespectsCanceledContext(t *testing.T) {
	repo := NewBoltBracketSetRepository(openTestStore(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.GetByID(ctx, "set-1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBoltAttachPlayoffSharesStoreWithBracketSets(t *testing.T) {
	store := openTestStore(t)
	stages := NewBoltPoolStageRepository(store)
	sets := NewBoltBracketSetRepository(store)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, stages.Create(ctx, sampleStage("stage-1")))

	boom := errors.New("cannot build")
	_, err := stages.AttachPlayoff(ctx, "stage-1", func(*models.PoolStage) (*models.BracketSet, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	done := make(chan error, 1)
	go func() {
		_, err := stages.AttachPlayoff(ctx, "stage-1", func(stage *models.PoolStage) (*models.BracketSet, error) {
			assert.Empty(t, stage.PlayoffSetID)
			return sampleSet("playoff-1", 4), nil
		})
		done <- err
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-ctx.Done():
		t.Fatal("attaching the playoff did not finish")
	}

	stage, err := stages.GetByID(ctx, "stage-1")
	require.NoError(t, err)
	assert.Equal(t, "playoff-1", stage.PlayoffSetID)
	playoff, err := sets.GetByID(ctx, "playoff-1")
	require.NoError(t, err)
	assert.False(t, playoff.CreatedAt.IsZero())

	_, err = stages.AttachPlayoff(ctx, "stage-1", func(*models.PoolStage) (*models.BracketSet, error) {
		return sampleSet("playoff-2", 4), nil
	})
	assert.ErrorIs(t, err, ErrPlayoffAlreadyAttached)
	_, err = sets.GetByID(ctx, "playoff-2")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	_, err = stages.AttachPlayoff(ctx, "missing", func(*models.PoolStage) (*models.BracketSet, error) { return nil, nil })
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}
