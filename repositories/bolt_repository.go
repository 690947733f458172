package repositories

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.etcd.io/bbolt"

	"github.com/Dosada05/bracket-engine/models"
)

const (
	bracketSetsBucket = "bracket_sets"
	poolStagesBucket  = "pool_stages"
)

// BoltStore keeps snapshots in a single bbolt file, one bucket per kind.
// bbolt allows one writer at a time, which serializes every Update.
type BoltStore struct {
	db *bbolt.DB
}

func OpenBoltStore(path string) (*BoltStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt store at %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{bracketSetsBucket, poolStagesBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// boltGet decodes key from bucket into dst.
func boltGet(tx *bbolt.Tx, bucket, key string, dst any) error {
	data := tx.Bucket([]byte(bucket)).Get([]byte(key))
	if data == nil {
		return ErrSnapshotNotFound
	}
	return decodeSnapshot(data, dst)
}

func boltPut(tx *bbolt.Tx, bucket, key string, v any) error {
	data, err := encodeSnapshot(v)
	if err != nil {
		return err
	}
	return tx.Bucket([]byte(bucket)).Put([]byte(key), data)
}

func boltCreate(tx *bbolt.Tx, bucket, key string, v any) error {
	if tx.Bucket([]byte(bucket)).Get([]byte(key)) != nil {
		return ErrSnapshotConflict
	}
	return boltPut(tx, bucket, key, v)
}

type boltBracketSetRepository struct {
	store *BoltStore
}

func NewBoltBracketSetRepository(store *BoltStore) BracketSetRepository {
	return &boltBracketSetRepository{store: store}
}

func (r *boltBracketSetRepository) Create(ctx context.Context, set *models.BracketSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ts := now()
	set.CreatedAt, set.UpdatedAt = ts, ts
	return r.store.db.Update(func(tx *bbolt.Tx) error {
		return boltCreate(tx, bracketSetsBucket, set.ID, set)
	})
}

func (r *boltBracketSetRepository) GetByID(ctx context.Context, id string) (*models.BracketSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var set models.BracketSet
	err := r.store.db.View(func(tx *bbolt.Tx) error {
		return boltGet(tx, bracketSetsBucket, id, &set)
	})
	if err != nil {
		return nil, err
	}
	return &set, nil
}

func (r *boltBracketSetRepository) Update(ctx context.Context, id string, fn BracketSetUpdateFunc) (*models.BracketSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var updated *models.BracketSet
	err := r.store.db.Update(func(tx *bbolt.Tx) error {
		var current models.BracketSet
		if err := boltGet(tx, bracketSetsBucket, id, &current); err != nil {
			return err
		}
		next, err := fn(&current)
		if err != nil {
			return err
		}
		next.ID = id
		next.CreatedAt = current.CreatedAt
		next.UpdatedAt = now()
		if err := boltPut(tx, bracketSetsBucket, id, next); err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *boltBracketSetRepository) ListArchivable(ctx context.Context, limit int) ([]*models.BracketSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	var sets []*models.BracketSet
	err := r.store.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bracketSetsBucket)).ForEach(func(k, v []byte) error {
			var set models.BracketSet
			if err := decodeSnapshot(v, &set); err != nil {
				return fmt.Errorf("bracket set %s: %w", k, err)
			}
			if set.ArchivedAt == nil && set.IsComplete() {
				sets = append(sets, &set)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(sets, func(i, j int) bool { return sets[i].UpdatedAt.Before(sets[j].UpdatedAt) })
	if len(sets) > limit {
		sets = sets[:limit]
	}
	return sets, nil
}

func (r *boltBracketSetRepository) MarkArchived(ctx context.Context, id string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.db.Update(func(tx *bbolt.Tx) error {
		var set models.BracketSet
		if err := boltGet(tx, bracketSetsBucket, id, &set); err != nil {
			return err
		}
		archivedAt := at.UTC()
		set.ArchivedAt = &archivedAt
		return boltPut(tx, bracketSetsBucket, id, &set)
	})
}

type boltPoolStageRepository struct {
	store *BoltStore
}

func NewBoltPoolStageRepository(store *BoltStore) PoolStageRepository {
	return &boltPoolStageRepository{store: store}
}

func (r *boltPoolStageRepository) Create(ctx context.Context, stage *models.PoolStage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ts := now()
	stage.CreatedAt, stage.UpdatedAt = ts, ts
	return r.store.db.Update(func(tx *bbolt.Tx) error {
		return boltCreate(tx, poolStagesBucket, stage.ID, stage)
	})
}

func (r *boltPoolStageRepository) GetByID(ctx context.Context, id string) (*models.PoolStage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var stage models.PoolStage
	err := r.store.db.View(func(tx *bbolt.Tx) error {
		return boltGet(tx, poolStagesBucket, id, &stage)
	})
	if err != nil {
		return nil, err
	}
	return &stage, nil
}

func (r *boltPoolStageRepository) Update(ctx context.Context, id string, fn PoolStageUpdateFunc) (*models.PoolStage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var updated *models.PoolStage
	err := r.store.db.Update(func(tx *bbolt.Tx) error {
		var current models.PoolStage
		if err := boltGet(tx, poolStagesBucket, id, &current); err != nil {
			return err
		}
		next, err := fn(&current)
		if err != nil {
			return err
		}
		next.ID = id
		next.CreatedAt = current.CreatedAt
		next.UpdatedAt = now()
		if err := boltPut(tx, poolStagesBucket, id, next); err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *boltPoolStageRepository) AttachPlayoff(ctx context.Context, stageID string, build PlayoffBuildFunc) (*models.BracketSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var playoff *models.BracketSet
	err := r.store.db.Update(func(tx *bbolt.Tx) error {
		var stage models.PoolStage
		if err := boltGet(tx, poolStagesBucket, stageID, &stage); err != nil {
			return err
		}
		if stage.PlayoffSetID != "" {
			return ErrPlayoffAlreadyAttached
		}
		set, err := build(&stage)
		if err != nil {
			return err
		}
		ts := now()
		set.CreatedAt, set.UpdatedAt = ts, ts
		if err := boltCreate(tx, bracketSetsBucket, set.ID, set); err != nil {
			return err
		}
		stage.PlayoffSetID = set.ID
		stage.UpdatedAt = ts
		if err := boltPut(tx, poolStagesBucket, stageID, &stage); err != nil {
			return err
		}
		playoff = set
		return nil
	})
	if err != nil {
		return nil, err
	}
	return playoff, nil
}
