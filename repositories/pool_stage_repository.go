package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/bracket-engine/models"
)

var ErrPlayoffAlreadyAttached = errors.New("pool stage already has a playoff")

type PoolStageUpdateFunc func(stage *models.PoolStage) (*models.PoolStage, error)

// PlayoffBuildFunc builds the playoff of a locked stage. It runs inside the
// write and must not call back into a repository.
type PlayoffBuildFunc func(stage *models.PoolStage) (*models.BracketSet, error)

type PoolStageRepository interface {
	Create(ctx context.Context, stage *models.PoolStage) error
	GetByID(ctx context.Context, id string) (*models.PoolStage, error)
	Update(ctx context.Context, id string, fn PoolStageUpdateFunc) (*models.PoolStage, error)
	// AttachPlayoff stores the set returned by build and links it to the
	// stage in one write. A stage that already links a playoff yields
	// ErrPlayoffAlreadyAttached.
	AttachPlayoff(ctx context.Context, stageID string, build PlayoffBuildFunc) (*models.BracketSet, error)
}

type postgresPoolStageRepository struct {
	db *sql.DB
}

func NewPostgresPoolStageRepository(db *sql.DB) PoolStageRepository {
	return &postgresPoolStageRepository{db: db}
}

func (r *postgresPoolStageRepository) Create(ctx context.Context, stage *models.PoolStage) error {
	ts := now()
	stage.CreatedAt, stage.UpdatedAt = ts, ts
	data, err := encodeSnapshot(stage)
	if err != nil {
		return err
	}
	query := `INSERT INTO pool_stages (id, name, snapshot, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`
	_, err = r.db.ExecContext(ctx, query, stage.ID, stage.Name, data, ts, ts)
	return handleSnapshotError(err)
}

func (r *postgresPoolStageRepository) GetByID(ctx context.Context, id string) (*models.PoolStage, error) {
	query := `SELECT snapshot, NULL, created_at, updated_at FROM pool_stages WHERE id = $1`
	return scanPoolStage(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresPoolStageRepository) Update(ctx context.Context, id string, fn PoolStageUpdateFunc) (*models.PoolStage, error) {
	var updated *models.PoolStage
	err := inTx(ctx, r.db, func(tx SQLExecutor) error {
		current, err := lockPoolStage(ctx, tx, id)
		if err != nil {
			return err
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		if err := writePoolStage(ctx, tx, id, current, next); err != nil {
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

func (r *postgresPoolStageRepository) AttachPlayoff(ctx context.Context, stageID string, build PlayoffBuildFunc) (*models.BracketSet, error) {
	var playoff *models.BracketSet
	err := inTx(ctx, r.db, func(tx SQLExecutor) error {
		stage, err := lockPoolStage(ctx, tx, stageID)
		if err != nil {
			return err
		}
		if stage.PlayoffSetID != "" {
			return ErrPlayoffAlreadyAttached
		}
		set, err := build(stage)
		if err != nil {
			return err
		}
		if err := insertBracketSet(ctx, tx, set); err != nil {
			return err
		}
		next := *stage
		next.PlayoffSetID = set.ID
		if err := writePoolStage(ctx, tx, stageID, stage, &next); err != nil {
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

func lockPoolStage(ctx context.Context, exec SQLExecutor, id string) (*models.PoolStage, error) {
	query := `SELECT snapshot, NULL, created_at, updated_at FROM pool_stages WHERE id = $1 FOR UPDATE`
	return scanPoolStage(exec.QueryRowContext(ctx, query, id))
}

func writePoolStage(ctx context.Context, exec SQLExecutor, id string, current, next *models.PoolStage) error {
	next.ID = id
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = now()
	data, err := encodeSnapshot(next)
	if err != nil {
		return err
	}
	result, err := exec.ExecContext(ctx,
		`UPDATE pool_stages SET name = $2, snapshot = $3, updated_at = $4 WHERE id = $1`,
		id, next.Name, data, next.UpdatedAt)
	if err != nil {
		return handleSnapshotError(err)
	}
	return checkAffectedRows(result, ErrSnapshotNotFound)
}

func scanPoolStage(row rowScanner) (*models.PoolStage, error) {
	var sr snapshotRow
	if err := row.Scan(sr.dest()...); err != nil {
		return nil, handleSnapshotError(err)
	}
	var stage models.PoolStage
	if err := decodeSnapshot(sr.data, &stage); err != nil {
		return nil, err
	}
	stage.CreatedAt, stage.UpdatedAt = sr.createdAt, sr.updatedAt
	return &stage, nil
}
