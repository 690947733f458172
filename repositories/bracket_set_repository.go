package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Dosada05/bracket-engine/models"
)

// BracketSetUpdateFunc receives the stored set and returns its replacement.
// Returning an error aborts the write.
type BracketSetUpdateFunc func(set *models.BracketSet) (*models.BracketSet, error)

type BracketSetRepository interface {
	Create(ctx context.Context, set *models.BracketSet) error
	GetByID(ctx context.Context, id string) (*models.BracketSet, error)
	// Update serializes writers on the same id for the whole read-modify-write.
	Update(ctx context.Context, id string, fn BracketSetUpdateFunc) (*models.BracketSet, error)
	ListArchivable(ctx context.Context, limit int) ([]*models.BracketSet, error)
	MarkArchived(ctx context.Context, id string, at time.Time) error
}

type postgresBracketSetRepository struct {
	db *sql.DB
}

func NewPostgresBracketSetRepository(db *sql.DB) BracketSetRepository {
	return &postgresBracketSetRepository{db: db}
}

func (r *postgresBracketSetRepository) Create(ctx context.Context, set *models.BracketSet) error {
	return insertBracketSet(ctx, r.db, set)
}

func insertBracketSet(ctx context.Context, exec SQLExecutor, set *models.BracketSet) error {
	ts := now()
	set.CreatedAt, set.UpdatedAt = ts, ts
	data, err := encodeSnapshot(set)
	if err != nil {
		return err
	}
	query := `INSERT INTO bracket_sets (id, name, format, snapshot, completed, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = exec.ExecContext(ctx, query, set.ID, set.Name, set.Format, data, set.IsComplete(), ts, ts)
	return handleSnapshotError(err)
}

func (r *postgresBracketSetRepository) GetByID(ctx context.Context, id string) (*models.BracketSet, error) {
	query := `SELECT snapshot, archived_at, created_at, updated_at FROM bracket_sets WHERE id = $1`
	return scanBracketSet(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresBracketSetRepository) Update(ctx context.Context, id string, fn BracketSetUpdateFunc) (*models.BracketSet, error) {
	var updated *models.BracketSet
	err := inTx(ctx, r.db, func(tx SQLExecutor) error {
		query := `SELECT snapshot, archived_at, created_at, updated_at FROM bracket_sets WHERE id = $1 FOR UPDATE`
		current, err := scanBracketSet(tx.QueryRowContext(ctx, query, id))
		if err != nil {
			return err
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		next.ID = id
		next.CreatedAt = current.CreatedAt
		next.UpdatedAt = now()
		data, err := encodeSnapshot(next)
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			`UPDATE bracket_sets SET name = $2, snapshot = $3, completed = $4, updated_at = $5 WHERE id = $1`,
			id, next.Name, data, next.IsComplete(), next.UpdatedAt)
		if err != nil {
			return handleSnapshotError(err)
		}
		if err := checkAffectedRows(result, ErrSnapshotNotFound); err != nil {
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

func (r *postgresBracketSetRepository) ListArchivable(ctx context.Context, limit int) ([]*models.BracketSet, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT snapshot, archived_at, created_at, updated_at FROM bracket_sets WHERE completed AND archived_at IS NULL ORDER BY updated_at LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list archivable bracket sets: %w", err)
	}
	defer rows.Close()

	var sets []*models.BracketSet
	for rows.Next() {
		set, err := scanBracketSet(rows)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bracket sets: %w", err)
	}
	return sets, nil
}

func (r *postgresBracketSetRepository) MarkArchived(ctx context.Context, id string, at time.Time) error {
	result, err := r.db.ExecContext(ctx, `UPDATE bracket_sets SET archived_at = $2 WHERE id = $1`, id, at.UTC())
	if err != nil {
		return fmt.Errorf("failed to mark bracket set %s archived: %w", id, err)
	}
	return checkAffectedRows(result, ErrSnapshotNotFound)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanBracketSet decodes a snapshot row. Column timestamps win over the
// ones inside the JSON document.
func scanBracketSet(row rowScanner) (*models.BracketSet, error) {
	var sr snapshotRow
	if err := row.Scan(sr.dest()...); err != nil {
		return nil, handleSnapshotError(err)
	}
	var set models.BracketSet
	if err := decodeSnapshot(sr.data, &set); err != nil {
		return nil, err
	}
	set.CreatedAt, set.UpdatedAt = sr.createdAt, sr.updatedAt
	set.ArchivedAt = nil
	if sr.archivedAt.Valid {
		at := sr.archivedAt.Time
		set.ArchivedAt = &at
	}
	return &set, nil
}
