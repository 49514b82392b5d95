package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// RunRepo handles script run history.
type RunRepo struct {
	db *sql.DB
}

func NewRunRepo(db *sql.DB) *RunRepo { return &RunRepo{db: db} }

// Insert stores r, assigning an id and timestamp when they are unset.
func (r *RunRepo) Insert(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	run.CreatedAt = run.CreatedAt.UTC().Truncate(time.Second)
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO script_runs(id, source, script, code, ok, output, created_at)
	VALUES(?, ?, ?, ?, ?, ?, ?);
	`, run.ID, run.Source, run.Script, run.Code, run.OK, run.Output, run.CreatedAt)
	return run, err
}

// Recent lists the newest runs first. limit <= 0 means no limit.
func (r *RunRepo) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, source, script, code, ok, output, created_at
	FROM script_runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Source, &run.Script, &run.Code, &run.OK, &run.Output, &run.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func (r *RunRepo) ByID(ctx context.Context, id string) (*Run, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, source, script, code, ok, output, created_at FROM script_runs WHERE id = ?`, id)
	var run Run
	if err := row.Scan(&run.ID, &run.Source, &run.Script, &run.Code, &run.OK, &run.Output, &run.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}

// Prune deletes runs older than cutoff and returns how many were removed.
func (r *RunRepo) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM script_runs WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
