package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// CalculationRepo handles calculator history.
type CalculationRepo struct {
	db *sql.DB
}

func NewCalculationRepo(db *sql.DB) *CalculationRepo { return &CalculationRepo{db: db} }

func (r *CalculationRepo) Insert(ctx context.Context, c Calculation) (Calculation, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	c.CreatedAt = c.CreatedAt.UTC().Truncate(time.Second)
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO calculations(id, a, b, operation, result, created_at)
	VALUES(?, ?, ?, ?, ?, ?);
	`, c.ID, c.A, c.B, c.Operation, c.Result, c.CreatedAt)
	return c, err
}

// Recent lists the newest calculations first. limit <= 0 means no limit.
func (r *CalculationRepo) Recent(ctx context.Context, limit int) ([]Calculation, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, a, b, operation, result, created_at
	FROM calculations ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Calculation
	for rows.Next() {
		var c Calculation
		if err := rows.Scan(&c.ID, &c.A, &c.B, &c.Operation, &c.Result, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Last returns the newest calculation, or nil when there is none.
func (r *CalculationRepo) Last(ctx context.Context) (*Calculation, error) {
	list, err := r.Recent(ctx, 1)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return &list[0], nil
}
