package decisionlog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository stores decision records in Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert persists one record.
func (r *Repository) Insert(ctx context.Context, rec Record) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO access_decisions (id, at, actor_id, actor_role, route, rule, decision, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.At, rec.ActorID, rec.ActorRole, rec.Route, rec.Rule, rec.Decision, rec.Source,
	)
	if err != nil {
		return fmt.Errorf("insert access decision: %w", err)
	}
	return nil
}

// Filter narrows timeline listings.
type Filter struct {
	ActorID  int64
	Decision string
	Source   string
}

// List returns records matching the filter, newest first.
func (r *Repository) List(ctx context.Context, f Filter, limit, offset int) ([]Record, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, at, actor_id, actor_role, route, rule, decision, source
		FROM access_decisions
		WHERE ($1 = 0 OR actor_id = $1)
		  AND ($2 = '' OR decision = $2)
		  AND ($3 = '' OR source = $3)
		ORDER BY at DESC
		LIMIT $4 OFFSET $5`,
		f.ActorID, f.Decision, f.Source, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list access decisions: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.At, &rec.ActorID, &rec.ActorRole, &rec.Route, &rec.Rule, &rec.Decision, &rec.Source); err != nil {
			return nil, fmt.Errorf("scan access decision: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Count returns the number of records matching the filter.
func (r *Repository) Count(ctx context.Context, f Filter) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM access_decisions
		WHERE ($1 = 0 OR actor_id = $1)
		  AND ($2 = '' OR decision = $2)
		  AND ($3 = '' OR source = $3)`,
		f.ActorID, f.Decision, f.Source,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count access decisions: %w", err)
	}
	return total, nil
}
