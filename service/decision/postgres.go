package decision

import (
	"context"
	"fmt"

	"github.com/beldeveloper/app-promoter/model"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// NewPostgres creates a new instance of the decisions store.
func NewPostgres(conn *pgxpool.Pool, schema model.PgSchema) Postgres {
	return Postgres{conn: conn, schema: string(schema)}
}

// Postgres implements the decisions store with the Postgres storage.
type Postgres struct {
	conn   *pgxpool.Pool
	schema string
}

// Add saves a new gate decision. The unique run/environment pair makes a second
// decision for the same gate fail instead of overwriting the first one.
func (p Postgres) Add(ctx context.Context, d model.Decision) (model.Decision, error) {
	q := fmt.Sprintf(
		`INSERT INTO "%s"."decisions" ("run_id", "environment", "approved", "approved_by", "created_at")
		VALUES ($1, $2, $3, $4, $5) RETURNING "id"`,
		p.schema,
	)
	err := p.conn.QueryRow(ctx, q, d.RunID, d.Environment, d.Approved, d.ApprovedBy, d.CreatedAt).Scan(&d.ID)
	if err != nil {
		return d, fmt.Errorf("service.decision.postgres.Add: insert: %w", err)
	}
	return d, nil
}

// Find returns the decision of one gate of one run.
func (p Postgres) Find(ctx context.Context, runID uint64, environment string) (model.Decision, error) {
	var d model.Decision
	q := fmt.Sprintf(
		`SELECT "id", "run_id", "environment", "approved", "approved_by", "created_at"
		FROM "%s"."decisions" WHERE "run_id" = $1 AND "environment" = $2`,
		p.schema,
	)
	err := p.conn.QueryRow(ctx, q, runID, environment).Scan(&d.ID, &d.RunID, &d.Environment, &d.Approved, &d.ApprovedBy, &d.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return d, model.ErrNotFound
		}
		return d, fmt.Errorf("service.decision.postgres.Find: query: %w", err)
	}
	return d, nil
}

// FindByRun returns all gate decisions of one run in creation order.
func (p Postgres) FindByRun(ctx context.Context, runID uint64) ([]model.Decision, error) {
	q := fmt.Sprintf(
		`SELECT "id", "run_id", "environment", "approved", "approved_by", "created_at"
		FROM "%s"."decisions" WHERE "run_id" = $1 ORDER BY "id" ASC`,
		p.schema,
	)
	rows, err := p.conn.Query(ctx, q, runID)
	if err != nil {
		return nil, fmt.Errorf("service.decision.postgres.FindByRun: query: %w", err)
	}
	defer rows.Close()
	res := make([]model.Decision, 0)
	var d model.Decision
	for rows.Next() {
		err = rows.Scan(&d.ID, &d.RunID, &d.Environment, &d.Approved, &d.ApprovedBy, &d.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("service.decision.postgres.FindByRun: scan: %w", err)
		}
		res = append(res, d)
	}
	return res, nil
}
