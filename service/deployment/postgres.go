package deployment

import (
	"context"
	"fmt"

	"github.com/beldeveloper/app-promoter/model"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const deploymentColumns = `"id", "run_id", "environment", "namespace", "image", "release_id",
	"endpoint", "status", "reason", "created_at", "ready_since"`

// NewPostgres creates a new instance of the deployment records store.
func NewPostgres(conn *pgxpool.Pool, schema model.PgSchema) Postgres {
	return Postgres{conn: conn, schema: string(schema)}
}

// Postgres implements the deployment records store with the Postgres storage.
type Postgres struct {
	conn   *pgxpool.Pool
	schema string
}

// Add saves a new deployment record.
func (p Postgres) Add(ctx context.Context, d model.Deployment) (model.Deployment, error) {
	q := fmt.Sprintf(
		`INSERT INTO "%s"."deployments"
		("run_id", "environment", "namespace", "image", "release_id", "endpoint", "status", "reason", "created_at", "ready_since")
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING "id"`,
		p.schema,
	)
	err := p.conn.QueryRow(
		ctx, q,
		d.RunID, d.Environment, d.Namespace, d.Image, d.ReleaseID, d.Endpoint, d.Status, d.Reason, d.CreatedAt, d.ReadySince,
	).Scan(&d.ID)
	if err != nil {
		return d, fmt.Errorf("service.deployment.postgres.Add: insert: %w", err)
	}
	return d, nil
}

// Update finalizes a pending deployment record. Terminal records stay untouched.
func (p Postgres) Update(ctx context.Context, d model.Deployment) (model.Deployment, error) {
	q := fmt.Sprintf(
		`UPDATE "%s"."deployments" SET "endpoint" = $2, "status" = $3, "reason" = $4, "ready_since" = $5
		WHERE "id" = $1 AND "status" = $6`,
		p.schema,
	)
	_, err := p.conn.Exec(ctx, q, d.ID, d.Endpoint, d.Status, d.Reason, d.ReadySince, model.DeploymentStatusPending)
	if err != nil {
		return d, fmt.Errorf("service.deployment.postgres.Update: exec: %w", err)
	}
	return d, nil
}

// FindByRun returns the deployment records of one promotion run in creation order.
func (p Postgres) FindByRun(ctx context.Context, runID uint64) ([]model.Deployment, error) {
	q := fmt.Sprintf(`SELECT %s FROM "%s"."deployments" WHERE "run_id" = $1 ORDER BY "id" ASC`, deploymentColumns, p.schema)
	rows, err := p.conn.Query(ctx, q, runID)
	if err != nil {
		return nil, fmt.Errorf("service.deployment.postgres.FindByRun: query: %w", err)
	}
	defer rows.Close()
	return p.scanRows(rows)
}

// FindAll returns all deployment records, newest first.
func (p Postgres) FindAll(ctx context.Context) ([]model.Deployment, error) {
	q := fmt.Sprintf(`SELECT %s FROM "%s"."deployments" ORDER BY "id" DESC`, deploymentColumns, p.schema)
	rows, err := p.conn.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("service.deployment.postgres.FindAll: query: %w", err)
	}
	defer rows.Close()
	return p.scanRows(rows)
}

func (p Postgres) scanRows(rows pgx.Rows) ([]model.Deployment, error) {
	res := make([]model.Deployment, 0)
	var d model.Deployment
	for rows.Next() {
		d.ReadySince = nil
		err := rows.Scan(
			&d.ID, &d.RunID, &d.Environment, &d.Namespace, &d.Image, &d.ReleaseID,
			&d.Endpoint, &d.Status, &d.Reason, &d.CreatedAt, &d.ReadySince,
		)
		if err != nil {
			return nil, fmt.Errorf("service.deployment.postgres.scanRows: scan: %w", err)
		}
		res = append(res, d)
	}
	return res, nil
}
