package run

import (
	"context"
	"fmt"

	"github.com/beldeveloper/app-promoter/model"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const runColumns = `"id", "branch", "tag", "registry", "image", "release_id", "status", "env_index",
	"deploy_to_prod", "skip_build", "note", "created_at", "updated_at"`

// NewPostgres creates a new instance of the runs store.
func NewPostgres(conn *pgxpool.Pool, schema model.PgSchema) Postgres {
	return Postgres{conn: conn, schema: string(schema)}
}

// Postgres implements the runs store with the Postgres storage.
type Postgres struct {
	conn   *pgxpool.Pool
	schema string
}

// Add saves a new promotion run.
func (p Postgres) Add(ctx context.Context, r model.Run) (model.Run, error) {
	q := fmt.Sprintf(
		`INSERT INTO "%s"."runs"
		("branch", "tag", "registry", "image", "release_id", "status", "env_index", "deploy_to_prod", "skip_build", "note", "created_at", "updated_at")
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING "id"`,
		p.schema,
	)
	err := p.conn.QueryRow(
		ctx, q,
		r.Artifact.Branch, r.Artifact.Tag, r.Artifact.Registry, r.Artifact.Image,
		r.ReleaseID, r.Status, r.EnvIndex, r.DeployToProd, r.SkipBuild, r.Note, r.CreatedAt, r.UpdatedAt,
	).Scan(&r.ID)
	if err != nil {
		return r, fmt.Errorf("service.run.postgres.Add: insert: %w", err)
	}
	return r, nil
}

// Update modifies a specific promotion run.
func (p Postgres) Update(ctx context.Context, r model.Run) (model.Run, error) {
	q := fmt.Sprintf(
		`UPDATE "%s"."runs" SET "status" = $2, "env_index" = $3, "note" = $4, "updated_at" = $5 WHERE "id" = $1`,
		p.schema,
	)
	_, err := p.conn.Exec(ctx, q, r.ID, r.Status, r.EnvIndex, r.Note, r.UpdatedAt)
	if err != nil {
		return r, fmt.Errorf("service.run.postgres.Update: exec: %w", err)
	}
	return r, nil
}

// FindByID returns the one run with the specific ID.
func (p Postgres) FindByID(ctx context.Context, id uint64) (model.Run, error) {
	q := fmt.Sprintf(`SELECT %s FROM "%s"."runs" WHERE "id" = $1`, runColumns, p.schema)
	r, err := p.scanRow(p.conn.QueryRow(ctx, q, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return r, model.ErrNotFound
		}
		return r, fmt.Errorf("service.run.postgres.FindByID: query: %w", err)
	}
	return r, nil
}

// FindAll returns all runs, newest first.
func (p Postgres) FindAll(ctx context.Context) ([]model.Run, error) {
	q := fmt.Sprintf(`SELECT %s FROM "%s"."runs" ORDER BY "created_at" DESC`, runColumns, p.schema)
	rows, err := p.conn.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("service.run.postgres.FindAll: query: %w", err)
	}
	defer rows.Close()
	res := make([]model.Run, 0)
	for rows.Next() {
		r, err := p.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("service.run.postgres.FindAll: scan: %w", err)
		}
		res = append(res, r)
	}
	return res, nil
}

// FindOldestActive returns the non-terminal run that was started first. Only one
// promotion is active at a time; the others wait in the enqueued status.
func (p Postgres) FindOldestActive(ctx context.Context) (model.Run, error) {
	q := fmt.Sprintf(
		`SELECT %s FROM "%s"."runs" WHERE "status" NOT IN ($1, $2) ORDER BY "created_at" ASC LIMIT 1`,
		runColumns, p.schema,
	)
	r, err := p.scanRow(p.conn.QueryRow(ctx, q, model.RunStatusDone, model.RunStatusAborted))
	if err != nil {
		if err == pgx.ErrNoRows {
			return r, model.ErrNotFound
		}
		return r, fmt.Errorf("service.run.postgres.FindOldestActive: query: %w", err)
	}
	return r, nil
}

func (p Postgres) scanRow(row pgx.Row) (model.Run, error) {
	var r model.Run
	err := row.Scan(
		&r.ID, &r.Artifact.Branch, &r.Artifact.Tag, &r.Artifact.Registry, &r.Artifact.Image,
		&r.ReleaseID, &r.Status, &r.EnvIndex, &r.DeployToProd, &r.SkipBuild, &r.Note, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}
