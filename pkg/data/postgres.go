package data

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agentstation/webhost/pkg/errors"
)

var tableName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Postgres stores entities as JSONB documents in a single table.
type Postgres[E any] struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgres returns a repository over table. The table name must be a
// lowercase SQL identifier.
func NewPostgres[E any](pool *pgxpool.Pool, table string) (*Postgres[E], error) {
	if !tableName.MatchString(table) {
		return nil, errors.NewValidationError("table", table, "must be a lowercase SQL identifier")
	}
	return &Postgres[E]{pool: pool, table: table}, nil
}

// EnsureSchema creates the backing table when it does not exist.
func (p *Postgres[E]) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id         TEXT PRIMARY KEY,
			body       JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`, p.table)
	if _, err := p.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("create table %s: %w", p.table, err)
	}
	return nil
}

// Get implements Repository.
func (p *Postgres[E]) Get(ctx context.Context, id string) (E, error) {
	var zero E
	query := fmt.Sprintf(`SELECT body FROM %s WHERE id = $1`, p.table)

	var body []byte
	if err := p.pool.QueryRow(ctx, query, id).Scan(&body); err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return zero, errors.NewNotFoundError(p.table, id)
		}
		return zero, fmt.Errorf("get %s: %w", p.table, err)
	}
	return decode[E](body)
}

// List implements Repository. Entities are returned oldest first.
func (p *Postgres[E]) List(ctx context.Context) ([]E, error) {
	query := fmt.Sprintf(`SELECT body FROM %s ORDER BY created_at ASC, id ASC`, p.table)

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", p.table, err)
	}
	defer rows.Close()

	out := []E{}
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan %s: %w", p.table, err)
		}
		entity, err := decode[E](body)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, rows.Err()
}

// Add implements Repository.
func (p *Postgres[E]) Add(ctx context.Context, entity E) (string, error) {
	body, err := json.Marshal(entity)
	if err != nil {
		return "", fmt.Errorf("marshal entity: %w", err)
	}

	id := newID()
	query := fmt.Sprintf(`INSERT INTO %s (id, body) VALUES ($1, $2)`, p.table)
	if _, err := p.pool.Exec(ctx, query, id, body); err != nil {
		return "", fmt.Errorf("insert %s: %w", p.table, err)
	}
	return id, nil
}

// Update implements Repository.
func (p *Postgres[E]) Update(ctx context.Context, id string, entity E) error {
	body, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("marshal entity: %w", err)
	}

	query := fmt.Sprintf(`UPDATE %s SET body = $2 WHERE id = $1`, p.table)
	result, err := p.pool.Exec(ctx, query, id, body)
	if err != nil {
		return fmt.Errorf("update %s: %w", p.table, err)
	}
	if result.RowsAffected() == 0 {
		return errors.NewNotFoundError(p.table, id)
	}
	return nil
}

// Delete implements Repository.
func (p *Postgres[E]) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, p.table)
	result, err := p.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", p.table, err)
	}
	if result.RowsAffected() == 0 {
		return errors.NewNotFoundError(p.table, id)
	}
	return nil
}

func decode[E any](body []byte) (E, error) {
	var entity E
	if err := json.Unmarshal(body, &entity); err != nil {
		return entity, fmt.Errorf("unmarshal entity: %w", err)
	}
	return entity, nil
}
