package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"docvault/internal/registry"
	"docvault/pkg/platform/tx"
)

// PostgresLog persists the append-only command log in PostgreSQL. The seq
// column preserves commit order for replay; rows are never updated or
// deleted.
type PostgresLog struct {
	db *sql.DB
}

func NewPostgresLog(db *sql.DB) *PostgresLog {
	return &PostgresLog{db: db}
}

// EnsureSchema creates the log table when absent.
func (l *PostgresLog) EnsureSchema(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS registry_log (
			seq          BIGSERIAL PRIMARY KEY,
			command      JSONB NOT NULL,
			committed_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("ensure registry_log schema: %w", err)
	}
	return nil
}

// execer lets Append run against the pool or a caller-provided transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (l *PostgresLog) Append(ctx context.Context, cmd registry.Command) error {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("marshal command: %w", err)
	}
	var ex execer = l.db
	if t, ok := tx.From(ctx); ok {
		ex = t
	}
	if _, err := ex.ExecContext(ctx, `INSERT INTO registry_log (command) VALUES ($1)`, payload); err != nil {
		return fmt.Errorf("append command: %w", err)
	}
	return nil
}

func (l *PostgresLog) Replay(ctx context.Context, fn func(registry.Command) error) error {
	rows, err := l.db.QueryContext(ctx, `SELECT command FROM registry_log ORDER BY seq`)
	if err != nil {
		return fmt.Errorf("replay query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return fmt.Errorf("scan command: %w", err)
		}
		var cmd registry.Command
		if err := json.Unmarshal(payload, &cmd); err != nil {
			return fmt.Errorf("unmarshal command: %w", err)
		}
		if err := fn(cmd); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("replay rows: %w", err)
	}
	return nil
}
