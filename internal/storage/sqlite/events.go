package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/campushq/campusbot/internal/core"
)

// Events gives the lookup chain read-only access to the events table and
// the seed command write access.
type Events struct {
	db *sql.DB
}

func NewEvents(db *sql.DB) *Events {
	return &Events{db: db}
}

// Schema returns the actual CREATE TABLE statement so the SQL-generation
// prompt always matches the live table.
func (e *Events) Schema(ctx context.Context) (string, error) {
	var ddl string
	err := e.db.QueryRowContext(ctx,
		`SELECT sql FROM sqlite_master WHERE type = 'table' AND name = 'events'`).Scan(&ddl)
	if err != nil {
		return "", fmt.Errorf("failed to read events schema: %w", err)
	}
	return ddl, nil
}

// Select executes an already-guarded SELECT and renders every value as a
// string for prompt formatting.
func (e *Events) Select(ctx context.Context, query string) ([]string, [][]string, error) {
	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var results [][]string
	for rows.Next() {
		raw := make([]sql.NullString, len(columns))
		dest := make([]any, len(columns))
		for i := range raw {
			dest[i] = &raw[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make([]string, len(columns))
		for i, v := range raw {
			row[i] = v.String
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	return columns, results, nil
}

func (e *Events) CountEvents(ctx context.Context) (int64, error) {
	var count int64
	if err := e.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Replace wipes and reseeds the events table. Used only by the offline
// seed command, never while serving.
func (e *Events) Replace(ctx context.Context, events []core.Event) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM events`); err != nil {
		return fmt.Errorf("failed to clear events: %w", err)
	}

	query := `INSERT INTO events (event_id, event_name, event_description, location, start_datetime, end_datetime, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC().Format(time.RFC3339)

	for _, ev := range events {
		var end string
		if !ev.End.IsZero() {
			end = ev.End.Format("2006-01-02T15:04:05")
		}
		_, err := tx.ExecContext(ctx, query,
			ev.ID, ev.Name, ev.Description, ev.Location,
			ev.Start.Format("2006-01-02T15:04:05"), end, now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert event %s: %w", ev.ID, err)
		}
	}

	return tx.Commit()
}
