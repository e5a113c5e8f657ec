package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/campushq/campusbot/internal/core"
	"github.com/campushq/campusbot/pkg/log"
)

// Sessions persists per-conversation turn history. Sessions exist
// implicitly: any session_id with rows has history, any other is empty.
type Sessions struct {
	db *sql.DB
}

func NewSessions(db *sql.DB) *Sessions {
	return &Sessions{db: db}
}

func (s *Sessions) Append(ctx context.Context, sessionID string, turns ...core.Turn) error {
	if len(turns) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO turns (session_id, role, content, language, created_at) VALUES (?, ?, ?, ?, ?)`
	for _, turn := range turns {
		createdAt := turn.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		if _, err := tx.ExecContext(ctx, query, sessionID, turn.Role, turn.Content, turn.Language, createdAt); err != nil {
			return fmt.Errorf("failed to insert turn: %w", err)
		}
	}

	return tx.Commit()
}

func (s *Sessions) History(ctx context.Context, sessionID string) ([]core.Turn, error) {
	query := `SELECT role, content, language, created_at FROM turns WHERE session_id = ? ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	var turns []core.Turn
	for rows.Next() {
		var turn core.Turn
		var language sql.NullString

		if err := rows.Scan(&turn.Role, &turn.Content, &language, &turn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turn.Language = language.String
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.FromCtx(ctx).Debug().Str("session", sessionID).Int("count", len(turns)).Msg("loaded session history")
	return turns, nil
}
