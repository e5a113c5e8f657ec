package core

import "context"

// SessionRepository holds per-conversation turn history. Sessions are
// created implicitly on first append and hold insertion order forever.
// Access for different session ids never interferes; concurrent appends to
// the same id are last-append-wins.
type SessionRepository interface {
	History(ctx context.Context, sessionID string) ([]Turn, error)
	Append(ctx context.Context, sessionID string, turns ...Turn) error
}

// DocumentRepository stores embedded document chunks and serves
// nearest-neighbour queries over them.
type DocumentRepository interface {
	AddChunks(ctx context.Context, chunks []DocumentChunk) error
	Search(ctx context.Context, vector []float32, k int) ([]ScoredChunk, error)
	CountChunks(ctx context.Context) (int64, error)
}

// EventRepository gives read-only access to the events table. Select only
// accepts statements that already passed the lookup chain's guard.
type EventRepository interface {
	Schema(ctx context.Context) (string, error)
	Select(ctx context.Context, query string) (columns []string, rows [][]string, err error)
	CountEvents(ctx context.Context) (int64, error)
}
