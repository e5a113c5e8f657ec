package sqlite

import (
	"container/heap"
	"context"
	"database/sql"
	"fmt"

	"github.com/campushq/campusbot/internal/core"
	"github.com/campushq/campusbot/pkg/log"
)

// Documents stores embedded document chunks and answers nearest-neighbour
// queries with a brute-force L2 scan. The corpus is a handful of campus
// documents, so a scan stays well under a millisecond.
type Documents struct {
	db *sql.DB
}

func NewDocuments(db *sql.DB) *Documents {
	return &Documents{db: db}
}

// AddChunks replaces all chunks of each named document. Re-ingesting a
// document is therefore idempotent.
func (d *Documents) AddChunks(ctx context.Context, chunks []core.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	seen := make(map[string]bool)
	for _, c := range chunks {
		if !seen[c.Document] {
			if _, err := tx.ExecContext(ctx, `DELETE FROM document_chunks WHERE document = ?`, c.Document); err != nil {
				return fmt.Errorf("failed to clear document %s: %w", c.Document, err)
			}
			seen[c.Document] = true
		}

		blob, err := serializeVector(c.Embedding)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO document_chunks (document, chunk_index, content, embedding) VALUES (?, ?, ?, ?)`,
			c.Document, c.Index, c.Text, blob,
		)
		if err != nil {
			return fmt.Errorf("failed to insert chunk %s/%d: %w", c.Document, c.Index, err)
		}
	}

	return tx.Commit()
}

func (d *Documents) Search(ctx context.Context, vector []float32, k int) ([]core.ScoredChunk, error) {
	if k <= 0 {
		return nil, nil
	}

	rows, err := d.db.QueryContext(ctx, `SELECT document, chunk_index, content, embedding FROM document_chunks`)
	if err != nil {
		return nil, fmt.Errorf("failed to scan chunks: %w", err)
	}
	defer rows.Close()

	// Max-heap of size k keeps the k nearest chunks seen so far.
	h := &chunkHeap{}
	heap.Init(h)

	scanned := 0
	for rows.Next() {
		var chunk core.ScoredChunk
		var blob []byte
		if err := rows.Scan(&chunk.Document, &chunk.Index, &chunk.Text, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}

		emb, err := deserializeVector(blob)
		if err != nil {
			return nil, err
		}
		chunk.Distance = l2Distance(vector, emb)
		scanned++

		if h.Len() < k {
			heap.Push(h, chunk)
		} else if chunk.Distance < (*h)[0].Distance {
			(*h)[0] = chunk
			heap.Fix(h, 0)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Pop from worst to best, fill the result back to front.
	result := make([]core.ScoredChunk, h.Len())
	for i := len(result) - 1; i >= 0; i-- {
		result[i] = heap.Pop(h).(core.ScoredChunk)
	}

	log.FromCtx(ctx).Debug().Int("scanned", scanned).Int("returned", len(result)).Msg("document search")
	return result, nil
}

func (d *Documents) CountChunks(ctx context.Context) (int64, error) {
	var count int64
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM document_chunks`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// chunkHeap is a max-heap by distance.
type chunkHeap []core.ScoredChunk

func (h chunkHeap) Len() int            { return len(h) }
func (h chunkHeap) Less(i, j int) bool  { return h[i].Distance > h[j].Distance }
func (h chunkHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *chunkHeap) Push(x any)         { *h = append(*h, x.(core.ScoredChunk)) }
func (h *chunkHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
