package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/campushq/campusbot/internal/config"
	"github.com/campushq/campusbot/internal/core"
	"github.com/campushq/campusbot/internal/providers/rag"
	"github.com/campushq/campusbot/pkg/log"
)

// Ingester turns plain-text documents into embedded chunks in the document
// index. Re-ingesting a document replaces its previous chunks.
type Ingester struct {
	embedder  core.Embedder
	documents core.DocumentRepository
	chunker   rag.ChunkerConfig
}

func New(embedder core.Embedder, documents core.DocumentRepository, cfg *config.RAGConfig) *Ingester {
	return &Ingester{
		embedder:  embedder,
		documents: documents,
		chunker: rag.ChunkerConfig{
			MaxTokens:     cfg.ChunkMaxTokens,
			OverlapTokens: cfg.ChunkOverlapTokens,
		},
	}
}

// IngestText chunks, embeds and stores one document under the given name.
// Returns the number of chunks stored.
func (i *Ingester) IngestText(ctx context.Context, name, text string) (int, error) {
	chunks := rag.ChunkText(text, i.chunker)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("document %q has no content", name)
	}

	texts := make([]string, len(chunks))
	for idx, c := range chunks {
		texts[idx] = c.Text
	}

	vectors, err := i.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("failed to embed %q: %w", name, err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("embedding count mismatch for %q: %d chunks, %d vectors", name, len(chunks), len(vectors))
	}

	stored := make([]core.DocumentChunk, len(chunks))
	for idx, c := range chunks {
		stored[idx] = core.DocumentChunk{
			Document:  name,
			Index:     c.Index,
			Text:      c.Text,
			Embedding: vectors[idx],
		}
	}
	if err := i.documents.AddChunks(ctx, stored); err != nil {
		return 0, fmt.Errorf("failed to store chunks for %q: %w", name, err)
	}

	log.FromCtx(ctx).Info().Str("document", name).Int("chunks", len(stored)).Msg("document ingested")
	return len(stored), nil
}

// IngestDir ingests every .txt file directly under dir. A single bad file
// is logged and skipped; the error return is for problems with the
// directory itself or when nothing could be ingested at all.
func (i *Ingester) IngestDir(ctx context.Context, dir string) (int, error) {
	logger := log.FromCtx(ctx)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read documents dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		names = append(names, entry.Name())
	}
	if len(names) == 0 {
		return 0, fmt.Errorf("no .txt documents in %s", dir)
	}

	ingested := 0
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Error().Err(err).Str("document", name).Msg("skipping unreadable document")
			continue
		}
		if _, err := i.IngestText(ctx, name, string(data)); err != nil {
			logger.Error().Err(err).Str("document", name).Msg("skipping document")
			continue
		}
		ingested++
	}
	if ingested == 0 {
		return 0, fmt.Errorf("all %d documents in %s failed to ingest", len(names), dir)
	}
	return ingested, nil
}
