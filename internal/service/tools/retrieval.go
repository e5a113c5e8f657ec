package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/campushq/campusbot/internal/config"
	"github.com/campushq/campusbot/internal/core"
	"github.com/campushq/campusbot/internal/service/directory"
	"github.com/campushq/campusbot/pkg/log"
)

// Retrieval answers from the ingested document index. A best match worse
// than the configured distance threshold yields the no-confident-match
// variant instead of a fabricated answer.
type Retrieval struct {
	embedder  core.Embedder
	documents core.DocumentRepository
	ai        core.AIProvider
	directory *directory.Directory
	threshold float64
	topK      int
}

func NewRetrieval(
	embedder core.Embedder,
	documents core.DocumentRepository,
	ai core.AIProvider,
	dir *directory.Directory,
	cfg *config.PipelineConfig,
) *Retrieval {
	return &Retrieval{
		embedder:  embedder,
		documents: documents,
		ai:        ai,
		directory: dir,
		threshold: cfg.DistanceThreshold,
		topK:      cfg.TopK,
	}
}

func (r *Retrieval) Run(ctx context.Context, query string, history []core.Turn) (core.Answer, error) {
	logger := log.FromCtx(ctx)

	count, err := r.documents.CountChunks(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("document index unavailable")
		return r.degraded("I can't reach the document knowledge base right now. " + r.contactFallback()), nil
	}
	if count == 0 {
		// Setup incomplete is distinct from a normal no-match.
		return r.degraded("The document knowledge base hasn't been set up yet, so I can't answer questions about college documents. " + r.contactFallback()), nil
	}

	vectors, err := r.embedder.Embed(ctx, []string{query})
	if err != nil || len(vectors) == 0 {
		logger.Warn().Err(err).Msg("query embedding failed")
		return r.degraded("I couldn't search the college documents just now. " + r.contactFallback()), nil
	}

	chunks, err := r.documents.Search(ctx, vectors[0], r.topK)
	if err != nil || len(chunks) == 0 {
		logger.Warn().Err(err).Msg("document search failed or empty")
		return r.degraded("I couldn't find anything about that in the college documents. " + r.contactFallback()), nil
	}

	best := chunks[0].Distance
	if best > r.threshold {
		logger.Debug().Float64("distance", best).Float64("threshold", r.threshold).Msg("retrieval below confidence threshold")
		answer := r.degraded("I couldn't find anything about that in the college documents. " + r.contactFallback())
		answer.Score = best
		return answer, nil
	}

	var contextText strings.Builder
	for i, c := range chunks {
		if i > 0 {
			contextText.WriteString("\n\n")
		}
		contextText.WriteString(c.Text)
	}

	prompt := fmt.Sprintf("Context:\n%s\n\nQuestion:\n%s\n\nAnswer:", contextText.String(), query)
	msg, err := r.ai.Chat(ctx, []core.Message{
		{Role: core.RoleSystem, Content: retrievalSystemPrompt},
		{Role: core.RoleUser, Content: prompt},
	})
	if err != nil || strings.TrimSpace(msg.Content) == "" {
		logger.Warn().Err(err).Msg("retrieval answer generation failed")
		return r.degraded("I found related documents but couldn't compose an answer. " + r.contactFallback()), nil
	}

	return core.Answer{
		Text:   strings.TrimSpace(msg.Content),
		Source: core.RouteRetrieval,
		Score:  best,
	}, nil
}

func (r *Retrieval) degraded(text string) core.Answer {
	return core.Answer{Text: text, Source: core.RouteRetrieval}
}

func (r *Retrieval) contactFallback() string {
	return directory.Format(r.directory.Default())
}
