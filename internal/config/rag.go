package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/campushq/campusbot/pkg/log"
)

type RAGConfig struct {
	// EmbeddingBaseURL is an OpenAI-compatible embeddings endpoint. The
	// default is Gemini's compatibility surface, matching the chat default.
	EmbeddingBaseURL string `env:"CAMPUSBOT_EMBEDDING_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/openai"`
	EmbeddingAPIKey  string `env:"CAMPUSBOT_EMBEDDING_API_KEY"`
	EmbeddingModel   string `env:"CAMPUSBOT_EMBEDDING_MODEL" envDefault:"text-embedding-004"`

	ChunkMaxTokens     int `env:"CAMPUSBOT_CHUNK_MAX_TOKENS" envDefault:"400"`
	ChunkOverlapTokens int `env:"CAMPUSBOT_CHUNK_OVERLAP_TOKENS" envDefault:"50"`
}

func NewRAGConfig(ctx context.Context) *RAGConfig {
	c := &RAGConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse RAG config")
	}
	return c
}
