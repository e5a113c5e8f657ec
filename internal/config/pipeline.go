package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/campushq/campusbot/pkg/log"
)

type PipelineConfig struct {
	// WorkingLanguage is what the pipeline reasons and generates in.
	WorkingLanguage string `env:"CAMPUSBOT_WORKING_LANGUAGE" envDefault:"en"`

	// FallbackLanguage is used when detection is inconclusive or the
	// requested output language is unsupported.
	FallbackLanguage string `env:"CAMPUSBOT_FALLBACK_LANGUAGE" envDefault:"en"`

	// SupportedLanguages are the output languages the translator serves.
	SupportedLanguages []string `env:"CAMPUSBOT_SUPPORTED_LANGUAGES" envDefault:"en,hi,es,fr,de,ta"`

	// DistanceThreshold is the max L2 distance for a retrieval hit to count
	// as grounded. Lower is better.
	DistanceThreshold float64 `env:"CAMPUSBOT_DISTANCE_THRESHOLD" envDefault:"0.7"`

	// TopK is how many chunks feed the retrieval prompt.
	TopK int `env:"CAMPUSBOT_RETRIEVAL_TOP_K" envDefault:"4"`

	// HistoryWindow bounds how many past turns refinement and the chains see.
	HistoryWindow int `env:"CAMPUSBOT_HISTORY_WINDOW" envDefault:"10"`

	// CallTimeout bounds each external model/API call within a request.
	CallTimeout time.Duration `env:"CAMPUSBOT_CALL_TIMEOUT" envDefault:"30s"`

	// ChatRatePerSecond and ChatBurst bound the /chat endpoint.
	ChatRatePerSecond float64 `env:"CAMPUSBOT_CHAT_RATE" envDefault:"5"`
	ChatBurst         int     `env:"CAMPUSBOT_CHAT_BURST" envDefault:"10"`
}

func NewPipelineConfig(ctx context.Context) *PipelineConfig {
	c := &PipelineConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Pipeline config")
	}
	return c
}

func (c PipelineConfig) IsSupported(lang string) bool {
	for _, l := range c.SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}
