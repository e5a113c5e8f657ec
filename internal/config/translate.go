package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/campushq/campusbot/pkg/log"
)

type TranslateConfig struct {
	APIKey  string `env:"GOOGLE_TRANSLATE_API_KEY"`
	BaseURL string `env:"CAMPUSBOT_TRANSLATE_BASE_URL" envDefault:"https://translation.googleapis.com"`
}

func NewTranslateConfig(ctx context.Context) *TranslateConfig {
	c := &TranslateConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Translate config")
	}
	return c
}

// Enabled reports whether the hosted translation client can be used at all.
// Without a key the pipeline degrades to working-language answers.
func (c TranslateConfig) Enabled() bool {
	return c.APIKey != ""
}
