package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/campushq/campusbot/pkg/log"
)

type LLMConfig struct {
	Provider string `env:"CAMPUSBOT_LLM_PROVIDER" envDefault:"gemini"`
	Model    string `env:"CAMPUSBOT_LLM_MODEL" envDefault:"gemini-1.5-flash-latest"`

	GeminiAPIKey     string `env:"GEMINI_API_KEY"`
	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey  string `env:"ANTHROPIC_API_KEY"`
	OpenRouterAPIKey string `env:"OPENROUTER_API_KEY"`

	OllamaBaseURL string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	OllamaAPIKey  string `env:"OLLAMA_API_KEY"`

	CustomBaseURL string `env:"CAMPUSBOT_LLM_BASE_URL"`
	CustomAPIKey  string `env:"CAMPUSBOT_LLM_API_KEY"`
}

func NewLLMConfig(ctx context.Context) *LLMConfig {
	c := &LLMConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse LLM config")
	}
	return c
}
