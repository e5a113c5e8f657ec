package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/campushq/campusbot/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"CAMPUSBOT_RUNTIME_PATH" envDefault:".campusbot"`
	HTTPAddr    string `env:"CAMPUSBOT_HTTP_ADDR" envDefault:":8080"`

	// DocsPath is where the ingest command looks for .txt documents.
	DocsPath string `env:"CAMPUSBOT_DOCS_PATH" envDefault:"documents"`

	// DirectoryPath overrides the embedded department directory when set.
	DirectoryPath string `env:"CAMPUSBOT_DIRECTORY_PATH"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "campusbot.db")
}
