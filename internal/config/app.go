package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/grigorel/gemcord/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"GEMCORD_RUNTIME_PATH" envDefault:".gemcord"`

	// MaxMessageLength is the largest reply chunk sent to the platform.
	// Discord caps messages at 2000 characters; the default leaves headroom.
	MaxMessageLength int `env:"MAX_MESSAGE_LENGTH" envDefault:"1700"`

	// PersistAttachments controls whether binary parts are stored verbatim
	// in the durable log. Off by default: they are replaced with a text
	// placeholder and raw bytes live only in the in-memory session.
	PersistAttachments bool `env:"PERSIST_ATTACHMENTS" envDefault:"false"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "gemcord.db")
}

func (c AppConfig) GetTemplatePath() string {
	return filepath.Join(c.RuntimePath, "template.json")
}
