package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/grigorel/gemcord/pkg/log"
)

type DiscordConfig struct {
	Token string `env:"DISCORD_BOT_TOKEN,required,notEmpty"`

	// TrackedChannels lists channel IDs the bot answers in without being
	// mentioned. Tracked threads are managed at runtime via /createthread.
	TrackedChannels []string `env:"TRACKED_CHANNELS" envSeparator:","`

	// Activity is the presence text shown under the bot's name.
	Activity string `env:"BOT_ACTIVITY" envDefault:"with your feelings"`
}

func NewDiscordConfig(ctx context.Context) *DiscordConfig {
	c := &DiscordConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Discord config")
	}
	return c
}
