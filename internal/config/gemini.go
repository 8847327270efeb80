package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/grigorel/gemcord/pkg/log"
)

type GeminiConfig struct {
	APIKey string `env:"GOOGLE_AI_KEY,required,notEmpty"`
	Model  string `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`

	Temperature     float64 `env:"GEMINI_TEMPERATURE" envDefault:"0.9"`
	TopP            float64 `env:"GEMINI_TOP_P" envDefault:"1"`
	TopK            int     `env:"GEMINI_TOP_K" envDefault:"1"`
	MaxOutputTokens int     `env:"GEMINI_MAX_OUTPUT_TOKENS" envDefault:"512"`

	// SafetyThreshold applies to every harm category, e.g. BLOCK_NONE or
	// BLOCK_ONLY_HIGH. Empty leaves the API defaults in place.
	SafetyThreshold string `env:"GEMINI_SAFETY_THRESHOLD" envDefault:"BLOCK_NONE"`
}

func NewGeminiConfig(ctx context.Context) *GeminiConfig {
	c := &GeminiConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Gemini config")
	}
	return c
}
