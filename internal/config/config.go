package config

import (
	"fmt"

	env "github.com/caarlos0/env/v11"
)

type Config struct {
	WebhookSecret string `env:"WEBHOOK_SECRET,required"`
	// TokenSecret is independent key material; an empty value falls back
	// to WebhookSecret at wiring time.
	TokenSecret string `env:"TOKEN_SECRET"`

	GatewayURL      string `env:"GATEWAY_URL,required"`
	GatewayAPIKey   string `env:"GATEWAY_API_KEY"`
	GatewayTimeoutS int    `env:"GATEWAY_TIMEOUT_S" envDefault:"10"`

	CampaignID     string `env:"CAMPAIGN_ID,required"`
	SourcePlatform string `env:"SOURCE_PLATFORM" envDefault:"ticket-shop"`

	ReplayToleranceMin int `env:"REPLAY_TOLERANCE_MIN" envDefault:"5"`

	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv   string `env:"APP_ENV" envDefault:"production"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if cfg.TokenSecret == "" {
		cfg.TokenSecret = cfg.WebhookSecret
	}
	return &cfg, nil
}
