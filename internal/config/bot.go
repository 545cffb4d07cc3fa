package config

import "github.com/caarlos0/env/v11"

type BotConfig struct {
	WSURL string `env:"WS_URL" envDefault:"ws://localhost:8080/ws"`
	Room  string `env:"ROOM" envDefault:"demo"`
	Mode  string `env:"BOT_MODE" envDefault:""`
}

func LoadBot() (BotConfig, error) {
	var cfg BotConfig
	err := env.Parse(&cfg)
	return cfg, err
}
