package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"duo-casino/internal/ledger"
)

type ServerConfig struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	SettlementMode string `env:"SETTLEMENT_MODE" envDefault:"ledger"`
	DefaultRoom    string `env:"DEFAULT_ROOM" envDefault:"demo"`

	StartBalance int64 `env:"START_BALANCE" envDefault:"10000"`
	MinBet       int64 `env:"MIN_BET" envDefault:"10"`
	MaxBet       int64 `env:"MAX_BET" envDefault:"500000"`
	BalanceCap   int64 `env:"BALANCE_CAP" envDefault:"10000000000"`

	PostgresDSN    string `env:"POSTGRES_DSN"`
	AuditQueueSize int    `env:"AUDIT_QUEUE_SIZE" envDefault:"1024"`

	StatsCron  string `env:"STATS_CRON" envDefault:"@every 1m"`
	MCPEnabled bool   `env:"MCP_ENABLED" envDefault:"true"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	if _, ok := ledger.ParseMode(cfg.SettlementMode); !ok {
		return cfg, fmt.Errorf("SETTLEMENT_MODE must be ledger or rewards, got %q", cfg.SettlementMode)
	}
	if err := cfg.Limits().Validate(); err != nil {
		return cfg, err
	}
	if cfg.AuditQueueSize <= 0 {
		return cfg, fmt.Errorf("AUDIT_QUEUE_SIZE must be positive, got %d", cfg.AuditQueueSize)
	}
	return cfg, nil
}

func (c ServerConfig) Mode() ledger.Mode {
	m, ok := ledger.ParseMode(c.SettlementMode)
	if !ok {
		return ledger.ModeLedger
	}
	return m
}

func (c ServerConfig) Limits() ledger.Limits {
	return ledger.Limits{
		MinBet:       c.MinBet,
		MaxBet:       c.MaxBet,
		StartBalance: c.StartBalance,
		Cap:          c.BalanceCap,
	}
}

// StoreEnabled reports whether outcomes are persisted.
func (c ServerConfig) StoreEnabled() bool {
	return c.PostgresDSN != ""
}
