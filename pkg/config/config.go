package config

import (
	"log"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/aurumtokenaur/aurum-swap-site/pkg/constants"
)

type Config struct {
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`
	ContractAddress string `env:"PRESALE_CONTRACT_ADDRESS" envDefault:"0xac958de36acfbb1dce325140973799475ed9493e"`
	ChainID         int64  `env:"PRESALE_CHAIN_ID" envDefault:"56"`
	RPC             RPC
	Binance         Binance

	// WalletPrivateKey signs purchase transactions. Read-only commands run
	// without it.
	WalletPrivateKey string `env:"WALLET_PRIVATE_KEY"`
}

type RPC struct {
	BSCURL        string `env:"BSC_RPC_URL" envDefault:"https://bsc-dataseed.binance.org"`
	BSCTestnetURL string `env:"BSC_TESTNET_RPC_URL" envDefault:"https://data-seed-prebsc-1-s1.binance.org:8545"`
}

type Binance struct {
	BaseURL string `env:"BINANCE_API_BASE_URL" envDefault:"https://api.binance.com"`
}

// Endpoints returns the configured RPC URLs keyed by chain id.
func (c *Config) Endpoints() map[int64]string {
	return map[int64]string{
		constants.NetworkToChainID[constants.NetworkBSC]:        c.RPC.BSCURL,
		constants.NetworkToChainID[constants.NetworkBSCTestnet]: c.RPC.BSCTestnetURL,
	}
}

// SlogLevel maps the configured level name onto a slog level, defaulting to
// info for unknown names.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func MustLoad() *Config {
	_ = godotenv.Load(".env")

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("parse config error: %s", err)
	}

	return cfg
}
