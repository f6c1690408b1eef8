package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config contains all configuration parameters for the application.
type Config struct {
	Port          string        `envconfig:"PORT" default:"8080"`
	WalletBaseURL string        `envconfig:"WALLET_BASE_URL" default:"https://phantom.app/ul/v1"`
	RedirectURL   string        `envconfig:"REDIRECT_URL" required:"true"`
	Cluster       string        `envconfig:"SOLANA_CLUSTER" default:"mainnet-beta"`
	ExplorerHost  string        `envconfig:"EXPLORER_HOST" default:"solscan.io"`
	PayTokenMint  string        `envconfig:"PAY_TOKEN_MINT" default:"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"`
	PayTokenDec   uint8         `envconfig:"PAY_TOKEN_DECIMALS" default:"6"`
	PendingPath   string        `envconfig:"PENDING_FILE_PATH" default:"pending_tx.json"`
	PendingTTL    time.Duration `envconfig:"PENDING_TTL" default:"30m"`
	AuditURL      string        `envconfig:"AUDIT_URL"`
	AuditTimeout  time.Duration `envconfig:"AUDIT_TIMEOUT" default:"5s"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	cfg = &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetWalletBaseURL returns the wallet deep-link base URL from configuration
func GetWalletBaseURL() string {
	return Get().WalletBaseURL
}

// GetRedirectURL returns the return URL the wallet redirects back to
func GetRedirectURL() string {
	return Get().RedirectURL
}

// GetCluster returns the Solana cluster name from configuration
func GetCluster() string {
	return Get().Cluster
}

// GetExplorerHost returns the block explorer host from configuration
func GetExplorerHost() string {
	return Get().ExplorerHost
}

// GetPayTokenMint returns the payment token mint address from configuration
func GetPayTokenMint() string {
	return Get().PayTokenMint
}

// GetPayTokenDecimals returns the payment token decimals from configuration
func GetPayTokenDecimals() uint8 {
	return Get().PayTokenDec
}

// GetPendingPath returns path to the pending-transaction file from configuration
func GetPendingPath() string {
	return Get().PendingPath
}

// GetPendingTTL returns how long a saved pending transaction stays loadable
func GetPendingTTL() time.Duration {
	return Get().PendingTTL
}

// GetAuditURL returns the audit sink URL; empty disables forwarding
func GetAuditURL() string {
	return Get().AuditURL
}

// GetAuditTimeout returns the timeout for audit sink requests
func GetAuditTimeout() time.Duration {
	return Get().AuditTimeout
}
