package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration for both binaries.
type Config struct {
	DatabaseURL  string
	Port         string // backend listen port
	IsProduction bool

	// Gateway
	GatewayPort string
	BackendURL  string // upstream for /api/* at the gateway
	FrontendURL string // upstream for everything else at the gateway

	// Auth
	JWTSecret                  string
	JWTExpiryDuration          time.Duration
	JWTIssuer                  string
	RefreshTokenExpiryDuration time.Duration
	RefreshTokenCookieName     string
	RefreshTokenCookiePath     string

	// External OAuth Providers
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`

	// Off-chain / chain settlement
	VASPAddress          string // hex, 16 bytes: this wallet's on-chain address
	CompliancePrivateKey string // hex, signs recipient signatures and outbound commands
	ChainJSONRPCURL      string
	OffchainTickInterval time.Duration

	// Exchange rates provider
	RatesAPIURL       string
	RatesPollInterval time.Duration

	// Analytics
	PosthogAPIKey  string
	PosthogHostURL string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "5000")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("GATEWAY_PORT", "8000")
	viper.SetDefault("BACKEND_URL", "http://localhost:5000")
	viper.SetDefault("FRONTEND_URL", "http://localhost:3000")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "wallet-backend")
	viper.SetDefault("REFRESH_TOKEN_EXPIRY_DURATION", "168h")
	viper.SetDefault("REFRESH_TOKEN_COOKIE_NAME", "rtid")
	viper.SetDefault("REFRESH_TOKEN_COOKIE_PATH", "/api/v1/auth")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("VASP_ADDRESS", "")
	viper.SetDefault("COMPLIANCE_PRIVATE_KEY", "")
	viper.SetDefault("CHAIN_JSONRPC_URL", "http://localhost:8080/v1")
	viper.SetDefault("OFFCHAIN_TICK_INTERVAL", "2s")
	viper.SetDefault("RATES_API_URL", "")
	viper.SetDefault("RATES_POLL_INTERVAL", "1m")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_HOST_URL", "https://app.posthog.com")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.GatewayPort = viper.GetString("GATEWAY_PORT")
	cfg.BackendURL = viper.GetString("BACKEND_URL")
	cfg.FrontendURL = viper.GetString("FRONTEND_URL")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	jwtExpiry, err := time.ParseDuration(viper.GetString("JWT_EXPIRY_DURATION"))
	if err != nil {
		jwtExpiry = time.Hour
		log.Printf("Warning: Invalid JWT_EXPIRY_DURATION (%q). Defaulting to %s.\n", viper.GetString("JWT_EXPIRY_DURATION"), jwtExpiry)
	}
	cfg.JWTExpiryDuration = jwtExpiry

	refreshExpiry, err := time.ParseDuration(viper.GetString("REFRESH_TOKEN_EXPIRY_DURATION"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
		log.Printf("Warning: Invalid REFRESH_TOKEN_EXPIRY_DURATION (%q). Defaulting to %s.\n", viper.GetString("REFRESH_TOKEN_EXPIRY_DURATION"), refreshExpiry)
	}
	cfg.RefreshTokenExpiryDuration = refreshExpiry
	cfg.RefreshTokenCookieName = viper.GetString("REFRESH_TOKEN_COOKIE_NAME")
	cfg.RefreshTokenCookiePath = viper.GetString("REFRESH_TOKEN_COOKIE_PATH")

	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = viper.GetString("GOOGLE_REDIRECT_URL")
	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Google OAuth will not function.")
	}

	cfg.VASPAddress = viper.GetString("VASP_ADDRESS")
	cfg.CompliancePrivateKey = viper.GetString("COMPLIANCE_PRIVATE_KEY")
	cfg.ChainJSONRPCURL = viper.GetString("CHAIN_JSONRPC_URL")

	tickInterval, err := time.ParseDuration(viper.GetString("OFFCHAIN_TICK_INTERVAL"))
	if err != nil {
		return nil, fmt.Errorf("invalid OFFCHAIN_TICK_INTERVAL: %w", err)
	}
	cfg.OffchainTickInterval = tickInterval

	cfg.RatesAPIURL = viper.GetString("RATES_API_URL")
	pollInterval, err := time.ParseDuration(viper.GetString("RATES_POLL_INTERVAL"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATES_POLL_INTERVAL: %w", err)
	}
	cfg.RatesPollInterval = pollInterval

	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.PosthogHostURL = viper.GetString("POSTHOG_HOST_URL")

	return cfg, nil
}
