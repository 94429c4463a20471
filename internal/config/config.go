package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the service configuration, read from a YAML file with
// environment overrides.
type Config struct {
	// Environment selects the logger flavor: development or production
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`
	// LogLevel overrides the environment's default log level when set
	LogLevel string `env:"LOG_LEVEL" yaml:"logLevel"`

	// HTTP configures the API server
	HTTP struct {
		// Addr is the listen address
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout bounds reading a whole request
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout bounds reading request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout bounds writing a response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"2m" yaml:"writeTimeout"`
		// IdleTimeout bounds keep-alive waits
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout bounds handler time, enrichment included
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"90s" yaml:"requestTimeout"`
		// MaxHeaderBytes caps request headers; 0 keeps the net/http default
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MetricsPath serves prometheus metrics
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
	} `yaml:"http"`

	// Providers contains credentials of the external data providers. A missing
	// credential leaves its provider unconfigured.
	Providers struct {
		// WhoisFreaksAPIKey authenticates registration lookups
		WhoisFreaksAPIKey string `env:"WHOISFREAKS_API_KEY" yaml:"whoisfreaksApiKey"`
		// HunterAPIKey authenticates the primary contact provider
		HunterAPIKey string `env:"HUNTER_API_KEY" yaml:"hunterApiKey"`
		// SnovClientID and SnovClientSecret authenticate the secondary contact provider
		SnovClientID     string `env:"SNOV_CLIENT_ID" yaml:"snovClientId"`
		SnovClientSecret string `env:"SNOV_CLIENT_SECRET" yaml:"snovClientSecret"`
		// SnovAPIKey fills whichever half of the Snov credential pair is missing
		SnovAPIKey string `env:"SNOV_API_KEY" yaml:"snovApiKey"`
		// Timeout bounds every call made to a provider API
		Timeout time.Duration `env:"PROVIDER_TIMEOUT" env-default:"30s" yaml:"timeout"`
	} `yaml:"providers"`

	// Fingerprint contains homepage fetching and signature settings
	Fingerprint struct {
		// FetchTimeout bounds a homepage fetch
		FetchTimeout time.Duration `env:"FETCH_TIMEOUT" env-default:"10s" yaml:"fetchTimeout"`
		// SignaturesFile optionally extends the built-in signatures with a YAML file
		SignaturesFile string `env:"FINGERPRINT_SIGNATURES_FILE" yaml:"signaturesFile"`
	} `yaml:"fingerprint"`

	// Enrich contains defaults applied to enrichments that do not override them
	Enrich struct {
		// MaxEmails is the default contact quota per domain
		MaxEmails int `env:"ENRICH_MAX_EMAILS" env-default:"10" yaml:"maxEmails"`
		// ContactSource is the default provider preference (primary, secondary, both or a provider name)
		ContactSource string `env:"ENRICH_CONTACT_SOURCE" env-default:"both" yaml:"contactSource"`
	} `yaml:"enrich"`

	// Scoring replaces the default scoring lists when set
	Scoring struct {
		TargetCountries   []string `env:"SCORING_TARGET_COUNTRIES" yaml:"targetCountries"`
		ValuablePlatforms []string `env:"SCORING_VALUABLE_PLATFORMS" yaml:"valuablePlatforms"`
		SpamKeywords      []string `env:"SCORING_SPAM_KEYWORDS" yaml:"spamKeywords"`
		// SpamPenaltyOnly stops a spam hit from flooring the total score
		SpamPenaltyOnly bool `env:"SCORING_SPAM_PENALTY_ONLY" yaml:"spamPenaltyOnly"`
	} `yaml:"scoring"`

	// GracefulShutdownTimeout bounds draining in-flight requests on SIGINT/SIGTERM
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load reads configPath and applies environment overrides. An empty or
// missing path reads the environment only.
func Load(configPath string) (*Config, error) {
	var cfg Config

	if configPath != "" {
		_, err := os.Stat(configPath)
		switch {
		case err == nil:
			if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
				return nil, fmt.Errorf("could not read config: %w", err)
			}

			return &cfg, nil
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("could not stat config: %w", err)
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("could not read config from environment: %w", err)
	}

	return &cfg, nil
}
