package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the KPI chatbot engine.
// Configuration can come from YAML file (config.yaml) or environment
// variables. Environment variables always override YAML values.
// Secrets (passwords, API keys) must only come from environment
// variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Engine store configuration (PostgreSQL owned by this service)
	Store StoreConfig `yaml:"store"`

	// Text-generation service configuration
	AI AIConfig `yaml:"ai"`

	// Authentication configuration
	Auth AuthConfig `yaml:"auth"`

	// Timeouts for external calls
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// StoreConfig holds the engine's own PostgreSQL configuration, used to
// persist connection registries. This is distinct from the target
// databases users connect to.
type StoreConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"kpichatbot"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"kpichatbot"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

// ConnectionString returns a PostgreSQL connection string for the
// engine store.
func (c *StoreConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// AIConfig holds the text-generation service configuration.
// Provider selects the client implementation: "openai" for any
// OpenAI-compatible endpoint (including Gemini's compatibility API),
// or "anthropic".
type AIConfig struct {
	Provider string `yaml:"provider" env:"AI_PROVIDER" env-default:"openai"`
	Endpoint string `yaml:"endpoint" env:"AI_ENDPOINT" env-default:"https://generativelanguage.googleapis.com/v1beta/openai"`
	Model    string `yaml:"model" env:"AI_MODEL" env-default:"gemini-pro"`
	APIKey   string `yaml:"-" env:"AI_API_KEY"` // Secret - not in YAML
}

// IsConfigured returns true if a text-generation endpoint is usable.
// When false, the translator and suggester run on their fallback tiers
// only.
func (c *AIConfig) IsConfigured() bool {
	return c.Endpoint != "" && c.Model != "" && c.APIKey != ""
}

// AuthConfig holds session-token configuration. Admin account
// passwords default to the development values from the original
// deployment and should be overridden in any real environment.
type AuthConfig struct {
	// TokenSecret signs HS256 session tokens. Server refuses to start
	// without it.
	TokenSecret string `yaml:"-" env:"AUTH_TOKEN_SECRET"`

	// TokenTTLMinutes is the session token lifetime.
	TokenTTLMinutes int `yaml:"token_ttl_minutes" env:"AUTH_TOKEN_TTL_MINUTES" env-default:"480"`

	BankAdminPassword string `yaml:"-" env:"AUTH_BANK_ADMIN_PASSWORD" env-default:"bank123"`
	ITHRAdminPassword string `yaml:"-" env:"AUTH_ITHR_ADMIN_PASSWORD" env-default:"ithr123"`
}

// TimeoutConfig bounds every external call. Each tier treats a timeout
// as tier failure; lifecycle operations surface it as a typed error.
type TimeoutConfig struct {
	ConnectSeconds    int `yaml:"connect_seconds" env:"TIMEOUT_CONNECT_SECONDS" env-default:"10"`
	ExtractionSeconds int `yaml:"extraction_seconds" env:"TIMEOUT_EXTRACTION_SECONDS" env-default:"30"`
	QuerySeconds      int `yaml:"query_seconds" env:"TIMEOUT_QUERY_SECONDS" env-default:"30"`
	AISeconds         int `yaml:"ai_seconds" env:"TIMEOUT_AI_SECONDS" env-default:"20"`
}

// Connect returns the liveness-probe timeout as a duration.
func (t *TimeoutConfig) Connect() time.Duration {
	return time.Duration(t.ConnectSeconds) * time.Second
}

// Extraction returns the schema-extraction timeout as a duration.
func (t *TimeoutConfig) Extraction() time.Duration {
	return time.Duration(t.ExtractionSeconds) * time.Second
}

// Query returns the query-execution timeout as a duration.
func (t *TimeoutConfig) Query() time.Duration {
	return time.Duration(t.QuerySeconds) * time.Second
}

// AI returns the text-generation timeout as a duration.
func (t *TimeoutConfig) AI() time.Duration {
	return time.Duration(t.AISeconds) * time.Second
}

// Load reads configuration from config.yaml with environment variable
// overrides. The version parameter is injected at build time.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.TokenSecret == "" {
		return fmt.Errorf("AUTH_TOKEN_SECRET must be set")
	}
	switch c.AI.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("unknown AI provider %q", c.AI.Provider)
	}
	return nil
}
