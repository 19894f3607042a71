package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	App struct {
		Name      string `envconfig:"APP_NAME" default:"FinDash"`
		Port      int    `envconfig:"PORT" default:"3000"`
		LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
		LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	}

	DB struct {
		Driver        string `envconfig:"DB_DRIVER" default:"mongo"`
		MongoURI      string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
		MongoDatabase string `envconfig:"MONGO_DATABASE" default:"FinAppDB"`
		Host          string `envconfig:"DB_HOST" default:"localhost"`
		Port          int    `envconfig:"DB_PORT" default:"5432"`
		User          string `envconfig:"DB_USER" default:"postgres"`
		Password      string `envconfig:"DB_PASSWORD" default:""`
		Name          string `envconfig:"DB_NAME" default:"findash"`
	}

	Server struct {
		Timeout      time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		QueryTimeout time.Duration `envconfig:"QUERY_TIMEOUT" default:"10s"`
	}

	Auth struct {
		JWTSecret    string        `envconfig:"JWT_SECRET" required:"true"`
		TokenTTL     time.Duration `envconfig:"TOKEN_TTL" default:"168h"`
		CookieSecure bool          `envconfig:"COOKIE_SECURE" default:"false"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	}

	Redis struct {
		Addr     string `envconfig:"REDIS_ADDR"`
		Password string `envconfig:"REDIS_PASSWORD"`
		DB       int    `envconfig:"REDIS_DB" default:"0"`
	}

	Mail struct {
		ResendAPIKey string `envconfig:"RESEND_API_KEY"`
		From         string `envconfig:"MAIL_FROM" default:"FinDash <onboarding@resend.dev>"`
		BaseURL      string `envconfig:"MAIL_BASE_URL" default:"https://api.resend.com"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case DriverMongo, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}

	if c.Server.QueryTimeout <= 0 {
		return fmt.Errorf("QUERY_TIMEOUT must be positive")
	}

	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}

	return nil
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
