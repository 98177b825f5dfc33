package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection,
//   provider credentials) and security settings
// - default: Values common across all environments (timeouts, URLs, etc.)
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	CORS     CORSConfig
	Log      LogConfig
	JWT      JWTConfig
	Payments PaymentsConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type CORSConfig struct {
	AllowOrigins     []string `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool     `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAgeSeconds    int      `envconfig:"CORS_MAX_AGE_SECONDS" default:"43200"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

type JWTConfig struct {
	Secret string `envconfig:"JWT_SECRET" required:"true"`
}

// PaymentsConfig carries provider credentials and callback endpoints. Studio
// payment accounts (per-studio access tokens) live in the database; these are
// the process-wide settings only.
type PaymentsConfig struct {
	DefaultProvider string `envconfig:"PAYMENTS_DEFAULT_PROVIDER" default:"mercadopago"`
	Production      bool   `envconfig:"PAYMENTS_PRODUCTION" default:"false"`

	MercadoPagoBaseURL string `envconfig:"MP_BASE_URL" default:"https://api.mercadopago.com"`
	StripeSecretKey    string `envconfig:"STRIPE_SECRET_KEY" default:""`

	WebhookBaseURL string `envconfig:"PAYMENTS_WEBHOOK_BASE_URL" required:"true"`
	SuccessURL     string `envconfig:"PAYMENTS_SUCCESS_URL" default:"http://localhost:3000/payments/success"`
	FailureURL     string `envconfig:"PAYMENTS_FAILURE_URL" default:"http://localhost:3000/payments/failure"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433",
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Log: LogConfig{
			Level:      "error",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret: "test-secret",
		},
		Payments: PaymentsConfig{
			DefaultProvider:    "mercadopago",
			MercadoPagoBaseURL: "https://api.mercadopago.com",
			WebhookBaseURL:     "http://localhost:8889",
			SuccessURL:         "http://localhost:3000/payments/success",
			FailureURL:         "http://localhost:3000/payments/failure",
		},
	}
}
