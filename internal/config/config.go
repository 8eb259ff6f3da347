package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	RateLimit   RateLimit

	Database Database `envPrefix:"DB_"`
	Redis    Redis    `envPrefix:"REDIS_"`
	Stripe   Stripe   `envPrefix:"STRIPE_"`
	Auth     Auth     `envPrefix:"AUTH_"`
	Breaker  Breaker  `envPrefix:"BREAKER_"`
}

type Stripe struct {
	SecretKey     string `env:"SECRET_KEY"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
	Currency      string `env:"CURRENCY" envDefault:"inr"`
}

type Database struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"` // mysql | sqlite
	URL    string `env:"URL" envDefault:"storefront.db"`
}

// Redis is optional; an empty Addr disables the product cache.
type Redis struct {
	Addr       string        `env:"ADDR"`
	Password   string        `env:"PASSWORD"`
	DB         int           `env:"DB" envDefault:"0"`
	ProductTTL time.Duration `env:"PRODUCT_TTL" envDefault:"5s"` // capped at cache.MaxProductTTL
}

type Auth struct {
	JWTSecret string `env:"JWT_SECRET"`
}

type Breaker struct {
	MaxFailures uint32        `env:"MAX_FAILURES" envDefault:"5"`
	OpenTimeout time.Duration `env:"OPEN_TIMEOUT" envDefault:"30s"`
}

type RateLimit struct {
	PerSecond float64 `env:"RATE_LIMIT_PER_SECOND" envDefault:"20"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
	// Browser origins allowed to call the API with cookies.
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
}
