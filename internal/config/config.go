package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	DatabaseURL string `env:"DATABASE_URL"`
	JWTSecret   string `env:"JWT_SECRET"`

	Cakto    Cakto    `envPrefix:"CAKTO_"`
	Notifier Notifier `envPrefix:"NOTIFIER_"`
}

type Cakto struct {
	// WebhookSecret, when set, must match the secret field in incoming
	// webhook payloads. Leave empty to skip the check in development.
	WebhookSecret string `env:"WEBHOOK_SECRET"`
}

type Notifier struct {
	WebhookURL string        `env:"WEBHOOK_URL"`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"10s"`
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
}
