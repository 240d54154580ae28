package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Payment  PaymentConfig
	SMTP     SMTPConfig
	Referral ReferralConfig
}

type ServerConfig struct {
	Port         string
	Environment  string
	BaseURL      string
	JWTSecret    string
	AllowOrigins string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// PaymentConfig carries everything needed to talk to the checkout provider:
// the API credentials for outbound calls and the shared secret for
// verifying inbound webhook signatures.
type PaymentConfig struct {
	APIBase        string
	SecretKey      string
	WebhookSecret  string
	RequestTimeout time.Duration
}

type SMTPConfig struct {
	Host            string
	Port            int
	Username        string
	Password        string
	From            string
	AdminRecipients []string
}

// ReferralConfig holds the commission terms. CreditPolicy selects when a
// referral commission is written: "on_initiate" credits when a checkout
// session is created (the historical behavior), "on_confirm" credits when
// the provider confirms payment via webhook.
type ReferralConfig struct {
	CommissionRate decimal.Decimal
	CreditPolicy   string
}

func (d DatabaseConfig) DSN() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.Name + "?sslmode=" + d.SSLMode
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "465"))
	timeoutSec, _ := strconv.Atoi(getEnv("PAYMENT_TIMEOUT_SECONDS", "30"))

	rate, err := decimal.NewFromString(getEnv("REFERRAL_COMMISSION_RATE", "0.40"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Environment:  getEnv("ENVIRONMENT", "development"),
			BaseURL:      getEnv("BASE_URL", "http://localhost:8080"),
			JWTSecret:    getEnv("JWT_SECRET", "change-me-in-production"),
			AllowOrigins: getEnv("ALLOW_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "buzz4less"),
			Password: getEnv("DB_PASSWORD", "buzz4less"),
			Name:     getEnv("DB_NAME", "buzz4less"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Payment: PaymentConfig{
			APIBase:        getEnv("PAYMENT_API_BASE", "https://api.stripe.com"),
			SecretKey:      getEnv("PAYMENT_SECRET_KEY", ""),
			WebhookSecret:  getEnv("PAYMENT_WEBHOOK_SECRET", ""),
			RequestTimeout: time.Duration(timeoutSec) * time.Second,
		},
		SMTP: SMTPConfig{
			Host:            getEnv("SMTP_HOST", "mail.privateemail.com"),
			Port:            smtpPort,
			Username:        getEnv("SMTP_USERNAME", ""),
			Password:        getEnv("SMTP_PASSWORD", ""),
			From:            getEnv("SMTP_FROM", "support@buzzforless.com"),
			AdminRecipients: splitList(getEnv("ADMIN_RECIPIENTS", "")),
		},
		Referral: ReferralConfig{
			CommissionRate: rate,
			CreditPolicy:   getEnv("REFERRAL_CREDIT_POLICY", "on_initiate"),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
