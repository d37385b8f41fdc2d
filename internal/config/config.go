package config

import (
	"errors"
	"os"
	"strings"
)

// SMS provider names accepted in SMS_PROVIDER.
const (
	ProviderAuthkey = "authkey"
	ProviderSNS     = "sns"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string

	DynamoTables DynamoTables

	SMSProvider        string
	AuthkeyBaseURL     string
	AuthkeyAPIKey      string
	AuthkeyCountryCode string
	AuthkeySID         string
	SNSRegion          string

	AllowedOrigins []string // CORS allowed origins

	// ExposeDevOTP echoes the generated passcode in the send-otp response.
	// Forced off when AppEnv is "production".
	ExposeDevOTP bool
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	OTPVerifications string
	Users            string
}

// Load reads all configuration from environment variables.
// It fails when the configured SMS provider is authkey and no API key is set:
// there is no fallback key.
func Load() (*Config, error) {
	cfg := &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),

		DynamoTables: DynamoTables{
			OTPVerifications: getEnv("DYNAMO_TABLE_OTP_VERIFICATIONS", "otp_verifications"),
			Users:            getEnv("DYNAMO_TABLE_USERS", "users"),
		},

		SMSProvider:        getEnv("SMS_PROVIDER", ProviderAuthkey),
		AuthkeyBaseURL:     getEnv("AUTHKEY_BASE_URL", "https://api.authkey.io"),
		AuthkeyAPIKey:      getEnv("AUTHKEY_API_KEY", ""),
		AuthkeyCountryCode: getEnv("AUTHKEY_COUNTRY_CODE", "91"),
		AuthkeySID:         getEnv("AUTHKEY_SID", "14537"),
		SNSRegion:          getEnv("SNS_REGION", "us-east-1"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),

		ExposeDevOTP: getEnv("EXPOSE_DEV_OTP", "false") == "true",
	}

	if cfg.AppEnv == "production" {
		cfg.ExposeDevOTP = false
	}

	if cfg.SMSProvider == ProviderAuthkey && cfg.AuthkeyAPIKey == "" {
		return nil, errors.New("AUTHKEY_API_KEY is required when SMS_PROVIDER=authkey")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
