package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultWAAPIURL          = "https://graph.facebook.com/v21.0"
	defaultThreshold         = 0.6
	defaultKeepAliveInterval = 14 * time.Minute
)

type Config struct {
	WAPhoneNumberID string
	WAAccessToken   string
	WAVerifyToken   string
	WAAPIURL        string

	ERPBaseURL        string
	ERPAPIKey         string
	ERPAPISecret      string
	ERPCustomDocTypes []string

	NLPEnabled     bool
	NLPThreshold   float64
	NLPAnalytics   bool
	NLPCatalogPath string

	KeepAliveURL      string
	KeepAliveInterval time.Duration

	Port    string
	DataDir string
}

func Load() (*Config, error) {
	// .env is optional; env vars may already be set in production
	_ = godotenv.Load()

	cfg := &Config{
		WAPhoneNumberID:   os.Getenv("WA_PHONE_NUMBER_ID"),
		WAAccessToken:     os.Getenv("WA_ACCESS_TOKEN"),
		WAVerifyToken:     os.Getenv("WA_VERIFY_TOKEN"),
		WAAPIURL:          os.Getenv("WA_API_URL"),
		ERPBaseURL:        strings.TrimRight(os.Getenv("ERP_BASE_URL"), "/"),
		ERPAPIKey:         os.Getenv("ERP_API_KEY"),
		ERPAPISecret:      os.Getenv("ERP_API_SECRET"),
		ERPCustomDocTypes: parseListEnv("ERP_CUSTOM_DOCTYPES"),
		NLPEnabled:        parseBoolEnv("NLP_ENABLED", true),
		NLPAnalytics:      parseBoolEnv("NLP_ANALYTICS", false),
		NLPCatalogPath:    os.Getenv("NLP_CATALOG"),
		KeepAliveURL:      os.Getenv("KEEPALIVE_URL"),
		Port:              os.Getenv("PORT"),
		DataDir:           os.Getenv("DATA_DIR"),
	}

	if cfg.WAAPIURL == "" {
		cfg.WAAPIURL = defaultWAAPIURL
	}

	if len(cfg.ERPCustomDocTypes) == 0 {
		cfg.ERPCustomDocTypes = []string{"Address"}
	}

	threshold, err := parseFloatEnv("NLP_THRESHOLD", defaultThreshold)
	if err != nil {
		return nil, err
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("NLP_THRESHOLD must be between 0 and 1, got %v", threshold)
	}
	cfg.NLPThreshold = threshold

	interval, err := parseDurationEnv("KEEPALIVE_INTERVAL", defaultKeepAliveInterval)
	if err != nil {
		return nil, err
	}
	if interval <= 0 {
		return nil, fmt.Errorf("KEEPALIVE_INTERVAL must be positive, got %v", interval)
	}
	cfg.KeepAliveInterval = interval

	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if cfg.DataDir == "" {
		cfg.DataDir = "."
	}

	if cfg.WAVerifyToken == "" {
		token, err := randomHex(16)
		if err != nil {
			return nil, fmt.Errorf("generating verify token: %w", err)
		}
		cfg.WAVerifyToken = token
	}

	for _, req := range []struct {
		name, val string
	}{
		{"WA_PHONE_NUMBER_ID", cfg.WAPhoneNumberID},
		{"WA_ACCESS_TOKEN", cfg.WAAccessToken},
		{"ERP_BASE_URL", cfg.ERPBaseURL},
		{"ERP_API_KEY", cfg.ERPAPIKey},
		{"ERP_API_SECRET", cfg.ERPAPISecret},
	} {
		if req.val == "" {
			return nil, fmt.Errorf("required env var %s is not set", req.name)
		}
	}

	return cfg, nil
}

func parseListEnv(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseBoolEnv(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func parseFloatEnv(key string, def float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return v, nil
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return v, nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
