package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("WA_PHONE_NUMBER_ID", "123456")
	t.Setenv("WA_ACCESS_TOKEN", "wa-token")
	t.Setenv("ERP_BASE_URL", "https://erp.example.com/")
	t.Setenv("ERP_API_KEY", "key")
	t.Setenv("ERP_API_SECRET", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	for _, k := range []string{
		"WA_VERIFY_TOKEN", "WA_API_URL", "ERP_CUSTOM_DOCTYPES", "NLP_ENABLED",
		"NLP_THRESHOLD", "NLP_ANALYTICS", "KEEPALIVE_INTERVAL", "PORT", "DATA_DIR",
	} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.ERPBaseURL != "https://erp.example.com" {
		t.Errorf("ERPBaseURL = %q, want trailing slash trimmed", cfg.ERPBaseURL)
	}
	if cfg.NLPThreshold != 0.6 {
		t.Errorf("NLPThreshold = %v, want 0.6", cfg.NLPThreshold)
	}
	if !cfg.NLPEnabled {
		t.Error("NLPEnabled should default to true")
	}
	if cfg.NLPAnalytics {
		t.Error("NLPAnalytics should default to false")
	}
	if len(cfg.ERPCustomDocTypes) != 1 || cfg.ERPCustomDocTypes[0] != "Address" {
		t.Errorf("ERPCustomDocTypes = %v, want [Address]", cfg.ERPCustomDocTypes)
	}
	if cfg.Port != "8080" || cfg.DataDir != "." {
		t.Errorf("Port/DataDir = %q/%q", cfg.Port, cfg.DataDir)
	}
	if cfg.WAAPIURL != defaultWAAPIURL {
		t.Errorf("WAAPIURL = %q", cfg.WAAPIURL)
	}
	if len(cfg.WAVerifyToken) != 32 {
		t.Errorf("generated verify token %q should be 32 hex chars", cfg.WAVerifyToken)
	}
	if cfg.KeepAliveInterval != 14*time.Minute {
		t.Errorf("KeepAliveInterval = %v", cfg.KeepAliveInterval)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ERP_CUSTOM_DOCTYPES", "Address, Delivery Note ,")
	t.Setenv("NLP_THRESHOLD", "0.75")
	t.Setenv("NLP_ENABLED", "false")
	t.Setenv("NLP_ANALYTICS", "true")
	t.Setenv("KEEPALIVE_INTERVAL", "5m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := strings.Join(cfg.ERPCustomDocTypes, "|"); got != "Address|Delivery Note" {
		t.Errorf("ERPCustomDocTypes = %q", got)
	}
	if cfg.NLPThreshold != 0.75 {
		t.Errorf("NLPThreshold = %v", cfg.NLPThreshold)
	}
	if cfg.NLPEnabled || !cfg.NLPAnalytics {
		t.Errorf("NLPEnabled/NLPAnalytics = %v/%v", cfg.NLPEnabled, cfg.NLPAnalytics)
	}
	if cfg.KeepAliveInterval != 5*time.Minute {
		t.Errorf("KeepAliveInterval = %v", cfg.KeepAliveInterval)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("ERP_API_SECRET", "")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "ERP_API_SECRET") {
		t.Fatalf("expected missing ERP_API_SECRET error, got %v", err)
	}
}

func TestLoadInvalidThreshold(t *testing.T) {
	setRequired(t)
	t.Setenv("NLP_THRESHOLD", "1.5")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for threshold outside [0,1]")
	}
}

func TestLoadInvalidKeepAliveInterval(t *testing.T) {
	for _, v := range []string{"0s", "-5m"} {
		t.Run(v, func(t *testing.T) {
			setRequired(t)
			t.Setenv("KEEPALIVE_URL", "https://erpbot.example.com/health")
			t.Setenv("KEEPALIVE_INTERVAL", v)

			if _, err := Load(); err == nil {
				t.Fatalf("expected error for KEEPALIVE_INTERVAL=%s", v)
			}
		})
	}
}
