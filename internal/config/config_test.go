package config

import (
	"crypto/ed25519"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir string, body string) string {
	t.Helper()
	path := filepath.Join(dir, "relay.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaultsWhenFieldsOmitted(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "upstream: https://example.invalid\n")

	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.UpstreamDescriptor() != "https://example.invalid" {
		t.Fatalf("unexpected upstream: %q", cfg.UpstreamDescriptor())
	}
	if cfg.RelayMode() != "managed" {
		t.Fatalf("expected default mode 'managed', got %q", cfg.RelayMode())
	}
	if cfg.HTTPTimeout() != 30*time.Second {
		t.Fatalf("expected default http timeout 30s, got %v", cfg.HTTPTimeout())
	}
	if cfg.OutboundConcurrency() != 50 {
		t.Fatalf("expected default concurrency 50, got %d", cfg.OutboundConcurrency())
	}
	if _, ok := cfg.Credentials(); ok {
		t.Fatalf("expected no credentials when relay_id/public_key/secret_key_env_var are absent")
	}
}

func TestLoadCredentialsFromEnvOverlay(t *testing.T) {
	dir := t.TempDir()
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	envPath := filepath.Join(dir, ".env")
	envBody := "RELAY_SECRET_KEY=" + base64.StdEncoding.EncodeToString(priv) + "\n"
	if err := os.WriteFile(envPath, []byte(envBody), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}

	configBody := "upstream: https://example.invalid\n" +
		"relay_id: relay-1\n" +
		"public_key: " + base64.StdEncoding.EncodeToString(pub) + "\n" +
		"secret_key_env_var: RELAY_SECRET_KEY\n"
	path := writeConfig(t, dir, configBody)

	cfg, err := Load(path, envPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	creds, ok := cfg.Credentials()
	if !ok {
		t.Fatalf("expected credentials to be present")
	}
	if creds.ID != "relay-1" {
		t.Fatalf("unexpected relay id: %q", creds.ID)
	}
	if len(creds.SecretKey) != ed25519.PrivateKeySize {
		t.Fatalf("expected a full secret key, got %d bytes", len(creds.SecretKey))
	}
}

func TestLoadRejectsMissingSecretKeyEnvVar(t *testing.T) {
	dir := t.TempDir()
	_, _ = os.LookupEnv("RELAY_SECRET_KEY_MISSING")
	pub, _, _ := ed25519.GenerateKey(nil)
	configBody := "upstream: https://example.invalid\n" +
		"relay_id: relay-1\n" +
		"public_key: " + base64.StdEncoding.EncodeToString(pub) + "\n" +
		"secret_key_env_var: RELAY_SECRET_KEY_MISSING\n"
	path := writeConfig(t, dir, configBody)

	if _, err := Load(path, ""); err == nil {
		t.Fatalf("expected error when secret key env var is unset")
	}
}
