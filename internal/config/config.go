// Package config provides a concrete, YAML-backed implementation of
// upstream.Config, the way internal/config/sdk_config.go backs
// SDKConfig — plain struct with yaml tags, loaded once at startup, with a
// .env overlay for secret material that should never live in a
// checked-in config file.
package config

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/router-for-me/upstream-relay/internal/upstream"
)

// RelayConfig is the on-disk shape of the relay client's configuration.
type RelayConfig struct {
	Upstream   string `yaml:"upstream"`
	HostHeader string `yaml:"host_header"`
	Mode       string `yaml:"mode"`
	Proxy      string `yaml:"proxy"`

	RelayID         string `yaml:"relay_id"`
	PublicKey       string `yaml:"public_key"`        // base64 ed25519 public key
	SecretKeyEnvVar string `yaml:"secret_key_env_var"` // env var holding the base64 secret key

	EventBufferExpirySeconds     int   `yaml:"event_buffer_expiry_seconds"`
	HTTPConnectionTimeoutSeconds int   `yaml:"http_connection_timeout_seconds"`
	HTTPTimeoutSeconds           int   `yaml:"http_timeout_seconds"`
	HTTPMaxRetryIntervalSeconds  int   `yaml:"http_max_retry_interval_seconds"`
	MaxAPIPayloadSizeBytes       int64 `yaml:"max_api_payload_size_bytes"`
	OutboundConcurrency          int   `yaml:"outbound_concurrency"`
}

// FileConfig wraps a loaded RelayConfig and satisfies upstream.Config.
type FileConfig struct {
	raw   RelayConfig
	creds upstream.Credentials
	has   bool
}

// Load reads configPath as YAML and, if envPath is non-empty, overlays
// environment variables from it first via godotenv — missing envPath is
// not an error, matching godotenv's own "optional file" convention used
// throughout the teacher's codebase.
func Load(configPath, envPath string) (*FileConfig, error) {
	if envPath != "" {
		_ = godotenv.Load(envPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", configPath, err)
	}

	var raw RelayConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", configPath, err)
	}

	fc := &FileConfig{raw: raw}
	if raw.RelayID != "" && raw.PublicKey != "" && raw.SecretKeyEnvVar != "" {
		creds, err := loadCredentials(raw)
		if err != nil {
			return nil, err
		}
		fc.creds = creds
		fc.has = true
	}
	return fc, nil
}

func loadCredentials(raw RelayConfig) (upstream.Credentials, error) {
	pub, err := base64.StdEncoding.DecodeString(raw.PublicKey)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return upstream.Credentials{}, fmt.Errorf("config: malformed public_key")
	}
	secretB64 := os.Getenv(raw.SecretKeyEnvVar)
	if secretB64 == "" {
		return upstream.Credentials{}, fmt.Errorf("config: secret key env var %q is unset", raw.SecretKeyEnvVar)
	}
	secret, err := base64.StdEncoding.DecodeString(secretB64)
	if err != nil || len(secret) != ed25519.PrivateKeySize {
		return upstream.Credentials{}, fmt.Errorf("config: malformed secret key in %q", raw.SecretKeyEnvVar)
	}
	return upstream.Credentials{
		ID:        raw.RelayID,
		PublicKey: ed25519.PublicKey(pub),
		SecretKey: ed25519.PrivateKey(secret),
	}, nil
}

func (c *FileConfig) UpstreamDescriptor() string { return c.raw.Upstream }
func (c *FileConfig) HTTPHostHeader() string     { return c.raw.HostHeader }
func (c *FileConfig) RelayMode() string {
	if c.raw.Mode == "" {
		return "managed"
	}
	return c.raw.Mode
}
func (c *FileConfig) Credentials() (upstream.Credentials, bool) { return c.creds, c.has }
func (c *FileConfig) ProxyURL() string                          { return c.raw.Proxy }

func (c *FileConfig) EventBufferExpiry() time.Duration {
	return secondsOrDefault(c.raw.EventBufferExpirySeconds, 30*time.Second)
}
func (c *FileConfig) HTTPConnectionTimeout() time.Duration {
	return secondsOrDefault(c.raw.HTTPConnectionTimeoutSeconds, 5*time.Second)
}
func (c *FileConfig) HTTPTimeout() time.Duration {
	return secondsOrDefault(c.raw.HTTPTimeoutSeconds, 30*time.Second)
}
func (c *FileConfig) HTTPMaxRetryInterval() time.Duration {
	return secondsOrDefault(c.raw.HTTPMaxRetryIntervalSeconds, 60*time.Second)
}
func (c *FileConfig) MaxAPIPayloadSize() int64 {
	if c.raw.MaxAPIPayloadSizeBytes <= 0 {
		return 5 * 1024 * 1024
	}
	return c.raw.MaxAPIPayloadSizeBytes
}
func (c *FileConfig) OutboundConcurrency() int {
	if c.raw.OutboundConcurrency <= 0 {
		return 50
	}
	return c.raw.OutboundConcurrency
}

func secondsOrDefault(seconds int, fallback time.Duration) time.Duration {
	if seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}
