package upstream

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Credentials identifies this relay to the upstream: a stable ID plus an
// ed25519 keypair used to sign handshake and query bodies (SendRequest
// bodies are sent as given, unsigned). PublicKey is
// advertised during the handshake; SecretKey never leaves this process.
type Credentials struct {
	ID        string
	PublicKey ed25519.PublicKey
	SecretKey ed25519.PrivateKey
}

// Pack serializes v to JSON and signs the resulting bytes, returning the
// payload and a base64-encoded signature suitable for the
// X-Sentry-Relay-Signature header. This mirrors the original's
// secret_key.pack(query) call, which signs the exact bytes placed on the
// wire rather than a canonicalized re-encoding of v.
func (c Credentials) Pack(v interface{}) ([]byte, string, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, "", fmt.Errorf("upstream: pack payload: %w", err)
	}
	if len(c.SecretKey) != ed25519.PrivateKeySize {
		return nil, "", fmt.Errorf("upstream: missing or malformed secret key")
	}
	sig := ed25519.Sign(c.SecretKey, payload)
	return payload, base64.StdEncoding.EncodeToString(sig), nil
}

// Verify checks a signature produced by Pack against this credential's
// public key, the check a real upstream performs on handshake requests.
// internal/testupstream does the same check with ed25519.Verify directly.
func (c Credentials) Verify(payload []byte, signatureB64 string) bool {
	sig, err := base64.StdEncoding.DecodeString(signatureB64)
	if err != nil {
		return false
	}
	if len(c.PublicKey) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(c.PublicKey, payload, sig)
}
