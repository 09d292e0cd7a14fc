package upstream

import (
	"crypto/ed25519"
	"testing"
)

func TestPackAndVerifyRoundTrip(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	creds := Credentials{ID: "relay-1", PublicKey: pub, SecretKey: priv}

	payload, sig, err := creds.Pack(map[string]string{"hello": "world"})
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if !creds.Verify(payload, sig) {
		t.Fatalf("expected signature to verify")
	}
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	creds := Credentials{ID: "relay-1", PublicKey: pub, SecretKey: priv}

	payload, sig, err := creds.Pack(map[string]string{"hello": "world"})
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	payload[0] ^= 0xFF
	if creds.Verify(payload, sig) {
		t.Fatalf("expected signature verification to fail on tampered payload")
	}
}

func TestPackFailsWithoutSecretKey(t *testing.T) {
	creds := Credentials{ID: "relay-1"}
	if _, _, err := creds.Pack(map[string]string{}); err == nil {
		t.Fatalf("expected error packing without a secret key")
	}
}
