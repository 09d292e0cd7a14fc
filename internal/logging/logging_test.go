package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestCompactFormatterIncludesLevelAndMessage(t *testing.T) {
	log := New(Options{})
	var buf bytes.Buffer
	log.SetOutput(&buf)
	log.WithField("relay_id", "r1").Warn("authentication encountered error")

	out := buf.String()
	if !bytes.Contains([]byte(out), []byte("WARN")) {
		t.Fatalf("expected level in output, got %q", out)
	}
	if !bytes.Contains([]byte(out), []byte("authentication encountered error")) {
		t.Fatalf("expected message in output, got %q", out)
	}
	if !bytes.Contains([]byte(out), []byte("relay_id=r1")) {
		t.Fatalf("expected field in output, got %q", out)
	}
}

func TestVerboseTogglePersists(t *testing.T) {
	original := VerboseEnabled()
	defer SetVerboseEnabled(original)

	SetVerboseEnabled(true)
	if !VerboseEnabled() {
		t.Fatalf("expected verbose enabled")
	}
	log := New(Options{})
	if log.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level when verbose, got %v", log.GetLevel())
	}

	SetVerboseEnabled(false)
	log2 := New(Options{})
	if log2.GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected info level when not verbose, got %v", log2.GetLevel())
	}
}
