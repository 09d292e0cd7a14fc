package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestTransportDoRejectsOversizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(strings.Repeat("a", 64)))
	}))
	defer srv.Close()

	transport, err := NewTransport(time.Second, time.Second, "", 8)
	if err != nil {
		t.Fatalf("NewTransport: %v", err)
	}

	_, err = transport.Do(context.Background(), http.MethodGet, srv.URL, nil, nil)
	if err != ErrPayloadFailed {
		t.Fatalf("expected ErrPayloadFailed, got %v", err)
	}
}

func TestTransportDoAllowsBodyUnderLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	transport, err := NewTransport(time.Second, time.Second, "", 1<<20)
	if err != nil {
		t.Fatalf("NewTransport: %v", err)
	}

	resp, err := transport.Do(context.Background(), http.MethodGet, srv.URL, nil, nil)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if string(resp.Body()) != "ok" {
		t.Fatalf("unexpected body: %s", resp.Body())
	}
}

func TestTransportDoUnboundedWhenLimitZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(strings.Repeat("b", 4096)))
	}))
	defer srv.Close()

	transport, err := NewTransport(time.Second, time.Second, "", 0)
	if err != nil {
		t.Fatalf("NewTransport: %v", err)
	}

	resp, err := transport.Do(context.Background(), http.MethodGet, srv.URL, nil, nil)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if len(resp.Body()) != 4096 {
		t.Fatalf("expected full body, got %d bytes", len(resp.Body()))
	}
}
