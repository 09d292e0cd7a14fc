// Package testupstream provides an in-process fake upstream built on
// gin, the same HTTP framework the teacher's sdk/api/handlers package
// uses, so internal/upstream's tests can drive a real two-leg handshake
// and real response classification over an httptest.Server instead of
// mocking the Transport.
package testupstream

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	RelayID   string `json:"relay_id"`
	PublicKey string `json:"public_key"`
	Version   string `json:"version"`
}

type registerResponse struct {
	RelayID        string `json:"relay_id"`
	Token          string `json:"token"`
	TokenSignature string `json:"token_signature"`
}

// Response is a canned reply the server should return for the next
// matching request, letting tests script rate-limit, 4xx, and 5xx
// scenarios without standing up real upstream error conditions.
type Response struct {
	Status  int
	Headers map[string]string
	Body    []byte
}

// Server is a fake upstream: it implements the real registration
// handshake against whatever public key a relay presents, and serves
// scripted responses for any other route so the dispatcher's response
// classification can be exercised end to end.
type Server struct {
	mu          sync.Mutex
	pending     map[string]ed25519.PublicKey // relay_id -> public key, set after leg 1
	registered  map[string]bool
	nextQueue   map[string][]Response // path -> queued responses, consumed FIFO
	defaultBody []byte

	httpServer *httptest.Server
}

func New() *Server {
	s := &Server{
		pending:     make(map[string]ed25519.PublicKey),
		registered:  make(map[string]bool),
		nextQueue:   make(map[string][]Response),
		defaultBody: []byte(`{}`),
	}
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.POST("/api/0/relays/register/challenge/", s.handleChallenge)
	engine.POST("/api/0/relays/register/response/", s.handleResponse)
	engine.NoRoute(s.handleGeneric)
	s.httpServer = httptest.NewServer(engine)
	return s
}

func (s *Server) URL() string { return s.httpServer.URL }

func (s *Server) Close() { s.httpServer.Close() }

// QueueResponse schedules resp to be returned the next time path is
// requested (FIFO per path); once the queue for a path is empty, requests
// fall back to a 200 with the body {}.
func (s *Server) QueueResponse(path string, resp Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextQueue[path] = append(s.nextQueue[path], resp)
}

func (s *Server) IsRegistered(relayID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registered[relayID]
}

func (s *Server) handleChallenge(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "malformed register request"})
		return
	}
	pubKeyBytes, err := base64.StdEncoding.DecodeString(req.PublicKey)
	if err != nil || len(pubKeyBytes) != ed25519.PublicKeySize {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "malformed public key"})
		return
	}

	token := make([]byte, 16)
	_, _ = rand.Read(token)
	tokenHex := hex.EncodeToString(token)

	s.mu.Lock()
	s.pending[req.RelayID] = ed25519.PublicKey(pubKeyBytes)
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"relay_id": req.RelayID, "token": tokenHex})
}

func (s *Server) handleResponse(c *gin.Context) {
	var req registerResponse
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "malformed register response"})
		return
	}

	s.mu.Lock()
	pubKey, ok := s.pending[req.RelayID]
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"detail": "unknown relay id"})
		return
	}

	sig, err := base64.StdEncoding.DecodeString(req.TokenSignature)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"detail": "malformed signature"})
		return
	}
	tokenJSON, err := json.Marshal(req.Token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal error"})
		return
	}
	if !ed25519.Verify(pubKey, tokenJSON, sig) {
		c.JSON(http.StatusForbidden, gin.H{"detail": "invalid signature"})
		return
	}

	s.mu.Lock()
	s.registered[req.RelayID] = true
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"relay_id": req.RelayID})
}

func (s *Server) handleGeneric(c *gin.Context) {
	s.mu.Lock()
	queue := s.nextQueue[c.Request.URL.Path]
	var resp Response
	hasScripted := len(queue) > 0
	if hasScripted {
		resp, queue = queue[0], queue[1:]
		s.nextQueue[c.Request.URL.Path] = queue
	}
	s.mu.Unlock()

	if !hasScripted {
		c.Data(http.StatusOK, "application/json", s.defaultBody)
		return
	}
	for k, v := range resp.Headers {
		c.Header(k, v)
	}
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	c.Data(status, "application/json", resp.Body)
}
