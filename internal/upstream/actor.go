package upstream

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/router-for-me/upstream-relay/internal/backoff"
)

const protocolVersion = "3"

// Actor owns authState and the retry backoff on a single goroutine,
// realizing the original's single-threaded cooperative actor without a
// mutex: every public method sends a typed message on an unbuffered
// channel and blocks on a one-shot reply channel, the same "typed
// variants on a command channel" shape spec.md's design notes call for.
type Actor struct {
	cfg       Config
	creds     Credentials
	hasCreds  bool
	transport *Transport
	sem       *semaphore.Weighted
	backoff   *backoff.RetryBackoff
	authState AuthState
	metrics   Metrics
	log       *logrus.Entry

	mailbox chan actorMsg
	done    chan struct{}
}

type actorMsg interface {
	handle(a *Actor)
}

// NewActor builds an Actor and starts its mailbox goroutine. Call Stop to
// shut it down.
func NewActor(cfg Config, log *logrus.Entry) (*Actor, error) {
	transport, err := NewTransport(cfg.HTTPConnectionTimeout(), cfg.HTTPTimeout(), cfg.ProxyURL(), cfg.MaxAPIPayloadSize())
	if err != nil {
		return nil, err
	}
	concurrency := cfg.OutboundConcurrency()
	if concurrency <= 0 {
		concurrency = 1
	}
	creds, hasCreds := cfg.Credentials()
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	a := &Actor{
		cfg:       cfg,
		creds:     creds,
		hasCreds:  hasCreds,
		transport: transport,
		sem:       semaphore.NewWeighted(int64(concurrency)),
		backoff:   backoff.New(time.Second, cfg.HTTPMaxRetryInterval()),
		authState: AuthUnknown,
		log:       log,
		mailbox:   make(chan actorMsg),
		done:      make(chan struct{}),
	}
	go a.run()
	return a, nil
}

func (a *Actor) run() {
	for msg := range a.mailbox {
		msg.handle(a)
	}
	close(a.done)
}

// Stop closes the mailbox and waits for the goroutine to exit. No further
// calls may be made on this Actor afterward.
func (a *Actor) Stop() {
	close(a.mailbox)
	<-a.done
}

// Metrics returns the actor's counters. They are atomics, so they may be
// read from any goroutine while the actor runs.
func (a *Actor) Metrics() *Metrics {
	return &a.metrics
}

// ---- Authenticate ----

type authenticateMsg struct {
	ctx   context.Context
	reply chan error
}

func (m authenticateMsg) handle(a *Actor) {
	m.reply <- a.authenticate(m.ctx)
}

// Authenticate drives (or re-drives, if previously AuthError) the two-leg
// handshake to completion, retrying with exponential backoff on transient
// failures and returning immediately on a non-retryable 4xx.
func (a *Actor) Authenticate(ctx context.Context) error {
	reply := make(chan error, 1)
	a.mailbox <- authenticateMsg{ctx: ctx, reply: reply}
	return <-reply
}

func (a *Actor) authenticate(ctx context.Context) error {
	if a.authState == AuthRegistered {
		return nil
	}
	if !a.hasCreds {
		return ErrNoCredentials
	}
	for {
		err := a.runHandshake(ctx)
		if err == nil {
			a.backoff.Reset()
			a.metrics.AuthSuccess.Add(1)
			return nil
		}

		a.log.WithError(err).Warn("authentication encountered error")

		var respErr *ResponseStatusError
		if errors.As(err, &respErr) && !respErr.Retryable() {
			a.authState = AuthError
			a.metrics.AuthFailure.Add(1)
			return err
		}

		wait := a.backoff.NextBackoff()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (a *Actor) runHandshake(ctx context.Context) error {
	a.authState = AuthRegisterRequestChallenge

	challengeReq := RegisterRequest{
		RelayID:   a.creds.ID,
		PublicKey: base64.StdEncoding.EncodeToString(a.creds.PublicKey),
		Version:   protocolVersion,
	}
	payload, sig, err := a.creds.Pack(challengeReq)
	if err != nil {
		return err
	}
	headers := http.Header{"Content-Type": {"application/json"}, "X-Sentry-Relay-Signature": {sig}}
	resp, err := a.doRequest(ctx, http.MethodPost, challengeReq.Path(), headers, payload)
	if err != nil {
		return NewSendFailed(err)
	}
	body, err := classifyResponse(resp, time.Now())
	if err != nil {
		return err
	}
	var challenge RegisterChallenge
	if err := json.Unmarshal(body, &challenge); err != nil {
		return ErrInvalidJSON
	}

	a.authState = AuthRegisterChallengeResponse

	_, tokenSig, err := a.creds.Pack(challenge.Token)
	if err != nil {
		return err
	}
	registerResp := RegisterResponse{RelayID: a.creds.ID, Token: challenge.Token, TokenSignature: tokenSig}
	payload2, sig2, err := a.creds.Pack(registerResp)
	if err != nil {
		return err
	}
	headers2 := http.Header{"Content-Type": {"application/json"}, "X-Sentry-Relay-Signature": {sig2}}
	resp2, err := a.doRequest(ctx, http.MethodPost, registerResp.Path(), headers2, payload2)
	if err != nil {
		return NewSendFailed(err)
	}
	if _, err := classifyResponse(resp2, time.Now()); err != nil {
		return err
	}

	a.authState = AuthRegistered
	return nil
}

// ---- IsAuthenticated ----

type isAuthenticatedMsg struct {
	reply chan bool
}

func (m isAuthenticatedMsg) handle(a *Actor) {
	m.reply <- a.authState.IsAuthenticated()
}

func (a *Actor) IsAuthenticated() bool {
	reply := make(chan bool, 1)
	a.mailbox <- isAuthenticatedMsg{reply: reply}
	return <-reply
}

// ---- SendRequest ----

type sendRequestResult struct {
	body []byte
	err  error
}

type sendRequestMsg struct {
	ctx     context.Context
	method  string
	path    string
	headers http.Header
	body    []byte
	reply   chan sendRequestResult
}

func (m sendRequestMsg) handle(a *Actor) {
	m.reply <- a.sendRequest(m)
}

// SendRequest issues a single, already-built request through the
// dispatcher. It does not retry: the caller gets back exactly one
// classified outcome, matching the original's one-shot send_request.
// Unlike SendQuery, it does not require Registered state.
func (a *Actor) SendRequest(ctx context.Context, method, path string, headers http.Header, body []byte) ([]byte, error) {
	reply := make(chan sendRequestResult, 1)
	a.mailbox <- sendRequestMsg{ctx: ctx, method: method, path: path, headers: headers, body: body, reply: reply}
	res := <-reply
	return res.body, res.err
}

func (a *Actor) sendRequest(m sendRequestMsg) sendRequestResult {
	resp, err := a.doRequest(m.ctx, m.method, m.path, m.headers, m.body)
	if err != nil {
		return sendRequestResult{err: NewSendFailed(err)}
	}
	body, err := classifyResponse(resp, time.Now())
	if err != nil {
		a.recordResponseError(err)
		return sendRequestResult{err: err}
	}
	return sendRequestResult{body: body}
}

// ---- SendQuery ----

type sendQueryMsg struct {
	ctx   context.Context
	query Query
	reply chan sendRequestResult
}

func (m sendQueryMsg) handle(a *Actor) {
	m.reply <- a.sendQuery(m)
}

// SendQuery signs and dispatches query, decoding the response body into
// result if result is non-nil.
func (a *Actor) SendQuery(ctx context.Context, query Query, result interface{}) error {
	reply := make(chan sendRequestResult, 1)
	a.mailbox <- sendQueryMsg{ctx: ctx, query: query, reply: reply}
	res := <-reply
	if res.err != nil {
		return res.err
	}
	if result == nil || len(res.body) == 0 {
		return nil
	}
	if err := json.Unmarshal(res.body, result); err != nil {
		return ErrInvalidJSON
	}
	return nil
}

func (a *Actor) sendQuery(m sendQueryMsg) sendRequestResult {
	if !a.authState.IsAuthenticated() {
		return sendRequestResult{err: ErrNotAuthenticated}
	}
	payload, sig, err := a.creds.Pack(m.query)
	if err != nil {
		return sendRequestResult{err: ErrBuildFailed}
	}
	headers := http.Header{"Content-Type": {"application/json"}, "X-Sentry-Relay-Signature": {sig}}
	resp, err := a.doRequest(m.ctx, http.MethodPost, m.query.Path(), headers, payload)
	if err != nil {
		return sendRequestResult{err: NewSendFailed(err)}
	}
	body, err := classifyResponse(resp, time.Now())
	if err != nil {
		a.recordResponseError(err)
		return sendRequestResult{err: err}
	}
	return sendRequestResult{body: body}
}

func (a *Actor) recordResponseError(err error) {
	var rateLimited *RateLimitedError
	if errors.As(err, &rateLimited) {
		a.metrics.RateLimitedRequests.Add(1)
		return
	}
	a.metrics.ResponseErrors.Add(1)
}

func (a *Actor) doRequest(ctx context.Context, method, path string, headers http.Header, body []byte) (*Response, error) {
	waitCtx, cancel := context.WithTimeout(ctx, a.cfg.EventBufferExpiry())
	defer cancel()
	if err := a.sem.Acquire(waitCtx, 1); err != nil {
		return nil, err
	}
	defer a.sem.Release(1)

	url := strings.TrimRight(a.cfg.UpstreamDescriptor(), "/") + path
	if headers == nil {
		headers = http.Header{}
	}
	if host := a.cfg.HTTPHostHeader(); host != "" {
		headers.Set("Host", host)
	}
	if a.hasCreds {
		headers.Set("X-Sentry-Relay-Id", a.creds.ID)
	}
	return a.transport.Do(ctx, method, url, headers, body)
}
