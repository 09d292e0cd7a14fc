package upstream

import "sync/atomic"

// Metrics counts the same events the original logs at
// ("authentication encountered error: {}" and friends) without wiring an
// external sink — no metrics backend is in scope for this repo, but the
// counters exist for tests and for embedders that want to poll them.
type Metrics struct {
	AuthSuccess         atomic.Int64
	AuthFailure         atomic.Int64
	RateLimitedRequests atomic.Int64
	ResponseErrors      atomic.Int64
}
