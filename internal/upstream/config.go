// Package upstream implements the authenticated request dispatcher: the
// auth state machine, the two-leg registration handshake, response
// classification, and the actor mailbox that serializes access to both.
package upstream

import "time"

// Config is the external contract the actor and dispatcher depend on.
// internal/config provides a concrete YAML-backed implementation;
// production embedders may supply their own.
type Config interface {
	UpstreamDescriptor() string
	HTTPHostHeader() string
	Credentials() (Credentials, bool)
	RelayMode() string
	EventBufferExpiry() time.Duration
	HTTPConnectionTimeout() time.Duration
	HTTPTimeout() time.Duration
	HTTPMaxRetryInterval() time.Duration
	MaxAPIPayloadSize() int64
	OutboundConcurrency() int
	ProxyURL() string
}
