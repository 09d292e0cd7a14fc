package upstream

// RegisterRequest is the first handshake leg: this relay announces its id
// and public key and asks for a challenge to sign.
type RegisterRequest struct {
	RelayID   string `json:"relay_id"`
	PublicKey string `json:"public_key"`
	Version   string `json:"version"`
}

func (RegisterRequest) Path() string { return "/api/0/relays/register/challenge/" }

// RegisterChallenge is the upstream's reply to RegisterRequest: an opaque
// token this relay must sign and echo back.
type RegisterChallenge struct {
	RelayID string `json:"relay_id"`
	Token   string `json:"token"`
}

// RegisterResponse is the second handshake leg: the signed challenge
// token, completing the proof of key ownership.
type RegisterResponse struct {
	RelayID        string `json:"relay_id"`
	Token          string `json:"token"`
	TokenSignature string `json:"token_signature"`
}

func (RegisterResponse) Path() string { return "/api/0/relays/register/response/" }

// Registration is the upstream's final acknowledgement that this relay is
// now authenticated.
type Registration struct {
	RelayID string `json:"relay_id"`
}

// Query is the generic query-message contract: anything with a wire path
// and a JSON-serializable body can be dispatched through SendQuery, the
// way UpstreamQuery generalizes RegisterRequest/RegisterResponse in the
// original actor.
type Query interface {
	Path() string
}
