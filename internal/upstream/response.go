package upstream

import (
	"encoding/json"
	"time"

	"github.com/router-for-me/upstream-relay/internal/quotas"
)

// apiErrorBody is the best-effort shape of an upstream error response
// body; a body that doesn't match this shape just yields an empty Detail
// rather than failing classification.
type apiErrorBody struct {
	Detail string `json:"detail"`
}

// classifyResponse mirrors handle_response: 2xx passes the raw body
// through unchanged, 429 becomes a RateLimitedError carrying parsed
// quotas, and anything else becomes a ResponseStatusError with a
// best-effort decoded detail message.
func classifyResponse(resp *Response, now time.Time) ([]byte, error) {
	switch {
	case resp.Status() >= 200 && resp.Status() < 300:
		return resp.Body(), nil
	case resp.Status() == 429:
		limits := quotas.Resolve(resp.Headers(), now)
		return nil, &RateLimitedError{Limits: limits}
	default:
		var body apiErrorBody
		_ = json.Unmarshal(resp.Body(), &body)
		return nil, &ResponseStatusError{Status: resp.Status(), Detail: body.Detail}
	}
}
