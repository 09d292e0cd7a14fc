package upstream

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/imroc/req/v3"
)

// Transport wraps req/v3 the way the teacher's GrokHTTPClient wraps it for
// a single provider: one shared client, a fixed overall timeout, and no
// built-in retries (retries are the actor's job, since only the actor
// knows about auth state and backoff).
type Transport struct {
	client       *req.Client
	maxBodyBytes int64
}

// NewTransport builds a Transport with the given overall request timeout,
// connect timeout, and maximum response body size (a caller-configured
// cap on streaming a response payload to JSON, beyond which Do reports
// ErrPayloadFailed rather than buffering an unbounded body). If proxyURL
// is non-empty, outbound connections are routed through it (see
// transport_proxy.go for scheme handling). maxBodyBytes <= 0 means
// unbounded.
func NewTransport(connectTimeout, overallTimeout time.Duration, proxyURL string, maxBodyBytes int64) (*Transport, error) {
	c := req.C().
		SetTimeout(overallTimeout).
		SetCommonRetryCount(0).
		EnableAutoDecompress()

	if proxyURL != "" {
		rt, err := buildProxyTransport(proxyURL, connectTimeout)
		if err != nil {
			return nil, err
		}
		c = c.SetTransport(rt)
	} else {
		c = c.SetDialTimeout(connectTimeout)
	}

	return &Transport{client: c, maxBodyBytes: maxBodyBytes}, nil
}

// Response is the subset of req's response surface the dispatcher needs:
// status, headers, and the raw body, read eagerly because every response
// upstream sends back is small enough to buffer (challenge/response JSON
// or an error body).
type Response struct {
	status  int
	headers http.Header
	body    []byte
}

func (r *Response) Status() int          { return r.status }
func (r *Response) Headers() http.Header { return r.headers }
func (r *Response) Body() []byte         { return r.body }

// Do issues one request with the given method/url/headers/body, bounded
// by ctx in addition to the client's own overall timeout.
func (t *Transport) Do(ctx context.Context, method, url string, headers http.Header, body []byte) (*Response, error) {
	r := t.client.R().SetContext(ctx)
	for k, vs := range headers {
		for _, v := range vs {
			r.SetHeader(k, v)
		}
	}
	if body != nil {
		r.SetBodyBytes(body)
	}

	resp, err := r.Send(method, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	reader := resp.Body
	if t.maxBodyBytes > 0 {
		limited := io.LimitReader(resp.Body, t.maxBodyBytes+1)
		data, err := io.ReadAll(limited)
		if err != nil {
			return nil, err
		}
		if int64(len(data)) > t.maxBodyBytes {
			return nil, ErrPayloadFailed
		}
		return &Response{status: resp.StatusCode, headers: resp.Header, body: data}, nil
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	return &Response{status: resp.StatusCode, headers: resp.Header, body: data}, nil
}
