package upstream

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// buildProxyTransport adapts the teacher's buildProxyTransport
// (proxy_helpers.go): it supports http/https proxies natively via
// http.Transport.Proxy and socks5 via golang.org/x/net/proxy.SOCKS5, and
// honors NO_PROXY the same way.
func buildProxyTransport(proxyURL string, connectTimeout time.Duration) (http.RoundTripper, error) {
	parsed, err := url.Parse(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("upstream: invalid proxy url: %w", err)
	}

	noProxyList := parseNoProxyList(os.Getenv("NO_PROXY"))
	dialer := &net.Dialer{Timeout: connectTimeout}

	switch strings.ToLower(parsed.Scheme) {
	case "socks5", "socks5h":
		sd, err := proxy.SOCKS5("tcp", parsed.Host, proxyAuthFromURL(parsed), dialer)
		if err != nil {
			return nil, fmt.Errorf("upstream: socks5 dialer: %w", err)
		}
		return &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				if shouldBypassProxy(addr, noProxyList) {
					return dialer.DialContext(ctx, network, addr)
				}
				return sd.Dial(network, addr)
			},
			TLSClientConfig: &tls.Config{},
		}, nil
	case "http", "https":
		return &http.Transport{
			Proxy: func(req *http.Request) (*url.URL, error) {
				if shouldBypassProxy(req.URL.Host, noProxyList) {
					return nil, nil
				}
				return parsed, nil
			},
			DialContext: dialer.DialContext,
		}, nil
	default:
		return nil, fmt.Errorf("upstream: unsupported proxy scheme %q", parsed.Scheme)
	}
}

func proxyAuthFromURL(u *url.URL) *proxy.Auth {
	if u.User == nil {
		return nil
	}
	password, _ := u.User.Password()
	return &proxy.Auth{User: u.User.Username(), Password: password}
}

func parseNoProxyList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func shouldBypassProxy(hostport string, noProxyList []string) bool {
	host := hostport
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		host = h
	}
	for _, pattern := range noProxyList {
		if pattern == "*" {
			return true
		}
		pattern = strings.TrimPrefix(pattern, ".")
		if host == pattern || strings.HasSuffix(host, "."+pattern) {
			return true
		}
	}
	return false
}
