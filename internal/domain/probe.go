package domain

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"syscall"
	"time"
)

// ErrBlockedTarget is returned when a link resolves to an address the server
// must not contact (loopback, private, link-local, unspecified, multicast).
var ErrBlockedTarget = errors.New("target address not allowed")

// ProbeOptions tunes a reachability check.
type ProbeOptions struct {
	Timeout      time.Duration
	AllowPrivate bool // true => loopback and private networks may be contacted
}

// ProbeResult reports whether a stored link answered a HEAD request.
type ProbeResult struct {
	URL        string        `json:"url"`
	Reachable  bool          `json:"reachable"`
	StatusCode int           `json:"status_code,omitempty"`
	Latency    time.Duration `json:"latency_ns"`
	Error      string        `json:"error,omitempty"`
}

// ProbeURL sends a HEAD request to url without following redirects.
// Any HTTP response counts as reachable. The target address is checked after
// DNS resolution, on every dial.
func ProbeURL(ctx context.Context, url string, opts ProbeOptions) (ProbeResult, error) {
	result := ProbeResult{URL: url}
	if url == "" {
		return result, ErrEmptyURL
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	dialer := &net.Dialer{
		Timeout:   opts.Timeout,
		KeepAlive: 0,
	}
	if !opts.AllowPrivate {
		dialer.Control = rejectInternal
	}

	client := &http.Client{
		Timeout: opts.Timeout,
		Transport: &http.Transport{
			DialContext:         dialer.DialContext,
			TLSHandshakeTimeout: opts.Timeout,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			DisableKeepAlives: true,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, http.NoBody)
	if err != nil {
		result.Error = err.Error()
		return result, fmt.Errorf("failed to create probe request: %w", err)
	}

	start := time.Now()
	resp, err := client.Do(req)
	result.Latency = time.Since(start)
	if err != nil {
		result.Error = err.Error()
		return result, fmt.Errorf("failed to reach %s: %w", url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	result.Reachable = true
	result.StatusCode = resp.StatusCode
	return result, nil
}

// rejectInternal runs after resolution, so address is always a literal IP.
func rejectInternal(_, address string, _ syscall.RawConn) error {
	ap, err := netip.ParseAddrPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBlockedTarget, address)
	}
	if IsInternalAddr(ap.Addr()) {
		return fmt.Errorf("%w: %s", ErrBlockedTarget, ap.Addr())
	}
	return nil
}

// IsInternalAddr reports whether ip belongs to a network the server itself
// sits on rather than the public internet.
func IsInternalAddr(ip netip.Addr) bool {
	ip = ip.Unmap()
	return ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() ||
		ip.IsMulticast() ||
		ip.IsUnspecified()
}
