package monitor

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"

	"netcheck/internal/models"
)

const (
	// DefaultProbeTimeout bounds a single endpoint request.
	DefaultProbeTimeout = 10 * time.Second

	// UserAgent is sent with every probe request.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	maxDrainBytes = 64 << 10
)

// Prober issues single HTTP GET probes against endpoints.
type Prober struct {
	client  *http.Client
	timeout time.Duration
}

// NewProber creates a prober sharing one client for its whole lifetime.
// A nil transport uses a clone of http.DefaultTransport.
func NewProber(timeout time.Duration, transport http.RoundTripper) *Prober {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	if transport == nil {
		transport = http.DefaultTransport.(*http.Transport).Clone()
	}
	return &Prober{
		client:  &http.Client{Transport: &userAgentTransport{base: transport}},
		timeout: timeout,
	}
}

// Timeout returns the per-request timeout.
func (p *Prober) Timeout() time.Duration {
	return p.timeout
}

// Probe performs one request against the endpoint. It never returns an error;
// every failure is reported through the result.
func (p *Prober) Probe(ctx context.Context, endpoint models.Endpoint) (res models.ProbeResult) {
	if !endpoint.Configured() {
		return failure(models.FailureUnconfigured, "URL not configured")
	}

	defer func() {
		if r := recover(); r != nil {
			res = failure(models.FailureUnknown, fmt.Sprintf("unexpected error: %v", r))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.URL, nil)
	if err != nil {
		return failure(models.FailureTransport, "request error: "+err.Error())
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return classify(err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))

	res = models.ProbeResult{
		StatusCode: resp.StatusCode,
		LatencyMS:  float64(time.Since(start).Microseconds()) / 1000,
	}
	if resp.StatusCode != http.StatusOK {
		res.Failure = models.FailureProtocol
		res.Detail = fmt.Sprintf("HTTP %d", resp.StatusCode)
		return res
	}
	res.Success = true
	res.Detail = "success"
	return res
}

func classify(err error) models.ProbeResult {
	var (
		netErr    net.Error
		dnsErr    *net.DNSError
		opErr     *net.OpError
		verifyErr *tls.CertificateVerificationError
		recordErr tls.RecordHeaderError
		authErr   x509.UnknownAuthorityError
		hostErr   x509.HostnameError
		certErr   x509.CertificateInvalidError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return failure(models.FailureTimeout, "timeout")
	case errors.As(err, &dnsErr),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ENETUNREACH),
		errors.Is(err, syscall.EHOSTUNREACH),
		errors.As(err, &opErr) && opErr.Op == "dial":
		return failure(models.FailureConnection, "connection error")
	case errors.As(err, &verifyErr),
		errors.As(err, &recordErr),
		errors.As(err, &authErr),
		errors.As(err, &hostErr),
		errors.As(err, &certErr):
		return failure(models.FailureConnection, "connection error")
	// Server closed the connection before sending a response.
	case errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF):
		return failure(models.FailureConnection, "connection error")
	default:
		return failure(models.FailureTransport, "request error: "+err.Error())
	}
}

func failure(kind models.FailureKind, detail string) models.ProbeResult {
	return models.ProbeResult{Failure: kind, Detail: detail}
}

type userAgentTransport struct {
	base http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", UserAgent)
	return t.base.RoundTrip(req)
}
