package probe

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrTimeout is reported when a probe does not receive response headers
// before its deadline.
var ErrTimeout = errors.New("timeout")

// Result is the outcome of a single probe. Exactly one of Err or the
// Status/Headers pair is meaningful.
type Result struct {
	Status  int
	Headers map[string]string
	Err     error
}

// Failed reports whether the probe ended without a response.
func (r Result) Failed() bool {
	return r.Err != nil
}

// ErrorMessage returns the failure text, or "" for a successful probe.
func (r Result) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Header returns the value of a response header by case-insensitive name.
func (r Result) Header(name string) string {
	return r.Headers[strings.ToLower(name)]
}

// Prober performs HEAD requests bounded by Timeout.
type Prober struct {
	Timeout time.Duration
	Client  *http.Client
	Logger  *zap.SugaredLogger
}

// NewProber returns a Prober whose client never follows redirects, so the
// first response received is the one reported.
func NewProber(timeout time.Duration, logger *zap.SugaredLogger) *Prober {
	return &Prober{
		Timeout: timeout,
		Client: &http.Client{
			Transport: &http.Transport{
				Proxy:             http.ProxyFromEnvironment,
				TLSClientConfig:   &tls.Config{InsecureSkipVerify: false},
				DisableKeepAlives: true,
			},
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		Logger: logger,
	}
}

// Head sends exactly one HEAD request to rawURL. Any HTTP status counts as a
// response; only transport failures and the deadline produce Err.
func (p *Prober) Head(ctx context.Context, rawURL string) Result {
	target, err := ParseTarget(rawURL)
	if err != nil {
		return Result{Err: err}
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target.String(), nil)
	if err != nil {
		return Result{Err: err}
	}

	start := time.Now()
	resp, err := p.client().Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = ErrTimeout
		} else {
			err = unwrapURLError(err)
		}
		p.debugw("head request failed", "url", target.String(), "error", err, "duration", time.Since(start))
		return Result{Err: err}
	}
	defer resp.Body.Close()

	// HEAD responses carry no body; drain anything a misbehaving server sent.
	_, _ = io.Copy(io.Discard, resp.Body)

	p.debugw("probe completed", "url", target.String(), "status", resp.StatusCode, "duration", time.Since(start))

	return Result{
		Status:  resp.StatusCode,
		Headers: FlattenHeaders(resp.Header),
	}
}

// FlattenHeaders lower-cases header names and joins repeated values with ", ".
func FlattenHeaders(h http.Header) map[string]string {
	flat := make(map[string]string, len(h))
	for name, values := range h {
		flat[strings.ToLower(name)] = strings.Join(values, ", ")
	}
	return flat
}

func (p *Prober) client() *http.Client {
	if p.Client != nil {
		return p.Client
	}
	return http.DefaultClient
}

func (p *Prober) debugw(msg string, keysAndValues ...interface{}) {
	if p.Logger == nil {
		return
	}
	p.Logger.Debugw(msg, keysAndValues...)
}

// unwrapURLError drops the "Head \"<url>\":" prefix net/http adds so the
// message names the underlying cause.
func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}
