package fingerprint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"domainintel/pkg/serrors"
)

const (
	// DefaultFetchTimeout bounds a page fetch, redirects and body included.
	DefaultFetchTimeout = 10 * time.Second
	// MaxBodyBytes caps how much HTML is read from a page.
	MaxBodyBytes = 5 << 20

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// Page is the raw response of a homepage fetch.
type Page struct {
	// URL is the final URL after redirects.
	URL     string
	Status  int
	Headers http.Header
	Body    []byte
}

// FetcherOptions configure a Fetcher.
type FetcherOptions struct {
	// Timeout aborts the fetch once elapsed. Zero means DefaultFetchTimeout.
	Timeout time.Duration
	// Scheme defaults to https.
	Scheme string
}

// Fetcher downloads a domain's homepage. Redirects are followed by the
// underlying http.Client.
type Fetcher struct {
	httpClient *http.Client
	options    FetcherOptions
}

// NewFetcher constructs a Fetcher on top of httpClient.
func NewFetcher(httpClient *http.Client, options FetcherOptions) *Fetcher {
	if options.Timeout <= 0 {
		options.Timeout = DefaultFetchTimeout
	}
	if options.Scheme == "" {
		options.Scheme = "https"
	}

	return &Fetcher{httpClient: httpClient, options: options}
}

// Fetch GETs the homepage of host. A non-2xx status, a timeout or a transport
// failure is returned as an error; a Page is only returned on success.
func (f *Fetcher) Fetch(ctx context.Context, host string) (*Page, error) {
	ctx, cancel := context.WithTimeout(ctx, f.options.Timeout)
	defer cancel()

	url := f.options.Scheme + "://" + host + "/"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "could not create request")
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, serrors.With(serrors.ErrUpstream, "fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return nil, classifyTransportError(ctx, fmt.Errorf("could not read response body: %w", err))
	}

	final := url
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL.String()
	}

	return &Page{URL: final, Status: resp.StatusCode, Headers: resp.Header, Body: b}, nil
}

func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return serrors.Wrap(serrors.ErrTimeout, err, "fetch timed out")
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return serrors.Wrap(serrors.ErrTimeout, err, "fetch timed out")
	}
	if strings.Contains(err.Error(), "no such host") {
		return serrors.Wrap(serrors.ErrUnavailable, err, "could not resolve host")
	}

	return serrors.Wrap(serrors.ErrUnavailable, err, "could not fetch page")
}
