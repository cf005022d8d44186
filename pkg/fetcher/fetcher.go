/*
Copyright © 2025 modctl authors
SPDX-License-Identifier: Apache-2.0
*/
package fetcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/modctl/modctl/pkg/defaults"
	"github.com/modctl/modctl/pkg/errors"
)

// maxArtifactSize caps the payload read from a remote artifact endpoint.
const maxArtifactSize = 512 << 20 // 512 MiB

// Artifact is a fetched payload with its computed digest.
type Artifact struct {
	ID     string
	Bytes  []byte
	SHA256 string
}

// Fetcher retrieves installable artifacts by identifier. Implementations
// verify integrity before returning; callers never see unverified bytes
// paired with a claimed checksum.
type Fetcher interface {
	// Fetch retrieves the artifact and, when expectedSHA256 is non-empty,
	// fails with a FETCH_FAILED error on digest mismatch.
	Fetch(ctx context.Context, artifactID, expectedSHA256 string) (*Artifact, error)
}

// Option configures the HTTP fetcher.
type Option func(*HTTPFetcher)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *HTTPFetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithRateLimit bounds outbound fetch requests per second.
func WithRateLimit(rps float64, burst int) Option {
	return func(f *HTTPFetcher) {
		if rps > 0 && burst > 0 {
			f.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// HTTPFetcher retrieves artifacts over HTTP(S) from a base URL. The artifact
// identifier is resolved relative to the base; digests are computed while
// streaming the body.
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewHTTPFetcher creates a fetcher rooted at baseURL.
func NewHTTPFetcher(baseURL string, opts ...Option) (*HTTPFetcher, error) {
	if baseURL == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "artifact base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid artifact base URL %q", baseURL), err)
	}

	f := &HTTPFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(),
		limiter: rate.NewLimiter(rate.Limit(defaultFetchRPS), defaultFetchBurst),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

const (
	defaultFetchRPS   = 4
	defaultFetchBurst = 8
)

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, artifactID, expectedSHA256 string) (*Artifact, error) {
	if artifactID == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "artifact id is required")
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetchFailed, "rate limit wait aborted", err)
	}

	target := f.baseURL + "/" + url.PathEscape(artifactID)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetchFailed,
			fmt.Sprintf("failed to build request for artifact %q", artifactID), err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		fetchTotal.WithLabelValues("error").Inc()
		return nil, errors.Wrap(errors.ErrCodeFetchFailed,
			fmt.Sprintf("failed to fetch artifact %q", artifactID), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fetchTotal.WithLabelValues("error").Inc()
		return nil, errors.NewWithContext(errors.ErrCodeFetchFailed,
			fmt.Sprintf("artifact %q fetch returned status %d", artifactID, resp.StatusCode),
			map[string]any{"url": target, "status": resp.StatusCode})
	}

	hasher := sha256.New()
	body, err := io.ReadAll(io.TeeReader(io.LimitReader(resp.Body, maxArtifactSize), hasher))
	if err != nil {
		fetchTotal.WithLabelValues("error").Inc()
		return nil, errors.Wrap(errors.ErrCodeFetchFailed,
			fmt.Sprintf("failed to read artifact %q body", artifactID), err)
	}

	digest := hex.EncodeToString(hasher.Sum(nil))
	if expectedSHA256 != "" && !strings.EqualFold(digest, expectedSHA256) {
		fetchTotal.WithLabelValues("checksum_mismatch").Inc()
		return nil, errors.NewWithContext(errors.ErrCodeFetchFailed,
			fmt.Sprintf("artifact %q checksum mismatch", artifactID),
			map[string]any{"expected": expectedSHA256, "actual": digest})
	}

	fetchTotal.WithLabelValues("success").Inc()
	fetchDuration.Observe(time.Since(start).Seconds())
	fetchBytes.Add(float64(len(body)))
	slog.Debug("artifact fetched", "artifact", artifactID, "bytes", len(body), "sha256", digest)

	return &Artifact{ID: artifactID, Bytes: body, SHA256: digest}, nil
}

// newHTTPClient builds a client with explicit connection and header timeouts
// so a stalled artifact server cannot hang a transaction.
func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: defaults.HTTPClientTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   defaults.HTTPConnectTimeout,
				KeepAlive: defaults.HTTPKeepAlive,
			}).DialContext,
			TLSHandshakeTimeout:   defaults.HTTPTLSHandshakeTimeout,
			ResponseHeaderTimeout: defaults.HTTPResponseHeaderTimeout,
			IdleConnTimeout:       defaults.HTTPIdleConnTimeout,
		},
	}
}

// Sum256 returns the hex-encoded SHA-256 digest of data.
func Sum256(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
