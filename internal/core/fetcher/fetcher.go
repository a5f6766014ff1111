// Package fetcher downloads remote documents, falling back through URL rewrites for storage
// providers that transform or restrict what they serve.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/markdave123-py/doctext/internal/core"
	"github.com/markdave123-py/doctext/internal/core/sniff"
	"github.com/markdave123-py/doctext/internal/models"
)

const (
	DefaultTimeout         = 60 * time.Second
	DefaultMaxBytes        = 50 << 20
	DefaultRedirectMaxHops = 5
	DefaultUserAgent       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// Strategy names, in the order they are attempted.
const (
	StrategyDirect         = "direct"
	StrategyResourceType   = "resource-type"
	StrategyForcedDownload = "forced-download"
	StrategySigned         = "signed"
)

var errTooLarge = errors.New("response exceeds size limit")

// Provider recognizes a storage host and offers alternative URLs for the same resource.
// Each method reports ok=false when it has nothing to contribute for u.
type Provider interface {
	Name() string
	Match(u *url.URL) bool
	// CorrectedURL rebuilds the URL using the path form of the resource's real content category.
	CorrectedURL(u *url.URL) (string, bool)
	// DownloadURL asks for attachment-style delivery of the untransformed bytes.
	DownloadURL(u *url.URL) (string, bool)
	// SignedURL returns a time-boxed authenticated URL. It needs provider credentials.
	SignedURL(ctx context.Context, u *url.URL) (string, bool, error)
}

// Config tunes every attempt a Fetcher makes.
//
// Timeout:         bound on each attempt, headers and body included.
// MaxBytes:        size cap enforced while the body streams in.
// RedirectMaxHops: redirects followed per attempt.
// UserAgent:       browser-like agent some CDNs require.
type Config struct {
	Timeout         time.Duration
	MaxBytes        int64
	RedirectMaxHops int
	UserAgent       string
}

// Fetcher implements core.ContentFetcher over HTTP.
type Fetcher struct {
	cfg        Config
	httpClient *http.Client
	providers  []Provider
}

var _ core.ContentFetcher = (*Fetcher)(nil)

// New builds a Fetcher. Zero config fields take the package defaults.
func New(cfg Config, providers ...Provider) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.RedirectMaxHops <= 0 {
		cfg.RedirectMaxHops = DefaultRedirectMaxHops
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	f := &Fetcher{cfg: cfg, providers: providers}
	f.httpClient = &http.Client{Timeout: cfg.Timeout, CheckRedirect: f.checkRedirectFunc()}
	return f
}

type strategy struct {
	name    string
	resolve func() (string, bool, error)
}

// Fetch tries each strategy in order and returns the first successful download.
// Failed attempts, 4xx responses included, only move on to the next strategy.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, hints models.FetchHints) (*models.FetchedContent, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || !isHTTPScheme(u) || u.Host == "" {
		return nil, core.DownloadFailed(rawURL, "invalid document URL", err)
	}

	p := f.providerFor(u)
	strategies := []strategy{
		{StrategyDirect, func() (string, bool, error) { return u.String(), true, nil }},
	}
	if p != nil {
		strategies = append(strategies,
			strategy{StrategyResourceType, func() (string, bool, error) {
				s, ok := p.CorrectedURL(u)
				return s, ok, nil
			}},
			strategy{StrategyForcedDownload, func() (string, bool, error) {
				s, ok := p.DownloadURL(u)
				return s, ok, nil
			}},
			strategy{StrategySigned, func() (string, bool, error) { return p.SignedURL(ctx, u) }},
		)
	}

	tried := map[string]bool{}
	var errs []error
	for _, s := range strategies {
		target, ok, err := s.resolve()
		if err != nil {
			log.Warn().Err(err).Str("strategy", s.name).Str("url", rawURL).Msg("fetch strategy unavailable")
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
			continue
		}
		if !ok || tried[target] {
			log.Debug().Str("strategy", s.name).Str("url", rawURL).Msg("fetch strategy skipped")
			continue
		}
		tried[target] = true

		body, contentType, finalURL, err := f.get(ctx, target)
		if err != nil {
			if errors.Is(err, errTooLarge) {
				return nil, core.DownloadFailed(rawURL, fmt.Sprintf("document exceeds the maximum size of %d bytes", f.cfg.MaxBytes), err)
			}
			log.Warn().Err(err).Str("strategy", s.name).Str("url", target).Msg("fetch attempt failed")
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
			continue
		}

		declared := sniff.MediaType(contentType)
		fc := &models.FetchedContent{
			Bytes:            body,
			DeclaredMimeType: declared,
			MimeType:         sniff.Resolve(body, []string{hints.Filename, finalURL, rawURL}, hints.FileType, declared),
			SourceURL:        finalURL,
			SizeBytes:        int64(len(body)),
			Strategy:         s.name,
		}
		log.Info().
			Str("strategy", s.name).
			Str("url", finalURL).
			Int64("size", fc.SizeBytes).
			Str("declared_type", declared).
			Str("mime_type", fc.MimeType).
			Msg("document fetched")
		return fc, nil
	}

	return nil, core.DownloadFailed(rawURL, "failed to download document: all retrieval strategies failed", errors.Join(errs...))
}

// get performs one bounded GET and returns the body, Content-Type and the URL that served it.
func (f *Fetcher) get(ctx context.Context, target string) ([]byte, string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	if resp.ContentLength > f.cfg.MaxBytes {
		return nil, "", "", fmt.Errorf("content-length %d: %w", resp.ContentLength, errTooLarge)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBytes+1))
	if err != nil {
		return nil, "", "", fmt.Errorf("read body: %w", err)
	}
	if int64(len(b)) > f.cfg.MaxBytes {
		return nil, "", "", errTooLarge
	}

	finalURL := target
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	return b, resp.Header.Get("Content-Type"), finalURL, nil
}

func (f *Fetcher) providerFor(u *url.URL) Provider {
	for _, p := range f.providers {
		if p != nil && p.Match(u) {
			return p
		}
	}
	return nil
}

func (f *Fetcher) checkRedirectFunc() func(req *http.Request, via []*http.Request) error {
	max := f.cfg.RedirectMaxHops
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errors.New("too many redirects")
		}
		if req.URL == nil || !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		return nil
	}
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
