package sources

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/trigedasleng/trigdict/pkg/db"
	"github.com/trigedasleng/trigdict/pkg/ingest"
	"github.com/trigedasleng/trigdict/pkg/logging"
)

const (
	// DefaultMaxBodySize caps the HTML read from a source page.
	DefaultMaxBodySize = 10 * 1024 * 1024
	// DefaultUserAgent mimics a desktop browser so pages are not refused.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Metadata is what a source page tells about itself.
type Metadata struct {
	Title  string
	Author string
}

// Report counts what an enrichment pass did.
type Report struct {
	Checked int
	Updated int
	Failed  int
}

// Enricher fills the missing title and author of sources from their pages.
type Enricher struct {
	DB          *sql.DB
	Client      *http.Client
	UserAgent   string
	MaxBodySize int64
	Workers     int
	Logger      *slog.Logger
}

// NewEnricher returns an Enricher whose requests time out after timeout.
func NewEnricher(conn *sql.DB, timeout time.Duration, userAgent string) *Enricher {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Enricher{
		DB:          conn,
		Client:      &http.Client{Timeout: timeout},
		UserAgent:   userAgent,
		MaxBodySize: DefaultMaxBodySize,
		Workers:     4,
		Logger:      logging.ForService("sources"),
	}
}

// Fetch downloads rawURL and extracts its readable title and byline.
func (e *Enricher) Fetch(ctx context.Context, rawURL string) (Metadata, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return Metadata{}, fmt.Errorf("parse url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Metadata{}, err
	}
	req.Header.Set("User-Agent", e.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", "https://www.google.com/")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	client := e.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Metadata{}, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Metadata{}, fmt.Errorf("fetch: got status code %d", resp.StatusCode)
	}
	limit := e.MaxBodySize
	if limit <= 0 {
		limit = DefaultMaxBodySize
	}
	if resp.ContentLength > limit {
		return Metadata{}, fmt.Errorf("content-length %d exceeds limit of %d bytes", resp.ContentLength, limit)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return Metadata{}, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) >= limit {
		return Metadata{}, fmt.Errorf("response body exceeded maximum size limit of %d bytes", limit)
	}

	article, err := readability.FromReader(bytes.NewReader(body), parsedURL)
	if err != nil {
		return Metadata{}, fmt.Errorf("extract article: %w", err)
	}
	return Metadata{Title: strings.TrimSpace(article.Title), Author: strings.TrimSpace(article.Byline)}, nil
}

// Enrich fetches every source that has a url but no title and stores the
// metadata found. Pages are fetched concurrently; the store is updated
// afterwards from the calling goroutine. Fetch failures are logged and
// counted, not returned.
func (e *Enricher) Enrich(ctx context.Context) (Report, error) {
	pending, err := db.SourcesMissingTitle(e.DB)
	if err != nil {
		return Report{}, err
	}
	rep := Report{Checked: len(pending)}
	if len(pending) == 0 {
		return rep, nil
	}

	type result struct {
		meta Metadata
		err  error
	}
	results := make([]result, len(pending))

	wp := ingest.NewWorkerPool(e.Workers, len(pending))
	wp.Start(ctx)
	for i, src := range pending {
		i, src := i, src
		err := wp.SubmitCtx(ctx, func(ctx context.Context) error {
			meta, err := e.Fetch(ctx, src.URL.String)
			results[i] = result{meta: meta, err: err}
			return err
		})
		if err != nil {
			wp.Close()
			return rep, fmt.Errorf("submit %s: %w", src.URL.String, err)
		}
	}
	wp.Close()
	if err := ctx.Err(); err != nil {
		return rep, err
	}

	for i, src := range pending {
		res := results[i]
		if res.err != nil {
			rep.Failed++
			e.Logger.Warn("source fetch failed", "url", src.URL.String, "error", res.err)
			continue
		}
		updated, err := db.UpdateSourceMetadata(e.DB, src.ID, res.meta.Title, res.meta.Author)
		if err != nil {
			return rep, fmt.Errorf("update source %s: %w", src.ID, err)
		}
		if updated {
			rep.Updated++
			e.Logger.Info("source enriched", "url", src.URL.String, "title", res.meta.Title)
		}
	}
	return rep, nil
}
