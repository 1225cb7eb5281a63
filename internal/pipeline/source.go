package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/incidents/internal/model"
	"github.com/ppiankov/incidents/internal/util"
	"github.com/ppiankov/incidents/internal/worker"
)

// Source returns the raw encoded detail record for an id
type Source interface {
	Get(ctx context.Context, id int) ([]byte, error)
	// Location describes where records come from, used for cache keys and logs
	Location() string
}

// ErrDisallowed is returned when robots.txt forbids fetching a record
var ErrDisallowed = errors.New("disallowed by robots.txt")

// fetchSleepFunc is swapped out by tests to skip retry backoff
var fetchSleepFunc = time.Sleep

const maxFetchAttempts = 3

// HTTPSource reads records from {baseURL}/db/{id}.json
type HTTPSource struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	limiter    *worker.Limiter
	robots     *util.RobotsChecker
}

// NewHTTPSource creates an HTTP source. limiter and robots may be nil.
func NewHTTPSource(baseURL string, cfg model.HTTPConfig, limiter *worker.Limiter, robots *util.RobotsChecker) *HTTPSource {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy)

	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		limiter:   limiter,
		robots:    robots,
	}
}

// Location returns the base URL
func (s *HTTPSource) Location() string {
	return s.baseURL
}

// RecordURL returns the URL of the record for id
func (s *HTTPSource) RecordURL(id int) string {
	return s.baseURL + "/db/" + strconv.Itoa(id) + ".json"
}

// Get fetches a record, retrying transient failures with linear backoff
func (s *HTTPSource) Get(ctx context.Context, id int) ([]byte, error) {
	rawURL := s.RecordURL(id)

	if s.robots != nil {
		if !s.robots.IsAllowed(ctx, rawURL) {
			return nil, fmt.Errorf("%s: %w", rawURL, ErrDisallowed)
		}
		if delay := s.robots.CrawlDelay(ctx, rawURL); delay > 0 && s.limiter != nil {
			if err := s.limiter.SlowHost(rawURL, delay); err != nil {
				return nil, fmt.Errorf("rate limit: %w", err)
			}
		}
	}

	var lastErr error
	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		body, err := s.get(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !isRetryableFetchError(err) || attempt == maxFetchAttempts {
			break
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		fetchSleepFunc(time.Duration(attempt) * 500 * time.Millisecond)
	}

	return nil, lastErr
}

func (s *HTTPSource) get(ctx context.Context, rawURL string) ([]byte, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, rawURL); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// isRetryableFetchError reports whether err is a 5xx, 429 or transport failure
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()

	if strings.HasPrefix(msg, "unexpected status: ") {
		code := strings.TrimPrefix(msg, "unexpected status: ")
		return strings.HasPrefix(code, "5") || strings.HasPrefix(code, "429")
	}
	return strings.HasPrefix(msg, "fetch: ")
}

// DirSource reads records from {dir}/{id}.json
type DirSource struct {
	dir string
}

// NewDirSource creates a directory source
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// Location returns the directory
func (s *DirSource) Location() string {
	return s.dir
}

// Get reads a record file
func (s *DirSource) Get(ctx context.Context, id int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, strconv.Itoa(id)+".json"))
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}
	return data, nil
}
