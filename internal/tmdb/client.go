package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/Clark-Hu/now-playing/internal/domain"
)

const (
	// DefaultBaseURL is the catalog API root.
	DefaultBaseURL = "https://api.themoviedb.org/3"
	// DefaultLanguage is the locale requested from the catalog.
	DefaultLanguage = "ko-KR"
	// DefaultCacheTTL is how long a fetched page may be reused.
	DefaultCacheTTL = 3600 * time.Second
)

// Client defines the contract for querying the movie catalog.
type Client interface {
	NowPlaying(ctx context.Context, page int) (*domain.NowPlayingResponse, error)
}

// Options configures an HTTPClient. Zero values fall back to defaults:
// a zero CacheTTL means DefaultCacheTTL and a negative one disables reuse.
type Options struct {
	BaseURL  string
	APIKey   string
	Language string
	Timeout  time.Duration
	CacheTTL time.Duration
	Logger   *log.Logger
	// Transport overrides the default round tripper, mainly for tests.
	Transport http.RoundTripper
}

// HTTPClient implements Client over HTTP.
type HTTPClient struct {
	baseURL  *url.URL
	apiKey   string
	language string
	client   *http.Client
	cache    *cache.Cache
	logger   *log.Logger
}

// NewHTTPClient constructs a catalog client. A missing API key is not an
// error here; it is reported by every request instead.
func NewHTTPClient(opts Options) (*HTTPClient, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	parsed, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse tmdb url: %w", err)
	}
	language := opts.Language
	if language == "" {
		language = DefaultLanguage
	}

	transport := opts.Transport
	if transport == nil {
		dialTimeout := opts.Timeout
		if dialTimeout <= 0 {
			dialTimeout = 30 * time.Second
		}
		transport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   dialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   dialTimeout,
			ExpectContinueTimeout: 1 * time.Second,
		}
	}

	c := &HTTPClient{
		baseURL:  parsed,
		apiKey:   strings.TrimSpace(opts.APIKey),
		language: language,
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		logger: logger,
	}

	ttl := opts.CacheTTL
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	if ttl > 0 {
		c.cache = cache.New(ttl, 2*ttl)
	}
	return c, nil
}

// NowPlaying fetches one page of the now playing listing.
func (c *HTTPClient) NowPlaying(ctx context.Context, page int) (*domain.NowPlayingResponse, error) {
	if c.apiKey == "" {
		return nil, configError()
	}
	if page <= 0 {
		page = 1
	}

	key := c.language + ":" + strconv.Itoa(page)
	if c.cache != nil {
		if cached, ok := c.cache.Get(key); ok {
			return clonePage(cached.(domain.NowPlayingResponse)), nil
		}
	}

	rel := &url.URL{Path: c.baseURL.Path + "/movie/now_playing"}
	q := rel.Query()
	q.Set("api_key", c.apiKey)
	q.Set("page", strconv.Itoa(page))
	q.Set("language", c.language)
	rel.RawQuery = q.Encode()
	endpoint := c.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, networkError(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		// url.Error embeds the request URL, which carries the API key.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, networkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Printf("tmdb: unexpected status %d for page %d", resp.StatusCode, page)
		return nil, apiError(resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var payload domain.NowPlayingResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, decodeError(err)
	}

	if c.cache != nil {
		c.cache.SetDefault(key, *clonePage(payload))
	}
	return &payload, nil
}

// clonePage copies a page so callers never share the cached Results slice.
func clonePage(page domain.NowPlayingResponse) *domain.NowPlayingResponse {
	page.Results = append([]domain.Movie(nil), page.Results...)
	return &page
}
