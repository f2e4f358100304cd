package tmdb

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

const samplePage = `{
  "page": 1,
  "results": [
    {"id": 7, "title": "파묘", "overview": "...", "poster_path": "/abc.jpg", "vote_average": 7.45, "release_date": "2024-02-22", "original_language": "ko"},
    {"id": 8, "title": "Dune: Part Two", "overview": "...", "poster_path": null, "vote_average": 8.2, "release_date": "2024-02-27", "original_language": "en"}
  ],
  "total_pages": 12,
  "total_results": 231
}`

type catalogStub struct {
	hits int32

	mu     sync.Mutex
	status int
	body   string
	last   *url.URL
}

func (s *catalogStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&s.hits, 1)
	s.mu.Lock()
	s.last = r.URL
	status, body := s.status, s.body
	s.mu.Unlock()

	if status != 0 && status != http.StatusOK {
		http.Error(w, http.StatusText(status), status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, body)
}

func (s *catalogStub) respond(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status, s.body = status, body
}

func (s *catalogStub) lastURL() *url.URL {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func newTestClient(t *testing.T, baseURL, apiKey string, opts ...func(*Options)) *HTTPClient {
	t.Helper()
	o := Options{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Logger:  log.New(io.Discard, "", 0),
	}
	for _, fn := range opts {
		fn(&o)
	}
	client, err := NewHTTPClient(o)
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	return client
}

func asTMDBError(t *testing.T, err error) *Error {
	t.Helper()
	var tmdbErr *Error
	if !errors.As(err, &tmdbErr) {
		t.Fatalf("error %v (%T) is not *tmdb.Error", err, err)
	}
	return tmdbErr
}

func TestNowPlaying_MissingAPIKeySendsNothing(t *testing.T) {
	stub := &catalogStub{body: samplePage}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	client := newTestClient(t, srv.URL+"/3", "  ")
	_, err := client.NowPlaying(context.Background(), 1)
	tmdbErr := asTMDBError(t, err)
	if tmdbErr.Kind != KindConfig {
		t.Fatalf("kind = %v, want config", tmdbErr.Kind)
	}
	if tmdbErr.Status != 0 {
		t.Fatalf("status = %d, want 0", tmdbErr.Status)
	}
	if hits := atomic.LoadInt32(&stub.hits); hits != 0 {
		t.Fatalf("upstream hits = %d, want 0", hits)
	}
}

func TestNowPlaying_Success(t *testing.T) {
	stub := &catalogStub{body: samplePage}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	client := newTestClient(t, srv.URL+"/3", "key123")
	resp, err := client.NowPlaying(context.Background(), 2)
	if err != nil {
		t.Fatalf("NowPlaying: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(resp.Results))
	}
	if resp.Results[0].PosterPath == nil || *resp.Results[0].PosterPath != "/abc.jpg" {
		t.Fatalf("poster path = %v", resp.Results[0].PosterPath)
	}
	if resp.Results[1].PosterPath != nil {
		t.Fatalf("null poster path decoded as %q", *resp.Results[1].PosterPath)
	}
	if resp.TotalPages != 12 || resp.TotalResults != 231 {
		t.Fatalf("pagination = %d/%d", resp.TotalPages, resp.TotalResults)
	}

	last := stub.lastURL()
	if last.Path != "/3/movie/now_playing" {
		t.Fatalf("path = %s", last.Path)
	}
	q := last.Query()
	if q.Get("api_key") != "key123" || q.Get("page") != "2" || q.Get("language") != "ko-KR" {
		t.Fatalf("unexpected query %s", last.RawQuery)
	}
}

func TestNowPlaying_NonPositivePageDefaultsToFirst(t *testing.T) {
	stub := &catalogStub{body: samplePage}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	client := newTestClient(t, srv.URL, "key")
	if _, err := client.NowPlaying(context.Background(), 0); err != nil {
		t.Fatalf("NowPlaying: %v", err)
	}
	last := stub.lastURL()
	if got := last.Query().Get("page"); got != "1" {
		t.Fatalf("page = %s, want 1", got)
	}
	if last.Path != "/movie/now_playing" {
		t.Fatalf("path = %s", last.Path)
	}
}

func TestNowPlaying_APIError(t *testing.T) {
	stub := &catalogStub{status: http.StatusUnauthorized}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	client := newTestClient(t, srv.URL, "bad-key")
	_, err := client.NowPlaying(context.Background(), 1)
	tmdbErr := asTMDBError(t, err)
	if tmdbErr.Kind != KindAPI {
		t.Fatalf("kind = %v, want api", tmdbErr.Kind)
	}
	if tmdbErr.Status != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", tmdbErr.Status)
	}
	if tmdbErr.Error() != "TMDB API 요청 실패: 401 Unauthorized" {
		t.Fatalf("message = %q", tmdbErr.Error())
	}
}

func TestNowPlaying_NetworkErrorHidesKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	client := newTestClient(t, base, "secret-key")
	_, err := client.NowPlaying(context.Background(), 1)
	tmdbErr := asTMDBError(t, err)
	if tmdbErr.Kind != KindNetwork {
		t.Fatalf("kind = %v, want network", tmdbErr.Kind)
	}
	if tmdbErr.Status != 0 {
		t.Fatalf("status = %d, want 0", tmdbErr.Status)
	}
	if !strings.HasPrefix(tmdbErr.Error(), "네트워크 오류: ") {
		t.Fatalf("message = %q", tmdbErr.Error())
	}
	if strings.Contains(tmdbErr.Error(), "secret-key") {
		t.Fatalf("message leaks api key: %q", tmdbErr.Error())
	}
}

func TestNowPlaying_DecodeError(t *testing.T) {
	stub := &catalogStub{body: "<html>maintenance</html>"}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	client := newTestClient(t, srv.URL, "key")
	_, err := client.NowPlaying(context.Background(), 1)
	if kind := asTMDBError(t, err).Kind; kind != KindDecode {
		t.Fatalf("kind = %v, want decode", kind)
	}
}

func TestNowPlaying_CachesPages(t *testing.T) {
	stub := &catalogStub{body: samplePage}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	client := newTestClient(t, srv.URL, "key")
	for i := 0; i < 3; i++ {
		if _, err := client.NowPlaying(context.Background(), 1); err != nil {
			t.Fatalf("NowPlaying: %v", err)
		}
	}
	if _, err := client.NowPlaying(context.Background(), 2); err != nil {
		t.Fatalf("NowPlaying page 2: %v", err)
	}
	if hits := atomic.LoadInt32(&stub.hits); hits != 2 {
		t.Fatalf("upstream hits = %d, want 2", hits)
	}
}

func TestNowPlaying_CachedPageIsolatedFromCallers(t *testing.T) {
	stub := &catalogStub{body: samplePage}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	client := newTestClient(t, srv.URL, "key")
	first, err := client.NowPlaying(context.Background(), 1)
	if err != nil {
		t.Fatalf("NowPlaying: %v", err)
	}
	first.Results[0].Title = "changed"
	first.Results = first.Results[:0]
	first.TotalPages = 0

	second, err := client.NowPlaying(context.Background(), 1)
	if err != nil {
		t.Fatalf("NowPlaying cached: %v", err)
	}
	if hits := atomic.LoadInt32(&stub.hits); hits != 1 {
		t.Fatalf("upstream hits = %d, want 1", hits)
	}
	if len(second.Results) != 2 || second.Results[0].Title != "파묘" || second.TotalPages != 12 {
		t.Fatalf("cached page changed by caller: %+v", second)
	}

	second.Results[1].Title = "changed again"
	third, _ := client.NowPlaying(context.Background(), 1)
	if third.Results[1].Title != "Dune: Part Two" {
		t.Fatalf("cache hit shares results with callers: %q", third.Results[1].Title)
	}
}

func TestNowPlaying_ZeroTTLUsesDefault(t *testing.T) {
	client := newTestClient(t, "http://example.invalid", "key", func(o *Options) { o.CacheTTL = 0 })
	if client.cache == nil {
		t.Fatalf("zero CacheTTL should enable the default cache")
	}
}

func TestNowPlaying_CacheDisabled(t *testing.T) {
	stub := &catalogStub{body: samplePage}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	client := newTestClient(t, srv.URL, "key", func(o *Options) { o.CacheTTL = -1 })
	for i := 0; i < 2; i++ {
		if _, err := client.NowPlaying(context.Background(), 1); err != nil {
			t.Fatalf("NowPlaying: %v", err)
		}
	}
	if hits := atomic.LoadInt32(&stub.hits); hits != 2 {
		t.Fatalf("upstream hits = %d, want 2", hits)
	}
}

func TestNowPlaying_ErrorsAreNotCached(t *testing.T) {
	stub := &catalogStub{status: http.StatusInternalServerError}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	client := newTestClient(t, srv.URL, "key")
	_, _ = client.NowPlaying(context.Background(), 1)
	stub.respond(http.StatusOK, samplePage)
	if _, err := client.NowPlaying(context.Background(), 1); err != nil {
		t.Fatalf("NowPlaying after recovery: %v", err)
	}
}

func TestNetworkErrorMessage(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil cause", nil, "네트워크 오류: 알 수 없는 오류"},
		{"empty cause", errors.New(""), "네트워크 오류: 알 수 없는 오류"},
		{"with cause", errors.New("connection refused"), "네트워크 오류: connection refused"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := networkError(tc.err).Error(); got != tc.want {
				t.Fatalf("message = %q, want %q", got, tc.want)
			}
		})
	}
}
