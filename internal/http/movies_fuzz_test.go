package httpserver

import (
	"net/url"
	"testing"
)

func FuzzBuildNowPlayingParams(f *testing.F) {
	seeds := []string{
		"page=1&limit=10",
		"page=abc",
		"limit=-3",
		"",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		values, err := url.ParseQuery(raw)
		if err != nil {
			return
		}
		params, err := buildNowPlayingParams(values)
		if err == nil && (params.Page <= 0 || params.Limit <= 0) {
			t.Fatalf("accepted non-positive params %+v from %q", params, raw)
		}
	})
}
