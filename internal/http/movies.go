package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Clark-Hu/now-playing/internal/tmdb"
)

// genericMovieError is shown for failures that are not catalog errors.
const genericMovieError = "영화 정보를 불러오는 중 오류가 발생했습니다."

type nowPlayingParams struct {
	Page  int
	Limit int
}

type nowPlayingResponse struct {
	Items        []tmdb.Card `json:"items"`
	Page         int         `json:"page"`
	TotalPages   int         `json:"totalPages"`
	TotalResults int         `json:"totalResults"`
}

func buildNowPlayingParams(query url.Values) (nowPlayingParams, error) {
	params := nowPlayingParams{Page: 1, Limit: tmdb.DefaultCardLimit}
	if val := strings.TrimSpace(query.Get("page")); val != "" {
		page, err := strconv.Atoi(val)
		if err != nil || page <= 0 {
			return params, fmt.Errorf("page 값이 올바르지 않습니다")
		}
		params.Page = page
	}
	if val := strings.TrimSpace(query.Get("limit")); val != "" {
		limit, err := strconv.Atoi(val)
		if err != nil || limit <= 0 {
			return params, fmt.Errorf("limit 값이 올바르지 않습니다")
		}
		params.Limit = limit
	}
	return params, nil
}

func (s *Server) handleNowPlaying(w http.ResponseWriter, r *http.Request) {
	params, err := buildNowPlayingParams(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	resp, err := s.catalog.NowPlaying(r.Context(), params.Page)
	if err != nil {
		s.respondCatalogError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, nowPlayingResponse{
		Items:        tmdb.Cards(resp.Results, params.Limit),
		Page:         resp.Page,
		TotalPages:   resp.TotalPages,
		TotalResults: resp.TotalResults,
	})
}

func (s *Server) respondCatalogError(w http.ResponseWriter, err error) {
	var tmdbErr *tmdb.Error
	if !errors.As(err, &tmdbErr) {
		s.logger.Printf("now playing unexpected error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", genericMovieError)
		return
	}

	s.logger.Printf("now playing %s error: %v", tmdbErr.Kind, tmdbErr)
	switch tmdbErr.Kind {
	case tmdb.KindConfig:
		s.respondError(w, http.StatusServiceUnavailable, "CONFIG_ERROR", tmdbErr.Message)
	case tmdb.KindNetwork:
		s.respondError(w, http.StatusGatewayTimeout, "UPSTREAM_UNAVAILABLE", tmdbErr.Message)
	case tmdb.KindAPI:
		s.respondJSON(w, http.StatusBadGateway, errorResponse{
			Code:    "UPSTREAM_ERROR",
			Message: tmdbErr.Message,
			Details: map[string]int{"status": tmdbErr.Status},
		})
	default:
		s.respondError(w, http.StatusBadGateway, "UPSTREAM_ERROR", tmdbErr.Message)
	}
}
