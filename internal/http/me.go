package httpserver

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/Clark-Hu/now-playing/internal/userdata"
)

type meResponse struct {
	UserID *string `json:"userId"`
}

type bookmarkResponse struct {
	TMDBID    int       `json:"tmdbId"`
	CreatedAt time.Time `json:"createdAt"`
}

type bookmarkListResponse struct {
	Items []bookmarkResponse `json:"items"`
}

type ratingRequest struct {
	Rating *float64 `json:"rating"`
}

type ratingResponse struct {
	Rating *float64 `json:"rating"`
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	var resp meResponse
	if userID, ok := s.users.CurrentUserID(r.Context()); ok {
		id := userID.String()
		resp.UserID = &id
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	items, err := s.users.ListMyBookmarks(r.Context())
	if err != nil {
		s.logger.Printf("list bookmarks error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "북마크 목록을 불러오지 못했습니다.")
		return
	}

	resp := bookmarkListResponse{Items: make([]bookmarkResponse, 0, len(items))}
	for _, b := range items {
		resp.Items = append(resp.Items, bookmarkResponse{TMDBID: b.TMDBID, CreatedAt: b.CreatedAt})
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddBookmark(w http.ResponseWriter, r *http.Request) {
	tmdbID, err := decodeTMDBIDParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	if err := s.users.AddBookmark(r.Context(), tmdbID); err != nil {
		s.respondCommandError(w, "add bookmark", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveBookmark(w http.ResponseWriter, r *http.Request) {
	tmdbID, err := decodeTMDBIDParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	if err := s.users.RemoveBookmark(r.Context(), tmdbID); err != nil {
		s.respondCommandError(w, "remove bookmark", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetRating(w http.ResponseWriter, r *http.Request) {
	tmdbID, err := decodeTMDBIDParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	var req ratingRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.Rating == nil || math.IsNaN(*req.Rating) || math.IsInf(*req.Rating, 0) {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "평점 값이 필요합니다.")
		return
	}

	if err := s.users.SetRating(r.Context(), tmdbID, *req.Rating); err != nil {
		s.respondCommandError(w, "set rating", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetRating(w http.ResponseWriter, r *http.Request) {
	tmdbID, err := decodeTMDBIDParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	value, ok, err := s.users.MyRating(r.Context(), tmdbID)
	if err != nil {
		s.logger.Printf("get rating error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "평점을 불러오지 못했습니다.")
		return
	}

	var resp ratingResponse
	if ok {
		resp.Rating = &value
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) respondCommandError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, userdata.ErrAuthRequired) {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "로그인이 필요합니다.")
		return
	}
	s.logger.Printf("%s error: %v", op, err)
	s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "요청을 처리하는 중 오류가 발생했습니다.")
}
