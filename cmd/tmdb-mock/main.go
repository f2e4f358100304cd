package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/Clark-Hu/now-playing/internal/domain"
)

type errorBody struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       bool   `json:"success"`
}

func main() {
	var (
		port    = flag.String("port", "9099", "port to listen on")
		data    = flag.String("data", "mock-now-playing.json", "path to mock data file")
		logReqs = flag.Bool("log", false, "enable request logging")
	)
	flag.Parse()

	file, err := os.ReadFile(*data)
	if err != nil {
		log.Fatalf("read mock data: %v", err)
	}

	var payload domain.NowPlayingResponse
	if err := json.Unmarshal(file, &payload); err != nil {
		log.Fatalf("parse mock data: %v", err)
	}

	handler := func(w http.ResponseWriter, r *http.Request) {
		if *logReqs {
			log.Printf("%s %s page=%s", r.Method, r.URL.Path, r.URL.Query().Get("page"))
		}
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("api_key") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(errorBody{
				StatusCode:    7,
				StatusMessage: "Invalid API key: You must be granted a valid key.",
			})
			return
		}

		resp := payload
		if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && page > 0 {
			resp.Page = page
			if page > 1 {
				resp.Results = nil
			}
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/3/movie/now_playing", handler)
	mux.HandleFunc("/movie/now_playing", handler)

	addr := ":" + *port
	log.Printf("mock tmdb listening on %s", addr)
	if *logReqs {
		log.Printf("loaded %d mock movies", len(payload.Results))
	}
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
