package docfinder

import (
	"encoding/json"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// Handler returns an http.Handler exposing the service as a small JSON API:
//
//	GET /search?q=...&k=...  ranked results with snippets
//	GET /fetch?url=...       full content of one document
//	GET /stats               index and cache sizes
func (s *Service) Handler() http.Handler {
	m := http.NewServeMux()

	const (
		cacheMaxAge0     = "max-age=0"
		cacheMaxAgeShort = "max-age=60"
	)

	m.Handle("/search", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" && r.Method != "HEAD" {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		queryStr := r.URL.Query().Get("q")
		if queryStr == "" {
			http.Error(w, "missing q parameter", http.StatusBadRequest)
			return
		}
		k, _ := strconv.Atoi(r.URL.Query().Get("k"))

		results, err := s.Search(r.Context(), queryStr, k)
		if err != nil {
			w.Header().Set("Cache-Control", cacheMaxAge0)
			http.Error(w, "search error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Cache-Control", cacheMaxAgeShort)
		writeJSON(w, http.StatusOK, struct {
			Query   string         `json:"query"`
			Results []SearchResult `json:"results"`
		}{Query: queryStr, Results: results})
	}))

	m.Handle("/fetch", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" && r.Method != "HEAD" {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		u := r.URL.Query().Get("url")
		if u == "" {
			http.Error(w, "missing url parameter", http.StatusBadRequest)
			return
		}

		result := s.Fetch(r.Context(), u)
		if result.Err != "" {
			w.Header().Set("Cache-Control", cacheMaxAge0)
			writeJSON(w, http.StatusBadGateway, result)
			return
		}
		w.Header().Set("Cache-Control", cacheMaxAgeShort)
		writeJSON(w, http.StatusOK, result)
	}))

	m.Handle("/stats", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" && r.Method != "HEAD" {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Cache-Control", cacheMaxAge0)
		writeJSON(w, http.StatusOK, s.Stats())
	}))

	return m
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("write response")
	}
}
