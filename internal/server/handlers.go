package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/andeanbio/biomon/pkg/aggregate"
	"github.com/andeanbio/biomon/pkg/report"
)

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	state := s.snapshot()
	writeJSON(w, aggregate.ComputeMetrics(state.posts, state.species, time.Now()))
}

func (s *Server) handleSpeciesRanking(w http.ResponseWriter, r *http.Request) {
	state := s.snapshot()
	writeJSON(w, aggregate.SpeciesRanking(state.posts, state.species))
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	state := s.snapshot()
	writeJSON(w, aggregate.MonthlySeries(state.posts))
}

func (s *Server) handleTopUsers(w http.ResponseWriter, r *http.Request) {
	state := s.snapshot()
	writeJSON(w, aggregate.TopUsers(state.posts))
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := 3
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	state := s.snapshot()
	writeJSON(w, aggregate.RecentSightings(state.posts, state.species, time.Now(), limit))
}

func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := aggregate.Filter{
		Query:   q.Get("query"),
		Species: q.Get("species"),
		Sort:    q.Get("sort"),
	}
	if filter.Sort == "" {
		filter.Sort = aggregate.SortRecent
	}

	state := s.snapshot()
	posts := aggregate.FilterAndSort(state.posts, filter)

	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		perPage := 20
		if n, err := strconv.Atoi(q.Get("per_page")); err == nil && n > 0 {
			perPage = n
		}
		posts = aggregate.Paginate(posts, page, perPage)
	}

	writeJSON(w, posts)
}

func (s *Server) handleMonthlyChart(w http.ResponseWriter, r *http.Request) {
	state := s.snapshot()
	buf, err := report.MonthlyChart(aggregate.MonthlySeries(state.posts))
	if err == report.ErrNoData {
		http.Error(w, "no data", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

func (s *Server) handleSpeciesChart(w http.ResponseWriter, r *http.Request) {
	state := s.snapshot()
	buf, err := report.SpeciesChart(aggregate.SpeciesRanking(state.posts, state.species))
	if err == report.ErrNoData {
		http.Error(w, "no data", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}
