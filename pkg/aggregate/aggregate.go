// Package aggregate derives the dashboard view models from fetched posts and
// species. Every function is pure: no I/O, inputs are never mutated, empty
// input yields empty output.
package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/andeanbio/biomon/pkg/api"
)

// Trend and status values for species rankings. No historical baseline is
// available to compute real ones, so rankings carry the explicit unknowns.
const (
	TrendUnknown  = "unknown"
	StatusUnknown = "unknown"
)

// Metrics are the dashboard headline numbers.
type Metrics struct {
	TotalSightings int     `json:"total_sightings"`
	TotalSpecies   int     `json:"total_species"`
	ActiveUsers    int     `json:"active_users"`
	TotalLocations int     `json:"total_locations"`
	WeeklyGrowth   float64 `json:"weekly_growth"`
	MonthlyGrowth  float64 `json:"monthly_growth"`
}

// SpeciesRank is one row of the top-species ranking.
type SpeciesRank struct {
	Name   string `json:"name"`
	Count  int    `json:"count"`
	Trend  string `json:"trend"`
	Status string `json:"status"`
}

// MonthlyPoint is one calendar-month bucket of the sightings time series.
type MonthlyPoint struct {
	Month     time.Time `json:"month"` // first instant of the month, UTC
	Label     string    `json:"label"`
	Sightings int       `json:"sightings"`
	Species   int       `json:"species"` // distinct scientific names
}

// UserRank is one row of the most-active-users ranking.
type UserRank struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Sightings int    `json:"sightings"`
	Species   int    `json:"species"`
}

// RecentSighting is a display-ready record of a latest post.
type RecentSighting struct {
	ID        string  `json:"id"`
	Species   string  `json:"species"` // common name, or raw scientific name
	Location  string  `json:"location"`
	User      string  `json:"user"`
	TimeAgo   string  `json:"time_ago"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// commonNames indexes a species list by scientific name. Posts whose species
// string matches no catalog entry fall back to the raw string.
func commonNames(species []api.Species) map[string]string {
	names := make(map[string]string, len(species))
	for _, s := range species {
		names[s.ScientificName] = s.CommonName
	}
	return names
}

func resolveName(names map[string]string, scientific string) string {
	if common, ok := names[scientific]; ok && common != "" {
		return common
	}
	return scientific
}

// ComputeMetrics derives the headline numbers. Growth percentages compare the
// trailing 7-day (30-day) window ending at now against the window before it;
// an empty previous window reports zero growth rather than infinity.
func ComputeMetrics(posts []api.Post, species []api.Species, now time.Time) Metrics {
	users := make(map[string]struct{})
	locations := make(map[string]struct{})
	for _, p := range posts {
		users[p.UserEmail] = struct{}{}
		locations[fmt.Sprintf("%v,%v", p.Location.Latitude, p.Location.Longitude)] = struct{}{}
	}

	return Metrics{
		TotalSightings: len(posts),
		TotalSpecies:   len(species),
		ActiveUsers:    len(users),
		TotalLocations: len(locations),
		WeeklyGrowth:   windowGrowth(posts, now, 7*24*time.Hour),
		MonthlyGrowth:  windowGrowth(posts, now, 30*24*time.Hour),
	}
}

func windowGrowth(posts []api.Post, now time.Time, window time.Duration) float64 {
	var current, previous int
	cutoff := now.Add(-window)
	prevCutoff := now.Add(-2 * window)
	for _, p := range posts {
		switch {
		case p.CreatedAt.After(cutoff):
			current++
		case p.CreatedAt.After(prevCutoff):
			previous++
		}
	}
	if previous == 0 {
		return 0
	}
	return float64(current-previous) / float64(previous) * 100
}

// SpeciesRanking groups posts by resolved common name and returns the top 6
// by count. Ties keep the order in which a name was first encountered.
func SpeciesRanking(posts []api.Post, species []api.Species) []SpeciesRank {
	names := commonNames(species)

	counts := make(map[string]int)
	var order []string
	for _, p := range posts {
		name := resolveName(names, p.Species)
		if _, seen := counts[name]; !seen {
			order = append(order, name)
		}
		counts[name]++
	}

	ranking := make([]SpeciesRank, 0, len(order))
	for _, name := range order {
		ranking = append(ranking, SpeciesRank{
			Name:   name,
			Count:  counts[name],
			Trend:  TrendUnknown,
			Status: StatusUnknown,
		})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Count > ranking[j].Count
	})

	if len(ranking) > 6 {
		ranking = ranking[:6]
	}
	return ranking
}

// MonthlySeries buckets posts by calendar year-month and returns the buckets
// in chronological order. Posts with a zero timestamp land in the zero bucket,
// which sorts first.
func MonthlySeries(posts []api.Post) []MonthlyPoint {
	type bucket struct {
		sightings int
		species   map[string]struct{}
	}
	buckets := make(map[time.Time]*bucket)
	for _, p := range posts {
		t := p.CreatedAt.UTC()
		key := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{species: make(map[string]struct{})}
			buckets[key] = b
		}
		b.sightings++
		b.species[p.Species] = struct{}{}
	}

	series := make([]MonthlyPoint, 0, len(buckets))
	for month, b := range buckets {
		series = append(series, MonthlyPoint{
			Month:     month,
			Label:     month.Format("Jan 2006"),
			Sightings: b.sightings,
			Species:   len(b.species),
		})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Month.Before(series[j].Month)
	})
	return series
}

// TopUsers ranks observers by sighting count and returns the top 4. The
// display name is taken from a user's first post.
func TopUsers(posts []api.Post) []UserRank {
	type stats struct {
		name    string
		count   int
		species map[string]struct{}
	}
	byEmail := make(map[string]*stats)
	var order []string
	for _, p := range posts {
		s, ok := byEmail[p.UserEmail]
		if !ok {
			s = &stats{name: p.UserName, species: make(map[string]struct{})}
			byEmail[p.UserEmail] = s
			order = append(order, p.UserEmail)
		}
		s.count++
		s.species[p.Species] = struct{}{}
	}

	ranking := make([]UserRank, 0, len(order))
	for _, email := range order {
		s := byEmail[email]
		ranking = append(ranking, UserRank{
			Name:      s.name,
			Email:     email,
			Sightings: s.count,
			Species:   len(s.species),
		})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Sightings > ranking[j].Sightings
	})

	if len(ranking) > 4 {
		ranking = ranking[:4]
	}
	return ranking
}

// RecentSightings returns the `limit` newest posts as display records. The
// time-ago label is coarse on purpose: under an hour, whole hours under a
// day, whole days otherwise.
func RecentSightings(posts []api.Post, species []api.Species, now time.Time, limit int) []RecentSighting {
	names := commonNames(species)

	sorted := make([]api.Post, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	recent := make([]RecentSighting, 0, len(sorted))
	for _, p := range sorted {
		recent = append(recent, RecentSighting{
			ID:        p.ID,
			Species:   resolveName(names, p.Species),
			Location:  fmt.Sprintf("%.3f, %.3f", p.Location.Latitude, p.Location.Longitude),
			User:      p.UserName,
			TimeAgo:   TimeAgo(p.CreatedAt, now),
			Latitude:  p.Location.Latitude,
			Longitude: p.Location.Longitude,
		})
	}
	return recent
}

// TimeAgo renders the coarse relative label used by the recent-sightings feed.
func TimeAgo(t, now time.Time) string {
	hours := int(now.Sub(t).Hours())
	switch {
	case hours < 1:
		return "less than 1 hour ago"
	case hours < 24:
		return fmt.Sprintf("%d hours ago", hours)
	default:
		return fmt.Sprintf("%d days ago", hours/24)
	}
}
