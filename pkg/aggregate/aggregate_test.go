package aggregate

import (
	"reflect"
	"testing"
	"time"

	"github.com/andeanbio/biomon/pkg/api"
)

var base = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func p(id, species, email, name string, created time.Time, likes int) api.Post {
	return api.Post{
		ID:        id,
		Content:   "observed near the river",
		UserEmail: email,
		UserName:  name,
		Species:   species,
		CreatedAt: created,
		Likes:     likes,
		Location:  api.Location{Latitude: -12.0464, Longitude: -77.0428},
	}
}

func andeanCatalog() []api.Species {
	return []api.Species{
		{ID: 1, ScientificName: "Vicugna vicugna", CommonName: "Vicuña", Family: "Camelidae"},
		{ID: 2, ScientificName: "Puma concolor", CommonName: "Puma", Family: "Felidae"},
		{ID: 3, ScientificName: "Vultur gryphus", CommonName: "Andean condor", Family: "Cathartidae"},
	}
}

func TestSpeciesRanking_CommonNamesAndCounts(t *testing.T) {
	posts := []api.Post{
		p("1", "Vicugna vicugna", "a@x.com", "Ana", base, 0),
		p("2", "Puma concolor", "b@x.com", "Beto", base, 0),
		p("3", "Vicugna vicugna", "a@x.com", "Ana", base, 0),
	}

	got := SpeciesRanking(posts, andeanCatalog())
	if len(got) != 2 {
		t.Fatalf("expected 2 ranks, got %d: %#v", len(got), got)
	}
	if got[0].Name != "Vicuña" || got[0].Count != 2 {
		t.Fatalf("expected Vicuña with count 2 first, got %#v", got[0])
	}
	if got[1].Name != "Puma" || got[1].Count != 1 {
		t.Fatalf("expected Puma with count 1 second, got %#v", got[1])
	}
	if got[0].Trend != TrendUnknown || got[0].Status != StatusUnknown {
		t.Fatalf("expected unknown trend/status, got %#v", got[0])
	}
}

func TestSpeciesRanking_FallbackToRawName(t *testing.T) {
	posts := []api.Post{p("1", "Chinchilla chinchilla", "a@x.com", "Ana", base, 0)}

	got := SpeciesRanking(posts, andeanCatalog())
	if len(got) != 1 || got[0].Name != "Chinchilla chinchilla" {
		t.Fatalf("expected raw scientific name fallback, got %#v", got)
	}
}

func TestSpeciesRanking_TopSixNonIncreasing(t *testing.T) {
	names := []string{"s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8"}
	var posts []api.Post
	for i, name := range names {
		for j := 0; j <= i; j++ { // s1 once, s8 eight times
			posts = append(posts, p(name, name, "a@x.com", "Ana", base, 0))
		}
	}

	got := SpeciesRanking(posts, nil)
	if len(got) != 6 {
		t.Fatalf("expected top 6, got %d", len(got))
	}
	sum := 0
	for i, r := range got {
		if i > 0 && got[i-1].Count < r.Count {
			t.Fatalf("ranking not non-increasing at %d: %#v", i, got)
		}
		sum += r.Count
	}
	if sum > len(posts) {
		t.Fatalf("returned counts sum %d exceeds post count %d", sum, len(posts))
	}
}

func TestSpeciesRanking_TiesKeepEncounterOrder(t *testing.T) {
	posts := []api.Post{
		p("1", "Puma concolor", "a@x.com", "Ana", base, 0),
		p("2", "Vicugna vicugna", "a@x.com", "Ana", base, 0),
	}

	got := SpeciesRanking(posts, andeanCatalog())
	if got[0].Name != "Puma" || got[1].Name != "Vicuña" {
		t.Fatalf("expected encounter order on tie, got %#v", got)
	}
}

func TestMonthlySeries_SumsAndChronology(t *testing.T) {
	posts := []api.Post{
		p("1", "Puma concolor", "a@x.com", "Ana", time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC), 0),
		p("2", "Vicugna vicugna", "a@x.com", "Ana", time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC), 0),
		p("3", "Puma concolor", "a@x.com", "Ana", time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC), 0),
		// Same month name, different year: must be its own bucket.
		p("4", "Puma concolor", "a@x.com", "Ana", time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC), 0),
	}

	got := MonthlySeries(posts)
	if len(got) != 3 {
		t.Fatalf("expected 3 buckets, got %d: %#v", len(got), got)
	}

	sum := 0
	for i, point := range got {
		sum += point.Sightings
		if i > 0 && got[i-1].Month.After(point.Month) {
			t.Fatalf("series not chronological: %#v", got)
		}
	}
	if sum != len(posts) {
		t.Fatalf("bucket counts sum %d, want %d", sum, len(posts))
	}

	if got[0].Label != "Jan 2025" {
		t.Fatalf("expected first bucket Jan 2025, got %q", got[0].Label)
	}
	// January 2026: two posts, two distinct species.
	if got[1].Sightings != 2 || got[1].Species != 2 {
		t.Fatalf("expected Jan 2026 with 2 sightings of 2 species, got %#v", got[1])
	}
}

func TestTopUsers_TopFourSorted(t *testing.T) {
	var posts []api.Post
	emails := []string{"a@x.com", "b@x.com", "c@x.com", "d@x.com", "e@x.com"}
	for i, email := range emails {
		for j := 0; j <= i; j++ {
			posts = append(posts, p(email, "Puma concolor", email, "User "+email, base, 0))
		}
	}

	got := TopUsers(posts)
	if len(got) != 4 {
		t.Fatalf("expected top 4, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Sightings < got[i].Sightings {
			t.Fatalf("ranking not non-increasing: %#v", got)
		}
	}
	if got[0].Email != "e@x.com" || got[0].Sightings != 5 {
		t.Fatalf("expected e@x.com with 5 sightings first, got %#v", got[0])
	}
}

func TestTopUsers_DistinctSpeciesAndFirstName(t *testing.T) {
	posts := []api.Post{
		p("1", "Puma concolor", "a@x.com", "Ana", base, 0),
		p("2", "Vicugna vicugna", "a@x.com", "Ana Maria", base, 0),
		p("3", "Puma concolor", "a@x.com", "Ana", base, 0),
	}

	got := TopUsers(posts)
	if len(got) != 1 {
		t.Fatalf("expected 1 user, got %d", len(got))
	}
	if got[0].Name != "Ana" {
		t.Fatalf("expected name from first post, got %q", got[0].Name)
	}
	if got[0].Sightings != 3 || got[0].Species != 2 {
		t.Fatalf("expected 3 sightings of 2 species, got %#v", got[0])
	}
}

func TestRecentSightings_OrderLimitAndFormat(t *testing.T) {
	posts := []api.Post{
		p("old", "Puma concolor", "a@x.com", "Ana", base.Add(-72*time.Hour), 0),
		p("new", "Vicugna vicugna", "b@x.com", "Beto", base.Add(-30*time.Minute), 0),
		p("mid", "Vultur gryphus", "c@x.com", "Carla", base.Add(-5*time.Hour), 0),
		p("oldest", "Puma concolor", "a@x.com", "Ana", base.Add(-200*time.Hour), 0),
	}

	got := RecentSightings(posts, andeanCatalog(), base, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 sightings, got %d", len(got))
	}
	if got[0].ID != "new" || got[1].ID != "mid" || got[2].ID != "old" {
		t.Fatalf("wrong order: %#v", got)
	}
	if got[0].Species != "Vicuña" {
		t.Fatalf("expected common name, got %q", got[0].Species)
	}
	if got[0].Location != "-12.046, -77.043" {
		t.Fatalf("unexpected location format: %q", got[0].Location)
	}
	if got[0].TimeAgo != "less than 1 hour ago" {
		t.Fatalf("unexpected time-ago: %q", got[0].TimeAgo)
	}
	if got[1].TimeAgo != "5 hours ago" {
		t.Fatalf("unexpected time-ago: %q", got[1].TimeAgo)
	}
	if got[2].TimeAgo != "3 days ago" {
		t.Fatalf("unexpected time-ago: %q", got[2].TimeAgo)
	}
}

func TestComputeMetrics(t *testing.T) {
	posts := []api.Post{
		p("1", "Puma concolor", "a@x.com", "Ana", base.Add(-2*24*time.Hour), 0),
		p("2", "Puma concolor", "a@x.com", "Ana", base.Add(-3*24*time.Hour), 0),
		p("3", "Vicugna vicugna", "b@x.com", "Beto", base.Add(-10*24*time.Hour), 0),
	}
	posts[2].Location = api.Location{Latitude: -13.5, Longitude: -72.0}

	got := ComputeMetrics(posts, andeanCatalog(), base)
	if got.TotalSightings != 3 || got.TotalSpecies != 3 {
		t.Fatalf("unexpected totals: %#v", got)
	}
	if got.ActiveUsers != 2 {
		t.Fatalf("expected 2 distinct users, got %d", got.ActiveUsers)
	}
	if got.TotalLocations != 2 {
		t.Fatalf("expected 2 distinct locations, got %d", got.TotalLocations)
	}
	// 2 posts in trailing week vs 1 in the week before: +100%.
	if got.WeeklyGrowth != 100 {
		t.Fatalf("expected weekly growth 100, got %v", got.WeeklyGrowth)
	}
	// Previous 30-day window is empty: growth reports 0, not infinity.
	if got.MonthlyGrowth != 0 {
		t.Fatalf("expected monthly growth 0, got %v", got.MonthlyGrowth)
	}
}

func TestAggregation_EmptyInputs(t *testing.T) {
	if got := SpeciesRanking(nil, nil); len(got) != 0 {
		t.Fatalf("SpeciesRanking on empty input: %#v", got)
	}
	if got := MonthlySeries(nil); len(got) != 0 {
		t.Fatalf("MonthlySeries on empty input: %#v", got)
	}
	if got := TopUsers(nil); len(got) != 0 {
		t.Fatalf("TopUsers on empty input: %#v", got)
	}
	if got := RecentSightings(nil, nil, base, 3); len(got) != 0 {
		t.Fatalf("RecentSightings on empty input: %#v", got)
	}
	if got := FilterAndSort(nil, Filter{Sort: SortRecent}); len(got) != 0 {
		t.Fatalf("FilterAndSort on empty input: %#v", got)
	}
	metrics := ComputeMetrics(nil, nil, base)
	if metrics.TotalSightings != 0 || metrics.ActiveUsers != 0 {
		t.Fatalf("ComputeMetrics on empty input: %#v", metrics)
	}
}

func TestAggregation_Idempotent(t *testing.T) {
	posts := []api.Post{
		p("1", "Puma concolor", "a@x.com", "Ana", base.Add(-2*time.Hour), 5),
		p("2", "Vicugna vicugna", "b@x.com", "Beto", base.Add(-50*time.Hour), 1),
		p("3", "Vicugna vicugna", "a@x.com", "Ana", base.Add(-1*time.Hour), 3),
	}
	species := andeanCatalog()

	if a, b := SpeciesRanking(posts, species), SpeciesRanking(posts, species); !reflect.DeepEqual(a, b) {
		t.Fatalf("SpeciesRanking not idempotent: %#v vs %#v", a, b)
	}
	if a, b := MonthlySeries(posts), MonthlySeries(posts); !reflect.DeepEqual(a, b) {
		t.Fatalf("MonthlySeries not idempotent: %#v vs %#v", a, b)
	}
	if a, b := TopUsers(posts), TopUsers(posts); !reflect.DeepEqual(a, b) {
		t.Fatalf("TopUsers not idempotent: %#v vs %#v", a, b)
	}
	if a, b := RecentSightings(posts, species, base, 3), RecentSightings(posts, species, base, 3); !reflect.DeepEqual(a, b) {
		t.Fatalf("RecentSightings not idempotent: %#v vs %#v", a, b)
	}
	f := Filter{Query: "ana", Sort: SortPopular}
	if a, b := FilterAndSort(posts, f), FilterAndSort(posts, f); !reflect.DeepEqual(a, b) {
		t.Fatalf("FilterAndSort not idempotent: %#v vs %#v", a, b)
	}
}
