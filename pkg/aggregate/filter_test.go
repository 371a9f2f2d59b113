package aggregate

import (
	"testing"
	"time"

	"github.com/andeanbio/biomon/pkg/api"
)

func TestFilterAndSort_NoFilterRecentIsSortedPermutation(t *testing.T) {
	posts := []api.Post{
		p("1", "Puma concolor", "a@x.com", "Ana", base.Add(-3*time.Hour), 0),
		p("2", "Vicugna vicugna", "b@x.com", "Beto", base.Add(-1*time.Hour), 0),
		p("3", "Vultur gryphus", "c@x.com", "Carla", base.Add(-2*time.Hour), 0),
	}

	got := FilterAndSort(posts, Filter{Query: "", Species: SpeciesAll, Sort: SortRecent})
	if len(got) != len(posts) {
		t.Fatalf("expected same length, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].CreatedAt.Before(got[i].CreatedAt) {
			t.Fatalf("not sorted descending by timestamp: %#v", got)
		}
	}
	seen := make(map[string]bool)
	for _, pst := range got {
		seen[pst.ID] = true
	}
	for _, pst := range posts {
		if !seen[pst.ID] {
			t.Fatalf("post %s missing from result", pst.ID)
		}
	}
}

func TestFilterAndSort_DoesNotMutateInput(t *testing.T) {
	posts := []api.Post{
		p("1", "Puma concolor", "a@x.com", "Ana", base.Add(-3*time.Hour), 0),
		p("2", "Vicugna vicugna", "b@x.com", "Beto", base.Add(-1*time.Hour), 0),
	}

	FilterAndSort(posts, Filter{Sort: SortRecent})
	if posts[0].ID != "1" || posts[1].ID != "2" {
		t.Fatalf("input slice was reordered: %#v", posts)
	}
}

func TestFilterAndSort_QueryMatchesAllThreeFields(t *testing.T) {
	posts := []api.Post{
		p("content", "Puma concolor", "a@x.com", "Ana", base, 0),
		p("name", "Vicugna vicugna", "b@x.com", "River Watcher", base, 0),
		p("species", "Vultur gryphus", "c@x.com", "Carla", base, 0),
		p("none", "Vicugna vicugna", "d@x.com", "Dario", base, 0),
	}
	posts[0].Content = "a RIVER crossing"
	posts[1].Content = "two adults"
	posts[2].Content = "soaring above the valley"
	posts[3].Content = "nothing relevant"

	got := FilterAndSort(posts, Filter{Query: "river"})
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d: %#v", len(got), got)
	}

	got = FilterAndSort(posts, Filter{Query: "GRYPHUS"})
	if len(got) != 1 || got[0].ID != "species" {
		t.Fatalf("expected species-name match, got %#v", got)
	}
}

func TestFilterAndSort_SpeciesFilter(t *testing.T) {
	posts := []api.Post{
		p("1", "Puma concolor", "a@x.com", "Ana", base, 0),
		p("2", "Vicugna vicugna", "b@x.com", "Beto", base, 0),
	}

	got := FilterAndSort(posts, Filter{Species: "Puma concolor"})
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("expected only the puma post, got %#v", got)
	}

	got = FilterAndSort(posts, Filter{Species: SpeciesAll})
	if len(got) != 2 {
		t.Fatalf("expected 'all' sentinel to pass everything, got %d", len(got))
	}
}

func TestFilterAndSort_PopularTreatsMissingLikesAsZero(t *testing.T) {
	posts := []api.Post{
		p("three", "Puma concolor", "a@x.com", "Ana", base, 3),
		p("missing", "Vicugna vicugna", "b@x.com", "Beto", base, 0),
		p("ten", "Vultur gryphus", "c@x.com", "Carla", base, 10),
	}

	got := FilterAndSort(posts, Filter{Sort: SortPopular})
	if got[0].ID != "ten" || got[1].ID != "three" || got[2].ID != "missing" {
		t.Fatalf("wrong popularity order: %#v", got)
	}
}

func TestFilterAndSort_Oldest(t *testing.T) {
	posts := []api.Post{
		p("newer", "Puma concolor", "a@x.com", "Ana", base, 0),
		p("older", "Puma concolor", "a@x.com", "Ana", base.Add(-time.Hour), 0),
	}

	got := FilterAndSort(posts, Filter{Sort: SortOldest})
	if got[0].ID != "older" {
		t.Fatalf("expected ascending order, got %#v", got)
	}
}

func TestPaginate(t *testing.T) {
	posts := []api.Post{
		p("1", "s", "a@x.com", "Ana", base, 0),
		p("2", "s", "a@x.com", "Ana", base, 0),
		p("3", "s", "a@x.com", "Ana", base, 0),
	}

	got := Paginate(posts, 1, 2)
	if len(got) != 2 || got[0].ID != "1" {
		t.Fatalf("unexpected first page: %#v", got)
	}

	got = Paginate(posts, 2, 2)
	if len(got) != 1 || got[0].ID != "3" {
		t.Fatalf("unexpected second page: %#v", got)
	}

	if got := Paginate(posts, 3, 2); len(got) != 0 {
		t.Fatalf("expected empty out-of-range page, got %#v", got)
	}
	if got := Paginate(posts, 0, 2); len(got) != 0 {
		t.Fatalf("expected empty page for page 0, got %#v", got)
	}
	if got := Paginate(posts, 1, 0); len(got) != 0 {
		t.Fatalf("expected empty page for per-page 0, got %#v", got)
	}
}
