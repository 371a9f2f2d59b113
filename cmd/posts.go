package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/andeanbio/biomon/internal/utils"
	"github.com/andeanbio/biomon/pkg/aggregate"
	"github.com/andeanbio/biomon/pkg/api"
	"github.com/andeanbio/biomon/pkg/storage"
)

// postsCmd represents the posts command
var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "List sighting posts with filtering, sorting and pagination",
	RunE: func(cmd *cobra.Command, args []string) error {
		query, _ := cmd.Flags().GetString("query")
		speciesFilter, _ := cmd.Flags().GetString("species")
		sortKey, _ := cmd.Flags().GetString("sort")
		page, _ := cmd.Flags().GetInt("page")
		perPage, _ := cmd.Flags().GetInt("per-page")
		offline, _ := cmd.Flags().GetBool("offline")

		switch sortKey {
		case aggregate.SortRecent, aggregate.SortOldest, aggregate.SortPopular:
		default:
			return fmt.Errorf("invalid sort key %q (want recent, oldest or popular)", sortKey)
		}

		ctx := context.Background()
		posts, species, err := loadData(ctx, offline)
		if err != nil {
			utils.Log.Errorf("Could not load data: %v", err)
		}

		filtered := aggregate.FilterAndSort(posts, aggregate.Filter{
			Query:   query,
			Species: speciesFilter,
			Sort:    sortKey,
		})
		pageItems := aggregate.Paginate(filtered, page, perPage)

		fmt.Printf("%d sightings found (showing page %d)\n\n", len(filtered), page)
		if len(pageItems) == 0 {
			return nil
		}

		names := make(map[string]string, len(species))
		for _, s := range species {
			names[s.ScientificName] = s.CommonName
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "DATE\tSPECIES\tOBSERVER\tLIKES\tCONTENT\t")
		for _, p := range pageItems {
			name := p.Species
			if common, ok := names[p.Species]; ok && common != "" {
				name = common
			}
			date := "unknown"
			if !p.CreatedAt.IsZero() {
				date = p.CreatedAt.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t\n", date, name, p.UserName, p.Likes, truncate(p.Content, 60))
		}
		w.Flush()

		return nil
	},
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// loadData pulls posts and species from the record store, or from the local
// snapshot when offline is set. Fetch failures degrade to whatever arrived.
func loadData(ctx context.Context, offline bool) ([]api.Post, []api.Species, error) {
	if offline {
		db, err := storage.Open(viper.GetString("db.path"))
		if err != nil {
			return nil, nil, err
		}
		defer db.Close()
		return db.LoadSnapshot(ctx)
	}
	return apiClient().FetchAll(ctx)
}

func init() {
	rootCmd.AddCommand(postsCmd)
	postsCmd.Flags().StringP("query", "q", "", "Case-insensitive search over content, observer and species")
	postsCmd.Flags().String("species", aggregate.SpeciesAll, "Filter by scientific name ('all' for no filter)")
	postsCmd.Flags().String("sort", aggregate.SortRecent, "Sort key: recent, oldest or popular")
	postsCmd.Flags().Int("page", 1, "Page number (1-based)")
	postsCmd.Flags().Int("per-page", 20, "Posts per page")
	postsCmd.Flags().Bool("offline", false, "Read from the local snapshot instead of the record store")
}
