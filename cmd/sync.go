package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/andeanbio/biomon/pkg/storage"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch posts and species and store them in the local snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, _ := cmd.Flags().GetString("dbpath")
		if dbPath == "" {
			dbPath = viper.GetString("db.path")
		}

		ctx := context.Background()
		posts, species, err := apiClient().FetchAll(ctx)
		if err != nil {
			return fmt.Errorf("fetching from record store: %w", err)
		}

		db, err := storage.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.ReplaceSnapshot(ctx, posts, species, time.Now()); err != nil {
			return err
		}

		fmt.Printf("Snapshot written to %s: %d posts, %d species\n", dbPath, len(posts), len(species))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().String("dbpath", "", "Path to the SQLite snapshot file (defaults to db.path config)")
}
