package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andeanbio/biomon/internal/utils"
	"github.com/andeanbio/biomon/pkg/api"
)

// postCmd represents the post command
var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Submit a new sighting as the logged-in observer",
	RunE: func(cmd *cobra.Command, args []string) error {
		speciesID, _ := cmd.Flags().GetInt("species-id")
		description, _ := cmd.Flags().GetString("description")
		lat, _ := cmd.Flags().GetFloat64("lat")
		lon, _ := cmd.Flags().GetFloat64("lon")

		if speciesID <= 0 {
			return fmt.Errorf("--species-id is required")
		}
		if description == "" {
			return fmt.Errorf("--description is required")
		}

		store, err := sessionStore()
		if err != nil {
			return err
		}
		user, err := store.Load()
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("not logged in; run 'biomon login' first")
		}

		created, err := apiClient().CreatePost(context.Background(), api.CreatePostInput{
			UserID:      user.ID,
			SpeciesID:   speciesID,
			Description: description,
			Latitude:    lat,
			Longitude:   lon,
		})
		if err != nil {
			utils.Log.Errorf("Could not submit sighting: %v", err)
			return fmt.Errorf("submission failed")
		}
		if !created {
			return fmt.Errorf("the record store rejected the sighting")
		}

		fmt.Println("Sighting submitted.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(postCmd)
	postCmd.Flags().Int("species-id", 0, "Catalog ID of the observed species")
	postCmd.Flags().StringP("description", "d", "", "What was observed")
	postCmd.Flags().Float64("lat", 0, "Latitude of the sighting")
	postCmd.Flags().Float64("lon", 0, "Longitude of the sighting")
}
