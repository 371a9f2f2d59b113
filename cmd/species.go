package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andeanbio/biomon/internal/utils"
)

// speciesCmd represents the species command
var speciesCmd = &cobra.Command{
	Use:   "species",
	Short: "List the species catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := apiClient()

		species, err := client.GetAllSpecies(context.Background())
		if err != nil {
			utils.Log.Errorf("Could not fetch species: %v", err)
			species = nil
		}

		if len(species) == 0 {
			fmt.Println("No species available.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tSCIENTIFIC NAME\tCOMMON NAME\tFAMILY\t")
		for _, s := range species {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t\n", s.ID, s.ScientificName, s.CommonName, s.Family)
		}
		w.Flush()

		return nil
	},
}

func init() {
	rootCmd.AddCommand(speciesCmd)
}
