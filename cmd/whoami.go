package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// whoamiCmd represents the whoami command
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Print the identity of the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := sessionStore()
		if err != nil {
			return err
		}
		user, err := store.Load()
		if err != nil {
			return err
		}
		if user == nil {
			fmt.Println("Not logged in.")
			return nil
		}
		fmt.Printf("%s <%s>", user.Name, user.Email)
		if user.Title != "" {
			fmt.Printf(" (%s)", user.Title)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
