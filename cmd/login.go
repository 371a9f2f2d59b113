package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/andeanbio/biomon/internal/utils"
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Validate credentials against the record store and save the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if email == "" {
			email = viper.GetString("auth.email")
		}
		if password == "" {
			password = viper.GetString("auth.password")
		}
		if email == "" || password == "" {
			return fmt.Errorf("email and password are required (flags or auth.* config keys)")
		}

		client := apiClient()
		ctx := context.Background()

		valid, err := client.ValidateUser(ctx, email, password)
		if err != nil {
			utils.Log.Errorf("Could not reach the record store: %v", err)
			return fmt.Errorf("login failed: record store unreachable")
		}
		if !valid {
			return fmt.Errorf("login failed: invalid credentials")
		}

		user, err := client.GetUserData(ctx, email)
		if err != nil {
			utils.Log.Errorf("Could not fetch user data: %v", err)
			return fmt.Errorf("login failed: could not fetch user data")
		}
		if user == nil {
			return fmt.Errorf("login failed: no user record for %s", email)
		}

		store, err := sessionStore()
		if err != nil {
			return err
		}
		if err := store.Save(user); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}

		fmt.Printf("Logged in as %s <%s>\n", user.Name, user.Email)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringP("email", "e", "", "Account email")
	loginCmd.Flags().StringP("password", "p", "", "Account password")
}
