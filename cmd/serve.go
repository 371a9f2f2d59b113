package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/andeanbio/biomon/internal/server"
	"github.com/andeanbio/biomon/internal/utils"
	"github.com/andeanbio/biomon/pkg/storage"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local dashboard web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		listenAddr, _ := cmd.Flags().GetString("listen")
		refreshMins, _ := cmd.Flags().GetInt("refresh-interval")
		user, _ := cmd.Flags().GetString("auth-user")
		pass, _ := cmd.Flags().GetString("auth-pass")
		noCache, _ := cmd.Flags().GetBool("no-cache")

		var db *storage.DB
		if !noCache {
			var err error
			db, err = storage.Open(viper.GetString("db.path"))
			if err != nil {
				return err
			}
			defer db.Close()
		}

		srv := server.New(apiClient(), db, user, pass,
			time.Duration(refreshMins)*time.Minute, utils.Log)
		return srv.Start(context.Background(), listenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	serveCmd.Flags().Int("refresh-interval", 5, "Minutes between record store refreshes (0 to disable)")
	serveCmd.Flags().String("auth-user", "", "Basic auth username (empty disables auth)")
	serveCmd.Flags().String("auth-pass", "", "Basic auth password")
	serveCmd.Flags().Bool("no-cache", false, "Do not read or write the local snapshot")
}
