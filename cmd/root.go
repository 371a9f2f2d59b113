package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/andeanbio/biomon/internal/utils"
	"github.com/andeanbio/biomon/pkg/api"
	"github.com/andeanbio/biomon/pkg/session"
	"github.com/andeanbio/biomon/pkg/whttp"
)

var cfgFile string

const (
	LOGO = `	 _     _
	| |__ (_) ___  _ __ ___   ___  _ __
	| '_ \| |/ _ \| '_ ` + "`" + ` _ \ / _ \| '_ \
	| |_) | | (_) | | | | | | (_) | | | |
	|_.__/|_|\___/|_| |_| |_|\___/|_| |_|

`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "biomon",
	Short: "A biodiversity sighting monitor for field teams.",
	Long: LOGO + `biomon turns the raw sighting feed of a remote record store into dashboards:
species rankings, monthly trends, top observers and recent activity, right
from your command line or as a local web dashboard.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.biomon.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("proxy", "", "", "HTTP Proxy (Useful for debugging. Example: http://127.0.0.1:8080)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().String("api-url", "", "Record store base URL (overrides config)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".biomon")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.biomon.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// Set default empty values for all keys
	viper.SetDefault("api.base_url", "http://localhost:1234/api")
	viper.SetDefault("auth.email", "")
	viper.SetDefault("auth.password", "")
	viper.SetDefault("session.path", "")
	viper.SetDefault("db.path", "biomon.sqlite")

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}

// apiClient builds the record store client from config and global flags.
func apiClient() *api.Client {
	baseURL, _ := rootCmd.PersistentFlags().GetString("api-url")
	if baseURL == "" {
		baseURL = viper.GetString("api.base_url")
	}
	proxy, _ := rootCmd.PersistentFlags().GetString("proxy")
	return api.NewClient(baseURL, whttp.NewClient(proxy))
}

// sessionStore opens the configured session slot.
func sessionStore() (*session.Store, error) {
	return session.NewStore(viper.GetString("session.path"))
}
