// Package commands implements the CLI commands for listingkit.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "listingkit",
	Short: "Harvest normalized records from real-estate listing and agent URLs",
	Long: `Listingkit turns listing and agent-profile URLs into normalized,
confidence-scored records.

Each URL is classified by site family and target kind, fetched through a
layered strategy chain (direct, proxy relay, structured API, optional
headless browser), and run through per-site extraction with a generic
fallback. Every extracted attribute carries provenance, a confidence
score and a review flag.

Examples:
  # Harvest a single listing
  listingkit harvest -u "https://www.zillow.com/homedetails/123-Main-St/456_zpid/"

  # Batch from a file, saved to SQLite, with a summary report
  listingkit harvest --input urls.txt --db listings.db

  # Knowledge-document output for a downstream assistant
  listingkit harvest -u "https://www.redfin.com/CA/Oakland/456-Maple-Ave" --format markdown --kb

  # Dry-run the classifier
  listingkit classify "https://www.zillow.com/profile/jane-smith"`,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.listingkit.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".listingkit")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("LISTINGKIT")
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// logInfo prints an info message to stderr (unless quiet mode).
func logInfo(format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
