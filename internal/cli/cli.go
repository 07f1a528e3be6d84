// Package cli implements the search command line client.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	envAPIURL = "SEARCH_API_URL"
	envAPIKey = "SEARCH_API_KEY"

	defaultAPIURL = "http://localhost:7007/api/search"
)

// NewRootCmd builds the search command tree.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "search",
		Short: "Query a search backend",
		Long: `search sends queries to a search backend and prints the result set.

Environment variables (also read from .env):
  SEARCH_API_URL   Search API base URL (default: ` + defaultAPIURL + `)
  SEARCH_API_KEY   Bearer token, if the backend requires one`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("api-url", "", "Search API base URL (overrides env)")
	rootCmd.PersistentFlags().String("api-key", "", "API key (overrides env)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log request details to stderr")

	rootCmd.AddCommand(QueryCmd())
	rootCmd.AddCommand(VersionCmd(version))

	return rootCmd
}

// Execute runs the CLI and exits non-zero on error.
func Execute(version string) {
	// .env is optional
	_ = godotenv.Load()

	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// endpoint resolves the API URL and key: flag, then env, then default.
func endpoint(cmd *cobra.Command) (apiURL, apiKey string) {
	if v, err := cmd.Flags().GetString("api-url"); err == nil && v != "" {
		apiURL = v
	}
	if v, err := cmd.Flags().GetString("api-key"); err == nil && v != "" {
		apiKey = v
	}
	if apiURL == "" {
		apiURL = os.Getenv(envAPIURL)
	}
	if apiKey == "" {
		apiKey = os.Getenv(envAPIKey)
	}
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	return apiURL, apiKey
}
