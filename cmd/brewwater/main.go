// Command brewwater is the CLI boundary: it reads YAML recipes, runs the
// same report pipeline the HTTP server exposes, and prints the result.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hopsmith/brewwater/pkg/logging"
)

var rootCmd = &cobra.Command{
	Use:   "brewwater",
	Short: "Brewing water chemistry calculator",
	Long: `brewwater predicts the ion profile and mash pH of brewing water after
salt and acid additions, and can solve for the additions that hit a
target profile.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup()
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(catalogCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
