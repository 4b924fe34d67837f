package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "harperctl",
	Short: "Harper memory service - user fact enrichment tooling",
	Long: `harperctl runs the fact enrichment pipeline from the command line.

It queries the Zep knowledge graph for a user's extracted facts, assembles
the fixed-shape business profile, and prints the result. The same pipeline
backs the HTTP service; this command exists for one-shot runs and debugging.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("harperctl v0.2.0")
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(versionCmd)
}
