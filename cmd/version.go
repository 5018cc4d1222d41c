package cmd

import (
	"fmt"

	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the version of this plugin`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "Bitrise AI Optimizer Plugin v%s\n", version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
