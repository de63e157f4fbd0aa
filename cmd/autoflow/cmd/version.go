package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autoflowhq/autoflow/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of autoflow",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println("autoflow version", version.Version)
	},
}

//nolint:gochecknoinits
func init() {
	rootCmd.AddCommand(versionCmd)
}
