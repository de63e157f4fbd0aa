package cmd

import (
	"github.com/spf13/cobra"

	"github.com/autoflowhq/autoflow/pkg/logging"
	"github.com/autoflowhq/autoflow/pkg/provision"
)

var precheckCmd = &cobra.Command{
	Use:   "precheck",
	Short: "Call the precheck service and print its report, without changing anything",
	Run: func(cmd *cobra.Command, _ []string) {
		cfg := loadConfig()
		if err := cfg.Validate(); err != nil {
			DieErr(err, CodeConfig)
		}

		pctx := provision.NewContext(cfg)
		client := newPrecheckClient(cfg, logging.Default())
		report, err := client.Check(cmd.Context(), pctx)
		if err != nil {
			DieErr(err, CodePrecheck)
		}
		printReport("Precheck:", report)
	},
}

//nolint:gochecknoinits
func init() {
	rootCmd.AddCommand(precheckCmd)
}
