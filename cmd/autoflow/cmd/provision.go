package cmd

import (
	"github.com/spf13/cobra"

	"github.com/autoflowhq/autoflow/pkg/azure"
	"github.com/autoflowhq/autoflow/pkg/config"
	"github.com/autoflowhq/autoflow/pkg/fixer"
	"github.com/autoflowhq/autoflow/pkg/logging"
	"github.com/autoflowhq/autoflow/pkg/precheck"
	"github.com/autoflowhq/autoflow/pkg/provision"
)

var (
	assumeYes bool
	skipFix   bool
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Provision the Azure resources and pipeline objects a copy pipeline needs",
	Long: `Provision runs the full flow:

  1. verify credentials and the target subscription
  2. ensure resource group, data factory, storage account, container and source blob
  3. call the precheck service to learn which pipeline objects are missing
  4. create the missing linked services and datasets
  5. re-run the precheck to confirm convergence

Every step is an idempotent ensure-exists; after a partial failure simply run
provision again.`,
	Run: runProvision,
}

//nolint:gochecknoinits
func init() {
	rootCmd.AddCommand(provisionCmd)
	provisionCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not prompt, use configured values and defaults")
	provisionCmd.Flags().BoolVar(&skipFix, "skip-fix", false, "stop after the first precheck report, do not create missing objects")
}

func runProvision(cmd *cobra.Command, _ []string) {
	cfg := loadConfig()
	if !assumeYes && isTerminal() {
		fillMissingInteractive(cfg)
	}
	if err := cfg.Validate(); err != nil {
		DieErr(err, CodeConfig)
	}

	ctx := cmd.Context()
	log := logging.Default()
	pctx := provision.NewContext(cfg)

	clients, err := azure.NewClients(pctx.SubscriptionID)
	if err != nil {
		DieErr(err, CodeConfig)
	}
	log.WithField(logging.PhaseFieldKey, "preflight").Info("verify subscription")
	if err := clients.VerifySubscription(ctx); err != nil {
		DieErr(err, CodeConfig)
	}

	reconciler := provision.NewReconciler(log,
		azure.ResourceGroupEnsurer(clients, pctx),
		azure.FactoryEnsurer(clients, pctx),
		azure.StorageAccountEnsurer(clients, pctx),
		azure.ContainerEnsurer(pctx),
		azure.BlobEnsurer(pctx),
	)
	if err := reconciler.Run(ctx); err != nil {
		DieErr(err, CodeCloud)
	}

	client := newPrecheckClient(cfg, log)
	report, err := client.Check(ctx, pctx)
	if err != nil {
		DieErr(err, CodePrecheck)
	}
	printReport("Precheck:", report)

	if skipFix || report.Converged() {
		return
	}

	fx := fixer.New(azure.NewFactoryObjects(clients), log)
	if err := fx.Apply(ctx, pctx, report.Summary.Missing); err != nil {
		DieErr(err, CodeCloud)
	}

	final, err := client.Check(ctx, pctx)
	if err != nil {
		DieErr(err, CodePrecheck)
	}
	printReport("Precheck after fixes:", final)
	if !final.Converged() {
		Die("prerequisites still missing after fixes, see report above", CodePrecheck)
	}
}

func newPrecheckClient(cfg *config.Config, log logging.Logger) *precheck.Client {
	p := cfg.Values.Precheck
	return precheck.NewClient(p.URL, precheck.RetriesCfg{
		MaxAttempts:     p.MaxRetries,
		MinWaitInterval: p.RetryWaitMin,
		MaxWaitInterval: p.RetryWaitMax,
		Timeout:         p.Timeout,
	}, log)
}

// fillMissingInteractive prompts for the values provision cannot default.
// Hitting enter keeps the configured value.
func fillMissingInteractive(cfg *config.Config) {
	v := &cfg.Values
	prompts := []struct {
		label string
		value *string
	}{
		{"Azure Subscription ID", &v.Azure.SubscriptionID},
		{"Resource Group", &v.Azure.ResourceGroup},
		{"Data Factory name", &v.Azure.FactoryName},
		{"Storage account name", &v.Storage.AccountName},
		{"Blob container", &v.Storage.Container},
		{"Blob name", &v.Storage.BlobName},
		{"Precheck URL", &v.Precheck.URL},
		{"Snowflake schema", &v.Snowflake.Schema},
		{"Snowflake table", &v.Snowflake.Table},
	}
	for _, p := range prompts {
		entered, err := promptString(p.label, *p.value)
		if err != nil {
			DieErr(err, CodeGeneric)
		}
		*p.value = entered
	}

	if v.Snowflake.ConnectionString == "" {
		set, err := promptConfirm("Provide a Snowflake connection string (needed to create the Snowflake linked service)?")
		if err != nil {
			DieErr(err, CodeGeneric)
		}
		if set {
			conn, err := promptPassword("Snowflake connection string")
			if err != nil {
				DieErr(err, CodeGeneric)
			}
			v.Snowflake.ConnectionString = config.SecureString(conn)
		}
	}
}
