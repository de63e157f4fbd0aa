package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/autoflowhq/autoflow/pkg/config"
)

const (
	configureOutputFile = "config.yaml"
	defaultOutputDir    = "~/.autoflow"
)

var configOutputPath string

// configureCmd represents the configure command
var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Interactively create an autoflow configuration file",
	Long: `Create an autoflow configuration file through an interactive prompt.

This command guides you through the identifiers provisioning needs:
  - Azure subscription, resource group, data factory
  - Storage account, container and source blob
  - Data factory linked service and dataset names
  - Snowflake schema and table
  - Precheck service URL`,
	Run: runConfigure,
}

//nolint:gochecknoinits
func init() {
	rootCmd.AddCommand(configureCmd)
	configureCmd.Flags().StringVarP(&configOutputPath, "output", "o", "", "Output path for config file (default: ~/.autoflow/config.yaml)")
}

func runConfigure(_ *cobra.Command, _ []string) {
	outputPath, err := resolveOutputPath()
	if err != nil {
		DieFmt("failed to resolve output path: %s", err)
	}

	if fileExists(outputPath) {
		overwrite, err := promptConfirm(fmt.Sprintf("Configuration file %s already exists. Overwrite?", outputPath))
		if err != nil {
			DieFmt("prompt failed: %s", err)
		}
		if !overwrite {
			fmt.Println("Configuration cancelled.")
			return
		}
	}

	// Initialize a new viper instance for writing
	configViper := viper.New()

	sections := []struct {
		header  string
		prompts []struct {
			label        string
			key          string
			defaultValue string
		}
	}{
		{"--- Azure ---", []struct {
			label        string
			key          string
			defaultValue string
		}{
			{"Azure Subscription ID", config.AzureSubscriptionIDKey, ""},
			{"Resource Group", config.AzureResourceGroupKey, config.DefaultAzureResourceGroup},
			{"Data Factory name", config.AzureFactoryNameKey, config.DefaultAzureFactoryName},
			{"Azure location", config.AzureLocationKey, config.DefaultAzureLocation},
		}},
		{"--- Storage ---", []struct {
			label        string
			key          string
			defaultValue string
		}{
			{"Storage account name", config.StorageAccountNameKey, ""},
			{"Blob container", config.StorageContainerKey, config.DefaultStorageContainer},
			{"Blob name", config.StorageBlobNameKey, config.DefaultStorageBlobName},
			{"Local source file to upload (empty for generated sample)", config.StorageSourceFileKey, ""},
		}},
		{"--- Data Factory objects ---", []struct {
			label        string
			key          string
			defaultValue string
		}{
			{"Blob linked service name", config.FactoryBlobLinkedServiceKey, config.DefaultBlobLinkedService},
			{"Snowflake linked service name", config.FactorySnowflakeLinkedServiceKey, config.DefaultSnowflakeLinkedService},
			{"Source dataset name", config.FactorySourceDatasetKey, config.DefaultSourceDataset},
			{"Sink dataset name", config.FactorySinkDatasetKey, config.DefaultSinkDataset},
		}},
		{"--- Snowflake ---", []struct {
			label        string
			key          string
			defaultValue string
		}{
			{"Snowflake schema", config.SnowflakeSchemaKey, config.DefaultSnowflakeSchema},
			{"Snowflake table", config.SnowflakeTableKey, config.DefaultSnowflakeTable},
		}},
		{"--- Precheck service ---", []struct {
			label        string
			key          string
			defaultValue string
		}{
			{"Precheck URL", config.PrecheckURLKey, ""},
		}},
	}

	for _, section := range sections {
		fmt.Println()
		fmt.Println(section.header)
		for _, p := range section.prompts {
			value, err := promptString(p.label, p.defaultValue)
			if err != nil {
				DieFmt("prompt failed: %s", err)
			}
			if value != "" {
				configViper.Set(p.key, value)
			}
		}
	}

	// The Snowflake connection string is a secret; only stored when the
	// operator insists, env is the recommended channel.
	fmt.Println()
	storeConn, err := promptConfirm("Store the Snowflake connection string in the file (SNOWFLAKE_CONNECTION_STRING env is preferred)?")
	if err != nil {
		DieFmt("prompt failed: %s", err)
	}
	if storeConn {
		conn, err := promptPassword("Snowflake connection string")
		if err != nil {
			DieFmt("prompt failed: %s", err)
		}
		configViper.Set(config.SnowflakeConnectionStringKey, conn)
	}

	if err := writeConfig(configViper, outputPath); err != nil {
		DieFmt("failed to write configuration: %s", err)
	}

	fmt.Println()
	fmt.Printf("Configuration written to %s\n", outputPath)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Review the configuration file and adjust as needed")
	fmt.Println("  2. Run: autoflow provision --config " + outputPath)
}

func resolveOutputPath() (string, error) {
	if configOutputPath != "" {
		return homedir.Expand(configOutputPath)
	}

	dir, err := homedir.Expand(defaultOutputDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configureOutputFile), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func writeConfig(v *viper.Viper, outputPath string) error {
	// Ensure directory exists
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	v.SetConfigType("yaml")
	v.SetConfigFile(outputPath)

	return v.WriteConfig()
}
