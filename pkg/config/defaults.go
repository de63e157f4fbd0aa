package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	LoggingFormatKey        = "logging.format"
	LoggingLevelKey         = "logging.level"
	LoggingOutputKey        = "logging.output"
	LoggingFileMaxSizeMBKey = "logging.file_max_size_mb"
	LoggingFilesKeepKey     = "logging.files_keep"

	AzureSubscriptionIDKey = "azure.subscription_id"
	AzureResourceGroupKey  = "azure.resource_group"
	AzureFactoryNameKey    = "azure.factory_name"
	AzureLocationKey       = "azure.location"

	StorageAccountNameKey = "storage.account_name"
	StorageAccountKeyKey  = "storage.account_key"
	StorageContainerKey   = "storage.container"
	StorageBlobNameKey    = "storage.blob_name"
	StorageSourceFileKey  = "storage.source_file"

	FactoryBlobLinkedServiceKey      = "factory.blob_linked_service"
	FactorySnowflakeLinkedServiceKey = "factory.snowflake_linked_service"
	FactorySourceDatasetKey          = "factory.source_dataset"
	FactorySinkDatasetKey            = "factory.sink_dataset"

	SnowflakeConnectionStringKey = "snowflake.connection_string"
	SnowflakeSchemaKey           = "snowflake.schema"
	SnowflakeTableKey            = "snowflake.table"

	PrecheckURLKey          = "precheck.url"
	PrecheckMaxRetriesKey   = "precheck.max_retries"
	PrecheckRetryWaitMinKey = "precheck.retry_wait_min"
	PrecheckRetryWaitMaxKey = "precheck.retry_wait_max"
	PrecheckTimeoutKey      = "precheck.timeout"
)

const (
	DefaultLoggingFilesKeep     = 100
	DefaultLoggingFileMaxSizeMB = 100

	DefaultAzureLocation      = "westeurope"
	DefaultAzureResourceGroup = "AutoFlowRG"
	DefaultAzureFactoryName   = "AutoFlowADF"

	DefaultStorageContainer = "adf-container"
	DefaultStorageBlobName  = "sales.csv"

	DefaultBlobLinkedService      = "AzureBlobStorageLinkedService"
	DefaultSnowflakeLinkedService = "Snowflake_LS"
	DefaultSourceDataset          = "SourceDataset"
	DefaultSinkDataset            = "SinkDataset"

	DefaultSnowflakeSchema = "finance"
	DefaultSnowflakeTable  = "daily_sales"

	DefaultPrecheckMaxRetries   = 3
	DefaultPrecheckRetryWaitMin = 500 * time.Millisecond
	DefaultPrecheckRetryWaitMax = 5 * time.Second
	DefaultPrecheckTimeout      = 30 * time.Second
)

func setDefaults() {
	viper.SetDefault(LoggingFormatKey, DefaultLoggingFormat)
	viper.SetDefault(LoggingLevelKey, DefaultLoggingLevel)
	viper.SetDefault(LoggingOutputKey, DefaultLoggingOutput)
	viper.SetDefault(LoggingFileMaxSizeMBKey, DefaultLoggingFileMaxSizeMB)
	viper.SetDefault(LoggingFilesKeepKey, DefaultLoggingFilesKeep)

	viper.SetDefault(AzureSubscriptionIDKey, "")
	viper.SetDefault(AzureResourceGroupKey, DefaultAzureResourceGroup)
	viper.SetDefault(AzureFactoryNameKey, DefaultAzureFactoryName)
	viper.SetDefault(AzureLocationKey, DefaultAzureLocation)

	viper.SetDefault(StorageAccountNameKey, "")
	viper.SetDefault(StorageAccountKeyKey, "")
	viper.SetDefault(StorageContainerKey, DefaultStorageContainer)
	viper.SetDefault(StorageBlobNameKey, DefaultStorageBlobName)
	viper.SetDefault(StorageSourceFileKey, "")

	viper.SetDefault(FactoryBlobLinkedServiceKey, DefaultBlobLinkedService)
	viper.SetDefault(FactorySnowflakeLinkedServiceKey, DefaultSnowflakeLinkedService)
	viper.SetDefault(FactorySourceDatasetKey, DefaultSourceDataset)
	viper.SetDefault(FactorySinkDatasetKey, DefaultSinkDataset)

	viper.SetDefault(SnowflakeConnectionStringKey, "")
	viper.SetDefault(SnowflakeSchemaKey, DefaultSnowflakeSchema)
	viper.SetDefault(SnowflakeTableKey, DefaultSnowflakeTable)

	viper.SetDefault(PrecheckURLKey, "")
	viper.SetDefault(PrecheckMaxRetriesKey, DefaultPrecheckMaxRetries)
	viper.SetDefault(PrecheckRetryWaitMinKey, DefaultPrecheckRetryWaitMin)
	viper.SetDefault(PrecheckRetryWaitMaxKey, DefaultPrecheckRetryWaitMax)
	viper.SetDefault(PrecheckTimeoutKey, DefaultPrecheckTimeout)
}

// bindEnvAliases binds the environment variable names used by earlier
// versions of the tool, so existing .env files keep working alongside the
// AUTOFLOW_* names viper derives automatically.
func bindEnvAliases() {
	aliases := map[string][]string{
		AzureSubscriptionIDKey:           {"AZURE_SUBSCRIPTION_ID"},
		AzureResourceGroupKey:            {"AZURE_RESOURCE_GROUP"},
		AzureFactoryNameKey:              {"AZURE_FACTORY_NAME"},
		StorageAccountNameKey:            {"STORAGE_ACCOUNT_NAME"},
		StorageAccountKeyKey:             {"STORAGE_ACCOUNT_KEY"},
		StorageContainerKey:              {"BLOB_CONTAINER"},
		StorageBlobNameKey:               {"BLOB_NAME"},
		FactoryBlobLinkedServiceKey:      {"ADF_BLOB_LINKED_SERVICE"},
		FactorySnowflakeLinkedServiceKey: {"ADF_SNOWFLAKE_LINKED_SERVICE"},
		SnowflakeConnectionStringKey:     {"SNOWFLAKE_CONNECTION_STRING"},
		SnowflakeSchemaKey:               {"SNOWFLAKE_SCHEMA"},
		SnowflakeTableKey:                {"SNOWFLAKE_TABLE"},
	}
	for key, envs := range aliases {
		_ = viper.BindEnv(append([]string{key}, envs...)...)
	}
}
