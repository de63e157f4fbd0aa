package config_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/autoflowhq/autoflow/pkg/config"
)

func newConfig(t *testing.T) *config.Config {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	cfg, err := config.NewConfig()
	require.NoError(t, err)
	return cfg
}

func TestConfig_Defaults(t *testing.T) {
	cfg := newConfig(t)

	require.Equal(t, "westeurope", cfg.Values.Azure.Location)
	require.Equal(t, "AutoFlowRG", cfg.Values.Azure.ResourceGroup)
	require.Equal(t, "AutoFlowADF", cfg.Values.Azure.FactoryName)
	require.Equal(t, "adf-container", cfg.Values.Storage.Container)
	require.Equal(t, "sales.csv", cfg.Values.Storage.BlobName)
	require.Equal(t, "AzureBlobStorageLinkedService", cfg.Values.Factory.BlobLinkedService)
	require.Equal(t, "Snowflake_LS", cfg.Values.Factory.SnowflakeLinkedService)
	require.Equal(t, "SourceDataset", cfg.Values.Factory.SourceDataset)
	require.Equal(t, "SinkDataset", cfg.Values.Factory.SinkDataset)
	require.Equal(t, "finance", cfg.Values.Snowflake.Schema)
	require.Equal(t, "daily_sales", cfg.Values.Snowflake.Table)
	require.Equal(t, 3, cfg.Values.Precheck.MaxRetries)
	require.Equal(t, 500*time.Millisecond, cfg.Values.Precheck.RetryWaitMin)
	require.Equal(t, 30*time.Second, cfg.Values.Precheck.Timeout)
}

func TestConfig_EnvAliases(t *testing.T) {
	t.Setenv("AZURE_SUBSCRIPTION_ID", "00000000-0000-0000-0000-00000000abcd")
	t.Setenv("STORAGE_ACCOUNT_KEY", "s3cret")
	t.Setenv("ADF_SNOWFLAKE_LINKED_SERVICE", "Snowflake_Custom")
	cfg := newConfig(t)

	require.Equal(t, "00000000-0000-0000-0000-00000000abcd", cfg.Values.Azure.SubscriptionID)
	require.Equal(t, "s3cret", cfg.Values.Storage.AccountKey.SecureValue())
	require.Equal(t, "Snowflake_Custom", cfg.Values.Factory.SnowflakeLinkedService)
}

func TestConfig_Validate(t *testing.T) {
	cfg := newConfig(t)
	require.ErrorIs(t, cfg.Validate(), config.ErrMissingSubscriptionID)

	cfg.Values.Azure.SubscriptionID = "00000000-0000-0000-0000-000000000001"
	require.ErrorIs(t, cfg.Validate(), config.ErrMissingStorageAccount)

	cfg.Values.Storage.AccountName = "autoflowstorage9876"
	require.ErrorIs(t, cfg.Validate(), config.ErrMissingPrecheckURL)

	cfg.Values.Precheck.URL = "https://precheck.example.com/precheck"
	require.NoError(t, cfg.Validate())
}

func TestSecureString_Elided(t *testing.T) {
	s := config.SecureString("super-secret")
	require.Equal(t, "[SECRET]", s.String())
	require.Equal(t, "super-secret", s.SecureValue())

	text, err := s.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "[SECRET]", string(text))
}
