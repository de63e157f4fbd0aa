package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

var (
	ErrBadConfiguration      = errors.New("bad configuration")
	ErrMissingSubscriptionID = fmt.Errorf("%w: azure.subscription_id cannot be empty", ErrBadConfiguration)
	ErrMissingStorageAccount = fmt.Errorf("%w: storage.account_name cannot be empty", ErrBadConfiguration)
	ErrMissingPrecheckURL    = fmt.Errorf("%w: precheck.url cannot be empty", ErrBadConfiguration)
)

type Configuration struct {
	Logging struct {
		Format        string  `mapstructure:"format"`
		Level         string  `mapstructure:"level"`
		Output        Strings `mapstructure:"output"`
		FileMaxSizeMB int     `mapstructure:"file_max_size_mb"`
		FilesKeep     int     `mapstructure:"files_keep"`
	} `mapstructure:"logging"`

	Azure struct {
		SubscriptionID string `mapstructure:"subscription_id"`
		ResourceGroup  string `mapstructure:"resource_group"`
		FactoryName    string `mapstructure:"factory_name"`
		Location       string `mapstructure:"location"`
	} `mapstructure:"azure"`

	Storage struct {
		AccountName string       `mapstructure:"account_name"`
		AccountKey  SecureString `mapstructure:"account_key"`
		Container   string       `mapstructure:"container"`
		BlobName    string       `mapstructure:"blob_name"`
		SourceFile  string       `mapstructure:"source_file"`
	} `mapstructure:"storage"`

	Factory struct {
		BlobLinkedService      string `mapstructure:"blob_linked_service"`
		SnowflakeLinkedService string `mapstructure:"snowflake_linked_service"`
		SourceDataset          string `mapstructure:"source_dataset"`
		SinkDataset            string `mapstructure:"sink_dataset"`
	} `mapstructure:"factory"`

	Snowflake struct {
		ConnectionString SecureString `mapstructure:"connection_string"`
		Schema           string       `mapstructure:"schema"`
		Table            string       `mapstructure:"table"`
	} `mapstructure:"snowflake"`

	Precheck struct {
		URL          string        `mapstructure:"url"`
		MaxRetries   int           `mapstructure:"max_retries"`
		RetryWaitMin time.Duration `mapstructure:"retry_wait_min"`
		RetryWaitMax time.Duration `mapstructure:"retry_wait_max"`
		Timeout      time.Duration `mapstructure:"timeout"`
	} `mapstructure:"precheck"`
}

type Config struct {
	Values Configuration
}

func NewConfig() (*Config, error) {
	setDefaults()
	bindEnvAliases()
	setupLogger()

	c := &Config{}
	err := viper.UnmarshalExact(&c.Values, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			DecodeStrings, mapstructure.StringToTimeDurationHookFunc())))
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Validate verifies the fields every provisioning run requires.  Names that
// have documented defaults are never empty by this point.
func (c *Config) Validate() error {
	if c.Values.Azure.SubscriptionID == "" {
		return ErrMissingSubscriptionID
	}
	if c.Values.Storage.AccountName == "" {
		return ErrMissingStorageAccount
	}
	if c.Values.Precheck.URL == "" {
		return ErrMissingPrecheckURL
	}
	return nil
}
