package provision

import (
	"github.com/autoflowhq/autoflow/pkg/config"
)

// Context is the flat set of identifiers describing the target Azure
// resources and pipeline objects.  It is built once from configuration, is
// immutable afterwards except for StorageAccountKey (fetched right after the
// storage account is ensured), and is serialized verbatim as the "context"
// member of the precheck request payload.  The JSON field names are part of
// the precheck service contract.
type Context struct {
	SubscriptionID     string `json:"subscription_id"`
	ResourceGroup      string `json:"resource_group"`
	FactoryName        string `json:"factory_name"`
	Location           string `json:"-"`
	StorageAccountName string `json:"storage_account_name"`
	StorageAccountKey  string `json:"storage_account_key,omitempty"`
	Container          string `json:"container"`
	BlobName           string `json:"blob_name"`
	SourceFile         string `json:"-"`

	BlobLinkedService      string `json:"blob_ls_name"`
	SnowflakeLinkedService string `json:"snowflake_ls_name"`
	SourceDataset          string `json:"source_dataset_name"`
	SinkDataset            string `json:"sink_dataset_name"`

	SnowflakeConnectionString string `json:"snowflake_connection_string,omitempty"`
	SnowflakeSchema           string `json:"snowflake_schema"`
	SnowflakeTable            string `json:"snowflake_table"`
}

func NewContext(cfg *config.Config) *Context {
	v := cfg.Values
	return &Context{
		SubscriptionID:            v.Azure.SubscriptionID,
		ResourceGroup:             v.Azure.ResourceGroup,
		FactoryName:               v.Azure.FactoryName,
		Location:                  v.Azure.Location,
		StorageAccountName:        v.Storage.AccountName,
		StorageAccountKey:         v.Storage.AccountKey.SecureValue(),
		Container:                 v.Storage.Container,
		BlobName:                  v.Storage.BlobName,
		SourceFile:                v.Storage.SourceFile,
		BlobLinkedService:         v.Factory.BlobLinkedService,
		SnowflakeLinkedService:    v.Factory.SnowflakeLinkedService,
		SourceDataset:             v.Factory.SourceDataset,
		SinkDataset:               v.Factory.SinkDataset,
		SnowflakeConnectionString: v.Snowflake.ConnectionString.SecureValue(),
		SnowflakeSchema:           v.Snowflake.Schema,
		SnowflakeTable:            v.Snowflake.Table,
	}
}

// BlobConnectionString renders the storage connection string the blob linked
// service is created with.  Valid only after the storage account key was
// fetched.
func (c *Context) BlobConnectionString() string {
	return "DefaultEndpointsProtocol=https;AccountName=" + c.StorageAccountName +
		";AccountKey=" + c.StorageAccountKey + ";EndpointSuffix=core.windows.net"
}
