package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/datafactory/armdatafactory/v7"

	"github.com/autoflowhq/autoflow/pkg/provision"
)

type factoryEnsurer struct {
	clients *Clients
	pctx    *provision.Context
}

// FactoryEnsurer ensures the data factory itself exists.
func FactoryEnsurer(clients *Clients, pctx *provision.Context) provision.Ensurer {
	return &factoryEnsurer{clients: clients, pctx: pctx}
}

func (e *factoryEnsurer) Kind() string { return "data_factory" }

func (e *factoryEnsurer) Ensure(ctx context.Context) (provision.Status, error) {
	_, err := e.clients.Factories.Get(ctx, e.pctx.ResourceGroup, e.pctx.FactoryName, nil)
	if err == nil {
		return provision.StatusExists, nil
	}
	if !isNotFound(err) {
		return provision.StatusExists, fmt.Errorf("check data factory %s: %w", e.pctx.FactoryName, err)
	}

	_, err = e.clients.Factories.CreateOrUpdate(ctx, e.pctx.ResourceGroup, e.pctx.FactoryName,
		armdatafactory.Factory{
			Location: to.Ptr(e.pctx.Location),
		}, nil)
	if err != nil {
		return provision.StatusExists, fmt.Errorf("create data factory %s: %w", e.pctx.FactoryName, err)
	}
	return provision.StatusCreated, nil
}

// FactoryObjects creates the factory-level pipeline-support objects.  It
// satisfies the fixer's FactoryObjects interface.
type FactoryObjects struct {
	clients *Clients
}

func NewFactoryObjects(clients *Clients) *FactoryObjects {
	return &FactoryObjects{clients: clients}
}

func (f *FactoryObjects) linkedServiceExists(ctx context.Context, pctx *provision.Context, name string) (bool, error) {
	_, err := f.clients.LinkedServices.Get(ctx, pctx.ResourceGroup, pctx.FactoryName, name, nil)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("check linked service %s: %w", name, err)
}

func (f *FactoryObjects) datasetExists(ctx context.Context, pctx *provision.Context, name string) (bool, error) {
	_, err := f.clients.Datasets.Get(ctx, pctx.ResourceGroup, pctx.FactoryName, name, nil)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("check dataset %s: %w", name, err)
}

// EnsureBlobLinkedService creates the Azure Blob Storage linked service with
// the account connection string wrapped as a SecureString.
func (f *FactoryObjects) EnsureBlobLinkedService(ctx context.Context, pctx *provision.Context) (provision.Status, error) {
	exists, err := f.linkedServiceExists(ctx, pctx, pctx.BlobLinkedService)
	if err != nil || exists {
		return provision.StatusExists, err
	}

	resource := armdatafactory.LinkedServiceResource{
		Properties: &armdatafactory.AzureBlobStorageLinkedService{
			TypeProperties: &armdatafactory.AzureBlobStorageLinkedServiceTypeProperties{
				ConnectionString: &armdatafactory.SecureString{
					Value: to.Ptr(pctx.BlobConnectionString()),
				},
			},
		},
	}
	_, err = f.clients.LinkedServices.CreateOrUpdate(ctx, pctx.ResourceGroup, pctx.FactoryName,
		pctx.BlobLinkedService, resource, nil)
	if err != nil {
		return provision.StatusExists, fmt.Errorf("create linked service %s: %w", pctx.BlobLinkedService, err)
	}
	return provision.StatusCreated, nil
}

func (f *FactoryObjects) EnsureSnowflakeLinkedService(ctx context.Context, pctx *provision.Context) (provision.Status, error) {
	exists, err := f.linkedServiceExists(ctx, pctx, pctx.SnowflakeLinkedService)
	if err != nil || exists {
		return provision.StatusExists, err
	}

	resource := armdatafactory.LinkedServiceResource{
		Properties: &armdatafactory.SnowflakeLinkedService{
			TypeProperties: &armdatafactory.SnowflakeLinkedServiceTypeProperties{
				ConnectionString: &armdatafactory.SecureString{
					Value: to.Ptr(pctx.SnowflakeConnectionString),
				},
			},
		},
	}
	_, err = f.clients.LinkedServices.CreateOrUpdate(ctx, pctx.ResourceGroup, pctx.FactoryName,
		pctx.SnowflakeLinkedService, resource, nil)
	if err != nil {
		return provision.StatusExists, fmt.Errorf("create linked service %s: %w", pctx.SnowflakeLinkedService, err)
	}
	return provision.StatusCreated, nil
}

// EnsureSourceDataset creates the DelimitedText dataset pointing at the
// source blob, bound to the blob linked service.
func (f *FactoryObjects) EnsureSourceDataset(ctx context.Context, pctx *provision.Context) (provision.Status, error) {
	exists, err := f.datasetExists(ctx, pctx, pctx.SourceDataset)
	if err != nil || exists {
		return provision.StatusExists, err
	}

	resource := armdatafactory.DatasetResource{
		Properties: &armdatafactory.DelimitedTextDataset{
			LinkedServiceName: &armdatafactory.LinkedServiceReference{
				ReferenceName: to.Ptr(pctx.BlobLinkedService),
				Type:          to.Ptr(armdatafactory.LinkedServiceReferenceTypeLinkedServiceReference),
			},
			TypeProperties: &armdatafactory.DelimitedTextDatasetTypeProperties{
				Location: &armdatafactory.AzureBlobStorageLocation{
					Container: pctx.Container,
					FileName:  pctx.BlobName,
				},
				ColumnDelimiter:  ",",
				FirstRowAsHeader: true,
			},
		},
	}
	_, err = f.clients.Datasets.CreateOrUpdate(ctx, pctx.ResourceGroup, pctx.FactoryName,
		pctx.SourceDataset, resource, nil)
	if err != nil {
		return provision.StatusExists, fmt.Errorf("create dataset %s: %w", pctx.SourceDataset, err)
	}
	return provision.StatusCreated, nil
}

// EnsureSinkDataset creates the Snowflake table dataset bound to the
// Snowflake linked service.
func (f *FactoryObjects) EnsureSinkDataset(ctx context.Context, pctx *provision.Context) (provision.Status, error) {
	exists, err := f.datasetExists(ctx, pctx, pctx.SinkDataset)
	if err != nil || exists {
		return provision.StatusExists, err
	}

	resource := armdatafactory.DatasetResource{
		Properties: &armdatafactory.SnowflakeDataset{
			LinkedServiceName: &armdatafactory.LinkedServiceReference{
				ReferenceName: to.Ptr(pctx.SnowflakeLinkedService),
				Type:          to.Ptr(armdatafactory.LinkedServiceReferenceTypeLinkedServiceReference),
			},
			TypeProperties: &armdatafactory.SnowflakeDatasetTypeProperties{
				Schema: pctx.SnowflakeSchema,
				Table:  pctx.SnowflakeTable,
			},
		},
	}
	_, err = f.clients.Datasets.CreateOrUpdate(ctx, pctx.ResourceGroup, pctx.FactoryName,
		pctx.SinkDataset, resource, nil)
	if err != nil {
		return provision.StatusExists, fmt.Errorf("create dataset %s: %w", pctx.SinkDataset, err)
	}
	return provision.StatusCreated, nil
}
