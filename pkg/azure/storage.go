package azure

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/storage/armstorage"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/service"

	"github.com/autoflowhq/autoflow/pkg/provision"
)

const URLTemplate = "https://%s.blob.core.windows.net/"

var ErrNoAccountKeys = errors.New("storage account returned no keys")

// sampleCSV is uploaded as the source blob when no local source file is
// configured, so the pipeline has something to copy on a fresh environment.
const sampleCSV = `date,region,amount
2024-01-01,EMEA,1200.50
2024-01-02,EMEA,840.00
2024-01-03,AMER,2310.75
`

type storageAccountEnsurer struct {
	clients *Clients
	pctx    *provision.Context
}

// StorageAccountEnsurer ensures the storage account exists (Standard_LRS,
// StorageV2) and then fetches an access key into the provisioning context.
// The key fetch happens on both the exists and the created paths - later
// steps and the precheck payload need it either way.
func StorageAccountEnsurer(clients *Clients, pctx *provision.Context) provision.Ensurer {
	return &storageAccountEnsurer{clients: clients, pctx: pctx}
}

func (e *storageAccountEnsurer) Kind() string { return "storage_account" }

func (e *storageAccountEnsurer) Ensure(ctx context.Context) (provision.Status, error) {
	status := provision.StatusExists
	_, err := e.clients.Accounts.GetProperties(ctx, e.pctx.ResourceGroup, e.pctx.StorageAccountName, nil)
	switch {
	case isNotFound(err):
		poller, err := e.clients.Accounts.BeginCreate(ctx, e.pctx.ResourceGroup, e.pctx.StorageAccountName,
			armstorage.AccountCreateParameters{
				Kind:     to.Ptr(armstorage.KindStorageV2),
				Location: to.Ptr(e.pctx.Location),
				SKU: &armstorage.SKU{
					Name: to.Ptr(armstorage.SKUNameStandardLRS),
				},
			}, nil)
		if err != nil {
			return status, fmt.Errorf("create storage account %s: %w", e.pctx.StorageAccountName, err)
		}
		if _, err := poller.PollUntilDone(ctx, nil); err != nil {
			return status, fmt.Errorf("create storage account %s: %w", e.pctx.StorageAccountName, err)
		}
		status = provision.StatusCreated
	case err != nil:
		return status, fmt.Errorf("check storage account %s: %w", e.pctx.StorageAccountName, err)
	}

	if e.pctx.StorageAccountKey == "" {
		key, err := e.fetchAccountKey(ctx)
		if err != nil {
			return status, err
		}
		e.pctx.StorageAccountKey = key
	}
	return status, nil
}

func (e *storageAccountEnsurer) fetchAccountKey(ctx context.Context) (string, error) {
	keys, err := e.clients.Accounts.ListKeys(ctx, e.pctx.ResourceGroup, e.pctx.StorageAccountName, nil)
	if err != nil {
		return "", fmt.Errorf("list keys for %s: %w", e.pctx.StorageAccountName, err)
	}
	for _, key := range keys.Keys {
		if key != nil && key.Value != nil {
			return *key.Value, nil
		}
	}
	return "", fmt.Errorf("%s: %w", e.pctx.StorageAccountName, ErrNoAccountKeys)
}

// buildServiceClient builds the data-plane client with the account key the
// storage account ensurer fetched.  It cannot be built earlier: on a fresh
// environment the key does not exist before the account does.
func buildServiceClient(pctx *provision.Context) (*service.Client, error) {
	url := fmt.Sprintf(URLTemplate, pctx.StorageAccountName)
	cred, err := service.NewSharedKeyCredential(pctx.StorageAccountName, pctx.StorageAccountKey)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", err)
	}
	return service.NewClientWithSharedKeyCredential(url, cred, nil)
}

type containerEnsurer struct {
	pctx *provision.Context
}

func ContainerEnsurer(pctx *provision.Context) provision.Ensurer {
	return &containerEnsurer{pctx: pctx}
}

func (e *containerEnsurer) Kind() string { return "blob_container" }

func (e *containerEnsurer) Ensure(ctx context.Context) (provision.Status, error) {
	svc, err := buildServiceClient(e.pctx)
	if err != nil {
		return provision.StatusExists, err
	}
	containerClient := svc.NewContainerClient(e.pctx.Container)
	_, err = containerClient.GetProperties(ctx, nil)
	if err == nil {
		return provision.StatusExists, nil
	}
	if !bloberror.HasCode(err, bloberror.ContainerNotFound) {
		return provision.StatusExists, fmt.Errorf("check container %s: %w", e.pctx.Container, err)
	}

	if _, err := containerClient.Create(ctx, nil); err != nil {
		return provision.StatusExists, fmt.Errorf("create container %s: %w", e.pctx.Container, err)
	}
	return provision.StatusCreated, nil
}

type blobEnsurer struct {
	pctx *provision.Context
}

// BlobEnsurer uploads the source blob when absent.  The content comes from
// the configured local source file; without one a small deterministic sample
// CSV is used.
func BlobEnsurer(pctx *provision.Context) provision.Ensurer {
	return &blobEnsurer{pctx: pctx}
}

func (e *blobEnsurer) Kind() string { return "blob" }

func (e *blobEnsurer) Ensure(ctx context.Context) (provision.Status, error) {
	svc, err := buildServiceClient(e.pctx)
	if err != nil {
		return provision.StatusExists, err
	}
	blobClient := svc.NewContainerClient(e.pctx.Container).NewBlockBlobClient(e.pctx.BlobName)
	_, err = blobClient.GetProperties(ctx, nil)
	if err == nil {
		return provision.StatusExists, nil
	}
	if !bloberror.HasCode(err, bloberror.BlobNotFound) {
		return provision.StatusExists, fmt.Errorf("check blob %s: %w", e.pctx.BlobName, err)
	}

	content, err := e.sourceContent()
	if err != nil {
		return provision.StatusExists, err
	}
	if _, err := blobClient.UploadBuffer(ctx, content, nil); err != nil {
		return provision.StatusExists, fmt.Errorf("upload blob %s: %w", e.pctx.BlobName, err)
	}
	return provision.StatusCreated, nil
}

func (e *blobEnsurer) sourceContent() ([]byte, error) {
	if e.pctx.SourceFile == "" {
		return []byte(sampleCSV), nil
	}
	content, err := os.ReadFile(e.pctx.SourceFile)
	if err != nil {
		return nil, fmt.Errorf("read source file %s: %w", e.pctx.SourceFile, err)
	}
	return content, nil
}
