// Package azure wraps the Azure SDK control-plane and data-plane clients the
// provisioning flow needs.  Every helper is an idempotent ensure-exists:
// "exists" performs no mutation, "created" issues exactly one creation call.
package azure

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/datafactory/armdatafactory/v7"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armsubscriptions"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/storage/armstorage"
)

var ErrSubscriptionNotFound = errors.New("subscription not visible to credential")

// Clients bundles the control-plane clients, all built from a single
// DefaultAzureCredential chain (environment, managed identity, CLI).
type Clients struct {
	credential     azcore.TokenCredential
	subscriptionID string

	Subscriptions  *armsubscriptions.Client
	ResourceGroups *armresources.ResourceGroupsClient
	Accounts       *armstorage.AccountsClient
	Factories      *armdatafactory.FactoriesClient
	LinkedServices *armdatafactory.LinkedServicesClient
	Datasets       *armdatafactory.DatasetsClient
}

func NewClients(subscriptionID string) (*Clients, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("missing credentials: %w", err)
	}

	subscriptions, err := armsubscriptions.NewClient(cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create subscriptions client: %w", err)
	}
	resourceGroups, err := armresources.NewResourceGroupsClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create resource groups client: %w", err)
	}
	accounts, err := armstorage.NewAccountsClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create storage accounts client: %w", err)
	}
	factories, err := armdatafactory.NewFactoriesClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create factories client: %w", err)
	}
	linkedServices, err := armdatafactory.NewLinkedServicesClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create linked services client: %w", err)
	}
	datasets, err := armdatafactory.NewDatasetsClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create datasets client: %w", err)
	}

	return &Clients{
		credential:     cred,
		subscriptionID: subscriptionID,
		Subscriptions:  subscriptions,
		ResourceGroups: resourceGroups,
		Accounts:       accounts,
		Factories:      factories,
		LinkedServices: linkedServices,
		Datasets:       datasets,
	}, nil
}

// VerifySubscription is the preflight check: it both exercises the credential
// chain and confirms the target subscription is visible to it.
func (c *Clients) VerifySubscription(ctx context.Context) error {
	_, err := c.Subscriptions.Get(ctx, c.subscriptionID, nil)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%s: %w", c.subscriptionID, ErrSubscriptionNotFound)
		}
		return fmt.Errorf("verify subscription %s: %w", c.subscriptionID, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
}
