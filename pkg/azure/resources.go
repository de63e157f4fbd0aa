package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"

	"github.com/autoflowhq/autoflow/pkg/provision"
)

type resourceGroupEnsurer struct {
	clients *Clients
	pctx    *provision.Context
}

// ResourceGroupEnsurer ensures the target resource group exists, creating it
// in the configured location when absent.
func ResourceGroupEnsurer(clients *Clients, pctx *provision.Context) provision.Ensurer {
	return &resourceGroupEnsurer{clients: clients, pctx: pctx}
}

func (e *resourceGroupEnsurer) Kind() string { return "resource_group" }

func (e *resourceGroupEnsurer) Ensure(ctx context.Context) (provision.Status, error) {
	existence, err := e.clients.ResourceGroups.CheckExistence(ctx, e.pctx.ResourceGroup, nil)
	if err != nil {
		return provision.StatusExists, fmt.Errorf("check resource group %s: %w", e.pctx.ResourceGroup, err)
	}
	if existence.Success {
		return provision.StatusExists, nil
	}

	_, err = e.clients.ResourceGroups.CreateOrUpdate(ctx, e.pctx.ResourceGroup, armresources.ResourceGroup{
		Location: to.Ptr(e.pctx.Location),
	}, nil)
	if err != nil {
		return provision.StatusExists, fmt.Errorf("create resource group %s: %w", e.pctx.ResourceGroup, err)
	}
	return provision.StatusCreated, nil
}
