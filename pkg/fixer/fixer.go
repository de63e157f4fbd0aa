// Package fixer translates precheck missing-item tags into idempotent
// create-if-absent calls against the data factory.
package fixer

import (
	"context"

	"github.com/hashicorp/go-multierror"

	"github.com/autoflowhq/autoflow/pkg/logging"
	"github.com/autoflowhq/autoflow/pkg/precheck"
	"github.com/autoflowhq/autoflow/pkg/provision"
)

// FactoryObjects creates the pipeline-support objects inside the data
// factory.  Each call confirms the object exists or creates it; repeat calls
// perform no mutation.
type FactoryObjects interface {
	EnsureBlobLinkedService(ctx context.Context, pctx *provision.Context) (provision.Status, error)
	EnsureSnowflakeLinkedService(ctx context.Context, pctx *provision.Context) (provision.Status, error)
	EnsureSourceDataset(ctx context.Context, pctx *provision.Context) (provision.Status, error)
	EnsureSinkDataset(ctx context.Context, pctx *provision.Context) (provision.Status, error)
}

type Fixer struct {
	objects FactoryObjects
	log     logging.Logger
}

func New(objects FactoryObjects, log logging.Logger) *Fixer {
	return &Fixer{
		objects: objects,
		log:     log,
	}
}

// Apply dispatches every missing item to its creator.  Unknown tags are
// skipped with a notice so a newer precheck service does not break older
// tools.  A failing item does not stop the remaining items; all failures are
// combined into the returned error.
func (f *Fixer) Apply(ctx context.Context, pctx *provision.Context, missing []precheck.MissingItem) error {
	var merr *multierror.Error
	for _, item := range missing {
		log := f.log.WithField(logging.ItemFieldKey, item.Item)
		var (
			status provision.Status
			err    error
		)
		switch item.Kind() {
		case precheck.ItemKindBlobLinkedService:
			status, err = f.objects.EnsureBlobLinkedService(ctx, pctx)
		case precheck.ItemKindSnowflakeLinkedService:
			status, err = f.objects.EnsureSnowflakeLinkedService(ctx, pctx)
		case precheck.ItemKindSourceDataset:
			status, err = f.objects.EnsureSourceDataset(ctx, pctx)
		case precheck.ItemKindSinkDataset:
			status, err = f.objects.EnsureSinkDataset(ctx, pctx)
		default:
			log.Warn("unknown missing item, skipped")
			continue
		}
		if err != nil {
			log.WithError(err).Error("fix missing item")
			merr = multierror.Append(merr, err)
			continue
		}
		log.WithField("status", status.String()).Info("fix missing item")
	}
	return merr.ErrorOrNil()
}
