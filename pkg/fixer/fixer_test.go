package fixer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/autoflowhq/autoflow/pkg/fixer"
	"github.com/autoflowhq/autoflow/pkg/logging"
	"github.com/autoflowhq/autoflow/pkg/precheck"
	"github.com/autoflowhq/autoflow/pkg/provision"
)

type fakeFactoryObjects struct {
	calls   []string
	failOn  map[string]error
	lastCtx *provision.Context
}

func (f *fakeFactoryObjects) ensure(name string, pctx *provision.Context) (provision.Status, error) {
	f.calls = append(f.calls, name)
	f.lastCtx = pctx
	if err := f.failOn[name]; err != nil {
		return provision.StatusExists, err
	}
	return provision.StatusCreated, nil
}

func (f *fakeFactoryObjects) EnsureBlobLinkedService(_ context.Context, pctx *provision.Context) (provision.Status, error) {
	return f.ensure("blob_linked_service", pctx)
}

func (f *fakeFactoryObjects) EnsureSnowflakeLinkedService(_ context.Context, pctx *provision.Context) (provision.Status, error) {
	return f.ensure("snowflake_linked_service", pctx)
}

func (f *fakeFactoryObjects) EnsureSourceDataset(_ context.Context, pctx *provision.Context) (provision.Status, error) {
	return f.ensure("source_dataset", pctx)
}

func (f *fakeFactoryObjects) EnsureSinkDataset(_ context.Context, pctx *provision.Context) (provision.Status, error) {
	return f.ensure("sink_dataset", pctx)
}

func missing(tags ...string) []precheck.MissingItem {
	items := make([]precheck.MissingItem, 0, len(tags))
	for _, tag := range tags {
		items = append(items, precheck.MissingItem{Item: tag})
	}
	return items
}

func TestFixer_NothingMissing(t *testing.T) {
	objects := &fakeFactoryObjects{}
	f := fixer.New(objects, logging.Default())

	err := f.Apply(context.Background(), &provision.Context{}, nil)
	require.NoError(t, err)
	require.Empty(t, objects.calls)
}

func TestFixer_SingleSourceDataset(t *testing.T) {
	objects := &fakeFactoryObjects{}
	f := fixer.New(objects, logging.Default())

	pctx := &provision.Context{
		BlobLinkedService: "AzureBlobStorageLinkedService",
		BlobName:          "sales.csv",
	}
	err := f.Apply(context.Background(), pctx, missing("source_dataset"))
	require.NoError(t, err)
	require.Equal(t, []string{"source_dataset"}, objects.calls)
	// the creator receives the context the dataset is built from
	require.Equal(t, "AzureBlobStorageLinkedService", objects.lastCtx.BlobLinkedService)
	require.Equal(t, "sales.csv", objects.lastCtx.BlobName)
}

func TestFixer_UnknownTagSkipped(t *testing.T) {
	objects := &fakeFactoryObjects{}
	f := fixer.New(objects, logging.Default())

	err := f.Apply(context.Background(), &provision.Context{}, missing("future_item", "sink_dataset"))
	require.NoError(t, err)
	require.Equal(t, []string{"sink_dataset"}, objects.calls)
}

func TestFixer_AllKnownTags(t *testing.T) {
	objects := &fakeFactoryObjects{}
	f := fixer.New(objects, logging.Default())

	err := f.Apply(context.Background(), &provision.Context{},
		missing("blob_linked_service", "snowflake_linked_service", "source_dataset", "sink_dataset"))
	require.NoError(t, err)
	require.Equal(t, []string{
		"blob_linked_service",
		"snowflake_linked_service",
		"source_dataset",
		"sink_dataset",
	}, objects.calls)
}

func TestFixer_PartialFailureContinues(t *testing.T) {
	errBoom := errors.New("boom")
	objects := &fakeFactoryObjects{
		failOn: map[string]error{"blob_linked_service": errBoom},
	}
	f := fixer.New(objects, logging.Default())

	err := f.Apply(context.Background(), &provision.Context{},
		missing("blob_linked_service", "sink_dataset"))
	require.ErrorIs(t, err, errBoom)
	// the failing item does not mask the remaining ones
	require.Equal(t, []string{"blob_linked_service", "sink_dataset"}, objects.calls)
}
