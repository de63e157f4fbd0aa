package provision_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/autoflowhq/autoflow/pkg/logging"
	"github.com/autoflowhq/autoflow/pkg/provision"
)

type fakeEnsurer struct {
	kind      string
	exists    bool
	creations int
	ensures   int
	err       error
}

func (f *fakeEnsurer) Kind() string { return f.kind }

func (f *fakeEnsurer) Ensure(context.Context) (provision.Status, error) {
	f.ensures++
	if f.err != nil {
		return provision.StatusExists, f.err
	}
	if f.exists {
		return provision.StatusExists, nil
	}
	f.exists = true
	f.creations++
	return provision.StatusCreated, nil
}

func TestReconciler_Run(t *testing.T) {
	ensurers := []*fakeEnsurer{
		{kind: "resource_group"},
		{kind: "data_factory"},
		{kind: "storage_account"},
	}
	r := provision.NewReconciler(logging.Default(),
		ensurers[0], ensurers[1], ensurers[2])

	require.NoError(t, r.Run(context.Background()))
	for _, e := range ensurers {
		require.Equal(t, 1, e.creations, e.kind)
	}
}

// running the whole flow twice performs at most one creation per resource
func TestReconciler_RunTwiceIdempotent(t *testing.T) {
	ensurers := []*fakeEnsurer{
		{kind: "resource_group"},
		{kind: "blob_container"},
	}
	r := provision.NewReconciler(logging.Default(), ensurers[0], ensurers[1])

	require.NoError(t, r.Run(context.Background()))
	require.NoError(t, r.Run(context.Background()))
	for _, e := range ensurers {
		require.Equal(t, 2, e.ensures, e.kind)
		require.Equal(t, 1, e.creations, e.kind)
	}
}

func TestReconciler_HaltsOnFirstFailure(t *testing.T) {
	errDenied := errors.New("authorization failed")
	first := &fakeEnsurer{kind: "resource_group"}
	second := &fakeEnsurer{kind: "storage_account", err: errDenied}
	third := &fakeEnsurer{kind: "blob_container"}
	r := provision.NewReconciler(logging.Default(), first, second, third)

	err := r.Run(context.Background())
	require.ErrorIs(t, err, errDenied)
	require.Contains(t, err.Error(), "storage_account")
	// nothing runs past the failing resource
	require.Equal(t, 0, third.ensures)
}

func TestStatusString(t *testing.T) {
	require.Equal(t, "exists", provision.StatusExists.String())
	require.Equal(t, "created", provision.StatusCreated.String())
}
