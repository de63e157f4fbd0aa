package precheck_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/require"

	"github.com/autoflowhq/autoflow/pkg/logging"
	"github.com/autoflowhq/autoflow/pkg/precheck"
	"github.com/autoflowhq/autoflow/pkg/provision"
)

func testRetriesCfg() precheck.RetriesCfg {
	return precheck.RetriesCfg{
		MaxAttempts:     2,
		MinWaitInterval: time.Millisecond,
		MaxWaitInterval: 5 * time.Millisecond,
		Timeout:         5 * time.Second,
	}
}

func testProvisionContext() *provision.Context {
	return &provision.Context{
		SubscriptionID:         "00000000-0000-0000-0000-000000000001",
		ResourceGroup:          "AutoFlowRG",
		FactoryName:            "AutoFlowADF",
		StorageAccountName:     "autoflowstorage9876",
		Container:              "adf-container",
		BlobName:               "sales.csv",
		BlobLinkedService:      "AzureBlobStorageLinkedService",
		SnowflakeLinkedService: "Snowflake_LS",
		SourceDataset:          "SourceDataset",
		SinkDataset:            "SinkDataset",
		SnowflakeSchema:        "finance",
		SnowflakeTable:         "daily_sales",
	}
}

func TestClient_Check(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{
			"status": "ok",
			"summary": {
				"present": ["resource_group", "data_factory"],
				"missing": [
					{"item": "blob_linked_service", "how_to_fix": "create it"},
					{"item": "source_dataset"}
				],
				"errors": []
			}
		}`)
	}))
	defer ts.Close()

	client := precheck.NewClient(ts.URL, testRetriesCfg(), logging.Default())
	report, err := client.Check(context.Background(), testProvisionContext())
	require.NoError(t, err)
	require.False(t, report.Converged())
	require.Equal(t, []string{"resource_group", "data_factory"}, report.Summary.Present)
	require.Len(t, report.Summary.Missing, 2)
	require.Equal(t, precheck.ItemKindBlobLinkedService, report.Summary.Missing[0].Kind())
	require.Equal(t, precheck.ItemKindSourceDataset, report.Summary.Missing[1].Kind())
}

func TestClient_CheckRetriesOnServerError(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `{"summary":{"present":[],"missing":[],"errors":[]}}`)
	}))
	defer ts.Close()

	client := precheck.NewClient(ts.URL, testRetriesCfg(), logging.Default())
	report, err := client.Check(context.Background(), testProvisionContext())
	require.NoError(t, err)
	require.True(t, report.Converged())
	require.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestClient_CheckEmptyBodyFails(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client := precheck.NewClient(ts.URL, testRetriesCfg(), logging.Default())
	_, err := client.Check(context.Background(), testProvisionContext())
	require.ErrorIs(t, err, precheck.ErrEmptyResponse)
}

func TestClient_CheckNonJSONBodyFails(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "<html>definitely not json</html>")
	}))
	defer ts.Close()

	client := precheck.NewClient(ts.URL, testRetriesCfg(), logging.Default())
	_, err := client.Check(context.Background(), testProvisionContext())
	require.Error(t, err)
	require.False(t, errors.Is(err, precheck.ErrEmptyResponse))
}

func TestClient_CheckErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	client := precheck.NewClient(ts.URL, testRetriesCfg(), logging.Default())
	_, err := client.Check(context.Background(), testProvisionContext())
	require.ErrorIs(t, err, precheck.ErrRequestFailed)
}

// the payload must round-trip the operator supplied identifiers verbatim
// under the "context" member - the field names are the service contract.
func TestClient_CheckPayloadRoundTrip(t *testing.T) {
	var received map[string]json.RawMessage
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NotEmpty(t, r.Header.Get("X-Request-ID"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_, _ = io.WriteString(w, `{"summary":{"present":[],"missing":[],"errors":[]}}`)
	}))
	defer ts.Close()

	pctx := testProvisionContext()
	client := precheck.NewClient(ts.URL, testRetriesCfg(), logging.Default())
	_, err := client.Check(context.Background(), pctx)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(received["context"], &got))
	expected := map[string]interface{}{
		"subscription_id":      pctx.SubscriptionID,
		"resource_group":       pctx.ResourceGroup,
		"factory_name":         pctx.FactoryName,
		"storage_account_name": pctx.StorageAccountName,
		"container":            pctx.Container,
		"blob_name":            pctx.BlobName,
		"blob_ls_name":         pctx.BlobLinkedService,
		"snowflake_ls_name":    pctx.SnowflakeLinkedService,
		"source_dataset_name":  pctx.SourceDataset,
		"sink_dataset_name":    pctx.SinkDataset,
		"snowflake_schema":     pctx.SnowflakeSchema,
		"snowflake_table":      pctx.SnowflakeTable,
	}
	if diff := deep.Equal(got, expected); diff != nil {
		t.Error("unexpected precheck context payload:", diff)
	}
}

func TestItemKindFromTag(t *testing.T) {
	cases := []struct {
		tag      string
		expected precheck.ItemKind
	}{
		{"blob_linked_service", precheck.ItemKindBlobLinkedService},
		{"snowflake_linked_service", precheck.ItemKindSnowflakeLinkedService},
		{"source_dataset", precheck.ItemKindSourceDataset},
		{"sink_dataset", precheck.ItemKindSinkDataset},
		{"future_item", precheck.ItemKindUnknown},
		{"", precheck.ItemKindUnknown},
	}
	for _, c := range cases {
		t.Run(c.tag, func(t *testing.T) {
			require.Equal(t, c.expected, precheck.ItemKindFromTag(c.tag))
		})
	}
}
