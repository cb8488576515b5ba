package ipfs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"olasagents-backend/lib/restyutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const testDocument = `{
	"name": "valory/trader:0.1.0",
	"description": "Trader agent",
	"code_uri": "ipfs://bafybei",
	"image": "ipfs://bafyimage",
	"attributes": [
		{"trait_type": "version", "value": "0.1.0"},
		{"trait_type": "threshold", "value": 3}
	]
}`

func newTestClient(t testing.TB, handler http.HandlerFunc) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientOptions{GatewayUrl: server.URL + "/ipfs/", Timeout: 5 * time.Second})
	client.now = func() time.Time {
		return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return client
}

func TestFetch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ipfs/Qm123" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(testDocument))
	})

	meta, err := client.Fetch(context.Background(), " Qm123 ")
	require.NoError(t, err)

	expected := AgentMetadata{
		Hash:        "Qm123",
		Name:        "valory/trader:0.1.0",
		Description: "Trader agent",
		CodeUri:     "ipfs://bafybei",
		Image:       "ipfs://bafyimage",
		Attributes: []Attribute{
			{TraitType: "version", Value: "0.1.0"},
			{TraitType: "threshold", Value: "3"},
		},
		FetchedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	if diff := cmp.Diff(expected, meta); diff != "" {
		t.Fatalf("metadata mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchNoHash(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.Fetch(context.Background(), "N/A")
	require.ErrorIs(t, err, ErrNoHash)
	_, err = client.Fetch(context.Background(), "")
	require.ErrorIs(t, err, ErrNoHash)
}

func TestFetchStatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	_, err := client.Fetch(context.Background(), "QmMissing")
	require.Error(t, err)
	require.Contains(t, err.Error(), "404")
}

func TestFetchInvalidJson(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway error</html>"))
	})

	_, err := client.Fetch(context.Background(), "QmBroken")
	require.Error(t, err)
}

func TestFetchWritesExchange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(testDocument))
	}))
	t.Cleanup(server.Close)

	dir := filepath.Join(t.TempDir(), "ipfs")
	output, err := restyutil.NewFilesystemOutput(dir)
	require.NoError(t, err)

	client := NewClient(ClientOptions{GatewayUrl: server.URL, Output: output})
	meta, err := client.Fetch(context.Background(), "Qm123")
	require.NoError(t, err)
	require.Equal(t, "valory/trader:0.1.0", meta.Name)

	contents, err := os.ReadFile(filepath.Join(dir, "1"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(contents), "---- REQUEST ----\n\nGET "))
	require.True(t, strings.Contains(string(contents), "/Qm123"))
	require.True(t, strings.Contains(string(contents), "Trader agent"))
}
