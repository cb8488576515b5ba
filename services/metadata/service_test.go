package metadata

import (
	"context"
	"errors"
	"olasagents-backend/lib/scrapers/ipfs"
	"olasagents-backend/lib/testutil"
	"olasagents-backend/services/metadata/db"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type countingFetcher struct {
	calls int
	err   error
}

func (f *countingFetcher) Fetch(_ context.Context, hash string) (ipfs.AgentMetadata, error) {
	f.calls++
	if f.err != nil {
		return ipfs.AgentMetadata{}, f.err
	}
	return ipfs.AgentMetadata{
		Hash:        hash,
		Name:        "valory/trader",
		Description: "Trader agent",
		CodeUri:     "ipfs://bafybei",
		Attributes:  []ipfs.Attribute{{TraitType: "version", Value: "0.1.0"}},
		FetchedAt:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}, nil
}

func setupStore(t testing.TB) Store {
	res := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "metadata",
		DbSchema: db.Schema,
	})
	return NewStore(res.DB)
}

func setupService(t testing.TB, fetcher Fetcher) (Service, Store) {
	store := setupStore(t)
	return NewService(store, fetcher), store
}

func TestResolveCachesFetches(t *testing.T) {
	fetcher := &countingFetcher{}
	service, _ := setupService(t, fetcher)
	ctx := context.Background()

	first, err := service.Resolve(ctx, "Qm123")
	require.NoError(t, err)
	second, err := service.Resolve(ctx, " Qm123 ")
	require.NoError(t, err)

	require.Equal(t, 1, fetcher.calls)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("cached metadata differs (-fetched +cached):\n%s", diff)
	}
}

func TestResolveFetchError(t *testing.T) {
	boom := errors.New("gateway down")
	service, store := setupService(t, &countingFetcher{err: boom})

	_, err := service.Resolve(context.Background(), "Qm123")
	require.ErrorIs(t, err, boom)

	_, found, err := store.Get(context.Background(), "Qm123")
	require.NoError(t, err)
	require.False(t, found)
}

func TestStorePutOverwrites(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	meta := ipfs.AgentMetadata{Hash: "Qm1", Name: "old", FetchedAt: time.Unix(100, 0).UTC()}
	require.NoError(t, store.Put(ctx, meta))
	meta.Name = "new"
	require.NoError(t, store.Put(ctx, meta))

	got, found, err := store.Get(ctx, "Qm1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "new", got.Name)
	require.Nil(t, got.Attributes)
}
