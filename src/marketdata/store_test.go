package marketdata

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"papertrader/src/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMarketClient struct {
	fetchAssets func(ctx context.Context) ([]model.Asset, error)
	fetchChart  func(ctx context.Context, assetID string, days int) ([]model.PricePoint, error)
}

func (f *fakeMarketClient) FetchTopAssets(ctx context.Context) ([]model.Asset, error) {
	return f.fetchAssets(ctx)
}

func (f *fakeMarketClient) FetchMarketChart(ctx context.Context, assetID string, days int) ([]model.PricePoint, error) {
	return f.fetchChart(ctx, assetID, days)
}

func assetsFixture(ids ...string) []model.Asset {
	out := make([]model.Asset, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Asset{ID: id, Symbol: id[:3], Name: id, Price: 1})
	}
	return out
}

func TestNewStoreNeverLoaded(t *testing.T) {
	store := NewSnapshotStore(&fakeMarketClient{})

	assert.Equal(t, StatusNeverLoaded, store.Status())
	assert.Empty(t, store.Assets())
	assert.NoError(t, store.Err())
	assert.False(t, store.Loading())
}

func TestRefreshReplacesSnapshot(t *testing.T) {
	first := assetsFixture("bitcoin", "ethereum")
	second := assetsFixture("solana")

	calls := 0
	client := &fakeMarketClient{
		fetchAssets: func(context.Context) ([]model.Asset, error) {
			calls++
			if calls == 1 {
				return first, nil
			}
			return second, nil
		},
	}
	store := NewSnapshotStore(client)

	store.Refresh(context.Background())
	require.Equal(t, StatusLoaded, store.Status())
	require.Equal(t, first, store.Assets())
	require.NoError(t, store.Err())

	// the second refresh replaces the whole list, no merge
	store.Refresh(context.Background())
	require.Equal(t, second, store.Assets())
}

func TestRefreshFailureKeepsPreviousSnapshot(t *testing.T) {
	good := assetsFixture("bitcoin")
	fail := false
	client := &fakeMarketClient{
		fetchAssets: func(context.Context) ([]model.Asset, error) {
			if fail {
				return nil, errors.New("boom")
			}
			return good, nil
		},
	}
	store := NewSnapshotStore(client)

	store.Refresh(context.Background())
	require.Equal(t, StatusLoaded, store.Status())

	fail = true
	store.Refresh(context.Background())
	assert.Equal(t, StatusFailed, store.Status())
	assert.Error(t, store.Err())
	assert.Equal(t, good, store.Assets(), "stale data must be retained")
	assert.False(t, store.Loading())

	// a later success clears the recorded error
	fail = false
	store.Refresh(context.Background())
	assert.Equal(t, StatusLoaded, store.Status())
	assert.NoError(t, store.Err())
}

// TestSupersededRefreshDiscarded pins down the ordering guarantee: a refresh
// that completes after a newer one was issued must not overwrite the newer
// result.
func TestSupersededRefreshDiscarded(t *testing.T) {
	slow := assetsFixture("stale")
	fresh := assetsFixture("fresh")

	started := make(chan struct{})
	release := make(chan struct{})
	var call int32

	client := &fakeMarketClient{
		fetchAssets: func(context.Context) ([]model.Asset, error) {
			if atomic.AddInt32(&call, 1) == 1 {
				close(started)
				<-release
				return slow, nil
			}
			return fresh, nil
		},
	}
	store := NewSnapshotStore(client)

	done := make(chan struct{})
	go func() {
		store.Refresh(context.Background())
		close(done)
	}()

	<-started
	store.Refresh(context.Background()) // newer request, completes first
	require.Equal(t, fresh, store.Assets())

	close(release) // old request finishes late
	<-done

	assert.Equal(t, fresh, store.Assets(), "stale fetch must not clobber the newer one")
	assert.Equal(t, StatusLoaded, store.Status())
}

func TestPriceHistoryBestEffort(t *testing.T) {
	series := []model.PricePoint{
		{Timestamp: time.Unix(1700000000, 0), Price: 44000},
		{Timestamp: time.Unix(1700003600, 0), Price: 44100},
	}
	fail := false
	client := &fakeMarketClient{
		fetchChart: func(_ context.Context, assetID string, days int) ([]model.PricePoint, error) {
			if fail {
				return nil, errors.New("decode failed")
			}
			return series, nil
		},
	}
	store := NewSnapshotStore(client)

	got := store.PriceHistory(context.Background(), "bitcoin", 1)
	require.Equal(t, series, got)

	fail = true
	got = store.PriceHistory(context.Background(), "bitcoin", 1)
	require.NotNil(t, got)
	require.Empty(t, got, "failures degrade to an empty series, never an error")
}

func TestSearch(t *testing.T) {
	client := &fakeMarketClient{
		fetchAssets: func(context.Context) ([]model.Asset, error) {
			return []model.Asset{
				{ID: "bitcoin", Symbol: "BTC", Name: "Bitcoin"},
				{ID: "ethereum", Symbol: "ETH", Name: "Ethereum"},
				{ID: "ethereum-classic", Symbol: "ETC", Name: "Ethereum Classic"},
			}, nil
		},
	}
	store := NewSnapshotStore(client)
	store.Refresh(context.Background())

	assert.Len(t, store.Search("eth"), 2)
	assert.Len(t, store.Search("BITCOIN"), 1)
	assert.Empty(t, store.Search("doge"))
	assert.Empty(t, store.Search("  "))
}

func TestAssetsReturnsCopy(t *testing.T) {
	client := &fakeMarketClient{
		fetchAssets: func(context.Context) ([]model.Asset, error) {
			return assetsFixture("bitcoin"), nil
		},
	}
	store := NewSnapshotStore(client)
	store.Refresh(context.Background())

	got := store.Assets()
	got[0].ID = "mutated"

	require.Equal(t, "bitcoin", store.Assets()[0].ID)
}

func TestSubscribeSignalsOnSuccessOnly(t *testing.T) {
	fail := false
	client := &fakeMarketClient{
		fetchAssets: func(context.Context) ([]model.Asset, error) {
			if fail {
				return nil, errors.New("boom")
			}
			return assetsFixture("bitcoin"), nil
		},
	}
	store := NewSnapshotStore(client)
	updates := store.Subscribe()

	store.Refresh(context.Background())
	select {
	case <-updates:
	default:
		t.Fatal("expected a notification after a successful refresh")
	}

	fail = true
	store.Refresh(context.Background())
	select {
	case <-updates:
		t.Fatal("failed refresh must not notify")
	default:
	}
}

func TestStartPolling(t *testing.T) {
	var calls int32
	client := &fakeMarketClient{
		fetchAssets: func(context.Context) ([]model.Asset, error) {
			atomic.AddInt32(&calls, 1)
			return assetsFixture("bitcoin"), nil
		},
	}
	store := NewSnapshotStore(client)

	ctx, cancel := context.WithCancel(context.Background())
	store.StartPolling(ctx, 10*time.Millisecond)

	deadline := time.Now().Add(time.Second)
	for atomic.LoadInt32(&calls) < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	require.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(3), "initial refresh plus ticks")

	// no further refreshes after cancellation
	settled := atomic.LoadInt32(&calls)
	time.Sleep(50 * time.Millisecond)
	require.LessOrEqual(t, atomic.LoadInt32(&calls), settled+1)
}
