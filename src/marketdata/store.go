package marketdata

import (
	"context"
	"strings"
	"sync"
	"time"

	"papertrader/src/model"

	logger "github.com/sirupsen/logrus"
)

// LoadStatus distinguishes a store that never loaded, one holding a good
// snapshot, and one whose last refresh failed with previous data retained.
type LoadStatus string

const (
	StatusNeverLoaded LoadStatus = "never_loaded"
	StatusLoaded      LoadStatus = "loaded"
	StatusFailed      LoadStatus = "failed"
)

// DefaultPollPeriod matches the 30s refresh cadence of the provider polling.
const DefaultPollPeriod = 30 * time.Second

// MarketClient is the slice of the provider client the store depends on.
type MarketClient interface {
	FetchTopAssets(ctx context.Context) ([]model.Asset, error)
	FetchMarketChart(ctx context.Context, assetID string, days int) ([]model.PricePoint, error)
}

// SnapshotStore owns the freshest known asset list. The whole list is
// replaced on every successful refresh; provider failures are non-fatal and
// leave the previous snapshot readable.
type SnapshotStore struct {
	client MarketClient
	log    *logger.Entry

	mu      sync.RWMutex
	assets  []model.Asset
	status  LoadStatus
	lastErr error
	loading bool
	seq     uint64 // issue order of the newest Refresh call
	subs    []chan struct{}
}

func NewSnapshotStore(client MarketClient) *SnapshotStore {
	return &SnapshotStore{
		client: client,
		status: StatusNeverLoaded,
		log:    logger.WithField("component", "snapshot_store"),
	}
}

// Refresh fetches the top assets and atomically replaces the list on
// success. Results of refreshes that were superseded by a newer call while
// in flight are discarded, success or failure, so the visible snapshot is
// last-write-wins by issue order rather than completion order.
func (s *SnapshotStore) Refresh(ctx context.Context) {
	s.mu.Lock()
	s.seq++
	mySeq := s.seq
	s.loading = true
	s.mu.Unlock()

	assets, err := s.client.FetchTopAssets(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if mySeq != s.seq {
		s.log.WithField("seq", mySeq).Debug("discarding superseded refresh result")
		return
	}
	s.loading = false

	if err != nil {
		s.lastErr = err
		s.status = StatusFailed
		s.log.WithError(err).Error("asset refresh failed, keeping previous snapshot")
		return
	}

	s.assets = assets
	s.lastErr = nil
	s.status = StatusLoaded
	s.notifyLocked()
}

// Assets returns a copy of the current snapshot.
func (s *SnapshotStore) Assets() []model.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Asset, len(s.assets))
	copy(out, s.assets)
	return out
}

// Search filters the snapshot by case-insensitive symbol or name substring.
func (s *SnapshotStore) Search(query string) []model.Asset {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []model.Asset{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Asset, 0)
	for _, a := range s.assets {
		if strings.Contains(strings.ToLower(a.Symbol), query) ||
			strings.Contains(strings.ToLower(a.Name), query) {
			out = append(out, a)
		}
	}
	return out
}

func (s *SnapshotStore) Status() LoadStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *SnapshotStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the error recorded by the last failed refresh, nil after a
// successful one.
func (s *SnapshotStore) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// PriceHistory is best effort by contract: chart display degrades to an
// empty series rather than surfacing provider failures to the caller.
func (s *SnapshotStore) PriceHistory(ctx context.Context, assetID string, days int) []model.PricePoint {
	points, err := s.client.FetchMarketChart(ctx, assetID, days)
	if err != nil {
		s.log.WithError(err).WithField("asset", assetID).Warn("price history fetch failed")
		return []model.PricePoint{}
	}
	return points
}

// StartPolling refreshes immediately and then on every tick until ctx is
// cancelled.
func (s *SnapshotStore) StartPolling(ctx context.Context, period time.Duration) {
	if period <= 0 {
		period = DefaultPollPeriod
	}
	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()

		s.Refresh(ctx)

		for {
			select {
			case <-ctx.Done():
				s.log.Info("polling stopped")
				return
			case <-ticker.C:
				s.Refresh(ctx)
			}
		}
	}()
}

// Subscribe returns a channel signaled after every successful snapshot
// replace. Notifications are dropped, not queued, when the receiver lags.
func (s *SnapshotStore) Subscribe() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan struct{}, 1)
	s.subs = append(s.subs, ch)
	return ch
}

func (s *SnapshotStore) notifyLocked() {
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
