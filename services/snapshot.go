package services

import (
	"context"
	"log"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/koreasuan/rainmaker-api/models"
)

// Fetcher is the read side of the sheet adapter.
type Fetcher interface {
	Fetch(ctx context.Context, dataset string) ([]models.RawRecord, error)
}

// SnapshotService fetches and normalizes datasets. Each Load is a full round
// trip to the external store; concurrent loads of the same dataset are
// collapsed into one flight, and the last completed snapshot is kept as an
// immutable cache until the next fetch replaces it wholesale.
type SnapshotService struct {
	fetcher    Fetcher
	normalizer *Normalizer

	group singleflight.Group

	mu    sync.RWMutex
	cache map[string][]models.CanonicalRecord

	// onRefresh, when set, is called after a snapshot has been replaced.
	// Used to nudge connected dashboards over the WebSocket.
	onRefresh func(dataset string)
}

func NewSnapshotService(fetcher Fetcher, normalizer *Normalizer) *SnapshotService {
	return &SnapshotService{
		fetcher:    fetcher,
		normalizer: normalizer,
		cache:      make(map[string][]models.CanonicalRecord),
	}
}

// OnRefresh registers the snapshot-replaced callback. Must be called before
// the service is shared between goroutines.
func (s *SnapshotService) OnRefresh(fn func(dataset string)) {
	s.onRefresh = fn
}

// Load fetches one dataset and returns its canonical records. A failed fetch
// degrades to an empty snapshot: the view contract cannot distinguish an
// empty sheet from a dead endpoint, so neither does this method; the adapter
// error is only logged. A caller whose context ends before the flight lands
// gets the context error and the late result is applied to the cache only.
func (s *SnapshotService) Load(ctx context.Context, dataset string) ([]models.CanonicalRecord, error) {
	ch := s.group.DoChan(dataset, func() (any, error) {
		// The flight outlives any single caller, so it runs on its own
		// context; the HTTP client's timeout is the only bound.
		rows, err := s.fetcher.Fetch(context.Background(), dataset)
		if err != nil {
			log.Printf("⚠️ Fetch %q failed, serving empty dataset: %v", datasetName(dataset), err)
			rows = nil
		}
		records := s.normalizer.NormalizeAll(dataset, rows)

		s.mu.Lock()
		s.cache[dataset] = records
		s.mu.Unlock()

		if s.onRefresh != nil {
			s.onRefresh(dataset)
		}
		return records, nil
	})

	select {
	case res := <-ch:
		return res.Val.([]models.CanonicalRecord), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Cached returns the last completed snapshot without a round trip. The slice
// is the shared immutable snapshot; callers must not mutate it.
func (s *SnapshotService) Cached(dataset string) []models.CanonicalRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache[dataset]
}

func datasetName(dataset string) string {
	if dataset == DatasetAnnouncements {
		return "announcements"
	}
	return dataset
}
