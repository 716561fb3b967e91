package sync

import (
	"context"
	"time"

	"github.com/ayame/salon-sync-go/internal/domain"
	"github.com/ayame/salon-sync-go/internal/util"
)

// PageFetcher retrieves raw portal markup.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// CastStore is the slice of the casts repository the pipelines need.
type CastStore interface {
	GetAll(ctx context.Context) ([]*domain.Cast, error)
	Insert(ctx context.Context, patch *domain.CastPatch) (int64, error)
	UpdateFields(ctx context.Context, id int64, patch *domain.CastPatch) error
	UpdatePhotos(ctx context.Context, id int64, photo string, photos []string) error
}

type ShiftStore interface {
	ReplaceWindow(ctx context.Context, fromDate string, shifts []*domain.Shift) error
}

// PhotoMirror re-hosts remote photos and returns the successful public URLs.
type PhotoMirror interface {
	MirrorAll(ctx context.Context, urls []string, externalID string, castID int64) []string
}

// LeaseManager serializes pipeline invocations and keeps last-run reports.
type LeaseManager interface {
	AcquireLease(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseLease(ctx context.Context, key string)
	StoreReport(ctx context.Context, key string, report any, ttl time.Duration) error
}

// Config carries the portal endpoints and pacing policy.
type Config struct {
	BaseURL      string
	SchedulePath string
	ProfilePath  string
	WindowDays   int
	PaceDelay    time.Duration
}

type lookupOutcome int

const (
	matchFound lookupOutcome = iota
	matchNone
	matchDuplicate
)

// nameIndex is the case-insensitive exact-match reconciliation table.
// Duplicate lowercased names are remembered so neither pipeline silently
// picks an arbitrary row.
type nameIndex struct {
	ids        map[string]int64
	duplicates map[string]bool
}

func buildNameIndex(casts []*domain.Cast) nameIndex {
	ix := nameIndex{
		ids:        make(map[string]int64, len(casts)),
		duplicates: make(map[string]bool),
	}

	for _, cast := range casts {
		key := util.Normalize(cast.Name)
		if key == "" {
			continue
		}
		if _, exists := ix.ids[key]; exists {
			ix.duplicates[key] = true
			continue
		}
		ix.ids[key] = cast.ID
	}

	return ix
}

func (ix nameIndex) lookup(name string) (int64, lookupOutcome) {
	key := util.Normalize(name)
	if ix.duplicates[key] {
		return 0, matchDuplicate
	}
	id, ok := ix.ids[key]
	if !ok {
		return 0, matchNone
	}
	return id, matchFound
}
