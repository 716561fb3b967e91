package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ayame/salon-sync-go/internal/domain"
)

type fakeFetcher struct {
	pages map[string][]byte
	urls  []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.urls = append(f.urls, url)
	page, ok := f.pages[url]
	if !ok {
		return nil, errors.New("fetch failed: " + url)
	}
	return page, nil
}

type fakeCastStore struct {
	casts     []*domain.Cast
	getAllErr error

	nextID    int64
	inserted  []*domain.CastPatch
	insertErr error

	updated      map[int64]*domain.CastPatch
	updateErrFor map[int64]error

	photoUpdates map[int64]photoUpdate
}

type photoUpdate struct {
	photo  string
	photos []string
}

func (f *fakeCastStore) GetAll(ctx context.Context) ([]*domain.Cast, error) {
	if f.getAllErr != nil {
		return nil, f.getAllErr
	}
	return f.casts, nil
}

func (f *fakeCastStore) Insert(ctx context.Context, patch *domain.CastPatch) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.nextID++
	f.inserted = append(f.inserted, patch)
	return f.nextID, nil
}

func (f *fakeCastStore) UpdateFields(ctx context.Context, id int64, patch *domain.CastPatch) error {
	if err := f.updateErrFor[id]; err != nil {
		return err
	}
	if f.updated == nil {
		f.updated = make(map[int64]*domain.CastPatch)
	}
	f.updated[id] = patch
	return nil
}

func (f *fakeCastStore) UpdatePhotos(ctx context.Context, id int64, photo string, photos []string) error {
	if f.photoUpdates == nil {
		f.photoUpdates = make(map[int64]photoUpdate)
	}
	f.photoUpdates[id] = photoUpdate{photo: photo, photos: photos}
	return nil
}

type fakeShiftStore struct {
	fromDate string
	shifts   []*domain.Shift
	calls    int
	err      error
}

func (f *fakeShiftStore) ReplaceWindow(ctx context.Context, fromDate string, shifts []*domain.Shift) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.fromDate = fromDate
	f.shifts = shifts
	return nil
}

type mirrorCall struct {
	urls       []string
	externalID string
	castID     int64
}

type fakeMirror struct {
	disabled bool
	calls    []mirrorCall
}

func (f *fakeMirror) MirrorAll(ctx context.Context, urls []string, externalID string, castID int64) []string {
	f.calls = append(f.calls, mirrorCall{urls: urls, externalID: externalID, castID: castID})
	if f.disabled {
		return nil
	}
	mirrored := make([]string, 0, len(urls))
	for i := range urls {
		mirrored = append(mirrored, fmt.Sprintf("https://cdn.owned.example/%s_%d.jpg", externalID, i+1))
	}
	return mirrored
}

type fakeLeases struct {
	busy       bool
	acquireErr error

	held     []string
	released []string
	reports  map[string]any
}

func (f *fakeLeases) AcquireLease(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if f.acquireErr != nil {
		return false, f.acquireErr
	}
	if f.busy {
		return false, nil
	}
	f.held = append(f.held, key)
	return true, nil
}

func (f *fakeLeases) ReleaseLease(ctx context.Context, key string) {
	f.released = append(f.released, key)
}

func (f *fakeLeases) StoreReport(ctx context.Context, key string, report any, ttl time.Duration) error {
	if f.reports == nil {
		f.reports = make(map[string]any)
	}
	f.reports[key] = report
	return nil
}
