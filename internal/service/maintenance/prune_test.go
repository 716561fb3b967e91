package maintenance

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ayame/salon-sync-go/internal/domain"
	"go.uber.org/zap"
)

type fakeAssetStore struct {
	mu       sync.Mutex
	orphans  []*domain.MirroredAsset
	listErr  error
	deleted  []string
	failPath string
}

func (f *fakeAssetStore) ListOrphans(ctx context.Context) ([]*domain.MirroredAsset, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.orphans, nil
}

func (f *fakeAssetStore) Delete(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if path == f.failPath {
		return errors.New("row delete failed")
	}
	f.deleted = append(f.deleted, path)
	return nil
}

type fakeObjectDeleter struct {
	mu       sync.Mutex
	deleted  []string
	failPath string
}

func (f *fakeObjectDeleter) Delete(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if path == f.failPath {
		return errors.New("object delete failed")
	}
	f.deleted = append(f.deleted, path)
	return nil
}

func orphanList(paths ...string) []*domain.MirroredAsset {
	orphans := make([]*domain.MirroredAsset, 0, len(paths))
	for _, path := range paths {
		orphans = append(orphans, &domain.MirroredAsset{Path: path})
	}
	return orphans
}

func TestPrunerDeletesOrphans(t *testing.T) {
	assets := &fakeAssetStore{orphans: orphanList("101_1.jpg", "101_2.jpg", "102_1.webp")}
	storage := &fakeObjectDeleter{}

	pruned, failed, err := NewPruner(assets, storage, zap.NewNop()).Run(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if pruned != 3 || failed != 0 {
		t.Fatalf("expected 3 pruned / 0 failed, got %d/%d", pruned, failed)
	}
	if len(storage.deleted) != 3 || len(assets.deleted) != 3 {
		t.Fatalf("every orphan must be deleted from storage and the ownership table")
	}
}

func TestPrunerCountsObjectDeleteFailures(t *testing.T) {
	assets := &fakeAssetStore{orphans: orphanList("101_1.jpg", "101_2.jpg")}
	storage := &fakeObjectDeleter{failPath: "101_1.jpg"}

	pruned, failed, err := NewPruner(assets, storage, zap.NewNop()).Run(context.Background())
	if err != nil {
		t.Fatalf("per-asset failures must not fail the run, got %v", err)
	}
	if pruned != 1 || failed != 1 {
		t.Fatalf("expected 1 pruned / 1 failed, got %d/%d", pruned, failed)
	}

	// The row must survive when the object could not be deleted, so a later
	// run can retry.
	for _, path := range assets.deleted {
		if path == "101_1.jpg" {
			t.Fatalf("ownership row deleted for an object that still exists")
		}
	}
}

func TestPrunerCountsRowDeleteFailures(t *testing.T) {
	assets := &fakeAssetStore{
		orphans:  orphanList("101_1.jpg", "101_2.jpg"),
		failPath: "101_2.jpg",
	}
	storage := &fakeObjectDeleter{}

	pruned, failed, err := NewPruner(assets, storage, zap.NewNop()).Run(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if pruned != 1 || failed != 1 {
		t.Fatalf("expected 1 pruned / 1 failed, got %d/%d", pruned, failed)
	}
}

func TestPrunerListFailureIsFatal(t *testing.T) {
	assets := &fakeAssetStore{listErr: errors.New("db down")}

	_, _, err := NewPruner(assets, &fakeObjectDeleter{}, zap.NewNop()).Run(context.Background())
	if err == nil {
		t.Fatalf("a failed orphan listing must fail the run")
	}
}

func TestPrunerNoOrphans(t *testing.T) {
	assets := &fakeAssetStore{}
	storage := &fakeObjectDeleter{}

	pruned, failed, err := NewPruner(assets, storage, zap.NewNop()).Run(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if pruned != 0 || failed != 0 || len(storage.deleted) != 0 {
		t.Fatalf("nothing to prune must be a clean no-op")
	}
}
