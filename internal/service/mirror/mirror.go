package mirror

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ayame/salon-sync-go/internal/constants"
	"github.com/ayame/salon-sync-go/internal/domain"
	"github.com/ayame/salon-sync-go/internal/metrics"
	"go.uber.org/zap"
)

// Downloader fetches a remote asset, returning its bytes and the response
// content type.
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, string, error)
}

// ObjectStore is the owned object storage the mirror writes into.
type ObjectStore interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) error
	PublicURL(path string) string
}

// AssetRecorder tracks mirrored-asset ownership so the prune job can find
// orphans later.
type AssetRecorder interface {
	Record(ctx context.Context, asset *domain.MirroredAsset) error
}

// Service copies remote portal images into owned storage. Every failure is
// per-photo: a failed mirror degrades the photo set, never the record.
type Service struct {
	downloader Downloader
	store      ObjectStore
	assets     AssetRecorder
	logger     *zap.Logger
	nowMillis  func() int64
}

func NewService(downloader Downloader, store ObjectStore, assets AssetRecorder, logger *zap.Logger) *Service {
	return &Service{
		downloader: downloader,
		store:      store,
		assets:     assets,
		logger:     logger,
		nowMillis:  func() int64 { return time.Now().UnixMilli() },
	}
}

// Mirror downloads remoteURL and re-uploads it under
// <externalID>_<millis>.<ext>. Returns the public URL, or "" on any failure
// (logged, never propagated).
func (s *Service) Mirror(ctx context.Context, remoteURL, externalID string, castID int64) string {
	data, headerType, err := s.downloader.Download(ctx, remoteURL)
	if err != nil {
		metrics.PhotoMirrorFailures.Inc()
		s.logger.Warn("Photo download failed",
			zap.String("url", remoteURL),
			zap.Error(err))
		return ""
	}

	contentType, ext := resolveContentType(headerType, remoteURL)
	path := fmt.Sprintf("%s_%d.%s", externalID, s.nowMillis(), ext)

	if err := s.store.Upload(ctx, path, data, contentType); err != nil {
		metrics.PhotoMirrorFailures.Inc()
		s.logger.Warn("Photo upload failed",
			zap.String("url", remoteURL),
			zap.String("path", path),
			zap.Error(err))
		return ""
	}

	publicURL := s.store.PublicURL(path)

	if s.assets != nil {
		asset := &domain.MirroredAsset{
			Path:        path,
			CastID:      castID,
			PublicURL:   publicURL,
			ContentType: contentType,
			CreatedAt:   time.Now(),
		}
		if err := s.assets.Record(ctx, asset); err != nil {
			// Ownership tracking is best-effort; the mirror itself succeeded.
			s.logger.Warn("Failed to record mirrored asset",
				zap.String("path", path),
				zap.Error(err))
		}
	}

	metrics.PhotosMirrored.Inc()
	return publicURL
}

// MirrorAll mirrors up to the photo cap and returns only the successful
// public URLs, preserving source order.
func (s *Service) MirrorAll(ctx context.Context, urls []string, externalID string, castID int64) []string {
	if len(urls) > constants.SyncConfig.MaxPhotos {
		urls = urls[:constants.SyncConfig.MaxPhotos]
	}

	mirrored := make([]string, 0, len(urls))
	for _, u := range urls {
		if publicURL := s.Mirror(ctx, u, externalID, castID); publicURL != "" {
			mirrored = append(mirrored, publicURL)
		}
	}

	return mirrored
}

// resolveContentType prefers the download response's Content-Type when it is
// an image type; the URL suffix is only the fallback tier, webp the default.
func resolveContentType(headerType, url string) (contentType, ext string) {
	headerType = strings.TrimSpace(strings.Split(headerType, ";")[0])
	switch headerType {
	case "image/jpeg":
		return "image/jpeg", "jpg"
	case "image/png":
		return "image/png", "png"
	case "image/webp":
		return "image/webp", "webp"
	case "image/gif":
		return "image/gif", "gif"
	}

	lower := strings.ToLower(url)
	switch {
	case strings.Contains(lower, ".jpg"), strings.Contains(lower, ".jpeg"):
		return "image/jpeg", "jpg"
	case strings.Contains(lower, ".png"):
		return "image/png", "png"
	default:
		return "image/webp", "webp"
	}
}
