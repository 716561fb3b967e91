package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/ayame/salon-sync-go/internal/constants"
	"github.com/ayame/salon-sync-go/internal/domain"
	"github.com/ayame/salon-sync-go/internal/metrics"
	"github.com/ayame/salon-sync-go/internal/service/portal"
	"github.com/ayame/salon-sync-go/internal/util"
	"github.com/ayame/salon-sync-go/pkg/errors"
	"go.uber.org/zap"
)

// ProfileSyncer drives the therapist-profile pipeline. Unlike shift sync it
// isolates failures per record: one broken profile lands in the error report
// and the rest of the batch proceeds. Reconciliation misses create a new
// cast here — profile sync is the one pipeline allowed to onboard staff.
type ProfileSyncer struct {
	fetcher PageFetcher
	parser  *portal.ProfileParser
	casts   CastStore
	mirror  PhotoMirror
	leases  LeaseManager
	cfg     Config
	logger  *zap.Logger

	sleep func(time.Duration)
	now   func() time.Time
}

func NewProfileSyncer(fetcher PageFetcher, parser *portal.ProfileParser, casts CastStore,
	mirror PhotoMirror, leases LeaseManager, cfg Config, logger *zap.Logger) *ProfileSyncer {
	return &ProfileSyncer{
		fetcher: fetcher,
		parser:  parser,
		casts:   casts,
		mirror:  mirror,
		leases:  leases,
		cfg:     cfg,
		logger:  logger,
		sleep:   time.Sleep,
		now:     util.NowJST,
	}
}

func (s *ProfileSyncer) Run(ctx context.Context) (*domain.ProfileSyncReport, error) {
	acquired, err := s.leases.AcquireLease(ctx, constants.LockConfig.ProfileLeaseKey, constants.LockConfig.LeaseTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, errors.NewLockError("profile sync already running", constants.LockConfig.ProfileLeaseKey)
	}
	defer s.leases.ReleaseLease(ctx, constants.LockConfig.ProfileLeaseKey)

	listURL := s.cfg.BaseURL + s.cfg.ProfilePath
	markup, err := s.fetcher.Fetch(ctx, listURL)
	if err != nil {
		metrics.FetchErrors.WithLabelValues("profiles").Inc()
		return nil, err
	}
	metrics.PagesFetched.WithLabelValues("profiles").Inc()

	profiles, skipped, err := s.parser.ParseList(markup)
	if err != nil {
		return nil, err
	}
	for _, skip := range skipped {
		metrics.RowsSkipped.WithLabelValues(string(skip.Reason)).Inc()
	}

	allCasts, err := s.casts.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	index := buildNameIndex(allCasts)

	report := &domain.ProfileSyncReport{
		Success: true,
		Details: domain.ProfileSyncDetails{
			SyncResults: make([]domain.ProfileSyncResult, 0, len(profiles)),
			Errors:      make([]domain.ProfileSyncError, 0),
		},
	}

	for i := range profiles {
		profile := &profiles[i]

		s.enrichFromDetail(ctx, profile)
		s.sleep(s.cfg.PaceDelay)

		result, err := s.syncOne(ctx, profile, index)
		if err != nil {
			metrics.RecordsSynced.WithLabelValues("profiles", "error").Inc()
			report.Details.Errors = append(report.Details.Errors, domain.ProfileSyncError{
				Name:  profile.Name,
				Error: err.Error(),
			})
			s.logger.Warn("Profile sync record failed",
				zap.String("name", profile.Name),
				zap.Error(err))
			continue
		}

		metrics.RecordsSynced.WithLabelValues("profiles", result.Action).Inc()
		report.Details.SyncResults = append(report.Details.SyncResults, *result)
	}

	report.Synced = len(report.Details.SyncResults)
	report.Errors = len(report.Details.Errors)
	report.Total = len(profiles)
	report.FinishedAt = s.now()

	if err := s.leases.StoreReport(ctx, constants.ReportConfig.ProfileReportKey, report,
		constants.ReportConfig.ReportTTL); err != nil {
		s.logger.Warn("Failed to store profile sync report", zap.Error(err))
	}

	s.logger.Info("Profile sync completed",
		zap.Int("synced", report.Synced),
		zap.Int("errors", report.Errors),
		zap.Int("total", report.Total))

	return report, nil
}

// enrichFromDetail fetches and parses the profile's detail page. Failure
// degrades gracefully: the base fields survive, only the enrichment is lost.
func (s *ProfileSyncer) enrichFromDetail(ctx context.Context, profile *domain.ExternalProfile) {
	if profile.DetailURL == "" {
		return
	}

	detailURL := portal.ResolveURL(s.cfg.BaseURL, profile.DetailURL)
	markup, err := s.fetcher.Fetch(ctx, detailURL)
	if err != nil {
		metrics.FetchErrors.WithLabelValues("profile_detail").Inc()
		s.logger.Warn("Detail page fetch failed, base fields only",
			zap.String("name", profile.Name),
			zap.String("url", detailURL),
			zap.Error(err))
		return
	}
	metrics.PagesFetched.WithLabelValues("profile_detail").Inc()

	if err := s.parser.ParseDetail(markup, profile); err != nil {
		s.logger.Warn("Detail page parse failed, base fields only",
			zap.String("name", profile.Name),
			zap.Error(err))
	}
}

// syncOne reconciles and persists a single profile. A panic inside the
// record is converted to an error so one pathological profile cannot take
// down the batch.
func (s *ProfileSyncer) syncOne(ctx context.Context, profile *domain.ExternalProfile, index nameIndex) (result *domain.ProfileSyncResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("unexpected failure: %v", r)
		}
	}()

	id, outcome := index.lookup(profile.Name)
	switch outcome {
	case matchDuplicate:
		return nil, fmt.Errorf("cast name %q is ambiguous: multiple internal casts share it", profile.Name)
	case matchFound:
		return s.updateExisting(ctx, id, profile)
	default:
		return s.createNew(ctx, profile)
	}
}

func (s *ProfileSyncer) updateExisting(ctx context.Context, id int64, profile *domain.ExternalProfile) (*domain.ProfileSyncResult, error) {
	mirrored := s.mirror.MirrorAll(ctx, profile.PhotoURLs, profile.ExternalID, id)

	patch := buildPatch(profile)
	photo := profile.PhotoURL
	if len(mirrored) > 0 {
		photo = mirrored[0]
		patch.Photos = mirrored
	}
	patch.Photo = &photo

	if err := s.casts.UpdateFields(ctx, id, patch); err != nil {
		return nil, err
	}

	return &domain.ProfileSyncResult{
		Name:     profile.Name,
		Action:   "updated",
		PhotoURL: photo,
	}, nil
}

func (s *ProfileSyncer) createNew(ctx context.Context, profile *domain.ExternalProfile) (*domain.ProfileSyncResult, error) {
	// Insert first so the mirrored assets can be attributed to the new id.
	patch := buildPatch(profile)
	id, err := s.casts.Insert(ctx, patch)
	if err != nil {
		return nil, err
	}

	mirrored := s.mirror.MirrorAll(ctx, profile.PhotoURLs, profile.ExternalID, id)
	photo := profile.PhotoURL
	var photos []string
	if len(mirrored) > 0 {
		photo = mirrored[0]
		photos = mirrored
	}

	if err := s.casts.UpdatePhotos(ctx, id, photo, photos); err != nil {
		return nil, err
	}

	return &domain.ProfileSyncResult{
		Name:     profile.Name,
		Action:   "created",
		PhotoURL: photo,
	}, nil
}

// buildPatch maps the normalized external profile onto a cast patch.
// Optional fields pass through as pointers: nil stays nil, so the update
// path never blanks a stored value the portal did not supply.
func buildPatch(profile *domain.ExternalProfile) *domain.CastPatch {
	age := profile.Age
	externalID := profile.ExternalID

	return &domain.CastPatch{
		Name:       profile.Name,
		ExternalID: &externalID,
		Age:        &age,
		Tags:       profile.Tags,

		Height:  profile.Height,
		Bust:    profile.Bust,
		CupSize: profile.CupSize,
		Waist:   profile.Waist,
		Hip:     profile.Hip,

		BodyType:           profile.BodyType,
		ExperienceYears:    profile.ExperienceYears,
		Specialties:        profile.Specialties,
		BloodType:          profile.BloodType,
		FavoriteFood:       profile.FavoriteFood,
		IdealType:          profile.IdealType,
		CelebrityLookalike: profile.CelebrityLookalike,
		DayOffActivities:   profile.DayOffActivities,
		Hobbies:            profile.Hobbies,
		Message:            profile.Message,
		XAccount:           profile.XAccount,
	}
}
