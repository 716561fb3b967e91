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

type shiftSyncState string

const (
	stateFetching    shiftSyncState = "FETCHING"
	stateReconciling shiftSyncState = "RECONCILING"
	stateReplacing   shiftSyncState = "REPLACING"
	stateDone        shiftSyncState = "DONE"
)

// ShiftSyncer drives the schedule pipeline: fetch a window of daily pages,
// keep only records naming a known cast, and replace the persisted window
// wholesale. Per-day failures degrade the batch; only the entity load and
// the window replace are fatal.
type ShiftSyncer struct {
	fetcher PageFetcher
	parser  *portal.ShiftParser
	casts   CastStore
	shifts  ShiftStore
	leases  LeaseManager
	cfg     Config
	logger  *zap.Logger

	sleep func(time.Duration)
	now   func() time.Time
}

func NewShiftSyncer(fetcher PageFetcher, parser *portal.ShiftParser, casts CastStore,
	shifts ShiftStore, leases LeaseManager, cfg Config, logger *zap.Logger) *ShiftSyncer {
	return &ShiftSyncer{
		fetcher: fetcher,
		parser:  parser,
		casts:   casts,
		shifts:  shifts,
		leases:  leases,
		cfg:     cfg,
		logger:  logger,
		sleep:   time.Sleep,
		now:     util.NowJST,
	}
}

func (s *ShiftSyncer) Run(ctx context.Context) (*domain.ShiftSyncReport, error) {
	acquired, err := s.leases.AcquireLease(ctx, constants.LockConfig.ShiftLeaseKey, constants.LockConfig.LeaseTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, errors.NewLockError("shift sync already running", constants.LockConfig.ShiftLeaseKey)
	}
	defer s.leases.ReleaseLease(ctx, constants.LockConfig.ShiftLeaseKey)

	today := s.now().Format("2006-01-02")

	s.logState(stateFetching)
	records, daysFailed := s.fetchWindow(ctx)

	s.logState(stateReconciling)
	allCasts, err := s.casts.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	index := buildNameIndex(allCasts)

	shifts := make([]*domain.Shift, 0, len(records))
	dropped := 0
	for _, record := range records {
		id, outcome := index.lookup(record.CastName)
		switch outcome {
		case matchFound:
			shifts = append(shifts, &domain.Shift{
				CastID:    id,
				ShiftDate: record.Date,
				StartTime: record.StartTime,
				EndTime:   record.EndTime,
				Status:    record.Status,
				Room:      record.Room,
				CreatedBy: constants.SyncConfig.SystemCreatedBy,
			})
		case matchDuplicate:
			// Two internal casts share this name; updating either would be a
			// guess, so the record is dropped loudly.
			dropped++
			metrics.RowsSkipped.WithLabelValues(string(domain.SkipDuplicateName)).Inc()
			s.logger.Warn("Ambiguous cast name, shift dropped",
				zap.String("cast_name", record.CastName),
				zap.String("date", record.Date))
		default:
			// Shift sync never onboards staff; unknown names are discarded.
			dropped++
			metrics.RowsSkipped.WithLabelValues(string(domain.SkipUnmatchedName)).Inc()
			s.logger.Debug("Unmatched cast name, shift dropped",
				zap.String("cast_name", record.CastName),
				zap.String("date", record.Date))
		}
	}

	s.logState(stateReplacing)
	if err := s.shifts.ReplaceWindow(ctx, today, shifts); err != nil {
		return nil, err
	}

	s.logState(stateDone)
	for range shifts {
		metrics.RecordsSynced.WithLabelValues("shifts", "synced").Inc()
	}

	report := &domain.ShiftSyncReport{
		Success:         true,
		ShiftsProcessed: len(shifts),
		Message: fmt.Sprintf("synced %d shifts (%d scraped, %d dropped, %d days failed)",
			len(shifts), len(records), dropped, daysFailed),
		DaysFailed: daysFailed,
		FinishedAt: s.now(),
	}

	if err := s.leases.StoreReport(ctx, constants.ReportConfig.ShiftReportKey, report,
		constants.ReportConfig.ReportTTL); err != nil {
		s.logger.Warn("Failed to store shift sync report", zap.Error(err))
	}

	s.logger.Info("Shift sync completed",
		zap.Int("synced", len(shifts)),
		zap.Int("scraped", len(records)),
		zap.Int("dropped", dropped),
		zap.Int("days_failed", daysFailed))

	return report, nil
}

// fetchWindow fetches and parses one page per calendar day. A failed day
// contributes zero records and the loop continues.
func (s *ShiftSyncer) fetchWindow(ctx context.Context) ([]domain.ExternalShiftRecord, int) {
	records := make([]domain.ExternalShiftRecord, 0)
	daysFailed := 0

	for i := 0; i < s.cfg.WindowDays; i++ {
		date := s.now().AddDate(0, 0, i).Format("2006-01-02")
		url := fmt.Sprintf("%s%s?date=%s", s.cfg.BaseURL, s.cfg.SchedulePath, date)

		markup, err := s.fetcher.Fetch(ctx, url)
		if err != nil {
			daysFailed++
			metrics.FetchErrors.WithLabelValues("schedule").Inc()
			s.logger.Warn("Schedule page fetch failed, day skipped",
				zap.String("date", date),
				zap.Error(err))
			s.sleep(s.cfg.PaceDelay)
			continue
		}
		metrics.PagesFetched.WithLabelValues("schedule").Inc()

		dayRecords, skipped, err := s.parser.Parse(markup, date)
		if err != nil {
			daysFailed++
			s.logger.Warn("Schedule page parse failed, day skipped",
				zap.String("date", date),
				zap.Error(err))
			s.sleep(s.cfg.PaceDelay)
			continue
		}

		for _, skip := range skipped {
			metrics.RowsSkipped.WithLabelValues(string(skip.Reason)).Inc()
		}

		records = append(records, dayRecords...)

		// Cooperative pacing so the portal never sees a request burst.
		s.sleep(s.cfg.PaceDelay)
	}

	return records, daysFailed
}

func (s *ShiftSyncer) logState(state shiftSyncState) {
	s.logger.Debug("Shift sync state", zap.String("state", string(state)))
}
