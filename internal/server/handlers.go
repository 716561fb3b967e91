package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/ayame/salon-sync-go/internal/constants"
	"github.com/ayame/salon-sync-go/internal/domain"
	"github.com/ayame/salon-sync-go/pkg/errors"
	"go.uber.org/zap"
)

type ShiftRunner interface {
	Run(ctx context.Context) (*domain.ShiftSyncReport, error)
}

type ProfileRunner interface {
	Run(ctx context.Context) (*domain.ProfileSyncReport, error)
}

type AssetPruner interface {
	Run(ctx context.Context) (pruned, failed int, err error)
}

type ReportReader interface {
	GetReport(ctx context.Context, key string, dest any) (bool, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler carries the HTTP-facing side of the sync service. Each endpoint is
// a serverless-style trigger: empty or JSON body in, JSON report out, and a
// 200 with a non-zero error count is a valid partial-failure outcome.
type Handler struct {
	shifts   ShiftRunner
	profiles ProfileRunner
	pruner   AssetPruner
	reports  ReportReader
	db       Pinger
	cache    Pinger
	logger   *zap.Logger
}

func NewHandler(shifts ShiftRunner, profiles ProfileRunner, pruner AssetPruner,
	reports ReportReader, db, cache Pinger, logger *zap.Logger) *Handler {
	return &Handler{
		shifts:   shifts,
		profiles: profiles,
		pruner:   pruner,
		reports:  reports,
		db:       db,
		cache:    cache,
		logger:   logger,
	}
}

func (h *Handler) SyncShifts(w http.ResponseWriter, r *http.Request) {
	report, err := h.shifts.Run(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) SyncProfiles(w http.ResponseWriter, r *http.Request) {
	report, err := h.profiles.Run(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var shiftReport domain.ShiftSyncReport
	var profileReport domain.ProfileSyncReport

	response := map[string]any{"success": true, "shifts": nil, "profiles": nil}

	if found, err := h.reports.GetReport(ctx, constants.ReportConfig.ShiftReportKey, &shiftReport); err != nil {
		h.writeError(w, err)
		return
	} else if found {
		response["shifts"] = shiftReport
	}

	if found, err := h.reports.GetReport(ctx, constants.ReportConfig.ProfileReportKey, &profileReport); err != nil {
		h.writeError(w, err)
		return
	} else if found {
		response["profiles"] = profileReport
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) PruneAssets(w http.ResponseWriter, r *http.Request) {
	pruned, failed, err := h.pruner.Run(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"pruned":  pruned,
		"failed":  failed,
	})
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "degraded", "database": err.Error(),
		})
		return
	}
	if err := h.cache.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "degraded", "redis": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var lockErr *errors.LockError
	if stderrors.As(err, &lockErr) {
		status = http.StatusConflict
	}

	h.logger.Error("Request failed", zap.Int("status", status), zap.Error(err))

	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
