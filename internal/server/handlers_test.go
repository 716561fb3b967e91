package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ayame/salon-sync-go/internal/constants"
	"github.com/ayame/salon-sync-go/internal/domain"
	"github.com/ayame/salon-sync-go/pkg/errors"
	"go.uber.org/zap"
)

type fakeShiftRunner struct {
	report *domain.ShiftSyncReport
	err    error
}

func (f *fakeShiftRunner) Run(ctx context.Context) (*domain.ShiftSyncReport, error) {
	return f.report, f.err
}

type fakeProfileRunner struct {
	report *domain.ProfileSyncReport
	err    error
}

func (f *fakeProfileRunner) Run(ctx context.Context) (*domain.ProfileSyncReport, error) {
	return f.report, f.err
}

type fakePruner struct {
	pruned, failed int
	err            error
}

func (f *fakePruner) Run(ctx context.Context) (int, int, error) {
	return f.pruned, f.failed, f.err
}

type fakeReports struct {
	shift   *domain.ShiftSyncReport
	profile *domain.ProfileSyncReport
	err     error
}

func (f *fakeReports) GetReport(ctx context.Context, key string, dest any) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	switch key {
	case constants.ReportConfig.ShiftReportKey:
		if f.shift == nil {
			return false, nil
		}
		*dest.(*domain.ShiftSyncReport) = *f.shift
		return true, nil
	case constants.ReportConfig.ProfileReportKey:
		if f.profile == nil {
			return false, nil
		}
		*dest.(*domain.ProfileSyncReport) = *f.profile
		return true, nil
	}
	return false, nil
}

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(ctx context.Context) error {
	return f.err
}

func newTestHandler(shifts *fakeShiftRunner, profiles *fakeProfileRunner,
	pruner *fakePruner, reports *fakeReports, db, cache *fakePinger) *Handler {
	if shifts == nil {
		shifts = &fakeShiftRunner{}
	}
	if profiles == nil {
		profiles = &fakeProfileRunner{}
	}
	if pruner == nil {
		pruner = &fakePruner{}
	}
	if reports == nil {
		reports = &fakeReports{}
	}
	if db == nil {
		db = &fakePinger{}
	}
	if cache == nil {
		cache = &fakePinger{}
	}
	return NewHandler(shifts, profiles, pruner, reports, db, cache, zap.NewNop())
}

func TestSyncShiftsReturnsReport(t *testing.T) {
	handler := newTestHandler(&fakeShiftRunner{report: &domain.ShiftSyncReport{
		Success:         true,
		ShiftsProcessed: 12,
		Message:         "synced 12 shifts",
		DaysFailed:      1,
	}}, nil, nil, nil, nil, nil)

	rec := httptest.NewRecorder()
	handler.SyncShifts(rec, httptest.NewRequest(http.MethodPost, "/sync/shifts", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %q", ct)
	}

	var report domain.ShiftSyncReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("response must be valid JSON: %v", err)
	}
	if !report.Success || report.ShiftsProcessed != 12 || report.DaysFailed != 1 {
		t.Fatalf("unexpected report body: %+v", report)
	}
}

func TestSyncShiftsLeaseConflict(t *testing.T) {
	handler := newTestHandler(&fakeShiftRunner{
		err: errors.NewLockError("shift sync already running", constants.LockConfig.ShiftLeaseKey),
	}, nil, nil, nil, nil, nil)

	rec := httptest.NewRecorder()
	handler.SyncShifts(rec, httptest.NewRequest(http.MethodPost, "/sync/shifts", nil))

	if rec.Code != http.StatusConflict {
		t.Fatalf("a held lease must map to 409, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response must be valid JSON: %v", err)
	}
	if body["success"] != false || body["error"] == "" {
		t.Fatalf("unexpected error body: %v", body)
	}
}

func TestSyncProfilesFatalFailure(t *testing.T) {
	handler := newTestHandler(nil, &fakeProfileRunner{
		err: stderrors.New("list page unreachable"),
	}, nil, nil, nil, nil)

	rec := httptest.NewRecorder()
	handler.SyncProfiles(rec, httptest.NewRequest(http.MethodPost, "/sync/profiles", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestSyncProfilesPartialFailureIsOK(t *testing.T) {
	handler := newTestHandler(nil, &fakeProfileRunner{report: &domain.ProfileSyncReport{
		Success: true,
		Synced:  9,
		Errors:  1,
		Total:   10,
	}}, nil, nil, nil, nil)

	rec := httptest.NewRecorder()
	handler.SyncProfiles(rec, httptest.NewRequest(http.MethodPost, "/sync/profiles", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("partial failure is a 200 with error details, got %d", rec.Code)
	}

	var report domain.ProfileSyncReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("response must be valid JSON: %v", err)
	}
	if report.Errors != 1 || report.Synced != 9 {
		t.Fatalf("unexpected report body: %+v", report)
	}
}

func TestSyncStatusMissingReportsAreNull(t *testing.T) {
	handler := newTestHandler(nil, nil, nil, &fakeReports{
		shift: &domain.ShiftSyncReport{Success: true, ShiftsProcessed: 4},
	}, nil, nil)

	rec := httptest.NewRecorder()
	handler.SyncStatus(rec, httptest.NewRequest(http.MethodGet, "/sync/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response must be valid JSON: %v", err)
	}
	if string(body["profiles"]) != "null" {
		t.Fatalf("a pipeline that never ran must report null, got %s", body["profiles"])
	}

	var shift domain.ShiftSyncReport
	if err := json.Unmarshal(body["shifts"], &shift); err != nil {
		t.Fatalf("shift report must round-trip: %v", err)
	}
	if shift.ShiftsProcessed != 4 {
		t.Fatalf("unexpected shift report: %+v", shift)
	}
}

func TestPruneAssetsCounts(t *testing.T) {
	handler := newTestHandler(nil, nil, &fakePruner{pruned: 7, failed: 2}, nil, nil, nil)

	rec := httptest.NewRecorder()
	handler.PruneAssets(rec, httptest.NewRequest(http.MethodPost, "/maintenance/prune-assets", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response must be valid JSON: %v", err)
	}
	if body["pruned"] != float64(7) || body["failed"] != float64(2) {
		t.Fatalf("unexpected counts: %v", body)
	}
}

func TestHealthzDegradedOnDatabaseFailure(t *testing.T) {
	handler := newTestHandler(nil, nil, nil, nil,
		&fakePinger{err: stderrors.New("connection refused")}, nil)

	rec := httptest.NewRecorder()
	handler.Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("a failed DB ping must report 503, got %d", rec.Code)
	}
}

func TestHealthzOK(t *testing.T) {
	handler := newTestHandler(nil, nil, nil, nil, nil, nil)

	rec := httptest.NewRecorder()
	handler.Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	wrapped := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("preflight must never reach the handler")
	}))

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/sync/shifts", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing CORS headers")
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("preflight body must be empty, got %q", rec.Body.String())
	}
}
