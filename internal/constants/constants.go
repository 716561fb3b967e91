package constants

import "time"

var SyncConfig = struct {
	WindowDays      int
	PaceDelay       time.Duration
	MaxPhotos       int
	EndOfDayTime    string
	FullDayStart    string
	PresenceMarker  string
	ShiftStatus     string
	SystemCreatedBy string
}{
	WindowDays:      7,                      // days of schedule pages fetched per run
	PaceDelay:       700 * time.Millisecond, // cooperative throttle between portal requests
	MaxPhotos:       5,
	EndOfDayTime:    "26:00", // portal convention for past-midnight close
	FullDayStart:    "12:00",
	PresenceMarker:  "○",
	ShiftStatus:     "scheduled",
	SystemCreatedBy: "portal-sync",
}

var FetchConfig = struct {
	UserAgent string
	Timeout   time.Duration
}{
	// The portal rejects non-browser client identifiers.
	UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	Timeout:   15 * time.Second,
}

var LockConfig = struct {
	ShiftLeaseKey   string
	ProfileLeaseKey string
	LeaseTTL        time.Duration
}{
	ShiftLeaseKey:   "sync:lease:shifts",
	ProfileLeaseKey: "sync:lease:profiles",
	LeaseTTL:        10 * time.Minute,
}

var ReportConfig = struct {
	ShiftReportKey   string
	ProfileReportKey string
	ReportTTL        time.Duration
}{
	ShiftReportKey:   "sync:last:shifts",
	ProfileReportKey: "sync:last:profiles",
	ReportTTL:        24 * time.Hour,
}

var PruneConfig = struct {
	Concurrency int
}{
	Concurrency: 4,
}
