package domain

import "time"

// Profile sync result/report shapes. These marshal to the exact JSON the
// HTTP trigger returns, so callers can rely on the field names.

type ProfileSyncResult struct {
	Name     string `json:"name"`
	Action   string `json:"action"` // "created" or "updated"
	PhotoURL string `json:"photoUrl,omitempty"`
}

type ProfileSyncError struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

type ProfileSyncDetails struct {
	SyncResults []ProfileSyncResult `json:"syncResults"`
	Errors      []ProfileSyncError  `json:"errors"`
}

type ProfileSyncReport struct {
	Success bool               `json:"success"`
	Synced  int                `json:"synced"`
	Errors  int                `json:"errors"`
	Total   int                `json:"total"`
	Details ProfileSyncDetails `json:"details"`

	FinishedAt time.Time `json:"finishedAt,omitempty"`
}

type ShiftSyncReport struct {
	Success         bool   `json:"success"`
	ShiftsProcessed int    `json:"shiftsProcessed"`
	Message         string `json:"message"`

	DaysFailed int       `json:"daysFailed,omitempty"`
	FinishedAt time.Time `json:"finishedAt,omitempty"`
}

// MirroredAsset tracks ownership of a re-hosted photo so orphans can be
// pruned by the maintenance job.
type MirroredAsset struct {
	Path        string    `json:"path"`
	CastID      int64     `json:"castId"`
	PublicURL   string    `json:"publicUrl"`
	ContentType string    `json:"contentType"`
	CreatedAt   time.Time `json:"createdAt"`
}
