package domain

// ExternalShiftRecord is one scraped schedule row. Ephemeral: produced by
// the parser, consumed by the orchestrator, never persisted as-is.
type ExternalShiftRecord struct {
	CastName  string
	Date      string // YYYY-MM-DD
	StartTime string // HH:MM, extended up to "26:00"
	EndTime   string
	Status    string
	Room      string
}

// ExternalProfile is one scraped therapist profile block, optionally
// enriched from its detail page. Optional fields stay nil when the portal
// omits them.
type ExternalProfile struct {
	Name       string
	Age        int
	ExternalID string
	PhotoURL   string
	PhotoURLs  []string // capped at the photo limit
	Tags       []string

	Height  *int
	Bust    *int
	CupSize *string
	Waist   *int
	Hip     *int

	BodyType           *string
	ExperienceYears    *int
	Specialties        *string
	BloodType          *string
	FavoriteFood       *string
	IdealType          *string
	CelebrityLookalike *string
	DayOffActivities   *string
	Hobbies            *string
	Message            *string
	XAccount           *string

	DetailURL string
}

// SkipReason explains why the parser dropped a row or block, so markup
// drift shows up as a growing skip count instead of a silent shrink.
type SkipReason string

const (
	SkipNoName         SkipReason = "no_name"
	SkipNoTimeSignal   SkipReason = "no_time_signal"
	SkipNoPhoto        SkipReason = "no_photo"
	SkipNoNameAge      SkipReason = "no_name_age"
	SkipNoExternalID   SkipReason = "no_external_id"
	SkipDuplicateName  SkipReason = "duplicate_name"
	SkipUnmatchedName  SkipReason = "unmatched_name"
	SkipMalformedBlock SkipReason = "malformed_block"
)

// SkippedUnit is an explicit unparseable-row/block outcome.
type SkippedUnit struct {
	Reason  SkipReason
	Snippet string
}
