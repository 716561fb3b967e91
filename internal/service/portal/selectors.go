package portal

// Selectors declares every CSS selector the parsers rely on. The portal's
// markup is an uncontrolled external schema; keeping the coupling in one
// data value means adapting to drift is a config change, not a code change.
type Selectors struct {
	// Schedule page
	ScheduleRow   string
	ScheduleName  string
	ScheduleCells string
	ScheduleRoom  string // optional; empty disables room extraction

	// Profile list page
	ProfileBlock   string
	ProfileImage   string
	ProfileHeading string
	ProfileLink    string
	ProfileBadge   string
	ProfileMetrics string

	// Profile detail page
	DetailRow     string
	DetailLabel   string
	DetailValue   string
	DetailMessage string
	DetailSNSLink string
}

func DefaultSelectors() Selectors {
	return Selectors{
		ScheduleRow:   "table.schedule tr",
		ScheduleName:  "th h3",
		ScheduleCells: "td",
		ScheduleRoom:  "",

		ProfileBlock:   "div.therapist-card",
		ProfileImage:   "img",
		ProfileHeading: "h3",
		ProfileLink:    "a.detail-link",
		ProfileBadge:   "span.badge",
		ProfileMetrics: "p.size",

		DetailRow:     "table.profile-detail tr",
		DetailLabel:   "th",
		DetailValue:   "td",
		DetailMessage: "div.message p",
		DetailSNSLink: "a.sns-link",
	}
}

// ProfileField names a detail-page attribute a label can map to.
type ProfileField string

const (
	FieldBodyType           ProfileField = "bodyType"
	FieldExperienceYears    ProfileField = "experienceYears"
	FieldSpecialties        ProfileField = "specialties"
	FieldBloodType          ProfileField = "bloodType"
	FieldFavoriteFood       ProfileField = "favoriteFood"
	FieldIdealType          ProfileField = "idealType"
	FieldCelebrityLookalike ProfileField = "celebrityLookalike"
	FieldDayOffActivities   ProfileField = "dayOffActivities"
	FieldHobbies            ProfileField = "hobbies"
)

// LabelVocabulary maps detail-page row labels to profile fields. Labels not
// present here are ignored, never an error.
type LabelVocabulary map[string]ProfileField

func DefaultVocabulary() LabelVocabulary {
	return LabelVocabulary{
		"体型":      FieldBodyType,
		"エステ歴":    FieldExperienceYears,
		"得意な施術":   FieldSpecialties,
		"血液型":     FieldBloodType,
		"好きな食べ物":  FieldFavoriteFood,
		"理想のタイプ":  FieldIdealType,
		"似てる芸能人":  FieldCelebrityLookalike,
		"休日の過ごし方": FieldDayOffActivities,
		"趣味":      FieldHobbies,
	}
}
