package domain

import "time"

// Cast is a therapist entity owned by the internal database. Optional
// profile fields are pointers: nil means the portal never supplied the
// field, and a nil field must never overwrite an existing stored value.
type Cast struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Photo      string    `json:"photo,omitempty"`
	Photos     []string  `json:"photos,omitempty"`
	ExternalID string    `json:"externalId,omitempty"`
	Age        *int      `json:"age,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt,omitempty"`

	Height             *int    `json:"height,omitempty"`
	Bust               *int    `json:"bust,omitempty"`
	CupSize            *string `json:"cupSize,omitempty"`
	Waist              *int    `json:"waist,omitempty"`
	Hip                *int    `json:"hip,omitempty"`
	BodyType           *string `json:"bodyType,omitempty"`
	ExperienceYears    *int    `json:"experienceYears,omitempty"`
	Specialties        *string `json:"specialties,omitempty"`
	BloodType          *string `json:"bloodType,omitempty"`
	FavoriteFood       *string `json:"favoriteFood,omitempty"`
	IdealType          *string `json:"idealType,omitempty"`
	CelebrityLookalike *string `json:"celebrityLookalike,omitempty"`
	DayOffActivities   *string `json:"dayOffActivities,omitempty"`
	Hobbies            *string `json:"hobbies,omitempty"`
	Message            *string `json:"message,omitempty"`
	XAccount           *string `json:"xAccount,omitempty"`
}

// CastPatch is the update-or-insert field set built from a normalized
// external profile. Only non-nil fields are written on update.
type CastPatch struct {
	Name       string
	Photo      *string
	Photos     []string
	ExternalID *string
	Age        *int
	Tags       []string

	Height             *int
	Bust               *int
	CupSize            *string
	Waist              *int
	Hip                *int
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
}
