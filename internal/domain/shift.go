package domain

// Shift is a persisted working window for a cast. StartTime/EndTime use the
// portal's extended clock: "26:00" means 02:00 the next day.
type Shift struct {
	ID        int64  `json:"id,omitempty"`
	CastID    int64  `json:"castId"`
	ShiftDate string `json:"shiftDate"` // YYYY-MM-DD
	StartTime string `json:"startTime"` // HH:MM, extended range
	EndTime   string `json:"endTime"`
	Status    string `json:"status"`
	Room      string `json:"room,omitempty"`
	CreatedBy string `json:"createdBy"`
}
