package domain

import (
	"time"
)

const clockLayout = "15:04:05"

type ShiftType struct {
	ID            int64   `json:"id"`
	Code          string  `json:"code"` // short identifier, e.g. "F", "S", "N"
	Name          string  `json:"name"`
	StartTime     string  `json:"startTime"` // "15:04:05"
	EndTime       string  `json:"endTime"`
	DurationHours float64 `json:"durationHours"`
	WeeklyHours   float64 `json:"weeklyHours"`
	// ActiveWeekdays uses Go's time.Weekday indexing (0 = Sunday).
	ActiveWeekdays  [7]bool   `json:"activeWeekdays"`
	MinStaffWeekday int32     `json:"minStaffWeekday"`
	MaxStaffWeekday int32     `json:"maxStaffWeekday"`
	MinStaffWeekend int32     `json:"minStaffWeekend"`
	MaxStaffWeekend int32     `json:"maxStaffWeekend"`
	IsNight         bool      `json:"isNight"`
	CreatedAt       time.Time `json:"createdAt"`
	Version         int32     `json:"-"`
}

func (st *ShiftType) ActiveOn(date time.Time) bool {
	return st.ActiveWeekdays[int(date.Weekday())]
}

// StaffingBounds returns the min/max headcount for the date's weekday class.
func (st *ShiftType) StaffingBounds(date time.Time) (int32, int32) {
	if IsWeekend(date) {
		return st.MinStaffWeekend, st.MaxStaffWeekend
	}
	return st.MinStaffWeekday, st.MaxStaffWeekday
}

// StartOn returns the moment the shift starts on the given date.
func (st *ShiftType) StartOn(date time.Time) time.Time {
	t, _ := time.Parse(clockLayout, st.StartTime)
	return date.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
}

// EndOn returns the moment the shift ends for a shift started on the given
// date. Shifts whose end time is not after their start time run past midnight.
func (st *ShiftType) EndOn(date time.Time) time.Time {
	start, _ := time.Parse(clockLayout, st.StartTime)
	end, _ := time.Parse(clockLayout, st.EndTime)
	d := date.Add(time.Duration(end.Hour())*time.Hour + time.Duration(end.Minute())*time.Minute)
	if !end.After(start) {
		d = d.Add(24 * time.Hour)
	}
	return d
}

// ShiftTypeRelationship is a directed edge in the preferred rotation sequence
// (e.g. Früh -> Nacht -> Spät). It is a preference, never a hard rule.
type ShiftTypeRelationship struct {
	ID            int64 `json:"id"`
	ShiftTypeID   int64 `json:"shiftTypeID"`
	RelatedTypeID int64 `json:"relatedTypeID"`
	Priority      int32 `json:"priority"` // lower = more preferred successor
}
