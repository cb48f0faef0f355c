package domain

// StaffingRules is the global settings row governing legal working limits.
// It is loaded once per operation and passed around as an immutable value,
// never read from ambient state.
type StaffingRules struct {
	MaxConsecutiveShifts      int32 `json:"maxConsecutiveShifts"`
	MaxConsecutiveNightShifts int32 `json:"maxConsecutiveNightShifts"`
	MinRestHoursBetweenShifts int32 `json:"minRestHoursBetweenShifts"`
	Version                   int32 `json:"-"`
}

func DefaultStaffingRules() StaffingRules {
	return StaffingRules{
		MaxConsecutiveShifts:      6,
		MaxConsecutiveNightShifts: 3,
		MinRestHoursBetweenShifts: 11,
	}
}
