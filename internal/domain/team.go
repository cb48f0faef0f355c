package domain

import "time"

type Team struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	// IsVirtual marks a non-physical grouping (e.g. the Ferienjobber pool)
	// that is used for qualification-based counting, never for staffing quotas.
	IsVirtual bool `json:"isVirtual"`
	// ShiftTypeIDs lists the shift types this team's members may be
	// scheduled into.
	ShiftTypeIDs []int64   `json:"shiftTypeIDs"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}

func (t *Team) MayStaff(shiftTypeID int64) bool {
	for _, id := range t.ShiftTypeIDs {
		if id == shiftTypeID {
			return true
		}
	}
	return false
}
