package domain

import (
	"time"
)

type Role string

const (
	RoleAdmin       Role = "admin"
	RolePlaner      Role = "planer"
	RoleMitarbeiter Role = "mitarbeiter"
)

// Capability is a qualification or special function an employee can hold.
type Capability string

const (
	// CapabilitySpringer marks a designated substitute. A Springer normally
	// belongs to one team but may cover any team's shifts.
	CapabilitySpringer Capability = "springer"
	// CapabilityFerienjobber marks a temporary worker from the team-less pool.
	CapabilityFerienjobber Capability = "ferienjobber"
	// CapabilityBMT: Brandmeldetechniker (fire alarm technician).
	CapabilityBMT Capability = "bmt"
	// CapabilityBSB: Brandschutzbeauftragter (fire safety officer).
	CapabilityBSB Capability = "bsb"
	// CapabilityTeamleiter marks the team lead.
	CapabilityTeamleiter Capability = "teamleiter"
)

type CapabilitySet []Capability

func (cs CapabilitySet) Has(c Capability) bool {
	for _, v := range cs {
		if v == c {
			return true
		}
	}
	return false
}

type Employee struct {
	ID           int64         `json:"id"`
	Username     string        `json:"username"`
	PasswordHash string        `json:"-"`
	FirstName    string        `json:"firstName"`
	LastName     string        `json:"lastName"`
	Email        string        `json:"email"`
	Role         Role          `json:"role"`
	TeamID       *int64        `json:"teamID"` // nil = no team (e.g. Ferienjobber pool)
	WeeklyHours  float64       `json:"weeklyHours"`
	Capabilities CapabilitySet `json:"capabilities"`
	IsActive     bool          `json:"isActive"`
	CreatedAt    time.Time     `json:"createdAt"`
	Version      int32         `json:"-"`
}

func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

func (e *Employee) IsSpringer() bool {
	return e.Capabilities.Has(CapabilitySpringer)
}

func (e *Employee) IsFerienjobber() bool {
	return e.Capabilities.Has(CapabilityFerienjobber)
}

// DayDutyQualified reports whether the employee may cover the Tagdienst role.
// Either fire-protection qualification implies it.
func (e *Employee) DayDutyQualified() bool {
	return e.Capabilities.Has(CapabilityBMT) || e.Capabilities.Has(CapabilityBSB)
}

// CrossTeamEligible reports whether the employee may be scheduled into shifts
// of teams other than their own.
func (e *Employee) CrossTeamEligible() bool {
	return e.IsSpringer() || e.IsFerienjobber()
}
