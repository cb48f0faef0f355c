// Package seed fills an empty database with a realistic demo plant: three
// rotating teams, the Ferienjobber pool, the F/S/N/TD shift types and a crew
// with Springer and fire-protection qualifications.
package seed

import (
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/schichtwerk/schichtplaner/backend/internal/domain"
	"github.com/schichtwerk/schichtplaner/backend/internal/repository"
	"github.com/schichtwerk/schichtplaner/backend/internal/utils"
)

const demoPassword = "schichtplaner-demo"

var weekAll = [7]bool{true, true, true, true, true, true, true}
var weekdaysOnly = [7]bool{false, true, true, true, true, true, false}

var demoShiftTypes = []domain.ShiftType{
	{
		Code: "F", Name: "Frühschicht",
		StartTime: "06:00:00", EndTime: "14:00:00",
		DurationHours: 8, WeeklyHours: 40,
		ActiveWeekdays:  weekAll,
		MinStaffWeekday: 3, MaxStaffWeekday: 5,
		MinStaffWeekend: 2, MaxStaffWeekend: 4,
	},
	{
		Code: "S", Name: "Spätschicht",
		StartTime: "14:00:00", EndTime: "22:00:00",
		DurationHours: 8, WeeklyHours: 40,
		ActiveWeekdays:  weekAll,
		MinStaffWeekday: 3, MaxStaffWeekday: 5,
		MinStaffWeekend: 2, MaxStaffWeekend: 4,
	},
	{
		Code: "N", Name: "Nachtschicht",
		StartTime: "22:00:00", EndTime: "06:00:00",
		DurationHours: 8, WeeklyHours: 40,
		ActiveWeekdays:  weekAll,
		MinStaffWeekday: 2, MaxStaffWeekday: 3,
		MinStaffWeekend: 2, MaxStaffWeekend: 3,
		IsNight: true,
	},
	{
		Code: "TD", Name: "Tagdienst",
		StartTime: "08:00:00", EndTime: "16:00:00",
		DurationHours: 8, WeeklyHours: 40,
		ActiveWeekdays:  weekdaysOnly,
		MinStaffWeekday: 1, MaxStaffWeekday: 1,
		MinStaffWeekend: 0, MaxStaffWeekend: 0,
	},
}

type demoEmployee struct {
	firstName    string
	lastName     string
	role         domain.Role
	team         string // key into the seeded teams, "" = no team
	weeklyHours  float64
	capabilities domain.CapabilitySet
}

var demoEmployees = []demoEmployee{
	{"Petra", "Wagner", domain.RoleAdmin, "", 40, nil},
	{"Jürgen", "Schmidt", domain.RolePlaner, "Schichtgruppe A", 40, domain.CapabilitySet{domain.CapabilityTeamleiter, domain.CapabilityBSB}},

	{"Hans", "Müller", domain.RoleMitarbeiter, "Schichtgruppe A", 40, domain.CapabilitySet{domain.CapabilityBMT}},
	{"Sabine", "Fischer", domain.RoleMitarbeiter, "Schichtgruppe A", 40, nil},
	{"Klaus", "Weber", domain.RoleMitarbeiter, "Schichtgruppe A", 38.5, nil},
	{"Monika", "Becker", domain.RoleMitarbeiter, "Schichtgruppe A", 40, domain.CapabilitySet{domain.CapabilitySpringer}},

	{"Thomas", "Schäfer", domain.RoleMitarbeiter, "Schichtgruppe B", 40, domain.CapabilitySet{domain.CapabilityTeamleiter, domain.CapabilityBMT}},
	{"Andrea", "Koch", domain.RoleMitarbeiter, "Schichtgruppe B", 40, nil},
	{"Stefan", "Bauer", domain.RoleMitarbeiter, "Schichtgruppe B", 40, domain.CapabilitySet{domain.CapabilityBSB}},
	{"Claudia", "Richter", domain.RoleMitarbeiter, "Schichtgruppe B", 38.5, nil},
	{"Frank", "Klein", domain.RoleMitarbeiter, "Schichtgruppe B", 40, domain.CapabilitySet{domain.CapabilitySpringer}},

	{"Birgit", "Wolf", domain.RoleMitarbeiter, "Schichtgruppe C", 40, domain.CapabilitySet{domain.CapabilityTeamleiter, domain.CapabilityBSB}},
	{"Dieter", "Neumann", domain.RoleMitarbeiter, "Schichtgruppe C", 40, domain.CapabilitySet{domain.CapabilityBMT}},
	{"Karin", "Schwarz", domain.RoleMitarbeiter, "Schichtgruppe C", 40, nil},
	{"Uwe", "Zimmermann", domain.RoleMitarbeiter, "Schichtgruppe C", 38.5, nil},
	{"Heike", "Braun", domain.RoleMitarbeiter, "Schichtgruppe C", 40, domain.CapabilitySet{domain.CapabilitySpringer}},

	{"Lukas", "Hofmann", domain.RoleMitarbeiter, "Ferienjobber", 20, domain.CapabilitySet{domain.CapabilityFerienjobber}},
	{"Lena", "Krüger", domain.RoleMitarbeiter, "Ferienjobber", 20, domain.CapabilitySet{domain.CapabilityFerienjobber}},
}

// SeedDemoData inserts the demo plant. Intended for an empty database; on
// unique-constraint collisions it logs and keeps going.
func SeedDemoData(repo *repository.Repository) {
	shiftTypeIDs := make(map[string]int64)
	for i := range demoShiftTypes {
		st := demoShiftTypes[i]
		if err := repo.CreateShiftType(&st); err != nil {
			slog.Error("Schichtart konnte nicht angelegt werden", "code", st.Code, "error", err)
			continue
		}
		shiftTypeIDs[st.Code] = st.ID
	}

	rotationIDs := []int64{shiftTypeIDs["F"], shiftTypeIDs["S"], shiftTypeIDs["N"], shiftTypeIDs["TD"]}

	teamIDs := make(map[string]int64)
	for _, name := range []string{"Schichtgruppe A", "Schichtgruppe B", "Schichtgruppe C"} {
		team := &domain.Team{Name: name, ShiftTypeIDs: rotationIDs}
		if err := repo.CreateTeam(team); err != nil {
			slog.Error("Team konnte nicht angelegt werden", "name", name, "error", err)
			continue
		}
		teamIDs[name] = team.ID
	}

	pool := &domain.Team{Name: "Ferienjobber", IsVirtual: true, ShiftTypeIDs: []int64{}}
	if err := repo.CreateTeam(pool); err != nil {
		slog.Error("Team konnte nicht angelegt werden", "name", pool.Name, "error", err)
	} else {
		teamIDs[pool.Name] = pool.ID
	}

	// preferred rotation: Früh -> Nacht -> Spät
	rotations := []domain.ShiftTypeRelationship{
		{ShiftTypeID: shiftTypeIDs["F"], RelatedTypeID: shiftTypeIDs["N"], Priority: 0},
		{ShiftTypeID: shiftTypeIDs["N"], RelatedTypeID: shiftTypeIDs["S"], Priority: 0},
		{ShiftTypeID: shiftTypeIDs["S"], RelatedTypeID: shiftTypeIDs["F"], Priority: 0},
	}
	for i := range rotations {
		if err := repo.CreateShiftTypeRelationship(&rotations[i]); err != nil {
			slog.Error("Rotationsfolge konnte nicht angelegt werden", "error", err)
		}
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("Passwort-Hash konnte nicht erzeugt werden", "error", err)
		return
	}

	created := 0
	for _, d := range demoEmployees {
		username := utils.UsernameFromName(d.firstName, d.lastName)

		var teamID *int64
		if d.team != "" {
			if id, ok := teamIDs[d.team]; ok {
				teamID = &id
			}
		}

		capabilities := d.capabilities
		if capabilities == nil {
			capabilities = domain.CapabilitySet{}
		}

		employee := &domain.Employee{
			Username:     username,
			PasswordHash: string(passwordHash),
			FirstName:    d.firstName,
			LastName:     d.lastName,
			Email:        username + "@schichtwerk.example",
			Role:         d.role,
			TeamID:       teamID,
			WeeklyHours:  d.weeklyHours,
			Capabilities: capabilities,
			IsActive:     true,
		}

		if err := repo.CreateEmployee(employee); err != nil {
			slog.Error("Mitarbeiter konnte nicht angelegt werden", "username", username, "error", err)
			continue
		}
		created++
	}

	rules := domain.DefaultStaffingRules()
	if err := repo.UpdateStaffingRules(&rules); err != nil {
		slog.Error("Besetzungsregeln konnten nicht gespeichert werden", "error", err)
	}

	slog.Info("Demodaten eingespielt",
		"shiftTypes", len(shiftTypeIDs),
		"teams", len(teamIDs),
		"employees", created,
	)
}
