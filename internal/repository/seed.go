package repository

import (
	"database/sql"
	"fmt"

	"github.com/emilianohg/weeksheet/internal/models"
)

type sampleProject struct {
	Code, Name, Client string
}

var sampleProjects = []sampleProject{
	{"A1000", "School Refurbishment", "Oakridge School District"},
	{"A1001", "Church Extension", "St. Mary's Parish"},
	{"A1002", "Community Center Renovation", "Westside Community Trust"},
	{"A1003", "Hospital Renovation", "Mercy Medical Center"},
	{"A1004", "Office Building Renovation", "Pinnacle Investments"},
	{"A1005", "Warehouse Renovation", "Global Distribution Ltd"},
}

var sampleTimeCodes = []models.TimeCode{
	{ID: "1", Name: "Design", Description: "Design", Group: "Design & Preparation", Category: models.Chargeable},
	{ID: "2", Name: "Preparation", Description: "Preparation", Group: "Design & Preparation", Category: models.Chargeable},
	{ID: "3", Name: "Coordination", Description: "Coordination", Group: "Design & Preparation", Category: models.Chargeable},
	{ID: "4", Name: "Technical Design", Description: "Technical Design", Group: "Technical & Manufacturing", Category: models.Chargeable},
	{ID: "5", Name: "Manufacturing", Description: "Manufacturing", Group: "Technical & Manufacturing", Category: models.Chargeable},
	{ID: "6", Name: "Construction", Description: "Construction", Group: "Construction & Handover", Category: models.Chargeable},
	{ID: "7", Name: "Use", Description: "Use", Group: "Construction & Handover", Category: models.Chargeable},
	{ID: "ADM", Name: "Administration", Description: "General administrative tasks", Group: "Office Admin", Category: models.NonChargeable},
	{ID: "MTG", Name: "Internal Meetings", Description: "Non-project specific meetings", Group: "Office Admin", Category: models.NonChargeable},
	{ID: "BUS", Name: "Business Development", Description: "Marketing and client outreach", Group: "Professional", Category: models.NonChargeable},
	{ID: "TRN", Name: "Training", Description: "Professional development activities", Group: "Professional", Category: models.NonChargeable},
	{ID: "LVE", Name: "Leave", Description: "Holiday, sick leave, etc.", Group: "Time Off", Category: models.NonChargeable},
}

// SeedSample loads the sample clients, projects and time codes into an
// empty database. It reports false and changes nothing when any reference
// data already exists.
func SeedSample(db *sql.DB) (bool, error) {
	var count int
	err := db.QueryRow(`
		SELECT (SELECT COUNT(*) FROM clients)
			+ (SELECT COUNT(*) FROM projects)
			+ (SELECT COUNT(*) FROM time_codes)
	`).Scan(&count)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	clients := NewClientRepo(db)
	projects := NewProjectRepo(db)
	codes := NewTimeCodeRepo(db)

	for _, sp := range sampleProjects {
		c, err := clients.Create(sp.Client)
		if err != nil {
			return false, fmt.Errorf("seeding client %q: %w", sp.Client, err)
		}
		if _, err := projects.Create(sp.Code, sp.Name, &c.ID); err != nil {
			return false, fmt.Errorf("seeding project %s: %w", sp.Code, err)
		}
	}
	for _, tc := range sampleTimeCodes {
		if _, err := codes.Create(tc); err != nil {
			return false, fmt.Errorf("seeding time code %s: %w", tc.ID, err)
		}
	}
	return true, nil
}
