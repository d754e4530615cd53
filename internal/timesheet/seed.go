package timesheet

import (
	"math/rand/v2"
	"time"

	"github.com/emilianohg/weeksheet/internal/models"
)

const (
	sampleProjects = 3
	sampleMaxHours = 8
)

// SampleSeed fills the first three projects with the default chargeable code
// and random whole hours on roughly seven days out of ten.
func SampleSeed(r *rand.Rand) SeedFunc {
	return func(week []time.Time, projects []models.Project, catalog models.TimeCodeCatalog) []models.TimesheetEntry {
		var code models.TimeCode
		if all := catalog.All(); len(all) > 0 {
			code = all[0]
		}

		n := min(sampleProjects, len(projects))
		entries := make([]models.TimesheetEntry, 0, n)
		for i, p := range projects[:n] {
			e := models.TimesheetEntry{
				ID:           i + 1,
				ProjectID:    p.ID,
				ProjectCode:  p.Code,
				ProjectName:  p.Name,
				Client:       p.ClientName,
				TimeCode:     code.ID,
				TimeCodeName: code.Name,
				Hours:        map[string]float64{},
			}
			for _, day := range week {
				if r.Float64() > 0.3 {
					e.Hours[DateKey(day)] = float64(r.IntN(sampleMaxHours) + 1)
				}
			}
			entries = append(entries, e)
		}
		return entries
	}
}
