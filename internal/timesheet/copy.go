package timesheet

import "github.com/emilianohg/weeksheet/internal/models"

// CopySelection is the set of projects picked for copying into the visible
// week. Every candidate starts selected.
type CopySelection struct {
	candidates []models.Project
	selected   map[int64]bool
}

func NewCopySelection(candidates []models.Project) *CopySelection {
	s := &CopySelection{
		candidates: candidates,
		selected:   make(map[int64]bool, len(candidates)),
	}
	for _, p := range candidates {
		s.selected[p.ID] = true
	}
	return s
}

// CopyCandidates returns the distinct projects used in a prior week, in row
// order. Without prior entries every project is a candidate.
func CopyCandidates(prior []models.TimesheetEntry, projects []models.Project) []models.Project {
	byID := make(map[int64]models.Project, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
	}

	var out []models.Project
	seen := map[int64]bool{}
	for _, e := range prior {
		p, ok := byID[e.ProjectID]
		if !ok || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	if len(out) == 0 {
		return projects
	}
	return out
}

func (s *CopySelection) Candidates() []models.Project {
	return s.candidates
}

func (s *CopySelection) IsSelected(projectID int64) bool {
	return s.selected[projectID]
}

// Toggle flips a single candidate. Unknown ids are ignored.
func (s *CopySelection) Toggle(projectID int64) {
	if _, ok := s.selected[projectID]; ok {
		s.selected[projectID] = !s.selected[projectID]
	}
}

// ToggleAll selects every candidate, or clears them all when every candidate
// is already selected.
func (s *CopySelection) ToggleAll() {
	all := s.Count() == len(s.candidates)
	for id := range s.selected {
		s.selected[id] = !all
	}
}

// Selected returns the selected project ids in candidate order.
func (s *CopySelection) Selected() []int64 {
	ids := make([]int64, 0, len(s.candidates))
	for _, p := range s.candidates {
		if s.selected[p.ID] {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func (s *CopySelection) Count() int {
	n := 0
	for _, on := range s.selected {
		if on {
			n++
		}
	}
	return n
}
