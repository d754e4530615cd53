package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/emilianohg/weeksheet/internal/models"
	"github.com/emilianohg/weeksheet/internal/timesheet"
)

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6B7280")
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")

	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleHeader  = lipgloss.NewStyle().Bold(true)
	styleTotal   = lipgloss.NewStyle().Bold(true).Foreground(colorSuccess)
	styleOverDay = lipgloss.NewStyle().Bold(true).Foreground(colorWarning)
)

const (
	hourColumn  = 7
	minProjects = 16
	// a working day above this is highlighted
	fullDay = 8
)

// Week prints a week of entries as a table with daily and weekly totals.
func (f *Formatter) Week(offset int, dates []time.Time, entries []models.TimesheetEntry, status models.TimesheetStatus) {
	title := fmt.Sprintf("%s (%s)", timesheet.WeekLabel(offset), timesheet.RangeLabel(dates))
	f.Println(f.style(title, styleTitle))
	if status != "" {
		f.Println(f.style("Status: "+string(status), styleMuted))
	}
	f.Println()

	if len(entries) == 0 {
		f.Println(f.style("No entries for this week.", styleMuted))
		return
	}

	nameWidth := max(minProjects, f.TerminalWidth()-(len(dates)+1)*hourColumn-6)

	var header strings.Builder
	header.WriteString(pad("Project", nameWidth))
	header.WriteString(pad("Code", 6))
	for _, d := range dates {
		header.WriteString(padLeft(d.Format("Mon 2"), hourColumn))
	}
	header.WriteString(padLeft("Total", hourColumn))
	f.Println(f.style(header.String(), styleHeader))

	keys := timesheet.DateKeys(dates)
	for _, e := range entries {
		var row strings.Builder
		row.WriteString(pad(entryLabel(e), nameWidth))
		row.WriteString(pad(e.TimeCode, 6))
		for _, k := range keys {
			row.WriteString(padLeft(FormatHours(e.Hours[k]), hourColumn))
		}
		row.WriteString(padLeft(FormatHours(timesheet.EntryTotal(e)), hourColumn))
		f.Println(row.String())
	}

	var totals strings.Builder
	totals.WriteString(pad("Daily total", nameWidth+6))
	for _, k := range keys {
		cell := padLeft(FormatHours(timesheet.DailyTotal(k, entries)), hourColumn)
		if timesheet.DailyTotal(k, entries) > fullDay {
			cell = f.style(cell, styleOverDay)
		}
		totals.WriteString(cell)
	}
	totals.WriteString(f.style(padLeft(FormatHours(timesheet.WeeklyTotal(entries)), hourColumn), styleTotal))
	f.Println(totals.String())
}

// Projects prints the project list.
func (f *Formatter) Projects(projects []models.Project) {
	if len(projects) == 0 {
		f.Println(f.style("No projects. Run 'weeksheet seed' or add some in the TUI.", styleMuted))
		return
	}
	f.Println(f.style(pad("Code", 8)+pad("Project", 32)+"Client", styleHeader))
	for _, p := range projects {
		client := p.ClientName
		if client == "" {
			client = "-"
		}
		f.Println(pad(p.Code, 8) + pad(p.Name, 32) + client)
	}
}

// TimeCodes prints the catalog grouped by category and group.
func (f *Formatter) TimeCodes(catalog models.TimeCodeCatalog) {
	for _, cat := range []models.Category{models.Chargeable, models.NonChargeable} {
		groups := catalog.Groups(cat)
		if len(groups) == 0 {
			continue
		}
		f.Println(f.style(cat.Label(), styleTitle))
		for _, g := range groups {
			f.Println("  " + f.style(g.Label, styleHeader))
			for _, c := range g.Codes {
				f.Printf("    %s%s %s\n", pad(c.ID, 5), pad(c.Name, 24), f.style(c.Description, styleMuted))
			}
		}
	}
}

// FormatHours renders hours without trailing zeros and blank for zero.
func FormatHours(h float64) string {
	if h == 0 {
		return "-"
	}
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", h), "0"), ".")
}

func entryLabel(e models.TimesheetEntry) string {
	if e.ProjectID == 0 {
		if e.TimeCodeName != "" {
			return e.TimeCodeName
		}
		return "(unassigned)"
	}
	return e.ProjectCode + " " + e.ProjectName
}

func pad(s string, width int) string {
	s = truncate(s, width-1)
	return s + strings.Repeat(" ", width-lipgloss.Width(s))
}

func padLeft(s string, width int) string {
	s = truncate(s, width-1)
	return strings.Repeat(" ", width-lipgloss.Width(s)) + s
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:max(width, 0)])
	}
	return string(r[:width-1]) + "…"
}
