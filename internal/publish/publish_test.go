package publish

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilianohg/weeksheet/internal/models"
)

func testSheet() *models.Timesheet {
	return &models.Timesheet{
		ID:        "0190a3b2-0000-7000-8000-000000000001",
		WeekStart: time.Date(2024, 7, 1, 0, 0, 0, 0, time.Local),
		Status:    models.StatusSubmitted,
		Entries: []models.TimesheetEntry{
			{ID: 1, ProjectID: 1, ProjectCode: "A1000", ProjectName: "School Refurbishment", TimeCode: "1",
				Hours: map[string]float64{"2024-07-01": 7.5, "2024-07-02": 8}},
			{ID: 2, TimeCode: "LVE", Comment: "dentist", Hours: map[string]float64{"2024-07-03": 4}},
		},
	}
}

func TestNewTimesheetSubmittedMessage(t *testing.T) {
	msg := NewTimesheetSubmittedMessage(testSheet())

	assert.Equal(t, "0190a3b2-0000-7000-8000-000000000001", msg.TimesheetID)
	assert.Equal(t, "2024-07-01", msg.WeekStart)
	assert.Equal(t, 19.5, msg.TotalHours)
	require.Len(t, msg.Entries, 2)
	assert.Equal(t, "A1000", msg.Entries[0].ProjectCode)
	assert.Equal(t, "dentist", msg.Entries[1].Comment)
	assert.False(t, msg.Timestamp.IsZero())
}

func TestTimesheetSubmittedMessageJSON(t *testing.T) {
	body, err := NewTimesheetSubmittedMessage(testSheet()).ToJSON()
	require.NoError(t, err)

	assert.Contains(t, string(body), `"week_start":"2024-07-01"`)
	assert.NotContains(t, string(body), "project_code\":\"\"")

	parsed, err := TimesheetSubmittedMessageFromJSON(body)
	require.NoError(t, err)
	assert.Equal(t, 4.0, parsed.Entries[1].Hours["2024-07-03"])

	_, err = TimesheetSubmittedMessageFromJSON([]byte("{not json"))
	assert.Error(t, err)
}

func TestNewWithoutURLIsNoop(t *testing.T) {
	p, err := New("", "weeksheet", "timesheet_approvals")
	require.NoError(t, err)
	assert.IsType(t, Noop{}, p)

	assert.NoError(t, p.PublishSubmitted(context.Background(), testSheet()))
	assert.NoError(t, p.Close())
}
