package publish

import (
	"encoding/json"
	"time"

	"github.com/emilianohg/weeksheet/internal/models"
)

type EntryMessage struct {
	ProjectCode string             `json:"project_code,omitempty"`
	ProjectName string             `json:"project_name,omitempty"`
	Client      string             `json:"client,omitempty"`
	TimeCode    string             `json:"time_code"`
	Comment     string             `json:"comment,omitempty"`
	Hours       map[string]float64 `json:"hours"`
}

// TimesheetSubmittedMessage asks an approver to review one week.
type TimesheetSubmittedMessage struct {
	TimesheetID string         `json:"timesheet_id"`
	WeekStart   string         `json:"week_start"`
	TotalHours  float64        `json:"total_hours"`
	Entries     []EntryMessage `json:"entries"`
	Timestamp   time.Time      `json:"timestamp"`
}

func NewTimesheetSubmittedMessage(sheet *models.Timesheet) *TimesheetSubmittedMessage {
	msg := &TimesheetSubmittedMessage{
		TimesheetID: sheet.ID,
		WeekStart:   sheet.WeekStart.Format("2006-01-02"),
		Entries:     make([]EntryMessage, 0, len(sheet.Entries)),
		Timestamp:   time.Now(),
	}
	for _, e := range sheet.Entries {
		msg.Entries = append(msg.Entries, EntryMessage{
			ProjectCode: e.ProjectCode,
			ProjectName: e.ProjectName,
			Client:      e.Client,
			TimeCode:    e.TimeCode,
			Comment:     e.Comment,
			Hours:       e.Hours,
		})
		for _, h := range e.Hours {
			msg.TotalHours += h
		}
	}
	return msg
}

// ToJSON converts the message to JSON bytes
func (m *TimesheetSubmittedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TimesheetSubmittedMessageFromJSON(data []byte) (*TimesheetSubmittedMessage, error) {
	var msg TimesheetSubmittedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
