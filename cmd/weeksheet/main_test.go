package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeek(t *testing.T) {
	now := time.Date(2024, time.July, 3, 10, 0, 0, 0, time.UTC) // Wednesday

	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"empty_is_this_week", "", 0, false},
		{"this_week", "this week", 0, false},
		{"iso_date_same_week", "2024-07-05", 0, false},
		{"iso_date_previous_week", "2024-06-24", -1, false},
		{"iso_sunday_belongs_to_prior_monday", "2024-07-07", 0, false},
		{"iso_date_weeks_ahead", "2024-07-22", 3, false},
		{"relative_last_week", "last week", -1, false},
		{"relative_weeks_ago", "2 weeks ago", -2, false},
		{"unparseable", "garbage", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseWeek(tt.input, now)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
