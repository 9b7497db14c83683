package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNextFomcMeeting(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		wantLabel string
		wantYear  int
	}{
		{
			name:      "start of year",
			now:       time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC),
			wantLabel: "FOMC: Jan 28-29",
			wantYear:  2025,
		},
		{
			name:      "during a meeting still shows it",
			now:       time.Date(2025, 1, 29, 15, 0, 0, 0, time.UTC),
			wantLabel: "FOMC: Jan 28-29",
			wantYear:  2025,
		},
		{
			name:      "day after a meeting moves to the next",
			now:       time.Date(2025, 1, 30, 0, 0, 0, 0, time.UTC),
			wantLabel: "FOMC: Mar 18-19",
			wantYear:  2025,
		},
		{
			name:      "mid year",
			now:       time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC),
			wantLabel: "FOMC: Sep 16-17",
			wantYear:  2025,
		},
		{
			name:      "after the last meeting rolls to next year",
			now:       time.Date(2025, 12, 11, 0, 0, 0, 0, time.UTC),
			wantLabel: "FOMC: Jan 28-29",
			wantYear:  2026,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NextFomcMeeting(tt.now)
			require.Equal(t, tt.wantLabel, m.Label())
			require.Equal(t, tt.wantYear, m.Year)
		})
	}
}
