package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDaysOfWeek_Merge(t *testing.T) {
	a := DaysOfWeek{Mon: true, Wed: true}
	b := DaysOfWeek{Wed: true, Sun: true}

	merged := a.Merge(b)

	assert.True(t, merged.Mon)
	assert.True(t, merged.Wed)
	assert.True(t, merged.Sun)
	assert.False(t, merged.Tue)
	assert.False(t, merged.Sat)
}

func TestDaysOfWeek_Merge_DoesNotMutateReceiver(t *testing.T) {
	a := DaysOfWeek{Mon: true}
	b := DaysOfWeek{Fri: true}

	_ = a.Merge(b)

	assert.False(t, a.Fri, "Merge must return a new value, not mutate the receiver")
}

func TestDaysOfWeek_Any(t *testing.T) {
	assert.False(t, DaysOfWeek{}.Any())
	assert.True(t, DaysOfWeek{Thu: true}.Any())
}

func TestFlightEntry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		entry   FlightEntry
		wantErr bool
	}{
		{
			name:    "valid entry",
			entry:   FlightEntry{FlightID: "KE123", ScheduleTime: "09:00"},
			wantErr: false,
		},
		{
			name:    "empty flight id",
			entry:   FlightEntry{ScheduleTime: "09:00"},
			wantErr: true,
		},
		{
			name:    "unformatted schedule time",
			entry:   FlightEntry{FlightID: "KE123", ScheduleTime: "0900"},
			wantErr: true,
		},
		{
			name:    "empty schedule time",
			entry:   FlightEntry{FlightID: "KE123"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFlightEntry_DedupKey(t *testing.T) {
	f := FlightEntry{FlightID: "OZ702", ScheduleTime: "14:35"}
	g := FlightEntry{FlightID: "OZ702", ScheduleTime: "08:10"}

	assert.Equal(t, "OZ702@14:35", f.DedupKey())
	assert.NotEqual(t, f.DedupKey(), g.DedupKey())
}
