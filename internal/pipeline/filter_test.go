package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidOn_Boundary(t *testing.T) {
	today := "20260829"

	assert.True(t, ValidOn("20260829", today), "record expiring today is retained")
	assert.False(t, ValidOn("20260828", today), "record expired yesterday is dropped")
	assert.True(t, ValidOn("20261231", today), "future record is retained")
	assert.True(t, ValidOn("", today), "record without a validity window is always retained")
}

func TestToday(t *testing.T) {
	now := time.Date(2026, 8, 29, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "20260829", Today(now))
}

func TestSeasonSelector_LexicographicMax(t *testing.T) {
	s := NewSeasonSelector()
	for _, label := range []string{"S25", "W24", "S26"} {
		s.Observe(label)
	}
	assert.Equal(t, "S26", s.Selected())
}

func TestSeasonSelector_IgnoresEmptyAndDuplicates(t *testing.T) {
	s := NewSeasonSelector()
	s.Observe("")
	assert.Empty(t, s.Selected())

	s.Observe("W25")
	s.Observe("W25")
	s.Observe("")
	assert.Equal(t, "W25", s.Selected())
}
