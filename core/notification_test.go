package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_FormatSGT(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"afternoon", time.Date(2024, 3, 1, 7, 30, 0, 0, time.UTC), "3:30 PM"},
		{"morning", time.Date(2024, 3, 1, 1, 5, 0, 0, time.UTC), "9:05 AM"},
		{"midnight SGT", time.Date(2024, 3, 1, 16, 0, 0, 0, time.UTC), "12:00 AM"},
		{"no zero padding", time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC), "2:00 PM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSGT(tt.in))
		})
	}
}

func Test_FormatCheckInMessage(t *testing.T) {
	msg := FormatCheckInMessage("Ann Tan", "ABC Centre", time.Date(2024, 3, 1, 7, 30, 0, 0, time.UTC))
	assert.Equal(t, "Ann Tan checked in at ABC Centre at 3:30 PM", msg)
}

func Test_Session_Valid(t *testing.T) {
	s := NewSession("staff-1", "Alice", 8*time.Hour)
	assert.True(t, s.Valid(time.Now().UTC()))
	assert.False(t, s.Valid(time.Now().UTC().Add(9*time.Hour)))
}
