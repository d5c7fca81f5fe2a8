package model

import (
	"testing"
	"time"
)

func TestSessionStatusIsValid(t *testing.T) {
	valid := []SessionStatus{SessionPlanned, SessionCompleted, SessionCanceled}
	for _, status := range valid {
		if !status.IsValid() {
			t.Errorf("%s should be valid", status)
		}
	}

	invalid := []SessionStatus{"", "paused", "PLANNED", "done"}
	for _, status := range invalid {
		if status.IsValid() {
			t.Errorf("%q should be invalid", status)
		}
	}
}

func TestSessionOverlaps(t *testing.T) {
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	session := &StudySession{
		StartAt: base,
		EndAt:   base.Add(2 * time.Hour), // 10:00 - 12:00
	}

	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want bool
	}{
		{"window_inside_session", base.Add(30 * time.Minute), base.Add(time.Hour), true},
		{"session_inside_window", base.Add(-time.Hour), base.Add(3 * time.Hour), true},
		{"overlap_at_start", base.Add(-time.Hour), base.Add(time.Hour), true},
		{"overlap_at_end", base.Add(time.Hour), base.Add(3 * time.Hour), true},
		{"touching_start", base.Add(-time.Hour), base, true},
		{"touching_end", base.Add(2 * time.Hour), base.Add(3 * time.Hour), true},
		{"entirely_before", base.Add(-2 * time.Hour), base.Add(-time.Hour), false},
		{"entirely_after", base.Add(3 * time.Hour), base.Add(4 * time.Hour), false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := session.Overlaps(test.from, test.to); got != test.want {
				t.Fatalf("Overlaps(%v, %v) = %v, want %v", test.from, test.to, got, test.want)
			}
		})
	}
}
