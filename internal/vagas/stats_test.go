package vagas

import "testing"

func TestUsageStats(t *testing.T) {
	tests := []struct {
		count    int64
		hours    int64
		duration string
	}{
		{0, 0, "0h 0m"},
		{3, 0, "0h 45m"},
		{4, 1, "1h 0m"},
		{7, 1, "1h 45m"},
		{10, 2, "2h 30m"},
	}
	for _, tt := range tests {
		s := NewUsageStats(tt.count)
		if s.HoursSaved != tt.hours {
			t.Errorf("HoursSaved(%d) = %d, want %d", tt.count, s.HoursSaved, tt.hours)
		}
		if got := s.Duration(); got != tt.duration {
			t.Errorf("Duration(%d) = %q, want %q", tt.count, got, tt.duration)
		}
	}
}
