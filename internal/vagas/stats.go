package vagas

import "fmt"

// MinutesPerImage is the manual design time one generated image replaces.
const MinutesPerImage = 15

// UsageStats is the images-generated counter and its derived time saving.
type UsageStats struct {
	Count      int64 `json:"count"`
	HoursSaved int64 `json:"hoursSaved"`
}

// NewUsageStats derives the stats for count.
func NewUsageStats(count int64) UsageStats {
	return UsageStats{Count: count, HoursSaved: HoursSaved(count)}
}

// HoursSaved returns floor(count * MinutesPerImage / 60).
func HoursSaved(count int64) int64 {
	return count * MinutesPerImage / 60
}

// Duration formats the total saved time as "Xh Ym".
func (s UsageStats) Duration() string {
	minutes := s.Count * MinutesPerImage
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
