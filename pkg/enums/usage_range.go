package enums

import (
	"fmt"
	"time"
)

// UsageRange selects the look-back window for usage summaries and leaderboards.
type UsageRange string

const (
	UsageRangeDay  UsageRange = "day"
	UsageRangeWeek UsageRange = "week"
)

var validUsageRanges = []UsageRange{UsageRangeDay, UsageRangeWeek}

func (r UsageRange) IsValid() bool {
	for _, candidate := range validUsageRanges {
		if candidate == r {
			return true
		}
	}
	return false
}

// Since returns the start of the window ending at now.
func (r UsageRange) Since(now time.Time) time.Time {
	if r == UsageRangeWeek {
		return now.Add(-7 * 24 * time.Hour)
	}
	return now.Add(-24 * time.Hour)
}

// ParseUsageRange converts raw input into UsageRange; empty input means day.
func ParseUsageRange(value string) (UsageRange, error) {
	if value == "" {
		return UsageRangeDay, nil
	}
	for _, candidate := range validUsageRanges {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid usage range %q", value)
}
