package enums

import "fmt"

// ChallengeStatus maps to challenges.status.
type ChallengeStatus string

const (
	ChallengeStatusDraft     ChallengeStatus = "draft"
	ChallengeStatusActive    ChallengeStatus = "active"
	ChallengeStatusCompleted ChallengeStatus = "completed"
	ChallengeStatusCancelled ChallengeStatus = "cancelled"
)

var validChallengeStatuses = []ChallengeStatus{
	ChallengeStatusDraft,
	ChallengeStatusActive,
	ChallengeStatusCompleted,
	ChallengeStatusCancelled,
}

// IsValid reports whether the value matches a known challenge status.
func (s ChallengeStatus) IsValid() bool {
	for _, candidate := range validChallengeStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition may leave this status.
func (s ChallengeStatus) IsTerminal() bool {
	return s == ChallengeStatusCompleted || s == ChallengeStatusCancelled
}

// ParseChallengeStatus converts raw input into ChallengeStatus.
func ParseChallengeStatus(value string) (ChallengeStatus, error) {
	for _, candidate := range validChallengeStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid challenge status %q", value)
}
