package enums

import "fmt"

// ParticipantStatus maps to challenge_participants.status.
type ParticipantStatus string

const (
	ParticipantStatusJoined    ParticipantStatus = "joined"
	ParticipantStatusForfeited ParticipantStatus = "forfeited"
	ParticipantStatusCompleted ParticipantStatus = "completed"
)

var validParticipantStatuses = []ParticipantStatus{
	ParticipantStatusJoined,
	ParticipantStatusForfeited,
	ParticipantStatusCompleted,
}

func (s ParticipantStatus) IsValid() bool {
	for _, candidate := range validParticipantStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

func ParseParticipantStatus(value string) (ParticipantStatus, error) {
	for _, candidate := range validParticipantStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid participant status %q", value)
}
