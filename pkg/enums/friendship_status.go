package enums

import "fmt"

// FriendshipStatus maps to friendships.status.
type FriendshipStatus string

const (
	FriendshipStatusRequested FriendshipStatus = "requested"
	FriendshipStatusAccepted  FriendshipStatus = "accepted"
)

func (s FriendshipStatus) IsValid() bool {
	return s == FriendshipStatusRequested || s == FriendshipStatusAccepted
}

// FriendAction is the addressee's answer to a pending request.
type FriendAction string

const (
	FriendActionAccept  FriendAction = "accept"
	FriendActionDecline FriendAction = "decline"
)

func ParseFriendAction(value string) (FriendAction, error) {
	switch FriendAction(value) {
	case FriendActionAccept, FriendActionDecline:
		return FriendAction(value), nil
	}
	return "", fmt.Errorf("invalid friend action %q", value)
}
