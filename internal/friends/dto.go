package friends

import (
	"time"

	"github.com/google/uuid"
	"github.com/timerapp/timerapp-backend/internal/users"
)

// Outcomes of a friend request.
const (
	ResultRequested      = "requested"
	ResultAlreadyFriends = "already_friends"
)

// Outcomes of answering a request.
const (
	ResultAccepted = "accepted"
	ResultDeclined = "declined"
)

// RequestInput names the target by id or, when ToUserID is nil, by username.
type RequestInput struct {
	UserID     uuid.UUID
	ToUserID   *uuid.UUID
	ToUsername string
}

type RequestResult struct {
	Status string              `json:"status"`
	User   users.PublicProfile `json:"user"`
}

type PendingRequest struct {
	User        users.PublicProfile `json:"user"`
	RequestedAt time.Time           `json:"requested_at"`
}

type Requests struct {
	Incoming []PendingRequest `json:"incoming"`
	Outgoing []PendingRequest `json:"outgoing"`
}

type RespondInput struct {
	UserID          uuid.UUID
	RequesterUserID uuid.UUID
	Action          string
}

type RespondResult struct {
	Status string `json:"status"`
}
