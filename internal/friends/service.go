package friends

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/timerapp/timerapp-backend/internal/users"
	"github.com/timerapp/timerapp-backend/pkg/db"
	"github.com/timerapp/timerapp-backend/pkg/db/models"
	"github.com/timerapp/timerapp-backend/pkg/enums"
	pkgerrors "github.com/timerapp/timerapp-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service manages friend requests and the accepted friend graph.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]users.PublicProfile, error)
	// Request sends a pending request unless the pair are already friends.
	// A pending request in the other direction is left untouched.
	Request(ctx context.Context, input RequestInput) (*RequestResult, error)
	Requests(ctx context.Context, userID uuid.UUID) (*Requests, error)
	// Respond answers a pending request addressed to the caller. Accepting
	// stores the pair in both directions; declining drops the request.
	Respond(ctx context.Context, input RespondInput) (*RespondResult, error)
	FriendIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo Repository
	tx   txRunner
	now  func() time.Time
}

func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("friends repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]users.PublicProfile, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	found, err := s.repo.ListFriends(ctx, userID)
	if err != nil {
		return nil, db.WrapError(err, "list friends")
	}
	profiles := make([]users.PublicProfile, 0, len(found))
	for _, user := range found {
		profiles = append(profiles, users.ToPublicProfile(user))
	}
	return profiles, nil
}

func (s *service) Request(ctx context.Context, input RequestInput) (*RequestResult, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	target, err := s.resolveTarget(ctx, input)
	if err != nil {
		return nil, err
	}
	if target.ID == input.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot befriend yourself").
			WithDetails(map[string]any{"field": "to_user_id"})
	}

	friends, err := s.repo.AreFriends(ctx, input.UserID, target.ID)
	if err != nil {
		return nil, db.WrapError(err, "check friendship")
	}
	result := &RequestResult{Status: ResultAlreadyFriends, User: users.ToPublicProfile(*target)}
	if friends {
		return result, nil
	}

	if err := s.repo.UpsertRequest(ctx, input.UserID, target.ID, s.now()); err != nil {
		return nil, db.WrapError(err, "send friend request")
	}
	result.Status = ResultRequested
	return result, nil
}

func (s *service) resolveTarget(ctx context.Context, input RequestInput) (*models.User, error) {
	var (
		target *models.User
		err    error
	)
	username := strings.TrimSpace(input.ToUsername)
	switch {
	case input.ToUserID != nil && *input.ToUserID != uuid.Nil:
		target, err = s.repo.FindUser(ctx, *input.ToUserID)
	case username != "":
		target, err = s.repo.FindUserByUsername(ctx, username)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "to_user_id or to_username required")
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, db.WrapError(err, "load user")
	}
	return target, nil
}

func (s *service) Requests(ctx context.Context, userID uuid.UUID) (*Requests, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	incoming, err := s.repo.ListIncoming(ctx, userID)
	if err != nil {
		return nil, db.WrapError(err, "list incoming requests")
	}
	outgoing, err := s.repo.ListOutgoing(ctx, userID)
	if err != nil {
		return nil, db.WrapError(err, "list outgoing requests")
	}
	return &Requests{Incoming: toPending(incoming), Outgoing: toPending(outgoing)}, nil
}

func (s *service) Respond(ctx context.Context, input RespondInput) (*RespondResult, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	if input.RequesterUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "requester_user_id is required").
			WithDetails(map[string]any{"field": "requester_user_id"})
	}
	action, err := enums.ParseFriendAction(strings.TrimSpace(input.Action))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "action must be accept or decline").
			WithDetails(map[string]any{"field": "action"})
	}

	now := s.now()
	result := &RespondResult{}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if action == enums.FriendActionDecline {
			found, err := repo.DeleteRequest(ctx, input.RequesterUserID, input.UserID)
			if err != nil {
				return db.WrapError(err, "decline friend request")
			}
			if !found {
				return requestNotFound()
			}
			result.Status = ResultDeclined
			return nil
		}

		found, err := repo.Accept(ctx, input.RequesterUserID, input.UserID, now)
		if err != nil {
			return db.WrapError(err, "accept friend request")
		}
		if !found {
			return requestNotFound()
		}
		if err := repo.UpsertAccepted(ctx, input.UserID, input.RequesterUserID, now); err != nil {
			return db.WrapError(err, "mirror friendship")
		}
		result.Status = ResultAccepted
		return nil
	})
	if err != nil {
		return nil, db.WrapError(err, "respond to friend request")
	}
	return result, nil
}

func (s *service) FriendIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	ids, err := s.repo.FriendIDs(ctx, userID)
	if err != nil {
		return nil, db.WrapError(err, "list friend ids")
	}
	return ids, nil
}

func requestNotFound() *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "friend request not found")
}

func toPending(rows []pendingRow) []PendingRequest {
	out := make([]PendingRequest, 0, len(rows))
	for _, row := range rows {
		out = append(out, PendingRequest{
			User: users.PublicProfile{
				UserID:      row.UserID,
				Username:    row.Username,
				DisplayName: row.DisplayName,
				AvatarURL:   row.AvatarURL,
				IsPrivate:   row.IsPrivate,
			},
			RequestedAt: row.RequestedAt,
		})
	}
	return out
}
