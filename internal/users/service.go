package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/timerapp/timerapp-backend/pkg/db"
	"github.com/timerapp/timerapp-backend/pkg/db/models"
	pkgerrors "github.com/timerapp/timerapp-backend/pkg/errors"
	"github.com/timerapp/timerapp-backend/pkg/pagination"
	"gorm.io/gorm"
)

const (
	maxUsernameLength    = 32
	maxDisplayNameLength = 64
	maxBioLength         = 280
	maxAvatarURLLength   = 2048
)

var (
	emailKey    = db.UniqueConstraint{Name: "users_email_key", Table: "users", Columns: []string{"email"}}
	usernameKey = db.UniqueConstraint{Name: "users_username_key", Table: "users", Columns: []string{"username"}}

	searchLimits = pagination.Limits{Default: 20, Max: 50}
)

// Service manages user identities and profiles.
type Service interface {
	// EnsureUser makes sure a row exists for an authenticated id.
	EnsureUser(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	// DevSignIn reuses the user owning the email or creates a new one. The
	// boolean reports whether a user was created.
	DevSignIn(ctx context.Context, input DevSignInInput) (*UserDTO, bool, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input ProfileUpdate) (*UserDTO, error)
	Search(ctx context.Context, params SearchParams) ([]PublicProfile, error)
	Badges(ctx context.Context, id uuid.UUID) ([]Badge, error)
}

type userRepository interface {
	Create(ctx context.Context, user *models.User) error
	InsertIfMissing(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, values map[string]any) (bool, error)
	Search(ctx context.Context, contains, prefix string, limit int) ([]models.User, error)
	ListBadges(ctx context.Context, userID uuid.UUID) ([]badgeRow, error)
}

type service struct {
	repo userRepository
	now  func() time.Time
}

func NewService(repo userRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{repo: repo, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *service) EnsureUser(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	now := s.now()
	if err := s.repo.InsertIfMissing(ctx, &models.User{ID: id, CreatedAt: now, UpdatedAt: now}); err != nil {
		return db.WrapError(err, "ensure user")
	}
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, db.WrapError(err, "load user")
	}
	return FromModel(user), nil
}

func (s *service) DevSignIn(ctx context.Context, input DevSignInInput) (*UserDTO, bool, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.TrimSpace(input.Username)
	if email == "" && username == "" {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "email or username required")
	}

	if email != "" {
		existing, err := s.findByEmail(ctx, email)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			return FromModel(existing), false, nil
		}
	}

	now := s.now()
	user := &models.User{
		ID:          uuid.New(),
		Email:       optional(email),
		Username:    optional(username),
		DisplayName: optional(strings.TrimSpace(input.DisplayName)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		switch {
		case email != "" && db.IsUniqueViolation(err, emailKey):
			// lost a race on the email; the winner's row is the answer
			existing, findErr := s.findByEmail(ctx, email)
			if findErr != nil {
				return nil, false, findErr
			}
			if existing != nil {
				return FromModel(existing), false, nil
			}
			return nil, false, db.WrapError(err, "create user")
		case db.IsUniqueViolation(err, usernameKey):
			return nil, false, usernameTaken(err)
		default:
			return nil, false, db.WrapError(err, "create user")
		}
	}
	return FromModel(user), true, nil
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, input ProfileUpdate) (*UserDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	values, err := profileValues(input)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return s.Get(ctx, id)
	}
	values["updated_at"] = s.now()

	found, err := s.repo.UpdateProfile(ctx, id, values)
	if err != nil {
		if db.IsUniqueViolation(err, usernameKey) {
			return nil, usernameTaken(err)
		}
		return nil, db.WrapError(err, "update profile")
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return s.Get(ctx, id)
}

func (s *service) Search(ctx context.Context, params SearchParams) ([]PublicProfile, error) {
	query := strings.ToLower(strings.TrimSpace(params.Query))
	if query == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "q is required").
			WithDetails(map[string]any{"field": "q"})
	}
	escaped := escapeLike(query)

	found, err := s.repo.Search(ctx, "%"+escaped+"%", escaped+"%", searchLimits.Normalize(params.Limit))
	if err != nil {
		return nil, db.WrapError(err, "search users")
	}
	profiles := make([]PublicProfile, 0, len(found))
	for _, user := range found {
		profiles = append(profiles, ToPublicProfile(user))
	}
	return profiles, nil
}

func (s *service) Badges(ctx context.Context, id uuid.UUID) ([]Badge, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	rows, err := s.repo.ListBadges(ctx, id)
	if err != nil {
		return nil, db.WrapError(err, "list badges")
	}
	badges := make([]Badge, 0, len(rows))
	for _, row := range rows {
		badges = append(badges, Badge{
			Key:         row.Key,
			Title:       row.Title,
			Description: row.Description,
			Icon:        row.Icon,
			EarnedAt:    row.EarnedAt,
		})
	}
	return badges, nil
}

func (s *service) findByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, db.WrapError(err, "lookup user")
	}
	return user, nil
}

func profileValues(input ProfileUpdate) (map[string]any, error) {
	values := map[string]any{}
	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username == "" || strings.IndexFunc(username, unicode.IsSpace) >= 0 {
			return nil, fieldError("username", "username must be a single non-empty word")
		}
		if utf8.RuneCountInString(username) > maxUsernameLength {
			return nil, fieldError("username", fmt.Sprintf("username exceeds %d characters", maxUsernameLength))
		}
		values["username"] = username
	}

	optionalFields := []struct {
		column string
		value  *string
		max    int
	}{
		{"display_name", input.DisplayName, maxDisplayNameLength},
		{"avatar_url", input.AvatarURL, maxAvatarURLLength},
		{"bio", input.Bio, maxBioLength},
	}
	for _, field := range optionalFields {
		if field.value == nil {
			continue
		}
		trimmed := strings.TrimSpace(*field.value)
		if utf8.RuneCountInString(trimmed) > field.max {
			return nil, fieldError(field.column, fmt.Sprintf("%s exceeds %d characters", field.column, field.max))
		}
		values[field.column] = optional(trimmed)
	}

	if input.IsPrivate != nil {
		values["is_private"] = *input.IsPrivate
	}
	return values, nil
}

func usernameTaken(err error) *pkgerrors.Error {
	return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "username already taken").
		WithDetails(map[string]any{"field": "username"})
}

func fieldError(field, message string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).
		WithDetails(map[string]any{"field": field})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
