package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/timerapp/timerapp-backend/pkg/db"
	"github.com/timerapp/timerapp-backend/pkg/db/models"
	"github.com/timerapp/timerapp-backend/pkg/enums"
	pkgerrors "github.com/timerapp/timerapp-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service stores per-user client preferences.
type Service interface {
	// Get returns nil when the user never saved settings.
	Get(ctx context.Context, userID uuid.UUID) (*Settings, error)
	Update(ctx context.Context, userID uuid.UUID, input UpdateInput) (*Settings, error)
}

type settingsRepository interface {
	Find(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error)
	Upsert(ctx context.Context, row *models.UserSettings, columns []string) error
}

type service struct {
	repo settingsRepository
	now  func() time.Time
}

func NewService(repo settingsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{repo: repo, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*Settings, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	row, err := s.repo.Find(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, db.WrapError(err, "load settings")
	}
	return fromModel(row), nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, input UpdateInput) (*Settings, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}

	now := s.now()
	row := &models.UserSettings{
		UserID:    userID,
		ThemeMode: enums.ThemeModeSystem,
		Palette:   enums.PaletteA,
		CreatedAt: now,
		UpdatedAt: now,
	}
	columns := make([]string, 0, 3)
	if input.ThemeMode != nil {
		mode, err := enums.ParseThemeMode(strings.TrimSpace(*input.ThemeMode))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "theme_mode must be system, light or dark").
				WithDetails(map[string]any{"field": "theme_mode"})
		}
		row.ThemeMode = mode
		columns = append(columns, "theme_mode")
	}
	if input.Palette != nil {
		palette, err := enums.ParsePalette(strings.TrimSpace(*input.Palette))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "palette must be one of a, b, c, d").
				WithDetails(map[string]any{"field": "palette"})
		}
		row.Palette = palette
		columns = append(columns, "palette")
	}
	columns = append(columns, "updated_at")

	if err := s.repo.Upsert(ctx, row, columns); err != nil {
		return nil, db.WrapError(err, "save settings")
	}

	saved, err := s.repo.Find(ctx, userID)
	if err != nil {
		return nil, db.WrapError(err, "reload settings")
	}
	return fromModel(saved), nil
}
