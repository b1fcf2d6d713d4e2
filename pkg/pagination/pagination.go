package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 50
	// MaxLimit caps how many rows any cursor query can request.
	MaxLimit = 200
)

// Limits carries a configurable default/max pair.
type Limits struct {
	Default int
	Max     int
}

// DefaultLimits mirrors DefaultLimit and MaxLimit.
var DefaultLimits = Limits{Default: DefaultLimit, Max: MaxLimit}

// Cursor represents the pagination cursor components.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// Normalize applies the default to non-positive limits and clamps to the max.
// A configured max never exceeds MaxLimit.
func (l Limits) Normalize(limit int) int {
	def, max := l.Default, l.Max
	if def <= 0 {
		def = DefaultLimit
	}
	if max <= 0 || max > MaxLimit {
		max = MaxLimit
	}
	if def > max {
		def = max
	}
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// NormalizeLimit enforces the package default and maximum limits.
func NormalizeLimit(limit int) int {
	return DefaultLimits.Normalize(limit)
}

// EncodeCursor builds a URL-safe base64 cursor string from the provided values.
func EncodeCursor(cursor Cursor) string {
	payload := fmt.Sprintf("%s|%s", cursor.CreatedAt.UTC().Format(time.RFC3339Nano), cursor.ID.String())
	return base64.RawURLEncoding.EncodeToString([]byte(payload))
}

// ParseCursor decodes the cursor string back into its components.
// An empty value yields a nil cursor (first page).
func ParseCursor(value string) (*Cursor, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	decoded, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid cursor format")
	}

	t, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid cursor timestamp: %w", err)
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid cursor id: %w", err)
	}
	return &Cursor{
		CreatedAt: t.UTC(),
		ID:        id,
	}, nil
}
