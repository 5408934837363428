// Package pagination implements opaque cursors for newest-first session lists.
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

var ErrInvalidCursor = errors.New("invalid cursor")

// Cursor names the last session handed out on the previous page. Session
// logs are append-only, so the ID alone fixes where the next page resumes.
type Cursor struct {
	SessionID uuid.UUID `json:"sid"`
	Date      string    `json:"date,omitempty"`
}

// After returns the cursor resuming below the given session.
func After(sessionID uuid.UUID, date string) Cursor {
	return Cursor{SessionID: sessionID, Date: date}
}

// String renders the cursor as an opaque URL-safe token.
func (c Cursor) String() string {
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(data)
}

// Parse reads a token produced by Cursor.String. An empty token yields
// ok == false and no error.
func Parse(token string) (c Cursor, ok bool, err error) {
	if token == "" {
		return Cursor{}, false, nil
	}
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, false, ErrInvalidCursor
	}
	if err := json.Unmarshal(data, &c); err != nil || c.SessionID == uuid.Nil {
		return Cursor{}, false, ErrInvalidCursor
	}
	return c, true, nil
}

// Clamp maps a requested page size into [1, MaxLimit], with non-positive
// requests falling back to DefaultLimit.
func Clamp(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// Page is one slice of a list plus whether anything follows it.
type Page[T any] struct {
	Items   []T
	HasMore bool
}

// Cut turns a lookahead fetch of up to limit+1 items into a page of at most
// limit items.
func Cut[T any](fetched []T, limit int) Page[T] {
	if len(fetched) > limit {
		return Page[T]{Items: fetched[:limit], HasMore: true}
	}
	return Page[T]{Items: fetched}
}
