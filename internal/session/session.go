// Package session stores the per-user filter and sort selection of the dashboard.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/ortelius/vulnwatch-backend/model"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session not found")

// Session is one dashboard's view state.
type Session struct {
	ID        string            `json:"id"`
	Filters   model.FilterState `json:"filters"`
	Sort      model.SortState   `json:"sort"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Store persists sessions. Save replaces the stored value whole.
type Store interface {
	Get(ctx context.Context, id string) (Session, error)
	Save(ctx context.Context, s Session) error
	Delete(ctx context.Context, id string) error
}
