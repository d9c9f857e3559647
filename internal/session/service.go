package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ortelius/vulnwatch-backend/model"
)

// ErrUnknownDimension is returned when toggling a filter other than vendor, severity or product.
var ErrUnknownDimension = errors.New("unknown filter dimension")

// Filter dimensions that can be toggled value by value.
const (
	DimensionVendor   = "vendor"
	DimensionSeverity = "severity"
	DimensionProduct  = "product"
)

// Service applies view-state changes to stored sessions. Each change loads the
// current session, derives a new value and saves it whole; concurrent changes to
// the same session are last-write-wins.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService returns a service over store.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Create starts a session with no filters and the default sort.
func (s *Service) Create(ctx context.Context) (Session, error) {
	now := s.now().UTC()
	sess := Session{
		ID:        uuid.NewString(),
		Filters:   model.FilterState{},
		Sort:      model.DefaultSort(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Get returns the session.
func (s *Service) Get(ctx context.Context, id string) (Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s.store.Get(ctx, id)
}

// Delete removes the session.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// PatchFilters replaces the filter dimensions present in patch.
func (s *Service) PatchFilters(ctx context.Context, id string, patch model.FilterPatch) (Session, error) {
	if err := patch.Validate(); err != nil {
		return Session{}, err
	}
	return s.update(ctx, id, func(sess Session) (Session, error) {
		sess.Filters = sess.Filters.Apply(patch)
		return sess, nil
	})
}

// ToggleFilter adds value to a dimension, or removes it when already selected.
func (s *Service) ToggleFilter(ctx context.Context, id, dimension, value string) (Session, error) {
	var toggle func(model.FilterState) model.FilterState
	switch dimension {
	case DimensionVendor:
		toggle = func(f model.FilterState) model.FilterState { return f.ToggleVendor(value) }
	case DimensionProduct:
		toggle = func(f model.FilterState) model.FilterState { return f.ToggleProduct(value) }
	case DimensionSeverity:
		severity, err := model.ParseSeverity(value)
		if err != nil {
			return Session{}, err
		}
		toggle = func(f model.FilterState) model.FilterState { return f.ToggleSeverity(severity) }
	default:
		return Session{}, fmt.Errorf("%w: %q", ErrUnknownDimension, dimension)
	}

	return s.update(ctx, id, func(sess Session) (Session, error) {
		sess.Filters = toggle(sess.Filters)
		return sess, nil
	})
}

// ClearFilters resets every filter dimension.
func (s *Service) ClearFilters(ctx context.Context, id string) (Session, error) {
	return s.update(ctx, id, func(sess Session) (Session, error) {
		sess.Filters = sess.Filters.Cleared()
		return sess, nil
	})
}

// ToggleSort sorts by field, flipping the direction when it already is the sort column.
func (s *Service) ToggleSort(ctx context.Context, id, field string) (Session, error) {
	f, err := model.ParseSortField(field)
	if err != nil {
		return Session{}, err
	}
	return s.update(ctx, id, func(sess Session) (Session, error) {
		sess.Sort = sess.Sort.Toggle(f)
		return sess, nil
	})
}

func (s *Service) update(ctx context.Context, id string, change func(Session) (Session, error)) (Session, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}

	next, err := change(current)
	if err != nil {
		return Session{}, err
	}
	next.UpdatedAt = s.now().UTC()

	if err := s.store.Save(ctx, next); err != nil {
		return Session{}, err
	}
	return next, nil
}
