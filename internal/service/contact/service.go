package contact

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	applog "github.com/janisto/huma-contacts/internal/platform/logging"
)

// SaveRequest is a validated create-or-update request.
type SaveRequest struct {
	// Identifier names the contact to update. Empty means create.
	Identifier string
	// Image is an optional http(s) or data URI for the thumbnail.
	Image   string
	Payload Payload
}

// SaveResult reports the outcome of Save.
type SaveResult struct {
	ID      string
	Created bool
}

// Service runs address book operations against a Gateway. Every operation requires
// a non-empty owner and fails with ErrPermissionDenied otherwise.
type Service struct {
	store        Gateway
	images       ImageLoader
	strictLookup bool
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithStrictLookup makes Save fail when looking up the target contact fails,
// instead of falling back to creating a new contact.
func WithStrictLookup() ServiceOption {
	return func(s *Service) {
		s.strictLookup = true
	}
}

// NewService creates a Service.
func NewService(store Gateway, images ImageLoader, opts ...ServiceOption) *Service {
	s := &Service{store: store, images: images}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save looks up the target contact, merges the payload into it, loads the image and
// persists the result once. Nothing is written if any step fails.
func (s *Service) Save(ctx context.Context, owner string, req SaveRequest) (SaveResult, error) {
	if owner == "" {
		return SaveResult{}, ErrPermissionDenied
	}
	existing, err := s.lookup(ctx, owner, req.Identifier)
	if err != nil {
		return SaveResult{}, err
	}

	plan := Reconcile(existing, req.Payload)

	if req.Image != "" {
		data, err := s.images.Load(ctx, req.Image)
		if err != nil {
			return SaveResult{}, err
		}
		plan.Contact.ImageData = data
	}

	res, err := s.store.Persist(ctx, owner, plan)
	if err != nil {
		return SaveResult{}, fmt.Errorf("persisting contact: %w", err)
	}
	return SaveResult(res), nil
}

func (s *Service) lookup(ctx context.Context, owner, id string) (*Contact, error) {
	if id == "" {
		return nil, nil
	}
	existing, err := s.store.FetchByID(ctx, owner, id)
	switch {
	case err == nil:
		return existing, nil
	case errors.Is(err, ErrNotFound):
		return nil, nil
	case s.strictLookup:
		return nil, fmt.Errorf("looking up contact %s: %w", id, err)
	default:
		applog.LogWarn(ctx, "contact lookup failed, creating new contact",
			zap.String("contactId", id),
			zap.Error(err),
		)
		return nil, nil
	}
}

// List returns every contact of owner.
func (s *Service) List(ctx context.Context, owner string) ([]Contact, error) {
	if owner == "" {
		return nil, ErrPermissionDenied
	}
	return s.store.FetchAll(ctx, owner)
}

// Search returns the owner's contacts whose names contain name. An empty name lists all.
func (s *Service) Search(ctx context.Context, owner, name string) ([]Contact, error) {
	if owner == "" {
		return nil, ErrPermissionDenied
	}
	if normalizeQuery(name) == "" {
		return s.List(ctx, owner)
	}
	return s.store.SearchByName(ctx, owner, name)
}

// Delete removes a contact.
func (s *Service) Delete(ctx context.Context, owner, id string) error {
	if owner == "" {
		return ErrPermissionDenied
	}
	return s.store.Delete(ctx, owner, id)
}

// Groups returns every group title used in the owner's address book with its member
// count, ordered by title.
func (s *Service) Groups(ctx context.Context, owner string) ([]Group, error) {
	all, err := s.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, c := range all {
		for _, g := range c.Groups {
			counts[g]++
		}
	}
	groups := make([]Group, 0, len(counts))
	for title, n := range counts {
		groups = append(groups, Group{Title: title, Members: n})
	}
	slices.SortFunc(groups, func(a, b Group) int { return strings.Compare(a.Title, b.Title) })
	return groups, nil
}

// ContactGroups maps each contact ID to its group titles. Contacts without groups
// are left out.
func (s *Service) ContactGroups(ctx context.Context, owner string) (map[string][]string, error) {
	all, err := s.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	memberships := make(map[string][]string)
	for _, c := range all {
		if len(c.Groups) > 0 {
			memberships[c.ID] = c.Groups
		}
	}
	return memberships, nil
}
