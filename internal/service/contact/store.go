package contact

import (
	"cmp"
	"context"
	"slices"
	"strings"
)

// Gateway is the durable contact store. Each owner (an authenticated user ID) has
// its own address book. Results are ordered by display name, then ID.
type Gateway interface {
	FetchAll(ctx context.Context, owner string) ([]Contact, error)
	// FetchByID returns ErrNotFound when the contact does not exist.
	FetchByID(ctx context.Context, owner, id string) (*Contact, error)
	SearchByName(ctx context.Context, owner, name string) ([]Contact, error)
	// Persist creates the contact when plan.IsNew, otherwise replaces the stored
	// contact with plan.Contact.ID.
	Persist(ctx context.Context, owner string, plan MergePlan) (PersistResult, error)
	Delete(ctx context.Context, owner, id string) error
}

func sortContacts(contacts []Contact) {
	slices.SortFunc(contacts, func(a, b Contact) int {
		return cmp.Or(
			strings.Compare(strings.ToLower(a.DisplayName()), strings.ToLower(b.DisplayName())),
			strings.Compare(a.ID, b.ID),
		)
	})
}

func normalizeQuery(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
