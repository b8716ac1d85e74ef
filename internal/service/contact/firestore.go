package contact

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	applog "github.com/janisto/huma-contacts/internal/platform/logging"
)

const (
	usersCollection    = "users"
	contactsCollection = "contacts"
	auditResourceType  = "contact"
)

// categorizeError converts errors to audit-safe categories.
func categorizeError(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case status.Code(err) == codes.AlreadyExists:
		return "already_exists"
	default:
		return "internal_error"
	}
}

type firestoreDate struct {
	Year  int `firestore:"year"`
	Month int `firestore:"month"`
	Day   int `firestore:"day"`
}

type firestoreLabeled struct {
	Label string `firestore:"label"`
	Value string `firestore:"value"`
}

type firestorePostal struct {
	Label      string `firestore:"label"`
	Street     string `firestore:"street"`
	State      string `firestore:"state"`
	City       string `firestore:"city"`
	Country    string `firestore:"country"`
	PostalCode string `firestore:"postal_code"`
}

type firestoreSocial struct {
	Label          string `firestore:"label"`
	Username       string `firestore:"username"`
	URLString      string `firestore:"url_string"`
	Service        string `firestore:"service"`
	UserIdentifier string `firestore:"user_identifier"`
}

// firestoreContact maps to Firestore document structure.
type firestoreContact struct {
	NamePrefix       string             `firestore:"name_prefix"`
	GivenName        string             `firestore:"given_name"`
	MiddleName       string             `firestore:"middle_name"`
	FamilyName       string             `firestore:"family_name"`
	NameSuffix       string             `firestore:"name_suffix"`
	OrganizationName string             `firestore:"organization_name"`
	JobTitle         string             `firestore:"job_title"`
	Type             string             `firestore:"type"`
	Birthday         *firestoreDate     `firestore:"birthday"`
	ImageData        []byte             `firestore:"image_data"`
	PhoneNumbers     []firestoreLabeled `firestore:"phone_numbers"`
	Emails           []firestoreLabeled `firestore:"emails"`
	URLAddresses     []firestoreLabeled `firestore:"url_addresses"`
	PostalAddresses  []firestorePostal  `firestore:"postal_addresses"`
	SocialProfiles   []firestoreSocial  `firestore:"social_profiles"`
	Groups           []string           `firestore:"groups"`
	CreatedAt        time.Time          `firestore:"created_at"`
	UpdatedAt        time.Time          `firestore:"updated_at"`
}

func toFirestore(c *Contact) firestoreContact {
	fc := firestoreContact{
		NamePrefix:       c.NamePrefix,
		GivenName:        c.GivenName,
		MiddleName:       c.MiddleName,
		FamilyName:       c.FamilyName,
		NameSuffix:       c.NameSuffix,
		OrganizationName: c.OrganizationName,
		JobTitle:         c.JobTitle,
		Type:             string(c.Type),
		ImageData:        c.ImageData,
		Groups:           c.Groups,
	}
	if c.Birthday != nil {
		fc.Birthday = &firestoreDate{Year: c.Birthday.Year, Month: int(c.Birthday.Month), Day: c.Birthday.Day}
	}
	for _, p := range c.PhoneNumbers {
		fc.PhoneNumbers = append(fc.PhoneNumbers, firestoreLabeled{Label: p.Label, Value: p.Number})
	}
	for _, e := range c.Emails {
		fc.Emails = append(fc.Emails, firestoreLabeled{Label: e.Label, Value: e.Address})
	}
	for _, u := range c.URLAddresses {
		fc.URLAddresses = append(fc.URLAddresses, firestoreLabeled{Label: u.Label, Value: u.URL})
	}
	for _, a := range c.PostalAddresses {
		fc.PostalAddresses = append(fc.PostalAddresses, firestorePostal(a))
	}
	for _, s := range c.SocialProfiles {
		fc.SocialProfiles = append(fc.SocialProfiles, firestoreSocial(s))
	}
	return fc
}

func fromFirestore(id string, fc *firestoreContact) Contact {
	c := Contact{
		ID:               id,
		NamePrefix:       fc.NamePrefix,
		GivenName:        fc.GivenName,
		MiddleName:       fc.MiddleName,
		FamilyName:       fc.FamilyName,
		NameSuffix:       fc.NameSuffix,
		OrganizationName: fc.OrganizationName,
		JobTitle:         fc.JobTitle,
		Type:             Type(fc.Type),
		ImageData:        fc.ImageData,
		Groups:           fc.Groups,
	}
	if !c.Type.Valid() {
		c.Type = TypePerson
	}
	if fc.Birthday != nil {
		c.Birthday = &Date{Year: fc.Birthday.Year, Month: time.Month(fc.Birthday.Month), Day: fc.Birthday.Day}
	}
	for _, p := range fc.PhoneNumbers {
		c.PhoneNumbers = append(c.PhoneNumbers, PhoneNumber{Label: p.Label, Number: p.Value})
	}
	for _, e := range fc.Emails {
		c.Emails = append(c.Emails, Email{Label: e.Label, Address: e.Value})
	}
	for _, u := range fc.URLAddresses {
		c.URLAddresses = append(c.URLAddresses, URLAddress{Label: u.Label, URL: u.Value})
	}
	for _, a := range fc.PostalAddresses {
		c.PostalAddresses = append(c.PostalAddresses, PostalAddress(a))
	}
	for _, s := range fc.SocialProfiles {
		c.SocialProfiles = append(c.SocialProfiles, SocialProfile(s))
	}
	return c
}

// FirestoreStore implements Gateway using Firestore with transactions.
// Contacts live under users/{owner}/contacts/{id}.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) contacts(owner string) *firestore.CollectionRef {
	return s.client.Collection(usersCollection).Doc(owner).Collection(contactsCollection)
}

func (s *FirestoreStore) FetchAll(ctx context.Context, owner string) ([]Contact, error) {
	docs, err := s.contacts(owner).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}

	out := make([]Contact, 0, len(docs))
	for _, doc := range docs {
		var fc firestoreContact
		if err := doc.DataTo(&fc); err != nil {
			return nil, err
		}
		out = append(out, fromFirestore(doc.Ref.ID, &fc))
	}
	sortContacts(out)
	return out, nil
}

func (s *FirestoreStore) FetchByID(ctx context.Context, owner, id string) (*Contact, error) {
	doc, err := s.contacts(owner).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var fc firestoreContact
	if err := doc.DataTo(&fc); err != nil {
		return nil, err
	}
	c := fromFirestore(doc.Ref.ID, &fc)
	return &c, nil
}

// SearchByName filters the owner's contacts in memory; Firestore has no substring queries.
func (s *FirestoreStore) SearchByName(ctx context.Context, owner, name string) ([]Contact, error) {
	all, err := s.FetchAll(ctx, owner)
	if err != nil {
		return nil, err
	}
	query := normalizeQuery(name)
	out := []Contact{}
	for i := range all {
		if all[i].matchesName(query) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

// Persist writes the plan in a transaction. Updates of missing documents fail with ErrNotFound.
func (s *FirestoreStore) Persist(ctx context.Context, owner string, plan MergePlan) (PersistResult, error) {
	if plan.IsNew {
		return s.create(ctx, owner, &plan.Contact)
	}
	return s.update(ctx, owner, &plan.Contact)
}

func (s *FirestoreStore) create(ctx context.Context, owner string, c *Contact) (PersistResult, error) {
	id := uuid.NewString()
	docRef := s.contacts(owner).Doc(id)
	now := time.Now().UTC()

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		fc := toFirestore(c)
		fc.CreatedAt = now
		fc.UpdatedAt = now
		return tx.Create(docRef, fc)
	})
	if err != nil {
		s.audit(ctx, "create", owner, id, err)
		return PersistResult{}, err
	}
	s.audit(ctx, "create", owner, id, nil)
	return PersistResult{ID: id, Created: true}, nil
}

func (s *FirestoreStore) update(ctx context.Context, owner string, c *Contact) (PersistResult, error) {
	if c.ID == "" {
		return PersistResult{}, ErrNotFound
	}
	docRef := s.contacts(owner).Doc(c.ID)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}

		var prev firestoreContact
		if err := doc.DataTo(&prev); err != nil {
			return err
		}

		fc := toFirestore(c)
		fc.CreatedAt = prev.CreatedAt
		fc.UpdatedAt = time.Now().UTC()
		return tx.Set(docRef, fc)
	})
	if err != nil {
		s.audit(ctx, "update", owner, c.ID, err)
		return PersistResult{}, err
	}
	s.audit(ctx, "update", owner, c.ID, nil)
	return PersistResult{ID: c.ID}, nil
}

// Delete removes a contact using a transaction to ensure it exists.
func (s *FirestoreStore) Delete(ctx context.Context, owner, id string) error {
	docRef := s.contacts(owner).Doc(id)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(docRef); err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}
		return tx.Delete(docRef)
	})
	s.audit(ctx, "delete", owner, id, err)
	return err
}

// Ping reads at most one document to confirm Firestore is reachable.
func (s *FirestoreStore) Ping(ctx context.Context) error {
	_, err := s.client.Collection(usersCollection).Limit(1).Documents(ctx).GetAll()
	return err
}

func (s *FirestoreStore) audit(ctx context.Context, action, owner, id string, err error) {
	ev := applog.AuditEvent{
		Action:       action,
		UserID:       owner,
		ResourceType: auditResourceType,
		ResourceID:   id,
		Result:       applog.AuditSuccess,
	}
	if err != nil {
		ev.Result = applog.AuditFailure
		ev.Details = map[string]any{"error": categorizeError(err)}
	}
	applog.LogAuditEvent(ctx, ev)
}

// Compile-time interface check
var _ Gateway = (*FirestoreStore)(nil)
