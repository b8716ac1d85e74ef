package contact

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	applog "github.com/janisto/huma-contacts/internal/platform/logging"
)

// faultyStore wraps MemoryStore with injectable failures and call counters.
type faultyStore struct {
	*MemoryStore
	fetchErr   error
	persistErr error
	persists   int
}

func (f *faultyStore) FetchByID(ctx context.Context, owner, id string) (*Contact, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.MemoryStore.FetchByID(ctx, owner, id)
}

func (f *faultyStore) Persist(ctx context.Context, owner string, plan MergePlan) (PersistResult, error) {
	f.persists++
	if f.persistErr != nil {
		return PersistResult{}, f.persistErr
	}
	return f.MemoryStore.Persist(ctx, owner, plan)
}

type stubImages struct {
	data  []byte
	err   error
	calls int
}

func (s *stubImages) Load(context.Context, string) ([]byte, error) {
	s.calls++
	return s.data, s.err
}

func newTestService(opts ...ServiceOption) (*Service, *faultyStore, *stubImages) {
	store := &faultyStore{MemoryStore: NewMemoryStore()}
	images := &stubImages{data: pngBytes}
	return NewService(store, images, opts...), store, images
}

func TestServiceSaveCreatesWithoutIdentifier(t *testing.T) {
	svc, store, _ := newTestService()

	res, err := svc.Save(context.Background(), "user-1", SaveRequest{
		Payload: Payload{GivenName: ptr("John")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Created || res.ID == "" {
		t.Fatalf("expected created, got %+v", res)
	}
	if store.persists != 1 {
		t.Fatalf("expected one persist, got %d", store.persists)
	}
}

func TestServiceSaveUpdatesExisting(t *testing.T) {
	svc, store, _ := newTestService()
	ids := seed(t, store.MemoryStore, "user-1", Contact{GivenName: "John", Emails: []Email{{Label: "home", Address: "a@x.com"}}})

	res, err := svc.Save(context.Background(), "user-1", SaveRequest{
		Identifier: ids[0],
		Payload:    Payload{Emails: []Email{{Label: "work", Address: "a@x.com"}, {Label: "work", Address: "b@x.com"}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Created || res.ID != ids[0] {
		t.Fatalf("expected update of %s, got %+v", ids[0], res)
	}

	got, _ := store.MemoryStore.FetchByID(context.Background(), "user-1", ids[0])
	if len(got.Emails) != 2 || got.Emails[0].Label != "home" || got.Emails[1].Address != "b@x.com" {
		t.Fatalf("unexpected emails %v", got.Emails)
	}
}

func TestServiceSaveUnknownIdentifierCreates(t *testing.T) {
	svc, _, _ := newTestService()

	res, err := svc.Save(context.Background(), "user-1", SaveRequest{Identifier: "missing"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Created || res.ID == "missing" {
		t.Fatalf("expected a fresh contact, got %+v", res)
	}
}

func TestServiceSaveLookupFailureDegradesToCreate(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	ctx := applog.WithLogger(context.Background(), zap.New(core))

	svc, store, _ := newTestService()
	store.fetchErr = errors.New("store offline")

	res, err := svc.Save(ctx, "user-1", SaveRequest{
		Identifier: "c1",
		Payload:    Payload{GivenName: ptr("John")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Created {
		t.Fatalf("expected creation after failed lookup, got %+v", res)
	}
	if logs.FilterMessage("contact lookup failed, creating new contact").Len() != 1 {
		t.Fatalf("expected a lookup warning, got %v", logs.All())
	}
}

func TestServiceSaveStrictLookupSurfacesError(t *testing.T) {
	svc, store, _ := newTestService(WithStrictLookup())
	boom := errors.New("store offline")
	store.fetchErr = boom

	_, err := svc.Save(context.Background(), "user-1", SaveRequest{Identifier: "c1"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected lookup error, got %v", err)
	}
	if store.persists != 0 {
		t.Fatalf("expected no persist, got %d", store.persists)
	}
}

func TestServiceSaveStrictLookupStillCreatesOnNotFound(t *testing.T) {
	svc, _, _ := newTestService(WithStrictLookup())

	res, err := svc.Save(context.Background(), "user-1", SaveRequest{Identifier: "missing"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Created {
		t.Fatalf("expected created, got %+v", res)
	}
}

func TestServiceSaveLoadsImage(t *testing.T) {
	svc, store, images := newTestService()

	res, err := svc.Save(context.Background(), "user-1", SaveRequest{Image: "https://example.com/a.png"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if images.calls != 1 {
		t.Fatalf("expected one image load, got %d", images.calls)
	}
	got, _ := store.MemoryStore.FetchByID(context.Background(), "user-1", res.ID)
	if len(got.ImageData) != len(pngBytes) {
		t.Fatalf("expected image data to be stored, got %d bytes", len(got.ImageData))
	}
}

func TestServiceSaveImageFailureAbortsSave(t *testing.T) {
	svc, store, images := newTestService()
	images.err = ErrInvalidImageURI

	_, err := svc.Save(context.Background(), "user-1", SaveRequest{Image: "ftp://x"})
	if !errors.Is(err, ErrInvalidImageURI) {
		t.Fatalf("expected ErrInvalidImageURI, got %v", err)
	}
	if store.persists != 0 {
		t.Fatalf("expected nothing persisted, got %d", store.persists)
	}
	all, _ := store.FetchAll(context.Background(), "user-1")
	if len(all) != 0 {
		t.Fatalf("expected empty store, got %v", all)
	}
}

func TestServiceSavePersistFailure(t *testing.T) {
	svc, store, _ := newTestService()
	boom := errors.New("write failed")
	store.persistErr = boom

	if _, err := svc.Save(context.Background(), "user-1", SaveRequest{}); !errors.Is(err, boom) {
		t.Fatalf("expected persist error, got %v", err)
	}
}

func TestServiceSearchEmptyListsAll(t *testing.T) {
	svc, store, _ := newTestService()
	seed(t, store.MemoryStore, "user-1", Contact{GivenName: "John"}, Contact{GivenName: "Jane"})

	all, err := svc.Search(context.Background(), "user-1", "  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 contacts, got %d", len(all))
	}

	some, _ := svc.Search(context.Background(), "user-1", "jane")
	if len(some) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(some))
	}
}

func TestServiceDelete(t *testing.T) {
	svc, store, _ := newTestService()
	ids := seed(t, store.MemoryStore, "user-1", Contact{GivenName: "John"})

	if err := svc.Delete(context.Background(), "user-1", ids[0]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(context.Background(), "user-1", ids[0]); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceGroups(t *testing.T) {
	svc, store, _ := newTestService()
	ids := seed(t, store.MemoryStore, "user-1",
		Contact{GivenName: "John", Groups: []string{"Work", "Family"}},
		Contact{GivenName: "Jane", Groups: []string{"Family"}},
		Contact{GivenName: "Solo"},
	)
	seed(t, store.MemoryStore, "user-2", Contact{GivenName: "Other", Groups: []string{"Club"}})

	groups, err := svc.Groups(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Group{{Title: "Family", Members: 2}, {Title: "Work", Members: 1}}
	if len(groups) != len(want) || groups[0] != want[0] || groups[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, groups)
	}

	memberships, err := svc.ContactGroups(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(memberships) != 2 {
		t.Fatalf("expected 2 contacts with groups, got %v", memberships)
	}
	if got := memberships[ids[1]]; len(got) != 1 || got[0] != "Family" {
		t.Fatalf("unexpected groups for Jane: %v", got)
	}
	if _, ok := memberships[ids[2]]; ok {
		t.Fatal("expected contact without groups to be left out")
	}
}

func TestServiceRequiresOwner(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Save(ctx, "", SaveRequest{}); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("Save: expected ErrPermissionDenied, got %v", err)
	}
	if _, err := svc.List(ctx, ""); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("List: expected ErrPermissionDenied, got %v", err)
	}
	if _, err := svc.Search(ctx, "", "x"); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("Search: expected ErrPermissionDenied, got %v", err)
	}
	if err := svc.Delete(ctx, "", "x"); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("Delete: expected ErrPermissionDenied, got %v", err)
	}
	if _, err := svc.Groups(ctx, ""); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("Groups: expected ErrPermissionDenied, got %v", err)
	}
	if _, err := svc.ContactGroups(ctx, ""); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("ContactGroups: expected ErrPermissionDenied, got %v", err)
	}
	if store.persists != 0 {
		t.Errorf("expected no persist, got %d", store.persists)
	}
}
