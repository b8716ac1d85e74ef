package contact

import (
	"reflect"
	"testing"
	"time"
)

func ptr[T any](v T) *T { return &v }

func TestReconcileNewContactGetsEmail(t *testing.T) {
	plan := Reconcile(nil, Payload{
		Emails: []Email{{Label: "home", Address: "a@x.com"}},
	})

	if !plan.IsNew {
		t.Fatal("expected IsNew for nil existing")
	}
	want := []Email{{Label: "home", Address: "a@x.com"}}
	if !reflect.DeepEqual(plan.Contact.Emails, want) {
		t.Fatalf("expected %v, got %v", want, plan.Contact.Emails)
	}
	if plan.Contact.Type != TypePerson {
		t.Errorf("expected default type person, got %q", plan.Contact.Type)
	}
}

func TestReconcileDuplicateEmailKeepsOriginalLabel(t *testing.T) {
	existing := &Contact{ID: "c1", Emails: []Email{{Label: "home", Address: "a@x.com"}}}

	plan := Reconcile(existing, Payload{
		Emails: []Email{{Label: "work", Address: "a@x.com"}},
	})

	if plan.IsNew {
		t.Fatal("expected update for existing contact")
	}
	want := []Email{{Label: "home", Address: "a@x.com"}}
	if !reflect.DeepEqual(plan.Contact.Emails, want) {
		t.Fatalf("expected %v, got %v", want, plan.Contact.Emails)
	}
}

func TestReconcilePostalAddressDifferingInOneFieldIsAppended(t *testing.T) {
	base := PostalAddress{Street: "1 Main", State: "CA", City: "LA", Country: "US", PostalCode: "90001"}
	existing := &Contact{ID: "c1", PostalAddresses: []PostalAddress{base}}

	other := base
	other.PostalCode = "90002"
	plan := Reconcile(existing, Payload{
		PostalAddresses: []PostalCandidate{{Label: "work", Address: &other}},
	})

	if len(plan.Contact.PostalAddresses) != 2 {
		t.Fatalf("expected 2 addresses, got %v", plan.Contact.PostalAddresses)
	}
	if plan.Contact.PostalAddresses[1].PostalCode != "90002" || plan.Contact.PostalAddresses[1].Label != "work" {
		t.Errorf("unexpected appended address %+v", plan.Contact.PostalAddresses[1])
	}
}

func TestReconcileSkipsEmptyPhone(t *testing.T) {
	existing := &Contact{ID: "c1", PhoneNumbers: []PhoneNumber{{Label: "home", Number: "555"}}}

	plan := Reconcile(existing, Payload{
		PhoneNumbers: []PhoneNumber{{Label: "mobile", Number: ""}},
	})

	want := []PhoneNumber{{Label: "home", Number: "555"}}
	if !reflect.DeepEqual(plan.Contact.PhoneNumbers, want) {
		t.Fatalf("expected %v, got %v", want, plan.Contact.PhoneNumbers)
	}
}

func TestReconcileSkipsEmptyPrimaryValues(t *testing.T) {
	plan := Reconcile(nil, Payload{
		Emails:       []Email{{Label: "home"}},
		PhoneNumbers: []PhoneNumber{{Label: "mobile"}},
		URLAddresses: []URLAddress{{Label: "blog"}},
	})

	if len(plan.Contact.Emails) != 0 || len(plan.Contact.PhoneNumbers) != 0 || len(plan.Contact.URLAddresses) != 0 {
		t.Fatalf("expected empty primaries to be skipped, got %+v", plan.Contact)
	}
}

func TestReconcileSkipsMalformedStructuredCandidates(t *testing.T) {
	plan := Reconcile(nil, Payload{
		PostalAddresses: []PostalCandidate{{Label: "home"}},
		SocialProfiles:  []SocialCandidate{{Label: "twitter"}},
	})

	if len(plan.Contact.PostalAddresses) != 0 || len(plan.Contact.SocialProfiles) != 0 {
		t.Fatalf("expected malformed candidates to be skipped, got %+v", plan.Contact)
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	existing := &Contact{ID: "c1", Emails: []Email{{Label: "home", Address: "a@x.com"}}}
	incoming := Payload{Emails: []Email{
		{Label: "work", Address: "b@x.com"},
		{Label: "other", Address: "c@x.com"},
	}}

	first := Reconcile(existing, incoming)
	second := Reconcile(&first.Contact, incoming)

	if !reflect.DeepEqual(first.Contact.Emails, second.Contact.Emails) {
		t.Fatalf("second merge changed emails: %v vs %v", first.Contact.Emails, second.Contact.Emails)
	}
}

func TestReconcilePreservesOrder(t *testing.T) {
	existing := &Contact{ID: "c1", URLAddresses: []URLAddress{
		{Label: "a", URL: "https://z.example"},
		{Label: "b", URL: "https://y.example"},
	}}

	plan := Reconcile(existing, Payload{URLAddresses: []URLAddress{
		{Label: "c", URL: "https://b.example"},
		{Label: "d", URL: "https://y.example"},
		{Label: "e", URL: "https://a.example"},
	}})

	var got []string
	for _, u := range plan.Contact.URLAddresses {
		got = append(got, u.URL)
	}
	want := []string{"https://z.example", "https://y.example", "https://b.example", "https://a.example"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestReconcileDropsRepeatedCandidates(t *testing.T) {
	plan := Reconcile(nil, Payload{PhoneNumbers: []PhoneNumber{
		{Label: "home", Number: "555"},
		{Label: "work", Number: "555"},
	}})

	want := []PhoneNumber{{Label: "home", Number: "555"}}
	if !reflect.DeepEqual(plan.Contact.PhoneNumbers, want) {
		t.Fatalf("expected %v, got %v", want, plan.Contact.PhoneNumbers)
	}
}

func TestReconcileEmailEqualityIsCaseSensitive(t *testing.T) {
	existing := &Contact{ID: "c1", Emails: []Email{{Label: "home", Address: "a@x.com"}}}

	plan := Reconcile(existing, Payload{Emails: []Email{{Label: "home", Address: "A@x.com"}}})

	if len(plan.Contact.Emails) != 2 {
		t.Fatalf("expected case-different address to be appended, got %v", plan.Contact.Emails)
	}
}

func TestReconcileStructuralEqualityIgnoresLabels(t *testing.T) {
	existing := &Contact{
		ID:              "c1",
		PostalAddresses: []PostalAddress{{Label: "home", Street: "1 Main", City: "LA"}},
		SocialProfiles:  []SocialProfile{{Label: "twitter", Username: "jd", Service: "twitter", UserIdentifier: "42"}},
	}

	plan := Reconcile(existing, Payload{
		PostalAddresses: []PostalCandidate{{Label: "work", Address: &PostalAddress{Street: "1 Main", City: "LA"}}},
		SocialProfiles: []SocialCandidate{{Label: "other", Profile: &SocialProfile{
			Username: "jd", Service: "twitter", UserIdentifier: "99",
		}}},
	})

	if len(plan.Contact.PostalAddresses) != 1 {
		t.Errorf("expected postal duplicate to be dropped, got %v", plan.Contact.PostalAddresses)
	}
	if len(plan.Contact.SocialProfiles) != 1 || plan.Contact.SocialProfiles[0].UserIdentifier != "42" {
		t.Errorf("expected social duplicate to be dropped, got %v", plan.Contact.SocialProfiles)
	}
}

func TestReconcileNewSocialProfileClearsUserIdentifier(t *testing.T) {
	plan := Reconcile(nil, Payload{SocialProfiles: []SocialCandidate{{
		Label:   "twitter",
		Profile: &SocialProfile{Username: "jd", URLString: "https://twitter.com/jd", Service: "twitter", UserIdentifier: "42"},
	}}})

	want := []SocialProfile{{Label: "twitter", Username: "jd", URLString: "https://twitter.com/jd", Service: "twitter"}}
	if !reflect.DeepEqual(plan.Contact.SocialProfiles, want) {
		t.Fatalf("expected %v, got %v", want, plan.Contact.SocialProfiles)
	}
}

func TestReconcileExistenceDependsOnlyOnExisting(t *testing.T) {
	if !Reconcile(nil, Payload{GivenName: ptr("x")}).IsNew {
		t.Error("nil existing must be new")
	}
	if Reconcile(&Contact{}, Payload{}).IsNew {
		t.Error("non-nil existing must not be new, even without an ID")
	}
}

func TestReconcileScalarOverrides(t *testing.T) {
	existing := &Contact{
		ID:         "c1",
		GivenName:  "John",
		FamilyName: "Doe",
		JobTitle:   "Engineer",
		Type:       TypePerson,
	}

	plan := Reconcile(existing, Payload{
		GivenName: ptr("Jane"),
		JobTitle:  ptr(""),
		Type:      ptr(TypeOrganization),
		Birthday:  &Date{Year: 1990, Month: time.March, Day: 4},
	})

	c := plan.Contact
	if c.GivenName != "Jane" {
		t.Errorf("expected given name override, got %q", c.GivenName)
	}
	if c.FamilyName != "Doe" {
		t.Errorf("expected omitted family name to be unchanged, got %q", c.FamilyName)
	}
	if c.JobTitle != "" {
		t.Errorf("expected explicit empty job title to overwrite, got %q", c.JobTitle)
	}
	if c.Type != TypeOrganization {
		t.Errorf("expected organization type, got %q", c.Type)
	}
	if c.Birthday == nil || *c.Birthday != (Date{Year: 1990, Month: time.March, Day: 4}) {
		t.Errorf("unexpected birthday %v", c.Birthday)
	}
	if c.ID != "c1" {
		t.Errorf("expected ID to carry over, got %q", c.ID)
	}
}

func TestReconcileGroupsAreUnioned(t *testing.T) {
	existing := &Contact{ID: "c1", Groups: []string{"Family"}}

	plan := Reconcile(existing, Payload{Groups: []string{"Work", "Family", "", "Work", "family"}})

	want := []string{"Family", "Work", "family"}
	if len(plan.Contact.Groups) != len(want) {
		t.Fatalf("expected %v, got %v", want, plan.Contact.Groups)
	}
	for i, g := range want {
		if plan.Contact.Groups[i] != g {
			t.Fatalf("expected %v, got %v", want, plan.Contact.Groups)
		}
	}
	if len(existing.Groups) != 1 {
		t.Fatalf("expected existing groups untouched, got %v", existing.Groups)
	}
}

func TestReconcileClearBirthday(t *testing.T) {
	existing := &Contact{ID: "c1", Birthday: &Date{Year: 1990, Month: time.March, Day: 4}}

	if plan := Reconcile(existing, Payload{}); plan.Contact.Birthday == nil {
		t.Fatal("expected omitted birthday to be kept")
	}
	plan := Reconcile(existing, Payload{ClearBirthday: true, Birthday: &Date{Year: 2000, Month: time.May, Day: 1}})
	if plan.Contact.Birthday != nil {
		t.Fatalf("expected birthday to be cleared, got %v", plan.Contact.Birthday)
	}
	if existing.Birthday == nil {
		t.Fatal("expected existing contact to keep its birthday")
	}
}

func TestReconcileDoesNotMutateExisting(t *testing.T) {
	existing := &Contact{
		ID:        "c1",
		GivenName: "John",
		Emails:    make([]Email, 1, 4),
	}
	existing.Emails[0] = Email{Label: "home", Address: "a@x.com"}

	plan := Reconcile(existing, Payload{
		GivenName: ptr("Jane"),
		Emails:    []Email{{Label: "work", Address: "b@x.com"}},
	})

	if existing.GivenName != "John" || len(existing.Emails) != 1 {
		t.Fatalf("existing was mutated: %+v", existing)
	}
	if spare := existing.Emails[:2]; spare[1].Address != "" {
		t.Fatalf("merge wrote into existing backing array: %v", spare)
	}
	if len(plan.Contact.Emails) != 2 {
		t.Fatalf("expected 2 emails in plan, got %v", plan.Contact.Emails)
	}
}
