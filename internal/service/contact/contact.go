// Package contact implements per-user address books: the reconciliation engine that
// merges caller-supplied partial records into stored contacts, the store gateway it
// persists through, and the save pipeline around both.
package contact

import (
	"errors"
	"strings"
	"time"
)

// Service errors
var (
	ErrNotFound         = errors.New("contact not found")
	ErrPermissionDenied = errors.New("contacts permission denied")
)

// Type distinguishes people from organizations.
type Type string

const (
	TypePerson       Type = "person"
	TypeOrganization Type = "organization"
)

// Valid reports whether t is a known contact type.
func (t Type) Valid() bool {
	return t == TypePerson || t == TypeOrganization
}

// Date is a calendar date with no time-of-day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// PhoneNumber is a labeled phone number.
type PhoneNumber struct {
	Label  string
	Number string
}

// Email is a labeled email address.
type Email struct {
	Label   string
	Address string
}

// URLAddress is a labeled web address.
type URLAddress struct {
	Label string
	URL   string
}

// PostalAddress is a labeled mailing address.
type PostalAddress struct {
	Label      string
	Street     string
	State      string
	City       string
	Country    string
	PostalCode string
}

// SocialProfile is a labeled account on a social service.
type SocialProfile struct {
	Label          string
	Username       string
	URLString      string
	Service        string
	UserIdentifier string
}

// Contact is one address book entry. An empty ID means it has not been stored yet.
type Contact struct {
	ID               string
	NamePrefix       string
	GivenName        string
	MiddleName       string
	FamilyName       string
	NameSuffix       string
	OrganizationName string
	JobTitle         string
	Type             Type
	Birthday         *Date
	ImageData        []byte

	PhoneNumbers    []PhoneNumber
	Emails          []Email
	URLAddresses    []URLAddress
	PostalAddresses []PostalAddress
	SocialProfiles  []SocialProfile

	// Groups holds the titles of the groups the contact belongs to.
	Groups []string
}

// DisplayName joins the given and family names.
func (c *Contact) DisplayName() string {
	return strings.TrimSpace(c.GivenName + " " + c.FamilyName)
}

// Clone returns a deep copy of c.
func (c *Contact) Clone() Contact {
	out := *c
	if c.Birthday != nil {
		b := *c.Birthday
		out.Birthday = &b
	}
	out.ImageData = cloneSlice(c.ImageData)
	out.PhoneNumbers = cloneSlice(c.PhoneNumbers)
	out.Emails = cloneSlice(c.Emails)
	out.URLAddresses = cloneSlice(c.URLAddresses)
	out.PostalAddresses = cloneSlice(c.PostalAddresses)
	out.SocialProfiles = cloneSlice(c.SocialProfiles)
	out.Groups = cloneSlice(c.Groups)
	return out
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

// matchesName reports whether the lowercased query is a substring of any name part
// or of the "given family" join.
func (c *Contact) matchesName(query string) bool {
	for _, part := range []string{c.GivenName, c.MiddleName, c.FamilyName, c.GivenName + " " + c.FamilyName} {
		if strings.Contains(strings.ToLower(part), query) {
			return true
		}
	}
	return false
}

// PostalCandidate is a proposed postal address. A nil Address marks a malformed entry.
type PostalCandidate struct {
	Label   string
	Address *PostalAddress
}

// SocialCandidate is a proposed social profile. A nil Profile marks a malformed entry.
type SocialCandidate struct {
	Label   string
	Profile *SocialProfile
}

// Payload is a caller-supplied partial contact. Nil scalars leave the stored value
// untouched; a non-nil pointer overwrites it, empty string included. ClearBirthday
// removes a stored birthday and wins over Birthday.
type Payload struct {
	NamePrefix       *string
	GivenName        *string
	MiddleName       *string
	FamilyName       *string
	NameSuffix       *string
	OrganizationName *string
	JobTitle         *string
	Type             *Type
	Birthday         *Date
	ClearBirthday    bool

	PhoneNumbers    []PhoneNumber
	Emails          []Email
	URLAddresses    []URLAddress
	PostalAddresses []PostalCandidate
	SocialProfiles  []SocialCandidate
	Groups          []string
}

// Group summarizes one group title across an address book.
type Group struct {
	Title   string
	Members int
}

// MergePlan is the output of Reconcile, consumed once by Gateway.Persist.
type MergePlan struct {
	IsNew   bool
	Contact Contact
}

// PersistResult reports where a plan was written.
type PersistResult struct {
	ID      string
	Created bool
}
