package contacts

import (
	"encoding/base64"

	"github.com/janisto/huma-contacts/internal/platform/timeutil"
	contactsvc "github.com/janisto/huma-contacts/internal/service/contact"
)

// PhoneNumber is a labeled phone number in list responses.
type PhoneNumber struct {
	Label  string `json:"label"  doc:"Entry label"  example:"mobile"`
	Number string `json:"number" doc:"Phone number" example:"+358401234567"`
}

// Email is a labeled email address in list responses.
type Email struct {
	Label   string `json:"label"   doc:"Entry label"   example:"home"`
	Address string `json:"address" doc:"Email address" example:"john@example.com"`
}

// Contact is the list/search projection of a stored contact.
type Contact struct {
	ContactID        string        `json:"contactId"                  doc:"Contact identifier"                  example:"4f0c7c52-8f3e-4c55-9a8e-0d7f1b2c3d4e"`
	DisplayName      string        `json:"displayName"                doc:"Given and family name"               example:"John Doe"`
	PhoneNumbers     []PhoneNumber `json:"phoneNumbers"               doc:"Phone numbers"`
	Emails           []Email       `json:"emails"                     doc:"Email addresses"`
	PhotoThumbnail   string        `json:"photoThumbnail,omitempty"   doc:"Thumbnail as a base64 data URI"      example:"data:image/png;base64,iVBORw0KGgo="`
	Birthday         string        `json:"birthday,omitempty"         doc:"Birthday (YYYY-MM-DD, UTC)"          example:"1990-03-04"`
	OrganizationName string        `json:"organizationName,omitempty" doc:"Organization"                        example:"Acme"`
	OrganizationRole string        `json:"organizationRole,omitempty" doc:"Job title within the organization"   example:"Engineer"`
}

// projector renders stored contacts with a fixed date format.
type projector struct {
	dates timeutil.DateFormat
}

func (p projector) project(c *contactsvc.Contact) Contact {
	out := Contact{
		ContactID:    c.ID,
		DisplayName:  c.DisplayName(),
		PhoneNumbers: make([]PhoneNumber, 0, len(c.PhoneNumbers)),
		Emails:       make([]Email, 0, len(c.Emails)),
	}
	for _, n := range c.PhoneNumbers {
		out.PhoneNumbers = append(out.PhoneNumbers, PhoneNumber{Label: n.Label, Number: n.Number})
	}
	for _, e := range c.Emails {
		out.Emails = append(out.Emails, Email{Label: e.Label, Address: e.Address})
	}
	if len(c.ImageData) > 0 {
		out.PhotoThumbnail = "data:image/png;base64," + base64.StdEncoding.EncodeToString(c.ImageData)
	}
	if c.Birthday != nil {
		out.Birthday = p.dates.Format(c.Birthday.Year, c.Birthday.Month, c.Birthday.Day)
	}
	if c.OrganizationName != "" {
		out.OrganizationName = c.OrganizationName
		out.OrganizationRole = c.JobTitle
	}
	return out
}

func (p projector) projectAll(contacts []contactsvc.Contact) []Contact {
	out := make([]Contact, 0, len(contacts))
	for i := range contacts {
		out = append(out, p.project(&contacts[i]))
	}
	return out
}
