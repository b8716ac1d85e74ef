package contacts

import "github.com/janisto/huma-contacts/internal/platform/pagination"

// PermissionsInput for GET /permissions
type PermissionsInput struct {
	Authorization string `header:"Authorization" doc:"Optional bearer token to check"`
}

// ContactsListInput for GET /contacts
type ContactsListInput struct {
	pagination.Params
}

// ContactsSearchInput for GET /contacts/search
type ContactsSearchInput struct {
	pagination.Params
	SearchString string `query:"searchString" maxLength:"200" doc:"Name fragment; empty lists all contacts" example:"john"`
}

// ContactDeleteInput for DELETE /contacts/{contactId}
type ContactDeleteInput struct {
	ContactID string `path:"contactId" minLength:"1" maxLength:"128" doc:"Contact identifier"`
}

// EmailInput is a candidate email address.
type EmailInput struct {
	Label   string `json:"label,omitempty"   maxLength:"100" doc:"Entry label"                example:"home"`
	Address string `json:"address,omitempty" maxLength:"320" doc:"Email address; empty is ignored" example:"john@example.com"`
}

// PhoneNumberInput is a candidate phone number.
type PhoneNumberInput struct {
	Label  string `json:"label,omitempty"  maxLength:"100" doc:"Entry label"                 example:"mobile"`
	Number string `json:"number,omitempty" maxLength:"64"  doc:"Phone number; empty is ignored" example:"+358401234567"`
}

// URLAddressInput is a candidate web address.
type URLAddressInput struct {
	Label string `json:"label,omitempty" maxLength:"100"  doc:"Entry label"           example:"blog"`
	URL   string `json:"url,omitempty"   maxLength:"2048" doc:"URL; empty is ignored" example:"https://example.com"`
}

// PostalAddressValue holds the structured part of a postal address.
type PostalAddressValue struct {
	Street     string `json:"street,omitempty"     maxLength:"200" example:"1 Main St"`
	State      string `json:"state,omitempty"      maxLength:"100" example:"CA"`
	City       string `json:"city,omitempty"       maxLength:"100" example:"Los Angeles"`
	Country    string `json:"country,omitempty"    maxLength:"100" example:"US"`
	PostalCode string `json:"postalCode,omitempty" maxLength:"20"  example:"90001"`
}

// PostalAddressInput is a candidate postal address. Entries without an address are ignored.
type PostalAddressInput struct {
	Label   string              `json:"label,omitempty"   maxLength:"100" doc:"Entry label" example:"home"`
	Address *PostalAddressValue `json:"address,omitempty" doc:"Structured address"`
}

// SocialProfileValue holds the structured part of a social profile.
type SocialProfileValue struct {
	Username  string `json:"username,omitempty"  maxLength:"200"  example:"johndoe"`
	URLString string `json:"urlString,omitempty" maxLength:"2048" example:"https://twitter.com/johndoe"`
	Service   string `json:"service,omitempty"   maxLength:"100"  example:"twitter"`
}

// SocialProfileInput is a candidate social profile. Entries without a profile are ignored.
type SocialProfileInput struct {
	Label   string              `json:"label,omitempty"   maxLength:"100" doc:"Entry label" example:"twitter"`
	Profile *SocialProfileValue `json:"profile,omitempty" doc:"Structured profile"`
}

// SaveContactBody is the create-or-update payload. Omitted scalars leave stored values
// unchanged; supplied ones, empty strings included, overwrite them. An empty birthday
// clears the stored one.
type SaveContactBody struct {
	Identifier       string               `json:"identifier,omitempty"       maxLength:"128"                       doc:"Contact to update; omit to create"`
	ContactType      *string              `json:"contactType,omitempty"      enum:"person,organization"            doc:"Contact type"     example:"person"`
	NamePrefix       *string              `json:"namePrefix,omitempty"       maxLength:"50"                        doc:"Name prefix"      example:"Dr"`
	GivenName        *string              `json:"givenName,omitempty"        maxLength:"100"                       doc:"Given name"       example:"John"`
	MiddleName       *string              `json:"middleName,omitempty"       maxLength:"100"                       doc:"Middle name"      example:"Quincy"`
	FamilyName       *string              `json:"familyName,omitempty"       maxLength:"100"                       doc:"Family name"      example:"Doe"`
	NameSuffix       *string              `json:"nameSuffix,omitempty"       maxLength:"50"                        doc:"Name suffix"      example:"Jr"`
	JobTitle         *string              `json:"jobTitle,omitempty"         maxLength:"100"                       doc:"Job title"        example:"Engineer"`
	OrganizationName *string              `json:"organizationName,omitempty" maxLength:"200"                       doc:"Organization"     example:"Acme"`
	Birthday         *string              `json:"birthday,omitempty"         maxLength:"10"                        doc:"Birthday (YYYY-MM-DD)" example:"1990-03-04"`
	Image            string               `json:"image,omitempty"            maxLength:"1048576"                   doc:"http(s) or data URI of the thumbnail"`
	EmailAddresses   []EmailInput         `json:"emailAddresses,omitempty"   maxItems:"100"                        doc:"Emails to add"`
	PhoneNumbers     []PhoneNumberInput   `json:"phoneNumbers,omitempty"     maxItems:"100"                        doc:"Phone numbers to add"`
	URLAddresses     []URLAddressInput    `json:"urlAddresses,omitempty"     maxItems:"100"                        doc:"URLs to add"`
	PostalAddresses  []PostalAddressInput `json:"postalAddresses,omitempty"  maxItems:"100"                        doc:"Postal addresses to add"`
	SocialProfiles   []SocialProfileInput `json:"socialProfiles,omitempty"   maxItems:"100"                        doc:"Social profiles to add"`
	Groups           []string             `json:"groups,omitempty"           maxItems:"50"                         doc:"Group titles to add the contact to"`
}

// ContactSaveInput for PUT /contacts
type ContactSaveInput struct {
	Body SaveContactBody
}
