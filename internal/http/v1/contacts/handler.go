// Package contacts exposes the address book over HTTP.
package contacts

import (
	"cmp"
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/janisto/huma-contacts/internal/platform/auth"
	applog "github.com/janisto/huma-contacts/internal/platform/logging"
	"github.com/janisto/huma-contacts/internal/platform/pagination"
	"github.com/janisto/huma-contacts/internal/platform/timeutil"
	contactsvc "github.com/janisto/huma-contacts/internal/service/contact"
)

const (
	cursorType       = "contact"
	permissionDenied = "User denied access to contacts"
)

var bearerAuth = []map[string][]string{{"bearerAuth": {}}}

// Register registers contact endpoints.
func Register(api huma.API, svc *contactsvc.Service, verifier auth.Verifier, dates timeutil.DateFormat, prefix string) {
	p := projector{dates: dates}

	huma.Register(api, huma.Operation{
		OperationID: "get-permissions",
		Method:      http.MethodGet,
		Path:        "/permissions",
		Summary:     "Check contacts permission",
		Description: "Reports whether the supplied bearer token grants access to the caller's contacts.",
		Tags:        []string{"Contacts"},
	}, func(ctx context.Context, input *PermissionsInput) (*PermissionsOutput, error) {
		out := &PermissionsOutput{}
		out.Body.Granted = auth.Granted(ctx, verifier, input.Authorization)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-contacts",
		Method:      http.MethodGet,
		Path:        "/contacts",
		Summary:     "List contacts",
		Description: "Returns the caller's contacts ordered by display name. Use the cursor from the Link header to page.",
		Tags:        []string{"Contacts"},
		Security:    bearerAuth,
	}, func(ctx context.Context, input *ContactsListInput) (*ContactsListOutput, error) {
		user := auth.UserFromContext(ctx)
		if user == nil {
			return nil, huma.Error403Forbidden(permissionDenied)
		}

		found, err := svc.List(ctx, user.UID)
		if err != nil {
			return nil, mapServiceError(ctx, err)
		}
		return paginate(p.projectAll(found), input.Params, prefix+"/contacts", url.Values{})
	})

	huma.Register(api, huma.Operation{
		OperationID: "search-contacts",
		Method:      http.MethodGet,
		Path:        "/contacts/search",
		Summary:     "Search contacts by name",
		Description: "Returns contacts whose given, middle or family name contains the search string. An empty search string lists all contacts.",
		Tags:        []string{"Contacts"},
		Security:    bearerAuth,
	}, func(ctx context.Context, input *ContactsSearchInput) (*ContactsListOutput, error) {
		user := auth.UserFromContext(ctx)
		if user == nil {
			return nil, huma.Error403Forbidden(permissionDenied)
		}

		found, err := svc.Search(ctx, user.UID, input.SearchString)
		if err != nil {
			return nil, mapServiceError(ctx, err)
		}
		query := url.Values{}
		if input.SearchString != "" {
			query.Set("searchString", input.SearchString)
		}
		return paginate(p.projectAll(found), input.Params, prefix+"/contacts/search", query)
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-groups",
		Method:      http.MethodGet,
		Path:        "/groups",
		Summary:     "List contact groups",
		Description: "Returns the group titles used in the caller's address book with member counts.",
		Tags:        []string{"Contacts"},
		Security:    bearerAuth,
	}, func(ctx context.Context, _ *struct{}) (*GroupsOutput, error) {
		user := auth.UserFromContext(ctx)
		if user == nil {
			return nil, huma.Error403Forbidden(permissionDenied)
		}

		groups, err := svc.Groups(ctx, user.UID)
		if err != nil {
			return nil, mapServiceError(ctx, err)
		}
		out := &GroupsOutput{}
		out.Body.Groups = make([]Group, 0, len(groups))
		for _, g := range groups {
			out.Body.Groups = append(out.Body.Groups, Group{Title: g.Title, MemberCount: g.Members})
		}
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-contact-groups",
		Method:      http.MethodGet,
		Path:        "/contacts/groups",
		Summary:     "List group memberships",
		Description: "Returns the group titles of every contact that belongs to at least one group.",
		Tags:        []string{"Contacts"},
		Security:    bearerAuth,
	}, func(ctx context.Context, _ *struct{}) (*ContactGroupsOutput, error) {
		user := auth.UserFromContext(ctx)
		if user == nil {
			return nil, huma.Error403Forbidden(permissionDenied)
		}

		memberships, err := svc.ContactGroups(ctx, user.UID)
		if err != nil {
			return nil, mapServiceError(ctx, err)
		}
		out := &ContactGroupsOutput{}
		out.Body.Memberships = memberships
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "save-contact",
		Method:      http.MethodPut,
		Path:        "/contacts",
		Summary:     "Create or update a contact",
		Description: "Updates the contact named by identifier, or creates one when no identifier is given or it does not exist. " +
			"Emails, phone numbers, URLs, postal addresses and social profiles are appended unless an equal entry already exists.",
		Tags:     []string{"Contacts"},
		Security: bearerAuth,
	}, func(ctx context.Context, input *ContactSaveInput) (*ContactSaveOutput, error) {
		user := auth.UserFromContext(ctx)
		if user == nil {
			return nil, huma.Error403Forbidden(permissionDenied)
		}

		req, err := toSaveRequest(&input.Body, dates)
		if err != nil {
			return nil, err
		}

		res, err := svc.Save(ctx, user.UID, req)
		if err != nil {
			return nil, mapServiceError(ctx, err)
		}

		out := &ContactSaveOutput{}
		out.Body.ContactID = res.ID
		out.Body.Result = ResultUpdated
		if res.Created {
			out.Body.Result = ResultCreated
		}
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-contact",
		Method:        http.MethodDelete,
		Path:          "/contacts/{contactId}",
		Summary:       "Delete a contact",
		Description:   "Permanently deletes one of the caller's contacts.",
		Tags:          []string{"Contacts"},
		DefaultStatus: http.StatusNoContent,
		Security:      bearerAuth,
	}, func(ctx context.Context, input *ContactDeleteInput) (*struct{}, error) {
		user := auth.UserFromContext(ctx)
		if user == nil {
			return nil, huma.Error403Forbidden(permissionDenied)
		}

		if err := svc.Delete(ctx, user.UID, input.ContactID); err != nil {
			return nil, mapServiceError(ctx, err)
		}
		return nil, nil
	})
}

func paginate(items []Contact, params pagination.Params, baseURL string, query url.Values) (*ContactsListOutput, error) {
	cursor, err := pagination.DecodeCursor(params.Cursor)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid cursor format")
	}

	result, err := pagination.Paginate(items, pagination.Page[Contact]{
		Cursor:  cursor,
		Limit:   params.PageLimit(),
		Type:    cursorType,
		ID:      func(c Contact) string { return c.ContactID },
		BaseURL: baseURL,
		Query:   query,
	})
	if err != nil {
		return nil, huma.Error400BadRequest("cursor does not match this listing")
	}

	return &ContactsListOutput{
		Link: result.LinkHeader,
		Body: ListData{
			Contacts: result.Items,
			Total:    result.Total,
		},
	}, nil
}

func toSaveRequest(body *SaveContactBody, dates timeutil.DateFormat) (contactsvc.SaveRequest, error) {
	payload := contactsvc.Payload{
		NamePrefix:       body.NamePrefix,
		GivenName:        body.GivenName,
		MiddleName:       body.MiddleName,
		FamilyName:       body.FamilyName,
		NameSuffix:       body.NameSuffix,
		OrganizationName: body.OrganizationName,
		JobTitle:         body.JobTitle,
		Groups:           body.Groups,
	}
	if body.ContactType != nil {
		t := contactsvc.Type(*body.ContactType)
		payload.Type = &t
	}
	switch {
	case body.Birthday == nil:
	case *body.Birthday == "":
		payload.ClearBirthday = true
	default:
		year, month, day, err := dates.Parse(*body.Birthday)
		if err != nil {
			return contactsvc.SaveRequest{}, huma.Error422UnprocessableEntity("invalid birthday, expected YYYY-MM-DD")
		}
		payload.Birthday = &contactsvc.Date{Year: year, Month: month, Day: day}
	}

	for _, e := range body.EmailAddresses {
		payload.Emails = append(payload.Emails, contactsvc.Email{Label: e.Label, Address: e.Address})
	}
	for _, n := range body.PhoneNumbers {
		payload.PhoneNumbers = append(payload.PhoneNumbers, contactsvc.PhoneNumber{Label: n.Label, Number: n.Number})
	}
	for _, u := range body.URLAddresses {
		payload.URLAddresses = append(payload.URLAddresses, contactsvc.URLAddress{Label: u.Label, URL: u.URL})
	}
	for _, a := range body.PostalAddresses {
		c := contactsvc.PostalCandidate{Label: a.Label}
		if a.Address != nil {
			c.Address = &contactsvc.PostalAddress{
				Street:     a.Address.Street,
				State:      a.Address.State,
				City:       a.Address.City,
				Country:    a.Address.Country,
				PostalCode: a.Address.PostalCode,
			}
		}
		payload.PostalAddresses = append(payload.PostalAddresses, c)
	}
	for _, s := range body.SocialProfiles {
		c := contactsvc.SocialCandidate{Label: s.Label}
		if s.Profile != nil {
			c.Profile = &contactsvc.SocialProfile{
				Username:  s.Profile.Username,
				URLString: s.Profile.URLString,
				Service:   s.Profile.Service,
			}
		}
		payload.SocialProfiles = append(payload.SocialProfiles, c)
	}

	return contactsvc.SaveRequest{
		Identifier: body.Identifier,
		Image:      body.Image,
		Payload:    payload,
	}, nil
}

func mapServiceError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, contactsvc.ErrNotFound):
		return huma.Error404NotFound("contact not found")
	case errors.Is(err, contactsvc.ErrPermissionDenied):
		return huma.Error403Forbidden(permissionDenied)
	case errors.Is(err, contactsvc.ErrInvalidImageURI):
		return huma.Error422UnprocessableEntity("invalid image URL")
	case errors.Is(err, contactsvc.ErrImageUnreadable):
		reason := cmp.Or(contactsvc.ImageFailureReason(err), contactsvc.ImageReasonFetch)
		applog.LogWarn(ctx, "contact image load failed", zap.Error(err), zap.String("category", "image"))
		return huma.Error422UnprocessableEntity("error loading image data: " + reason)
	default:
		applog.LogError(ctx, "contact store failure", err, zap.String("category", "store"))
		return huma.Error500InternalServerError(err.Error())
	}
}
