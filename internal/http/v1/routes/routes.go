// Package routes wires the v1 API operations.
package routes

import (
	"net/url"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/huma-contacts/internal/http/v1/contacts"
	"github.com/janisto/huma-contacts/internal/platform/auth"
	"github.com/janisto/huma-contacts/internal/platform/timeutil"
	contactsvc "github.com/janisto/huma-contacts/internal/service/contact"
)

// Register wires all HTTP routes into the provided API router.
func Register(api huma.API, verifier auth.Verifier, contactService *contactsvc.Service, dates timeutil.DateFormat) {
	// Apply auth middleware for protected endpoints
	api.UseMiddleware(auth.NewAuthMiddleware(api, verifier))

	contacts.Register(api, contactService, verifier, dates, apiPrefix(api))
}

func apiPrefix(api huma.API) string {
	for _, s := range api.OpenAPI().Servers {
		if u, err := url.Parse(s.URL); err == nil && u.Path != "" {
			return u.Path
		}
	}
	return ""
}
