package contacts

// PermissionsOutput for GET /permissions
type PermissionsOutput struct {
	Body struct {
		Granted bool `json:"granted" doc:"Whether the caller may access contacts" example:"true"`
	}
}

// ListData is the response body for list and search.
type ListData struct {
	Contacts []Contact `json:"contacts" doc:"Contacts on this page"`
	Total    int       `json:"total"    doc:"Total number of matching contacts" example:"42"`
}

// ContactsListOutput wraps a page of contacts with pagination links.
type ContactsListOutput struct {
	Link string `header:"Link" doc:"RFC 8288 pagination links"`
	Body ListData
}

// Save outcomes.
const (
	ResultCreated = "created"
	ResultUpdated = "updated"
)

// ContactSaveOutput for PUT /contacts
type ContactSaveOutput struct {
	Body struct {
		Result    string `json:"result"    enum:"created,updated" doc:"Whether the contact was created or updated" example:"created"`
		ContactID string `json:"contactId" doc:"Identifier of the saved contact"`
	}
}

// Group is one group title and how many contacts belong to it.
type Group struct {
	Title       string `json:"title"       doc:"Group title"               example:"Family"`
	MemberCount int    `json:"memberCount" doc:"Contacts in this group" example:"3"`
}

// GroupsOutput for GET /groups
type GroupsOutput struct {
	Body struct {
		Groups []Group `json:"groups" doc:"Groups ordered by title"`
	}
}

// ContactGroupsOutput for GET /contacts/groups
type ContactGroupsOutput struct {
	Body struct {
		Memberships map[string][]string `json:"memberships" doc:"Group titles keyed by contact ID"`
	}
}
