package pagination

// DefaultLimit is the page size used when the client sends none.
const DefaultLimit = 50

// Params embeds into huma input structs for pagination.
type Params struct {
	Cursor string `query:"cursor" doc:"Opaque pagination cursor from the Link header"`
	Limit  int    `query:"limit"  doc:"Maximum contacts per page" default:"50" minimum:"1" maximum:"500"`
}

// PageLimit returns the limit, defaulting when zero.
func (p Params) PageLimit() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}
	return p.Limit
}
