package contact

// Reconcile merges incoming into a copy of existing and decides whether the result
// is a new contact. It never mutates existing and never fails.
//
// Multi-valued candidates are appended in supplied order unless a semantically equal
// entry is already present, where labels never take part in equality. Candidates
// with an empty primary value, and postal or social candidates without a structured
// value, are skipped.
func Reconcile(existing *Contact, incoming Payload) MergePlan {
	var working Contact
	if existing != nil {
		working = existing.Clone()
	} else {
		working = Contact{Type: TypePerson}
	}

	applyScalars(&working, incoming)

	for _, c := range incoming.Emails {
		if c.Address == "" {
			continue
		}
		working.Emails = appendUnique(working.Emails, c, func(a, b Email) bool {
			return a.Address == b.Address
		})
	}
	for _, c := range incoming.PhoneNumbers {
		if c.Number == "" {
			continue
		}
		working.PhoneNumbers = appendUnique(working.PhoneNumbers, c, func(a, b PhoneNumber) bool {
			return a.Number == b.Number
		})
	}
	for _, c := range incoming.URLAddresses {
		if c.URL == "" {
			continue
		}
		working.URLAddresses = appendUnique(working.URLAddresses, c, func(a, b URLAddress) bool {
			return a.URL == b.URL
		})
	}
	for _, c := range incoming.PostalAddresses {
		if c.Address == nil {
			continue
		}
		addr := *c.Address
		addr.Label = c.Label
		working.PostalAddresses = appendUnique(working.PostalAddresses, addr, samePostalAddress)
	}
	for _, c := range incoming.SocialProfiles {
		if c.Profile == nil {
			continue
		}
		profile := *c.Profile
		profile.Label = c.Label
		profile.UserIdentifier = ""
		working.SocialProfiles = appendUnique(working.SocialProfiles, profile, sameSocialProfile)
	}

	for _, g := range incoming.Groups {
		if g == "" {
			continue
		}
		working.Groups = appendUnique(working.Groups, g, func(a, b string) bool { return a == b })
	}

	return MergePlan{IsNew: existing == nil, Contact: working}
}

func applyScalars(c *Contact, p Payload) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&c.NamePrefix, p.NamePrefix)
	set(&c.GivenName, p.GivenName)
	set(&c.MiddleName, p.MiddleName)
	set(&c.FamilyName, p.FamilyName)
	set(&c.NameSuffix, p.NameSuffix)
	set(&c.OrganizationName, p.OrganizationName)
	set(&c.JobTitle, p.JobTitle)
	if p.Type != nil {
		c.Type = *p.Type
	}
	switch {
	case p.ClearBirthday:
		c.Birthday = nil
	case p.Birthday != nil:
		b := *p.Birthday
		c.Birthday = &b
	}
}

// appendUnique appends candidate unless list already holds an equal entry.
func appendUnique[T any](list []T, candidate T, equal func(a, b T) bool) []T {
	for _, entry := range list {
		if equal(entry, candidate) {
			return list
		}
	}
	return append(list, candidate)
}

func samePostalAddress(a, b PostalAddress) bool {
	return a.Street == b.Street &&
		a.State == b.State &&
		a.City == b.City &&
		a.Country == b.Country &&
		a.PostalCode == b.PostalCode
}

func sameSocialProfile(a, b SocialProfile) bool {
	return a.Username == b.Username &&
		a.URLString == b.URLString &&
		a.Service == b.Service
}
