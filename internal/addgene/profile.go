// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package addgene retrieves plasmid detail and sequence documents from
// the Addgene repository. Other vendors plug in through the Profile
// registry with their own URL construction.
package addgene

import "fmt"

// Profile supplies vendor-specific URL construction. Registering a
// profile is all a new vendor needs to participate in document fetching;
// field mapping stays in the extract package's rule table.
type Profile interface {
	// DetailURL returns the URL of the identifier's main page.
	DetailURL(base string, id int) string

	// SequencesURL returns the URL of the identifier's sequence sub-page.
	SequencesURL(base string, id int) string
}

// DefaultBaseURL is the production Addgene endpoint. Tests substitute
// httptest servers.
const DefaultBaseURL = "https://www.addgene.org"

// VendorAddgene is the only vendor tag recognized at present.
const VendorAddgene = "addgene"

var profiles = map[string]Profile{
	VendorAddgene: addgeneProfile{},
}

// Lookup returns the profile registered for the vendor tag. A missing
// profile is an extension point, not an error: callers treat identifiers
// under an unknown vendor as yielding no documents.
func Lookup(vendor string) (Profile, bool) {
	p, ok := profiles[vendor]
	return p, ok
}

type addgeneProfile struct{}

func (addgeneProfile) DetailURL(base string, id int) string {
	return fmt.Sprintf("%s/%d/", base, id)
}

func (addgeneProfile) SequencesURL(base string, id int) string {
	return fmt.Sprintf("%s/%d/sequences/", base, id)
}
