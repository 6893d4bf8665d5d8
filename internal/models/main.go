// Package models defines the core data structures shared by the REST client,
// the inventory runner and the local stub server.
package models

// SiteState is the lifecycle state the server reports for a site.
type SiteState string

const (
	// SiteActive marks a site that accepts sign-ins.
	SiteActive SiteState = "Active"
	// SiteSuspended marks a site that was suspended by an administrator.
	SiteSuspended SiteState = "Suspended"
)

// SiteRecord describes one site returned by the sites collection.
type SiteRecord struct {
	// Name is the display name and the identity key of the record.
	Name string `json:"name"`
	// LUID is the server-assigned unique identifier.
	LUID string `json:"luid"`
	// ContentURL is the URL namespace segment of the site.
	ContentURL string `json:"contentUrl"`
	// State is Active or Suspended.
	State SiteState `json:"state"`
}

// Session holds the result of a successful sign-in.
type Session struct {
	// AuthToken is sent as X-Tableau-Auth on every authenticated call.
	AuthToken string
	// SiteID is the LUID of the site the session is bound to.
	SiteID string
	// UserID is the LUID of the signed-in user.
	UserID string
	// SiteNamespace is the contentUrl requested at sign-in.
	SiteNamespace string
}

// APIError is the (code, summary, detail) tuple decoded from a failure body.
type APIError struct {
	Code    string `json:"code"`
	Summary string `json:"summary"`
	Detail  string `json:"detail"`
}

// TLSPolicy selects how the server certificate is verified.
type TLSPolicy struct {
	// CAPath pins verification to the PEM bundle at this path.
	CAPath string
	// Insecure disables verification entirely. Ignored when CAPath is set.
	Insecure bool
}
