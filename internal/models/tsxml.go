package models

import "encoding/xml"

// Namespace is the XML namespace of every response document.
const Namespace = "http://tableau.com/api"

// TSRequest is the root element of request bodies.
type TSRequest struct {
	XMLName     xml.Name            `xml:"tsRequest"`
	Credentials *CredentialsRequest `xml:"credentials"`
}

// CredentialsRequest carries exactly one attribute pair: name/password or
// personalAccessTokenName/personalAccessTokenSecret. Unset pairs stay nil so
// they are not written.
type CredentialsRequest struct {
	Name                      *string      `xml:"name,attr"`
	Password                  *string      `xml:"password,attr"`
	PersonalAccessTokenName   *string      `xml:"personalAccessTokenName,attr"`
	PersonalAccessTokenSecret *string      `xml:"personalAccessTokenSecret,attr"`
	Site                      SiteSelector `xml:"site"`
}

// SiteSelector picks the site to sign in to. An empty ContentURL selects the
// default site.
type SiteSelector struct {
	ContentURL string `xml:"contentUrl,attr"`
}

// TSResponse is the root element of response documents.
type TSResponse struct {
	XMLName     xml.Name             `xml:"http://tableau.com/api tsResponse"`
	Error       *ErrorElement        `xml:"http://tableau.com/api error"`
	Credentials *CredentialsResponse `xml:"http://tableau.com/api credentials"`
	Pagination  *Pagination          `xml:"http://tableau.com/api pagination"`
	Sites       *SiteList            `xml:"http://tableau.com/api sites"`
}

// ErrorElement is the failure payload. Summary and Detail are nil when the
// element is absent.
type ErrorElement struct {
	Code    string  `xml:"code,attr"`
	Summary *string `xml:"http://tableau.com/api summary"`
	Detail  *string `xml:"http://tableau.com/api detail"`
}

// CredentialsResponse is returned by a successful sign-in.
type CredentialsResponse struct {
	Token string   `xml:"token,attr"`
	Site  *SiteRef `xml:"http://tableau.com/api site"`
	User  *UserRef `xml:"http://tableau.com/api user"`
}

// SiteRef identifies the site a session is bound to.
type SiteRef struct {
	ID         string `xml:"id,attr"`
	ContentURL string `xml:"contentUrl,attr"`
}

// UserRef identifies the signed-in user.
type UserRef struct {
	ID string `xml:"id,attr"`
}

// Pagination is the paging metadata of a collection response. Attributes
// stay strings so a missing value can be told apart from zero.
type Pagination struct {
	PageNumber     string `xml:"pageNumber,attr,omitempty"`
	PageSize       string `xml:"pageSize,attr,omitempty"`
	TotalAvailable string `xml:"totalAvailable,attr,omitempty"`
}

// SiteList wraps the site elements of one page.
type SiteList struct {
	Sites []SiteElement `xml:"http://tableau.com/api site"`
}

// SiteElement is one site as it appears on the wire.
type SiteElement struct {
	ID         string `xml:"id,attr"`
	Name       string `xml:"name,attr"`
	ContentURL string `xml:"contentUrl,attr"`
	State      string `xml:"state,attr"`
}

// Record converts the wire element into a SiteRecord.
func (e SiteElement) Record() SiteRecord {
	return SiteRecord{
		Name:       e.Name,
		LUID:       e.ID,
		ContentURL: e.ContentURL,
		State:      SiteState(e.State),
	}
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// ErrorResponse builds a failure document carrying the given tuple.
func ErrorResponse(code, summary, detail string) *TSResponse {
	return &TSResponse{
		Error: &ErrorElement{
			Code:    code,
			Summary: StringPtr(summary),
			Detail:  StringPtr(detail),
		},
	}
}
