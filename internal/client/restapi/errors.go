package restapi

import (
	"encoding/xml"
	"fmt"

	"github.com/atinyakov/tsadmin/internal/models"
)

// RequestError is a failure answered by the server with an error document.
// Op is one of models.ErrAuthentication, models.ErrList or models.ErrSignOut
// and is matched by errors.Is.
type RequestError struct {
	Op     error
	Site   string
	Status int
	API    models.APIError
}

func (e *RequestError) Error() string {
	var what string
	switch e.Op {
	case models.ErrAuthentication:
		what = fmt.Sprintf("error signing into site '%s'", e.Site)
	case models.ErrSignOut:
		what = fmt.Sprintf("error signing out of site '%s'", e.Site)
	case models.ErrList:
		what = "error querying server sites"
	default:
		what = fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("%s\nError: %s\nSummary: %s\nDetail: %s", what, e.API.Code, e.API.Summary, e.API.Detail)
}

func (e *RequestError) Unwrap() error {
	return e.Op
}

// DecodeError extracts the code, summary and detail of the error element in
// a failure body. A body without that structure yields models.ErrProtocol.
func DecodeError(body []byte) (models.APIError, error) {
	var doc models.TSResponse
	if err := xml.Unmarshal(body, &doc); err != nil {
		return models.APIError{}, fmt.Errorf("%w: decode error body: %v", models.ErrProtocol, err)
	}
	if doc.Error == nil {
		return models.APIError{}, fmt.Errorf("%w: error element missing", models.ErrProtocol)
	}
	if doc.Error.Summary == nil || doc.Error.Detail == nil {
		return models.APIError{}, fmt.Errorf("%w: error element %q lacks summary or detail", models.ErrProtocol, doc.Error.Code)
	}
	return models.APIError{
		Code:    doc.Error.Code,
		Summary: *doc.Error.Summary,
		Detail:  *doc.Error.Detail,
	}, nil
}

// failure turns a non-success response into a RequestError, or into a
// protocol error when the body cannot be decoded.
func failure(op error, site string, status int, body []byte) error {
	apiErr, err := DecodeError(body)
	if err != nil {
		return fmt.Errorf("%v: status %d: %w", op, status, err)
	}
	return &RequestError{Op: op, Site: site, Status: status, API: apiErr}
}
