package models

import "errors"

// Sentinel errors for broad classification of failures.
var (
	// ErrConfiguration reports a missing or invalid credential selection.
	ErrConfiguration = errors.New("configuration error")
	// ErrAuthentication reports a sign-in rejected by the server.
	ErrAuthentication = errors.New("authentication error")
	// ErrList reports a sites page request rejected by the server.
	ErrList = errors.New("list error")
	// ErrSignOut reports a sign-out rejected by the server.
	ErrSignOut = errors.New("sign-out error")
	// ErrProtocol reports a response body that does not match the schema.
	ErrProtocol = errors.New("protocol error")
)
