package models

import (
	"fmt"
	"strings"
)

// AuthMethod identifies which credential shape is sent at sign-in.
type AuthMethod string

const (
	// Classic signs in with a username and password.
	Classic AuthMethod = "CLASSIC"
	// Token signs in with a personal access token name and secret.
	Token AuthMethod = "TOKEN"
)

// ParseAuthMethod accepts CLASSIC or TOKEN in any letter case.
func ParseAuthMethod(s string) (AuthMethod, error) {
	switch m := AuthMethod(strings.ToUpper(strings.TrimSpace(s))); m {
	case Classic, Token:
		return m, nil
	default:
		return "", fmt.Errorf("%w: auth method %q is not supported, use TOKEN or CLASSIC", ErrConfiguration, s)
	}
}

// Credential is either a ClassicCredential or a TokenCredential.
type Credential interface {
	// Method reports which variant is active.
	Method() AuthMethod
	// Identifier is the username or the token name.
	Identifier() string
	credential()
}

// ClassicCredential is a username and password pair.
type ClassicCredential struct {
	Username string
	Password string
}

func (ClassicCredential) Method() AuthMethod   { return Classic }
func (c ClassicCredential) Identifier() string { return c.Username }
func (ClassicCredential) credential()          {}

// TokenCredential is a personal access token.
type TokenCredential struct {
	TokenName   string
	TokenSecret string
}

func (TokenCredential) Method() AuthMethod   { return Token }
func (c TokenCredential) Identifier() string { return c.TokenName }
func (TokenCredential) credential()          {}

// NewCredential builds the variant selected by method.
// The identifier must be non-empty; the secret may be empty.
func NewCredential(method AuthMethod, identifier, secret string) (Credential, error) {
	if identifier == "" {
		return nil, fmt.Errorf("%w: empty identifier for %s sign-in", ErrConfiguration, method)
	}
	switch method {
	case Classic:
		return ClassicCredential{Username: identifier, Password: secret}, nil
	case Token:
		return TokenCredential{TokenName: identifier, TokenSecret: secret}, nil
	default:
		return nil, fmt.Errorf("%w: auth method %q is not supported, use TOKEN or CLASSIC", ErrConfiguration, method)
	}
}

// ValidateCredential rejects a nil credential or one with an empty identifier.
func ValidateCredential(c Credential) error {
	if c == nil {
		return fmt.Errorf("%w: no credential supplied", ErrConfiguration)
	}
	switch c.(type) {
	case ClassicCredential, TokenCredential:
	default:
		return fmt.Errorf("%w: unsupported credential %T", ErrConfiguration, c)
	}
	if c.Identifier() == "" {
		return fmt.Errorf("%w: empty identifier for %s sign-in", ErrConfiguration, c.Method())
	}
	return nil
}
