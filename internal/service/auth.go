package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/atinyakov/tsadmin/internal/models"
)

var (
	// ErrInvalidCredentials reports an unknown identity or a wrong secret.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSiteNotFound reports a contentUrl that matches no site.
	ErrSiteNotFound = errors.New("site not found")
	// ErrSessionNotFound reports an unknown or expired token.
	ErrSessionNotFound = errors.New("session not found")
)

// SiteLookup resolves the site selected at sign-in.
type SiteLookup interface {
	// ByContentURL returns the site whose content URL matches.
	ByContentURL(contentURL string) (models.SiteRecord, bool)
}

type session struct {
	models.Session
	lastUsed time.Time
}

// AuthService checks credentials against a Directory and keeps the issued
// sessions in memory.
type AuthService struct {
	users  map[string]string
	tokens map[string]string
	sites  SiteLookup
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// NewAuthService constructs an AuthService over dir's users and tokens.
func NewAuthService(dir *Directory, sites SiteLookup) *AuthService {
	return &AuthService{
		users:    dir.Users,
		tokens:   dir.Tokens,
		sites:    sites,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// SignIn validates the credentials element of a sign-in request and opens a
// session bound to the selected site.
func (s *AuthService) SignIn(_ context.Context, creds models.CredentialsRequest) (models.Session, error) {
	identity, ok := s.authenticate(creds)
	if !ok {
		return models.Session{}, ErrInvalidCredentials
	}
	site, ok := s.sites.ByContentURL(creds.Site.ContentURL)
	if !ok {
		return models.Session{}, ErrSiteNotFound
	}

	sess := &session{
		Session: models.Session{
			AuthToken:     uuid.NewString(),
			SiteID:        site.LUID,
			UserID:        uuid.NewSHA1(uuid.NameSpaceOID, []byte(identity)).String(),
			SiteNamespace: site.ContentURL,
		},
		lastUsed: s.now(),
	}

	s.mu.Lock()
	s.sessions[sess.AuthToken] = sess
	s.mu.Unlock()
	return sess.Session, nil
}

// authenticate accepts exactly one attribute pair and returns the identity
// it names.
func (s *AuthService) authenticate(c models.CredentialsRequest) (string, bool) {
	classic := c.Name != nil || c.Password != nil
	token := c.PersonalAccessTokenName != nil || c.PersonalAccessTokenSecret != nil
	switch {
	case classic && !token && c.Name != nil && c.Password != nil:
		return "user:" + *c.Name, secretMatches(s.users, *c.Name, *c.Password)
	case token && !classic && c.PersonalAccessTokenName != nil && c.PersonalAccessTokenSecret != nil:
		return "pat:" + *c.PersonalAccessTokenName, secretMatches(s.tokens, *c.PersonalAccessTokenName, *c.PersonalAccessTokenSecret)
	default:
		return "", false
	}
}

func secretMatches(m map[string]string, id, secret string) bool {
	want, ok := m[id]
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(secret)) == 1
}

// Touch returns the session for token and marks it as used.
func (s *AuthService) Touch(_ context.Context, token string) (models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return models.Session{}, false
	}
	sess.lastUsed = s.now()
	return sess.Session, true
}

// SignOut ends the session for token.
func (s *AuthService) SignOut(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[token]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, token)
	return nil
}

// ExpireIdle drops sessions unused for longer than ttl and returns how many
// were removed.
func (s *AuthService) ExpireIdle(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for token, sess := range s.sessions {
		if sess.lastUsed.Before(cutoff) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// Active returns the number of open sessions.
func (s *AuthService) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
