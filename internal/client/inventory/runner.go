// Package inventory wires credential resolution, the session lifecycle and
// site listing into one run that always attempts to sign out.
package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/atinyakov/tsadmin/internal/models"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// SessionManager signs in and out of the server.
type SessionManager interface {
	SignIn(ctx context.Context, cred models.Credential, siteNamespace string) (models.Session, error)
	SignOut(ctx context.Context, token, siteNamespace string) error
}

// SiteLister enumerates all sites visible to a session.
type SiteLister interface {
	ListAllSites(ctx context.Context, token string, pageSize int) (map[string]models.SiteRecord, error)
}

// API is the server surface a Runner needs. *restapi.Client implements it.
type API interface {
	SessionManager
	SiteLister
}

// SiteStore persists a listing. It is optional.
type SiteStore interface {
	SaveSites(ctx context.Context, sites []models.SiteRecord) error
}

// Runner executes one sign-in, list, sign-out cycle.
type Runner struct {
	api      API
	store    SiteStore
	pageSize int
	log      *zap.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithPageSize sets the page size passed to the lister.
func WithPageSize(n int) Option {
	return func(r *Runner) { r.pageSize = n }
}

// WithStore saves every successful listing to s.
func WithStore(s SiteStore) Option {
	return func(r *Runner) { r.store = s }
}

// WithLogger sets the run logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// NewRunner returns a Runner backed by api.
func NewRunner(api API, opts ...Option) *Runner {
	r := &Runner{api: api, log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result is the outcome of a run. Err is the first substantive failure;
// SignOutErr is the cleanup failure and never replaces Err.
type Result struct {
	Session    models.Session
	Sites      map[string]models.SiteRecord
	Err        error
	SignOutErr error
}

// Error joins Err and SignOutErr; nil when both are nil.
func (r Result) Error() error {
	return multierr.Append(r.Err, r.SignOutErr)
}

// Sorted returns the listed sites ordered by name.
func (r Result) Sorted() []models.SiteRecord {
	return SortSites(r.Sites)
}

// Run signs in to siteNamespace with cred, lists every site and stores the
// listing when a store is configured. Once the credential passes validation,
// sign-out is attempted exactly once on every exit path, including a failed
// sign-in and a panic, using whatever token was obtained.
func (r *Runner) Run(ctx context.Context, cred models.Credential, siteNamespace string) (res Result) {
	if err := models.ValidateCredential(cred); err != nil {
		res.Err = err
		return res
	}

	defer func() {
		if p := recover(); p != nil {
			res.Sites = nil
			res.Err = multierr.Append(res.Err, fmt.Errorf("run aborted: %v", p))
		}
		// The caller's cancellation must not prevent the release.
		if err := r.api.SignOut(context.WithoutCancel(ctx), res.Session.AuthToken, siteNamespace); err != nil {
			res.SignOutErr = err
			r.log.Warn("sign out failed", zap.Error(err))
		}
	}()

	sess, err := r.api.SignIn(ctx, cred, siteNamespace)
	if err != nil {
		res.Err = err
		r.log.Error("sign in failed", zap.String("site", siteNamespace), zap.Error(err))
		return res
	}
	res.Session = sess

	sites, err := r.api.ListAllSites(ctx, sess.AuthToken, r.pageSize)
	if err != nil {
		res.Err = err
		r.log.Error("listing sites failed", zap.Error(err))
		return res
	}
	res.Sites = sites
	r.log.Info("listed sites", zap.Int("count", len(sites)))

	if r.store != nil {
		if err := r.store.SaveSites(ctx, SortSites(sites)); err != nil {
			res.Err = fmt.Errorf("save sites: %w", err)
			r.log.Error("saving sites failed", zap.Error(err))
		}
	}
	return res
}

// SortSites flattens the keyed listing into a slice ordered by name.
func SortSites(sites map[string]models.SiteRecord) []models.SiteRecord {
	out := make([]models.SiteRecord, 0, len(sites))
	for _, s := range sites {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
