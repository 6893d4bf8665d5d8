package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/atinyakov/tsadmin/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

type fakeAPI struct {
	SignInFunc       func(ctx context.Context, cred models.Credential, site string) (models.Session, error)
	ListAllSitesFunc func(ctx context.Context, token string, pageSize int) (map[string]models.SiteRecord, error)
	SignOutFunc      func(ctx context.Context, token, site string) error

	signOuts      int
	signOutTokens []string
}

func (f *fakeAPI) SignIn(ctx context.Context, cred models.Credential, site string) (models.Session, error) {
	return f.SignInFunc(ctx, cred, site)
}

func (f *fakeAPI) ListAllSites(ctx context.Context, token string, pageSize int) (map[string]models.SiteRecord, error) {
	return f.ListAllSitesFunc(ctx, token, pageSize)
}

func (f *fakeAPI) SignOut(ctx context.Context, token, site string) error {
	f.signOuts++
	f.signOutTokens = append(f.signOutTokens, token)
	if f.SignOutFunc == nil {
		return nil
	}
	return f.SignOutFunc(ctx, token, site)
}

type fakeStore struct {
	saved []models.SiteRecord
	err   error
}

func (s *fakeStore) SaveSites(_ context.Context, sites []models.SiteRecord) error {
	s.saved = sites
	return s.err
}

var testCred = models.ClassicCredential{Username: "admin", Password: "pw"}

func okSignIn(context.Context, models.Credential, string) (models.Session, error) {
	return models.Session{AuthToken: "tok-1"}, nil
}

func twoSites(_ context.Context, token string, _ int) (map[string]models.SiteRecord, error) {
	return map[string]models.SiteRecord{
		"b": {Name: "b", LUID: "2"},
		"a": {Name: "a", LUID: "1"},
	}, nil
}

func TestRun_Success(t *testing.T) {
	var gotPageSize int
	api := &fakeAPI{
		SignInFunc: okSignIn,
		ListAllSitesFunc: func(ctx context.Context, token string, pageSize int) (map[string]models.SiteRecord, error) {
			assert.Equal(t, "tok-1", token)
			gotPageSize = pageSize
			return twoSites(ctx, token, pageSize)
		},
	}
	store := &fakeStore{}

	res := NewRunner(api, WithPageSize(25), WithStore(store)).Run(context.Background(), testCred, "")
	require.NoError(t, res.Error())
	assert.Equal(t, 25, gotPageSize)
	assert.Len(t, res.Sites, 2)
	assert.Equal(t, []string{"tok-1"}, api.signOutTokens)
	require.Len(t, store.saved, 2)
	assert.Equal(t, "a", store.saved[0].Name)
	assert.Equal(t, []models.SiteRecord{{Name: "a", LUID: "1"}, {Name: "b", LUID: "2"}}, res.Sorted())
}

func TestRun_SignInFailureStillSignsOut(t *testing.T) {
	signInErr := errors.New("rejected")
	api := &fakeAPI{
		SignInFunc: func(context.Context, models.Credential, string) (models.Session, error) {
			return models.Session{}, signInErr
		},
		ListAllSitesFunc: func(context.Context, string, int) (map[string]models.SiteRecord, error) {
			t.Fatal("listing must not run after a failed sign-in")
			return nil, nil
		},
	}

	res := NewRunner(api).Run(context.Background(), testCred, "finance")
	assert.ErrorIs(t, res.Err, signInErr)
	assert.Equal(t, 1, api.signOuts)
	assert.Equal(t, []string{""}, api.signOutTokens)
}

func TestRun_ListFailureStillSignsOut(t *testing.T) {
	listErr := errors.New("page 2 rejected")
	api := &fakeAPI{
		SignInFunc: okSignIn,
		ListAllSitesFunc: func(context.Context, string, int) (map[string]models.SiteRecord, error) {
			return nil, listErr
		},
	}
	store := &fakeStore{}

	res := NewRunner(api, WithStore(store)).Run(context.Background(), testCred, "")
	assert.ErrorIs(t, res.Err, listErr)
	assert.Nil(t, res.Sites)
	assert.Equal(t, 1, api.signOuts)
	assert.Equal(t, []string{"tok-1"}, api.signOutTokens)
	assert.Nil(t, store.saved)
}

func TestRun_PanicStillSignsOut(t *testing.T) {
	api := &fakeAPI{
		SignInFunc: okSignIn,
		ListAllSitesFunc: func(context.Context, string, int) (map[string]models.SiteRecord, error) {
			panic("boom")
		},
	}

	var res Result
	require.NotPanics(t, func() {
		res = NewRunner(api).Run(context.Background(), testCred, "")
	})
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "boom")
	assert.Equal(t, 1, api.signOuts)
}

func TestRun_SignOutErrorDoesNotMaskEarlierError(t *testing.T) {
	listErr := errors.New("list failed")
	signOutErr := errors.New("sign out failed")
	api := &fakeAPI{
		SignInFunc: okSignIn,
		ListAllSitesFunc: func(context.Context, string, int) (map[string]models.SiteRecord, error) {
			return nil, listErr
		},
		SignOutFunc: func(context.Context, string, string) error { return signOutErr },
	}

	res := NewRunner(api).Run(context.Background(), testCred, "")
	assert.Same(t, listErr, res.Err)
	assert.Same(t, signOutErr, res.SignOutErr)

	errs := multierr.Errors(res.Error())
	require.Len(t, errs, 2)
	assert.ErrorIs(t, errs[0], listErr)
	assert.ErrorIs(t, errs[1], signOutErr)
}

func TestRun_SignOutErrorAlone(t *testing.T) {
	signOutErr := errors.New("sign out failed")
	api := &fakeAPI{
		SignInFunc:       okSignIn,
		ListAllSitesFunc: twoSites,
		SignOutFunc:      func(context.Context, string, string) error { return signOutErr },
	}

	res := NewRunner(api).Run(context.Background(), testCred, "")
	assert.NoError(t, res.Err)
	assert.Len(t, res.Sites, 2)
	assert.ErrorIs(t, res.Error(), signOutErr)
}

func TestRun_CancelledContextStillSignsOut(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	api := &fakeAPI{
		SignInFunc: okSignIn,
		ListAllSitesFunc: func(ctx context.Context, _ string, _ int) (map[string]models.SiteRecord, error) {
			cancel()
			return nil, ctx.Err()
		},
		SignOutFunc: func(ctx context.Context, _, _ string) error {
			return ctx.Err()
		},
	}

	res := NewRunner(api).Run(ctx, testCred, "")
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.NoError(t, res.SignOutErr)
	assert.Equal(t, 1, api.signOuts)
}

func TestRun_StoreFailure(t *testing.T) {
	api := &fakeAPI{SignInFunc: okSignIn, ListAllSitesFunc: twoSites}
	storeErr := errors.New("db down")

	res := NewRunner(api, WithStore(&fakeStore{err: storeErr})).Run(context.Background(), testCred, "")
	assert.ErrorIs(t, res.Err, storeErr)
	assert.Len(t, res.Sites, 2)
	assert.Equal(t, 1, api.signOuts)
}

func TestRun_InvalidCredentialMakesNoCalls(t *testing.T) {
	api := &fakeAPI{}

	res := NewRunner(api).Run(context.Background(), nil, "")
	assert.ErrorIs(t, res.Err, models.ErrConfiguration)
	assert.Zero(t, api.signOuts)
}
