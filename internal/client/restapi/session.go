package restapi

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"

	"github.com/atinyakov/tsadmin/internal/models"
	"go.uber.org/zap"
)

// SignInBody renders the sign-in request document for cred. Only the
// attribute pair of the active credential variant is written.
func SignInBody(cred models.Credential, siteNamespace string) ([]byte, error) {
	if err := models.ValidateCredential(cred); err != nil {
		return nil, err
	}

	creds := &models.CredentialsRequest{Site: models.SiteSelector{ContentURL: siteNamespace}}
	switch c := cred.(type) {
	case models.ClassicCredential:
		creds.Name = models.StringPtr(c.Username)
		creds.Password = models.StringPtr(c.Password)
	case models.TokenCredential:
		creds.PersonalAccessTokenName = models.StringPtr(c.TokenName)
		creds.PersonalAccessTokenSecret = models.StringPtr(c.TokenSecret)
	}

	b, err := xml.Marshal(models.TSRequest{Credentials: creds})
	if err != nil {
		return nil, fmt.Errorf("encode sign-in request: %w", err)
	}
	return b, nil
}

// SignIn authenticates against siteNamespace ("" for the default site) and
// returns the session. The credential is validated before any request is made.
func (c *Client) SignIn(ctx context.Context, cred models.Credential, siteNamespace string) (models.Session, error) {
	body, err := SignInBody(cred, siteNamespace)
	if err != nil {
		return models.Session{}, err
	}

	status, data, err := c.do(ctx, http.MethodPost, c.apiURL+"/auth/signin", "", body)
	if err != nil {
		return models.Session{}, fmt.Errorf("sign in to site '%s': %w", siteNamespace, err)
	}
	if status != http.StatusOK {
		return models.Session{}, failure(models.ErrAuthentication, siteNamespace, status, data)
	}

	var doc models.TSResponse
	if err := xml.Unmarshal(data, &doc); err != nil {
		return models.Session{}, fmt.Errorf("%w: decode sign-in response: %v", models.ErrProtocol, err)
	}
	if doc.Credentials == nil || doc.Credentials.Token == "" {
		return models.Session{}, fmt.Errorf("%w: sign-in response has no credentials token", models.ErrProtocol)
	}

	sess := models.Session{
		AuthToken:     doc.Credentials.Token,
		SiteNamespace: siteNamespace,
	}
	if doc.Credentials.Site != nil {
		sess.SiteID = doc.Credentials.Site.ID
	}
	if doc.Credentials.User != nil {
		sess.UserID = doc.Credentials.User.ID
	}
	c.log.Info("signed in",
		zap.String("method", string(cred.Method())),
		zap.String("site", siteNamespace),
		zap.String("site_id", sess.SiteID),
	)
	return sess, nil
}

// SignOut invalidates token on the server. A token-less call is still sent
// so the server reports the failure.
func (c *Client) SignOut(ctx context.Context, token, siteNamespace string) error {
	status, data, err := c.do(ctx, http.MethodPost, c.apiURL+"/auth/signout", token, nil)
	if err != nil {
		return fmt.Errorf("sign out of site '%s': %w", siteNamespace, err)
	}
	if status != http.StatusNoContent {
		return failure(models.ErrSignOut, siteNamespace, status, data)
	}
	c.log.Info("signed out", zap.String("site", siteNamespace))
	return nil
}
