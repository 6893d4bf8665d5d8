package restapi

import (
	"context"
	"encoding/xml"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/atinyakov/tsadmin/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// credentialAttrs returns the attributes of the credentials element and the
// contentUrl of its site child.
func credentialAttrs(t *testing.T, body []byte) (map[string]string, string) {
	t.Helper()
	var doc struct {
		Credentials struct {
			Attrs []xml.Attr `xml:",any,attr"`
			Site  struct {
				ContentURL *string `xml:"contentUrl,attr"`
			} `xml:"site"`
		} `xml:"credentials"`
	}
	require.NoError(t, xml.Unmarshal(body, &doc))
	attrs := make(map[string]string)
	for _, a := range doc.Credentials.Attrs {
		attrs[a.Name.Local] = a.Value
	}
	require.NotNil(t, doc.Credentials.Site.ContentURL, "site contentUrl must always be written")
	return attrs, *doc.Credentials.Site.ContentURL
}

func TestSignInBody(t *testing.T) {
	tests := []struct {
		name string
		cred models.Credential
		site string
		want map[string]string
	}{
		{
			name: "classic",
			cred: models.ClassicCredential{Username: "admin", Password: "s3cret"},
			site: "",
			want: map[string]string{"name": "admin", "password": "s3cret"},
		},
		{
			name: "classic empty password",
			cred: models.ClassicCredential{Username: "admin"},
			site: "finance",
			want: map[string]string{"name": "admin", "password": ""},
		},
		{
			name: "token",
			cred: models.TokenCredential{TokenName: "ci", TokenSecret: "abc=="},
			site: "finance",
			want: map[string]string{"personalAccessTokenName": "ci", "personalAccessTokenSecret": "abc=="},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := SignInBody(tt.cred, tt.site)
			require.NoError(t, err)
			attrs, site := credentialAttrs(t, body)
			assert.Equal(t, tt.want, attrs)
			assert.Equal(t, tt.site, site)
		})
	}
}

func TestSignIn_InvalidCredentialMakesNoCalls(t *testing.T) {
	calls := 0
	c := New("http://example.com/api/3.19", WithHTTPClient(newTestClient(func(req *http.Request) (*http.Response, error) {
		calls++
		return nil, errors.New("unexpected call")
	})))

	_, err := c.SignIn(context.Background(), nil, "")
	assert.ErrorIs(t, err, models.ErrConfiguration)

	_, err = c.SignIn(context.Background(), models.TokenCredential{TokenSecret: "x"}, "")
	assert.ErrorIs(t, err, models.ErrConfiguration)

	_, err = models.NewCredential(models.AuthMethod("SAML"), "user", "pw")
	assert.ErrorIs(t, err, models.ErrConfiguration)

	assert.Zero(t, calls)
}

func TestSignIn_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/3.19/auth/signin", r.URL.Path)
		assert.Equal(t, "application/xml", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get(AuthHeader))

		body, _ := io.ReadAll(r.Body)
		attrs, site := credentialAttrs(t, body)
		assert.Equal(t, "ci", attrs["personalAccessTokenName"])
		assert.Equal(t, "finance", site)

		writeXML(w, http.StatusOK, `<tsResponse xmlns="http://tableau.com/api">
  <credentials token="tok-123" estimatedTimeToExpiration="365:22:13">
    <site id="site-luid" contentUrl="finance"/>
    <user id="user-luid"/>
  </credentials>
</tsResponse>`)
	}))
	defer ts.Close()

	c := New(APIURL(ts.URL, "3.19"))
	sess, err := c.SignIn(context.Background(), models.TokenCredential{TokenName: "ci", TokenSecret: "x"}, "finance")
	require.NoError(t, err)
	assert.Equal(t, models.Session{
		AuthToken:     "tok-123",
		SiteID:        "site-luid",
		UserID:        "user-luid",
		SiteNamespace: "finance",
	}, sess)
}

func TestSignIn_Rejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeXML(w, http.StatusUnauthorized, errorBody("401001", "Signin Error", "Error signing in to Tableau Server"))
	}))
	defer ts.Close()

	c := New(APIURL(ts.URL, "3.19"))
	_, err := c.SignIn(context.Background(), models.ClassicCredential{Username: "admin", Password: "bad"}, "finance")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrAuthentication)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "finance", reqErr.Site)
	assert.Equal(t, http.StatusUnauthorized, reqErr.Status)
	assert.Equal(t, models.APIError{Code: "401001", Summary: "Signin Error", Detail: "Error signing in to Tableau Server"}, reqErr.API)
}

func TestSignIn_MissingToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeXML(w, http.StatusOK, `<tsResponse xmlns="http://tableau.com/api"><credentials/></tsResponse>`)
	}))
	defer ts.Close()

	c := New(APIURL(ts.URL, "3.19"))
	_, err := c.SignIn(context.Background(), models.ClassicCredential{Username: "admin"}, "")
	assert.ErrorIs(t, err, models.ErrProtocol)
}

func TestSignIn_NetworkError(t *testing.T) {
	c := New("http://example.com/api/3.19", WithHTTPClient(newTestClient(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("network down")
	})))
	_, err := c.SignIn(context.Background(), models.ClassicCredential{Username: "admin"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "network down")
}

func TestSignOut(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		status  int
		body    string
		wantErr error
	}{
		{name: "success", token: "tok-1", status: http.StatusNoContent},
		{name: "rejected", token: "tok-1", status: http.StatusUnauthorized, body: errorBody("401002", "Unauthorized Access", "Invalid authentication credentials were provided."), wantErr: models.ErrSignOut},
		{name: "ok is not success", token: "tok-1", status: http.StatusOK, body: errorBody("400000", "Bad Request", "unexpected"), wantErr: models.ErrSignOut},
		{name: "undecodable", token: "", status: http.StatusUnauthorized, body: "no", wantErr: models.ErrProtocol},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotHeader []string
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/api/3.19/auth/signout", r.URL.Path)
				gotHeader = r.Header.Values("x-tableau-auth")
				if tt.status == http.StatusNoContent {
					w.WriteHeader(tt.status)
					return
				}
				writeXML(w, tt.status, tt.body)
			}))
			defer ts.Close()

			err := New(APIURL(ts.URL, "3.19")).SignOut(context.Background(), tt.token, "")
			if tt.wantErr == nil {
				require.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.token == "" {
				assert.Empty(t, gotHeader)
			} else {
				assert.Equal(t, []string{tt.token}, gotHeader)
			}
		})
	}
}
