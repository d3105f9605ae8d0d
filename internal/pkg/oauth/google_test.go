package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestGenerateState_Unique(t *testing.T) {
	svc := NewGoogleService("id", "secret", "http://localhost/callback", nil)

	a, err := svc.GenerateState()
	require.NoError(t, err)
	b, err := svc.GenerateState()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 43)
}

func TestRedirectURL(t *testing.T) {
	svc := NewGoogleService("client-1", "secret", "http://localhost/callback", nil)

	u, err := url.Parse(svc.RedirectURL("abc"))
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "client-1", q.Get("client_id"))
	assert.Equal(t, "abc", q.Get("state"))
	assert.Equal(t, "http://localhost/callback", q.Get("redirect_uri"))
}

func TestVerifyUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":"g-1","email":"admin@example.com","verified_email":true}`))
	}))
	defer server.Close()

	svc := NewGoogleService("id", "secret", "http://localhost/callback", nil).(*GoogleServiceImpl)
	svc.userInfoURL = server.URL

	info, err := svc.VerifyUser(context.Background(), &oauth2.Token{AccessToken: "tok", TokenType: "Bearer"})
	require.NoError(t, err)
	assert.Equal(t, GoogleInformation{GoogleID: "g-1", Email: "admin@example.com", VerifiedEmail: true}, info)

	_, err = svc.VerifyUser(context.Background(), &oauth2.Token{AccessToken: "wrong", TokenType: "Bearer"})
	assert.Error(t, err)
}
