package auth

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAuthorizationURL(t *testing.T) {
	t.Parallel()

	raw, err := BuildAuthorizationURL(AuthorizationRequest{
		Issuer:      "https://accounts.example.com",
		ClientID:    "c1",
		RedirectURI: "http://localhost:1455/auth/callback",
		State:       "state-1",
	})
	require.NoError(t, err)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/auth-connect/api/v2.0/oauth2/auth", parsed.Path)

	q := parsed.Query()
	assert.Equal(t, "token", q.Get("response_type"))
	assert.Equal(t, "c1", q.Get("client_id"))
	assert.Equal(t, "account", q.Get("scope"))
	assert.Equal(t, "state-1", q.Get("state"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "http://localhost:1455/auth/callback", q.Get("redirect_uri"))
}

func TestBuildAuthorizationURLValidatesInputs(t *testing.T) {
	t.Parallel()

	base := AuthorizationRequest{
		Issuer:      "https://accounts.example.com",
		ClientID:    "c1",
		RedirectURI: "http://localhost/auth/callback",
		State:       "s",
	}

	missingIssuer := base
	missingIssuer.Issuer = ""
	_, err := BuildAuthorizationURL(missingIssuer)
	require.Error(t, err)

	missingClient := base
	missingClient.ClientID = ""
	_, err = BuildAuthorizationURL(missingClient)
	require.Error(t, err)

	badScheme := base
	badScheme.Issuer = "ftp://accounts.example.com"
	_, err = BuildAuthorizationURL(badScheme)
	require.Error(t, err)
}

func TestCallbackServerDeliversToken(t *testing.T) {
	t.Parallel()

	server, err := StartCallbackServer("127.0.0.1:0", "state-1")
	require.NoError(t, err)

	go func() {
		resp, getErr := http.Get(server.RedirectURI() + "?access_token=bearer-abc&state=state-1")
		if getErr == nil {
			_ = resp.Body.Close()
		}
	}()

	token, err := server.WaitForToken(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "bearer-abc", token)
}

func TestCallbackServerServesFragmentBridgeFirst(t *testing.T) {
	t.Parallel()

	server, err := StartCallbackServer("127.0.0.1:0", "state-1")
	require.NoError(t, err)
	defer server.Close()

	resp, err := http.Get(server.RedirectURI())
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "location.hash"))
}

func TestCallbackServerRejectsStateMismatch(t *testing.T) {
	t.Parallel()

	server, err := StartCallbackServer("127.0.0.1:0", "state-1")
	require.NoError(t, err)

	go func() {
		resp, getErr := http.Get(server.RedirectURI() + "?access_token=bearer-abc&state=wrong")
		if getErr == nil {
			_ = resp.Body.Close()
		}
	}()

	_, err = server.WaitForToken(2 * time.Second)
	require.ErrorIs(t, err, ErrStateMismatch)
}

func TestCallbackServerSurfacesOAuthError(t *testing.T) {
	t.Parallel()

	server, err := StartCallbackServer("127.0.0.1:0", "state-1")
	require.NoError(t, err)

	go func() {
		resp, getErr := http.Get(server.RedirectURI() + "?error=access_denied&error_description=user+declined")
		if getErr == nil {
			_ = resp.Body.Close()
		}
	}()

	_, err = server.WaitForToken(2 * time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access_denied")
	assert.Contains(t, err.Error(), "user declined")
}

func TestCallbackServerTimesOut(t *testing.T) {
	t.Parallel()

	server, err := StartCallbackServer("127.0.0.1:0", "state-1")
	require.NoError(t, err)

	_, err = server.WaitForToken(50 * time.Millisecond)
	require.ErrorIs(t, err, ErrCallbackTimeout)
}

func TestStartCallbackServerRequiresState(t *testing.T) {
	t.Parallel()

	_, err := StartCallbackServer("127.0.0.1:0", "")
	require.ErrorIs(t, err, ErrMissingState)
}

func TestNewStateIsUnique(t *testing.T) {
	t.Parallel()

	first, err := NewState()
	require.NoError(t, err)
	second, err := NewState()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.NotEmpty(t, first)
}
