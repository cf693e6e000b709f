package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"
)

var (
	ErrStateMismatch   = errors.New("oauth callback state mismatch")
	ErrCallbackTimeout = errors.New("timed out waiting for oauth callback")
	ErrMissingState    = errors.New("expected state is required")
)

const authorizePath = "/auth-connect/api/v2.0/oauth2/auth"

// AuthorizationRequest describes one implicit-grant authorization. The
// token comes back in the redirect fragment, not through a code exchange.
type AuthorizationRequest struct {
	Issuer      string
	ClientID    string
	RedirectURI string
	Scope       string
	State       string
}

func NewState() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// BuildAuthorizationURL assembles the accounts-backend authorize URL for
// the implicit grant.
func BuildAuthorizationURL(req AuthorizationRequest) (string, error) {
	if req.Issuer == "" {
		return "", errors.New("issuer is required")
	}
	if req.ClientID == "" {
		return "", errors.New("client id is required")
	}
	if req.RedirectURI == "" {
		return "", errors.New("redirect uri is required")
	}
	if req.State == "" {
		return "", errors.New("state is required")
	}

	parsed, err := url.Parse(req.Issuer)
	if err != nil {
		return "", fmt.Errorf("parse issuer: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("issuer must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("issuer host is required")
	}
	parsed.Path = authorizePath

	scope := req.Scope
	if scope == "" {
		scope = "account"
	}

	q := parsed.Query()
	q.Set("response_type", "token")
	q.Set("client_id", req.ClientID)
	q.Set("redirect_uri", req.RedirectURI)
	q.Set("scope", scope)
	q.Set("state", req.State)
	q.Set("access_type", "offline")
	q.Set("client_type", "normal")
	parsed.RawQuery = q.Encode()

	return parsed.String(), nil
}

// CallbackServer captures the implicit-grant redirect on a loopback
// listener. Browsers never send URL fragments to the server, so the first
// hit on the callback path serves a bridge page that re-requests itself
// with the fragment parameters moved into the query string.
type CallbackServer struct {
	expectedState string
	listener      net.Listener
	server        *http.Server
	resultCh      chan callbackResult
	resultOnce    sync.Once
	closeOnce     sync.Once
}

type callbackResult struct {
	token string
	err   error
}

const fragmentBridgePage = `<!doctype html>
<html><body><script>
var h = window.location.hash;
if (h && h.length > 1) {
  window.location.replace(window.location.pathname + "?" + h.slice(1));
} else {
  document.body.textContent = "Missing credentials in redirect.";
}
</script></body></html>`

func StartCallbackServer(listenAddr string, expectedState string) (*CallbackServer, error) {
	if expectedState == "" {
		return nil, ErrMissingState
	}
	if listenAddr == "" {
		listenAddr = "127.0.0.1:0"
	}

	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, fmt.Errorf("listen callback server: %w", err)
	}

	cb := &CallbackServer{
		expectedState: expectedState,
		listener:      listener,
		resultCh:      make(chan callbackResult, 1),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/callback", cb.handleCallback)

	cb.server = &http.Server{Handler: mux}

	go func() {
		if serveErr := cb.server.Serve(cb.listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			cb.trySendResult(callbackResult{err: serveErr})
		}
	}()

	return cb, nil
}

func (c *CallbackServer) RedirectURI() string {
	if tcpAddr, ok := c.listener.Addr().(*net.TCPAddr); ok {
		return fmt.Sprintf("http://localhost:%d/auth/callback", tcpAddr.Port)
	}
	return "http://localhost/auth/callback"
}

// WaitForToken blocks until the redirect delivers a token, an OAuth error
// arrives, or the timeout elapses.
func (c *CallbackServer) WaitForToken(timeout time.Duration) (string, error) {
	defer c.Close()

	select {
	case result := <-c.resultCh:
		return result.token, result.err
	case <-time.After(timeout):
		return "", ErrCallbackTimeout
	}
}

func (c *CallbackServer) Close() error {
	var closeErr error
	c.closeOnce.Do(func() {
		closeErr = c.server.Close()
	})
	return closeErr
}

func (c *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	token := query.Get("access_token")

	if oauthError := query.Get("error"); oauthError != "" {
		if description := query.Get("error_description"); description != "" {
			oauthError = oauthError + ": " + description
		}
		c.trySendResult(callbackResult{err: errors.New(oauthError)})
		http.Error(w, "oauth error", http.StatusBadRequest)
		return
	}

	if token == "" {
		// Fragment not yet bridged into the query string.
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(fragmentBridgePage))
		return
	}

	if state := query.Get("state"); state != c.expectedState {
		c.trySendResult(callbackResult{err: ErrStateMismatch})
		http.Error(w, "state mismatch", http.StatusBadRequest)
		return
	}

	c.trySendResult(callbackResult{token: token})
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Login complete. You can close this window."))
}

func (c *CallbackServer) trySendResult(result callbackResult) {
	c.resultOnce.Do(func() {
		c.resultCh <- result
	})
}
