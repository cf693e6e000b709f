package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gplaydev/gtv-sdk-go/internal/ports"
)

const (
	userInfoPath         = "/auth-connect/api/v2.0/oauth2/auth/userinfo"
	maxUserInfoBodyBytes = 1 << 20
)

// Client fetches profile data from the accounts backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ ports.AccountsAPI = (*Client)(nil)

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// UserInfo requests the given profile fields with the bearer token and
// client id the backend expects.
func (c *Client) UserInfo(ctx context.Context, token, clientID string, fields []string) (map[string]any, error) {
	if token == "" {
		return nil, errors.New("token is required")
	}

	endpoint, err := url.Parse(c.baseURL + userInfoPath)
	if err != nil {
		return nil, fmt.Errorf("parse userinfo url: %w", err)
	}
	if len(fields) > 0 {
		q := endpoint.Query()
		q.Set("fields", strings.Join(fields, ","))
		endpoint.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("ClientID", clientID)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("userinfo endpoint returned status %d", resp.StatusCode)
	}

	var info map[string]any
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxUserInfoBodyBytes)).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode userinfo response: %w", err)
	}

	return info, nil
}
