package ports

import "context"

// AccountsAPI fetches profile data from the accounts backend on behalf of
// the logged-in user.
type AccountsAPI interface {
	UserInfo(ctx context.Context, token, clientID string, fields []string) (map[string]any, error)
}
