package domain

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNoAdAvailable   = errors.New("no ad available")
	ErrNotLoggedIn     = errors.New("not logged in")
)
