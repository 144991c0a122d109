package dashboard

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrNoCurrentClient  = errors.New("no current client selected")
	ErrNoBankInfo       = errors.New("bank info is not registered, payout cannot be requested")
)

// ValidationError is returned before any backend call is made.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("required fields are empty: %s", strings.Join(e.Fields, ", "))
}
