package refresh

import "context"

type (
	// Dashboard reloads the backend-owned slices of the session container.
	Dashboard interface {
		Initialize(ctx context.Context) error
	}
)
