package ports

import "context"

// CartMirror clears the server-side duplicate of a user's cart after an
// order has been placed. Clearing is best-effort: callers log failures
// and move on, because the order is already the source of truth.
type CartMirror interface {
	Clear(ctx context.Context, userID string) error
}
