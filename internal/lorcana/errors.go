package lorcana

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes the service can produce.
// Callers classify with errors.Is; the raw HTTP detail never leaves this
// package.
var (
	// ErrUnauthorized maps 401/403. The session is invalid and must be
	// re-established; callers must not retry the request.
	ErrUnauthorized = errors.New("lorcana: unauthorized")

	// ErrServiceUnavailable maps 5xx responses and bodies that are not
	// JSON (the service returns HTML error pages when it is down).
	ErrServiceUnavailable = errors.New("lorcana: service unavailable")

	// ErrNetworkUnreachable means no response was received at all,
	// including request timeouts.
	ErrNetworkUnreachable = errors.New("lorcana: network unreachable")

	// ErrAlreadyInWishlist is returned by AddToWishlist when the card is
	// already wishlisted server-side. Not fatal: the server state already
	// matches the caller's intent.
	ErrAlreadyInWishlist = errors.New("lorcana: card already in wishlist")

	// ErrNotInWishlist is the removal counterpart of ErrAlreadyInWishlist.
	ErrNotInWishlist = errors.New("lorcana: card not in wishlist")
)

// RequestError is any other 4xx rejection carrying a server-supplied
// message. The message is the most specific explanation available and is
// shown to the user verbatim.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("lorcana: request failed: %s", e.Message)
	}
	return fmt.Sprintf("lorcana: request failed with status %d", e.StatusCode)
}

// IsStateConflict reports whether err is one of the absorbed wishlist
// conflicts, where the server's state already matches the optimistic local
// state and no rollback is needed.
func IsStateConflict(err error) bool {
	return errors.Is(err, ErrAlreadyInWishlist) || errors.Is(err, ErrNotInWishlist)
}
