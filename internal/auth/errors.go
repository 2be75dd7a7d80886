// Package auth implements the credential and token lifecycle: the in-memory
// lockout tracker, the authenticator and the token service.  Handlers map
// the error values defined here onto transport responses.
package auth

import (
	"errors"
	"fmt"
)

// ErrInvalidCredentials covers a wrong password as well as an unknown user
// id.  The two cases are deliberately indistinguishable so login responses
// cannot be used to enumerate user ids.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrAccountBlocked is returned for an explicitly blocked account.
var ErrAccountBlocked = errors.New("account blocked")

// ErrAccountInactive is returned for a disabled account.  It wraps
// ErrAccountBlocked so callers that only care about the kind can test with
// errors.Is(err, ErrAccountBlocked); the message differs for support staff.
var ErrAccountInactive = fmt.Errorf("%w: account inactive", ErrAccountBlocked)

// ErrInvalidToken covers malformed, expired, revoked and unknown tokens,
// again without revealing which.
var ErrInvalidToken = errors.New("invalid token")

// RateLimitedError is returned when an account is temporarily locked after
// repeated failed logins.  RetryAfter is the number of seconds until the
// lock expires.
type RateLimitedError struct {
	RetryAfter int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry in %ds", e.RetryAfter)
}
