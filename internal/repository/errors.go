// Package repository defines error values that are reused across multiple
// repositories. These sentinel values allow higher layers such as the auth
// service to distinguish between failure scenarios without importing
// database/sql. For example, ErrNotFound covers a missing user as well as a
// refresh token that is absent, revoked or expired; the caller decides how
// much of that to reveal.
package repository

import "errors"

// ErrNotFound is returned when a looked-up record does not exist or is no
// longer usable (a revoked or expired refresh token is reported the same
// way as a missing one).
var ErrNotFound = errors.New("not found")
