package model

import "time"

// Role values stored in users.role and carried in the access token's
// "role" claim.
const (
	RoleAdvisor    = "advisor"
	RoleSupervisor = "supervisor"
	RoleAdmin      = "admin"
)

// User represents an application user record as stored in the `users`
// table.  User ids are external identifiers provisioned by the sales
// organization (short alphanumeric codes), not auto-increment keys.
// The json tags are omitted because these structs are used internally by
// the repository layer; handlers define separate response types with
// appropriate JSON tags.
//
// Fields:
//
//	ID             – external user identifier (e.g. "A123456").
//	Name           – display name.
//	Role           – advisor, supervisor or admin.
//	Route          – route code owned by the user (e.g. "001").
//	PasswordHash   – bcrypt hashed password.
//	Active         – whether the account is enabled at all.
//	Blocked        – set after repeated failed logins; cleared by an admin.
//	FailedAttempts – persisted count of consecutive failed logins.
//	CreatedAt      – timestamp of creation.
//	UpdatedAt      – timestamp of last update.
type User struct {
	ID             string    // users.id
	Name           string    // users.name
	Role           string    // users.role
	Route          string    // users.route
	PasswordHash   string    // users.password_hash
	Active         bool      // users.is_active
	Blocked        bool      // users.is_blocked
	FailedAttempts int       // users.failed_attempts
	CreatedAt      time.Time // users.created_at
	UpdatedAt      time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each refresh
// token belongs to a user and contains metadata for expiry and revocation.
// The plain token is not stored; only its SHA-256 hash.
//
// Fields:
//
//	ID        – primary key identifier.
//	UserID    – owner of the token.
//	TokenHash – SHA-256 hex digest of the token value.
//	ExpiresAt – expiration timestamp of the token.
//	RevokedAt – when the token was revoked (null if still active).
//	CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    string     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
