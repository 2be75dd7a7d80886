package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/rand"   // secure random number generation
	"crypto/sha256" // SHA-256 hashing for refresh tokens
	"encoding/hex"  // hex encoding and decoding functions
	"errors"        // sentinel errors for token parsing
	"fmt"           // error wrapping
	"time"          // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// TokenTypeAccess is the value of the "type" claim stamped into access
// tokens.  Verification rejects any JWT without it so refresh material or
// foreign tokens can never pass as access tokens.
const TokenTypeAccess = "access"

// ErrBadToken is returned by ParseAccessToken for any token that fails
// signature, shape, expiry or type checks.  The parse failure detail is
// wrapped for logs but callers should surface a single generic message.
var ErrBadToken = errors.New("bad access token")

// AccessToken represents a signed JWT access token along with its expiry.
// Access tokens are short-lived and sent in the Authorization header when
// calling protected endpoints.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// RefreshToken represents a long-lived token used to obtain new access
// tokens.  The Raw field contains the raw token string returned to the
// client.  In the database only a SHA-256 hash of the raw string is stored.
type RefreshToken struct {
	Raw string    // raw token string returned to the client
	Exp time.Time // UTC expiration time
}

// AccessClaims are the application claims extracted from a verified access
// token: the subject user id plus the role and route the token was issued
// for.
type AccessClaims struct {
	UserID string
	Role   string
	Route  string
}

// NewAccessToken builds and signs an HS256 JWT for a user.  It takes the
// signing secret, the external user id, the user's role and route, and a
// TTL in minutes.  The JWT carries sub, role, route, exp, iat and a "type"
// discriminant so it can never be confused with other token kinds.
func NewAccessToken(secret, userID, role, route string, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":   userID,
		"role":  role,
		"route": route,
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
		"type":  TokenTypeAccess,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies the signature, expiry and type of a raw access
// token and returns its application claims.  Any failure is reported as
// ErrBadToken (with the underlying cause wrapped) so callers can map all
// invalid tokens to a single response.
func ParseAccessToken(secret, raw string) (AccessClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return AccessClaims{}, fmt.Errorf("%w: %v", ErrBadToken, err)
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return AccessClaims{}, ErrBadToken
	}
	if typ, _ := claims["type"].(string); typ != TokenTypeAccess {
		return AccessClaims{}, ErrBadToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return AccessClaims{}, ErrBadToken
	}
	role, _ := claims["role"].(string)
	route, _ := claims["route"].(string)
	return AccessClaims{UserID: sub, Role: role, Route: route}, nil
}

// NewRefreshToken returns a cryptographically secure random token (raw) and
// its expiration time.  The ttlDays parameter controls how many days the
// refresh token is valid.
func NewRefreshToken(ttlDays int) (RefreshToken, error) {
	raw, err := randomHex(48) // 48 bytes -> 96 hex chars
	if err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{
		Raw: raw,
		Exp: time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour),
	}, nil
}

// HashRefreshRaw returns the SHA-256 hash of the raw refresh token as a hex
// string.  Storing only the hash in the database prevents attackers from
// using stolen database entries to refresh sessions.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
