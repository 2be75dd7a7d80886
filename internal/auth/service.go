package auth

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/webpv/webpv-backend/internal/model"
	"github.com/webpv/webpv-backend/internal/repository"
	"github.com/webpv/webpv-backend/internal/utils"
)

// blockThreshold is the persisted failed-attempt count at which an account
// is durably blocked.  It is deliberately hardcoded: the ephemeral limiter
// threshold is tunable, the durable block policy is not.
const blockThreshold = 5

// UserStore is the slice of the user repository the auth service needs.
type UserStore interface {
	GetByID(ctx context.Context, id string) (model.User, error)
	UpdateFailedAttempts(ctx context.Context, id string, attempts int) error
	SetBlocked(ctx context.Context, id string, blocked bool) error
}

// TokenStore is the slice of the token repository the auth service needs.
type TokenStore interface {
	StoreRefresh(ctx context.Context, userID, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (string, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
}

// TokenPair is the result of issuing tokens for a user: a signed access
// token, a raw opaque refresh token and the access TTL in seconds.
type TokenPair struct {
	AccessToken string
	AccessExp   time.Time
	Refresh     string
	RefreshExp  time.Time
	ExpiresIn   int
}

// Service bundles the authenticator and the token service.  Both layers of
// lockout live here: the injected Limiter (fast, per-process) and the
// persisted failed-attempt counter / blocked flag on the user record
// (durable).  The redundancy is intentional.
type Service struct {
	Users   UserStore
	Tokens  TokenStore
	Limiter *Limiter

	Secret         string
	AccessTTLMin   int
	RefreshTTLDays int
}

// NewService wires the auth service from its collaborators.
func NewService(users UserStore, tokens TokenStore, limiter *Limiter, secret string, accessTTLMin, refreshTTLDays int) *Service {
	return &Service{
		Users:          users,
		Tokens:         tokens,
		Limiter:        limiter,
		Secret:         secret,
		AccessTTLMin:   accessTTLMin,
		RefreshTTLDays: refreshTTLDays,
	}
}

// Authenticate verifies a user id / password pair and enforces lockout
// policy.  The order of checks matters:
//
//  1. the limiter gate runs first, so a locked account fails before any
//     store access;
//  2. an unknown id records a failure and reports ErrInvalidCredentials,
//     never "no such user";
//  3. blocked and inactive accounts fail before the password is verified;
//  4. a wrong password records a failure, persists the incremented counter
//     and durably blocks the account when the counter reaches the
//     threshold;
//  5. success clears the limiter and resets a nonzero persisted counter.
func (s *Service) Authenticate(ctx context.Context, userID, password string) (model.User, error) {
	if err := s.Limiter.Allow(userID); err != nil {
		return model.User{}, err
	}

	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.Limiter.RecordFailure(userID)
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, err
	}

	if u.Blocked {
		log.Printf("auth: login attempt for blocked user %s", userID)
		return model.User{}, ErrAccountBlocked
	}
	if !u.Active {
		log.Printf("auth: login attempt for inactive user %s", userID)
		return model.User{}, ErrAccountInactive
	}

	if !utils.VerifyPassword(u.PasswordHash, password) {
		s.Limiter.RecordFailure(userID)
		attempts := u.FailedAttempts + 1
		// Persistence of the counter is best effort: the limiter already
		// holds the fast-path state, so a store hiccup must not change the
		// response the caller sees.
		if err := s.Users.UpdateFailedAttempts(ctx, userID, attempts); err != nil {
			log.Printf("auth: persist failed attempts for %s: %v", userID, err)
		}
		if attempts >= blockThreshold {
			if err := s.Users.SetBlocked(ctx, userID, true); err != nil {
				log.Printf("auth: block user %s: %v", userID, err)
			} else {
				log.Printf("auth: user %s blocked after %d failed attempts", userID, attempts)
			}
		}
		return model.User{}, ErrInvalidCredentials
	}

	s.Limiter.ClearFailures(userID)
	if u.FailedAttempts > 0 {
		if err := s.Users.UpdateFailedAttempts(ctx, userID, 0); err != nil {
			log.Printf("auth: reset failed attempts for %s: %v", userID, err)
		}
	}
	return u, nil
}

// IssueTokens creates a signed access token and a fresh opaque refresh
// token for the user.  The refresh token is persisted by hash with an
// expiry of now plus the refresh TTL; the raw value goes back to the client
// exactly once.
func (s *Service) IssueTokens(ctx context.Context, u model.User) (TokenPair, error) {
	access, err := utils.NewAccessToken(s.Secret, u.ID, u.Role, u.Route, s.AccessTTLMin)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := utils.NewRefreshToken(s.RefreshTTLDays)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken: access.Token,
		AccessExp:   access.Exp,
		Refresh:     refresh.Raw,
		RefreshExp:  refresh.Exp,
		ExpiresIn:   s.AccessTTLMin * 60,
	}, nil
}

// VerifyAccess statelessly verifies an access token and returns its claims.
// Signature, expiry, shape and type failures all map to ErrInvalidToken.
func (s *Service) VerifyAccess(raw string) (utils.AccessClaims, error) {
	claims, err := utils.ParseAccessToken(s.Secret, raw)
	if err != nil {
		return utils.AccessClaims{}, ErrInvalidToken
	}
	return claims, nil
}

// ValidateRefresh resolves a raw refresh token to its owning user.  The
// token stays valid: this call never rotates or revokes it.  Absent,
// revoked and expired tokens, and tokens whose owner no longer exists, all
// report ErrInvalidToken.
func (s *Service) ValidateRefresh(ctx context.Context, raw string) (model.User, error) {
	userID, err := s.Tokens.ValidateRefresh(ctx, utils.HashRefreshRaw(raw))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, ErrInvalidToken
		}
		return model.User{}, err
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Printf("auth: user %s missing for valid refresh token", userID)
			return model.User{}, ErrInvalidToken
		}
		return model.User{}, err
	}
	return u, nil
}

// Refresh exchanges a valid refresh token for a new access token.  The
// refresh token is left untouched and keeps working until its natural
// expiry or an explicit revoke.
func (s *Service) Refresh(ctx context.Context, raw string) (utils.AccessToken, int, error) {
	u, err := s.ValidateRefresh(ctx, raw)
	if err != nil {
		return utils.AccessToken{}, 0, err
	}
	access, err := utils.NewAccessToken(s.Secret, u.ID, u.Role, u.Route, s.AccessTTLMin)
	if err != nil {
		return utils.AccessToken{}, 0, err
	}
	return access, s.AccessTTLMin * 60, nil
}

// RevokeRefresh validates and then permanently revokes a refresh token.
// Used by logout; a revoked token never validates again.
func (s *Service) RevokeRefresh(ctx context.Context, raw string) error {
	hash := utils.HashRefreshRaw(raw)
	if _, err := s.Tokens.ValidateRefresh(ctx, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	return s.Tokens.RevokeByHash(ctx, hash)
}
