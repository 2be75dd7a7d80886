package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/webpv/webpv-backend/internal/model"
	"github.com/webpv/webpv-backend/internal/repository"
	"github.com/webpv/webpv-backend/internal/utils"
)

// ----- in-memory fakes -----

type fakeUserStore struct {
	users map[string]model.User
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) UpdateFailedAttempts(_ context.Context, id string, attempts int) error {
	u := f.users[id]
	u.FailedAttempts = attempts
	f.users[id] = u
	return nil
}

func (f *fakeUserStore) SetBlocked(_ context.Context, id string, blocked bool) error {
	u := f.users[id]
	u.Blocked = blocked
	f.users[id] = u
	return nil
}

type tokenRow struct {
	userID  string
	exp     time.Time
	revoked bool
}

type fakeTokenStore struct {
	rows map[string]tokenRow
}

func (f *fakeTokenStore) StoreRefresh(_ context.Context, userID, tokenHash string, exp time.Time) error {
	f.rows[tokenHash] = tokenRow{userID: userID, exp: exp}
	return nil
}

func (f *fakeTokenStore) ValidateRefresh(_ context.Context, tokenHash string) (string, error) {
	row, ok := f.rows[tokenHash]
	if !ok || row.revoked || time.Now().UTC().After(row.exp) {
		return "", repository.ErrNotFound
	}
	return row.userID, nil
}

func (f *fakeTokenStore) RevokeByHash(_ context.Context, tokenHash string) error {
	row := f.rows[tokenHash]
	row.revoked = true
	f.rows[tokenHash] = row
	return nil
}

// ----- fixture -----

const (
	testUserID   = "A123456"
	testPassword = "secret-pass"
)

func newFixture(t *testing.T) (*Service, *fakeUserStore, *fakeTokenStore) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	users := &fakeUserStore{users: map[string]model.User{
		testUserID: {
			ID:           testUserID,
			Name:         "Test Advisor",
			Role:         model.RoleAdvisor,
			Route:        "001",
			PasswordHash: string(hash),
			Active:       true,
		},
	}}
	tokens := &fakeTokenStore{rows: map[string]tokenRow{}}
	limiter := NewLimiter(5, 15*time.Minute, 15*time.Minute)
	svc := NewService(users, tokens, limiter, "test-secret", 60, 7)
	return svc, users, tokens
}

// ----- tests -----

func TestAuthenticateAndRefreshRoundTrip(t *testing.T) {
	svc, _, _ := newFixture(t)
	ctx := context.Background()

	u, err := svc.Authenticate(ctx, testUserID, testPassword)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	pair, err := svc.IssueTokens(ctx, u)
	if err != nil {
		t.Fatalf("issue tokens: %v", err)
	}
	if pair.ExpiresIn != 3600 {
		t.Fatalf("expiresIn = %d, want 3600", pair.ExpiresIn)
	}

	claims, err := svc.VerifyAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if claims.UserID != testUserID || claims.Role != model.RoleAdvisor || claims.Route != "001" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	owner, err := svc.ValidateRefresh(ctx, pair.Refresh)
	if err != nil {
		t.Fatalf("validate refresh: %v", err)
	}
	if owner.ID != testUserID {
		t.Fatalf("refresh resolved to %s, want %s", owner.ID, testUserID)
	}
}

func TestWrongPasswordIncrementsCounterAndBlocksAtFive(t *testing.T) {
	svc, users, _ := newFixture(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		_, err := svc.Authenticate(ctx, testUserID, "wrong")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: got %v, want invalid credentials", i, err)
		}
		if got := users.users[testUserID].FailedAttempts; got != i {
			t.Fatalf("attempt %d: counter = %d, want %d", i, got, i)
		}
	}
	if !users.users[testUserID].Blocked {
		t.Fatal("user must be durably blocked after 5 failures")
	}

	// The limiter reached its threshold too, so the next attempt is cut
	// off before the store is consulted.
	_, err := svc.Authenticate(ctx, testUserID, testPassword)
	var rl *RateLimitedError
	if !errors.As(err, &rl) {
		t.Fatalf("expected rate limit on 6th attempt, got %v", err)
	}
}

func TestBlockedUserFailsBeforePasswordCheck(t *testing.T) {
	svc, users, _ := newFixture(t)
	ctx := context.Background()

	u := users.users[testUserID]
	u.Blocked = true
	users.users[testUserID] = u

	// Even the correct password must not get through.
	_, err := svc.Authenticate(ctx, testUserID, testPassword)
	if !errors.Is(err, ErrAccountBlocked) {
		t.Fatalf("got %v, want account blocked", err)
	}
	if got := users.users[testUserID].FailedAttempts; got != 0 {
		t.Fatalf("blocked login must not touch the counter, got %d", got)
	}
}

func TestInactiveUserReportsBlockedKind(t *testing.T) {
	svc, users, _ := newFixture(t)
	ctx := context.Background()

	u := users.users[testUserID]
	u.Active = false
	users.users[testUserID] = u

	_, err := svc.Authenticate(ctx, testUserID, testPassword)
	if !errors.Is(err, ErrAccountInactive) {
		t.Fatalf("got %v, want account inactive", err)
	}
	if !errors.Is(err, ErrAccountBlocked) {
		t.Fatal("inactive must share the blocked error kind")
	}
}

func TestUnknownUserIndistinguishableFromWrongPassword(t *testing.T) {
	svc, _, _ := newFixture(t)
	ctx := context.Background()

	_, errUnknown := svc.Authenticate(ctx, "Z999999", "whatever")
	_, errWrong := svc.Authenticate(ctx, testUserID, "wrong")
	if !errors.Is(errUnknown, ErrInvalidCredentials) || !errors.Is(errWrong, ErrInvalidCredentials) {
		t.Fatalf("both cases must report invalid credentials, got %v / %v", errUnknown, errWrong)
	}
}

func TestSuccessResetsPersistedCounter(t *testing.T) {
	svc, users, _ := newFixture(t)
	ctx := context.Background()

	u := users.users[testUserID]
	u.FailedAttempts = 3
	users.users[testUserID] = u

	if _, err := svc.Authenticate(ctx, testUserID, testPassword); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got := users.users[testUserID].FailedAttempts; got != 0 {
		t.Fatalf("counter = %d after success, want 0", got)
	}
}

func TestRevokedRefreshRejectedBeforeExpiry(t *testing.T) {
	svc, _, _ := newFixture(t)
	ctx := context.Background()

	u, _ := svc.Authenticate(ctx, testUserID, testPassword)
	pair, err := svc.IssueTokens(ctx, u)
	if err != nil {
		t.Fatalf("issue tokens: %v", err)
	}

	if err := svc.RevokeRefresh(ctx, pair.Refresh); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := svc.ValidateRefresh(ctx, pair.Refresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("revoked token validated: %v", err)
	}
	// Revocation is permanent.
	if err := svc.RevokeRefresh(ctx, pair.Refresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("second revoke should report invalid token, got %v", err)
	}
}

func TestExpiredRefreshRejected(t *testing.T) {
	svc, _, tokens := newFixture(t)
	ctx := context.Background()

	raw := "expired-raw-token"
	tokens.rows[utils.HashRefreshRaw(raw)] = tokenRow{
		userID: testUserID,
		exp:    time.Now().UTC().Add(-time.Minute),
	}
	if _, err := svc.ValidateRefresh(ctx, raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token validated: %v", err)
	}
}

func TestRefreshDoesNotRotate(t *testing.T) {
	svc, _, _ := newFixture(t)
	ctx := context.Background()

	u, _ := svc.Authenticate(ctx, testUserID, testPassword)
	pair, err := svc.IssueTokens(ctx, u)
	if err != nil {
		t.Fatalf("issue tokens: %v", err)
	}

	// The same refresh token keeps working across renewals.
	for i := 0; i < 3; i++ {
		access, expiresIn, err := svc.Refresh(ctx, pair.Refresh)
		if err != nil {
			t.Fatalf("refresh %d: %v", i, err)
		}
		if expiresIn != 3600 {
			t.Fatalf("refresh %d: expiresIn = %d", i, expiresIn)
		}
		if _, err := svc.VerifyAccess(access.Token); err != nil {
			t.Fatalf("refresh %d: new access token invalid: %v", i, err)
		}
	}
}

func TestRefreshTokenOwnerGoneRejected(t *testing.T) {
	svc, users, _ := newFixture(t)
	ctx := context.Background()

	u, _ := svc.Authenticate(ctx, testUserID, testPassword)
	pair, err := svc.IssueTokens(ctx, u)
	if err != nil {
		t.Fatalf("issue tokens: %v", err)
	}

	delete(users.users, testUserID)
	if _, err := svc.ValidateRefresh(ctx, pair.Refresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("orphaned token validated: %v", err)
	}
}
