package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"volunteerhub/pkg/types"
)

const (
	claimRole     = "role"
	claimUsername = "username"
)

var ErrInvalidToken = errors.New("invalid session token")

// Claims is what a session token carries about its user.
type Claims struct {
	UserID    string
	Username  string
	Role      types.Role
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	key    []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(key []byte, issuer string, ttl time.Duration) (*TokenIssuer, error) {
	if len(key) < 32 {
		return nil, fmt.Errorf("token signing key must be at least 32 bytes, got %d", len(key))
	}
	return &TokenIssuer{key: key, issuer: issuer, ttl: ttl, now: time.Now}, nil
}

func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}

func (t *TokenIssuer) Issue(user *types.User) (string, error) {
	now := t.now()

	token, err := jwt.NewBuilder().
		Issuer(t.issuer).
		Subject(user.ID).
		IssuedAt(now).
		Expiration(now.Add(t.ttl)).
		Claim(claimRole, string(user.Role)).
		Claim(claimUsername, user.Username).
		Build()
	if err != nil {
		return "", fmt.Errorf("failed to build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), t.key))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return string(signed), nil
}

func (t *TokenIssuer) Parse(raw string) (*Claims, error) {
	token, err := jwt.Parse(
		[]byte(raw),
		jwt.WithKey(jwa.HS256(), t.key),
		jwt.WithValidate(true),
		jwt.WithIssuer(t.issuer),
		jwt.WithClock(jwt.ClockFunc(t.now)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	userID, ok := token.Subject()
	if !ok || userID == "" {
		return nil, fmt.Errorf("%w: no subject", ErrInvalidToken)
	}

	var role string
	if err := token.Get(claimRole, &role); err != nil {
		return nil, fmt.Errorf("%w: no role claim", ErrInvalidToken)
	}

	claims := &Claims{UserID: userID, Role: types.Role(role)}
	_ = token.Get(claimUsername, &claims.Username)
	if exp, ok := token.Expiration(); ok {
		claims.ExpiresAt = exp
	}

	return claims, nil
}
