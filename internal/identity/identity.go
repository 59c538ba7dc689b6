// Package identity provides the simulated authentication layer. The stub
// provider issues signed session tokens without verifying credentials
// against anything; real verification is explicitly out of scope.
package identity

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrMissingCredentials is returned when a login or registration field
	// is empty.
	ErrMissingCredentials = errors.New("name, email and password are required")

	// ErrInvalidToken is returned when a session token fails verification.
	ErrInvalidToken = errors.New("invalid session token")
)

// Claims are the payload of a session token.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// Session is an authenticated cashier session.
type Session struct {
	Token string
	Email string
	Name  string
}

// Provider abstracts the identity backend so a real one can replace the stub
// without touching the handlers.
type Provider interface {
	Register(ctx context.Context, name, email, password string) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Verify(token string) (*Claims, error)
}

// StubProvider accepts any non-empty credentials and issues HS256-signed
// tokens. It keeps no user records.
type StubProvider struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewStubProvider creates a StubProvider signing tokens with secret.
// Tokens expire after ttl; a non-positive ttl defaults to 24 hours.
func NewStubProvider(secret []byte, ttl time.Duration) *StubProvider {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &StubProvider{secret: secret, ttl: ttl, now: time.Now}
}

// Register behaves exactly like Login with an additional required name.
func (p *StubProvider) Register(_ context.Context, name, email, password string) (*Session, error) {
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	return p.issue(name, email)
}

// Login issues a session for any non-empty email/password pair.
func (p *StubProvider) Login(_ context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	return p.issue(email, email)
}

func (p *StubProvider) issue(name, email string) (*Session, error) {
	now := p.now()
	claims := Claims{
		UserID: uuid.New().String(),
		Email:  email,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return nil, errors.Wrap(err, "sign token")
	}
	return &Session{Token: token, Email: email, Name: name}, nil
}

// Verify parses and validates a session token.
func (p *StubProvider) Verify(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(p.now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
