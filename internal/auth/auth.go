// Package auth checks the shared production password and issues signed,
// expiring bearer tokens.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotConfigured      = errors.New("auth not configured")
)

const (
	DefaultTTL = 12 * time.Hour
	subject    = "backstage"
)

type Config struct {
	Secret string
	// Password is either a bcrypt hash or the plain shared password.
	Password string
	TTL      time.Duration
}

type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Issuer struct {
	secret   []byte
	password string
	ttl      time.Duration
	Now      func() time.Time
}

func NewIssuer(cfg Config) (*Issuer, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, fmt.Errorf("%w: secret is empty", ErrNotConfigured)
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: []byte(cfg.Secret), password: cfg.Password, ttl: ttl, Now: time.Now}, nil
}

// HashPassword returns a bcrypt hash suitable for Config.Password.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (i *Issuer) checkPassword(password string) bool {
	if i.password == "" {
		return false
	}
	if strings.HasPrefix(i.password, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(i.password), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(i.password), []byte(password)) == 1
}

// Login issues a token when password matches.
func (i *Issuer) Login(password string) (Token, error) {
	if !i.checkPassword(password) {
		return Token{}, ErrInvalidCredentials
	}
	now := i.Now()
	exp := now.Add(i.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Token: signed, ExpiresAt: exp.UTC()}, nil
}

// Verify recomputes the signature and checks expiry.
func (i *Issuer) Verify(token string) error {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.Now),
	)
	claims := &jwt.RegisteredClaims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject != subject {
		return ErrInvalidToken
	}
	return nil
}
