package auth

import (
	"encoding/base64"
	"errors"
	"io"
	"time"

	"turf-reservation/internal/domain/user"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrRandomSourceFailure = errors.New("random source failure")
	ErrInvalidTokenPolicy  = errors.New("invalid token policy")
)

const DefaultRefreshTokenBytes = 64

// RandomSource supplies the entropy for refresh tokens.
type RandomSource io.Reader

type Credentials struct {
	email    user.Email
	password user.Password
}

func NewCredentials(emailStr, passwordStr string) (Credentials, error) {
	email, err := user.NewEmail(emailStr)
	if err != nil {
		return Credentials{}, err
	}

	password, err := user.NewPassword(passwordStr)
	if err != nil {
		return Credentials{}, err
	}

	return Credentials{
		email:    email,
		password: password,
	}, nil
}

func (c Credentials) Email() user.Email {
	return c.email
}

func (c Credentials) Password() user.Password {
	return c.password
}

// TokenPolicy fixes credential lifetimes and the refresh token entropy.
type TokenPolicy struct {
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	RefreshBytes int
}

func NewTokenPolicy(accessTTL, refreshTTL time.Duration, refreshBytes int) (TokenPolicy, error) {
	if accessTTL <= 0 || refreshTTL <= 0 || refreshBytes <= 0 {
		return TokenPolicy{}, ErrInvalidTokenPolicy
	}
	return TokenPolicy{
		AccessTTL:    accessTTL,
		RefreshTTL:   refreshTTL,
		RefreshBytes: refreshBytes,
	}, nil
}

type RefreshToken struct {
	value     string
	expiresAt time.Time
}

// GenerateRefreshToken reads size bytes from src and encodes them as standard base64.
func GenerateRefreshToken(src RandomSource, size int, now time.Time, ttl time.Duration) (RefreshToken, error) {
	if size <= 0 {
		size = DefaultRefreshTokenBytes
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(src, buf); err != nil {
		return RefreshToken{}, errors.Join(ErrRandomSourceFailure, err)
	}
	return RefreshToken{
		value:     base64.StdEncoding.EncodeToString(buf),
		expiresAt: now.Add(ttl),
	}, nil
}

func (t RefreshToken) Value() string        { return t.value }
func (t RefreshToken) ExpiresAt() time.Time { return t.expiresAt }

// TokenPair is what a successful issue or refresh hands back to the caller.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}
