package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the requester identity. The refresh token pair lives on the same row
// so that rotating it is a single-row update.
type User struct {
	id                 uuid.UUID
	email              Email
	name               Name
	passwordHash       string
	role               Role
	refreshToken       *string
	refreshTokenExpiry *time.Time
	lastLogin          *time.Time
	isActive           bool
	createdAt          time.Time
	updatedAt          time.Time
}

func NewUser(email Email, name Name, passwordHash string, role Role, now time.Time) *User {
	return &User{
		id:           uuid.New(),
		email:        email,
		name:         name,
		passwordHash: passwordHash,
		role:         role,
		isActive:     true,
		createdAt:    now,
		updatedAt:    now,
	}
}

func ReconstructUser(
	id uuid.UUID,
	email Email,
	name Name,
	passwordHash string,
	role Role,
	refreshToken *string,
	refreshTokenExpiry *time.Time,
	lastLogin *time.Time,
	isActive bool,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:                 id,
		email:              email,
		name:               name,
		passwordHash:       passwordHash,
		role:               role,
		refreshToken:       refreshToken,
		refreshTokenExpiry: refreshTokenExpiry,
		lastLogin:          lastLogin,
		isActive:           isActive,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

// HasLiveRefreshToken reports whether token matches the stored value and has not expired.
func (u *User) HasLiveRefreshToken(token string, now time.Time) bool {
	if u.refreshToken == nil || u.refreshTokenExpiry == nil {
		return false
	}
	return *u.refreshToken == token && u.refreshTokenExpiry.After(now)
}

func (u *User) ID() uuid.UUID                  { return u.id }
func (u *User) Email() Email                   { return u.email }
func (u *User) Name() Name                     { return u.name }
func (u *User) PasswordHash() string           { return u.passwordHash }
func (u *User) Role() Role                     { return u.role }
func (u *User) RefreshToken() *string          { return u.refreshToken }
func (u *User) RefreshTokenExpiry() *time.Time { return u.refreshTokenExpiry }
func (u *User) LastLogin() *time.Time          { return u.lastLogin }
func (u *User) IsActive() bool                 { return u.isActive }
func (u *User) CreatedAt() time.Time           { return u.createdAt }
func (u *User) UpdatedAt() time.Time           { return u.updatedAt }
