package commands

//go:generate mockgen -destination=../../testutil/mock/commands/auth_mock.go -package=commandsmock . AuthCommands

import (
	"context"
	"log/slog"
	"time"

	"turf-reservation/internal/domain/auth"
	"turf-reservation/internal/domain/user"
	"turf-reservation/internal/infra"
	"turf-reservation/internal/pkg/clock"
	"turf-reservation/internal/pkg/errs"
	"turf-reservation/internal/pkg/jwt"
	"turf-reservation/internal/pkg/password"
	"turf-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound         = errs.New("user not found")
	ErrInvalidCredentials   = errs.New("invalid credentials")
	ErrUserInactive         = errs.New("user inactive")
	ErrEmailTaken           = errs.New("email already registered")
	ErrInvalidToken         = errs.New("invalid or expired refresh token")
	ErrRefreshTokenNotFound = errs.New("refresh token not found")
	ErrTokenGeneration      = errs.New("token generation failed")
)

type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	UserID    uuid.UUID
	TokenPair auth.TokenPair
}

type AuthCommands interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	IssueCredentials(ctx context.Context, userID uuid.UUID) (*auth.TokenPair, error)
	RefreshCredentials(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	RevokeCredentials(ctx context.Context, refreshToken string) error
}

type authCommandsImpl struct {
	uow        shared.UnitOfWork
	jwtService *jwt.Service
	policy     auth.TokenPolicy
	random     auth.RandomSource
	clock      clock.Clock
}

func NewAuthCommands(
	uow shared.UnitOfWork,
	jwtService *jwt.Service,
	policy auth.TokenPolicy,
	random auth.RandomSource,
	clock clock.Clock,
) AuthCommands {
	return &authCommandsImpl{
		uow:        uow,
		jwtService: jwtService,
		policy:     policy,
		random:     random,
		clock:      clock,
	}
}

func (a *authCommandsImpl) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	credentials, err := auth.NewCredentials(input.Email, input.Password)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidInput)
	}
	name, err := user.NewName(input.Name)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidInput)
	}

	hash, err := password.HashPassword(credentials.Password().Value())
	if err != nil {
		return nil, errs.Wrap(err, "failed to hash password")
	}

	newUser := user.NewUser(credentials.Email(), name, hash, user.RoleCustomer, a.clock.Now())

	var pair *auth.TokenPair
	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Users().Create(ctx, newUser); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrEmailTaken
			}
			return err
		}
		issued, err := a.issue(ctx, tx, newUser)
		if err != nil {
			return err
		}
		pair = issued
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("user registered", "user_id", newUser.ID(), "role", newUser.Role().String())
	return &AuthResult{UserID: newUser.ID(), TokenPair: *pair}, nil
}

func (a *authCommandsImpl) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	credentials, err := auth.NewCredentials(input.Email, input.Password)
	if err != nil {
		// Same error as password mismatch to prevent user enumeration
		return nil, ErrInvalidCredentials
	}

	found, err := a.uow.CommandReads().UserByEmail(ctx, credentials.Email().Value())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := password.ComparePassword(found.PasswordHash(), credentials.Password().Value()); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !found.IsActive() {
		return nil, ErrUserInactive
	}

	var pair *auth.TokenPair
	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Users().UpdateLastLogin(ctx, found.ID(), a.clock.Now()); err != nil {
			return err
		}
		issued, err := a.issue(ctx, tx, found)
		if err != nil {
			return err
		}
		pair = issued
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &AuthResult{UserID: found.ID(), TokenPair: *pair}, nil
}

// IssueCredentials mints a fresh pair and overwrites any stored refresh token.
func (a *authCommandsImpl) IssueCredentials(ctx context.Context, userID uuid.UUID) (*auth.TokenPair, error) {
	var pair *auth.TokenPair
	err := a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		found, err := tx.Reads().UserByID(ctx, userID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if !found.IsActive() {
			return ErrUserInactive
		}
		issued, err := a.issue(ctx, tx, found)
		if err != nil {
			return err
		}
		pair = issued
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// RefreshCredentials rotates the presented token. Missing and expired tokens are reported alike.
func (a *authCommandsImpl) RefreshCredentials(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrInvalidToken
	}

	var pair *auth.TokenPair
	err := a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := a.clock.Now()
		next, err := auth.GenerateRefreshToken(a.random, a.policy.RefreshBytes, now, a.policy.RefreshTTL)
		if err != nil {
			return errs.Mark(err, ErrTokenGeneration)
		}

		owner, err := tx.Users().RotateRefreshToken(ctx, refreshToken, next.Value(), next.ExpiresAt(), now)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrInvalidToken
			}
			return err
		}
		if !owner.IsActive() {
			return ErrUserInactive
		}

		access, accessExpiresAt, err := a.signAccessToken(owner, now)
		if err != nil {
			return err
		}
		pair = &auth.TokenPair{
			AccessToken:      access,
			AccessExpiresAt:  accessExpiresAt,
			RefreshToken:     next.Value(),
			RefreshExpiresAt: next.ExpiresAt(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (a *authCommandsImpl) RevokeCredentials(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return ErrRefreshTokenNotFound
	}
	return a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		userID, err := tx.Users().ClearRefreshToken(ctx, refreshToken)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrRefreshTokenNotFound
			}
			return err
		}
		slog.Info("refresh token revoked", "user_id", userID)
		return nil
	})
}

func (a *authCommandsImpl) issue(ctx context.Context, tx shared.Tx, u *user.User) (*auth.TokenPair, error) {
	now := a.clock.Now()

	refresh, err := auth.GenerateRefreshToken(a.random, a.policy.RefreshBytes, now, a.policy.RefreshTTL)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}
	if err := tx.Users().StoreRefreshToken(ctx, u.ID(), refresh.Value(), refresh.ExpiresAt()); err != nil {
		return nil, err
	}

	access, accessExpiresAt, err := a.signAccessToken(u, now)
	if err != nil {
		return nil, err
	}

	return &auth.TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExpiresAt,
		RefreshToken:     refresh.Value(),
		RefreshExpiresAt: refresh.ExpiresAt(),
	}, nil
}

func (a *authCommandsImpl) signAccessToken(u *user.User, now time.Time) (string, time.Time, error) {
	token, expiresAt, err := a.jwtService.GenerateAccessToken(u.ID(), u.Email().Value(), u.Name().Value(), u.Role(), now)
	if err != nil {
		return "", time.Time{}, errs.Mark(err, ErrTokenGeneration)
	}
	return token, expiresAt, nil
}
