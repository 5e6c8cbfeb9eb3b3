package repository

import (
	"context"
	"time"

	"turf-reservation/internal/domain/user"
	"turf-reservation/internal/infra"
	"turf-reservation/internal/infra/query"
	"turf-reservation/internal/infra/repository/converter"
	"turf-reservation/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type UserWriteQueries interface {
	CreateUser(ctx context.Context, db query.DBTX, arg query.CreateUserParams) error
	UpdateUserLastLogin(ctx context.Context, db query.DBTX, id uuid.UUID, at time.Time) (int64, error)
	SetUserRefreshToken(ctx context.Context, db query.DBTX, arg query.SetUserRefreshTokenParams) (int64, error)
	RotateUserRefreshToken(ctx context.Context, db query.DBTX, arg query.RotateUserRefreshTokenParams) (query.User, error)
	ClearUserRefreshToken(ctx context.Context, db query.DBTX, token string) (uuid.UUID, error)
}

type UserRepository struct {
	queries UserWriteQueries
	db      query.DBTX
}

func NewUserRepository(queries UserWriteQueries, db query.DBTX) *UserRepository {
	return &UserRepository{
		queries: queries,
		db:      db,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	if err := r.queries.CreateUser(ctx, r.db, converter.UserToInfra(u)); err != nil {
		return infra.WrapRepoErr("failed to create user", err)
	}
	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	affected, err := r.queries.UpdateUserLastLogin(ctx, r.db, userID, at)
	if err != nil {
		return infra.WrapRepoErr("failed to update user last login", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *UserRepository) StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	affected, err := r.queries.SetUserRefreshToken(ctx, r.db, query.SetUserRefreshTokenParams{
		ID:                 userID,
		RefreshToken:       pgconv.StringToPgtype(token),
		RefreshTokenExpiry: pgconv.TimeToPgtype(expiresAt),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to store refresh token", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *UserRepository) RotateRefreshToken(ctx context.Context, presented, next string, nextExpiresAt, now time.Time) (*user.User, error) {
	row, err := r.queries.RotateUserRefreshToken(ctx, r.db, query.RotateUserRefreshTokenParams{
		Presented:     presented,
		Next:          next,
		NextExpiresAt: nextExpiresAt,
		Now:           now,
	})
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("refresh token not found or expired", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to rotate refresh token", err)
	}

	u, err := converter.UserFromInfra(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert user", err)
	}
	return u, nil
}

func (r *UserRepository) ClearRefreshToken(ctx context.Context, presented string) (uuid.UUID, error) {
	id, err := r.queries.ClearUserRefreshToken(ctx, r.db, presented)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return uuid.Nil, infra.WrapRepoErr("refresh token not found", err, infra.KindNotFound)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to clear refresh token", err)
	}
	return id, nil
}
