package readstore

import (
	"context"

	"github.com/google/uuid"

	"turf-reservation/internal/domain/user"
	"turf-reservation/internal/infra"
	"turf-reservation/internal/infra/query"
	"turf-reservation/internal/infra/repository/converter"
	"turf-reservation/internal/pkg/pgconv"
	"turf-reservation/internal/usecase/queries"
)

type UserReadQueries interface {
	FindUserByID(ctx context.Context, db query.DBTX, id uuid.UUID) (query.User, error)
	FindUserByEmail(ctx context.Context, db query.DBTX, email string) (query.User, error)
}

type UserReadStore struct {
	queries UserReadQueries
	db      query.DBTX
}

func NewUserReadStore(queries UserReadQueries, db query.DBTX) *UserReadStore {
	return &UserReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	row, err := r.queries.FindUserByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}

	return toAuthorizedUserView(row), nil
}

// LoadByID returns the user entity, refresh token fields included.
func (r *UserReadStore) LoadByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	row, err := r.queries.FindUserByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}
	return toUserEntity(row)
}

func (r *UserReadStore) LoadByEmail(ctx context.Context, email string) (*user.User, error) {
	row, err := r.queries.FindUserByEmail(ctx, r.db, email)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by email", err)
	}
	return toUserEntity(row)
}

func toUserEntity(row query.User) (*user.User, error) {
	u, err := converter.UserFromInfra(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert user", err)
	}
	return u, nil
}

func toAuthorizedUserView(row query.User) *queries.AuthorizedUserView {
	return &queries.AuthorizedUserView{
		ID:       row.ID,
		Email:    row.Email,
		Name:     row.Name,
		Role:     row.Role,
		IsActive: row.IsActive,
	}
}
