package converter

import (
	"turf-reservation/internal/domain/user"
	"turf-reservation/internal/infra/query"
	"turf-reservation/internal/pkg/pgconv"
)

func UserToInfra(u *user.User) query.CreateUserParams {
	return query.CreateUserParams{
		ID:           u.ID(),
		Email:        u.Email().Value(),
		Name:         u.Name().Value(),
		PasswordHash: u.PasswordHash(),
		Role:         u.Role().String(),
		IsActive:     u.IsActive(),
		CreatedAt:    u.CreatedAt(),
	}
}

func UserFromInfra(row query.User) (*user.User, error) {
	email, err := user.NewEmail(row.Email)
	if err != nil {
		return nil, err
	}
	name, err := user.NewName(row.Name)
	if err != nil {
		return nil, err
	}
	role, err := user.NewRole(row.Role)
	if err != nil {
		return nil, err
	}

	return user.ReconstructUser(
		row.ID,
		email,
		name,
		row.PasswordHash,
		role,
		pgconv.StringPtrFromPgtype(row.RefreshToken),
		pgconv.TimePtrFromPgtype(row.RefreshTokenExpiry),
		pgconv.TimePtrFromPgtype(row.LastLogin),
		row.IsActive,
		row.CreatedAt,
		row.UpdatedAt,
	), nil
}
