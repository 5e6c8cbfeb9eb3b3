package query

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const userColumns = `id, email, name, password_hash, role, is_active, refresh_token,
	refresh_token_expiry, last_login, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.Role,
		&u.IsActive,
		&u.RefreshToken,
		&u.RefreshTokenExpiry,
		&u.LastLogin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

type CreateUserParams struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
}

const createUser = `-- name: CreateUser :exec
INSERT INTO users (id, email, name, password_hash, role, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`

func (q *Queries) CreateUser(ctx context.Context, db DBTX, arg CreateUserParams) error {
	_, err := db.Exec(ctx, createUser,
		arg.ID,
		arg.Email,
		arg.Name,
		arg.PasswordHash,
		arg.Role,
		arg.IsActive,
		arg.CreatedAt,
	)
	return err
}

const findUserByEmail = `-- name: FindUserByEmail :one
SELECT ` + userColumns + ` FROM users WHERE email = $1`

func (q *Queries) FindUserByEmail(ctx context.Context, db DBTX, email string) (User, error) {
	return scanUser(db.QueryRow(ctx, findUserByEmail, email))
}

const findUserByID = `-- name: FindUserByID :one
SELECT ` + userColumns + ` FROM users WHERE id = $1`

func (q *Queries) FindUserByID(ctx context.Context, db DBTX, id uuid.UUID) (User, error) {
	return scanUser(db.QueryRow(ctx, findUserByID, id))
}

const updateUserLastLogin = `-- name: UpdateUserLastLogin :execrows
UPDATE users SET last_login = $2, updated_at = $2 WHERE id = $1`

func (q *Queries) UpdateUserLastLogin(ctx context.Context, db DBTX, id uuid.UUID, at time.Time) (int64, error) {
	tag, err := db.Exec(ctx, updateUserLastLogin, id, at)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type SetUserRefreshTokenParams struct {
	ID                 uuid.UUID
	RefreshToken       pgtype.Text
	RefreshTokenExpiry pgtype.Timestamptz
}

const setUserRefreshToken = `-- name: SetUserRefreshToken :execrows
UPDATE users
SET refresh_token = $2, refresh_token_expiry = $3, updated_at = now()
WHERE id = $1`

func (q *Queries) SetUserRefreshToken(ctx context.Context, db DBTX, arg SetUserRefreshTokenParams) (int64, error) {
	tag, err := db.Exec(ctx, setUserRefreshToken, arg.ID, arg.RefreshToken, arg.RefreshTokenExpiry)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type RotateUserRefreshTokenParams struct {
	Presented     string
	Next          string
	NextExpiresAt time.Time
	Now           time.Time
}

// The predicate and the overwrite run as one statement; a concurrent rotation of the same
// token blocks on the row lock and then finds no match.
const rotateUserRefreshToken = `-- name: RotateUserRefreshToken :one
UPDATE users
SET refresh_token = $2, refresh_token_expiry = $3, updated_at = $4
WHERE refresh_token = $1 AND refresh_token_expiry > $4
RETURNING ` + userColumns

func (q *Queries) RotateUserRefreshToken(ctx context.Context, db DBTX, arg RotateUserRefreshTokenParams) (User, error) {
	return scanUser(db.QueryRow(ctx, rotateUserRefreshToken, arg.Presented, arg.Next, arg.NextExpiresAt, arg.Now))
}

const clearUserRefreshToken = `-- name: ClearUserRefreshToken :one
UPDATE users
SET refresh_token = NULL, refresh_token_expiry = NULL, updated_at = now()
WHERE refresh_token = $1
RETURNING id`

func (q *Queries) ClearUserRefreshToken(ctx context.Context, db DBTX, token string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.QueryRow(ctx, clearUserRefreshToken, token).Scan(&id)
	return id, err
}
