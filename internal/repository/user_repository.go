package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/shop-service/internal/domain"
)

// ErrEmailTaken is returned when a write collides with the unique
// constraint on users.email. The database is the authority for this
// check; concurrent writers racing on the same address are serialized by
// the constraint, not by application locks.
var ErrEmailTaken = errors.New("email already taken")

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Create(ctx context.Context, fullName, passwordHash string) (string, error)
	GetByUUID(ctx context.Context, uuid string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateEmail(ctx context.Context, uuid, email string) error
	UpdateFullName(ctx context.Context, uuid, fullName string) error
	UpdatePassword(ctx context.Context, uuid, passwordHash string) error
	UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, fullName, passwordHash string) (string, error) {
	const query = `
        INSERT INTO users (full_name, password_hash)
        VALUES ($1, $2)
        RETURNING uuid`

	var uuid string
	if err := r.pool.QueryRow(ctx, query, fullName, passwordHash).Scan(&uuid); err != nil {
		return "", err
	}
	return uuid, nil
}

func (r *userRepository) GetByUUID(ctx context.Context, uuid string) (*domain.User, error) {
	const query = `
        SELECT uuid, full_name, email, password_hash, role
        FROM users WHERE uuid=$1`

	var user domain.User
	if err := r.pool.QueryRow(ctx, query, uuid).Scan(
		&user.UUID,
		&user.FullName,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT uuid, full_name, email, password_hash, role
        FROM users WHERE email=$1`

	var user domain.User
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&user.UUID,
		&user.FullName,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM users WHERE email=$1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *userRepository) UpdateEmail(ctx context.Context, uuid, email string) error {
	const query = `UPDATE users SET email=$1 WHERE uuid=$2`

	if _, err := r.pool.Exec(ctx, query, email, uuid); err != nil {
		return mapUniqueViolation(err)
	}
	return nil
}

func (r *userRepository) UpdateFullName(ctx context.Context, uuid, fullName string) error {
	const query = `UPDATE users SET full_name=$1 WHERE uuid=$2`

	_, err := r.pool.Exec(ctx, query, fullName, uuid)
	return err
}

func (r *userRepository) UpdatePassword(ctx context.Context, uuid, passwordHash string) error {
	const query = `UPDATE users SET password_hash=$1 WHERE uuid=$2`

	_, err := r.pool.Exec(ctx, query, passwordHash, uuid)
	return err
}

// UpdatePasswordByEmail silently affects zero rows when no account holds
// the email; callers rely on that for enumeration resistance.
func (r *userRepository) UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error {
	const query = `UPDATE users SET password_hash=$1 WHERE email=$2`

	_, err := r.pool.Exec(ctx, query, passwordHash, email)
	return err
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrEmailTaken
	}
	return err
}
