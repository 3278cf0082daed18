package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain/models"
	"storefront/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type UserRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewUserRepository(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{
		db: db,
		sb: newStatementBuilder(),
	}
}

var userColumns = []string{"id", "username", "email", "password_hash", "role", "created_at"}

func (r *UserRepo) SaveUser(ctx context.Context, user models.User) (uuid.UUID, error) {
	const op = "repository.user_repository.SaveUser"

	query, args, err := r.sb.Insert("users").
		Columns(
			"username",
			"email",
			"password_hash",
			"role",
		).
		Values(
			user.Username,
			user.Email,
			string(user.PasswordHash),
			user.Role,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	var id uuid.UUID
	err = r.db.QueryRow(ctx, query, args...).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, fmt.Errorf("%s: %w", op, storage.ErrUserExists)
		}
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (r *UserRepo) UserByUsername(ctx context.Context, username string) (models.User, error) {
	return r.userBy(ctx, "repository.user_repository.UserByUsername", sq.Eq{"username": username})
}

func (r *UserRepo) UserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.userBy(ctx, "repository.user_repository.UserByEmail", sq.Expr("LOWER(email) = LOWER(?)", email))
}

func (r *UserRepo) UserByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	return r.userBy(ctx, "repository.user_repository.UserByID", sq.Eq{"id": userID})
}

func (r *UserRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash []byte) error {
	const op = "repository.user_repository.UpdatePassword"

	query, args, err := r.sb.Update("users").
		Set("password_hash", string(passwordHash)).
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}

	return nil
}

func (r *UserRepo) userBy(ctx context.Context, op string, pred sq.Sqlizer) (models.User, error) {
	query, args, err := r.sb.Select(userColumns...).From("users").Where(pred).ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var (
		user models.User
		hash string
	)

	err = r.db.QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&hash,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	user.PasswordHash = []byte(hash)

	return user, nil
}
