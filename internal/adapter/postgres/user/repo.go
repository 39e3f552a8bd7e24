// Package user implements the account repository using PostgreSQL.
package user

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/pollylang/pollylang-backend/internal/adapter/postgres"
	"github.com/pollylang/pollylang-backend/internal/domain"
)

const table = "users"

var columns = []string{"id", "username", "email", "pass_hash", "character_name", "created_at"}

// Repo provides account persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new user repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Create inserts u and returns it with the stored creation time.
// Unique violations come back as domain.ErrUsernameTaken or
// domain.ErrEmailTaken.
func (r *Repo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	query, args, err := postgres.Builder().
		Insert(table).
		Columns("id", "username", "email", "pass_hash", "character_name").
		Values(u.ID, u.Username, u.Email, u.PasswordHash, u.CharacterName).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return domain.User{}, fmt.Errorf("build insert user: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := q.QueryRow(ctx, query, args...).Scan(&u.CreatedAt); err != nil {
		return domain.User{}, mapCreateError(postgres.MapError(err, "user", u.Username))
	}
	return u, nil
}

// GetByLogin returns the user whose username or email equals login.
func (r *Repo) GetByLogin(ctx context.Context, login string) (domain.User, error) {
	query, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(sq.Or{sq.Eq{"username": login}, sq.Eq{"email": login}}).
		OrderBy("created_at").
		Limit(1).
		ToSql()
	if err != nil {
		return domain.User{}, fmt.Errorf("build select user: %w", err)
	}

	var u domain.User
	q := postgres.QuerierFromCtx(ctx, r.db)
	err = q.QueryRow(ctx, query, args...).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CharacterName, &u.CreatedAt)
	if err != nil {
		return domain.User{}, postgres.MapError(err, "user", login)
	}
	return u, nil
}

// ExistsByUsername reports whether username is registered.
func (r *Repo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username", username)
}

// ExistsByEmail reports whether email is registered.
func (r *Repo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email", email)
}

// Delete removes a user and, by cascade, its save.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := postgres.Builder().Delete(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete user: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "user", id.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *Repo) exists(ctx context.Context, column, value string) (bool, error) {
	query, args, err := postgres.Builder().
		Select("1").
		From(table).
		Where(sq.Eq{column: value}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists user: %w", err)
	}

	var found bool
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...).Scan(&found); err != nil {
		return false, postgres.MapError(err, "user", value)
	}
	return found, nil
}

func mapCreateError(err error) error {
	var ce *postgres.ConstraintError
	if !errors.As(err, &ce) {
		return err
	}
	switch ce.Constraint {
	case postgres.ConstraintUsersUsername:
		return fmt.Errorf("%w: %w", domain.ErrUsernameTaken, err)
	case postgres.ConstraintUsersEmail:
		return fmt.Errorf("%w: %w", domain.ErrEmailTaken, err)
	}
	return err
}
