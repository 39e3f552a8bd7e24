package user_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	postgres "github.com/pollylang/pollylang-backend/internal/adapter/postgres"
	"github.com/pollylang/pollylang-backend/internal/adapter/postgres/user"
	"github.com/pollylang/pollylang-backend/internal/domain"
)

func newRepo(t *testing.T) (*user.Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return user.New(mock), mock
}

func sampleUser() domain.User {
	return domain.User{
		ID:            uuid.New(),
		Username:      "marta_92",
		Email:         "marta@example.com",
		PasswordHash:  "scrypt$16384$8$1$c2FsdA==$aGFzaA==",
		CharacterName: "Marta",
	}
}

func TestRepo_Create(t *testing.T) {
	t.Parallel()
	repo, mock := newRepo(t)
	u := sampleUser()
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(
		"INSERT INTO users (id,username,email,pass_hash,character_name) VALUES ($1,$2,$3,$4,$5) RETURNING created_at")).
		WithArgs(u.ID, u.Username, u.Email, u.PasswordHash, u.CharacterName).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

	got, err := repo.Create(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, now, got.CreatedAt)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.CharacterName, got.CharacterName)
}

func TestRepo_Create_UniqueViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		constraint string
		want       error
	}{
		{"username", postgres.ConstraintUsersUsername, domain.ErrUsernameTaken},
		{"email", postgres.ConstraintUsersEmail, domain.ErrEmailTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo, mock := newRepo(t)

			mock.ExpectQuery("INSERT INTO users").
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: tt.constraint})

			_, err := repo.Create(context.Background(), sampleUser())
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, domain.ErrAlreadyExists)
		})
	}
}

func TestRepo_Create_OtherError(t *testing.T) {
	t.Parallel()
	repo, mock := newRepo(t)

	mock.ExpectQuery("INSERT INTO users").WillReturnError(errors.New("connection reset"))

	_, err := repo.Create(context.Background(), sampleUser())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestRepo_GetByLogin(t *testing.T) {
	t.Parallel()
	repo, mock := newRepo(t)
	u := sampleUser()
	u.CreatedAt = time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, username, email, pass_hash, character_name, created_at FROM users WHERE (username = $1 OR email = $2) ORDER BY created_at LIMIT 1")).
		WithArgs("marta@example.com", "marta@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "email", "pass_hash", "character_name", "created_at"}).
			AddRow(u.ID, u.Username, u.Email, u.PasswordHash, u.CharacterName, u.CreatedAt))

	got, err := repo.GetByLogin(context.Background(), "marta@example.com")
	require.NoError(t, err)
	assert.Equal(t, u, got)
}

func TestRepo_GetByLogin_NotFound(t *testing.T) {
	t.Parallel()
	repo, mock := newRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM users").WithArgs("ghost", "ghost").WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByLogin(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepo_Exists(t *testing.T) {
	t.Parallel()
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS ( SELECT 1 FROM users WHERE username = $1 )")).
		WithArgs("marta_92").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS ( SELECT 1 FROM users WHERE email = $1 )")).
		WithArgs("new@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	taken, err := repo.ExistsByUsername(context.Background(), "marta_92")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.ExistsByEmail(context.Background(), "new@example.com")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestRepo_Delete(t *testing.T) {
	t.Parallel()
	repo, mock := newRepo(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Delete(context.Background(), id))
	assert.ErrorIs(t, repo.Delete(context.Background(), id), domain.ErrNotFound)
}
