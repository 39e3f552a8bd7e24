package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pollylang/pollylang-backend/internal/domain"
)

func TestMapError_Nil(t *testing.T) {
	t.Parallel()

	if got := MapError(nil, "user", "marta"); got != nil {
		t.Errorf("MapError(nil) = %v, want nil", got)
	}
}

func TestMapError_Mapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"no rows", pgx.ErrNoRows, domain.ErrNotFound},
		{"wrapped no rows", errors.Join(errors.New("scan row"), pgx.ErrNoRows), domain.ErrNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, domain.ErrAlreadyExists},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, domain.ErrNotFound},
		{"check violation", &pgconn.PgError{Code: "23514"}, domain.ErrValidation},
		{"deadline", context.DeadlineExceeded, context.DeadlineExceeded},
		{"canceled", context.Canceled, context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := MapError(tt.err, "user", "marta")
			if !errors.Is(got, tt.wantErr) {
				t.Errorf("MapError(%v) does not wrap %v: %v", tt.err, tt.wantErr, got)
			}
		})
	}
}

func TestMapError_ContextNotMapped(t *testing.T) {
	t.Parallel()

	got := MapError(context.Canceled, "user", "marta")
	if errors.Is(got, domain.ErrNotFound) {
		t.Error("MapError(Canceled) should not wrap domain.ErrNotFound")
	}
}

func TestMapError_UniqueViolationConstraint(t *testing.T) {
	t.Parallel()

	got := MapError(&pgconn.PgError{Code: "23505", ConstraintName: ConstraintUsersEmail}, "user", "m@example.com")

	var ce *ConstraintError
	if !errors.As(got, &ce) {
		t.Fatalf("MapError(23505) does not wrap *ConstraintError: %v", got)
	}
	if ce.Constraint != ConstraintUsersEmail {
		t.Errorf("constraint = %q, want %q", ce.Constraint, ConstraintUsersEmail)
	}
}

func TestMapError_Message(t *testing.T) {
	t.Parallel()

	got := MapError(errors.New("something unexpected"), "player_save", "42")
	if want := "player_save 42: something unexpected"; got.Error() != want {
		t.Errorf("MapError.Error() = %q, want %q", got.Error(), want)
	}
}

func TestMapError_UnknownPgError(t *testing.T) {
	t.Parallel()

	got := MapError(&pgconn.PgError{Code: "42P01", Message: "relation does not exist"}, "user", "x")

	var unwrapped *pgconn.PgError
	if !errors.As(got, &unwrapped) {
		t.Errorf("MapError(unknown PgError) does not wrap *pgconn.PgError: %v", got)
	}
	if errors.Is(got, domain.ErrNotFound) || errors.Is(got, domain.ErrAlreadyExists) || errors.Is(got, domain.ErrValidation) {
		t.Error("MapError(unknown PgError) should not map to a domain error")
	}
}
