package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pollylang/pollylang-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser inserts a user with unique username and email.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()

	suffix := uniqueSuffix()
	u := domain.User{
		ID:            uuid.New(),
		Username:      "player_" + suffix,
		Email:         "player-" + suffix + "@example.com",
		PasswordHash:  "scrypt$16384$8$1$c2FsdA==$aGFzaA==",
		CharacterName: "Hero " + suffix,
	}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO users (id, username, email, pass_hash, character_name)
		 VALUES ($1, $2, $3, $4, $5) RETURNING created_at`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.CharacterName,
	).Scan(&u.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert user: %v", err)
	}

	return u
}
