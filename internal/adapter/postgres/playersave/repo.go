// Package playersave implements the player save repository using PostgreSQL.
package playersave

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/pollylang/pollylang-backend/internal/adapter/postgres"
	"github.com/pollylang/pollylang-backend/internal/domain"
)

const table = "player_saves"

// Repo stores one JSON save per user.
type Repo struct {
	db postgres.Querier
}

// New creates a new player save repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Upsert replaces the save of userID with data.
func (r *Repo) Upsert(ctx context.Context, userID uuid.UUID, data json.RawMessage) (domain.PlayerSave, error) {
	query, args, err := postgres.Builder().
		Insert(table).
		Columns("user_id", "data", "updated_at").
		Values(userID, string(data), sq.Expr("now()")).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at RETURNING updated_at").
		ToSql()
	if err != nil {
		return domain.PlayerSave{}, fmt.Errorf("build upsert save: %w", err)
	}

	save := domain.PlayerSave{UserID: userID, Data: data}
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := q.QueryRow(ctx, query, args...).Scan(&save.UpdatedAt); err != nil {
		return domain.PlayerSave{}, postgres.MapError(err, "player_save", userID.String())
	}
	return save, nil
}

// Get returns the save of userID, or domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, userID uuid.UUID) (domain.PlayerSave, error) {
	query, args, err := postgres.Builder().
		Select("data", "updated_at").
		From(table).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return domain.PlayerSave{}, fmt.Errorf("build select save: %w", err)
	}

	save := domain.PlayerSave{UserID: userID}
	var raw []byte
	q := postgres.QuerierFromCtx(ctx, r.db)
	if err := q.QueryRow(ctx, query, args...).Scan(&raw, &save.UpdatedAt); err != nil {
		return domain.PlayerSave{}, postgres.MapError(err, "player_save", userID.String())
	}
	save.Data = json.RawMessage(raw)
	return save, nil
}
