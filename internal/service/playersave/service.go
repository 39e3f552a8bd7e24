// Package playersave stores and restores the opaque game state of a player.
package playersave

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pollylang/pollylang-backend/internal/domain"
	"github.com/pollylang/pollylang-backend/pkg/ctxutil"
)

// saveRepo defines the persistence needed by the save service.
type saveRepo interface {
	Upsert(ctx context.Context, userID uuid.UUID, data json.RawMessage) (domain.PlayerSave, error)
	Get(ctx context.Context, userID uuid.UUID) (domain.PlayerSave, error)
}

// Service implements save and load for the authenticated player.
type Service struct {
	log      *slog.Logger
	saves    saveRepo
	maxBytes int
}

// NewService creates a save service. maxBytes <= 0 uses domain.MaxSaveBytes.
func NewService(logger *slog.Logger, saves saveRepo, maxBytes int) *Service {
	if maxBytes <= 0 {
		maxBytes = domain.MaxSaveBytes
	}
	return &Service{
		log:      logger.With("service", "playersave"),
		saves:    saves,
		maxBytes: maxBytes,
	}
}

// Save replaces the caller's save with data. Empty or null data is stored
// as an empty object. Data larger than the limit returns domain.ErrTooLarge.
func (s *Service) Save(ctx context.Context, data json.RawMessage) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		data = domain.EmptySaveData
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return fmt.Errorf("playersave.Save: %w", domain.NewValidationError("data", "invalid JSON"))
	}
	if compact.Len() > s.maxBytes {
		return fmt.Errorf("playersave.Save %d bytes: %w", compact.Len(), domain.ErrTooLarge)
	}

	if _, err := s.saves.Upsert(ctx, userID, compact.Bytes()); err != nil {
		return fmt.Errorf("playersave.Save: %w", err)
	}

	s.log.DebugContext(ctx, "save stored",
		slog.String("user_id", userID.String()),
		slog.Int("bytes", compact.Len()))
	return nil
}

// Load returns the caller's save, or an empty object if none exists.
func (s *Service) Load(ctx context.Context) (json.RawMessage, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	save, err := s.saves.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.EmptySaveData, nil
		}
		return nil, fmt.Errorf("playersave.Load: %w", err)
	}
	if len(save.Data) == 0 {
		return domain.EmptySaveData, nil
	}
	return save.Data, nil
}
