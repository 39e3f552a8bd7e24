package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pollylang/pollylang-backend/internal/domain"
)

// Register creates a password account and opens a session for it.
// Taken usernames and emails return domain.ErrUsernameTaken and
// domain.ErrEmailTaken, checked in that order.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	input = input.normalize()

	if err := input.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth.Register hash password: %w", err)
	}

	var user domain.User
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		taken, err := s.users.ExistsByUsername(ctx, input.Username)
		if err != nil {
			return fmt.Errorf("auth.Register check username: %w", err)
		}
		if taken {
			return domain.ErrUsernameTaken
		}

		taken, err = s.users.ExistsByEmail(ctx, input.Email)
		if err != nil {
			return fmt.Errorf("auth.Register check email: %w", err)
		}
		if taken {
			return domain.ErrEmailTaken
		}

		// A concurrent registration can still win the race; the unique
		// constraints map it to the same errors.
		user, err = s.users.Create(ctx, domain.User{
			ID:            uuid.New(),
			Username:      input.Username,
			Email:         input.Email,
			PasswordHash:  hash,
			CharacterName: input.CharacterName,
		})
		if err != nil {
			return fmt.Errorf("auth.Register: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := s.sessions.IssueToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth.Register issue token: %w", err)
	}

	s.log.InfoContext(ctx, "user registered", slog.String("user_id", user.ID.String()))

	return &AuthResult{Token: token, User: user}, nil
}
