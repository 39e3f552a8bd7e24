package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pollylang/pollylang-backend/internal/domain"
)

// Login authenticates by username or email plus password.
// Returns ErrUnauthorized if the account is not found or the password is wrong.
func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	input.UsernameOrEmail = strings.TrimSpace(input.UsernameOrEmail)

	if err := input.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByLogin(ctx, input.UsernameOrEmail)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth.Login get user: %w", err)
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, domain.ErrUnauthorized
	}

	token, err := s.sessions.IssueToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth.Login issue token: %w", err)
	}

	s.log.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID.String()))

	return &AuthResult{Token: token, User: user}, nil
}
