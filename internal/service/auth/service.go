package auth

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pollylang/pollylang-backend/internal/domain"
)

// userRepo defines the user repository interface needed by auth service.
type userRepo interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
	GetByLogin(ctx context.Context, login string) (domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// passwordHasher hashes and checks passwords.
type passwordHasher interface {
	Hash(password string) (string, error)
	Verify(password, stored string) bool
}

// sessionIssuer signs session tokens.
type sessionIssuer interface {
	IssueToken(userID uuid.UUID) (string, error)
}

// txManager runs fn inside one database transaction carried by ctx.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements account registration and login.
type Service struct {
	log      *slog.Logger
	users    userRepo
	tx       txManager
	hasher   passwordHasher
	sessions sessionIssuer
}

// NewService creates a new auth service instance.
func NewService(logger *slog.Logger, users userRepo, tx txManager, hasher passwordHasher, sessions sessionIssuer) *Service {
	return &Service{
		log:      logger.With("service", "auth"),
		users:    users,
		tx:       tx,
		hasher:   hasher,
		sessions: sessions,
	}
}
