package auth

import (
	"context"
	"sync"

	"github.com/pollylang/pollylang-backend/internal/domain"
)

var _ userRepo = &userRepoMock{}

type userRepoMock struct {
	CreateFunc           func(ctx context.Context, u domain.User) (domain.User, error)
	GetByLoginFunc       func(ctx context.Context, login string) (domain.User, error)
	ExistsByUsernameFunc func(ctx context.Context, username string) (bool, error)
	ExistsByEmailFunc    func(ctx context.Context, email string) (bool, error)

	calls struct {
		Create []struct {
			U domain.User
		}
		GetByLogin []struct {
			Login string
		}
	}
	lockCreate     sync.RWMutex
	lockGetByLogin sync.RWMutex
}

func (mock *userRepoMock) Create(ctx context.Context, u domain.User) (domain.User, error) {
	if mock.CreateFunc == nil {
		panic("userRepoMock.CreateFunc: method is nil but userRepo.Create was just called")
	}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, struct{ U domain.User }{U: u})
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, u)
}

func (mock *userRepoMock) CreateCalls() []struct{ U domain.User } {
	mock.lockCreate.RLock()
	defer mock.lockCreate.RUnlock()
	return mock.calls.Create
}

func (mock *userRepoMock) GetByLogin(ctx context.Context, login string) (domain.User, error) {
	if mock.GetByLoginFunc == nil {
		panic("userRepoMock.GetByLoginFunc: method is nil but userRepo.GetByLogin was just called")
	}
	mock.lockGetByLogin.Lock()
	mock.calls.GetByLogin = append(mock.calls.GetByLogin, struct{ Login string }{Login: login})
	mock.lockGetByLogin.Unlock()
	return mock.GetByLoginFunc(ctx, login)
}

func (mock *userRepoMock) GetByLoginCalls() []struct{ Login string } {
	mock.lockGetByLogin.RLock()
	defer mock.lockGetByLogin.RUnlock()
	return mock.calls.GetByLogin
}

func (mock *userRepoMock) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if mock.ExistsByUsernameFunc == nil {
		panic("userRepoMock.ExistsByUsernameFunc: method is nil but userRepo.ExistsByUsername was just called")
	}
	return mock.ExistsByUsernameFunc(ctx, username)
}

func (mock *userRepoMock) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if mock.ExistsByEmailFunc == nil {
		panic("userRepoMock.ExistsByEmailFunc: method is nil but userRepo.ExistsByEmail was just called")
	}
	return mock.ExistsByEmailFunc(ctx, email)
}
