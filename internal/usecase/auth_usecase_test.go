package usecase_test

import (
	"context"
	"testing"

	"rpos/internal/config"
	"rpos/internal/domain/model"
	repo "rpos/internal/repository"
	"rpos/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func authCfg() config.Config {
	return config.Config{JWTSecret: "test-secret"}
}

func TestAuthUsecase_Register_InvalidEmail(t *testing.T) {
	uc := usecase.NewAuthUsecase(authCfg(), new(OwnerRepoMock))

	_, err := uc.Register(context.Background(), usecase.AuthRegisterRequest{
		Email:    "not-an-email",
		Password: "password123",
	})
	assertErrContains(t, err, "invalid email")
}

func TestAuthUsecase_Register_ShortPassword(t *testing.T) {
	uc := usecase.NewAuthUsecase(authCfg(), new(OwnerRepoMock))

	_, err := uc.Register(context.Background(), usecase.AuthRegisterRequest{
		Email:    "owner@example.com",
		Password: "short",
	})
	assertErrContains(t, err, "password too short")
}

func TestAuthUsecase_Register_DuplicateEmail(t *testing.T) {
	owners := new(OwnerRepoMock)
	owners.On("FindByEmail", mock.Anything, "owner@example.com").
		Return(model.Owner{ID: 1, Email: "owner@example.com"}, nil)

	uc := usecase.NewAuthUsecase(authCfg(), owners)

	_, err := uc.Register(context.Background(), usecase.AuthRegisterRequest{
		Email:    "owner@example.com",
		Password: "password123",
	})
	assertErrContains(t, err, "already registered")
}

func TestAuthUsecase_Register_HashesPassword(t *testing.T) {
	owners := new(OwnerRepoMock)
	owners.On("FindByEmail", mock.Anything, "owner@example.com").
		Return(model.Owner{}, repo.ErrNotFound)
	owners.On("Create", mock.Anything, mock.MatchedBy(func(o model.Owner) bool {
		// 平文を保存しないこと
		if o.PasswordHash == "password123" {
			return false
		}
		return bcrypt.CompareHashAndPassword([]byte(o.PasswordHash), []byte("password123")) == nil
	})).Return(int64(7), nil)

	uc := usecase.NewAuthUsecase(authCfg(), owners)

	out, err := uc.Register(context.Background(), usecase.AuthRegisterRequest{
		Email:    "Owner@Example.com",
		Password: "password123",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(7), out.ID)
	// emailは小文字に正規化される
	assert.Equal(t, "owner@example.com", out.Email)

	owners.AssertExpectations(t)
}

func TestAuthUsecase_Login_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	assert.NoError(t, err)

	owners := new(OwnerRepoMock)
	owners.On("FindByEmail", mock.Anything, "owner@example.com").
		Return(model.Owner{ID: 1, Email: "owner@example.com", PasswordHash: string(hash)}, nil)

	uc := usecase.NewAuthUsecase(authCfg(), owners)

	_, err = uc.Login(context.Background(), usecase.AuthLoginRequest{
		Email:    "owner@example.com",
		Password: "wrong-password",
	})
	assertErrContains(t, err, "invalid credentials")
}

func TestAuthUsecase_Login_UnknownEmail(t *testing.T) {
	owners := new(OwnerRepoMock)
	owners.On("FindByEmail", mock.Anything, "nobody@example.com").
		Return(model.Owner{}, repo.ErrNotFound)

	uc := usecase.NewAuthUsecase(authCfg(), owners)

	_, err := uc.Login(context.Background(), usecase.AuthLoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever1",
	})
	assertErrContains(t, err, "invalid credentials")
}

func TestAuthUsecase_Login_IssuesToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	assert.NoError(t, err)

	owners := new(OwnerRepoMock)
	owners.On("FindByEmail", mock.Anything, "owner@example.com").
		Return(model.Owner{ID: 1, Email: "owner@example.com", PasswordHash: string(hash)}, nil)

	uc := usecase.NewAuthUsecase(authCfg(), owners)

	out, err := uc.Login(context.Background(), usecase.AuthLoginRequest{
		Email:    "owner@example.com",
		Password: "correct-password",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)
	assert.Greater(t, out.ExpiresIn, 0)
	assert.Equal(t, int64(1), out.Owner.ID)
}
