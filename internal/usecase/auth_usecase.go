package usecase

import (
	"context"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"rpos/internal/config"
	"rpos/internal/domain/model"
	repo "rpos/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// accesstokenの有効期限
const accessTokenTTL = 24 * time.Hour

type AuthUsecase struct {
	cfg    config.Config
	owners repo.OwnerRepository
}

func NewAuthUsecase(cfg config.Config, owners repo.OwnerRepository) *AuthUsecase {
	return &AuthUsecase{cfg: cfg, owners: owners}
}

type OwnerDTO struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type AuthRegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthLoginResponse struct {
	Owner       OwnerDTO `json:"owner"`
	AccessToken string   `json:"access_token"`
	ExpiresIn   int      `json:"expires_in"`
}

func (u *AuthUsecase) Register(ctx context.Context, req AuthRegisterRequest) (OwnerDTO, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return OwnerDTO{}, NewHTTPError(http.StatusBadRequest, "invalid email")
	}
	if len(req.Password) < 8 {
		return OwnerDTO{}, NewHTTPError(http.StatusBadRequest, "password too short")
	}

	if _, err := u.owners.FindByEmail(ctx, email); err == nil {
		return OwnerDTO{}, NewHTTPError(http.StatusConflict, "email already registered")
	} else if err != repo.ErrNotFound {
		return OwnerDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return OwnerDTO{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	id, err := u.owners.Create(ctx, model.Owner{
		Email:        email,
		PasswordHash: string(pwHash),
	})
	if err != nil {
		//unique違反はここに落ちる
		return OwnerDTO{}, NewHTTPError(http.StatusConflict, "email already registered")
	}

	return OwnerDTO{ID: id, Email: email}, nil
}

func (u *AuthUsecase) Login(ctx context.Context, req AuthLoginRequest) (AuthLoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return AuthLoginResponse{}, NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	owner, err := u.owners.FindByEmail(ctx, email)
	if err == repo.ErrNotFound {
		return AuthLoginResponse{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return AuthLoginResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//パスワード照合（bcrypt）
	if err := bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte(req.Password)); err != nil {
		return AuthLoginResponse{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	token, expiresIn, err := u.issueAccessToken(owner)
	if err != nil {
		return AuthLoginResponse{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return AuthLoginResponse{
		Owner:       OwnerDTO{ID: owner.ID, Email: owner.Email},
		AccessToken: token,
		ExpiresIn:   expiresIn,
	}, nil
}

func (u *AuthUsecase) Me(ctx context.Context, ownerID int64) (OwnerDTO, error) {
	if ownerID <= 0 {
		return OwnerDTO{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	owner, err := u.owners.FindByID(ctx, ownerID)
	if err == repo.ErrNotFound {
		return OwnerDTO{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err != nil {
		return OwnerDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return OwnerDTO{ID: owner.ID, Email: owner.Email}, nil
}

// jwt発行
func (u *AuthUsecase) issueAccessToken(owner model.Owner) (string, int, error) {
	now := time.Now()
	exp := now.Add(accessTokenTTL)

	claims := jwt.MapClaims{
		"sub": owner.ID,
		"iat": now.Unix(),
		"exp": exp.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := t.SignedString([]byte(u.cfg.JWTSecret))
	if err != nil {
		return "", 0, err
	}
	return signed, int(accessTokenTTL.Seconds()), nil
}
