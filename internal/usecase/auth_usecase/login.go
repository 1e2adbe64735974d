package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"ecommerce/internal/repository"
	"ecommerce/internal/usecase"
)

// handlerからusecaseに渡す入力
type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
}

type LoginValidator interface {
	ValidateLogin(ctx context.Context, email string, password string) error
}

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

type LoginUsecase struct {
	userRepo   repository.UserRepository
	rtRepo     repository.RefreshTokenRepository
	validator  LoginValidator
	verifier   PasswordVerifier
	issuer     usecase.AccessTokenIssuer
	clock      Clock
	refreshTTL time.Duration
}

func NewLoginUsecase(
	userRepo repository.UserRepository,
	rtRepo repository.RefreshTokenRepository,
	validator LoginValidator,
	verifier PasswordVerifier,
	issuer usecase.AccessTokenIssuer,
	clock Clock,
	refreshTTL time.Duration,
) *LoginUsecase {
	return &LoginUsecase{
		userRepo:   userRepo,
		rtRepo:     rtRepo,
		validator:  validator,
		verifier:   verifier,
		issuer:     issuer,
		clock:      clock,
		refreshTTL: refreshTTL,
	}
}

// ログイン処理を実行する
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (usecase.TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := u.validator.ValidateLogin(ctx, email, in.Password); err != nil {
		return usecase.TokenPair{}, err
	}

	user, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return usecase.TokenPair{}, usecase.NewHTTPError(http.StatusInternalServerError, "db error")
	}
	// 存在しない/停止/パスワード違いは同じ応答
	if user == nil || !user.IsActive || !u.verifier.Verify(in.Password, user.PasswordHash) {
		return usecase.TokenPair{}, errInvalidCredentials()
	}

	now := u.clock.Now()
	_, _ = u.rtRepo.PurgeStale(ctx, user.ID, now)

	pair, err := usecase.IssueTokenPair(ctx, u.rtRepo, u.issuer, user, in.UserAgent, now, u.refreshTTL)
	if err != nil {
		return usecase.TokenPair{}, err
	}

	//最終ログイン時刻更新
	user.LastLoginAt = &now
	_ = u.userRepo.Update(ctx, user)

	return pair, nil
}

func errInvalidCredentials() error {
	return usecase.NewHTTPError(http.StatusUnauthorized, "No active account found with the given credentials")
}
