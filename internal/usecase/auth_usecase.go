package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"ecommerce/internal/domain/model"
	"ecommerce/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateLogin(ctx context.Context, email string, password string) error
	ValidateRefresh(ctx context.Context, refreshToken string) error
	ValidateUpdateMe(ctx context.Context, userID int64, in UpdateMeInput) error
	ValidateForceLogout(ctx context.Context, targetUserID int64) error
}

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(userID int64, role model.Role, tokenVersion int, now time.Time) (token string, expiresAt time.Time, err error)
}

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

type UserDTO struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phone_number"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Role         string `json:"role"`
	TokenVersion int    `json:"token_version"`
	IsActive     bool   `json:"is_active"`
}

// /auth/jwt/create と /auth/jwt/refresh の返却
type TokenPair struct {
	Access       string `json:"access"`
	Refresh      string `json:"refresh"`
	ExpiresIn    int    `json:"expires_in"`
	TokenVersion int    `json:"token_version"`
}

// nil は変更なし
type UpdateMeInput struct {
	Username    *string `json:"username"`
	PhoneNumber *string `json:"phone_number"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Password    *string `json:"password"`
}

type ForceLogoutResponse struct {
	UserID          int64 `json:"user_id"`
	NewTokenVersion int   `json:"new_token_version"`
}

type AuthUsecase struct {
	users      repository.UserRepository
	rtRepo     repository.RefreshTokenRepository
	tx         repository.TransactionManager
	validator  AuthValidator
	issuer     AccessTokenIssuer
	hasher     PasswordHasher
	refreshTTL time.Duration
	now        func() time.Time
	log        *zap.Logger
}

func NewAuthUsecase(
	users repository.UserRepository,
	rtRepo repository.RefreshTokenRepository,
	tx repository.TransactionManager,
	validator AuthValidator,
	issuer AccessTokenIssuer,
	hasher PasswordHasher,
	refreshTTL time.Duration,
	log *zap.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		users:      users,
		rtRepo:     rtRepo,
		tx:         tx,
		validator:  validator,
		issuer:     issuer,
		hasher:     hasher,
		refreshTTL: refreshTTL,
		now:        time.Now,
		log:        log,
	}
}

func (u *AuthUsecase) Me(ctx context.Context, userID int64) (UserDTO, error) {
	user, err := u.activeUser(ctx, userID)
	if err != nil {
		return UserDTO{}, err
	}
	return ToUserDTO(user), nil
}

func (u *AuthUsecase) UpdateMe(ctx context.Context, userID int64, in UpdateMeInput) (UserDTO, error) {
	user, err := u.activeUser(ctx, userID)
	if err != nil {
		return UserDTO{}, err
	}
	if err := u.validator.ValidateUpdateMe(ctx, userID, in); err != nil {
		return UserDTO{}, err
	}

	if in.Username != nil {
		user.Username = strings.TrimSpace(*in.Username)
	}
	if in.PhoneNumber != nil {
		user.PhoneNumber = strings.TrimSpace(*in.PhoneNumber)
	}
	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Password != nil {
		hashed, err := u.hasher.Hash(*in.Password)
		if err != nil {
			return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "internal error")
		}
		user.PasswordHash = hashed
	}

	if err := u.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return UserDTO{}, FieldError("phone_number", "user with this phone number already exists.")
		}
		return UserDTO{}, dbError()
	}
	return ToUserDTO(user), nil
}

// 使用済みのrefreshが来たら再利用とみなしてユーザーの全tokenを消す
func (u *AuthUsecase) Refresh(ctx context.Context, refreshTokenPlain string, userAgent string) (TokenPair, error) {
	if err := u.validator.ValidateRefresh(ctx, refreshTokenPlain); err != nil {
		return TokenPair{}, err
	}

	rt, err := u.rtRepo.FindByTokenHash(ctx, HashRefreshToken(refreshTokenPlain))
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return TokenPair{}, invalidToken()
		}
		return TokenPair{}, dbError()
	}

	now := u.now()
	if rt.ExpiresAt.Before(now) {
		_ = u.rtRepo.DeleteByID(ctx, rt.ID)
		return TokenPair{}, invalidToken()
	}
	if rt.RevokedAt != nil {
		return TokenPair{}, invalidToken()
	}
	if rt.UsedAt != nil {
		_ = u.rtRepo.DeleteAllByUserID(ctx, rt.UserID)
		return TokenPair{}, invalidToken()
	}
	if userAgent != "" && rt.UserAgent != "" && userAgent != rt.UserAgent {
		_ = u.rtRepo.DeleteAllByUserID(ctx, rt.UserID)
		return TokenPair{}, invalidToken()
	}

	user, err := u.users.FindByID(ctx, rt.UserID)
	if err != nil {
		return TokenPair{}, dbError()
	}
	if user == nil || !user.IsActive {
		return TokenPair{}, invalidToken()
	}

	// 同時に2回来たら片方だけ通す
	if err := u.rtRepo.MarkUsed(ctx, rt.ID, now); err != nil {
		_ = u.rtRepo.DeleteAllByUserID(ctx, rt.UserID)
		return TokenPair{}, invalidToken()
	}

	return IssueTokenPair(ctx, u.rtRepo, u.issuer, user, userAgent, now, u.refreshTTL)
}

func (u *AuthUsecase) Logout(ctx context.Context, refreshTokenPlain string) error {
	if err := u.validator.ValidateRefresh(ctx, refreshTokenPlain); err != nil {
		return err
	}

	rt, err := u.rtRepo.FindByTokenHash(ctx, HashRefreshToken(refreshTokenPlain))
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return invalidToken()
		}
		return dbError()
	}

	if err := u.rtRepo.DeleteByID(ctx, rt.ID); err != nil && !errors.Is(err, repository.ErrRefreshTokenNotFound) {
		return dbError()
	}
	return nil
}

// token_versionを上げて発行済みaccessを無効にする
func (u *AuthUsecase) ForceLogout(ctx context.Context, actor Actor, targetUserID int64) (ForceLogoutResponse, error) {
	if !actor.IsAdmin() {
		return ForceLogoutResponse{}, PermissionDenied()
	}
	if err := u.validator.ValidateForceLogout(ctx, targetUserID); err != nil {
		return ForceLogoutResponse{}, err
	}

	var out ForceLogoutResponse
	err := u.tx.WithinTx(ctx, func(r repository.TxRepos) error {
		before, err := r.Users().FindByID(ctx, targetUserID)
		if err != nil {
			return dbError()
		}
		if before == nil {
			return NotFound("")
		}
		tv, err := r.Users().IncrementTokenVersion(ctx, targetUserID)
		if errors.Is(err, repository.ErrNotFound) {
			return NotFound("")
		}
		if err != nil {
			return dbError()
		}

		out = ForceLogoutResponse{UserID: targetUserID, NewTokenVersion: tv}
		writeAudit(ctx, u.log, r.AuditLogs(), actor, model.AuditActionForceLogout, model.AuditResourceUser, targetUserID,
			map[string]int{"token_version": before.TokenVersion},
			map[string]int{"token_version": out.NewTokenVersion},
		)
		return nil
	})
	if err != nil {
		return ForceLogoutResponse{}, err
	}

	if err := u.rtRepo.DeleteAllByUserID(ctx, targetUserID); err != nil {
		return ForceLogoutResponse{}, dbError()
	}
	return out, nil
}

func (u *AuthUsecase) activeUser(ctx context.Context, userID int64) (*model.User, error) {
	if userID <= 0 {
		return nil, Unauthorized()
	}
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, dbError()
	}
	if user == nil {
		return nil, Unauthorized()
	}
	if !user.IsActive {
		return nil, NewHTTPError(http.StatusForbidden, "user is inactive")
	}
	return user, nil
}

// access発行 + refresh保存（DBにはhashのみ）
func IssueTokenPair(
	ctx context.Context,
	rtRepo repository.RefreshTokenRepository,
	issuer AccessTokenIssuer,
	user *model.User,
	userAgent string,
	now time.Time,
	refreshTTL time.Duration,
) (TokenPair, error) {
	access, exp, err := issuer.Issue(user.ID, user.Role, user.TokenVersion, now)
	if err != nil {
		return TokenPair{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	plain, hash, err := NewRefreshToken()
	if err != nil {
		return TokenPair{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	rt := &model.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: hash,
		UserAgent: userAgent,
		ExpiresAt: now.Add(refreshTTL),
	}
	if err := rtRepo.Create(ctx, rt); err != nil {
		return TokenPair{}, dbError()
	}

	return TokenPair{
		Access:       access,
		Refresh:      plain,
		ExpiresIn:    int(exp.Sub(now).Seconds()),
		TokenVersion: user.TokenVersion,
	}, nil
}

// refresh token生成（平文 + DB保存hash）
func NewRefreshToken() (plain string, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	plain = base64.RawURLEncoding.EncodeToString(b)
	return plain, HashRefreshToken(plain), nil
}

func HashRefreshToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func ToUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PhoneNumber:  u.PhoneNumber,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Role:         string(u.Role),
		TokenVersion: u.TokenVersion,
		IsActive:     u.IsActive,
	}
}

func invalidToken() error {
	return NewHTTPError(http.StatusUnauthorized, "Token is invalid or expired")
}
