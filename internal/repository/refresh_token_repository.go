package repository

import (
	"context"
	"time"

	"ecommerce/internal/domain/model"
)

// ローテーション式のリフレッシュトークン（平文は保存しない）
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	// 無ければ ErrRefreshTokenNotFound
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	// 未使用・未失効のものだけ使用済みにする。それ以外は ErrRefreshTokenNotFound
	MarkUsed(ctx context.Context, tokenID string, usedAt time.Time) error
	DeleteByID(ctx context.Context, tokenID string) error
	DeleteAllByUserID(ctx context.Context, userID int64) error
	// 期限切れ・失効済みを消す（使用済みは期限まで残る）
	PurgeStale(ctx context.Context, userID int64, now time.Time) (int64, error)
}
