package repository

import (
	"context"

	"ecommerce/internal/domain/model"
)

// 検索系は見つからなければ nil, nil
type UserRepository interface {
	//新規ユーザー作成（email / phone 重複は ErrConflict）
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//メールからユーザーを一件取得する。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// 電話番号で取得
	FindByPhone(ctx context.Context, phone string) (*model.User, error)
	// ユーザー情報の更新
	Update(ctx context.Context, user *model.User) error
	// 強制ログアウト用。新しいtoken_versionを返す
	IncrementTokenVersion(ctx context.Context, userID int64) (int, error)
}
