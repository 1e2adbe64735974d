package repository

import (
	"context"
	"errors"

	"ecommerce/internal/domain/model"
	domainrepo "ecommerce/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) domainrepo.UserRepository {
	return &userGormRepository{db: db}
}

// email / phone_number の重複は ErrConflict
func (r *userGormRepository) Create(ctx context.Context, user *model.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

// 以下の検索は無ければ nil, nil
func (r *userGormRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, clause.Eq{Column: "email", Value: email})
}

func (r *userGormRepository) FindByPhone(ctx context.Context, phone string) (*model.User, error) {
	return r.findOne(ctx, clause.Eq{Column: "phone_number", Value: phone})
}

func (r *userGormRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return r.findOne(ctx, clause.Eq{Column: "id", Value: id})
}

func (r *userGormRepository) findOne(ctx context.Context, cond clause.Expression) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Clauses(cond).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userGormRepository) Update(ctx context.Context, user *model.User) error {
	return translate(r.db.WithContext(ctx).Save(user).Error)
}

// +1した後の値を返す。ユーザーがいなければ ErrNotFound
func (r *userGormRepository) IncrementTokenVersion(ctx context.Context, id int64) (int, error) {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		UpdateColumn("token_version", gorm.Expr("token_version + 1"))
	if err := affectedOne(res, domainrepo.ErrNotFound); err != nil {
		return 0, err
	}

	var tv int
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Pluck("token_version", &tv).Error; err != nil {
		return 0, err
	}
	return tv, nil
}
