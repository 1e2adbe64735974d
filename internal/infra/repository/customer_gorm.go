package repository

import (
	"context"
	"errors"

	"ecommerce/internal/domain/model"
	repo "ecommerce/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomerGormRepository struct {
	db *gorm.DB
}

func NewCustomerGormRepository(db *gorm.DB) *CustomerGormRepository {
	return &CustomerGormRepository{db: db}
}

type customerOrderCount struct {
	CustomerID int64
	N          int64
}

func (r *CustomerGormRepository) List(ctx context.Context, page int, limit int) ([]repo.CustomerWithUser, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Customer{}).Count(&total).Error; err != nil {
		return []repo.CustomerWithUser{}, 0, err
	}

	q := r.db.WithContext(ctx).Preload("User").Order("id asc")
	if limit > 0 {
		q = q.Offset(pageOffset(page, limit)).Limit(limit)
	}
	var cs []model.Customer
	if err := q.Find(&cs).Error; err != nil {
		return []repo.CustomerWithUser{}, 0, err
	}

	out, err := r.withOrderCounts(ctx, cs)
	if err != nil {
		return []repo.CustomerWithUser{}, 0, err
	}
	return out, total, nil
}

func (r *CustomerGormRepository) FindByID(ctx context.Context, id int64) (repo.CustomerWithUser, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *CustomerGormRepository) FindByUserID(ctx context.Context, userID int64) (repo.CustomerWithUser, error) {
	return r.findOne(ctx, "user_id = ?", userID)
}

func (r *CustomerGormRepository) findOne(ctx context.Context, cond string, arg interface{}) (repo.CustomerWithUser, error) {
	var c model.Customer
	if err := r.db.WithContext(ctx).Preload("User").Where(cond, arg).First(&c).Error; err != nil {
		return repo.CustomerWithUser{}, translate(err)
	}
	out, err := r.withOrderCounts(ctx, []model.Customer{c})
	if err != nil {
		return repo.CustomerWithUser{}, err
	}
	return out[0], nil
}

func (r *CustomerGormRepository) withOrderCounts(ctx context.Context, cs []model.Customer) ([]repo.CustomerWithUser, error) {
	out := make([]repo.CustomerWithUser, 0, len(cs))
	if len(cs) == 0 {
		return out, nil
	}

	ids := make([]int64, 0, len(cs))
	for _, c := range cs {
		ids = append(ids, c.ID)
	}
	var counts []customerOrderCount
	if err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("customer_id, COUNT(*) AS n").
		Where("customer_id IN ?", ids).
		Group("customer_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	byID := make(map[int64]int64, len(counts))
	for _, c := range counts {
		byID[c.CustomerID] = c.N
	}

	for _, c := range cs {
		out = append(out, repo.CustomerWithUser{
			Customer:   c,
			FirstName:  c.User.FirstName,
			LastName:   c.User.LastName,
			OrderCount: byID[c.ID],
		})
	}
	return out, nil
}

// 無ければBronzeで作る
func (r *CustomerGormRepository) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Customer, error) {
	var c model.Customer

	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&c).Error
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Customer{}, err
	}

	// 競合してもエラーにしない（postgresのtxを壊さない）
	c = model.Customer{UserID: userID, Membership: model.MembershipBronze}
	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&c)
	if res.Error != nil {
		return model.Customer{}, translate(res.Error)
	}
	if res.RowsAffected == 1 {
		return c, nil
	}

	// 同時に作られていた
	var existing model.Customer
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&existing).Error; err != nil {
		return model.Customer{}, translate(err)
	}
	return existing, nil
}

func (r *CustomerGormRepository) Create(ctx context.Context, c model.Customer) (model.Customer, error) {
	if c.Membership == "" {
		c.Membership = model.MembershipBronze
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&c).Error; err != nil {
		return model.Customer{}, translate(err)
	}
	return c, nil
}

func (r *CustomerGormRepository) Update(ctx context.Context, c model.Customer) error {
	res := r.db.WithContext(ctx).
		Model(&model.Customer{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"birth_date": c.BirthDate,
			"membership": c.Membership,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 注文があれば消さない
func (r *CustomerGormRepository) Delete(ctx context.Context, id int64) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Order{}).Where("customer_id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return repo.ErrProtected
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ?", id).Delete(&model.Address{}).Error; err != nil {
			return err
		}
		if err := tx.Where("customer_id = ?", id).Delete(&model.Review{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Customer{}, id)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}
