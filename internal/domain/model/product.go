package model

import (
	"time"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 在庫が少ないとみなす閾値
const LowInventoryThreshold = 10

type Product struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Title        string          `gorm:"type:varchar(255);not null" json:"title"`
	Description  string          `gorm:"type:text;not null" json:"description"`
	Price        decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"price"`
	Slug         string          `gorm:"type:varchar(255);uniqueIndex" json:"slug"`
	Inventory    int64           `gorm:"not null" json:"inventory"`
	LastUpdate   time.Time       `gorm:"not null;autoUpdateTime" json:"last_update"`
	CollectionID int64           `gorm:"not null;index" json:"collection"`
	Images       []ProductImage  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images"`
}

// 保存のたびにtitleからslugを作り直す
func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.Slug = slug.Make(p.Title)
	return nil
}

func (p Product) IsLowInventory() bool {
	return p.Inventory < LowInventoryThreshold
}
