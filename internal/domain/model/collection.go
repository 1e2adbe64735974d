package model

// 商品のグループ。featured_product は商品削除時にNULLへ戻す
type Collection struct {
	ID                int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title             string    `gorm:"type:varchar(255);not null" json:"title"`
	FeaturedProductID *int64    `gorm:"index" json:"featured_product"`
	Products          []Product `gorm:"foreignKey:CollectionID;constraint:OnDelete:RESTRICT" json:"-"`
}
