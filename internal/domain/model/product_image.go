package model

// Image はストレージ上のURL（またはキー）
type ProductImage struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64  `gorm:"not null;index" json:"product_id"`
	Image     string `gorm:"type:varchar(500);not null" json:"image"`
	StorageID string `gorm:"type:varchar(500)" json:"-"`
}
