package model

// 配送先住所
type Address struct {
	ID         int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID int64 `gorm:"not null;index" json:"customer_id"`

	//国
	Country string `gorm:"type:varchar(255);not null" json:"country"`

	//市区町村
	City string `gorm:"type:varchar(255);not null" json:"city"`

	//番地など
	Address string `gorm:"type:varchar(255);not null" json:"address"`
}
