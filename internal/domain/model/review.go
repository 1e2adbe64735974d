package model

import "time"

// (customer, product) は1件まで。DB制約ではなくusecaseでチェック
type Review struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID   int64     `gorm:"not null;index" json:"product_id"`
	CustomerID  int64     `gorm:"not null;index" json:"customer_id"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Date        time.Time `gorm:"type:date;not null" json:"date"`
	Product     Product   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Customer    Customer  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
