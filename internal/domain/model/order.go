package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "P"
	PaymentStatusComplete PaymentStatus = "C"
	PaymentStatusFailed   PaymentStatus = "F"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusComplete, PaymentStatusFailed:
		return true
	}
	return false
}

// 注文はカートからの確定処理でのみ作られる
type Order struct {
	ID            int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID    int64         `gorm:"not null;index" json:"customer"`
	PlacedAt      time.Time     `gorm:"not null;autoCreateTime" json:"placed_at"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(1);not null;default:'P';index" json:"payment_status"`
	Items         []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:RESTRICT" json:"order_items"`
}
