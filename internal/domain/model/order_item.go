package model

import "github.com/shopspring/decimal"

// unit_price は注文時点の価格（後から商品価格が変わっても影響しない）
type OrderItem struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64           `gorm:"not null;uniqueIndex:idx_order_product" json:"order_id"`
	ProductID int64           `gorm:"not null;uniqueIndex:idx_order_product" json:"product_id"`
	Quantity  int64           `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"unit_price"`
	Product   Product         `gorm:"foreignKey:ProductID;references:ID;constraint:OnDelete:RESTRICT" json:"product"`
}
