package model

// (cart_id, product_id) は一意。同じ商品は数量を加算する
type CartItem struct {
	ID        int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID    string  `gorm:"type:uuid;not null;uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID int64   `gorm:"not null;uniqueIndex:idx_cart_product" json:"product_id"`
	Quantity  int64   `gorm:"not null" json:"quantity"`
	Product   Product `gorm:"foreignKey:ProductID;references:ID" json:"product"`
}
