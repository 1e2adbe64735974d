package model

// AutoMigrate対象（親→子の順）
func All() []interface{} {
	return []interface{}{
		&User{},
		&RefreshToken{},
		&Collection{},
		&Product{},
		&ProductImage{},
		&Tag{},
		&TaggedItem{},
		&Cart{},
		&CartItem{},
		&Customer{},
		&Address{},
		&Order{},
		&OrderItem{},
		&Review{},
		&AuditLog{},
	}
}
