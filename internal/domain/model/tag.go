package model

type Tag struct {
	ID    int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Label string `gorm:"type:varchar(255);uniqueIndex;not null" json:"label"`
}

// 何にでも付けられるタグ（content_type + object_id）
type TaggedItem struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	TagID       int64  `gorm:"not null;uniqueIndex:idx_tagged_item" json:"tag_id"`
	ContentType string `gorm:"type:varchar(100);not null;uniqueIndex:idx_tagged_item" json:"content_type"`
	ObjectID    int64  `gorm:"not null;uniqueIndex:idx_tagged_item" json:"object_id"`
	Tag         Tag    `gorm:"constraint:OnDelete:CASCADE" json:"tag"`
}

const ContentTypeProduct = "store.product"
