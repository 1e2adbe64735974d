package model

import "time"

// 在庫クリア、支払いステータス更新など。
type AuditAction string

const (
	//在庫を0にした操作。
	AuditActionClearInventory AuditAction = "CLEAR_INVENTORY"
	//支払いステータスを更新した操作。
	AuditActionUpdatePaymentStatus AuditAction = "UPDATE_PAYMENT_STATUS"
	//強制ログアウト。
	AuditActionForceLogout AuditAction = "FORCE_LOGOUT"
	//商品・コレクションの削除。
	AuditActionDelete AuditAction = "DELETE"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceProduct    AuditResourceType = "product"
	AuditResourceCollection AuditResourceType = "collection"
	AuditResourceOrder      AuditResourceType = "order"
	AuditResourceUser       AuditResourceType = "user"
)

// 監査ログ（管理者操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作した管理者のID。
	ActorUserID int64 `gorm:"not null;index" json:"actor_user_id"`

	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`
	ResourceID   int64             `gorm:"not null;index" json:"resource_id"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before_json"`
	AfterJSON  string `gorm:"type:text" json:"after_json"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
