package repository

import (
	"context"
	"time"

	"ecommerce/internal/domain/model"
)

// GET /admin/audit-logs の絞り込み（nilは条件なし）
type AuditLogFilter struct {
	ActorUserID  *int64
	Action       *model.AuditAction
	ResourceType *model.AuditResourceType
	ResourceID   *int64
	Since        *time.Time
	Limit        int
	Offset       int
}

// 管理者操作の記録
type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
	// 新しい順。totalはLimit/Offset適用前の件数
	List(ctx context.Context, filter AuditLogFilter) (logs []model.AuditLog, total int64, err error)
}
