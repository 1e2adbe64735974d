package usecase

import (
	"context"
	"encoding/json"
	"time"

	"ecommerce/internal/domain/model"
	repo "ecommerce/internal/repository"

	"go.uber.org/zap"
)

// GET /admin/audit-logs の絞り込み
type AuditLogQuery struct {
	ActorUserID  *int64
	Action       string
	ResourceType string
	ResourceID   *int64
	Since        *time.Time
	Limit        int
	Offset       int
}

type AuditLogListOutput struct {
	Items  []model.AuditLog `json:"items"`
	Total  int64            `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

type AuditUsecase struct {
	auditRepo repo.AuditLogRepository
}

func NewAuditUsecase(auditRepo repo.AuditLogRepository) *AuditUsecase {
	return &AuditUsecase{auditRepo: auditRepo}
}

func (u *AuditUsecase) List(ctx context.Context, actor Actor, q AuditLogQuery) (AuditLogListOutput, error) {
	if !actor.IsAdmin() {
		return AuditLogListOutput{}, PermissionDenied()
	}
	if q.Limit < 1 || q.Limit > 200 {
		return AuditLogListOutput{}, FieldError("limit", "Ensure this value is between 1 and 200.")
	}
	if q.Offset < 0 {
		return AuditLogListOutput{}, FieldError("offset", "Ensure this value is greater than or equal to 0.")
	}

	filter := repo.AuditLogFilter{
		ActorUserID: q.ActorUserID,
		ResourceID:  q.ResourceID,
		Since:       q.Since,
		Limit:       q.Limit,
		Offset:      q.Offset,
	}
	if q.Action != "" {
		a := model.AuditAction(q.Action)
		filter.Action = &a
	}
	if q.ResourceType != "" {
		rt := model.AuditResourceType(q.ResourceType)
		filter.ResourceType = &rt
	}

	logs, total, err := u.auditRepo.List(ctx, filter)
	if err != nil {
		return AuditLogListOutput{}, dbError()
	}
	return AuditLogListOutput{Items: logs, Total: total, Limit: q.Limit, Offset: q.Offset}, nil
}

// 管理者操作を記録する。記録に失敗しても本処理は成功扱い
func writeAudit(
	ctx context.Context,
	log *zap.Logger,
	auditRepo repo.AuditLogRepository,
	actor Actor,
	action model.AuditAction,
	resourceType model.AuditResourceType,
	resourceID int64,
	before any,
	after any,
) {
	if auditRepo == nil {
		return
	}
	err := auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  actor.UserID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		BeforeJSON:   snapshotJSON(before),
		AfterJSON:    snapshotJSON(after),
		CreatedAt:    time.Now(),
	})
	if err != nil && log != nil {
		log.Warn("audit log write failed",
			zap.String("action", string(action)),
			zap.String("resource_type", string(resourceType)),
			zap.Int64("resource_id", resourceID),
			zap.Int64("actor_user_id", actor.UserID),
			zap.Error(err),
		)
	}
}

// 変更前後のスナップショット（nilは空文字）
func snapshotJSON(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
