package usecase

import (
	"context"
	"errors"

	"ecommerce/internal/domain/model"
	repo "ecommerce/internal/repository"
)

type paymentStatusSnapshot struct {
	PaymentStatus string `json:"payment_status"`
}

// PATCH /store/orders/:id（管理者のみ）
func (u *OrderUsecase) UpdatePaymentStatus(ctx context.Context, actor Actor, orderID int64, status string) (OrderOutput, error) {
	if !actor.IsAdmin() {
		return OrderOutput{}, PermissionDenied()
	}
	next := model.PaymentStatus(status)
	if !next.Valid() {
		return OrderOutput{}, FieldError("payment_status", "\""+status+"\" is not a valid choice.")
	}

	before, err := u.findOrder(ctx, orderID)
	if err != nil {
		return OrderOutput{}, err
	}

	err = u.orders.UpdatePaymentStatus(ctx, orderID, next)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, NotFound("")
	}
	if err != nil {
		return OrderOutput{}, dbError()
	}

	writeAudit(ctx, u.log, u.auditRepo, actor, model.AuditActionUpdatePaymentStatus, model.AuditResourceOrder, orderID,
		paymentStatusSnapshot{PaymentStatus: string(before.PaymentStatus)},
		paymentStatusSnapshot{PaymentStatus: status},
	)

	after, err := u.findOrder(ctx, orderID)
	if err != nil {
		return OrderOutput{}, err
	}
	return toOrderOutput(after), nil
}

// 明細が残っている注文は消さない
func (u *OrderUsecase) Delete(ctx context.Context, actor Actor, orderID int64) error {
	if !actor.IsAdmin() {
		return PermissionDenied()
	}
	before, err := u.findOrder(ctx, orderID)
	if err != nil {
		return err
	}

	err = u.orders.Delete(ctx, orderID)
	switch {
	case errors.Is(err, repo.ErrProtected):
		return IntegrityConflict("Order can't be deleted because it has order items")
	case errors.Is(err, repo.ErrNotFound):
		return NotFound("")
	case err != nil:
		return dbError()
	}

	writeAudit(ctx, u.log, u.auditRepo, actor, model.AuditActionDelete, model.AuditResourceOrder, orderID, toOrderOutput(before), nil)
	return nil
}
