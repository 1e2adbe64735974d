package handler

import (
	"net/http"
	"time"

	"ecommerce/internal/config"
	"ecommerce/internal/repository"
	"ecommerce/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /admin/users と /admin/audit-logs
type AdminUserHandler struct {
	authUC  *usecase.AuthUsecase
	auditUC *usecase.AuditUsecase
}

func NewAdminUserHandler(authUC *usecase.AuthUsecase, auditUC *usecase.AuditUsecase) *AdminUserHandler {
	return &AdminUserHandler{authUC: authUC, auditUC: auditUC}
}

func (h *AdminUserHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	// /admin 配下は全部「JWT必須 + token_version一致 + ADMIN限定」
	admin := e.Group("/admin", adminOnly(cfg, userRepo)...)

	admin.POST("/users/:id/force-logout", h.ForceLogout)
	admin.GET("/audit-logs", h.AuditLogs)
}

func (h *AdminUserHandler) ForceLogout(c echo.Context) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	res, err := h.authUC.ForceLogout(c.Request().Context(), actorFromContext(c), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// GET /admin/audit-logs?action=&resource_type=&resource_id=&actor_user_id=&since=&limit=&offset=
func (h *AdminUserHandler) AuditLogs(c echo.Context) error {
	actorID, err := queryInt64Ptr(c, "actor_user_id")
	if err != nil {
		return writeError(c, err)
	}
	resourceID, err := queryInt64Ptr(c, "resource_id")
	if err != nil {
		return writeError(c, err)
	}
	limit, err := queryInt(c, "limit", 50)
	if err != nil {
		return writeError(c, err)
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return writeError(c, err)
	}

	var since *time.Time
	if v := c.QueryParam("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return writeError(c, usecase.FieldError("since", "Datetime has wrong format. Use RFC3339."))
		}
		since = &t
	}

	out, err := h.auditUC.List(c.Request().Context(), actorFromContext(c), usecase.AuditLogQuery{
		ActorUserID:  actorID,
		Action:       c.QueryParam("action"),
		ResourceType: c.QueryParam("resource_type"),
		ResourceID:   resourceID,
		Since:        since,
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
