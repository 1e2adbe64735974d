package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

// usecaseが返すエラー。handlerはStatusとMessage（とFields）をそのままJSONにする
type HTTPError struct {
	Status  int
	Message string
	Fields  map[string][]string
}

func (e *HTTPError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%d: %s %v", e.Status, e.Message, e.Fields)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// 400
func ValidationError(message string) error {
	return NewHTTPError(http.StatusBadRequest, message)
}

// 400（項目ごと）
func FieldError(field string, messages ...string) error {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Message: "validation error",
		Fields:  map[string][]string{field: messages},
	}
}

// 400（複数項目）
func FieldsError(fields map[string][]string) error {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Message: "validation error",
		Fields:  fields,
	}
}

// 401
func Unauthorized() error {
	return NewHTTPError(http.StatusUnauthorized, "unauthorized")
}

// 403
func PermissionDenied() error {
	return NewHTTPError(http.StatusForbidden, "You do not have permission to perform this action.")
}

// 404
func NotFound(message string) error {
	if message == "" {
		message = "not found"
	}
	return NewHTTPError(http.StatusNotFound, message)
}

// 409
func IntegrityConflict(message string) error {
	return NewHTTPError(http.StatusConflict, message)
}

// 500
func dbError() error {
	return NewHTTPError(http.StatusInternalServerError, "db error")
}

// ハンドラから渡されるログイン中ユーザー
type Actor struct {
	UserID int64
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == "ADMIN"
}

func (a Actor) Authenticated() bool {
	return a.UserID > 0
}
