package repository

import (
	"errors"
	"strings"

	repo "ecommerce/internal/repository"

	"gorm.io/gorm"
)

// gormのエラーをrepositoryのエラーへ寄せる
func translate(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repo.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repo.ErrConflict
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return repo.ErrProtected
	}

	// ドライバが変換しない場合
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"),
		strings.Contains(msg, "duplicate key value"):
		return repo.ErrConflict
	case strings.Contains(msg, "FOREIGN KEY constraint failed"),
		strings.Contains(msg, "violates foreign key constraint"):
		return repo.ErrProtected
	}
	return err
}

func pageOffset(page int, limit int) int {
	if page <= 0 {
		page = 1
	}
	return (page - 1) * limit
}
