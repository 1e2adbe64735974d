package repository

import "errors"

var (
	// 見つからない
	ErrNotFound = errors.New("not found")

	// 一意制約違反
	ErrConflict = errors.New("conflict")

	// 他から参照されていて削除できない
	ErrProtected = errors.New("protected")
)

var ErrRefreshTokenNotFound = errors.New("refresh token not found")
