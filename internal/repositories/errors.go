package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// IsNotFoundError reports whether err wraps gorm.ErrRecordNotFound
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError reports whether err is a unique constraint violation.
// Requires the connection to be opened with TranslateError enabled.
func IsDuplicateError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
