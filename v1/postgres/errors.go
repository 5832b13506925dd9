package postgres

import (
	"errors"

	"gorm.io/gorm"
)

// Sentinel errors returned by TranslateError.
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key violation")
	ErrForeignKey     = errors.New("foreign key violation")
	ErrInvalidData    = errors.New("invalid data")
)

// TranslateError maps gorm errors onto the package sentinels. Unknown
// errors are returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrRecordNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrForeignKey
	case errors.Is(err, gorm.ErrInvalidData):
		return ErrInvalidData
	}
	return err
}
