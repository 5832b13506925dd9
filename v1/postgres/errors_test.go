package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	cases := []struct {
		in   error
		want error
	}{
		{gorm.ErrRecordNotFound, ErrRecordNotFound},
		{fmt.Errorf("wrapped: %w", gorm.ErrDuplicatedKey), ErrDuplicateKey},
		{gorm.ErrForeignKeyViolated, ErrForeignKey},
		{gorm.ErrInvalidData, ErrInvalidData},
	}
	for _, c := range cases {
		assert.ErrorIs(t, TranslateError(c.in), c.want)
	}

	assert.NoError(t, TranslateError(nil))

	other := errors.New("boom")
	assert.Same(t, other, TranslateError(other))
}

func TestConfigDSN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Connection.Password = "secret"
	assert.Equal(t, "host=localhost port=5432 user=postgres password=secret dbname=argo sslmode=disable", cfg.DSN())
}
