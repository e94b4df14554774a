package repository

import (
	"github.com/cockroachdb/errors"
	"github.com/irshad/hiring/internal/apperror"
	"gorm.io/gorm"
)

// translate maps gorm errors onto the service error taxonomy.
func translate(err error, notFound, conflict, internal string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.New(apperror.CodeNotFound, notFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperror.New(apperror.CodeConflict, conflict, err)
	default:
		return apperror.Internal(internal, err)
	}
}
