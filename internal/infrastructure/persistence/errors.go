package persistence

import (
	"errors"

	"github.com/brindes/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps a gorm error to the domain error taxonomy.
// what names the record in messages, e.g. "order".
func translateError(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.NewDomainError(shared.CodeNotFound, what+" not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.WrapDomainError(shared.CodeAlreadyExists, what+" already exists", err)
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return shared.NewPersistenceError(what+" storage operation failed", err)
}

func likePattern(search string) string {
	return "%" + search + "%"
}
