package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gravadigital/fring-api/internal/domain/common"
)

// translate maps driver errors to application errors. Not found and unique
// violations become typed AppErrors; everything else is wrapped with action.
func translate(err error, action, resource string, id any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return common.NewNotFoundError(resource, id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return common.NewConflictError(fmt.Sprintf("%s already exists", resource))
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return common.NewConflictError(fmt.Sprintf("%s is still referenced", resource))
	default:
		return fmt.Errorf("failed to %s: %w", action, err)
	}
}
