package repo

import (
	"github.com/angelmondragon/stockledger-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/stockledger-backend/pkg/errors"
)

// Conflict is the public error for a unique-constraint violation on Field.
type Conflict struct {
	Message string
	Field   string
}

// WrapRead maps a failed lookup: a missing row becomes NOT_FOUND, anything
// else DEPENDENCY_ERROR.
func WrapRead(err error, entity string) error {
	if err == nil {
		return nil
	}
	if db.IsNotFound(err) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, entity+" not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load "+entity)
}

// WrapWrite maps a failed insert or update. Unique violations become CONFLICT
// carrying conflict's message and field.
func WrapWrite(err error, step string, conflict Conflict) error {
	if err == nil {
		return nil
	}
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, conflict.Message).
			WithDetails(map[string]string{conflict.Field: "must be unique"})
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, step)
}
