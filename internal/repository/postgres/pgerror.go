// internal/repository/postgres/pgerror.go
package postgres

import (
	"errors"

	"bankledger/internal/util"

	"github.com/lib/pq"
)

const (
	pqUniqueViolation      = "23505"
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

// classify maps driver errors that callers must act on to sentinel errors.
// Unique violations become ErrDuplicateEntry; serialization and deadlock
// failures become the transient ErrOperationFailed. Anything else passes
// through unchanged.
func classify(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return util.ErrDuplicateEntry
		case pqSerializationFailure, pqDeadlockDetected:
			return util.ErrOperationFailed
		}
	}
	return err
}
