package dbpkg

import (
	"errors"

	"github.com/lib/pq"
)

// Class 40 codes surfaced by postgres when it aborts one of two conflicting
// concurrent transactions.
const (
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

// IsSerializationFailure reports whether err is a transient conflict raised
// by the storage engine (serializable abort or deadlock victim). The caller
// may safely retry the whole transaction.
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}

	return pqErr.Code == pqSerializationFailure || pqErr.Code == pqDeadlockDetected
}
