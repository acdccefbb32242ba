// Package errs holds the outcome categories shared by the rank, session and
// repository packages. Concrete errors wrap one of these so callers can
// branch with errors.Is without knowing which layer produced them.
package errs

import "errors"

var (
	// NotFound means a rank, permission, tag or player referenced does not exist.
	NotFound = errors.New("not found")
	// AlreadyExists means a duplicate rank, grant or tag was added.
	AlreadyExists = errors.New("already exists")
	// InvalidReference means a rank was created with a parent that does not exist.
	InvalidReference = errors.New("invalid reference")
	// Persistence means the storage backend failed a read or write.
	Persistence = errors.New("persistence failure")
)
