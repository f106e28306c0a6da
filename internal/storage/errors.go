package storage

import (
	"errors"
	"fmt"
)

// CodeACLNotSupported is the S3 error code returned by buckets with Object
// Ownership set to "Bucket owner enforced".
const CodeACLNotSupported = "AccessControlListNotSupported"

// ErrACLNotSupported marks a bucket that rejects per-object ACLs.
var ErrACLNotSupported = errors.New("storage: access control lists not supported")

// Error records the failed operation with its bucket and key.
type Error struct {
	Op     string
	Bucket string
	Key    string
	Err    error
}

func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("storage.%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	return fmt.Sprintf("storage.%s bucket %s: %v", e.Op, e.Bucket, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
