package storage

import (
	"context"
	"errors"
	"log"
)

// CheckACLSupport reports whether bucket accepts per-object ACLs. With enabled
// false the provider is not contacted and ACLs are assumed unsupported. A
// "not supported" answer is a normal outcome; any other error is returned.
func CheckACLSupport(ctx context.Context, p Provider, bucket string, enabled bool) (bool, error) {
	if !enabled {
		log.Println("ACL support check disabled by configuration - defaulting to bucket owner enforced mode")
		return false, nil
	}

	err := p.BucketACL(ctx, bucket)
	switch {
	case err == nil:
		log.Printf("Bucket %s supports ACLs", bucket)
		return true, nil
	case errors.Is(err, ErrACLNotSupported):
		log.Printf("Warning: Bucket %s has Object Ownership set to 'Bucket owner enforced' - ACLs disabled", bucket)
		return false, nil
	}

	return false, err
}
