package storage

import (
	"context"
	"io"
)

// Provider is the subset of an object store the migration needs.
type Provider interface {
	// BucketACL reads the bucket's access control list. It returns an error
	// matching ErrACLNotSupported when the bucket rejects ACLs.
	BucketACL(ctx context.Context, bucket string) error
	Put(ctx context.Context, bucket, key string, body io.ReadSeeker, opts PutOptions) error
}

// PutOptions carries the optional attributes of a put.
type PutOptions struct {
	// ACL is the canned ACL to attach. Empty means no ACL is sent.
	ACL         string
	ContentType string
}
