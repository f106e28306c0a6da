package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalProvider writes objects below a directory, one subdirectory per
// bucket. Used to rehearse a migration without touching a remote store.
type LocalProvider struct {
	RootPath string
}

func NewLocalProvider(root string) *LocalProvider {
	return &LocalProvider{RootPath: root}
}

// BucketACL always reports ErrACLNotSupported: plain directories have no ACLs.
func (l *LocalProvider) BucketACL(_ context.Context, bucket string) error {
	return &Error{Op: "get-bucket-acl", Bucket: bucket, Err: ErrACLNotSupported}
}

func (l *LocalProvider) Put(ctx context.Context, bucket, key string, body io.ReadSeeker, _ PutOptions) error {
	if err := ctx.Err(); err != nil {
		return &Error{Op: "put-object", Bucket: bucket, Key: key, Err: err}
	}

	if err := l.put(bucket, key, body); err != nil {
		return &Error{Op: "put-object", Bucket: bucket, Key: key, Err: err}
	}
	return nil
}

func (l *LocalProvider) put(bucket, key string, body io.Reader) error {
	bucketPath := filepath.Join(l.RootPath, bucket)
	path := filepath.Join(bucketPath, filepath.FromSlash(key))

	rel, err := filepath.Rel(bucketPath, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("invalid key %q", key)
	}

	// Ensure sub-directories exist (e.g. bucket/prefix/key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
