package migrate

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"s3filestore-migrate/internal/scan"
	"s3filestore-migrate/internal/storage"
)

type put struct {
	bucket string
	key    string
	body   string
	opts   storage.PutOptions
}

type fakeProvider struct {
	failKeys map[string]bool
	puts     []put
}

func (f *fakeProvider) BucketACL(context.Context, string) error { return nil }

func (f *fakeProvider) Put(_ context.Context, bucket, key string, body io.ReadSeeker, opts storage.PutOptions) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.puts = append(f.puts, put{bucket: bucket, key: key, body: string(b), opts: opts})
	if f.failKeys[key] {
		return errors.New("store rejected object")
	}
	return nil
}

func (f *fakeProvider) keys() []string {
	var keys []string
	for _, p := range f.puts {
		keys = append(keys, p.key)
	}
	return keys
}

// writeTree creates one file per identifier and returns the scan mapping.
func writeTree(t *testing.T, contents map[string]string) scan.Files {
	t.Helper()
	dir := t.TempDir()
	files := make(scan.Files)
	for id, body := range contents {
		path := filepath.Join(dir, id)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		files[id] = path
	}
	return files
}

func TestUploader_OnePutPerFile(t *testing.T) {
	files := writeTree(t, map[string]string{
		"res1abcdfile.csv": "a,b\n1,2\n",
		"res2efghdata.txt": "hello",
	})
	store := &fakeProvider{}

	s := NewUploader(store, Options{Bucket: "my-bucket", ACL: "public-read", UseACL: true}, nil).
		Run(context.Background(), files)

	assert.Equal(t, 2, s.Attempted)
	assert.Equal(t, 2, s.Succeeded)
	assert.Zero(t, s.Failed)
	assert.Equal(t, int64(13), s.Bytes)

	require.Len(t, store.puts, 2)
	assert.Equal(t, []string{"res1abcdfile.csv", "res2efghdata.txt"}, store.keys())
	for _, p := range store.puts {
		assert.Equal(t, "my-bucket", p.bucket)
		assert.Equal(t, "public-read", p.opts.ACL)
	}
	assert.Equal(t, "a,b\n1,2\n", store.puts[0].body)
	assert.Contains(t, store.puts[1].opts.ContentType, "text/plain")
}

func TestUploader_OmitsACLWhenUnsupported(t *testing.T) {
	files := writeTree(t, map[string]string{"a": "1", "b": "2"})
	store := &fakeProvider{}

	NewUploader(store, Options{Bucket: "b", ACL: "public-read", UseACL: false}, nil).
		Run(context.Background(), files)

	require.Len(t, store.puts, 2)
	for _, p := range store.puts {
		assert.Empty(t, p.opts.ACL)
	}
}

func TestUploader_KeyPrefix(t *testing.T) {
	files := writeTree(t, map[string]string{"res1abcdfile.csv": "x"})
	store := &fakeProvider{}

	NewUploader(store, Options{Bucket: "b", KeyPrefix: "prod/"}, nil).
		Run(context.Background(), files)

	assert.Equal(t, []string{"prod/res1abcdfile.csv"}, store.keys())
}

func TestUploader_FailureDoesNotStopRun(t *testing.T) {
	files := writeTree(t, map[string]string{"a": "1", "b": "2", "c": "3"})
	store := &fakeProvider{failKeys: map[string]bool{"a": true}}
	metrics := NewMetrics()

	s := NewUploader(store, Options{Bucket: "b"}, metrics).Run(context.Background(), files)

	assert.Equal(t, []string{"a", "b", "c"}, store.keys())
	assert.Equal(t, 3, s.Attempted)
	assert.Equal(t, 2, s.Succeeded)
	assert.Equal(t, 1, s.Failed)

	failed := s.Failures()
	require.Len(t, failed, 1)
	assert.Equal(t, "a", failed[0].Key)
	assert.EqualError(t, failed[0].Err, "store rejected object")

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.uploads.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.uploads.WithLabelValues("failure")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.bytes))
}

func TestUploader_MissingFileIsPerItemFailure(t *testing.T) {
	files := writeTree(t, map[string]string{"b": "2"})
	files["a"] = filepath.Join(t.TempDir(), "gone")
	store := &fakeProvider{}

	s := NewUploader(store, Options{Bucket: "b"}, nil).Run(context.Background(), files)

	assert.Equal(t, 2, s.Attempted)
	assert.Equal(t, 1, s.Failed)
	assert.ErrorIs(t, s.Results[0].Err, os.ErrNotExist)
	assert.Equal(t, []string{"b"}, store.keys())
}

func TestUploader_StopsWhenCancelled(t *testing.T) {
	files := writeTree(t, map[string]string{"a": "1", "b": "2"})
	store := &fakeProvider{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewUploader(store, Options{Bucket: "b"}, nil).Run(ctx, files)

	assert.Zero(t, s.Attempted)
	assert.Empty(t, store.puts)
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.SetStage("scanned", 3)
	path := filepath.Join(t.TempDir(), "migrate.prom")

	require.NoError(t, m.WriteTextfile(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `filestore_migrate_files{stage="scanned"} 3`)
}
