// Package migrate copies scanned FileStore files into the object store.
package migrate

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"github.com/prometheus/client_golang/prometheus"

	"s3filestore-migrate/internal/scan"
	"s3filestore-migrate/internal/storage"
	"s3filestore-migrate/internal/utils"
)

type Options struct {
	Bucket    string
	KeyPrefix string
	ACL       string
	// UseACL attaches ACL to every put. Set from the capability probe.
	UseACL bool
}

// Result is the outcome of one file.
type Result struct {
	ID    string
	Key   string
	Path  string
	Bytes int64
	Err   error
}

type Summary struct {
	Attempted int
	Succeeded int
	Failed    int
	Bytes     int64
	Results   []Result
}

// Failures returns the failed results in upload order.
func (s Summary) Failures() []Result {
	var failed []Result
	for _, r := range s.Results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

type Uploader struct {
	store   storage.Provider
	opts    Options
	metrics *Metrics
}

func NewUploader(store storage.Provider, opts Options, metrics *Metrics) *Uploader {
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Uploader{store: store, opts: opts, metrics: metrics}
}

// Run puts every scanned file exactly once, keyed by its scanned identifier,
// whether or not it matched a resource record. A failed file is logged and
// the run moves on. Run stops starting new uploads once ctx is done.
func (u *Uploader) Run(ctx context.Context, files scan.Files) Summary {
	var summary Summary

	for _, id := range files.Keys() {
		if ctx.Err() != nil {
			log.Printf("Interrupted: %d of %d files attempted", summary.Attempted, len(files))
			break
		}

		res := Result{ID: id, Key: utils.ObjectKey(u.opts.KeyPrefix, id), Path: files[id]}

		log.Printf("Uploading %s to %s...", res.Path, res.Key)
		res.Bytes, res.Err = u.upload(ctx, res.Key, res.Path)

		summary.Attempted++
		if res.Err != nil {
			log.Printf("❌ Error uploading %s: %v", res.Key, res.Err)
			u.metrics.uploads.WithLabelValues("failure").Inc()
			summary.Failed++
		} else {
			log.Printf("✅ Finished uploading %s", res.Key)
			u.metrics.uploads.WithLabelValues("success").Inc()
			u.metrics.bytes.Add(float64(res.Bytes))
			summary.Succeeded++
			summary.Bytes += res.Bytes
		}
		summary.Results = append(summary.Results, res)
	}

	return summary
}

func (u *Uploader) upload(ctx context.Context, key, path string) (int64, error) {
	timer := prometheus.NewTimer(u.metrics.duration)
	defer timer.ObserveDuration()

	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return 0, fmt.Errorf("detect content type: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}

	opts := storage.PutOptions{ContentType: mtype.String()}
	if u.opts.UseACL {
		opts.ACL = u.opts.ACL
	}

	if err := u.store.Put(ctx, u.opts.Bucket, key, f, opts); err != nil {
		return 0, err
	}
	return info.Size(), nil
}
