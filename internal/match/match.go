// Package match pairs scanned FileStore files with their resource records.
package match

import (
	"context"
	"errors"
	"fmt"
	"log"

	"s3filestore-migrate/internal/models"
	"s3filestore-migrate/internal/scan"
	"s3filestore-migrate/internal/utils"
)

// Finder looks resources up by id. Implemented by database.Client.
type Finder interface {
	FindResource(ctx context.Context, id string) (*models.Resource, error)
	Close() error
}

// Matches maps a resource's own id to the lowercased file name from its url.
type Matches map[string]string

// Match looks up every scanned identifier and keeps the uploaded resources.
// It takes ownership of f and closes it exactly once before returning, whether
// or not a lookup failed. A lookup error aborts the match.
func Match(ctx context.Context, f Finder, files scan.Files) (matches Matches, err error) {
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Printf("Warning: closing database: %v", cerr)
			err = errors.Join(err, cerr)
		}
	}()

	matches = make(Matches)
	for _, id := range files.Keys() {
		r, err := f.FindResource(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("lookup %s: %w", id, err)
		}
		if r == nil || !r.IsUpload() {
			continue
		}
		matches[r.ID] = utils.FileNameFromURL(*r.URL)
	}

	return matches, nil
}
