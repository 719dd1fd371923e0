package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// RetentionHorizon is how long generated audio artifacts are kept before the
// request-time sweep removes them.
const RetentionHorizon = 90 * 24 * time.Hour

const artifactPrefix = "speech_"

// Store persists audio artifacts into a single flat directory, optionally
// mirroring them to a GCS bucket. Filenames are timestamp-derived; a write
// truncates any file with the same name.
type Store struct {
	Dir    string
	Bucket string
}

// Save writes the artifact with create-or-truncate semantics and returns the
// full path.
func (s *Store) Save(filename string, data []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create audio dir: %w", err)
	}
	path := filepath.Join(s.Dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	return path, nil
}

// Sweep deletes speech artifacts whose modification time is older than
// maxAge. It runs at request time, not on a timer, and returns how many
// files were removed. Unreadable entries are skipped.
func (s *Store) Sweep(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), artifactPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.Dir, entry.Name())); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}

// Mirror uploads the artifact to the configured bucket and returns its
// gs:// URL. No-op when no bucket is configured.
func (s *Store) Mirror(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	if s.Bucket == "" {
		return "", nil
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()

	w := client.Bucket(s.Bucket).Object(filename).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	return fmt.Sprintf("gs://%s/%s", s.Bucket, filename), nil
}

// SweepBucket applies the same retention horizon to mirrored objects.
func (s *Store) SweepBucket(ctx context.Context, maxAge time.Duration) (int, error) {
	if s.Bucket == "" {
		return 0, nil
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return 0, err
	}
	defer client.Close()

	cutoff := time.Now().Add(-maxAge)
	bucket := client.Bucket(s.Bucket)
	it := bucket.Objects(ctx, &storage.Query{Prefix: artifactPrefix})

	removed := 0
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return removed, err
		}
		if attrs.Updated.Before(cutoff) {
			if err := bucket.Object(attrs.Name).Delete(ctx); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}
