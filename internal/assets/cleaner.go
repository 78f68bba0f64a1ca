// Package assets removes uploaded files that are no longer referenced
// by any entity after an update or delete.
package assets

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// DeletedSentinel marks an asset whose owning entity was deleted, as
// opposed to one that was replaced by a new upload.
const DeletedSentinel = "-deleted-"

// PathChange records an asset column transition on one entity.
type PathChange struct {
	Old string
	New string
}

// Cleaner deletes superseded asset files from the upload directory.
// Cleanup failures are logged and never surfaced to callers; a stale
// file on disk is not worth failing a mutation over.
type Cleaner struct {
	dir    string
	logger zerolog.Logger
}

func NewCleaner(dir string, logger zerolog.Logger) *Cleaner {
	return &Cleaner{dir: dir, logger: logger}
}

// RemoveUnused deletes every old path that was superseded by a new one
// or whose entity was deleted. Unchanged paths are left alone.
func (c *Cleaner) RemoveUnused(changes []PathChange) {
	for _, change := range changes {
		if change.Old == "" || change.New == "" {
			continue
		}
		if change.Old == change.New {
			continue
		}

		rel := relativePath(change.Old)
		if rel == "" {
			continue
		}

		full := filepath.Join(c.dir, rel)
		if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
			c.logger.Warn().Err(err).Str("path", full).Msg("failed to remove unused asset")
		}
	}
}

// relativePath strips everything before the serving prefix so stored
// URLs like "https://cdn.example.com/images/cover/x.webp" map back to
// files under the upload directory.
func relativePath(stored string) string {
	idx := strings.Index(stored, "/images")
	if idx < 0 {
		return ""
	}
	return strings.TrimPrefix(stored[idx:], "/")
}
