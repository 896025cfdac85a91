package preview

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"time"
)

// CandidatePaths lists the known harness output-root conventions for a
// snapshot file, in priority order, relative to the directory containing
// the workspace/project:
//
//	<snapshots_dir>/ViewSnapshotTests/<filename>
//	<test_target>/<snapshots_dir>/ViewSnapshotTests/<filename>
func CandidatePaths(workspaceDir, snapshotsDir, testTarget, filename string) []string {
	return []string{
		filepath.Join(workspaceDir, snapshotsDir, SnapshotTestClass, filename),
		filepath.Join(workspaceDir, testTarget, snapshotsDir, SnapshotTestClass, filename),
	}
}

var errFound = errors.New("found")

// searchByName recursively searches root for an exact filename match with
// a bounded time budget, returning the first match as an absolute path.
// Unreadable directories are skipped, not fatal.
func searchByName(ctx context.Context, root, filename string, budget time.Duration) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	var found string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return errFound
		}
		if !d.IsDir() && d.Name() == filename {
			found = path
			return errFound
		}
		return nil
	})

	if found == "" {
		return "", false
	}
	abs, err := filepath.Abs(found)
	if err != nil {
		return "", false
	}
	return abs, true
}
