package git

import (
	"context"
	"time"
)

// RevisionInfo describes one resolved side of a comparison.
type RevisionInfo struct {
	Name       string
	CommitHash string
	CommitTime time.Time
	RemoteURL  string
}

// RevisionReader is the read-only surface the diff pipeline needs from
// version control. Implementations never mutate repository state.
type RevisionReader interface {
	// ResolveCommit resolves a ref name to a commit hash, falling back to
	// the commit one step before HEAD when the name does not resolve. An
	// empty hash means the collaborator is unavailable.
	ResolveCommit(ctx context.Context, name string) (string, error)

	// CommitTimestamp returns the committer date of the revision.
	CommitTimestamp(ctx context.Context, rev string) (time.Time, error)

	// RemoteURL returns the origin remote url, best effort, empty when
	// unset.
	RemoteURL(ctx context.Context) string

	// Branches lists local branch names, used for interactive selection.
	Branches(ctx context.Context) ([]string, error)

	// FileContentAt reads a file's lines as stored at the revision. A path
	// absent at that revision yields an empty, non-nil slice.
	FileContentAt(ctx context.Context, rev, path string) ([]string, error)

	// ChangedPaths returns raw name-status lines between the merge-base of
	// the two commits and each side, with rename and copy detection.
	ChangedPaths(ctx context.Context, leftHash, rightHash string) ([]string, error)
}

// Maintainer exposes the administrative history maintenance operation. It is
// not part of the diff pipeline.
type Maintainer interface {
	Maintenance(ctx context.Context) error
}
