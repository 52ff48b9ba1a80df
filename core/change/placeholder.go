package change

import "path"

// Side identifies which staging tree owns a placeholder. Manifest entries
// are written once into the shared staging root and referenced by both
// sides.
type Side string

const (
	SideLeft     Side = "left"
	SideRight    Side = "right"
	SideManifest Side = "manifest"
)

// PlaceholderSpec describes the synthetic entry needed when a record cannot
// be represented as the same path with two contents. An empty SourcePath
// means the placeholder has no real counterpart and is materialized as an
// empty file.
type PlaceholderSpec struct {
	DisplayPath string
	SourcePath  string
	Side        Side
}

// PlaceholderFor decides what placeholder a record needs, if any. Modified,
// Copy and ChangedType records never get one, both of their sides read real
// content at their respective revisions. Unmerged deliberately passes
// through the same way so the archive still shows both conflicted sides.
func PlaceholderFor(rec *Record) *PlaceholderSpec {
	switch rec.Status {
	case StatusAdded:
		return &PlaceholderSpec{
			DisplayPath: rec.CurrentPath + "-added",
			Side:        SideLeft,
		}
	case StatusDeleted:
		return &PlaceholderSpec{
			DisplayPath: rec.OriginalPath + "-deleted",
			Side:        SideRight,
		}
	case StatusRenamed:
		return &PlaceholderSpec{
			DisplayPath: rec.OriginalPath + "-" + rec.RenameToken,
			SourcePath:  rec.OriginalPath,
			Side:        SideLeft,
		}
	case StatusUnknown:
		return &PlaceholderSpec{
			DisplayPath: path.Base(rec.CurrentPath),
			SourcePath:  rec.CurrentPath,
			Side:        SideManifest,
		}
	default:
		return nil
	}
}

// SidePath returns the repository path a staging side reads for a record
// that has no placeholder on that side. The left side always reads the
// original path and the right side the current path, so a copy reported
// with two different paths is staged from each of its own paths.
func SidePath(rec *Record, side Side) string {
	if side == SideLeft {
		return rec.OriginalPath
	}
	return rec.CurrentPath
}
