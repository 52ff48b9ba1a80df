package bundle

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/goto/diffpack/core/change"
	"github.com/goto/diffpack/ext/git"
	"github.com/goto/diffpack/internal/errors"
)

const EntityStaging = "staging"

// StagingTree materializes one side's view of the changed files under its
// own directory. Every file it writes, and every directory it creates on
// the way, is stamped with the owning revision's commit time so an
// extracted archive sorts by commit time instead of extraction time.
type StagingTree struct {
	fs       afero.Fs
	Revision git.RevisionInfo
	Root     string

	files []string
}

// Write stores content as relPath under the tree, creating parent
// directories as needed. Nil content is a contract violation by an earlier
// pipeline stage and aborts the run, an empty slice is a legitimately empty
// file. Returns the absolute path written.
func (t *StagingTree) Write(relPath string, lines []string) (string, error) {
	if lines == nil {
		return "", errors.InternalError(EntityStaging, "content missing for "+relPath, nil)
	}
	target := filepath.Join(t.Root, filepath.FromSlash(relPath))
	if err := t.mkdirAllStamped(filepath.Dir(target)); err != nil {
		return "", err
	}
	content := []byte(strings.Join(lines, "\n"))
	if err := afero.WriteFile(t.fs, target, content, 0o644); err != nil {
		return "", errors.Wrap(EntityStaging, "unable to write "+target, err)
	}
	ts := t.Revision.CommitTime
	if err := t.fs.Chtimes(target, ts, ts); err != nil {
		return "", errors.Wrap(EntityStaging, "unable to stamp "+target, err)
	}
	t.files = append(t.files, target)
	return target, nil
}

// Files returns the absolute paths written so far, in write order.
func (t *StagingTree) Files() []string {
	return t.files
}

func (t *StagingTree) mkdirAllStamped(dir string) error {
	var created []string
	for d := dir; ; d = filepath.Dir(d) {
		exists, err := afero.DirExists(t.fs, d)
		if err != nil {
			return errors.Wrap(EntityStaging, "unable to inspect "+d, err)
		}
		if exists || filepath.Dir(d) == d {
			break
		}
		created = append(created, d)
	}
	if err := t.fs.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(EntityStaging, "unable to create "+dir, err)
	}
	ts := t.Revision.CommitTime
	for _, d := range created {
		if err := t.fs.Chtimes(d, ts, ts); err != nil {
			return errors.Wrap(EntityStaging, "unable to stamp "+d, err)
		}
	}
	return nil
}

// StagingRoot owns the shared parent directory of both staging trees for
// one comparison. The root carries a fresh random identifier per run so
// concurrent runs never collide, and it is removed as one unit once the
// archive has been written or the attempt failed.
type StagingRoot struct {
	fs    afero.Fs
	Path  string
	Left  *StagingTree
	Right *StagingTree
}

// NewStagingRoot creates the uniquely named shared root under baseDir with
// one tree per revision.
func NewStagingRoot(fs afero.Fs, baseDir string, left, right git.RevisionInfo) (*StagingRoot, error) {
	rootPath := filepath.Join(baseDir, "diffpack-"+uuid.New().String())
	if err := fs.MkdirAll(rootPath, 0o755); err != nil {
		return nil, errors.Wrap(EntityStaging, "unable to create staging root", err)
	}

	leftDir := DirNameFor(left.Name)
	rightDir := DirNameFor(right.Name)
	if rightDir == leftDir {
		rightDir += "-2"
	}

	root := &StagingRoot{
		fs:   fs,
		Path: rootPath,
		Left: &StagingTree{
			fs:       fs,
			Revision: left,
			Root:     filepath.Join(rootPath, leftDir),
		},
		Right: &StagingTree{
			fs:       fs,
			Revision: right,
			Root:     filepath.Join(rootPath, rightDir),
		},
	}
	return root, nil
}

// Tree returns the staging tree owning the given side.
func (r *StagingRoot) Tree(side change.Side) *StagingTree {
	if side == change.SideLeft {
		return r.Left
	}
	return r.Right
}

// Close deletes the shared root and everything beneath it.
func (r *StagingRoot) Close() error {
	return r.fs.RemoveAll(r.Path)
}

// DirNameFor converts a revision name into a directory-safe name, ref
// names may contain path separators.
func DirNameFor(revName string) string {
	name := strings.NewReplacer("/", "-", "\\", "-", ":", "-").Replace(revName)
	if name == "" {
		return "revision"
	}
	return name
}
