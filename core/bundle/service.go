package bundle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goto/salt/log"
	"github.com/spf13/afero"

	"github.com/goto/diffpack/core/change"
	"github.com/goto/diffpack/ext/git"
	"github.com/goto/diffpack/internal/errors"
	"github.com/goto/diffpack/internal/utils"
)

const (
	EntityBundle = "bundle"

	nameSeparator      = " ⟷ "
	manifestTimeLayout = "2006-01-02 15.04.05"
	argumentsFileName  = "run-arguments.txt"
)

// Assembler packages a closed list of staged files into a compressed
// archive.
type Assembler interface {
	Assemble(ctx context.Context, files []string, rootToStrip, destination string, exclusions []string) (string, error)
}

// BuildParams are the inputs of one diff-to-archive run.
type BuildParams struct {
	LeftRef     string
	RightRef    string
	OutputDir   string
	ArchiveName string
	Exclusions  []string
	StagingDir  string
}

// BuildResult reports the outcome of one run. NoChanges is set when the
// change set between the two revisions is empty, in which case no archive
// is produced.
type BuildResult struct {
	ArchivePath string
	NoChanges   bool
	Left        git.RevisionInfo
	Right       git.RevisionInfo
	Summary     []change.StatusCount
	FileCount   int
}

// Service orchestrates one comparison: resolve both revisions, compute the
// change set, materialize both staging trees, write the manifest and pack
// everything into a single archive. Each run is stateless and owns its own
// staging root.
type Service struct {
	logger    log.Logger
	fs        afero.Fs
	reader    git.RevisionReader
	assembler Assembler

	now func() time.Time
}

func NewService(logger log.Logger, fs afero.Fs, reader git.RevisionReader, assembler Assembler) (*Service, error) {
	if logger == nil {
		return nil, errors.InvalidArgument(EntityBundle, "logger is nil")
	}
	if fs == nil {
		return nil, errors.InvalidArgument(EntityBundle, "file system is nil")
	}
	if reader == nil {
		return nil, errors.InvalidArgument(EntityBundle, "revision reader is nil")
	}
	if assembler == nil {
		return nil, errors.InvalidArgument(EntityBundle, "assembler is nil")
	}
	return &Service{
		logger:    logger,
		fs:        fs,
		reader:    reader,
		assembler: assembler,
		now:       time.Now,
	}, nil
}

// Build runs the whole pipeline for one comparison. The staging root is
// removed on every exit path once created, success or failure.
func (s *Service) Build(ctx context.Context, params BuildParams) (*BuildResult, error) {
	left, err := s.resolveRevision(ctx, params.LeftRef)
	if err != nil {
		return nil, err
	}
	right, err := s.resolveRevision(ctx, params.RightRef)
	if err != nil {
		return nil, err
	}

	rawLines, err := s.reader.ChangedPaths(ctx, left.CommitHash, right.CommitHash)
	if err != nil {
		return nil, errors.Wrap(EntityBundle, "unable to compute change set", err)
	}
	records := change.Parse(rawLines)
	if len(records) == 0 {
		s.logger.Warn("no changes between [%s] and [%s], nothing to do", left.Name, right.Name)
		return &BuildResult{NoChanges: true, Left: left, Right: right}, nil
	}

	stagingDir := utils.GetFirstNonEmpty(params.StagingDir, os.TempDir())
	root, err := NewStagingRoot(s.fs, stagingDir, left, right)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := root.Close(); cerr != nil {
			s.logger.Warn("unable to clean up staging root %s: %s", root.Path, cerr)
		}
	}()

	if err := s.materialize(ctx, root, change.SideLeft, records); err != nil {
		return nil, err
	}
	if err := s.materialize(ctx, root, change.SideRight, records); err != nil {
		return nil, err
	}

	argumentsPath, err := s.writeArguments(root, left, right, params)
	if err != nil {
		return nil, err
	}
	manifestPath, err := s.writeManifest(root, left, right, records)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(root.Left.Files())+len(root.Right.Files())+2)
	files = append(files, root.Left.Files()...)
	files = append(files, root.Right.Files()...)
	for _, rec := range (change.Set{change.NewUnknown(manifestPath), change.NewUnknown(argumentsPath)}) {
		spec := change.PlaceholderFor(rec)
		files = append(files, spec.SourcePath)
	}

	destination := filepath.Join(params.OutputDir, utils.GetFirstNonEmpty(params.ArchiveName, s.defaultArchiveName(root)))
	archivePath, err := s.assembler.Assemble(ctx, files, root.Path, destination, params.Exclusions)
	if err != nil {
		return nil, errors.Wrap(EntityBundle, "unable to assemble archive", err)
	}

	return &BuildResult{
		ArchivePath: archivePath,
		Left:        left,
		Right:       right,
		Summary:     records.Summary(),
		FileCount:   len(files),
	}, nil
}

func (s *Service) resolveRevision(ctx context.Context, name string) (git.RevisionInfo, error) {
	hash, err := s.reader.ResolveCommit(ctx, name)
	if err != nil {
		return git.RevisionInfo{}, errors.Wrap(EntityBundle, "unable to resolve revision "+name, err)
	}
	if hash == "" {
		return git.RevisionInfo{}, errors.Unavailable(EntityBundle, "version control did not resolve revision "+name)
	}
	ts, err := s.reader.CommitTimestamp(ctx, hash)
	if err != nil {
		return git.RevisionInfo{}, errors.Wrap(EntityBundle, "unable to read commit timestamp of "+name, err)
	}
	return git.RevisionInfo{
		Name:       name,
		CommitHash: hash,
		CommitTime: ts,
		RemoteURL:  s.reader.RemoteURL(ctx),
	}, nil
}

func (s *Service) materialize(ctx context.Context, root *StagingRoot, side change.Side, records change.Set) error {
	tree := root.Tree(side)
	for _, rec := range records {
		spec := change.PlaceholderFor(rec)
		if spec != nil && spec.Side == change.SideManifest {
			continue
		}
		if spec != nil && spec.Side == side {
			lines := []string{}
			if spec.SourcePath != "" {
				var err error
				lines, err = s.reader.FileContentAt(ctx, tree.Revision.CommitHash, spec.SourcePath)
				if err != nil {
					return errors.Wrap(EntityBundle, "unable to read "+spec.SourcePath, err)
				}
			}
			if _, err := tree.Write(spec.DisplayPath, lines); err != nil {
				return err
			}
			continue
		}
		if rec.Status == change.StatusUnmerged && side == change.SideLeft {
			s.logger.Warn("unmerged path [%s] staged as a plain two-sided diff", rec.CurrentPath)
		}
		path := change.SidePath(rec, side)
		lines, err := s.reader.FileContentAt(ctx, tree.Revision.CommitHash, path)
		if err != nil {
			return errors.Wrap(EntityBundle, "unable to read "+path, err)
		}
		if _, err := tree.Write(path, lines); err != nil {
			return err
		}
	}
	return nil
}

// writeManifest writes the audit trail of the run into the shared root: one
// status=count line per observed status, a blank line, then the raw change
// records verbatim.
func (s *Service) writeManifest(root *StagingRoot, left, right git.RevisionInfo, records change.Set) (string, error) {
	name := fmt.Sprintf("Δ %s%s%s @ [%s]",
		DirNameFor(left.Name), nameSeparator, DirNameFor(right.Name), s.now().Format(manifestTimeLayout))

	var lines []string
	for _, sc := range records.Summary() {
		lines = append(lines, fmt.Sprintf("%s=%d", sc.Status, sc.Count))
	}
	lines = append(lines, "")
	lines = append(lines, records.RawLines()...)

	shared := &StagingTree{fs: s.fs, Revision: right, Root: root.Path}
	return shared.Write(name, lines)
}

func (s *Service) writeArguments(root *StagingRoot, left, right git.RevisionInfo, params BuildParams) (string, error) {
	lines := []string{
		fmt.Sprintf("left=%s (%s)", left.Name, left.CommitHash),
		fmt.Sprintf("right=%s (%s)", right.Name, right.CommitHash),
		fmt.Sprintf("remote=%s", right.RemoteURL),
		fmt.Sprintf("output=%s", params.OutputDir),
		fmt.Sprintf("exclusions=%v", params.Exclusions),
	}
	shared := &StagingTree{fs: s.fs, Revision: right, Root: root.Path}
	return shared.Write(argumentsFileName, lines)
}

func (s *Service) defaultArchiveName(root *StagingRoot) string {
	return filepath.Base(root.Left.Root) + nameSeparator + filepath.Base(root.Right.Root) + ".zip"
}
