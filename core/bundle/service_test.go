package bundle_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goto/salt/log"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/goto/diffpack/core/bundle"
	"github.com/goto/diffpack/core/change"
	"github.com/goto/diffpack/internal/errors"
)

func TestNewService(t *testing.T) {
	logger := log.NewNoop()
	fs := afero.NewMemMapFs()
	reader := new(mockRevisionReader)
	assembler := &captureAssembler{fs: fs}

	t.Run("rejects missing collaborators", func(t *testing.T) {
		for _, tc := range []struct {
			name    string
			service func() (*bundle.Service, error)
		}{
			{"nil logger", func() (*bundle.Service, error) { return bundle.NewService(nil, fs, reader, assembler) }},
			{"nil file system", func() (*bundle.Service, error) { return bundle.NewService(logger, nil, reader, assembler) }},
			{"nil reader", func() (*bundle.Service, error) { return bundle.NewService(logger, fs, nil, assembler) }},
			{"nil assembler", func() (*bundle.Service, error) { return bundle.NewService(logger, fs, reader, nil) }},
		} {
			service, err := tc.service()
			assert.Nil(t, service, tc.name)
			assert.True(t, errors.IsErrorType(err, errors.ErrInvalidArgument), tc.name)
		}
	})
	t.Run("accepts a complete set of collaborators", func(t *testing.T) {
		service, err := bundle.NewService(logger, fs, reader, assembler)
		assert.NoError(t, err)
		assert.NotNil(t, service)
	})
}

func TestServiceBuild(t *testing.T) {
	ctx := context.Background()
	logger := log.NewNoop()
	leftTime := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	rightTime := time.Date(2024, 3, 5, 18, 30, 0, 0, time.UTC)

	newReader := func() *mockRevisionReader {
		reader := new(mockRevisionReader)
		reader.On("ResolveCommit", mock.Anything, "main").Return("lll", nil)
		reader.On("ResolveCommit", mock.Anything, "feature").Return("rrr", nil)
		reader.On("CommitTimestamp", mock.Anything, "lll").Return(leftTime, nil)
		reader.On("CommitTimestamp", mock.Anything, "rrr").Return(rightTime, nil)
		reader.On("RemoteURL", mock.Anything).Return("git@example.com:demo.git")
		return reader
	}

	t.Run("returns without an archive when the change set is empty", func(t *testing.T) {
		reader := newReader()
		reader.On("ChangedPaths", mock.Anything, "lll", "rrr").Return([]string{"", "  "}, nil)
		assembler := &captureAssembler{fs: afero.NewMemMapFs()}
		service, err := bundle.NewService(logger, afero.NewMemMapFs(), reader, assembler)
		assert.NoError(t, err)

		result, err := service.Build(ctx, bundle.BuildParams{LeftRef: "main", RightRef: "feature"})
		assert.NoError(t, err)
		assert.True(t, result.NoChanges)
		assert.Empty(t, result.ArchivePath)
		assert.Nil(t, assembler.entries)
		reader.AssertExpectations(t)
	})

	t.Run("fails when a revision cannot be resolved", func(t *testing.T) {
		reader := new(mockRevisionReader)
		reader.On("ResolveCommit", mock.Anything, "main").Return("", nil)
		service, err := bundle.NewService(logger, afero.NewMemMapFs(), reader, &captureAssembler{})
		assert.NoError(t, err)

		result, err := service.Build(ctx, bundle.BuildParams{LeftRef: "main", RightRef: "feature"})
		assert.Nil(t, result)
		assert.True(t, errors.IsErrorType(err, errors.ErrUnavailable))
	})

	t.Run("stages both sides with placeholders and packs them with the manifest", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		reader := newReader()
		reader.On("ChangedPaths", mock.Anything, "lll", "rrr").
			Return([]string{"A\tx.txt", "D\ty.txt", "R092\ta.txt\tb.txt"}, nil)
		reader.On("FileContentAt", mock.Anything, "lll", "y.txt").Return([]string{"old content"}, nil)
		reader.On("FileContentAt", mock.Anything, "lll", "a.txt").Return([]string{"alpha"}, nil)
		reader.On("FileContentAt", mock.Anything, "rrr", "x.txt").Return([]string{"new content"}, nil)
		reader.On("FileContentAt", mock.Anything, "rrr", "b.txt").Return([]string{"alpha", "beta"}, nil)

		assembler := &captureAssembler{fs: fs}
		service, err := bundle.NewService(logger, fs, reader, assembler)
		assert.NoError(t, err)

		result, err := service.Build(ctx, bundle.BuildParams{
			LeftRef:    "main",
			RightRef:   "feature",
			OutputDir:  "out",
			StagingDir: "/stage",
		})
		assert.NoError(t, err)
		assert.False(t, result.NoChanges)
		assert.Equal(t, filepath.Join("out", "main ⟷ feature.zip"), result.ArchivePath)
		assert.Equal(t, 8, result.FileCount)
		assert.Equal(t, []change.StatusCount{
			{Status: change.StatusAdded, Count: 1},
			{Status: change.StatusDeleted, Count: 1},
			{Status: change.StatusRenamed, Count: 1},
		}, result.Summary)

		assert.Equal(t, "", assembler.entries["main/x.txt-added"])
		assert.Equal(t, "old content", assembler.entries["main/y.txt"])
		assert.Equal(t, "alpha", assembler.entries["main/a.txt-renamed-092"])
		assert.Equal(t, "new content", assembler.entries["feature/x.txt"])
		assert.Equal(t, "", assembler.entries["feature/y.txt-deleted"])
		assert.Equal(t, "alpha\nbeta", assembler.entries["feature/b.txt"])

		manifest, found := assembler.entryWithPrefix("Δ main ⟷ feature @ [")
		assert.True(t, found)
		assert.Equal(t, "Added=1\nDeleted=1\nRenamed=1\n\nA\tx.txt\nD\ty.txt\nR092\ta.txt\tb.txt", manifest)

		arguments := assembler.entries["run-arguments.txt"]
		assert.Contains(t, arguments, "left=main (lll)")
		assert.Contains(t, arguments, "right=feature (rrr)")
		assert.Contains(t, arguments, "remote=git@example.com:demo.git")

		exists, err := afero.DirExists(fs, assembler.root)
		assert.NoError(t, err)
		assert.False(t, exists, "staging root should be removed once the archive is written")
		reader.AssertExpectations(t)
	})

	t.Run("stages an unmerged path as a plain two-sided diff", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		reader := newReader()
		reader.On("ChangedPaths", mock.Anything, "lll", "rrr").Return([]string{"U\tconflicted.txt"}, nil)
		reader.On("FileContentAt", mock.Anything, "lll", "conflicted.txt").Return([]string{"ours"}, nil)
		reader.On("FileContentAt", mock.Anything, "rrr", "conflicted.txt").Return([]string{"theirs"}, nil)

		assembler := &captureAssembler{fs: fs}
		service, err := bundle.NewService(logger, fs, reader, assembler)
		assert.NoError(t, err)

		_, err = service.Build(ctx, bundle.BuildParams{
			LeftRef: "main", RightRef: "feature", OutputDir: "out", StagingDir: "/stage",
		})
		assert.NoError(t, err)
		assert.Equal(t, "ours", assembler.entries["main/conflicted.txt"])
		assert.Equal(t, "theirs", assembler.entries["feature/conflicted.txt"])
	})

	t.Run("cleans up the staging root when assembling fails", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		reader := newReader()
		reader.On("ChangedPaths", mock.Anything, "lll", "rrr").Return([]string{"A\tx.txt"}, nil)
		reader.On("FileContentAt", mock.Anything, "rrr", "x.txt").Return([]string{"new"}, nil)

		assembler := &captureAssembler{fs: fs, err: errors.InternalError("archive", "disk full", nil)}
		service, err := bundle.NewService(logger, fs, reader, assembler)
		assert.NoError(t, err)

		result, err := service.Build(ctx, bundle.BuildParams{
			LeftRef: "main", RightRef: "feature", OutputDir: "out", StagingDir: "/stage",
		})
		assert.Nil(t, result)
		assert.Error(t, err)

		exists, dirErr := afero.DirExists(fs, assembler.root)
		assert.NoError(t, dirErr)
		assert.False(t, exists)
	})
}

type mockRevisionReader struct {
	mock.Mock
}

func (m *mockRevisionReader) ResolveCommit(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func (m *mockRevisionReader) CommitTimestamp(ctx context.Context, rev string) (time.Time, error) {
	args := m.Called(ctx, rev)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *mockRevisionReader) RemoteURL(ctx context.Context) string {
	return m.Called(ctx).String(0)
}

func (m *mockRevisionReader) Branches(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	branches, _ := args.Get(0).([]string)
	return branches, args.Error(1)
}

func (m *mockRevisionReader) FileContentAt(ctx context.Context, rev, path string) ([]string, error) {
	args := m.Called(ctx, rev, path)
	lines, _ := args.Get(0).([]string)
	return lines, args.Error(1)
}

func (m *mockRevisionReader) ChangedPaths(ctx context.Context, leftHash, rightHash string) ([]string, error) {
	args := m.Called(ctx, leftHash, rightHash)
	lines, _ := args.Get(0).([]string)
	return lines, args.Error(1)
}

// captureAssembler reads the staged files while they still exist so the
// tests can assert on archive content after the staging root is gone.
type captureAssembler struct {
	fs  afero.Fs
	err error

	root        string
	destination string
	exclusions  []string
	entries     map[string]string
}

func (a *captureAssembler) Assemble(_ context.Context, files []string, rootToStrip, destination string, exclusions []string) (string, error) {
	a.root = rootToStrip
	a.destination = destination
	a.exclusions = exclusions
	a.entries = make(map[string]string)
	for _, file := range files {
		content, err := afero.ReadFile(a.fs, file)
		if err != nil {
			return "", err
		}
		name := strings.TrimLeft(strings.TrimPrefix(file, rootToStrip), "/\\")
		a.entries[filepath.ToSlash(name)] = string(content)
	}
	if a.err != nil {
		return "", a.err
	}
	return destination, nil
}

func (a *captureAssembler) entryWithPrefix(prefix string) (string, bool) {
	for name, content := range a.entries {
		if strings.HasPrefix(name, prefix) {
			return content, true
		}
	}
	return "", false
}
