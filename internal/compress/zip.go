package compress

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goto/salt/log"
	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"

	"github.com/goto/diffpack/internal/errors"
)

const (
	EntityArchive = "archive"

	// Extension is enforced on every destination so directory-diff tools
	// recognize the output.
	Extension = ".zip"
)

// ZipAssembler streams a closed list of files into one deflate-compressed
// zip archive.
type ZipAssembler struct {
	logger log.Logger
	fs     afero.Fs
}

func NewZipAssembler(logger log.Logger, fs afero.Fs) *ZipAssembler {
	return &ZipAssembler{logger: logger, fs: fs}
}

// Assemble walks the given absolute paths and writes each regular file as
// an archive entry named by its path relative to rootToStrip. Directories,
// symlinks, duplicate paths, the destination itself and any path containing
// one of the exclusion substrings are skipped. Entry timestamps come from
// the staged files, which carry their revision's commit time.
func (z *ZipAssembler) Assemble(ctx context.Context, files []string, rootToStrip, destination string, exclusions []string) (string, error) {
	destination = EnsureExtension(destination)
	if err := z.fs.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return "", errors.Wrap(EntityArchive, "unable to create output directory", err)
	}
	out, err := z.fs.Create(destination)
	if err != nil {
		return "", errors.Wrap(EntityArchive, "unable to create "+destination, err)
	}
	defer out.Close()

	writer := zip.NewWriter(out)
	seen := make(map[string]bool)
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if seen[file] {
			continue
		}
		seen[file] = true

		if file == destination {
			continue
		}
		if excluded(file, exclusions) {
			z.logger.Debug("excluding %s", file)
			continue
		}
		info, err := z.stat(file)
		if err != nil {
			return "", errors.Wrap(EntityArchive, "unable to inspect "+file, err)
		}
		if info.IsDir() || !info.Mode().IsRegular() {
			continue
		}

		if err := z.writeEntry(writer, file, entryName(file, rootToStrip), info); err != nil {
			return "", err
		}
	}
	if err := writer.Close(); err != nil {
		return "", errors.Wrap(EntityArchive, "unable to finalize "+destination, err)
	}
	return destination, nil
}

func (z *ZipAssembler) writeEntry(writer *zip.Writer, file, name string, info os.FileInfo) error {
	header := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: info.ModTime(),
	}
	entry, err := writer.CreateHeader(header)
	if err != nil {
		return errors.Wrap(EntityArchive, "unable to add entry "+name, err)
	}
	src, err := z.fs.Open(file)
	if err != nil {
		return errors.Wrap(EntityArchive, "unable to open "+file, err)
	}
	defer src.Close()
	if _, err := io.Copy(entry, src); err != nil {
		return errors.Wrap(EntityArchive, "unable to compress "+file, err)
	}
	return nil
}

// stat avoids following symlinks where the backing filesystem allows it, a
// reparse point cannot be represented as a plain archive entry.
func (z *ZipAssembler) stat(file string) (os.FileInfo, error) {
	if lstater, ok := z.fs.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(file)
		return info, err
	}
	return z.fs.Stat(file)
}

// entryName strips the shared root and any leading separators, a leading
// separator would make archive tools display a spurious empty top-level
// entry.
func entryName(file, rootToStrip string) string {
	name := strings.TrimPrefix(file, rootToStrip)
	name = strings.TrimLeft(name, "/\\")
	return filepath.ToSlash(name)
}

// excluded applies substring matching against the absolute path, so
// exclusion strings should be specific ("/vendor/" rather than "vendor")
// to avoid catching similarly named files.
func excluded(file string, exclusions []string) bool {
	normalized := filepath.ToSlash(file)
	for _, pattern := range exclusions {
		if pattern == "" {
			continue
		}
		if strings.Contains(normalized, pattern) {
			return true
		}
	}
	return false
}

// EnsureExtension appends the zip extension when the name lacks it.
func EnsureExtension(name string) string {
	if strings.EqualFold(filepath.Ext(name), Extension) {
		return name
	}
	return name + Extension
}
