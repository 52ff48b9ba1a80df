package gitcli

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/goto/salt/log"
)

const fallbackRef = "HEAD~1"

// Client implements the revision reader against a local repository using
// the git binary.
type Client struct {
	logger    log.Logger
	repoPath  string
	binary    string
	available bool
}

// NewClient initializes a git cli client rooted at repoPath. A missing git
// binary is reported once here, subsequent read operations then degrade to
// empty results instead of failing.
func NewClient(logger log.Logger, repoPath, binary string) *Client {
	if binary == "" {
		binary = "git"
	}
	available := true
	if _, err := exec.LookPath(binary); err != nil {
		logger.Warn("%s is not available on PATH, version control queries will return empty results", binary)
		available = false
	}
	return &Client{
		logger:    logger,
		repoPath:  repoPath,
		binary:    binary,
		available: available,
	}
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, c.binary, args...)
	cmd.Dir = c.repoPath
	output, err := cmd.Output()
	if err != nil {
		detail := ""
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			detail = strings.TrimSpace(string(exitErr.Stderr))
		}
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, detail)
	}
	return string(output), nil
}

// ResolveCommit resolves name to a commit hash. An unresolvable name is a
// recoverable usage error, it falls back to the commit before HEAD with a
// warning.
func (c *Client) ResolveCommit(ctx context.Context, name string) (string, error) {
	if !c.available {
		return "", nil
	}
	out, err := c.run(ctx, "rev-parse", "--verify", name+"^{commit}")
	if err != nil {
		c.logger.Warn("unable to resolve revision [%s], falling back to %s: %s", name, fallbackRef, err)
		out, err = c.run(ctx, "rev-parse", "--verify", fallbackRef+"^{commit}")
		if err != nil {
			return "", err
		}
	}
	return strings.TrimSpace(out), nil
}

// CommitTimestamp parses the committer date of rev in a timezone-aware
// format.
func (c *Client) CommitTimestamp(ctx context.Context, rev string) (time.Time, error) {
	if !c.available {
		return time.Time{}, nil
	}
	out, err := c.run(ctx, "show", "--no-patch", "--format=%cI", rev)
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, strings.TrimSpace(out))
}

// RemoteURL returns the origin remote url, empty when unset.
func (c *Client) RemoteURL(ctx context.Context) string {
	if !c.available {
		return ""
	}
	out, err := c.run(ctx, "config", "--get", "remote.origin.url")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// Branches lists local branch names.
func (c *Client) Branches(ctx context.Context) ([]string, error) {
	if !c.available {
		return nil, nil
	}
	out, err := c.run(ctx, "for-each-ref", "--format=%(refname:short)", "refs/heads")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// FileContentAt reads the file as stored at rev. A path git does not know
// at that revision is logged and returned as empty content, some
// placeholder flows intentionally request a path that is absent on one
// side.
func (c *Client) FileContentAt(ctx context.Context, rev, path string) ([]string, error) {
	if !c.available {
		return []string{}, nil
	}
	out, err := c.run(ctx, "show", rev+":"+path)
	if err != nil {
		c.logger.Warn("no content for [%s] at %s: %s", path, rev, err)
		return []string{}, nil
	}
	lines := strings.Split(out, "\n")
	lines[0] = strings.TrimPrefix(lines[0], "\ufeff")
	return lines, nil
}

// ChangedPaths diffs the two commits against their merge-base with rename
// and copy detection, the three-dot range keeps each side's own changes
// since divergence attributed correctly.
func (c *Client) ChangedPaths(ctx context.Context, leftHash, rightHash string) ([]string, error) {
	if !c.available {
		return nil, nil
	}
	out, err := c.run(ctx, "diff", "--name-status", "--find-renames", "--find-copies", leftHash+"..."+rightHash)
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// Maintenance expires the reflog and repacks the repository. Administrative
// only, the diff pipeline never calls this.
func (c *Client) Maintenance(ctx context.Context) error {
	if !c.available {
		return errors.New("git binary is not available")
	}
	for _, args := range [][]string{
		{"reflog", "expire", "--expire=now", "--all"},
		{"repack", "-a", "-d"},
		{"prune"},
	} {
		if _, err := c.run(ctx, args...); err != nil {
			return err
		}
		c.logger.Info("git %s done", strings.Join(args, " "))
	}
	return nil
}

func splitLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
