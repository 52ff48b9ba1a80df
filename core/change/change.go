package change

import (
	"strings"
)

// Status classifies how a path changed between the two compared revisions.
type Status string

const (
	StatusAdded       Status = "Added"
	StatusCopy        Status = "Copy"
	StatusDeleted     Status = "Deleted"
	StatusModified    Status = "Modified"
	StatusRenamed     Status = "Renamed"
	StatusChangedType Status = "ChangedType"
	StatusUnmerged    Status = "Unmerged"
	StatusUnknown     Status = "Unknown"
)

// UnknownCode is the synthetic status code used for records the pipeline
// injects itself, like the manifest and the run arguments.
const UnknownCode = "X"

const renameTokenPrefix = "renamed-"

// Record is one changed path from a name-status diff report. Records are
// created once during parsing and never mutated afterwards. A Record with
// StatusUnknown doubles as a generic named-blob carrier so bookkeeping files
// ride through the same pipeline as real repository paths.
type Record struct {
	Status       Status
	OriginalPath string
	CurrentPath  string
	RenameToken  string
	Raw          string
}

// ParseLine parses one tab-separated name-status line into a Record. The
// second return value is false for blank lines, which are skipped rather
// than treated as errors.
func ParseLine(raw string) (*Record, bool) {
	line := strings.TrimRight(raw, "\r\n")
	if strings.TrimSpace(line) == "" {
		return nil, false
	}

	parts := strings.Split(line, "\t")
	code := strings.TrimSpace(parts[0])

	rec := &Record{
		Status: statusFromCode(code),
		Raw:    line,
	}
	if rec.Status == StatusRenamed {
		rec.RenameToken = renameTokenPrefix + code[1:]
	}

	if len(parts) > 1 {
		rec.OriginalPath = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		rec.CurrentPath = strings.TrimSpace(parts[2])
	} else {
		rec.CurrentPath = rec.OriginalPath
	}

	// an add carries a single path in the raw record, there is no separate
	// "new path" side for it
	if rec.Status == StatusAdded {
		rec.CurrentPath = rec.OriginalPath
	}
	return rec, true
}

// NewUnknown builds a synthetic carrier record for a bookkeeping file that
// is not a repository path at all.
func NewUnknown(path string) *Record {
	return &Record{
		Status:       StatusUnknown,
		OriginalPath: path,
		CurrentPath:  path,
		Raw:          UnknownCode + "\t" + path,
	}
}

func statusFromCode(code string) Status {
	if code == "" {
		return StatusUnknown
	}
	switch code[0] {
	case 'A':
		return StatusAdded
	case 'C':
		return StatusCopy
	case 'D':
		return StatusDeleted
	case 'M':
		return StatusModified
	case 'R':
		return StatusRenamed
	case 'T':
		return StatusChangedType
	case 'U':
		return StatusUnmerged
	default:
		return StatusUnknown
	}
}

// Set is the parsed change set for one comparison, in report order.
type Set []*Record

// Parse converts raw name-status lines into a Set, skipping blank lines.
func Parse(rawLines []string) Set {
	var set Set
	for _, line := range rawLines {
		if rec, ok := ParseLine(line); ok {
			set = append(set, rec)
		}
	}
	return set
}

// StatusCount is one line of the change summary.
type StatusCount struct {
	Status Status
	Count  int
}

// Summary accumulates per-status counts in first-observed order.
func (s Set) Summary() []StatusCount {
	indexByStatus := make(map[Status]int)
	var summary []StatusCount
	for _, rec := range s {
		if i, ok := indexByStatus[rec.Status]; ok {
			summary[i].Count++
			continue
		}
		indexByStatus[rec.Status] = len(summary)
		summary = append(summary, StatusCount{Status: rec.Status, Count: 1})
	}
	return summary
}

// RawLines returns the raw records verbatim, in report order.
func (s Set) RawLines() []string {
	lines := make([]string, 0, len(s))
	for _, rec := range s {
		lines = append(lines, rec.Raw)
	}
	return lines
}
