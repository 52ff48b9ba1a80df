package change_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goto/diffpack/core/change"
)

func TestParseLine(t *testing.T) {
	t.Run("skips blank records", func(t *testing.T) {
		for _, raw := range []string{"", "   ", "\r\n"} {
			rec, ok := change.ParseLine(raw)
			assert.False(t, ok)
			assert.Nil(t, rec)
		}
	})
	t.Run("maps single letter codes to their status", func(t *testing.T) {
		cases := map[string]change.Status{
			"A\tx.txt":  change.StatusAdded,
			"C\ta\tb":   change.StatusCopy,
			"D\ty.txt":  change.StatusDeleted,
			"M\tz.txt":  change.StatusModified,
			"T\tlink":   change.StatusChangedType,
			"U\tw.txt":  change.StatusUnmerged,
			"Q\tq.txt":  change.StatusUnknown,
			"X\tblob":   change.StatusUnknown,
			"C075\ta\tb": change.StatusCopy,
		}
		for raw, expected := range cases {
			rec, ok := change.ParseLine(raw)
			assert.True(t, ok)
			assert.Equal(t, expected, rec.Status, "raw record %q", raw)
		}
	})
	t.Run("treats any code starting with R as a rename regardless of score", func(t *testing.T) {
		for _, tc := range []struct {
			raw   string
			token string
		}{
			{"R095\ta.txt\tb.txt", "renamed-095"},
			{"R100\told/name.go\tnew/name.go", "renamed-100"},
			{"R001\ta\tb", "renamed-001"},
		} {
			rec, ok := change.ParseLine(tc.raw)
			assert.True(t, ok)
			assert.Equal(t, change.StatusRenamed, rec.Status)
			assert.Equal(t, tc.token, rec.RenameToken)
		}
	})
	t.Run("keeps original and current paths of a rename apart", func(t *testing.T) {
		rec, ok := change.ParseLine("R092\ta.txt\tb.txt")
		assert.True(t, ok)
		assert.Equal(t, "a.txt", rec.OriginalPath)
		assert.Equal(t, "b.txt", rec.CurrentPath)
	})
	t.Run("forces current path to original path for an add", func(t *testing.T) {
		rec, ok := change.ParseLine("A\tx.txt")
		assert.True(t, ok)
		assert.Equal(t, rec.OriginalPath, rec.CurrentPath)

		// idempotent under re-parsing the same line
		again, ok := change.ParseLine(rec.Raw)
		assert.True(t, ok)
		assert.Equal(t, rec, again)
	})
	t.Run("keeps the raw record verbatim", func(t *testing.T) {
		rec, ok := change.ParseLine("M\tdir/file.go\r\n")
		assert.True(t, ok)
		assert.Equal(t, "M\tdir/file.go", rec.Raw)
	})
}

func TestNewUnknown(t *testing.T) {
	t.Run("builds a synthetic carrier record", func(t *testing.T) {
		rec := change.NewUnknown("/staging/manifest.txt")
		assert.Equal(t, change.StatusUnknown, rec.Status)
		assert.Equal(t, "/staging/manifest.txt", rec.OriginalPath)
		assert.Equal(t, "/staging/manifest.txt", rec.CurrentPath)

		reparsed, ok := change.ParseLine(rec.Raw)
		assert.True(t, ok)
		assert.Equal(t, change.StatusUnknown, reparsed.Status)
	})
}

func TestSet(t *testing.T) {
	t.Run("parse drops blank lines and keeps report order", func(t *testing.T) {
		set := change.Parse([]string{"A\tx.txt", "", "D\ty.txt", "M\tz.txt"})
		assert.Len(t, set, 3)
		assert.Equal(t, []string{"A\tx.txt", "D\ty.txt", "M\tz.txt"}, set.RawLines())
	})
	t.Run("summary counts statuses in first observed order", func(t *testing.T) {
		set := change.Parse([]string{"D\ta", "A\tb", "D\tc", "R050\td\te", "D\tf"})
		assert.Equal(t, []change.StatusCount{
			{Status: change.StatusDeleted, Count: 3},
			{Status: change.StatusAdded, Count: 1},
			{Status: change.StatusRenamed, Count: 1},
		}, set.Summary())
	})
	t.Run("summary of an empty set is empty", func(t *testing.T) {
		assert.Empty(t, change.Set{}.Summary())
	})
}
