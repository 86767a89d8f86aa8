package dataset_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/clausecheck/internal/dataset"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeCSV(t, "Deal,ClauseText\nd1,Payment due on delivery.\nd2,\nd3,\"Unlimited liability, no cap.\"\n")

	table, err := dataset.Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Deal", "ClauseText"}, table.Columns)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, []string{"d1", "Payment due on delivery."}, table.Rows[0])
	assert.Equal(t, []string{"d2", ""}, table.Rows[1])
	assert.Equal(t, []string{"d3", "Unlimited liability, no cap."}, table.Rows[2])
}

func TestLoad_PadsShortRows(t *testing.T) {
	// A row with fewer fields than the header reads as empty cells,
	// the same as an explicitly empty value.
	path := writeCSV(t, "A,B,C\nonly-a\nx,y,z\n")

	table, err := dataset.Load(path)
	require.NoError(t, err)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"only-a", "", ""}, table.Rows[0])
	assert.Equal(t, []string{"x", "y", "z"}, table.Rows[1])
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := dataset.Load(filepath.Join(t.TempDir(), "nope.csv"))
		assert.Error(t, err)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := dataset.Load(writeCSV(t, ""))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no header row")
	})
}

func TestColumnIndex(t *testing.T) {
	table := &dataset.Table{Columns: []string{"Deal", "ClauseText"}}

	idx, ok := table.ColumnIndex("ClauseText")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = table.ColumnIndex("Missing")
	assert.False(t, ok)
}

func TestSave_PreservesHeaderAndOrder(t *testing.T) {
	table := &dataset.Table{
		Columns: []string{"Deal", "ClauseText"},
		Rows: [][]string{
			{"d1", "Yes"},
			{"d2", ""},
			{"d3", "No"},
		},
	}

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, table.Save(path))

	reloaded, err := dataset.Load(path)
	require.NoError(t, err)
	assert.Equal(t, table.Columns, reloaded.Columns)
	assert.Equal(t, table.Rows, reloaded.Rows)
}

func TestString(t *testing.T) {
	table := &dataset.Table{
		Columns: []string{"Deal", "ClauseText"},
		Rows: [][]string{
			{"d1", "Yes"},
		},
	}

	out := table.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Deal")
	assert.Contains(t, lines[0], "ClauseText")
	assert.Contains(t, lines[1], "d1")
	assert.Contains(t, lines[1], "Yes")
}
