package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pipeerrors "censuscli/internal/errors"
)

func TestReadCSVFrom(t *testing.T) {
	schema := testSchema(t)

	tests := []struct {
		name     string
		input    string
		sentinel string
		wantRows [][]string
		wantErr  func(t *testing.T, err error)
	}{
		{
			name:     "plain rows",
			input:    "39,state-gov,<=50k\n50,private,>50k\n",
			sentinel: "?",
			wantRows: [][]string{
				{"39", "state-gov", "<=50k"},
				{"50", "private", ">50k"},
			},
		},
		{
			name:     "incidental whitespace is trimmed",
			input:    "39, State-Gov , <=50K\n",
			sentinel: "?",
			wantRows: [][]string{
				{"39", "State-Gov", "<=50K"},
			},
		},
		{
			name:     "sentinel becomes null",
			input:    "39, ?, <=50k\n50, private, ?\n",
			sentinel: "?",
			wantRows: [][]string{
				{"39", Null, "<=50k"},
				{"50", "private", Null},
			},
		},
		{
			name:     "sentinel inside a longer value is kept",
			input:    "39,what?,<=50k\n",
			sentinel: "?",
			wantRows: [][]string{
				{"39", "what?", "<=50k"},
			},
		},
		{
			name:     "blank lines are skipped",
			input:    "39,state-gov,<=50k\n\n50,private,>50k\n",
			sentinel: "?",
			wantRows: [][]string{
				{"39", "state-gov", "<=50k"},
				{"50", "private", ">50k"},
			},
		},
		{
			name:     "empty source yields empty table",
			input:    "",
			sentinel: "?",
			wantRows: nil,
		},
		{
			name:     "short row fails with schema mismatch",
			input:    "39,state-gov,<=50k\n50,private\n",
			sentinel: "?",
			wantErr: func(t *testing.T, err error) {
				require.True(t, pipeerrors.IsSchemaMismatch(err))
				assert.Contains(t, err.Error(), "row 2")
				assert.Contains(t, err.Error(), "expected 3")
			},
		},
		{
			name:     "wide row fails with schema mismatch",
			input:    "39,state-gov,<=50k,extra\n",
			sentinel: "?",
			wantErr: func(t *testing.T, err error) {
				require.True(t, pipeerrors.IsSchemaMismatch(err))
				assert.Contains(t, err.Error(), "row 1")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ReadCSVFrom(strings.NewReader(tt.input), schema, tt.sentinel)
			if tt.wantErr != nil {
				require.Error(t, err)
				tt.wantErr(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, table.Rows(), len(tt.wantRows))
			for i, want := range tt.wantRows {
				assert.Equal(t, want, table.Rows()[i])
			}
		})
	}
}

func TestReadCSV(t *testing.T) {
	schema := testSchema(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "snapshot.data")
	content := "39, State-gov, <=50K\n28, ?, >50K\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	table, err := ReadCSV(path, schema, "?")
	require.NoError(t, err)
	assert.Equal(t, 2, table.NumRows())
	assert.Equal(t, [][]string{
		{"39", "State-gov", "<=50K"},
		{"28", Null, ">50K"},
	}, table.Rows())

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadCSV(filepath.Join(dir, "absent.csv"), schema, "?")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "open snapshot")
	})

	t.Run("mismatch carries file context", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.csv")
		require.NoError(t, os.WriteFile(bad, []byte("1,2\n"), 0644))

		_, err := ReadCSV(bad, schema, "?")
		require.Error(t, err)
		assert.True(t, pipeerrors.IsSchemaMismatch(err))
		assert.Contains(t, err.Error(), "bad.csv")
	})
}

func TestReadSnapshotDispatch(t *testing.T) {
	schema := testSchema(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "snapshot.csv")
	require.NoError(t, os.WriteFile(path, []byte("39,state-gov,<=50k\n"), 0644))

	table, err := ReadSnapshot(path, schema, "?")
	require.NoError(t, err)
	assert.Equal(t, 1, table.NumRows())

	// Unreadable xlsx goes through the workbook reader and reports as such.
	fake := filepath.Join(dir, "snapshot.xlsx")
	require.NoError(t, os.WriteFile(fake, []byte("not a workbook"), 0644))

	_, err = ReadSnapshot(fake, schema, "?")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open workbook")
}
