package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"censuscli/internal/dataset"
	pipeerrors "censuscli/internal/errors"
)

func newTestTable(t *testing.T, columns []dataset.Column, rows [][]string) *dataset.Table {
	t.Helper()

	schema, err := dataset.NewSchema(columns)
	require.NoError(t, err)
	table, err := dataset.New(schema, rows)
	require.NoError(t, err)
	return table
}

func workTable(t *testing.T, rows [][]string) *dataset.Table {
	t.Helper()

	return newTestTable(t, []dataset.Column{
		{Name: "age", Kind: dataset.KindNumeric},
		{Name: "workclass", Kind: dataset.KindCategorical},
		{Name: "education", Kind: dataset.KindCategorical},
	}, rows)
}

func columnValues(t *testing.T, table *dataset.Table, name string) []string {
	t.Helper()

	values, err := table.Column(name)
	require.NoError(t, err)
	return values
}

func TestCollapse(t *testing.T) {
	table := workTable(t, [][]string{
		{"39", "state-gov", "bachelors"},
		{"50", "private", "hs-grad"},
		{"28", "local-gov", "masters"},
	})

	out, err := Collapse(table, "workclass", map[string]string{
		"state-gov": "government",
		"local-gov": "government",
	})
	require.NoError(t, err)

	// "private" is not a key, so it passes through unchanged.
	assert.Equal(t, []string{"government", "private", "government"}, columnValues(t, out, "workclass"))

	// Input table is untouched.
	assert.Equal(t, []string{"state-gov", "private", "local-gov"}, columnValues(t, table, "workclass"))
}

func TestCollapseUnknownColumn(t *testing.T) {
	table := workTable(t, nil)

	_, err := Collapse(table, "income", map[string]string{"a": "b"})
	require.Error(t, err)
	assert.True(t, pipeerrors.IsUnknownColumn(err))
}

func TestDerive(t *testing.T) {
	table := workTable(t, [][]string{
		{"39", "state-gov", "bachelors"},
		{"50", "private", "unknown-degree"},
	})

	out, err := Derive(table, "education", "education_level", map[string]string{
		"bachelors": "tertiary",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"age", "workclass", "education", "education_level"}, out.Header())
	// "unknown-degree" has no entry: the derived value is null, not a
	// pass-through.
	assert.Equal(t, []string{"tertiary", dataset.Null}, columnValues(t, out, "education_level"))

	// Input table keeps three columns.
	assert.Equal(t, 3, table.NumColumns())
}

func TestCollapseAndDeriveMissPoliciesDiffer(t *testing.T) {
	// The same unmapped value takes two different paths: collapse passes it
	// through, derive nulls it.
	table := workTable(t, [][]string{
		{"39", "freelance", "freelance"},
	})

	collapsed, err := Collapse(table, "workclass", map[string]string{"state-gov": "government"})
	require.NoError(t, err)
	assert.Equal(t, []string{"freelance"}, columnValues(t, collapsed, "workclass"))

	derived, err := Derive(table, "education", "education_level", map[string]string{"bachelors": "tertiary"})
	require.NoError(t, err)
	assert.Equal(t, []string{dataset.Null}, columnValues(t, derived, "education_level"))
}

func TestDeriveIsIdempotentWhileSourceUnchanged(t *testing.T) {
	table := workTable(t, [][]string{
		{"39", "state-gov", "bachelors"},
		{"50", "private", "hs-grad"},
	})
	mapping := map[string]string{"bachelors": "tertiary", "hs-grad": "secondary"}

	once, err := Derive(table, "education", "education_level", mapping)
	require.NoError(t, err)
	twice, err := Derive(once, "education", "education_level", mapping)
	require.NoError(t, err)

	assert.Equal(t, once.Header(), twice.Header())
	assert.Equal(t, once.Rows(), twice.Rows())
}

func TestDeriveUnknownSource(t *testing.T) {
	table := workTable(t, nil)

	_, err := Derive(table, "income", "income_level", map[string]string{"a": "b"})
	require.Error(t, err)
	assert.True(t, pipeerrors.IsUnknownColumn(err))
}

func TestDrop(t *testing.T) {
	table := workTable(t, [][]string{
		{"39", "state-gov", "bachelors"},
	})

	out, err := Drop(table, []string{"education"})
	require.NoError(t, err)
	assert.Equal(t, []string{"age", "workclass"}, out.Header())

	_, err = Drop(table, []string{"income"})
	require.Error(t, err)
	assert.True(t, pipeerrors.IsUnknownColumn(err))
}

func TestDeriveCannotReintroduceDroppedColumn(t *testing.T) {
	table := workTable(t, [][]string{
		{"39", "state-gov", "bachelors"},
	})

	pruned, err := Drop(table, []string{"education"})
	require.NoError(t, err)

	_, err = Derive(pruned, "workclass", "education", map[string]string{"state-gov": "government"})
	require.Error(t, err)
	assert.True(t, pipeerrors.IsUnknownColumn(err))
}
