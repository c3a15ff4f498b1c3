package dataset

import (
	"fmt"
	"strings"

	pipeerrors "censuscli/internal/errors"
)

// Null is the in-memory marker for a missing value. The raw sentinel token
// is rewritten to Null during ingestion and Null serializes as an empty
// CSV field on export.
const Null = ""

// rowKeySep separates cell values inside duplicate-detection keys. A unit
// separator cannot appear in parsed cell data, so joined keys are collision
// free.
const rowKeySep = "\x1f"

// Kind classifies a column as numeric or categorical.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
)

// Column describes a single named, typed column.
type Column struct {
	Name string
	Kind Kind
}

// Schema is the fixed ordered column set shared by every row of a table.
type Schema struct {
	columns []Column
	index   map[string]int
}

// NewSchema creates a schema from an ordered column list. Column names must
// be unique.
func NewSchema(columns []Column) (*Schema, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("schema requires at least one column")
	}

	index := make(map[string]int, len(columns))
	for i, col := range columns {
		if col.Name == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if col.Kind != KindNumeric && col.Kind != KindCategorical {
			return nil, fmt.Errorf("column %q has unknown kind %q", col.Name, col.Kind)
		}
		if _, exists := index[col.Name]; exists {
			return nil, fmt.Errorf("duplicate column name %q", col.Name)
		}
		index[col.Name] = i
	}

	cols := make([]Column, len(columns))
	copy(cols, columns)

	return &Schema{columns: cols, index: index}, nil
}

// Len returns the number of columns.
func (s *Schema) Len() int {
	return len(s.columns)
}

// Columns returns a copy of the ordered column list.
func (s *Schema) Columns() []Column {
	cols := make([]Column, len(s.columns))
	copy(cols, s.columns)
	return cols
}

// Names returns the ordered column names.
func (s *Schema) Names() []string {
	names := make([]string, len(s.columns))
	for i, col := range s.columns {
		names[i] = col.Name
	}
	return names
}

// Index returns the position of the named column.
func (s *Schema) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Column returns the named column definition.
func (s *Schema) Column(name string) (Column, bool) {
	i, ok := s.index[name]
	if !ok {
		return Column{}, false
	}
	return s.columns[i], true
}

// Has reports whether the schema contains the named column.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Table is an ordered sequence of rows sharing one schema. Transforms never
// mutate a table in place: each returns a new table value, so every pipeline
// stage can be tested in isolation and reruns are deterministic.
//
// Dropped column names are carried forward as tombstones; reintroducing one
// is a programming error surfaced as an unknown-column error.
type Table struct {
	schema  *Schema
	rows    [][]string
	dropped map[string]bool
}

// New creates a table from a schema and row data. Every row must have
// exactly schema.Len() cells.
func New(schema *Schema, rows [][]string) (*Table, error) {
	if schema == nil {
		return nil, fmt.Errorf("table requires a schema")
	}
	for i, row := range rows {
		if len(row) != schema.Len() {
			return nil, fmt.Errorf("row %d has %d cells, schema has %d columns", i, len(row), schema.Len())
		}
	}
	return &Table{schema: schema, rows: rows, dropped: map[string]bool{}}, nil
}

// Schema returns the table's schema.
func (t *Table) Schema() *Schema {
	return t.schema
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int {
	return t.schema.Len()
}

// Rows returns the underlying row data. Callers must treat the result as
// read-only; transforms that change cell values build new row slices.
func (t *Table) Rows() [][]string {
	return t.rows
}

// Header returns the ordered column names, suitable for a CSV header row.
func (t *Table) Header() []string {
	return t.schema.Names()
}

// Column returns the values of the named column in row order.
func (t *Table) Column(name string) ([]string, error) {
	idx, ok := t.schema.Index(name)
	if !ok {
		return nil, pipeerrors.NewUnknownColumn("", name)
	}
	values := make([]string, len(t.rows))
	for i, row := range t.rows {
		values[i] = row[idx]
	}
	return values, nil
}

// NullCount returns the number of Null values in the named column.
func (t *Table) NullCount(name string) (int, error) {
	idx, ok := t.schema.Index(name)
	if !ok {
		return 0, pipeerrors.NewUnknownColumn("", name)
	}
	count := 0
	for _, row := range t.rows {
		if row[idx] == Null {
			count++
		}
	}
	return count, nil
}

// NullCounts returns the per-column Null counts for every current column.
func (t *Table) NullCounts() map[string]int {
	counts := make(map[string]int, t.schema.Len())
	for _, name := range t.schema.Names() {
		counts[name] = 0
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if cell == Null {
				counts[t.schema.columns[i].Name]++
			}
		}
	}
	return counts
}

// Dedup returns a table keeping the first occurrence of each distinct
// full-row value combination in original order, plus the number of rows
// removed. Equality covers every column currently present, so the result
// depends on the column set at the call site.
func (t *Table) Dedup() (*Table, int) {
	seen := make(map[string]bool, len(t.rows))
	kept := make([][]string, 0, len(t.rows))

	for _, row := range t.rows {
		key := strings.Join(row, rowKeySep)
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, row)
	}

	return &Table{schema: t.schema, rows: kept, dropped: t.dropped}, len(t.rows) - len(kept)
}

// MapColumn returns a table with the named column rewritten by fn applied
// to each value. Other columns are shared with the receiver.
func (t *Table) MapColumn(name string, fn func(string) string) (*Table, error) {
	idx, ok := t.schema.Index(name)
	if !ok {
		return nil, pipeerrors.NewUnknownColumn("", name)
	}

	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		next := make([]string, len(row))
		copy(next, row)
		next[idx] = fn(row[idx])
		rows[i] = next
	}

	return &Table{schema: t.schema, rows: rows, dropped: t.dropped}, nil
}

// MapColumns returns a table with every column whose definition satisfies
// match rewritten by fn. Used for whole-table passes such as categorical
// normalization.
func (t *Table) MapColumns(match func(Column) bool, fn func(string) string) *Table {
	targets := make([]int, 0, t.schema.Len())
	for i, col := range t.schema.columns {
		if match(col) {
			targets = append(targets, i)
		}
	}
	if len(targets) == 0 {
		return t
	}

	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		next := make([]string, len(row))
		copy(next, row)
		for _, idx := range targets {
			next[idx] = fn(row[idx])
		}
		rows[i] = next
	}

	return &Table{schema: t.schema, rows: rows, dropped: t.dropped}
}

// AppendColumn returns a table with a new column appended. The value count
// must match the row count; the name must not collide with a current column
// or reintroduce a dropped one.
func (t *Table) AppendColumn(col Column, values []string) (*Table, error) {
	if t.schema.Has(col.Name) {
		return nil, fmt.Errorf("column %q already present", col.Name)
	}
	if t.dropped[col.Name] {
		return nil, &pipeerrors.Error{
			Kind:    pipeerrors.KindUnknownColumn,
			Column:  col.Name,
			Message: "column was dropped earlier in the run and cannot be reintroduced",
		}
	}
	if len(values) != len(t.rows) {
		return nil, fmt.Errorf("column %q has %d values for %d rows", col.Name, len(values), len(t.rows))
	}

	schema, err := NewSchema(append(t.schema.Columns(), col))
	if err != nil {
		return nil, err
	}

	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		next := make([]string, len(row)+1)
		copy(next, row)
		next[len(row)] = values[i]
		rows[i] = next
	}

	return &Table{schema: schema, rows: rows, dropped: t.dropped}, nil
}

// SetColumn returns a table with the named column's values replaced.
func (t *Table) SetColumn(name string, values []string) (*Table, error) {
	idx, ok := t.schema.Index(name)
	if !ok {
		return nil, pipeerrors.NewUnknownColumn("", name)
	}
	if len(values) != len(t.rows) {
		return nil, fmt.Errorf("column %q has %d values for %d rows", name, len(values), len(t.rows))
	}

	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		next := make([]string, len(row))
		copy(next, row)
		next[idx] = values[i]
		rows[i] = next
	}

	return &Table{schema: t.schema, rows: rows, dropped: t.dropped}, nil
}

// DropColumns returns a table with the named columns removed and recorded
// as tombstones. Unknown names fail with an unknown-column error.
func (t *Table) DropColumns(names ...string) (*Table, error) {
	remove := make(map[int]bool, len(names))
	for _, name := range names {
		idx, ok := t.schema.Index(name)
		if !ok {
			return nil, pipeerrors.NewUnknownColumn("", name)
		}
		remove[idx] = true
	}

	keptCols := make([]Column, 0, t.schema.Len()-len(remove))
	for i, col := range t.schema.columns {
		if !remove[i] {
			keptCols = append(keptCols, col)
		}
	}
	schema, err := NewSchema(keptCols)
	if err != nil {
		return nil, err
	}

	dropped := make(map[string]bool, len(t.dropped)+len(names))
	for name := range t.dropped {
		dropped[name] = true
	}
	for _, name := range names {
		dropped[name] = true
	}

	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		next := make([]string, 0, len(keptCols))
		for j, cell := range row {
			if !remove[j] {
				next = append(next, cell)
			}
		}
		rows[i] = next
	}

	return &Table{schema: schema, rows: rows, dropped: dropped}, nil
}
