package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"censuscli/internal/codebook"
	"censuscli/internal/dataset"
	"censuscli/internal/infrastructure"
)

// Stage identifiers in pipeline order. The order is load-bearing: the second
// dedup pass exists because collapsing and binning can make previously
// distinct rows identical, so reordering changes the final row count.
const (
	StageIngest       = "ingest"
	StageResolve      = "resolve_missing"
	StageDedupRaw     = "dedup_raw"
	StageNormalize    = "normalize_categoricals"
	StageRecode       = "recode"
	StageBin          = "bin"
	StagePrune        = "prune"
	StageDedupRecoded = "dedup_recoded"
	StageSerialize    = "serialize"
)

// Resolve fills nulls in each configured column with that column's literal
// default, applying columns in sorted order so reruns are deterministic.
// Columns outside the configuration keep their nulls; judging those is the
// resolve stage's scan, not the primitive's concern.
func Resolve(t *dataset.Table, defaults map[string]string) (*dataset.Table, error) {
	columns := make([]string, 0, len(defaults))
	for column := range defaults {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	out := t
	for _, column := range columns {
		literal := defaults[column]
		next, err := out.MapColumn(column, func(value string) string {
			if value == dataset.Null {
				return literal
			}
			return value
		})
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", column, err)
		}
		out = next
	}
	return out, nil
}

// Normalize trims and lowercases every categorical column in one pass.
// Nulls are unaffected: the empty string is already trimmed lowercase.
func Normalize(t *dataset.Table) *dataset.Table {
	return t.MapColumns(func(col dataset.Column) bool {
		return col.Kind == dataset.KindCategorical
	}, func(value string) string {
		return strings.ToLower(strings.TrimSpace(value))
	})
}

// resolveStage applies configured defaults, then scans the whole table for
// residual nulls and reports a violation per affected column.
type resolveStage struct {
	defaults map[string]string
}

// NewResolveStage returns the missing-value resolver stage.
func NewResolveStage(defaults map[string]string) Stage {
	return &resolveStage{defaults: defaults}
}

func (s *resolveStage) ID() string   { return StageResolve }
func (s *resolveStage) Name() string { return "missing-value resolver" }

func (s *resolveStage) Apply(ctx context.Context, state *State) error {
	out, err := Resolve(state.Table, s.defaults)
	if err != nil {
		return err
	}

	// Post-resolution scan. A configured column must be fully resolved and
	// no other column is expected to carry nulls at all; a positive count
	// in either case means the fixed configuration no longer matches the
	// data, so it is reported and logged rather than silently fixed.
	counts := out.NullCounts()
	for _, name := range out.Schema().Names() {
		count := counts[name]
		if count == 0 {
			continue
		}
		detail := "column without a configured default contains nulls"
		if _, configured := s.defaults[name]; configured {
			detail = "column still contains nulls after its default was applied"
		}
		state.Report.AddViolation(StageResolve, name, count, detail)
		infrastructure.WarnContext(ctx, "data_assumption_violation",
			"stage", StageResolve,
			"column", name,
			"count", count,
			"detail", detail,
		)
	}

	state.Table = out
	return nil
}

// dedupStage removes exact duplicate rows. One implementation backs both
// pipeline passes: equality spans every column present at the call site, so
// the raw and recoded passes are different operations even though the code
// is shared.
type dedupStage struct {
	id   string
	name string
}

// NewDedupStage returns a dedup stage under the given report identifier.
func NewDedupStage(id, name string) Stage {
	return &dedupStage{id: id, name: name}
}

func (s *dedupStage) ID() string   { return s.id }
func (s *dedupStage) Name() string { return s.name }

func (s *dedupStage) Apply(ctx context.Context, state *State) error {
	out, removed := state.Table.Dedup()
	if removed > 0 {
		infrastructure.DebugContext(ctx, "duplicate_rows_removed",
			"stage", s.id,
			"rows_removed", removed,
		)
	}
	state.Table = out
	return nil
}

// normalizeStage trims and lowercases all categorical columns.
type normalizeStage struct{}

// NewNormalizeStage returns the categorical normalizer stage.
func NewNormalizeStage() Stage {
	return &normalizeStage{}
}

func (s *normalizeStage) ID() string   { return StageNormalize }
func (s *normalizeStage) Name() string { return "categorical normalizer" }

func (s *normalizeStage) Apply(ctx context.Context, state *State) error {
	state.Table = Normalize(state.Table)
	return nil
}

// recodeStage applies the codebook's collapses in place, then computes the
// derived columns, in declaration order.
type recodeStage struct {
	collapses []codebook.CollapseSpec
	derives   []codebook.DeriveSpec
}

// NewRecodeStage returns the recoding engine stage.
func NewRecodeStage(collapses []codebook.CollapseSpec, derives []codebook.DeriveSpec) Stage {
	return &recodeStage{collapses: collapses, derives: derives}
}

func (s *recodeStage) ID() string   { return StageRecode }
func (s *recodeStage) Name() string { return "recoding engine" }

func (s *recodeStage) Apply(ctx context.Context, state *State) error {
	out := state.Table
	var err error
	for _, spec := range s.collapses {
		out, err = Collapse(out, spec.Column, spec.Map)
		if err != nil {
			return err
		}
	}
	for _, spec := range s.derives {
		out, err = Derive(out, spec.Source, spec.Target, spec.Map)
		if err != nil {
			return err
		}
	}
	state.Table = out
	return nil
}

// binStage buckets numeric columns into labeled interval columns.
type binStage struct {
	bins []codebook.BinSpec
}

// NewBinStage returns the numeric binner stage.
func NewBinStage(bins []codebook.BinSpec) Stage {
	return &binStage{bins: bins}
}

func (s *binStage) ID() string   { return StageBin }
func (s *binStage) Name() string { return "numeric binner" }

func (s *binStage) Apply(ctx context.Context, state *State) error {
	out := state.Table
	for _, spec := range s.bins {
		next, nonNumeric, err := Bin(out, spec.Source, spec.Target, spec.Boundaries, spec.Labels)
		if err != nil {
			return err
		}
		if nonNumeric > 0 {
			detail := "non-numeric values binned to null"
			state.Report.AddViolation(StageBin, spec.Source, nonNumeric, detail)
			infrastructure.WarnContext(ctx, "data_assumption_violation",
				"stage", StageBin,
				"column", spec.Source,
				"count", nonNumeric,
				"detail", detail,
			)
		}
		out = next
	}
	state.Table = out
	return nil
}

// pruneStage drops the codebook's redundant source columns.
type pruneStage struct {
	columns []string
}

// NewPruneStage returns the column pruner stage.
func NewPruneStage(columns []string) Stage {
	return &pruneStage{columns: columns}
}

func (s *pruneStage) ID() string   { return StagePrune }
func (s *pruneStage) Name() string { return "column pruner" }

func (s *pruneStage) Apply(ctx context.Context, state *State) error {
	if len(s.columns) == 0 {
		return nil
	}
	out, err := Drop(state.Table, s.columns)
	if err != nil {
		return err
	}
	state.Table = out
	return nil
}

// StagesFromCodebook builds the fixed stage sequence for one codebook. The
// prune stage runs after every derive has consumed its source column, and
// the second dedup runs after prune so post-recode equality covers exactly
// the surviving columns.
func StagesFromCodebook(cb *codebook.Codebook) []Stage {
	return []Stage{
		NewResolveStage(cb.Defaults),
		NewDedupStage(StageDedupRaw, "deduplicator (raw)"),
		NewNormalizeStage(),
		NewRecodeStage(cb.Collapses, cb.Derives),
		NewBinStage(cb.Bins),
		NewPruneStage(cb.Drop),
		NewDedupStage(StageDedupRecoded, "deduplicator (recoded)"),
	}
}
