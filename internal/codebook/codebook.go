package codebook

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"censuscli/internal/dataset"
	pipeerrors "censuscli/internal/errors"
)

// DefaultVersion identifies the compiled-in canonical codebook.
const DefaultVersion = "census-adult/1"

// ColumnSpec declares one raw schema column.
type ColumnSpec struct {
	Name string       `yaml:"name" validate:"required"`
	Kind dataset.Kind `yaml:"kind" validate:"required,oneof=numeric categorical"`
}

// CollapseSpec declares an in-place category consolidation for one column.
// Values absent from the map pass through unchanged.
type CollapseSpec struct {
	Column string            `yaml:"column" validate:"required"`
	Map    map[string]string `yaml:"map" validate:"required,min=1"`
}

// DeriveSpec declares a new column computed from an existing one. Source
// values absent from the map yield the null marker in the target column.
type DeriveSpec struct {
	Source string            `yaml:"source" validate:"required"`
	Target string            `yaml:"target" validate:"required"`
	Map    map[string]string `yaml:"map" validate:"required,min=1"`
}

// BinSpec declares an ordered interval bucketing of a numeric column into a
// new labeled column. Boundaries must be strictly increasing and carry
// exactly one more entry than labels.
type BinSpec struct {
	Source     string    `yaml:"source" validate:"required"`
	Target     string    `yaml:"target" validate:"required"`
	Boundaries []float64 `yaml:"boundaries" validate:"required,min=2"`
	Labels     []string  `yaml:"labels" validate:"required,min=1"`
}

// Codebook is the versioned aggregate of everything the pipeline treats as
// data rather than logic: the raw schema, the missing-value sentinel and
// per-column defaults, the recode maps, the bin specs, and the drop list.
// Vocabulary changes are codebook edits, never pipeline code changes.
type Codebook struct {
	Version   string            `yaml:"version" validate:"required"`
	Sentinel  string            `yaml:"sentinel" validate:"required"`
	Columns   []ColumnSpec      `yaml:"columns" validate:"required,min=1,dive"`
	Defaults  map[string]string `yaml:"defaults"`
	Collapses []CollapseSpec    `yaml:"collapse" validate:"dive"`
	Derives   []DeriveSpec      `yaml:"derive" validate:"dive"`
	Bins      []BinSpec         `yaml:"bin" validate:"dive"`
	Drop      []string          `yaml:"drop"`
}

// Schema builds the dataset schema declared by the codebook columns.
func (cb *Codebook) Schema() (*dataset.Schema, error) {
	columns := make([]dataset.Column, len(cb.Columns))
	for i, spec := range cb.Columns {
		columns[i] = dataset.Column{Name: spec.Name, Kind: spec.Kind}
	}
	return dataset.NewSchema(columns)
}

// structValidator validates codebook struct tags. Field names in messages
// use the yaml tag so they match what a codebook author actually wrote.
var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the codebook structurally (struct tags) and semantically:
// the sentinel shape, column references, target collisions, and bin specs.
// A codebook that fails validation must abort the run before ingestion.
func (cb *Codebook) Validate() error {
	if err := structValidator.Struct(cb); err != nil {
		return fmt.Errorf("codebook structure: %w", err)
	}

	if err := cb.validateSentinel(); err != nil {
		return err
	}

	schema, err := cb.Schema()
	if err != nil {
		return fmt.Errorf("codebook schema: %w", err)
	}

	if err := cb.validateDefaults(schema); err != nil {
		return err
	}
	if err := cb.validateCollapses(schema); err != nil {
		return err
	}

	// Derive and bin targets are appended to the table, so they must not
	// collide with the schema or with each other.
	targets := map[string]string{}

	if err := cb.validateDerives(schema, targets); err != nil {
		return err
	}
	if err := cb.validateBins(schema, targets); err != nil {
		return err
	}
	return cb.validateDrop(schema)
}

// validateSentinel enforces the sentinel contract: exactly one
// non-alphanumeric rune.
func (cb *Codebook) validateSentinel() error {
	runes := []rune(cb.Sentinel)
	if len(runes) != 1 {
		return fmt.Errorf("sentinel %q must be a single rune", cb.Sentinel)
	}
	if unicode.IsLetter(runes[0]) || unicode.IsDigit(runes[0]) {
		return fmt.Errorf("sentinel %q must not be alphanumeric", cb.Sentinel)
	}
	return nil
}

func (cb *Codebook) validateDefaults(schema *dataset.Schema) error {
	for column, literal := range cb.Defaults {
		col, ok := schema.Column(column)
		if !ok {
			return fmt.Errorf("defaults: %w", pipeerrors.NewUnknownColumn("", column))
		}
		if col.Kind != dataset.KindCategorical {
			return fmt.Errorf("defaults: column %q is numeric and cannot take a literal default", column)
		}
		if literal == "" {
			return fmt.Errorf("defaults: column %q has an empty default literal", column)
		}
		// Defaults are injected before categorical normalization runs
		// again, so they must already match the lowercase convention.
		if literal != strings.ToLower(strings.TrimSpace(literal)) {
			return fmt.Errorf("defaults: column %q default %q must be trimmed lowercase", column, literal)
		}
	}
	return nil
}

func (cb *Codebook) validateCollapses(schema *dataset.Schema) error {
	seen := map[string]bool{}
	for _, spec := range cb.Collapses {
		col, ok := schema.Column(spec.Column)
		if !ok {
			return fmt.Errorf("collapse: %w", pipeerrors.NewUnknownColumn("", spec.Column))
		}
		if col.Kind != dataset.KindCategorical {
			return fmt.Errorf("collapse: column %q is numeric", spec.Column)
		}
		if seen[spec.Column] {
			return fmt.Errorf("collapse: column %q declared twice", spec.Column)
		}
		seen[spec.Column] = true
	}
	return nil
}

func (cb *Codebook) validateDerives(schema *dataset.Schema, targets map[string]string) error {
	for _, spec := range cb.Derives {
		if !schema.Has(spec.Source) {
			return fmt.Errorf("derive %q: %w", spec.Target, pipeerrors.NewUnknownColumn("", spec.Source))
		}
		if schema.Has(spec.Target) {
			return fmt.Errorf("derive target %q collides with a schema column", spec.Target)
		}
		if owner, taken := targets[spec.Target]; taken {
			return fmt.Errorf("derive target %q already produced by %s", spec.Target, owner)
		}
		targets[spec.Target] = fmt.Sprintf("derive from %q", spec.Source)
	}
	return nil
}

func (cb *Codebook) validateBins(schema *dataset.Schema, targets map[string]string) error {
	for _, spec := range cb.Bins {
		col, ok := schema.Column(spec.Source)
		if !ok {
			return fmt.Errorf("bin %q: %w", spec.Target, pipeerrors.NewUnknownColumn("", spec.Source))
		}
		if col.Kind != dataset.KindNumeric {
			return fmt.Errorf("bin %q: source column %q is not numeric", spec.Target, spec.Source)
		}
		if schema.Has(spec.Target) {
			return fmt.Errorf("bin target %q collides with a schema column", spec.Target)
		}
		if owner, taken := targets[spec.Target]; taken {
			return fmt.Errorf("bin target %q already produced by %s", spec.Target, owner)
		}
		targets[spec.Target] = fmt.Sprintf("bin of %q", spec.Source)

		if err := validateBinShape(spec); err != nil {
			return err
		}
	}
	return nil
}

// validateBinShape checks the boundary/label contract and returns a typed
// invalid-bin-spec error on any violation.
func validateBinShape(spec BinSpec) error {
	if len(spec.Labels) != len(spec.Boundaries)-1 {
		return pipeerrors.NewInvalidBinSpec(spec.Source,
			fmt.Sprintf("%d labels for %d boundaries, need exactly one fewer label than boundaries",
				len(spec.Labels), len(spec.Boundaries)))
	}
	for i := 1; i < len(spec.Boundaries); i++ {
		if spec.Boundaries[i] <= spec.Boundaries[i-1] {
			return pipeerrors.NewInvalidBinSpec(spec.Source,
				fmt.Sprintf("boundaries must be strictly increasing, got %v then %v",
					spec.Boundaries[i-1], spec.Boundaries[i]))
		}
	}
	for i, label := range spec.Labels {
		if strings.TrimSpace(label) == "" {
			return pipeerrors.NewInvalidBinSpec(spec.Source,
				fmt.Sprintf("label %d is empty", i))
		}
	}
	return nil
}

func (cb *Codebook) validateDrop(schema *dataset.Schema) error {
	seen := map[string]bool{}
	for _, column := range cb.Drop {
		if !schema.Has(column) {
			return fmt.Errorf("drop: %w", pipeerrors.NewUnknownColumn("", column))
		}
		if seen[column] {
			return fmt.Errorf("drop: column %q listed twice", column)
		}
		seen[column] = true
	}
	return nil
}
