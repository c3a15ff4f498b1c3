package pipeline

import (
	"fmt"
	"strconv"

	"censuscli/internal/dataset"
	pipeerrors "censuscli/internal/errors"
)

// Bin recodes the numeric source column into interval labels in target. The
// first interval is closed on both ends, every later interval is half-open
// (lo, hi], so a value equal to a boundary lands in the interval that ends
// there. Values outside [first, last] boundary become null. Nulls stay null.
//
// A non-null cell that does not parse as a number also becomes null; the
// count of such cells is returned so the caller can record a single
// data-assumption finding instead of failing the run.
func Bin(t *dataset.Table, source, target string, boundaries []float64, labels []string) (*dataset.Table, int, error) {
	if err := checkBinShape(source, boundaries, labels); err != nil {
		return nil, 0, err
	}

	values, err := t.Column(source)
	if err != nil {
		return nil, 0, fmt.Errorf("bin %q from %q: %w", target, source, err)
	}

	nonNumeric := 0
	binned := make([]string, len(values))
	for i, value := range values {
		if value == dataset.Null {
			binned[i] = dataset.Null
			continue
		}
		v, parseErr := strconv.ParseFloat(value, 64)
		if parseErr != nil {
			nonNumeric++
			binned[i] = dataset.Null
			continue
		}
		label, ok := binLabel(v, boundaries, labels)
		if !ok {
			binned[i] = dataset.Null
			continue
		}
		binned[i] = label
	}

	var out *dataset.Table
	if t.Schema().Has(target) {
		out, err = t.SetColumn(target, binned)
	} else {
		out, err = t.AppendColumn(dataset.Column{Name: target, Kind: dataset.KindCategorical}, binned)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("bin %q from %q: %w", target, source, err)
	}
	return out, nonNumeric, nil
}

// checkBinShape re-validates the interval shape immediately before any row
// is touched. The codebook runs the same checks at load time; repeating them
// here keeps the primitive safe when called outside a validated codebook.
func checkBinShape(source string, boundaries []float64, labels []string) error {
	if len(boundaries) < 2 {
		return pipeerrors.NewInvalidBinSpec(source,
			fmt.Sprintf("need at least 2 boundaries, got %d", len(boundaries)))
	}
	if len(labels) != len(boundaries)-1 {
		return pipeerrors.NewInvalidBinSpec(source,
			fmt.Sprintf("%d labels for %d boundaries, need exactly one fewer label than boundaries",
				len(labels), len(boundaries)))
	}
	for i := 1; i < len(boundaries); i++ {
		if boundaries[i] <= boundaries[i-1] {
			return pipeerrors.NewInvalidBinSpec(source,
				fmt.Sprintf("boundaries must be strictly increasing, got %v then %v",
					boundaries[i-1], boundaries[i]))
		}
	}
	return nil
}

// binLabel maps v onto its interval label, or reports false when v falls
// outside the binned range.
func binLabel(v float64, boundaries []float64, labels []string) (string, bool) {
	last := len(boundaries) - 1
	if v < boundaries[0] || v > boundaries[last] {
		return "", false
	}
	for i := 1; i <= last; i++ {
		if v <= boundaries[i] {
			return labels[i-1], true
		}
	}
	return "", false
}
