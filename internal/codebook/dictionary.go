package codebook

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// FinalColumns returns the header of the cleaned table: input columns in
// their original order, derive and bin targets appended in declaration
// order, minus the drop list.
func (cb *Codebook) FinalColumns() []string {
	present := make([]string, 0, len(cb.Columns)+len(cb.Derives)+len(cb.Bins))
	seen := make(map[string]bool, len(cb.Columns))
	for _, col := range cb.Columns {
		present = append(present, col.Name)
		seen[col.Name] = true
	}
	for _, d := range cb.Derives {
		if !seen[d.Target] {
			present = append(present, d.Target)
			seen[d.Target] = true
		}
	}
	for _, b := range cb.Bins {
		if !seen[b.Target] {
			present = append(present, b.Target)
			seen[b.Target] = true
		}
	}

	dropped := make(map[string]bool, len(cb.Drop))
	for _, name := range cb.Drop {
		dropped[name] = true
	}

	final := make([]string, 0, len(present))
	for _, name := range present {
		if !dropped[name] {
			final = append(final, name)
		}
	}
	return final
}

// Dictionary renders the codebook as a data-dictionary markdown document.
// Map-backed sections are emitted in sorted key order, so the output is
// deterministic for a given codebook value.
func (cb *Codebook) Dictionary() string {
	var b strings.Builder

	b.WriteString("# Census Data Dictionary\n\n")
	fmt.Fprintf(&b, "Codebook version: `%s`\n\n", cb.Version)
	fmt.Fprintf(&b, "Missing values arrive as the sentinel `%s`, are held as empty cells, and serialize back to empty CSV fields.\n", cb.Sentinel)

	dropped := make(map[string]bool, len(cb.Drop))
	for _, name := range cb.Drop {
		dropped[name] = true
	}

	b.WriteString("\n## Input schema\n\n")
	b.WriteString("Raw snapshots are header-less tables with these columns, in order:\n\n")
	b.WriteString("| # | Column | Kind | Missing-value default | Dropped after recoding |\n")
	b.WriteString("|---|--------|------|-----------------------|------------------------|\n")
	for i, col := range cb.Columns {
		def := cb.Defaults[col.Name]
		if def == "" {
			def = "(none)"
		} else {
			def = "`" + def + "`"
		}
		droppedMark := "no"
		if dropped[col.Name] {
			droppedMark = "yes"
		}
		fmt.Fprintf(&b, "| %d | `%s` | %s | %s | %s |\n", i+1, col.Name, col.Kind, def, droppedMark)
	}

	if len(cb.Collapses) > 0 {
		b.WriteString("\n## In-place collapses\n\n")
		b.WriteString("Values outside a collapse table pass through unchanged.\n")
		for _, spec := range cb.Collapses {
			fmt.Fprintf(&b, "\n### `%s`\n\n", spec.Column)
			b.WriteString("| Source value | Becomes |\n")
			b.WriteString("|--------------|---------|\n")
			for _, key := range sortedKeys(spec.Map) {
				fmt.Fprintf(&b, "| `%s` | `%s` |\n", key, spec.Map[key])
			}
		}
	}

	if len(cb.Derives) > 0 {
		b.WriteString("\n## Derived columns\n\n")
		b.WriteString("Source values outside a derivation table yield a null in the new column; the source column itself is never modified.\n")
		for _, spec := range cb.Derives {
			fmt.Fprintf(&b, "\n### `%s` (from `%s`)\n\n", spec.Target, spec.Source)
			b.WriteString("| Source value | Derived value |\n")
			b.WriteString("|--------------|---------------|\n")
			for _, key := range sortedKeys(spec.Map) {
				fmt.Fprintf(&b, "| `%s` | `%s` |\n", key, spec.Map[key])
			}
		}
	}

	if len(cb.Bins) > 0 {
		b.WriteString("\n## Numeric bins\n\n")
		b.WriteString("The first interval is closed on both ends, later intervals exclude their lower bound. Values outside the boundaries, and values that fail to parse, yield a null.\n")
		for _, spec := range cb.Bins {
			fmt.Fprintf(&b, "\n### `%s` (from `%s`)\n\n", spec.Target, spec.Source)
			b.WriteString("| Band | Interval |\n")
			b.WriteString("|------|----------|\n")
			for i, label := range spec.Labels {
				fmt.Fprintf(&b, "| `%s` | %s |\n", label, binInterval(spec.Boundaries, i))
			}
		}
	}

	b.WriteString("\n## Final columns\n\n")
	b.WriteString("The cleaned table carries a header row with these columns, in order:\n\n")
	for i, name := range cb.FinalColumns() {
		fmt.Fprintf(&b, "%d. `%s`\n", i+1, name)
	}

	b.WriteString("\n## Known source-data defects\n\n")
	b.WriteString("Two defects in the source material are resolved by this codebook; the choices are deliberate:\n\n")
	b.WriteString("- The source disagreed on where `married-spouse-absent` belongs. This codebook keeps it under `divorced or separated`, so `married` means strictly spouse-present.\n")
	b.WriteString("- One source recode table spelled the workclass key `loc-gov`. Under the collapse pass-through policy the typo never matched and `local-gov` survived raw; the codebook spells it `local-gov` and collapses it into `government`.\n")

	return b.String()
}

func binInterval(boundaries []float64, i int) string {
	lo := strconv.FormatFloat(boundaries[i], 'f', -1, 64)
	hi := strconv.FormatFloat(boundaries[i+1], 'f', -1, 64)
	if i == 0 {
		return fmt.Sprintf("[%s, %s]", lo, hi)
	}
	return fmt.Sprintf("(%s, %s]", lo, hi)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
