package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"censuscli/internal/codebook"
	"censuscli/internal/config"
	"censuscli/internal/dataset"
	pipeerrors "censuscli/internal/errors"
	"censuscli/internal/exporter"
)

// testCodebook is a four-column codebook exercising every stage: a default,
// a collapse, a lossy derive, a bin, and a drop.
func testCodebook() *codebook.Codebook {
	return &codebook.Codebook{
		Version:  "test/1",
		Sentinel: "?",
		Columns: []codebook.ColumnSpec{
			{Name: "age", Kind: dataset.KindNumeric},
			{Name: "workclass", Kind: dataset.KindCategorical},
			{Name: "education", Kind: dataset.KindCategorical},
			{Name: "income", Kind: dataset.KindCategorical},
		},
		Defaults: map[string]string{"workclass": "unknown"},
		Collapses: []codebook.CollapseSpec{
			{Column: "workclass", Map: map[string]string{
				"state-gov":   "government",
				"federal-gov": "government",
			}},
		},
		Derives: []codebook.DeriveSpec{
			{Source: "education", Target: "education_level", Map: map[string]string{
				"bachelors": "tertiary",
				"hs-grad":   "secondary",
			}},
		},
		Bins: []codebook.BinSpec{
			{Source: "age", Target: "age_group", Boundaries: []float64{0, 18, 100}, Labels: []string{"<18", "18+"}},
		},
		Drop: []string{"education"},
	}
}

func testRunner(t *testing.T, cb *codebook.Codebook) (*Runner, *config.Paths) {
	t.Helper()

	paths := config.PathsIn(t.TempDir())
	require.NoError(t, paths.EnsureDirectories())

	runner, err := NewRunner(cb, exporter.NewCSVWriter(paths))
	require.NoError(t, err)
	return runner, paths
}

func writeSnapshot(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestRunnerEndToEnd(t *testing.T) {
	runner, paths := testRunner(t, testCodebook())

	// Row 6 duplicates row 1 exactly (removed by the raw pass). Row 2 is a
	// case variant of row 1 and rows 4/5 differ only in a workclass that
	// collapses to the same bucket: both survive the raw pass and are
	// removed by the recoded pass. Row 3 carries the sentinel.
	input := paths.GetRawPath("adult.data")
	writeSnapshot(t, input, `39, State-Gov ,Bachelors,<=50K
39,state-gov,bachelors,<=50k
50,?,HS-grad,>50K
17,Federal-Gov,Bachelors,<=50K
17,State-Gov,Bachelors,<=50K
39,State-Gov,Bachelors,<=50K
22,Private,Masters,<=50K
`)

	opts := RunOptions{
		InputPath:  input,
		OutputPath: paths.GetCleanedCSVPath(),
		ReportPath: paths.GetReportJSONPath(),
	}

	report, err := runner.Run(context.Background(), opts)
	require.NoError(t, err)

	content, err := os.ReadFile(opts.OutputPath)
	require.NoError(t, err)
	want := "age,workclass,income,education_level,age_group\n" +
		"39,government,<=50k,tertiary,18+\n" +
		"50,unknown,>50k,secondary,18+\n" +
		"17,government,<=50k,tertiary,<18\n" +
		"22,private,<=50k,,18+\n"
	assert.Equal(t, want, string(content))

	// Stage sequence, including the runner's own ingest and serialize
	// entries.
	ids := make([]string, len(report.Stages))
	for i, stage := range report.Stages {
		ids[i] = stage.ID
	}
	assert.Equal(t, []string{
		StageIngest,
		StageResolve,
		StageDedupRaw,
		StageNormalize,
		StageRecode,
		StageBin,
		StagePrune,
		StageDedupRecoded,
		StageSerialize,
	}, ids)

	byID := map[string]StageResult{}
	for _, stage := range report.Stages {
		byID[stage.ID] = stage
	}
	assert.Equal(t, 7, byID[StageIngest].RowsOut)
	assert.Equal(t, 1, byID[StageDedupRaw].RowsRemoved)
	assert.Equal(t, 2, byID[StageDedupRecoded].RowsRemoved)
	assert.Equal(t, 5, byID[StageRecode].ColumnsOut)
	assert.Equal(t, 6, byID[StageBin].ColumnsOut)
	assert.Equal(t, 5, byID[StagePrune].ColumnsOut)

	// The masters row derives to null; the sentinel row was resolved.
	assert.Empty(t, report.Violations)
	assert.Equal(t, 1, report.NullCounts["education_level"])
	assert.Equal(t, 0, report.NullCounts["workclass"])

	// Report artifact round-trips.
	raw, err := os.ReadFile(opts.ReportPath)
	require.NoError(t, err)
	var saved Report
	require.NoError(t, json.Unmarshal(raw, &saved))
	assert.Equal(t, report.RunID, saved.RunID)
	assert.Equal(t, testCodebook().Version, saved.CodebookVersion)
	assert.Len(t, saved.Stages, 9)
}

func TestRunnerDeterministicOutput(t *testing.T) {
	runner, paths := testRunner(t, testCodebook())

	input := paths.GetRawPath("adult.data")
	writeSnapshot(t, input, `39,State-Gov,Bachelors,<=50K
50,?,HS-grad,>50K
17,Private,Masters,<=50K
`)

	first := paths.GetProcessedPath("first.csv")
	second := paths.GetProcessedPath("second.csv")

	_, err := runner.Run(context.Background(), RunOptions{InputPath: input, OutputPath: first})
	require.NoError(t, err)
	_, err = runner.Run(context.Background(), RunOptions{InputPath: input, OutputPath: second})
	require.NoError(t, err)

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRunnerViolationsDoNotFailTheRun(t *testing.T) {
	runner, paths := testRunner(t, testCodebook())

	// The education sentinel resolves to nothing: no default is configured
	// for it, so the null survives resolution.
	input := paths.GetRawPath("adult.data")
	writeSnapshot(t, input, "39,Private,?,<=50K\n")

	opts := RunOptions{
		InputPath:  input,
		OutputPath: paths.GetCleanedCSVPath(),
	}

	report, err := runner.Run(context.Background(), opts)
	require.NoError(t, err)

	require.Len(t, report.Violations, 1)
	v := report.Violations[0]
	assert.Equal(t, StageResolve, v.Stage)
	assert.Equal(t, "education", v.Column)
	assert.Equal(t, 1, v.Count)

	// The artifact is still written.
	content, err := os.ReadFile(opts.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, "age,workclass,income,education_level,age_group\n39,private,<=50k,,18+\n", string(content))
}

func TestRunnerFatalErrorWritesNoArtifacts(t *testing.T) {
	runner, paths := testRunner(t, testCodebook())

	// Second row is three cells wide against a four-column schema.
	input := paths.GetRawPath("broken.data")
	writeSnapshot(t, input, "39,State-Gov,Bachelors,<=50K\n50,Private,>50K\n")

	opts := RunOptions{
		InputPath:  input,
		OutputPath: paths.GetCleanedCSVPath(),
		ReportPath: paths.GetReportJSONPath(),
	}

	_, err := runner.Run(context.Background(), opts)
	require.Error(t, err)
	assert.True(t, pipeerrors.IsSchemaMismatch(err))

	_, statErr := os.Stat(opts.OutputPath)
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(opts.ReportPath)
	assert.True(t, os.IsNotExist(statErr))

	// No stray temp files either.
	entries, err := os.ReadDir(filepath.Dir(opts.OutputPath))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunnerHonorsCancellation(t *testing.T) {
	runner, paths := testRunner(t, testCodebook())

	input := paths.GetRawPath("adult.data")
	writeSnapshot(t, input, "39,State-Gov,Bachelors,<=50K\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx, RunOptions{
		InputPath:  input,
		OutputPath: paths.GetCleanedCSVPath(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRunnerRejectsInvalidCodebook(t *testing.T) {
	cb := testCodebook()
	cb.Sentinel = "??"

	paths := config.PathsIn(t.TempDir())
	_, err := NewRunner(cb, exporter.NewCSVWriter(paths))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sentinel")
}

func TestRunnerDefaultCodebookEndToEnd(t *testing.T) {
	runner, paths := testRunner(t, codebook.Default())

	// Two classic census rows, the second carrying three sentinel cells.
	input := paths.GetRawPath("adult.data")
	writeSnapshot(t, input, `39, State-gov, 77516, Bachelors, 13, Never-married, Adm-clerical, Not-in-family, White, Male, 2174, 0, 40, United-States, <=50K
50, ?, 83311, HS-grad, 9, Married-civ-spouse, ?, Husband, White, Male, 0, 0, 13, ?, >50K
`)

	opts := RunOptions{
		InputPath:  input,
		OutputPath: paths.GetCleanedCSVPath(),
	}

	report, err := runner.Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Empty(t, report.Violations)

	content, err := os.ReadFile(opts.OutputPath)
	require.NoError(t, err)

	want := "age,workclass,fnlwgt,education_num,marital_status,relationship,race,sex," +
		"capital_gain,capital_loss,hours_per_week,income," +
		"education_level,occupation_grouped,native_region,age_group\n" +
		"39,government,77516,13,never married,not-in-family,white,male,2174,0,40,<=50k,tertiary,white-collar,north-america,36-45\n" +
		"50,unknown,83311,9,married,spouse,white,male,0,0,13,>50k,secondary,,,46-60\n"
	assert.Equal(t, want, string(content))

	// The resolver defaults deliberately have no derive entries, so the
	// resolved cells group to null rather than inventing a vocabulary.
	assert.Equal(t, 1, report.NullCounts["occupation_grouped"])
	assert.Equal(t, 1, report.NullCounts["native_region"])
}
