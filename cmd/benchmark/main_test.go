package main

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/duck-darkIRK/notepad-advise/pkg/model"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTests(t *testing.T) {
	tests := getTests(testDirectory)

	// Every fixture decodes, catalog errors only surface when generating
	require.Len(t, tests, 4)
	json, ok := lo.Find(tests, func(test TestMetadata) bool { return filepath.Base(test.Name) == "catalog.json" })
	require.True(t, ok)
	assert.Equal(t, 5, json.Subjects)
	assert.Equal(t, 1, json.Optional)
	assert.Equal(t, 1, json.Completed)
	assert.Equal(t, uint64(17), json.Credits)
}

func TestMeasure(t *testing.T) {
	tests := lo.KeyBy(getTests(testDirectory), func(test TestMetadata) string { return filepath.Base(test.Name) })

	result := measure(tests["catalog.yaml"], model.Exhaustive, RangeMetadata{Min: 3, Max: 7})
	assert.Equal(t, generated, result.Result)
	assert.Greater(t, result.Paths, 1)
	assert.Greater(t, result.Phases, 0)

	result = measure(tests["invalid_prerequisite.json"], model.Random, RangeMetadata{Min: 3, Max: 7})
	assert.Equal(t, invalid, result.Result)
	assert.Equal(t, 0, result.Paths)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, generated, classify(nil))
	assert.Equal(t, timedOut, classify(context.DeadlineExceeded))
	assert.Equal(t, infeasible, classify(model.NoFeasibleGroupingError{}))
	assert.Equal(t, exceeded, classify(model.PathLimitExceededError{Limit: 1}))
	assert.Equal(t, invalid, classify(errors.New("boom")))
}

func TestToCsv(t *testing.T) {
	file := filepath.Join(t.TempDir(), "results.csv")
	results := []BenchmarkResult{
		{Policy: model.Random, Range: RangeMetadata{Min: 3, Max: 7}, Test: TestMetadata{Name: "a"}, Paths: 1, Phases: 3},
		{Policy: model.Exhaustive, Range: RangeMetadata{Min: 3, Max: 7}, Test: TestMetadata{Name: "a"}, Result: exceeded},
	}

	require.Nil(t, toCsv(file, results))

	output, err := os.Open(file)
	require.Nil(t, err)
	defer output.Close()
	records, err := csv.NewReader(output).ReadAll()
	require.Nil(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, "Policy", records[0][0])
	assert.Equal(t, []string{"random", "3", "7", "a", "0", "0", "0", "0", "0", "1", "3", "generated"}, records[1])
	assert.Equal(t, "exceeded", records[2][len(records[2])-1])
}

func TestToCsvUnwritable(t *testing.T) {
	err := toCsv(filepath.Join(t.TempDir(), "missing", "results.csv"), nil)

	assert.ErrorContains(t, err, "cannot create CSV file")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
