package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/duck-darkIRK/notepad-advise/pkg/model"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

const (
	testDirectory = "../../pkg/model/testdata/"
	outputFile    = "benchmark_results.csv"
	timeout       = 30 * time.Second
)

type ResultType int

const (
	generated ResultType = iota
	infeasible
	exceeded
	invalid
	timedOut
)

var resultTypes = map[ResultType]string{
	generated:  "generated",
	infeasible: "infeasible",
	exceeded:   "exceeded",
	invalid:    "invalid",
	timedOut:   "timeout",
}

type TestMetadata struct {
	Name      string
	Input     model.RawInput
	Subjects  int
	Optional  int
	Completed int
	Credits   uint64
}

type RangeMetadata struct {
	Min, Max uint64
}

type BenchmarkResult struct {
	Policy   model.SelectionPolicy
	Range    RangeMetadata
	Test     TestMetadata
	Duration int64 // Microseconds
	Paths    int
	Phases   int // Phases of the longest path
	Result   ResultType
}

func main() {
	tests := getTests(testDirectory)
	policies := getPolicies()
	ranges := getRanges()
	results := make([]BenchmarkResult, 0, len(tests)*len(policies)*len(ranges))

	for _, test := range tests {
		for _, policy := range policies {
			for _, weightRange := range ranges {
				log.Info("Benchmarking", "test", test.Name, "policy", policy, "min", weightRange.Min, "max", weightRange.Max)
				results = append(results, measure(test, policy, weightRange))
			}
		}
	}

	if err := toCsv(outputFile, results); err != nil {
		log.Fatal("Cannot write results", "err", err)
	}
}

func getTests(directory string) []TestMetadata {
	testFiles, err := os.ReadDir(directory)
	if err != nil {
		log.Fatal("Cannot read directory", "err", err)
	}

	tests := make([]TestMetadata, 0, len(testFiles))
	for _, file := range testFiles {
		if file.IsDir() {
			continue
		}

		filename := filepath.Join(directory, file.Name())
		input, err := model.InputFromFile(filename)
		if err != nil {
			log.Warn("Skipping file", "file", filename, "err", err)
			continue
		}

		tests = append(tests, TestMetadata{
			Name:      filename,
			Input:     input,
			Subjects:  len(input.Subjects),
			Optional:  lo.CountBy(input.Subjects, func(entry model.CatalogEntry) bool { return entry.Type == model.OptionalSubject }),
			Completed: len(input.Completed),
			Credits:   lo.SumBy(input.Subjects, func(entry model.CatalogEntry) uint64 { return entry.Weight }),
		})
	}
	return tests
}

func getPolicies() []model.SelectionPolicy {
	return []model.SelectionPolicy{model.Random, model.Exhaustive}
}

func getRanges() []RangeMetadata {
	return []RangeMetadata{
		{Min: 3, Max: 7},
		{Min: 6, Max: 10},
		{Min: 14, Max: 20},
	}
}

func measure(test TestMetadata, policy model.SelectionPolicy, weightRange RangeMetadata) BenchmarkResult {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	paths, err := model.GeneratePath(ctx, test.Input.Subjects, test.Input.Completed, weightRange.Min, weightRange.Max, true, policy)
	duration := time.Since(start)

	return BenchmarkResult{
		Policy:   policy,
		Range:    weightRange,
		Test:     test,
		Duration: duration.Microseconds(),
		Paths:    len(paths),
		Phases:   lo.Max(lo.Map(paths, func(path model.Path, _ int) int { return len(path) })),
		Result:   classify(err),
	}
}

func classify(err error) ResultType {
	var (
		noGrouping      model.NoFeasibleGroupingError
		ceilingExceeded model.RoundCeilingExceededError
		limitExceeded   model.PathLimitExceededError
	)

	switch {
	case err == nil:
		return generated
	case errors.Is(err, context.DeadlineExceeded):
		return timedOut
	case errors.As(err, &noGrouping):
		return infeasible
	case errors.As(err, &ceilingExceeded), errors.As(err, &limitExceeded):
		return exceeded
	}
	return invalid
}

func toCsv(file string, results []BenchmarkResult) error {
	output, err := os.Create(file)
	if err != nil {
		return errors.Wrap(err, "cannot create CSV file")
	}
	defer output.Close()

	writer := csv.NewWriter(output)

	header := []string{"Policy", "Min", "Max", "Test", "Subjects", "Optional", "Completed", "Credits", "Duration(us)", "Paths", "Phases", "Result"}
	if err := writer.Write(header); err != nil {
		return errors.Wrap(err, "cannot write CSV header")
	}

	for _, result := range results {
		record := []string{
			result.Policy.String(),
			fmt.Sprintf("%d", result.Range.Min),
			fmt.Sprintf("%d", result.Range.Max),
			result.Test.Name,
			fmt.Sprintf("%d", result.Test.Subjects),
			fmt.Sprintf("%d", result.Test.Optional),
			fmt.Sprintf("%d", result.Test.Completed),
			fmt.Sprintf("%d", result.Test.Credits),
			fmt.Sprintf("%d", result.Duration),
			fmt.Sprintf("%d", result.Paths),
			fmt.Sprintf("%d", result.Phases),
			resultTypes[result.Result],
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrap(err, "cannot write CSV record")
		}
	}

	writer.Flush()
	return writer.Error()
}
