package main

import (
	"io"
	"os"

	"github.com/duck-darkIRK/notepad-advise/pkg/model"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type student struct {
	Name      string
	Completed []string
}

type batchOpts struct {
	catalog     string
	students    string
	format      string
	out         string
	concurrency int
	search      searchFlags
}

func newBatchCmd(globals *globalOpts) *cobra.Command {
	opts := batchOpts{}

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Generate paths for several students over the same catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			cfg, err := loadConfig(cmd, globals, &opts.search)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("concurrency") {
				cfg.Concurrency = opts.concurrency
			}
			pathfinder, engineLogger, err := newPathfinder(cfg, globals.verbose)
			if err != nil {
				return err
			}
			defer engineLogger.Sync()

			logger := loggerFromContext(cmd.Context())

			//** Extract input
			input, err := model.InputFromFile(opts.catalog)
			if err != nil {
				return err
			}
			students, err := studentsFromFile(opts.students)
			if err != nil {
				return err
			}

			// Optional subjects completed by any student stay in the shared catalog
			completed := lo.Uniq(lo.FlatMap(students, func(student student, _ int) []string { return student.Completed }))
			catalog, err := model.NewCatalog(model.FilterEntries(input.Subjects, cfg.IncludeOptional, completed))
			if err != nil {
				return err
			}

			requests := lo.Map(students, func(student student, _ int) model.BatchRequest {
				return model.BatchRequest{
					Name: student.Name,
					Request: model.Request{
						Completed: student.Completed,
						MinWeight: cfg.MinWeight,
						MaxWeight: cfg.MaxWeight,
					},
				}
			})

			//** Build paths
			prog := newProgress(logger)
			results, err := model.GenerateBatch(cmd.Context(), pathfinder, catalog, requests, cfg.Concurrency)
			if err != nil {
				return err
			}

			failed := 0
			for j, result := range results {
				if result.Err != nil {
					failed++
					logger.Warn("Generation failed", "student", result.Name, "err", result.Err)
					continue
				}
				for i, path := range result.Paths {
					if !pathfinder.Verify(path, catalog, requests[j].Request) {
						return unverifiedPathError{Path: i}
					}
				}
			}
			prog.done("Generated batch", "students", len(results), "failed", failed)

			return writeOutput(cmd, opts.out, func(w io.Writer) error {
				return renderBatch(w, opts.format, catalog, results)
			})
		},
	}

	cmd.Flags().StringVar(&opts.catalog, "catalog", "", "catalog file (.json, .yaml or .toml), its completed subjects are ignored")
	cmd.Flags().StringVar(&opts.students, "students", "", "students file (.json or .yaml): a list of {name, completed}")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatText, `output format: "text", "json" or "yaml"`)
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file, standard output if empty")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "searches running at the same time, overrides the config")
	addSearchFlags(cmd, &opts.search)
	cmd.MarkFlagRequired("catalog")
	cmd.MarkFlagRequired("students")

	return cmd
}

// studentsFromFile reads a JSON or YAML list of students
func studentsFromFile(file string) ([]student, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read students file")
	}

	var studentsList []map[string]any
	if err := yaml.Unmarshal(bytes, &studentsList); err != nil {
		return nil, errors.Wrapf(err, "cannot parse %v", file)
	}

	var students []student
	if err := mapstructure.Decode(studentsList, &students); err != nil {
		return nil, errors.Wrap(err, "cannot decode students")
	}
	return students, nil
}
