package main

import (
	"fmt"
	"io"
	"os"

	"github.com/duck-darkIRK/notepad-advise/pkg/model"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type unverifiedPathError struct {
	Path int
}

func (err unverifiedPathError) Error() string {
	return fmt.Sprintf("path %v failed verification", err.Path)
}

type generateOpts struct {
	input  string
	format string
	out    string
	search searchFlags
}

func newGenerateCmd(globals *globalOpts) *cobra.Command {
	opts := generateOpts{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the phases in which the remaining subjects can be taken",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			cfg, err := loadConfig(cmd, globals, &opts.search)
			if err != nil {
				return err
			}
			pathfinder, engineLogger, err := newPathfinder(cfg, globals.verbose)
			if err != nil {
				return err
			}
			defer engineLogger.Sync()

			logger := loggerFromContext(cmd.Context())

			//** Extract input
			input, err := model.InputFromFile(opts.input)
			if err != nil {
				return err
			}
			catalog, err := model.NewCatalog(model.FilterEntries(input.Subjects, cfg.IncludeOptional, input.Completed))
			if err != nil {
				return err
			}
			logger.Debug("Catalog loaded", "subjects", len(catalog.Order), "completed", len(input.Completed))

			//** Build paths
			request := model.Request{Completed: input.Completed, MinWeight: cfg.MinWeight, MaxWeight: cfg.MaxWeight}
			prog := newProgress(logger)
			paths, err := pathfinder.Build(cmd.Context(), catalog, request)
			if err != nil {
				return errors.Wrap(err, "cannot generate paths")
			}
			prog.done("Generated paths", "paths", len(paths), "policy", cfg.Policy)

			//** Verify paths correctness
			for i, path := range paths {
				if !pathfinder.Verify(path, catalog, request) {
					return unverifiedPathError{Path: i}
				}
			}

			return writeOutput(cmd, opts.out, func(w io.Writer) error {
				return renderPaths(w, opts.format, catalog, paths)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "catalog file (.json, .yaml or .toml) with the completed subjects")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatText, `output format: "text", "json" or "yaml"`)
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file, standard output if empty")
	addSearchFlags(cmd, &opts.search)
	cmd.MarkFlagRequired("input")

	return cmd
}

// writeOutput writes to the file at path, or to the command's output if path is empty
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(cmd.OutOrStdout())
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "cannot create output file")
	}
	defer file.Close()

	if err := write(file); err != nil {
		return err
	}
	loggerFromContext(cmd.Context()).Info("Output written", "file", path)
	return nil
}
