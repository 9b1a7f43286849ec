package main

import (
	"github.com/duck-darkIRK/notepad-advise/pkg/model"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Validate a catalog file without generating paths",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			input, err := model.InputFromFile(args[0])
			if err != nil {
				return err
			}
			catalog, err := model.NewCatalog(input.Subjects)
			if err != nil {
				return err
			}

			for _, id := range catalog.Order {
				if dangling, ok := catalog.Dangling[id]; ok {
					logger.Warn("Prerequisite references unknown subjects", "subject", id, "references", dangling)
				}
			}
			for _, id := range input.Completed {
				if _, ok := catalog.Subjects[id]; !ok {
					return model.UnknownSubjectError{Id: id}
				}
			}

			optional := lo.CountBy(catalog.Order, func(id string) bool { return catalog.Subjects[id].Type == model.OptionalSubject })
			logger.Info("Catalog is valid",
				"subjects", len(catalog.Order),
				"optional", optional,
				"credits", catalog.Weight(catalog.Order),
				"completed", len(input.Completed),
			)
			return nil
		},
	}
}
