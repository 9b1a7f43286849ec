package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/duck-darkIRK/notepad-advise/pkg/model"
)

const (
	exitFailure     = 1
	exitUnverified  = 15 // A generated path did not pass verification
	exitInfeasible  = 20 // The search could not complete a path under the given policies
	exitInterrupted = 130
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var (
		unverified      unverifiedPathError
		noGrouping      model.NoFeasibleGroupingError
		ceilingExceeded model.RoundCeilingExceededError
		limitExceeded   model.PathLimitExceededError
	)

	switch {
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	case errors.As(err, &unverified):
		return exitUnverified
	case errors.As(err, &noGrouping), errors.As(err, &ceilingExceeded), errors.As(err, &limitExceeded):
		return exitInfeasible
	}
	return exitFailure
}
