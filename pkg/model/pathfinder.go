package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SelectionPolicy decides which feasible groupings a round follows
type SelectionPolicy int

const (
	Random     SelectionPolicy = iota // One uniformly random grouping per round, a single path
	Exhaustive                        // Every grouping of every round, all paths
)

func (policy SelectionPolicy) String() string {
	switch policy {
	case Random:
		return "random"
	case Exhaustive:
		return "exhaustive"
	}
	return fmt.Sprintf("SelectionPolicy(%d)", int(policy))
}

func ParseSelectionPolicy(text string) (SelectionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "random":
		return Random, nil
	case "exhaustive":
		return Exhaustive, nil
	}
	return 0, errors.Errorf("%q is not a valid selection policy", text)
}

// FallbackPolicy decides what happens when the opened subjects cannot be grouped within the weight range
type FallbackPolicy int

const (
	TakeRemaining FallbackPolicy = iota // The phase takes every opened subject regardless of the range
	Fail                                // The search fails with NoFeasibleGroupingError
)

func (policy FallbackPolicy) String() string {
	switch policy {
	case TakeRemaining:
		return "take-remaining"
	case Fail:
		return "fail"
	}
	return fmt.Sprintf("FallbackPolicy(%d)", int(policy))
}

func ParseFallbackPolicy(text string) (FallbackPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "take-remaining":
		return TakeRemaining, nil
	case "fail":
		return Fail, nil
	}
	return 0, errors.Errorf("%q is not a valid fallback policy", text)
}

type Phase struct {
	Index    uint64
	Subjects []string // Catalog order
	Weight   uint64
	Fallback bool // The phase took every opened subject because no grouping fitted the range
}

type Path []Phase

type Request struct {
	Completed []string
	MinWeight uint64
	MaxWeight uint64
}

type Pathfinder interface {
	// Builds the paths from the request's completed subjects until no subject can be unlocked. Random selection returns
	// exactly one path; on error no partial result is returned
	Build(ctx context.Context, catalog Catalog, request Request) ([]Path, error)

	// Checks whether the path is a valid and complete outcome of Build for the request
	Verify(path Path, catalog Catalog, request Request) bool
}

const (
	DefaultRoundCeiling = 64
	DefaultMaxPaths     = 1000
)

type settings struct {
	fallback     FallbackPolicy
	roundCeiling uint64
	maxPaths     uint64
	seed         uint64 // 0 draws a new seed on every Build
	logger       *zap.Logger
}

type Option func(*settings)

func WithFallback(fallback FallbackPolicy) Option {
	return func(s *settings) { s.fallback = fallback }
}

// Maximum number of phases of a single path
func WithRoundCeiling(ceiling uint64) Option {
	return func(s *settings) { s.roundCeiling = ceiling }
}

// Maximum number of paths an exhaustive search may produce
func WithMaxPaths(limit uint64) Option {
	return func(s *settings) { s.maxPaths = limit }
}

// Makes random selection reproducible: every Build with the same seed and input follows the same path
func WithSeed(seed uint64) Option {
	return func(s *settings) { s.seed = seed }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// NewPathfinder returns a pathfinder that applies the selection policy on every round. It holds no per-search state
// and is safe for concurrent use
func NewPathfinder(policy SelectionPolicy, options ...Option) Pathfinder {
	s := settings{
		fallback:     TakeRemaining,
		roundCeiling: DefaultRoundCeiling,
		maxPaths:     DefaultMaxPaths,
		logger:       zap.NewNop(),
	}
	for _, option := range options {
		option(&s)
	}

	return &searchPathfinder{
		policy:    policy,
		settings:  s,
		indexer:   newWeightIndexer(),
		generator: newCombinationGenerator(),
	}
}

func NewRandomPathfinder(options ...Option) Pathfinder {
	return NewPathfinder(Random, options...)
}

func NewExhaustivePathfinder(options ...Option) Pathfinder {
	return NewPathfinder(Exhaustive, options...)
}
