package model

import (
	"context"
	"maps"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type searchPathfinder struct {
	policy    SelectionPolicy
	settings  settings
	indexer   weightIndexer
	generator combinationGenerator
}

// snapshot is the state of one branch of the search at the start of a round. Branches never share maps or slices
type snapshot struct {
	visited map[string]bool
	opened  map[string]bool
	credits uint64 // Total weight of visited
	phases  Path
}

func (pathfinder *searchPathfinder) Build(ctx context.Context, catalog Catalog, request Request) ([]Path, error) {
	//** Validate request
	if err := validateRequest(catalog, request); err != nil {
		return nil, err
	}

	//** Initialize dependencies
	evaluator := newPredicateEvaluator(catalog)
	positions := catalogPositions(catalog)
	rng := pathfinder.newRand()
	logger := pathfinder.settings.logger.With(
		zap.String("run", uuid.NewString()),
		zap.Stringer("policy", pathfinder.policy),
	)

	for _, id := range catalog.Order {
		if dangling, ok := catalog.Dangling[id]; ok {
			logger.Warn("Prerequisite references subjects outside of the catalog", zap.String("subject", id), zap.Strings("references", dangling))
		}
	}

	//** Start
	start := snapshot{
		visited: lo.SliceToMap(request.Completed, func(id string) (string, bool) { return id, true }),
		opened:  make(map[string]bool),
		phases:  Path{},
	}
	start.credits = catalog.Weight(lo.Keys(start.visited))
	unlock(catalog, evaluator, start.visited, start.opened, start.credits)

	logger.Debug("Search started",
		zap.Int("visited", len(start.visited)),
		zap.Int("opened", len(start.opened)),
		zap.Uint64("credits", start.credits),
	)

	//** Rounds. The stack holds one snapshot per pending branch, random selection never holds more than one
	paths := make([]Path, 0)
	stack := []snapshot{start}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		phaseIndex := uint64(len(current.phases))

		unlock(catalog, evaluator, current.visited, current.opened, current.credits)

		// Terminal: nothing left to unlock
		if len(current.opened) == 0 {
			paths = append(paths, current.phases)
			if uint64(len(paths)) > pathfinder.settings.maxPaths {
				return nil, PathLimitExceededError{Limit: pathfinder.settings.maxPaths}
			}
			continue
		}

		if phaseIndex >= pathfinder.settings.roundCeiling {
			return nil, RoundCeilingExceededError{Ceiling: pathfinder.settings.roundCeiling}
		}

		buckets := pathfinder.indexer.GroupByWeight(catalog.Select(current.opened))
		selected, fellBack := pathfinder.selectGroupings(buckets, request, rng)
		if len(selected) == 0 {
			return nil, NoFeasibleGroupingError{PhaseIndex: phaseIndex}
		}

		logger.Debug("Round",
			zap.Uint64("phase", phaseIndex),
			zap.Int("opened", len(current.opened)),
			zap.Int("branches", len(selected)),
			zap.Bool("fallback", fellBack),
		)

		// Push in reverse so that branches are explored in enumeration order
		for i := len(selected) - 1; i >= 0; i-- {
			stack = append(stack, advance(catalog, current, selected[i], positions, fellBack))
		}
	}

	logger.Info("Search finished", zap.Int("paths", len(paths)))
	return paths, nil
}

func (pathfinder *searchPathfinder) Verify(path Path, catalog Catalog, request Request) bool {
	return verify(path, catalog, request, pathfinder.settings.fallback, pathfinder.indexer, pathfinder.generator)
}

// Exhaustive selection follows every grouping of the round. Random selection samples a single one without enumerating
// the others
func (pathfinder *searchPathfinder) selectGroupings(buckets []weightBucket, request Request, rng *rand.Rand) ([][]string, bool) {
	fallback := pathfinder.settings.fallback

	switch pathfinder.policy {
	case Exhaustive:
		return pathfinder.generator.Groupings(buckets, request.MinWeight, request.MaxWeight, fallback)
	default:
		grouping, fellBack := pathfinder.generator.Sample(buckets, request.MinWeight, request.MaxWeight, fallback, rng)
		if len(grouping) == 0 {
			return nil, false
		}
		return [][]string{grouping}, fellBack
	}
}

func (pathfinder *searchPathfinder) newRand() *rand.Rand {
	seed := pathfinder.settings.seed
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}

// Commits the grouping as the next phase of a copy of the snapshot
func advance(catalog Catalog, current snapshot, grouping []string, positions map[string]int, fellBack bool) snapshot {
	subjects := slices.Clone(grouping)
	slices.SortFunc(subjects, func(id1, id2 string) int { return positions[id1] - positions[id2] })

	phase := Phase{
		Index:    uint64(len(current.phases)),
		Subjects: subjects,
		Weight:   catalog.Weight(subjects),
		Fallback: fellBack,
	}

	next := snapshot{
		visited: maps.Clone(current.visited),
		opened:  maps.Clone(current.opened),
		credits: current.credits + phase.Weight,
		phases:  slices.Concat(current.phases, Path{phase}),
	}
	for _, id := range subjects {
		delete(next.opened, id)
		next.visited[id] = true
	}
	return next
}
