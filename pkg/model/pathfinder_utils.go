package model

import (
	"slices"

	"github.com/samber/lo"
)

func validateRequest(catalog Catalog, request Request) error {
	if len(catalog.Order) == 0 {
		return ErrEmptyCatalog
	}
	for _, id := range catalog.Order {
		if _, ok := catalog.Conditions[id]; !ok {
			return IncompleteCatalogError{Id: id}
		}
	}

	if request.MinWeight > request.MaxWeight || request.MaxWeight == 0 {
		return InvalidRangeError{Min: request.MinWeight, Max: request.MaxWeight}
	}

	for _, id := range request.Completed {
		if _, ok := catalog.Subjects[id]; !ok {
			return UnknownSubjectError{Id: id}
		}
	}
	return nil
}

// Recomputes opened as every unvisited subject whose prerequisite holds now. Credit thresholds such as "@<30" can stop
// holding, so subjects opened in an earlier round are checked again
func unlock(catalog Catalog, evaluator predicateEvaluator, visited, opened map[string]bool, credits uint64) {
	for _, id := range catalog.Order {
		if visited[id] {
			continue
		}
		if evaluator.Unlocked(id, visited, credits) {
			opened[id] = true
		} else {
			delete(opened, id)
		}
	}
}

func catalogPositions(catalog Catalog) map[string]int {
	positions := make(map[string]int, len(catalog.Order))
	for i, id := range catalog.Order {
		positions[id] = i
	}
	return positions
}

// Replays the path from the request and checks that:
// - Phases are numbered from 0 and none is empty
// - Every subject of a phase was opened at that round: never placed before and its prerequisite holds against the
// subjects and credits of the earlier phases
// - The phase's weight lies in the range, or the phase is a fallback: it holds exactly the opened subjects, no grouping of them
// fits the range and the fallback policy allows it
// - After the last phase no subject can be unlocked
func verify(path Path, catalog Catalog, request Request, fallback FallbackPolicy, indexer weightIndexer, generator combinationGenerator) bool {
	if validateRequest(catalog, request) != nil {
		return false
	}

	evaluator := newPredicateEvaluator(catalog)
	visited := lo.SliceToMap(request.Completed, func(id string) (string, bool) { return id, true })
	opened := make(map[string]bool)
	credits := catalog.Weight(lo.Keys(visited))

	for i, phase := range path {
		unlock(catalog, evaluator, visited, opened, credits)

		if phase.Index != uint64(i) || len(phase.Subjects) == 0 || len(opened) == 0 {
			return false
		}

		// Every subject is opened, appears once and is unlocked by the earlier phases
		if len(lo.Uniq(phase.Subjects)) != len(phase.Subjects) || !lo.EveryBy(phase.Subjects, func(id string) bool {
			return opened[id] && evaluator.Unlocked(id, visited, credits)
		}) {
			return false
		}

		weight := catalog.Weight(phase.Subjects)
		if weight != phase.Weight {
			return false
		}

		inRange := weight >= request.MinWeight && weight <= request.MaxWeight
		if !inRange || phase.Fallback {
			openedIds := lo.Keys(opened)
			phaseIds := slices.Clone(phase.Subjects)
			slices.Sort(openedIds)
			slices.Sort(phaseIds)

			if fallback != TakeRemaining ||
				!phase.Fallback ||
				!slices.Equal(openedIds, phaseIds) ||
				len(generator.Shapes(indexer.GroupByWeight(catalog.Select(opened)), request.MinWeight, request.MaxWeight)) > 0 {
				return false
			}
		}

		for _, id := range phase.Subjects {
			delete(opened, id)
			visited[id] = true
		}
		credits += weight
	}

	// Terminal
	unlock(catalog, evaluator, visited, opened, credits)
	return len(opened) == 0
}
