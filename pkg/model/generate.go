package model

import "context"

// GeneratePath is the entry point for request-handling collaborators: it filters the entries, loads the catalog and runs a
// search with the given selection policy. Random selection returns exactly one path
func GeneratePath(
	ctx context.Context,
	entries []CatalogEntry,
	completed []string,
	minWeight, maxWeight uint64,
	includeOptional bool,
	policy SelectionPolicy,
	options ...Option,
) ([]Path, error) {
	if minWeight > maxWeight || maxWeight == 0 {
		return nil, InvalidRangeError{Min: minWeight, Max: maxWeight}
	}

	catalog, err := NewCatalog(FilterEntries(entries, includeOptional, completed))
	if err != nil {
		return nil, err
	}

	pathfinder := NewPathfinder(policy, options...)
	return pathfinder.Build(ctx, catalog, Request{
		Completed: completed,
		MinWeight: minWeight,
		MaxWeight: maxWeight,
	})
}
