package model

import (
	"context"

	"golang.org/x/sync/errgroup"
)

type BatchRequest struct {
	Name    string
	Request Request
}

type BatchResult struct {
	Name  string
	Paths []Path
	Err   error // Error of this request only, it does not affect the others
}

// GenerateBatch runs one independent search per request over the shared catalog, at most limit at a time (no limit if
// limit <= 0). Results keep the order of the requests; the returned error is only set when the context is done
func GenerateBatch(ctx context.Context, pathfinder Pathfinder, catalog Catalog, requests []BatchRequest, limit int) ([]BatchResult, error) {
	results := make([]BatchResult, len(requests))

	group, groupCtx := errgroup.WithContext(ctx)
	if limit > 0 {
		group.SetLimit(limit)
	}

	for i, request := range requests {
		group.Go(func() error {
			paths, err := pathfinder.Build(groupCtx, catalog, request.Request)
			if ctxErr := groupCtx.Err(); ctxErr != nil {
				return ctxErr
			}
			results[i] = BatchResult{Name: request.Name, Paths: paths, Err: err}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
