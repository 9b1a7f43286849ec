package model

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/samber/lo"
)

// ShapeTerm asks for Count subjects of the given Weight
type ShapeTerm struct {
	Weight uint64
	Count  uint64
}

// Shape is the weight composition of a grouping before concrete subjects are chosen. Terms ascend by weight
type Shape []ShapeTerm

// Returns the total weight of the shape
func (shape Shape) Weight() uint64 {
	return lo.SumBy(shape, func(term ShapeTerm) uint64 { return term.Weight * term.Count })
}

// Returns the number of subjects the shape asks for
func (shape Shape) Size() uint64 {
	return lo.SumBy(shape, func(term ShapeTerm) uint64 { return term.Count })
}

func (shape Shape) String() string {
	return strings.Join(lo.Map(shape, func(term ShapeTerm, _ int) string {
		return fmt.Sprintf("%vx%v", term.Count, term.Weight)
	}), "+")
}

type combinationGenerator interface {
	// Enumerates every distinct shape whose weight lies in [min, max] and that uses at most len(bucket.Subjects) subjects of each bucket.
	// The empty shape is never produced
	//
	// Example:
	//
	//	buckets := []weightBucket{{Weight: 3, Subjects: []string{"A1", "B1"}}, {Weight: 4, Subjects: []string{"C1"}}}
	//	shapes := generator.Shapes(buckets, 3, 7) // [1x3] [1x4] [2x3] [1x3+1x4]
	Shapes(buckets []weightBucket, min, max uint64) []Shape

	// Expands a shape into every concrete set of subject ids: all combinations of Count subjects within each term's bucket
	// and the Cartesian product across terms
	Expand(shape Shape, buckets []weightBucket) [][]string

	// Enumerates and expands all shapes. When no shape fits and the fallback policy allows it, the only grouping is every
	// subject of the buckets and fellBack is true
	Groupings(buckets []weightBucket, min, max uint64, fallback FallbackPolicy) (groupings [][]string, fellBack bool)

	// Draws one grouping uniformly among those Groupings would return without expanding them: a shape is picked with
	// probability proportional to its number of groupings, then one combination is drawn per term. The grouping is
	// empty when Groupings would return none
	Sample(buckets []weightBucket, min, max uint64, fallback FallbackPolicy, rng *rand.Rand) (grouping []string, fellBack bool)
}

func newCombinationGenerator() combinationGenerator {
	return &combinationGeneratorImplementation{}
}
