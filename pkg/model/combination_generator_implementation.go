package model

import (
	"cmp"
	"math/rand/v2"
	"slices"

	"github.com/samber/lo"
)

type combinationGeneratorImplementation struct{}

func (generator combinationGeneratorImplementation) Shapes(buckets []weightBucket, min, max uint64) []Shape {
	shapes := make(map[string]Shape)
	generator.shapes(buckets, min, max, 0, make([]uint64, len(buckets)), 0, shapes)

	result := lo.Values(shapes)
	slices.SortFunc(result, compareShapes)
	return result
}

// Bounded subset-sum backtracking. used[i] is the number of subjects currently taken from buckets[i]; recursion only moves
// forward over the buckets, so every multiset of weights is reached through a single (canonical) sequence of choices
func (generator combinationGeneratorImplementation) shapes(
	buckets []weightBucket,
	min, max uint64,
	currentBucket int,
	used []uint64,
	sum uint64,
	shapes map[string]Shape) {

	if sum > 0 && sum >= min && sum <= max {
		shape := make(Shape, 0, len(buckets))
		for i, count := range used {
			if count > 0 {
				shape = append(shape, ShapeTerm{Weight: buckets[i].Weight, Count: count})
			}
		}
		shapes[shape.String()] = shape
	}

	for i := currentBucket; i < len(buckets); i++ {
		// Buckets ascend by weight, if this one overflows the range all the following ones do too
		if sum+buckets[i].Weight > max {
			break
		}
		if used[i] == uint64(len(buckets[i].Subjects)) {
			continue
		}

		used[i]++
		generator.shapes(buckets, min, max, i, used, sum+buckets[i].Weight, shapes)
		used[i]--
	}
}

func (generator combinationGeneratorImplementation) Expand(shape Shape, buckets []weightBucket) [][]string {
	products := [][]string{{}}
	for _, term := range shape {
		bucket, ok := findBucket(buckets, term.Weight)
		if !ok {
			return nil
		}

		combinations := make([][]string, 0)
		generator.combinations(bucket.Subjects, term.Count, 0, make([]string, 0, term.Count), &combinations)

		// Cartesian product of the groupings built so far with this term's combinations
		next := make([][]string, 0, len(products)*len(combinations))
		for _, prefix := range products {
			for _, combination := range combinations {
				next = append(next, slices.Concat(prefix, combination))
			}
		}
		products = next
	}
	return products
}

// Every combination of size k of the items, in lexicographic order of their positions
func (generator combinationGeneratorImplementation) combinations(
	items []string,
	k uint64,
	start int,
	combination []string,
	combinations *[][]string) {

	if uint64(len(combination)) == k {
		combinationCopy := make([]string, len(combination))
		copy(combinationCopy, combination)
		*combinations = append(*combinations, combinationCopy)
		return
	}

	// Stop as soon as the remaining items cannot complete the combination
	for i := start; uint64(len(items)-i) >= k-uint64(len(combination)); i++ {
		generator.combinations(items, k, i+1, append(combination, items[i]), combinations)
	}
}

func (generator combinationGeneratorImplementation) Groupings(buckets []weightBucket, min, max uint64, fallback FallbackPolicy) ([][]string, bool) {
	shapes := generator.Shapes(buckets, min, max)

	if len(shapes) == 0 {
		remaining := lo.FlatMap(buckets, func(bucket weightBucket, _ int) []string { return bucket.Subjects })
		if fallback != TakeRemaining || len(remaining) == 0 {
			return nil, false
		}
		return [][]string{remaining}, true
	}

	groupings := make([][]string, 0)
	for _, shape := range shapes {
		groupings = append(groupings, generator.Expand(shape, buckets)...)
	}
	return groupings, false
}

func (generator combinationGeneratorImplementation) Sample(
	buckets []weightBucket,
	min, max uint64,
	fallback FallbackPolicy,
	rng *rand.Rand) ([]string, bool) {

	shapes := generator.Shapes(buckets, min, max)

	if len(shapes) == 0 {
		remaining := lo.FlatMap(buckets, func(bucket weightBucket, _ int) []string { return bucket.Subjects })
		if fallback != TakeRemaining || len(remaining) == 0 {
			return nil, false
		}
		return remaining, true
	}

	//** Pick a shape weighted by its number of groupings
	counts := lo.Map(shapes, func(shape Shape, _ int) float64 { return groupingCount(shape, buckets) })
	target := rng.Float64() * lo.Sum(counts)
	chosen := len(shapes) - 1
	for i, count := range counts {
		if target < count {
			chosen = i
			break
		}
		target -= count
	}

	//** Draw one combination per term
	grouping := make([]string, 0, shapes[chosen].Size())
	for _, term := range shapes[chosen] {
		bucket, _ := findBucket(buckets, term.Weight)
		members := slices.Clone(bucket.Subjects)
		// Partial Fisher-Yates: the first Count members end up uniformly chosen
		for i := 0; uint64(i) < term.Count; i++ {
			j := i + rng.IntN(len(members)-i)
			members[i], members[j] = members[j], members[i]
		}
		grouping = append(grouping, members[:term.Count]...)
	}
	return grouping, false
}

// Number of groupings a shape expands into: the product over its terms of C(len(bucket), Count)
func groupingCount(shape Shape, buckets []weightBucket) float64 {
	count := 1.0
	for _, term := range shape {
		bucket, _ := findBucket(buckets, term.Weight)
		count *= binomial(uint64(len(bucket.Subjects)), term.Count)
	}
	return count
}

func binomial(n, k uint64) float64 {
	if k > n {
		return 0
	}
	k = min(k, n-k)
	result := 1.0
	for i := uint64(1); i <= k; i++ {
		result = result * float64(n-k+i) / float64(i)
	}
	return result
}

// Orders shapes by weight, then by their terms
func compareShapes(shape1, shape2 Shape) int {
	if comparison := cmp.Compare(shape1.Weight(), shape2.Weight()); comparison != 0 {
		return comparison
	}
	return slices.CompareFunc(shape1, shape2, func(term1, term2 ShapeTerm) int {
		if comparison := cmp.Compare(term1.Weight, term2.Weight); comparison != 0 {
			return comparison
		}
		return cmp.Compare(term1.Count, term2.Count)
	})
}
