package model

// weightIndexer partitions subjects by credit weight, the shared structure of the combination generator
type weightIndexer interface {
	// Returns the subjects grouped by weight. Buckets ascend by weight and every bucket keeps the subjects' input order
	GroupByWeight(subjects []Subject) []weightBucket
}

type weightBucket struct {
	Weight   uint64
	Subjects []string
}

func newWeightIndexer() weightIndexer {
	return &indexerImplementation{}
}

// Returns the bucket holding the given weight
func findBucket(buckets []weightBucket, weight uint64) (weightBucket, bool) {
	for _, bucket := range buckets {
		if bucket.Weight == weight {
			return bucket, true
		}
	}
	return weightBucket{}, false
}
