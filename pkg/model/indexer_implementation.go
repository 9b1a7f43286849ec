package model

import (
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
)

type indexerImplementation struct{}

func (indexer *indexerImplementation) GroupByWeight(subjects []Subject) []weightBucket {
	tree := treemap.NewWith(utils.UInt64Comparator)
	for _, subject := range subjects {
		members, ok := tree.Get(subject.Weight)
		if !ok {
			members = []string{}
		}
		tree.Put(subject.Weight, append(members.([]string), subject.Id))
	}

	buckets := make([]weightBucket, 0, tree.Size())
	iterator := tree.Iterator()
	for iterator.Next() {
		buckets = append(buckets, weightBucket{
			Weight:   iterator.Key().(uint64),
			Subjects: iterator.Value().([]string),
		})
	}
	return buckets
}
