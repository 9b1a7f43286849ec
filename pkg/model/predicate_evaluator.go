package model

type predicateEvaluator interface {
	// Checks whether the subject's prerequisite holds for the visited subjects and their accumulated weight
	Unlocked(subject string, visited map[string]bool, credits uint64) bool
}

func newPredicateEvaluator(catalog Catalog) predicateEvaluator {
	return &predicateEvaluatorStandard{catalog: catalog}
}
