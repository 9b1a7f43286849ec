package model

import "fmt"

type predicateEvaluatorStandard struct {
	catalog Catalog
}

func (evaluator *predicateEvaluatorStandard) Unlocked(subject string, visited map[string]bool, credits uint64) bool {
	condition, ok := evaluator.catalog.Conditions[subject]
	if !ok {
		panic(fmt.Sprintf("subject %v not found", subject))
	}
	return condition.Evaluate(visited, credits)
}
