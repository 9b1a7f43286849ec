package prereq

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Condition is a parsed prerequisite. It is immutable and safe for concurrent use
type Condition interface {
	// Checks whether the condition holds for the given visited set and accumulated credits
	Evaluate(visited map[string]bool, credits uint64) bool

	// Returns the subject ids referenced by the condition (sorted, without duplicates)
	References() []string

	String() string
}

type always struct{}

func (always) Evaluate(map[string]bool, uint64) bool { return true }
func (always) References() []string                 { return nil }
func (always) String() string                        { return "" }

type subjectReference struct {
	id string
}

func (condition subjectReference) Evaluate(visited map[string]bool, _ uint64) bool {
	return visited[condition.id]
}

func (condition subjectReference) References() []string { return []string{condition.id} }
func (condition subjectReference) String() string       { return condition.id }

// creditThreshold always keeps the credits on the left hand side, i.e. "@ <operator> literal"
type creditThreshold struct {
	operator string
	literal  uint64
}

func (condition creditThreshold) Evaluate(_ map[string]bool, credits uint64) bool {
	switch condition.operator {
	case ">=":
		return credits >= condition.literal
	case "<=":
		return credits <= condition.literal
	case ">":
		return credits > condition.literal
	case "<":
		return credits < condition.literal
	case "==":
		return credits == condition.literal
	case "!=":
		return credits != condition.literal
	}
	panic(fmt.Sprintf("unknown operator %q", condition.operator))
}

func (condition creditThreshold) References() []string { return nil }

func (condition creditThreshold) String() string {
	return fmt.Sprintf("%v%v%v", CreditsSymbol, condition.operator, condition.literal)
}

type allOf []Condition

func (conditions allOf) Evaluate(visited map[string]bool, credits uint64) bool {
	for _, condition := range conditions {
		if !condition.Evaluate(visited, credits) {
			return false
		}
	}
	return true
}

func (conditions allOf) References() []string { return collectReferences(conditions) }

func (conditions allOf) String() string { return join(conditions, " & ") }

type anyOf []Condition

func (conditions anyOf) Evaluate(visited map[string]bool, credits uint64) bool {
	for _, condition := range conditions {
		if condition.Evaluate(visited, credits) {
			return true
		}
	}
	return false
}

func (conditions anyOf) References() []string { return collectReferences(conditions) }

func (conditions anyOf) String() string { return join(conditions, " | ") }

func collectReferences(conditions []Condition) []string {
	references := lo.Uniq(lo.FlatMap(conditions, func(condition Condition, _ int) []string {
		return condition.References()
	}))
	slices.Sort(references)
	return references
}

func join(conditions []Condition, separator string) string {
	return strings.Join(lo.Map(conditions, func(condition Condition, _ int) string {
		// Parenthesize nested disjunctions so the rendered text parses back into the same tree
		if _, ok := condition.(anyOf); ok {
			return "(" + condition.String() + ")"
		}
		return condition.String()
	}), separator)
}
