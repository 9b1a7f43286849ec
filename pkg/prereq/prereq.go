// Package prereq parses and evaluates subject prerequisites.
//
// A prerequisite is a small logical expression over subject ids (uppercase letters followed by
// digits), the credit symbol "@" compared against an integer, "&" (and), "|" (or) and
// parentheses, e.g. "CS101 & (MA101 | MA102) & @>=30". Expressions are parsed once into a
// Condition tree; evaluating a Condition never re-parses text.
package prereq

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMalformedThreshold = errors.New("a threshold must compare \"@\" against an integer")

// InvalidPrerequisiteError reports an expression that cannot be parsed
type InvalidPrerequisiteError struct {
	Expression string
	Err        error
}

func (err InvalidPrerequisiteError) Error() string {
	return fmt.Sprintf("invalid prerequisite %q: %v", err.Expression, err.Err)
}

func (err InvalidPrerequisiteError) Unwrap() error {
	return err.Err
}

// Parse builds the Condition of a prerequisite expression. A blank expression is always satisfied
func Parse(text string) (Condition, error) {
	if strings.TrimSpace(text) == "" {
		return always{}, nil
	}

	parsed, err := prerequisiteParser.ParseString("", text)
	if err != nil {
		return nil, InvalidPrerequisiteError{Expression: text, Err: err}
	}

	condition, err := compileExpression(parsed)
	if err != nil {
		return nil, InvalidPrerequisiteError{Expression: text, Err: err}
	}
	return condition, nil
}

// MustParse is like Parse but panics if the expression is invalid
func MustParse(text string) Condition {
	condition, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return condition
}

// Evaluate parses and evaluates an expression in one step
func Evaluate(text string, visited map[string]bool, credits uint64) (bool, error) {
	condition, err := Parse(text)
	if err != nil {
		return false, err
	}
	return condition.Evaluate(visited, credits), nil
}

func compileExpression(parsed *expression) (Condition, error) {
	disjuncts := make([]Condition, 0, len(parsed.Disjuncts))
	for _, disjunct := range parsed.Disjuncts {
		conjuncts := make([]Condition, 0, len(disjunct.Conjuncts))
		for _, operand := range disjunct.Conjuncts {
			condition, err := compileOperand(operand)
			if err != nil {
				return nil, err
			}
			conjuncts = append(conjuncts, condition)
		}
		disjuncts = append(disjuncts, simplify(allOf(conjuncts)))
	}
	return simplify(anyOf(disjuncts)), nil
}

func compileOperand(parsed *operand) (Condition, error) {
	switch {
	case parsed.Threshold != nil:
		return compileThreshold(parsed.Threshold)
	case parsed.Group != nil:
		return compileExpression(parsed.Group)
	default:
		return subjectReference{id: parsed.Subject}, nil
	}
}

var mirroredOperators = map[string]string{
	">=": "<=",
	"<=": ">=",
	">":  "<",
	"<":  ">",
	"==": "==",
	"!=": "!=",
}

func compileThreshold(parsed *threshold) (Condition, error) {
	switch {
	case parsed.Left.Credits && !parsed.Right.Credits: // "@ >= 30"
		return creditThreshold{operator: parsed.Operator, literal: parsed.Right.Literal}, nil
	case !parsed.Left.Credits && parsed.Right.Credits: // "30 <= @" is rewritten as "@ >= 30"
		return creditThreshold{operator: mirroredOperators[parsed.Operator], literal: parsed.Left.Literal}, nil
	default:
		return nil, ErrMalformedThreshold
	}
}

// Collapses single-element groups so that "(A)" and "A" produce the same tree
func simplify(condition Condition) Condition {
	switch conditions := condition.(type) {
	case allOf:
		if len(conditions) == 1 {
			return conditions[0]
		}
	case anyOf:
		if len(conditions) == 1 {
			return conditions[0]
		}
	}
	return condition
}
