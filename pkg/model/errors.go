package model

import (
	"errors"
	"fmt"
)

var ErrEmptyCatalog = errors.New("catalog is empty")

//** Data errors, detected while loading the catalog

type MissingIdError struct {
	Position int
}

func (err MissingIdError) Error() string {
	return fmt.Sprintf("subject at position %v has no id", err.Position)
}

type DuplicateSubjectError struct {
	Id string
}

func (err DuplicateSubjectError) Error() string {
	return fmt.Sprintf("duplicate subject %v", err.Id)
}

// InvalidIdError reports an id that prerequisites cannot reference
type InvalidIdError struct {
	Id string
}

func (err InvalidIdError) Error() string {
	return fmt.Sprintf("subject id %q must be uppercase letters followed by digits", err.Id)
}

type InvalidWeightError struct {
	Id string
}

func (err InvalidWeightError) Error() string {
	return fmt.Sprintf("subject %v must have a positive weight", err.Id)
}

type InvalidTypeError struct {
	Id   string
	Type SubjectType
}

func (err InvalidTypeError) Error() string {
	return fmt.Sprintf("subject %v has unknown type %q (expected %q or %q)", err.Id, err.Type, RequiredSubject, OptionalSubject)
}

//** Caller errors, detected before any search state is built

type InvalidRangeError struct {
	Min, Max uint64
}

func (err InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid weight range [%v, %v]", err.Min, err.Max)
}

// IncompleteCatalogError reports a catalog that was not built by NewCatalog
type IncompleteCatalogError struct {
	Id string
}

func (err IncompleteCatalogError) Error() string {
	return fmt.Sprintf("subject %v has no parsed prerequisite, catalogs must be built with NewCatalog", err.Id)
}

type UnknownSubjectError struct {
	Id string
}

func (err UnknownSubjectError) Error() string {
	return fmt.Sprintf("completed subject %v is not part of the catalog", err.Id)
}

//** Search errors, they abort the whole generation

type NoFeasibleGroupingError struct {
	PhaseIndex uint64
}

func (err NoFeasibleGroupingError) Error() string {
	return fmt.Sprintf("no grouping of the opened subjects fits the weight range at phase %v", err.PhaseIndex)
}

type RoundCeilingExceededError struct {
	Ceiling uint64
}

func (err RoundCeilingExceededError) Error() string {
	return fmt.Sprintf("search exceeded the ceiling of %v rounds", err.Ceiling)
}

type PathLimitExceededError struct {
	Limit uint64
}

func (err PathLimitExceededError) Error() string {
	return fmt.Sprintf("exhaustive search produced more than %v paths", err.Limit)
}
