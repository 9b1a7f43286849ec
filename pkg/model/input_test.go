package model

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/duck-darkIRK/notepad-advise/pkg/prereq"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDirectory = "testdata/"

func TestInputFromFile(t *testing.T) {
	expected, err := InputFromFile(testDirectory + "catalog.json")
	require.Nil(t, err)
	require.Len(t, expected.Subjects, 5)
	assert.Equal(t, []string{"A1"}, expected.Completed)
	assert.Equal(t, CatalogEntry{Id: "D1", Name: "Seminar", Weight: 5, Required: "@>=6", Type: RequiredSubject}, expected.Subjects[3])
	assert.Equal(t, OptionalSubject, expected.Subjects[4].Type)

	for _, file := range []string{"catalog.yaml", "catalog.toml"} {
		t.Run(file, func(t *testing.T) {
			input, err := InputFromFile(testDirectory + file)

			assert.Nil(t, err)
			assert.Equal(t, expected, input)
		})
	}
}

func TestInputFromFileInvalid(t *testing.T) {
	directory := t.TempDir()

	unsupported := filepath.Join(directory, "catalog.xml")
	require.Nil(t, os.WriteFile(unsupported, []byte("<subjects/>"), 0666))
	_, err := InputFromFile(unsupported)
	assert.ErrorContains(t, err, "unsupported input format \".xml\"")

	malformed := filepath.Join(directory, "catalog.json")
	require.Nil(t, os.WriteFile(malformed, []byte("{\"subjects\": ["), 0666))
	_, err = InputFromFile(malformed)
	assert.NotNil(t, err)

	_, err = InputFromFile(filepath.Join(directory, "missing.json"))
	assert.NotNil(t, err)
}

func TestNewCatalog(t *testing.T) {
	//** Arrange
	input, err := InputFromFile(testDirectory + "catalog.json")
	require.Nil(t, err)

	//** Act
	catalog, err := NewCatalog(input.Subjects)

	//** Assert
	require.Nil(t, err)
	assert.Equal(t, []string{"A1", "B1", "C1", "D1", "E1"}, catalog.Order)
	assert.Len(t, catalog.Subjects, 5)
	assert.Len(t, catalog.Conditions, 5)
	assert.Empty(t, catalog.Dangling)
	assert.Equal(t, "C1 | D1", catalog.Conditions["E1"].String())
	assert.Equal(t, uint64(7), catalog.Weight([]string{"A1", "C1"}))
	assert.Equal(t, uint64(3), catalog.Weight([]string{"A1", "Z9"}))

	selected := catalog.Select(map[string]bool{"E1": true, "B1": true})
	assert.Equal(t, []string{"B1", "E1"}, lo.Map(selected, func(subject Subject, _ int) string { return subject.Id }))
}

func TestNewCatalogDefaultsType(t *testing.T) {
	catalog, err := NewCatalog([]CatalogEntry{{Id: " A1 ", Weight: 1}})

	require.Nil(t, err)
	assert.Equal(t, RequiredSubject, catalog.Subjects["A1"].Type)
}

func TestNewCatalogDataErrors(t *testing.T) {
	//** Empty
	_, err := NewCatalog(nil)
	assert.ErrorIs(t, err, ErrEmptyCatalog)

	//** Missing id
	_, err = NewCatalog([]CatalogEntry{{Id: "A1", Weight: 1}, {Weight: 1}})
	var missingIdErr MissingIdError
	assert.True(t, errors.As(err, &missingIdErr))
	assert.Equal(t, 1, missingIdErr.Position)

	//** Ids prerequisites cannot reference
	for _, id := range []string{"cs101", "A", "101", "A1B", "A 1"} {
		_, err = NewCatalog([]CatalogEntry{{Id: id, Weight: 1}})
		var idErr InvalidIdError
		assert.True(t, errors.As(err, &idErr), id)
	}

	//** Duplicate
	_, err = NewCatalog([]CatalogEntry{{Id: "A1", Weight: 1}, {Id: "A1", Weight: 2}})
	var duplicateErr DuplicateSubjectError
	assert.True(t, errors.As(err, &duplicateErr))
	assert.Equal(t, "A1", duplicateErr.Id)

	//** Missing weight
	_, err = NewCatalog([]CatalogEntry{{Id: "A1"}})
	var weightErr InvalidWeightError
	assert.True(t, errors.As(err, &weightErr))

	//** Unknown type
	_, err = NewCatalog([]CatalogEntry{{Id: "A1", Weight: 1, Type: "elective"}})
	var typeErr InvalidTypeError
	assert.True(t, errors.As(err, &typeErr))
	assert.Equal(t, SubjectType("elective"), typeErr.Type)
}

func TestNewCatalogInvalidPrerequisite(t *testing.T) {
	//** Arrange
	input, err := InputFromFile(testDirectory + "invalid_prerequisite.json")
	require.Nil(t, err)

	//** Act
	_, err = NewCatalog(input.Subjects)

	//** Assert
	var prerequisiteErr prereq.InvalidPrerequisiteError
	require.True(t, errors.As(err, &prerequisiteErr))
	assert.Equal(t, "A1 $ B1", prerequisiteErr.Expression)
	assert.ErrorContains(t, err, "E1")
}

func TestNewCatalogDangling(t *testing.T) {
	catalog, err := NewCatalog([]CatalogEntry{
		{Id: "B1", Weight: 3, Required: "A1 & C1"},
		{Id: "C1", Weight: 3},
		{Id: "D1", Weight: 3, Required: "X1 | Y1"},
	})

	require.Nil(t, err)
	assert.Equal(t, map[string][]string{
		"B1": {"A1"},
		"D1": {"X1", "Y1"},
	}, catalog.Dangling)
}

func TestFilterEntries(t *testing.T) {
	entries := []CatalogEntry{
		{Id: "A1", Weight: 3, Type: RequiredSubject},
		{Id: "B1", Weight: 3, Type: OptionalSubject},
		{Id: "C1", Weight: 3, Type: OptionalSubject},
		{Id: "D1", Weight: 3},
	}

	assert.Equal(t, entries, FilterEntries(entries, true, nil))

	filtered := FilterEntries(entries, false, []string{"C1"})
	assert.Equal(t, []string{"A1", "C1", "D1"}, lo.Map(filtered, func(entry CatalogEntry, _ int) string { return entry.Id }))
}
