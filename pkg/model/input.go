package model

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/duck-darkIRK/notepad-advise/pkg/prereq"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

type SubjectType string

const (
	RequiredSubject SubjectType = "required"
	OptionalSubject SubjectType = "optional"
)

// CatalogEntry is a subject as supplied by the collaborator
type CatalogEntry struct {
	Id       string
	Name     string
	Weight   uint64
	Required string
	Type     SubjectType
}

// RawInput is the content of an input file: a catalog plus the subjects already completed
type RawInput struct {
	Subjects  []CatalogEntry
	Completed []string
}

type Subject struct {
	Id       string
	Name     string
	Weight   uint64
	Required string
	Type     SubjectType
}

// Catalog is read-only once built and can be shared by concurrent searches. Catalogs must be built with NewCatalog,
// searches reject catalogs whose subjects have no parsed prerequisite
type Catalog struct {
	Subjects   map[string]Subject
	Order      []string // Subject ids in load order, every iteration over the catalog follows it
	Conditions map[string]prereq.Condition
	Dangling   map[string][]string // Referenced ids that are not part of the catalog, per subject
}

func InputFromFile(file string) (RawInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return RawInput{}, errors.Wrap(err, "cannot read input file")
	}

	var inputMap map[string]any
	switch extension := strings.ToLower(filepath.Ext(file)); extension {
	case ".json":
		err = json.Unmarshal(bytes, &inputMap)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(bytes, &inputMap)
	case ".toml":
		err = toml.Unmarshal(bytes, &inputMap)
	default:
		return RawInput{}, errors.Errorf("unsupported input format %q", extension)
	}
	if err != nil {
		return RawInput{}, errors.Wrapf(err, "cannot parse %v", file)
	}

	return DecodeInput(inputMap)
}

// DecodeInput turns an already unmarshalled document into a RawInput
func DecodeInput(inputMap map[string]any) (RawInput, error) {
	var rawInput RawInput
	if err := mapstructure.Decode(inputMap, &rawInput); err != nil {
		return RawInput{}, errors.Wrap(err, "cannot decode input")
	}
	return rawInput, nil
}

// FilterEntries drops optional subjects unless includeOptional is set. Completed optional subjects are kept: they still
// count towards the credits and satisfy the prerequisites that reference them
func FilterEntries(entries []CatalogEntry, includeOptional bool, completed []string) []CatalogEntry {
	if includeOptional {
		return entries
	}
	return lo.Filter(entries, func(entry CatalogEntry, _ int) bool {
		return entry.Type != OptionalSubject || lo.Contains(completed, entry.Id)
	})
}

// NewCatalog validates the entries and parses every prerequisite. All data errors are reported here, never during the search
func NewCatalog(entries []CatalogEntry) (Catalog, error) {
	if len(entries) == 0 {
		return Catalog{}, ErrEmptyCatalog
	}

	catalog := Catalog{
		Subjects:   make(map[string]Subject, len(entries)),
		Order:      make([]string, 0, len(entries)),
		Conditions: make(map[string]prereq.Condition, len(entries)),
		Dangling:   make(map[string][]string),
	}

	for i, entry := range entries {
		entry.Id = strings.TrimSpace(entry.Id)

		//** Validate entry
		if entry.Id == "" {
			return Catalog{}, MissingIdError{Position: i}
		} else if !prereq.IsSubjectId(entry.Id) {
			return Catalog{}, InvalidIdError{Id: entry.Id}
		} else if _, ok := catalog.Subjects[entry.Id]; ok {
			return Catalog{}, DuplicateSubjectError{Id: entry.Id}
		} else if entry.Weight == 0 {
			return Catalog{}, InvalidWeightError{Id: entry.Id}
		}

		subjectType := entry.Type
		if subjectType == "" {
			subjectType = RequiredSubject
		} else if subjectType != RequiredSubject && subjectType != OptionalSubject {
			return Catalog{}, InvalidTypeError{Id: entry.Id, Type: subjectType}
		}

		//** Parse prerequisite
		condition, err := prereq.Parse(entry.Required)
		if err != nil {
			return Catalog{}, errors.Wrapf(err, "subject %v", entry.Id)
		}

		catalog.Subjects[entry.Id] = Subject{
			Id:       entry.Id,
			Name:     entry.Name,
			Weight:   entry.Weight,
			Required: entry.Required,
			Type:     subjectType,
		}
		catalog.Order = append(catalog.Order, entry.Id)
		catalog.Conditions[entry.Id] = condition
	}

	//** Collect references to subjects outside of the catalog (e.g. optional subjects that were filtered out)
	for _, id := range catalog.Order {
		dangling := lo.Filter(catalog.Conditions[id].References(), func(reference string, _ int) bool {
			_, ok := catalog.Subjects[reference]
			return !ok
		})
		if len(dangling) > 0 {
			catalog.Dangling[id] = dangling
		}
	}

	return catalog, nil
}

// Returns the total weight of the given subjects. Ids outside of the catalog weigh nothing
func (catalog Catalog) Weight(ids []string) uint64 {
	return lo.SumBy(ids, func(id string) uint64 {
		return catalog.Subjects[id].Weight
	})
}

// Returns the catalog subjects whose ids are in the set, in load order
func (catalog Catalog) Select(set map[string]bool) []Subject {
	return lo.FilterMap(catalog.Order, func(id string, _ int) (Subject, bool) {
		return catalog.Subjects[id], set[id]
	})
}
