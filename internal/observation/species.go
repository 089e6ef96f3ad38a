package observation

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category is the taxonomic group of a species. Values outside Categories are
// kept verbatim so analysts can see anomalies in the source data.
type Category string

const (
	CategoryMammal           Category = "Mammal"
	CategoryBird             Category = "Bird"
	CategoryReptile          Category = "Reptile"
	CategoryAmphibian        Category = "Amphibian"
	CategoryFish             Category = "Fish"
	CategoryVascularPlant    Category = "Vascular Plant"
	CategoryNonvascularPlant Category = "Nonvascular Plant"
)

// unrecognizedCategoryCode is the Code of any category outside Categories
const unrecognizedCategoryCode = -1

// Categories lists the recognized categories. The order defines Category.Code.
var Categories = []Category{
	CategoryMammal,
	CategoryBird,
	CategoryReptile,
	CategoryAmphibian,
	CategoryFish,
	CategoryVascularPlant,
	CategoryNonvascularPlant,
}

// ParseCategory maps a raw category value to a recognized Category. Matching is
// exact first, then on the whitespace-collapsed, title-cased form. When the
// value is not recognized the trimmed raw value is returned with ok false.
func ParseCategory(raw string) (Category, bool) {
	c := Category(raw)
	if c.Known() {
		return c, true
	}

	// cases.Caser is stateful, so one per call
	normalized := Category(cases.Title(language.English).String(strings.Join(strings.Fields(raw), " ")))
	if normalized.Known() {
		return normalized, true
	}

	return Category(strings.TrimSpace(raw)), false
}

// Known reports whether c is one of the recognized categories
func (c Category) Known() bool {
	return slices.Contains(Categories, c)
}

// Code is the position of c in Categories, or -1 when unrecognized.
func (c Category) Code() int {
	if i := slices.Index(Categories, c); i >= 0 {
		return i
	}
	return unrecognizedCategoryCode
}

// Status is a conservation status. The empty Status means the species has no
// special status.
type Status string

const (
	StatusNone             Status = ""
	StatusEndangered       Status = "Endangered"
	StatusThreatened       Status = "Threatened"
	StatusSpeciesOfConcern Status = "Species of Concern"
	StatusInRecovery       Status = "In Recovery"

	// NoStatusLabel is how the absent status is shown in tables and charts
	NoStatusLabel = "No Status"
)

// Label returns a display label, substituting NoStatusLabel for StatusNone
func (s Status) Label() string {
	if s == StatusNone {
		return NoStatusLabel
	}
	return string(s)
}

// Species is one row of the species table.
type Species struct {
	Category       Category
	ScientificName string
	CommonName     string
	Status         Status
}

// SpeciesStatus is the cleaned projection of Species without the common name.
type SpeciesStatus struct {
	Category       Category
	ScientificName string
	Status         Status
}

// SpeciesKey identifies a species rollup group
type SpeciesKey struct {
	Category       Category
	ScientificName string
}

// Project drops the common name
func (s Species) Project() SpeciesStatus {
	return SpeciesStatus{Category: s.Category, ScientificName: s.ScientificName, Status: s.Status}
}

// Key returns the (category, scientific name) grouping key
func (s SpeciesStatus) Key() SpeciesKey {
	return SpeciesKey{Category: s.Category, ScientificName: s.ScientificName}
}
