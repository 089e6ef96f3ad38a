package analysis

import (
	"cmp"
	"slices"

	"github.com/tphakala/parkbio/internal/observation"
)

// StatusCount is one bucket of a status distribution
type StatusCount struct {
	Status observation.Status
	Count  int
}

// Distribution counts rows per conservation status, largest bucket first.
// The absent status is a bucket of its own.
type Distribution []StatusCount

// Count returns the bucket size for status, 0 when absent
func (d Distribution) Count(status observation.Status) int {
	for _, sc := range d {
		if sc.Status == status {
			return sc.Count
		}
	}
	return 0
}

// Total sums all buckets
func (d Distribution) Total() int {
	total := 0
	for _, sc := range d {
		total += sc.Count
	}
	return total
}

// StatusDistribution counts statuses. Ties are ordered by label so the
// output is deterministic.
func StatusDistribution[T any](rows []T, status func(T) observation.Status) Distribution {
	counts := make(map[observation.Status]int)
	for _, r := range rows {
		counts[status(r)]++
	}

	out := make(Distribution, 0, len(counts))
	for s, n := range counts {
		out = append(out, StatusCount{Status: s, Count: n})
	}
	slices.SortFunc(out, func(a, b StatusCount) int {
		return cmp.Or(
			cmp.Compare(b.Count, a.Count),
			cmp.Compare(a.Status.Label(), b.Status.Label()),
		)
	})
	return out
}

func speciesStatus(s observation.Species) observation.Status { return s.Status }

func cleanStatus(s observation.SpeciesStatus) observation.Status { return s.Status }

// EndangeredSummary is the result of the endangered filter
type EndangeredSummary struct {
	Status     observation.Status
	RawCount   int                         // rows in the species table
	Species    []observation.SpeciesStatus // cleaned rows, in table order
	ByCategory map[observation.Category]int
}

// Names returns the scientific names of the endangered species
func (e *EndangeredSummary) Names() []string {
	names := make([]string, len(e.Species))
	for i, s := range e.Species {
		names[i] = s.ScientificName
	}
	return names
}

// Endangered selects cleaned rows whose status equals status and counts the
// matching rows of the raw table.
func Endangered(raw []observation.Species, clean []observation.SpeciesStatus, status observation.Status) EndangeredSummary {
	summary := EndangeredSummary{Status: status, ByCategory: make(map[observation.Category]int)}

	for _, s := range raw {
		if s.Status == status {
			summary.RawCount++
		}
	}
	for _, s := range clean {
		if s.Status == status {
			summary.Species = append(summary.Species, s)
			summary.ByCategory[s.Category]++
		}
	}
	return summary
}

// CategoryStats summarizes one category of the cleaned species table
type CategoryStats struct {
	Category   observation.Category
	Species    int
	Endangered int
}

// EndangeredShare is the fraction of species in the category that are
// endangered.
func (c CategoryStats) EndangeredShare() float64 {
	if c.Species == 0 {
		return 0
	}
	return float64(c.Endangered) / float64(c.Species)
}

// SummarizeCategories counts species and endangered species per category.
// Recognized categories come first in their canonical order, followed by
// unrecognized values sorted by name.
func SummarizeCategories(clean []observation.SpeciesStatus, status observation.Status) []CategoryStats {
	byCategory := make(map[observation.Category]*CategoryStats)
	for _, s := range clean {
		cs, ok := byCategory[s.Category]
		if !ok {
			cs = &CategoryStats{Category: s.Category}
			byCategory[s.Category] = cs
		}
		cs.Species++
		if s.Status == status {
			cs.Endangered++
		}
	}

	out := make([]CategoryStats, 0, len(byCategory))
	for _, cs := range byCategory {
		out = append(out, *cs)
	}
	slices.SortFunc(out, func(a, b CategoryStats) int {
		ac, bc := a.Category.Code(), b.Category.Code()
		if ac < 0 && bc >= 0 {
			return 1
		}
		if bc < 0 && ac >= 0 {
			return -1
		}
		return cmp.Or(cmp.Compare(ac, bc), cmp.Compare(a.Category, b.Category))
	})
	return out
}

// MeanCategoryCode averages Category.Code over the species table and maps
// the truncated mean back to a category. ok is false for an empty table or
// when the mean falls outside the recognized categories.
func MeanCategoryCode(species []observation.Species) (mean float64, category observation.Category, ok bool) {
	if len(species) == 0 {
		return 0, "", false
	}

	sum := 0
	for _, s := range species {
		sum += s.Category.Code()
	}
	mean = float64(sum) / float64(len(species))

	i := int(mean)
	if i < 0 || i >= len(observation.Categories) {
		return mean, "", false
	}
	return mean, observation.Categories[i], true
}
