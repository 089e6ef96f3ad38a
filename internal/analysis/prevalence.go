package analysis

import (
	"cmp"
	"slices"

	"github.com/tphakala/parkbio/internal/observation"
)

// PrevalentSpecies is one member of the most prevalent set
type PrevalentSpecies struct {
	ScientificName string
	Locations      int
	Breakdown      []observation.Observation // rolled up rows ordered by location
}

// Total sums the breakdown counts
func (p PrevalentSpecies) Total() int {
	return observation.TotalCount(p.Breakdown)
}

// Prevalence describes how widely species were observed
type Prevalence struct {
	Threshold   int            // exact location count of a prevalent species
	Frequencies map[string]int // scientific name to location count
	Species     []PrevalentSpecies
}

// ComputePrevalence counts the locations of every species in the rolled up
// observation table and selects the species whose count equals the
// threshold exactly. locations 0 uses the highest observed count. rollup must
// be the output of RollupObservations.
func ComputePrevalence(rollup []observation.Observation, locations int) Prevalence {
	freq := make(map[string]int)
	maxFreq := 0
	for _, o := range rollup {
		freq[o.SpeciesName]++
		maxFreq = max(maxFreq, freq[o.SpeciesName])
	}

	threshold := locations
	if threshold <= 0 {
		threshold = maxFreq
	}

	p := Prevalence{Threshold: threshold, Frequencies: freq}
	if threshold == 0 {
		return p
	}

	var names []string
	for name, n := range freq {
		if n == threshold {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	for _, name := range names {
		breakdown := observation.BySpecies(rollup, name)
		slices.SortStableFunc(breakdown, func(a, b observation.Observation) int {
			return cmp.Compare(a.LocationName, b.LocationName)
		})
		p.Species = append(p.Species, PrevalentSpecies{
			ScientificName: name,
			Locations:      len(breakdown),
			Breakdown:      breakdown,
		})
	}
	return p
}

// Names returns the prevalent scientific names
func (p *Prevalence) Names() []string {
	names := make([]string, len(p.Species))
	for i, s := range p.Species {
		names[i] = s.ScientificName
	}
	return names
}
