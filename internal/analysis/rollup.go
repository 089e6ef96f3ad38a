package analysis

import (
	"cmp"
	"slices"

	"github.com/tphakala/parkbio/internal/observation"
)

// RollupObservations sums counts per (species, location). The result is
// unique per key and sorted by species then location.
func RollupObservations(obs []observation.Observation) []observation.Observation {
	sums := make(map[observation.Key]int, len(obs))
	for _, o := range obs {
		sums[o.Key()] += o.Count
	}

	out := make([]observation.Observation, 0, len(sums))
	for k, total := range sums {
		out = append(out, observation.Observation{SpeciesName: k.SpeciesName, LocationName: k.LocationName, Count: total})
	}

	slices.SortFunc(out, func(a, b observation.Observation) int {
		return cmp.Or(
			cmp.Compare(a.SpeciesName, b.SpeciesName),
			cmp.Compare(a.LocationName, b.LocationName),
		)
	})
	return out
}

// RollupSpecies drops the common name and keeps the first row per
// (category, scientific name). Later rows for the same key are discarded
// even when their status differs. Input order is preserved.
func RollupSpecies(species []observation.Species) []observation.SpeciesStatus {
	seen := make(map[observation.SpeciesKey]struct{}, len(species))
	out := make([]observation.SpeciesStatus, 0, len(species))
	for _, s := range species {
		p := s.Project()
		if _, ok := seen[p.Key()]; ok {
			continue
		}
		seen[p.Key()] = struct{}{}
		out = append(out, p)
	}
	return out
}
