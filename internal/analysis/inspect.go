package analysis

import (
	"github.com/tphakala/parkbio/internal/observation"
)

// SpeciesInspection shows one species before and after cleaning
type SpeciesInspection struct {
	ScientificName  string
	SpeciesRows     []observation.Species       // raw species table rows
	CleanRows       []observation.SpeciesStatus // rows kept by the species rollup
	RawObservations []observation.Observation
	Rollup          []observation.Observation
	Locations       int
	Prevalent       bool
}

// Found reports whether the species appears in either table
func (s *SpeciesInspection) Found() bool {
	return len(s.SpeciesRows) > 0 || len(s.RawObservations) > 0
}

// Inspect collects every row about scientificName from a finished run.
func (r *Result) Inspect(scientificName string) SpeciesInspection {
	si := SpeciesInspection{
		ScientificName:  scientificName,
		RawObservations: observation.BySpecies(r.RawObservations, scientificName),
		Rollup:          observation.BySpecies(r.ObservationRollup, scientificName),
	}

	for _, s := range r.RawSpecies {
		if s.ScientificName == scientificName {
			si.SpeciesRows = append(si.SpeciesRows, s)
		}
	}
	for _, s := range r.CleanSpecies {
		if s.ScientificName == scientificName {
			si.CleanRows = append(si.CleanRows, s)
		}
	}

	si.Locations = r.Prevalence.Frequencies[scientificName]
	for _, p := range r.Prevalence.Species {
		if p.ScientificName == scientificName {
			si.Prevalent = true
			break
		}
	}
	return si
}
