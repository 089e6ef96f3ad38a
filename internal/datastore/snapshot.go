package datastore

import (
	"github.com/tphakala/parkbio/internal/analysis"
)

// snapshot holds the rows written for one run
type snapshot struct {
	run       AnalysisRun
	rollup    []ObservationRollup
	species   []CleanSpecies
	statuses  []StatusCount
	prevalent []PrevalentSpecies
}

func newSnapshot(res *analysis.Result) *snapshot {
	s := &snapshot{
		run: AnalysisRun{
			RunID:                 res.RunID,
			StartedAt:             res.StartedAt,
			FinishedAt:            res.FinishedAt,
			ObservationsRaw:       len(res.RawObservations),
			ObservationsDedup:     len(res.Observations),
			ObservationsRollup:    len(res.ObservationRollup),
			ObservationDuplicates: res.ObservationDuplicates,
			SpeciesRaw:            len(res.RawSpecies),
			SpeciesClean:          len(res.CleanSpecies),
			SpeciesDuplicates:     res.SpeciesDuplicates,
			DataQualityIssues:     len(res.Issues),
			EndangeredStatus:      string(res.Endangered.Status),
			EndangeredRaw:         res.Endangered.RawCount,
			EndangeredClean:       len(res.Endangered.Species),
			Alpha:                 res.Independence.Alpha,
			PrevalenceThreshold:   res.Prevalence.Threshold,
			PrevalentSpecies:      len(res.Prevalence.Species),
			MeanCategoryCode:      res.MeanCategoryCode,
		},
	}

	if r := res.Independence.Result; r != nil {
		stat, dof, p := r.Statistic, r.DOF, r.PValue
		s.run.ChiSquareStatistic = &stat
		s.run.ChiSquareDOF = &dof
		s.run.PValue = &p
	}

	s.rollup = make([]ObservationRollup, 0, len(res.ObservationRollup))
	for _, o := range res.ObservationRollup {
		s.rollup = append(s.rollup, ObservationRollup{
			RunID:          res.RunID,
			ScientificName: o.SpeciesName,
			LocationName:   o.LocationName,
			Count:          o.Count,
		})
	}

	s.species = make([]CleanSpecies, 0, len(res.CleanSpecies))
	for _, c := range res.CleanSpecies {
		s.species = append(s.species, CleanSpecies{
			RunID:              res.RunID,
			Category:           string(c.Category),
			ScientificName:     c.ScientificName,
			ConservationStatus: string(c.Status),
		})
	}

	for source, dist := range map[string]analysis.Distribution{SourceRaw: res.RawDistribution, SourceClean: res.CleanDistribution} {
		for _, b := range dist {
			s.statuses = append(s.statuses, StatusCount{
				RunID:  res.RunID,
				Source: source,
				Status: b.Status.Label(),
				Count:  b.Count,
			})
		}
	}

	for _, p := range res.Prevalence.Species {
		s.prevalent = append(s.prevalent, PrevalentSpecies{
			RunID:          res.RunID,
			ScientificName: p.ScientificName,
			Locations:      p.Locations,
			Observations:   p.Total(),
		})
	}

	return s
}
