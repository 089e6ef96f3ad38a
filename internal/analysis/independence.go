package analysis

import (
	"github.com/tphakala/parkbio/internal/errors"
	"github.com/tphakala/parkbio/internal/observation"
	"github.com/tphakala/parkbio/internal/stats"
)

// Independence is the species by conservation status test
type Independence struct {
	Table        *stats.ContingencyTable
	Result       *stats.ChiSquareResult // nil when Insufficient
	Insufficient bool
	Alpha        float64
}

// Significant reports whether species and status are dependent at Alpha
func (i *Independence) Significant() bool {
	return i.Result != nil && i.Result.Significant(i.Alpha)
}

// TestIndependence cross-tabulates scientific name against status over the
// cleaned table, skipping rows without a status, and runs the chi-square
// test. Insufficient data is not an error; it is reported on the result.
func TestIndependence(clean []observation.SpeciesStatus, alpha float64) (Independence, error) {
	var names, statuses []string
	for _, s := range clean {
		if s.Status == observation.StatusNone {
			continue
		}
		names = append(names, s.ScientificName)
		statuses = append(statuses, string(s.Status))
	}

	ind := Independence{Table: stats.Crosstab(names, statuses), Alpha: alpha}

	res, err := stats.ChiSquare(ind.Table)
	switch {
	case errors.Is(err, stats.ErrInsufficientData):
		ind.Insufficient = true
		return ind, nil
	case err != nil:
		return ind, err
	}

	ind.Result = res
	return ind, nil
}
