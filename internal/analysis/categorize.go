package analysis

import (
	"github.com/tphakala/parkbio/internal/errors"
	"github.com/tphakala/parkbio/internal/logger"
	"github.com/tphakala/parkbio/internal/observability/metrics"
	"github.com/tphakala/parkbio/internal/observation"
)

// Data quality issue kinds
const (
	IssueUnknownCategory = "category"
	IssueUnknownStatus   = "status"
)

// DataQualityIssue summarizes one unrecognized value in the species table
type DataQualityIssue struct {
	Kind     string // IssueUnknownCategory or IssueUnknownStatus
	Value    string
	Rows     int // affected rows
	FirstRow int // 1-based data row of the first occurrence
}

// categorizer maps raw categories and checks statuses
type categorizer struct {
	opts Options
	log  logger.Logger
	rec  metrics.Recorder
}

// Categorize maps every species row to a recognized category. Rows with an
// unrecognized category or status are kept and reported under PolicyWarn;
// under PolicyStrict the first one fails with a data quality error.
func Categorize(species []observation.Species, opts Options, log logger.Logger, rec metrics.Recorder) ([]observation.Species, []DataQualityIssue, error) {
	c := &categorizer{opts: opts, log: log, rec: rec}
	return c.run(species)
}

func (c *categorizer) run(species []observation.Species) ([]observation.Species, []DataQualityIssue, error) {
	out := make([]observation.Species, len(species))
	var issues []DataQualityIssue
	index := make(map[DataQualityIssue]int) // keyed by Kind and Value only

	note := func(kind, value string, row int) error {
		if c.opts.CategoryPolicy == PolicyStrict {
			return errors.Newf("unrecognized %s %q in species row %d", kind, value, row).
				Category(errors.CategoryDataQuality).
				Context("kind", kind).
				Context("value", value).
				Context("row", row).
				Build()
		}

		key := DataQualityIssue{Kind: kind, Value: value}
		if i, ok := index[key]; ok {
			issues[i].Rows++
		} else {
			index[key] = len(issues)
			issues = append(issues, DataQualityIssue{Kind: kind, Value: value, Rows: 1, FirstRow: row})
		}

		if kind == IssueUnknownCategory {
			c.rec.RecordDataQualityWarning(metrics.WarningUnknownCategory)
		} else {
			c.rec.RecordDataQualityWarning(metrics.WarningUnknownStatus)
		}
		return nil
	}

	for i, s := range species {
		row := i + 1

		category, ok := observation.ParseCategory(string(s.Category))
		if !ok {
			if err := note(IssueUnknownCategory, string(category), row); err != nil {
				return nil, nil, err
			}
		}
		s.Category = category

		if !c.opts.knownStatus(s.Status) {
			if err := note(IssueUnknownStatus, string(s.Status), row); err != nil {
				return nil, nil, err
			}
		}

		out[i] = s
	}

	for _, issue := range issues {
		c.log.Warn("unrecognized species value kept",
			logger.String("kind", issue.Kind),
			logger.String("value", issue.Value),
			logger.Int("rows", issue.Rows),
			logger.Int("first_row", issue.FirstRow))
	}

	return out, issues, nil
}
