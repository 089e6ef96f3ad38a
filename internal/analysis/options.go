// Package analysis cleans the park tables and computes the biodiversity
// summaries: status distributions, endangered species, the species by
// status independence test and species prevalence across locations.
package analysis

import (
	"slices"

	"github.com/tphakala/parkbio/internal/conf"
	"github.com/tphakala/parkbio/internal/observation"
)

// CategoryPolicy decides what happens to unrecognized categories and statuses
type CategoryPolicy string

const (
	// PolicyWarn logs a warning and keeps the record as read
	PolicyWarn CategoryPolicy = conf.CategoryPolicyWarn
	// PolicyStrict fails the run on the first unrecognized value
	PolicyStrict CategoryPolicy = conf.CategoryPolicyStrict
)

// Options controls the analysis
type Options struct {
	CategoryPolicy      CategoryPolicy
	KnownStatuses       []observation.Status // empty disables the status check
	EndangeredStatus    observation.Status
	Alpha               float64
	PrevalenceLocations int // 0 selects the maximum observed frequency
	PreviewRows         int
}

// DefaultOptions returns the options matching the bundled configuration
func DefaultOptions() Options {
	return Options{
		CategoryPolicy:      PolicyWarn,
		KnownStatuses:       toStatuses(conf.DefaultKnownStatuses),
		EndangeredStatus:    observation.Status(conf.DefaultEndangeredStatus),
		Alpha:               conf.DefaultAlpha,
		PrevalenceLocations: conf.DefaultPrevalenceLocations,
		PreviewRows:         conf.DefaultPreviewRows,
	}
}

// OptionsFromSettings maps validated settings to analysis options
func OptionsFromSettings(settings *conf.Settings) Options {
	a := settings.Analysis
	return Options{
		CategoryPolicy:      CategoryPolicy(a.CategoryPolicy),
		KnownStatuses:       toStatuses(a.KnownStatuses),
		EndangeredStatus:    observation.Status(a.EndangeredStatus),
		Alpha:               a.Alpha,
		PrevalenceLocations: a.Prevalence.Locations,
		PreviewRows:         a.Preview,
	}
}

func toStatuses(values []string) []observation.Status {
	out := make([]observation.Status, 0, len(values))
	for _, v := range values {
		out = append(out, observation.Status(v))
	}
	return out
}

// knownStatus reports whether s passes the status check
func (o *Options) knownStatus(s observation.Status) bool {
	return s == observation.StatusNone || len(o.KnownStatuses) == 0 || slices.Contains(o.KnownStatuses, s)
}
