package report

import (
	"strings"

	"github.com/tphakala/parkbio/internal/conf"
)

// Aliaser shortens location names for display. Rules apply in order.
type Aliaser struct {
	rules []conf.LocationAlias
}

// NewAliaser creates an Aliaser. Rules with an empty Match are ignored.
func NewAliaser(rules []conf.LocationAlias) *Aliaser {
	a := &Aliaser{}
	for _, r := range rules {
		if r.Match == "" {
			continue
		}
		a.rules = append(a.rules, r)
	}
	return a
}

// Apply rewrites name with every rule and trims the result. A nil Aliaser
// returns name unchanged.
func (a *Aliaser) Apply(name string) string {
	if a == nil {
		return name
	}
	for _, r := range a.rules {
		name = strings.ReplaceAll(name, r.Match, r.Replace)
	}
	return strings.TrimSpace(name)
}
