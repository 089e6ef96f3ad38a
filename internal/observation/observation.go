// Package observation defines the park observation and species records the
// analysis operates on.
package observation

// Observation is one row of the park observations table: how many times a
// species was observed at a location.
type Observation struct {
	SpeciesName  string
	LocationName string
	Count        int
}

// Key identifies an observation rollup group
type Key struct {
	SpeciesName  string
	LocationName string
}

// Key returns the (species, location) grouping key
func (o Observation) Key() Key {
	return Key{SpeciesName: o.SpeciesName, LocationName: o.LocationName}
}

// TotalCount sums Count across observations.
func TotalCount(obs []Observation) int {
	total := 0
	for i := range obs {
		total += obs[i].Count
	}
	return total
}

// Locations returns the distinct location names in first-seen order.
func Locations(obs []Observation) []string {
	seen := make(map[string]struct{})
	var out []string
	for i := range obs {
		if _, ok := seen[obs[i].LocationName]; ok {
			continue
		}
		seen[obs[i].LocationName] = struct{}{}
		out = append(out, obs[i].LocationName)
	}
	return out
}

// BySpecies returns the observations of one species, preserving order.
func BySpecies(obs []Observation, scientificName string) []Observation {
	var out []Observation
	for i := range obs {
		if obs[i].SpeciesName == scientificName {
			out = append(out, obs[i])
		}
	}
	return out
}
