// Package matching pairs shot-log paths with work-order locations.
//
// The two systems mount the same show hierarchy under different roots, so a
// shot path and a location refer to the same asset when their trailing
// SuffixDepth path segments are identical. Matching is first-match in
// work-order order; it never picks a "best" candidate.
package matching

import (
	"slices"
	"strings"
)

// SuffixDepth is the number of trailing segments compared.
const SuffixDepth = 4

// Mapping maps a shot-log path to the work-order location it matched.
type Mapping map[string]string

// Lookup returns the location matched to shotPath.
func (m Mapping) Lookup(shotPath string) (string, bool) {
	location, ok := m[shotPath]
	return location, ok
}

// Paths returns the mapped shot paths in sorted order.
func (m Mapping) Paths() []string {
	paths := make([]string, 0, len(m))
	for path := range m {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	return paths
}

// Suffix returns the last SuffixDepth segments of path split on "/". Paths
// with fewer segments return all of them.
func Suffix(path string) []string {
	segments := strings.Split(path, "/")
	if len(segments) > SuffixDepth {
		segments = segments[len(segments)-SuffixDepth:]
	}
	return segments
}

// Match binds each location to the first not-yet-mapped shot path sharing its
// suffix. Locations without a partner are left out of the mapping.
func Match(locations, shotPaths []string) Mapping {
	mapping := make(Mapping, len(shotPaths))
	shotSuffixes := make([][]string, len(shotPaths))
	for i, path := range shotPaths {
		shotSuffixes[i] = Suffix(path)
	}

	for _, location := range locations {
		locationSuffix := Suffix(location)
		for i, shotPath := range shotPaths {
			if _, mapped := mapping[shotPath]; mapped {
				continue
			}
			if slices.Equal(locationSuffix, shotSuffixes[i]) {
				mapping[shotPath] = location
				break
			}
		}
	}
	return mapping
}

// Unmatched returns the shot paths that have no mapping, in input order and
// without duplicates.
func Unmatched(mapping Mapping, shotPaths []string) []string {
	var missing []string
	seen := make(map[string]struct{})
	for _, path := range shotPaths {
		if _, ok := mapping[path]; ok {
			continue
		}
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}
		missing = append(missing, path)
	}
	return missing
}
