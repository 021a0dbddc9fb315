// Package station resolves extracted station-name candidates against the
// set of known station categories.
package station

import (
	"strings"

	"github.com/voltpath/chargelog/internal/model"
)

// Match compares a candidate station name against the known categories
// using bidirectional substring containment: a category matches when its
// name equals the candidate, or either string contains the other.
//
// categories must be the sortOrder-ordered snapshot from storage; when
// several categories satisfy containment the first in that order wins.
func Match(candidate string, categories []model.StationCategory) model.StationResolution {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return model.NoStation()
	}

	for _, cat := range categories {
		if contains(candidate, cat.Name) {
			return model.Matched(cat)
		}
	}

	return model.Unmatched(candidate)
}

// contains reports containment in either direction. Equality is the
// degenerate case of both.
func contains(candidate, name string) bool {
	if name == "" {
		return false
	}
	return strings.Contains(candidate, name) || strings.Contains(name, candidate)
}
