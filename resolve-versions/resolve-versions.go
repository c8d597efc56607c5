package resolve_versions

import (
	"github.com/Masterminds/semver/v3"
	mapset "github.com/deckarep/golang-set/v2"
	"slices"
)

type constraintMatcher interface {
	MatchingConstraints(c *semver.Constraints) []string
}

// ResolveGameVersions returns the sorted union of game versions matching any
// of the constraints.
func ResolveGameVersions(constraints []*semver.Constraints, mcVersions constraintMatcher) []string {
	verSet := mapset.NewThreadUnsafeSet[string]()
	for _, constraint := range constraints {
		if constraint == nil {
			continue
		}
		verSet.Append(mcVersions.MatchingConstraints(constraint)...)
	}
	a := verSet.ToSlice()
	slices.SortFunc(a, func(x, y string) int {
		return semver.MustParse(x).Compare(semver.MustParse(y))
	})
	return a
}
