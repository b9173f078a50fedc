package nodeversion

import "fmt"

// Version is the revision of a node implementation.
type Version struct {
	Major int
	Minor int
}

var (
	// Default is the revision assumed when none is declared.
	Default = Version{Major: 1, Minor: 0}
	// MostRecent asks for the highest registered revision.
	MostRecent = Version{Major: -1, Minor: -1}
)

// New returns the version major.minor.
func New(major, minor int) Version {
	return Version{Major: major, Minor: minor}
}

// IsMostRecent reports whether v is the MostRecent sentinel.
func (v Version) IsMostRecent() bool {
	return v.Major == -1
}

// Compare returns -1, 0 or +1 ordering by major then minor.
func (v Version) Compare(other Version) int {
	switch {
	case v.Major < other.Major:
		return -1
	case v.Major > other.Major:
		return 1
	case v.Minor < other.Minor:
		return -1
	case v.Minor > other.Minor:
		return 1
	}
	return 0
}

// Less reports whether v orders before other.
func (v Version) Less(other Version) bool {
	return v.Compare(other) < 0
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Latest returns the highest concrete version in vs. The MostRecent sentinel
// is skipped.
func Latest(vs []Version) (Version, bool) {
	var best Version
	found := false
	for _, v := range vs {
		if v.IsMostRecent() {
			continue
		}
		if !found || best.Less(v) {
			best = v
			found = true
		}
	}
	return best, found
}
