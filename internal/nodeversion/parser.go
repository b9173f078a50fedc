package nodeversion

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// marker precedes the revision in a versioned identifier.
	marker = "_v"
	// pointSubstitute stands in for '.' inside an identifier.
	pointSubstitute = 'p'
)

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// Validate reports whether s looks like a version: only digits and dots, with
// at least one dot. Digit-only segments are not checked further.
func Validate(s string) bool {
	sawDot := false
	for _, r := range s {
		switch {
		case isDigit(r):
		case r == '.':
			sawDot = true
		default:
			return false
		}
	}
	return sawDot
}

// Parse reads "major.minor". A text without a separator, or whose major part
// is not a non-negative integer, yields Default. Major is clamped to at
// least 1. A missing or garbled minor part reads as 0.
func Parse(s string) Version {
	majorText, minorText, found := strings.Cut(s, ".")
	if !found {
		return Default
	}
	major, err := strconv.Atoi(majorText)
	if err != nil || major < 0 {
		return Default
	}
	minor, err := strconv.Atoi(minorText)
	if err != nil || minor < 0 {
		minor = 0
	}
	return Version{Major: max(major, 1), Minor: minor}
}

// ParseVersionedName splits a versioned identifier on its last `_v` marker.
// It returns the base name and the version text with `p` replaced by `.`.
// ok is false when the marker is absent or followed by anything other than
// digits and `p`; malformed input is never an error.
func ParseVersionedName(name string) (base, version string, ok bool) {
	idx := strings.LastIndex(name, marker)
	if idx < 0 {
		return "", "", false
	}
	suffix := name[idx+len(marker):]
	for _, r := range suffix {
		if !isDigit(r) && r != pointSubstitute {
			return "", "", false
		}
	}
	return name[:idx], strings.ReplaceAll(suffix, string(pointSubstitute), "."), true
}

// FormatVersionedName is the inverse of ParseVersionedName.
func FormatVersionedName(base string, v Version) string {
	return fmt.Sprintf("%s%s%dp%d", base, marker, v.Major, v.Minor)
}
