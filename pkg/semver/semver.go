// Package semver models release tags as a "v" prefixed semantic version
// triple and computes the next patch release.
package semver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidTag = errors.New("invalid version tag")

// Tag is an immutable (major, minor, patch) triple. Tags are totally
// ordered numerically, so v1.2.10 is greater than v1.2.3.
type Tag struct {
	Major int
	Minor int
	Patch int
}

// ParseTag parses "vMAJOR.MINOR.PATCH". A malformed tag is a hard error:
// an unparseable version history must never produce a guessed next tag.
func ParseTag(s string) (Tag, error) {
	raw := strings.TrimSpace(s)
	if !strings.HasPrefix(raw, "v") {
		return Tag{}, fmt.Errorf("%w: missing 'v' prefix: %q", ErrInvalidTag, s)
	}
	parts := strings.Split(strings.TrimPrefix(raw, "v"), ".")
	if len(parts) != 3 {
		return Tag{}, fmt.Errorf("%w: want vMAJOR.MINOR.PATCH: %q", ErrInvalidTag, s)
	}
	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Tag{}, fmt.Errorf("%w: non-numeric component %q in %q", ErrInvalidTag, part, s)
		}
		nums[i] = n
	}
	return Tag{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

func (t Tag) String() string {
	return fmt.Sprintf("v%d.%d.%d", t.Major, t.Minor, t.Patch)
}

// Compare returns -1, 0, or 1 ordering by (major, minor, patch).
func (t Tag) Compare(o Tag) int {
	pairs := [][2]int{{t.Major, o.Major}, {t.Minor, o.Minor}, {t.Patch, o.Patch}}
	for _, p := range pairs {
		if p[0] < p[1] {
			return -1
		}
		if p[0] > p[1] {
			return 1
		}
	}
	return 0
}

// Max returns the greatest tag. The second return is false for an empty set.
func Max(tags []Tag) (Tag, bool) {
	if len(tags) == 0 {
		return Tag{}, false
	}
	max := tags[0]
	for _, t := range tags[1:] {
		if t.Compare(max) > 0 {
			max = t
		}
	}
	return max, true
}

// NextTag returns the next release tag: the greatest existing tag with patch
// incremented by one. Major and minor never change here. An empty history
// yields v0.0.1.
func NextTag(tags []Tag) Tag {
	max, ok := Max(tags)
	if !ok {
		return Tag{Patch: 1}
	}
	return Tag{Major: max.Major, Minor: max.Minor, Patch: max.Patch + 1}
}
