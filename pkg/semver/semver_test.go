package semver

import (
	"errors"
	"testing"
)

func TestParseTag(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tag, err := ParseTag("v1.2.10")
		if err != nil {
			t.Fatal(err)
		}
		if tag != (Tag{Major: 1, Minor: 2, Patch: 10}) {
			t.Fatalf("got: %+v", tag)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		for _, s := range []string{"1.2.3", "v1.2", "v1.2.3.4", "va.b.c", "v1.2.-3", "", "release-1"} {
			if _, err := ParseTag(s); !errors.Is(err, ErrInvalidTag) {
				t.Errorf("ParseTag(%q) want: %v got: %v", s, ErrInvalidTag, err)
			}
		}
	})
}

func TestNextTag(t *testing.T) {
	t.Run("empty-history", func(t *testing.T) {
		if got := NextTag(nil); got.String() != "v0.0.1" {
			t.Fatalf("want: v0.0.1 got: %s", got)
		}
	})

	t.Run("increments-patch-only", func(t *testing.T) {
		tags := []Tag{{1, 0, 0}, {1, 4, 2}, {0, 9, 9}}
		if got := NextTag(tags); got.String() != "v1.4.3" {
			t.Fatalf("want: v1.4.3 got: %s", got)
		}
	})

	t.Run("numeric-not-lexical", func(t *testing.T) {
		a, _ := ParseTag("v1.2.3")
		b, _ := ParseTag("v1.2.10")
		if got := NextTag([]Tag{a, b}); got.String() != "v1.2.11" {
			t.Fatalf("want: v1.2.11 got: %s", got)
		}
	})
}

func TestCompare(t *testing.T) {
	a := Tag{1, 2, 3}
	b := Tag{1, 2, 10}
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Fatal("ordering is not total by (major, minor, patch)")
	}
}
