package severity

import "testing"

func TestParse(t *testing.T) {
	cases := map[string]Severity{
		"HIGH":     High,
		"high":     High,
		" Medium ": Medium,
		"low":      Low,
		"CRITICAL": Unknown,
		"":         Unknown,
		"garbage":  Unknown,
	}
	for label, want := range cases {
		if got := Parse(label); got != want {
			t.Errorf("Parse(%q) want: %v got: %v", label, want, got)
		}
	}
}

func TestOrdering(t *testing.T) {
	if !(Unknown.Rank() < Low.Rank() && Low.Rank() < Medium.Rank() && Medium.Rank() < High.Rank()) {
		t.Fatal("severity ranks are not totally ordered")
	}
	if Parse("not-a-severity").Rank() != 0 {
		t.Fatal("unknown labels must rank at the bottom")
	}
}

func TestAtOrAbove(t *testing.T) {
	t.Run("high-threshold", func(t *testing.T) {
		if !High.AtOrAbove(High) {
			t.Error("HIGH should meet a HIGH threshold")
		}
		for _, s := range []Severity{Medium, Low, Unknown} {
			if s.AtOrAbove(High) {
				t.Errorf("%v should not meet a HIGH threshold", s)
			}
		}
	})

	t.Run("medium-threshold", func(t *testing.T) {
		if !High.AtOrAbove(Medium) || !Medium.AtOrAbove(Medium) {
			t.Error("HIGH and MEDIUM should meet a MEDIUM threshold")
		}
		if Unknown.AtOrAbove(Medium) {
			t.Error("UNKNOWN should never meet a MEDIUM threshold")
		}
	})
}
