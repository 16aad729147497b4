package vectortypes

import (
	"errors"
	"testing"
)

func TestParseTier(t *testing.T) {
	tests := []struct {
		in      string
		want    Tier
		wantErr bool
	}{
		{"map", TierPrimary, false},
		{"m", TierPrimary, false},
		{"", TierPrimary, false},
		{"base", TierBase, false},
		{"b", TierBase, false},
		{"sky", TierPrimary, true},
	}

	for _, tt := range tests {
		got, err := ParseTier(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTier(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTier(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if TierBase.String() != "base" || TierPrimary.String() != "map" {
		t.Errorf("unexpected tier labels %q %q", TierPrimary, TierBase)
	}
}

func TestCheckSampleDimensions(t *testing.T) {
	ok := []Sample{
		{ID: "a", Vector: F32{1, 2}},
		{ID: "b", Vector: F32{3, 4}},
	}
	if err := CheckSampleDimensions(ok); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	bad := append(ok, Sample{ID: "c", Vector: F32{1}})
	if err := CheckSampleDimensions(bad); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestIndexOfAndClone(t *testing.T) {
	samples := []Sample{{ID: "cat"}, {ID: "dog"}}
	if IndexOf(samples, "dog") != 1 || IndexOf(samples, "car") != -1 {
		t.Errorf("IndexOf returned unexpected positions")
	}

	c := Coords{"cat": {X: 1, Y: 2}}
	clone := c.Clone()
	clone["cat"] = Point{}
	if c["cat"].X != 1 {
		t.Errorf("Clone shares storage with original")
	}
}
