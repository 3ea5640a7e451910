package domain

import (
	"errors"
	"testing"
)

func TestBBoxFromPoints_TooFewPoints(t *testing.T) {
	if _, err := BBoxFromPoints(nil); err == nil {
		t.Fatalf("expected error for empty point list")
	}
	if _, err := BBoxFromPoints([]Coordinate{{Lon: 1, Lat: 2}}); err == nil {
		t.Fatalf("expected error for a single point")
	}
}

func TestBBoxFromPoints_ReordersMinMax(t *testing.T) {
	cases := []struct {
		name   string
		points []Coordinate
		want   string
	}{
		{
			name:   "two corners swapped",
			points: []Coordinate{{Lon: -113, Lat: 50.1}, {Lon: -113.1, Lat: 49.5}},
			want:   "-113.1,49.5,-113,50.1",
		},
		{
			name:   "crossed corners",
			points: []Coordinate{{Lon: -112.7, Lat: 52.1}, {Lon: -112.8, Lat: 52.2}},
			want:   "-112.8,52.1,-112.7,52.2",
		},
		{
			name: "more than two points",
			points: []Coordinate{
				{Lon: 10, Lat: 20}, {Lon: -14, Lat: -88.3},
				{Lon: 100.0, Lat: 45}, {Lon: -48.1, Lat: 77.7},
			},
			want: "-48.1,-88.3,100,77.7",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := BBoxFromPoints(tc.points)
			if err != nil {
				t.Fatalf("BBoxFromPoints error: %v", err)
			}
			if got := b.String(); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBBoxExpand(t *testing.T) {
	b := BBox{MinLon: -110, MinLat: 49, MaxLon: -109, MaxLat: 50}
	e := b.Expand(0.3)
	if e.MinLon != -110.3 || e.MinLat != 48.7 || e.MaxLon != -108.7 || e.MaxLat != 50.3 {
		t.Fatalf("unexpected expanded box: %+v", e)
	}
}

func TestNormalizeBBoxString_InsufficientInput(t *testing.T) {
	for _, in := range []string{"", "11", "112,30", "-110,60,-130", "-117,60,-119,"} {
		if _, err := NormalizeBBoxString(in); err == nil {
			t.Fatalf("expected error for input %q", in)
		}
	}
}

func TestNormalizeBBoxString_NotANumber(t *testing.T) {
	_, err := NormalizeBBoxString("1,2,3,notanum")
	if err == nil {
		t.Fatalf("expected error for non-numeric entry")
	}
	if !IsKind(err, KindInvalidInput) {
		t.Fatalf("expected invalid_input kind, got: %v", err)
	}
	var oe *OpError
	if !errors.As(err, &oe) {
		t.Fatalf("expected *OpError, got %T", err)
	}
}

func TestNormalizeBBoxString_PreservesFormatting(t *testing.T) {
	got, err := NormalizeBBoxString("40.00,030.01,-20.01,.4")
	if err != nil {
		t.Fatalf("NormalizeBBoxString error: %v", err)
	}
	if want := "-20.01,.4,40.00,030.01"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNormalizeBBoxString_ExtraCoordinates(t *testing.T) {
	got, err := NormalizeBBoxString("70.3,40.0,119.3,0.0,55.2,-45.8,-111.11,22.4")
	if err != nil {
		t.Fatalf("NormalizeBBoxString error: %v", err)
	}
	if want := "-111.11,-45.8,119.3,40.0"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNormalizeBBoxString_NoEditNeeded(t *testing.T) {
	in := "30.2,-110.34,34.5,-109.08"
	got, err := NormalizeBBoxString(in)
	if err != nil {
		t.Fatalf("NormalizeBBoxString error: %v", err)
	}
	if got != in {
		t.Fatalf("expected input unchanged, got %q", got)
	}
}
