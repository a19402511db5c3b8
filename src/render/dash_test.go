package render

import (
	"reflect"
	"testing"
)

func TestDashPolyline(t *testing.T) {
	tests := []struct {
		name    string
		pts     []Pt
		pattern []float64
		want    [][]Pt
	}{
		{
			name: "solid",
			pts:  []Pt{{0, 0}, {10, 0}},
			want: [][]Pt{{{0, 0}, {10, 0}}},
		},
		{
			name:    "dashes along one segment",
			pts:     []Pt{{0, 0}, {10, 0}},
			pattern: []float64{2, 3},
			want:    [][]Pt{{{0, 0}, {2, 0}}, {{5, 0}, {7, 0}}},
		},
		{
			name:    "gap carried round a corner",
			pts:     []Pt{{0, 0}, {4, 0}, {4, 4}},
			pattern: []float64{3, 2},
			want:    [][]Pt{{{0, 0}, {3, 0}}, {{4, 1}, {4, 4}}},
		},
		{
			name:    "dash carried round a corner",
			pts:     []Pt{{0, 0}, {2, 0}, {2, 2}},
			pattern: []float64{3, 10},
			want:    [][]Pt{{{0, 0}, {2, 0}, {2, 1}}},
		},
		{
			name:    "zero pattern",
			pts:     []Pt{{0, 0}, {10, 0}},
			pattern: []float64{0, 0},
			want:    [][]Pt{{{0, 0}, {10, 0}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dashPolyline(tt.pts, tt.pattern); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("dashPolyline() = %v, want %v", got, tt.want)
			}
		})
	}
}
