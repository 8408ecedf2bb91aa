// File: internal/layout/grid/tracks_test.go
package grid

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed(n int) Track         { return Track{Kind: Fixed, Size: n} }
func fr(n float64) Track        { return Track{Kind: Fraction, Fr: n} }
func minmax(lo, hi Track) Track { return Track{Kind: MinMax, Min: &lo, Max: &hi} }

func TestParseTrackDefinition(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     []Track
		warnings int
	}{
		{"mixed", "10 1fr auto", []Track{fixed(10), fr(1), {Kind: Auto}}, 0},
		{"repeat", "repeat(3, 1fr)", []Track{fr(1), fr(1), fr(1)}, 0},
		{"repeat between tracks", "5 repeat(2, 10 2fr) auto", []Track{fixed(5), fixed(10), fr(2), fixed(10), fr(2), {Kind: Auto}}, 0},
		{"repeat case insensitive", "REPEAT(2, 3)", []Track{fixed(3), fixed(3)}, 0},
		{"minmax", "minmax(5, 1fr)", []Track{minmax(fixed(5), fr(1))}, 0},
		{"minmax content", "minmax(min-content, 20)", []Track{minmax(Track{Kind: MinContent}, fixed(20))}, 0},
		{"units", "50% 20px 3ch", []Track{{Kind: Fixed, Percent: 50}, fixed(20), fixed(3)}, 0},
		{"fractional fr", "0.5fr", []Track{fr(0.5)}, 0},
		{"line names ignored", "[main-start] 1fr [main-end]", []Track{fr(1)}, 0},
		{"content keywords", "min-content max-content", []Track{{Kind: MinContent}, {Kind: MaxContent}}, 0},
		{"empty", "", nil, 0},
		{"unknown token", "banana 1fr", []Track{{Kind: Auto}, fr(1)}, 1},
		{"zero fr", "0fr", []Track{{Kind: Auto}}, 1},
		{"flexible minimum", "minmax(1fr, 10)", []Track{{Kind: Auto}}, 1},
		{"repeat count zero", "repeat(0, 1fr)", []Track{fr(1)}, 1},
		{"repeat auto-fill", "repeat(auto-fill, 10)", []Track{fixed(10)}, 1},
		{"unterminated repeat", "repeat(2, 1fr", []Track{{Kind: Auto}}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warnings := ParseTrackDefinition(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseTrackDefinition(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
			assert.Len(t, warnings, tt.warnings, "warnings: %v", warnings)
		})
	}
}

func TestParseTrackDefinition_NestedRepeat(t *testing.T) {
	got, warnings := ParseTrackDefinition("repeat(2, repeat(2, 1fr))")
	require.Len(t, got, 2)
	for _, tr := range got {
		assert.Equal(t, Auto, tr.Kind)
	}
	assert.Contains(t, warnings[0], "nested repeat()")
}

func TestParseTrackDefinition_RepeatCountClamped(t *testing.T) {
	got, warnings := ParseTrackDefinition("repeat(20000000, 1) 2")
	require.Len(t, got, MaxRepeatCount+1)
	assert.Equal(t, fixed(2), got[MaxRepeatCount])
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "clamped")
}

func TestCalculateTrackSizes_MissingMinMaxBounds(t *testing.T) {
	tracks := []Track{fixed(10), {Kind: MinMax}, {Kind: MinMax, Min: &Track{Kind: Fixed, Size: 4}}}
	assert.NotPanics(t, func() {
		assert.Equal(t, []int{10, 8, 12}, CalculateTrackSizes(tracks, 30, 0, nil))
	})
	assert.Equal(t, "10 minmax(auto, auto) minmax(4, auto)", TrackList(tracks))
}

func TestTrackList(t *testing.T) {
	tracks, _ := ParseTrackDefinition("10 2fr auto minmax(5, 1fr) 25% max-content")
	assert.Equal(t, "10 2fr auto minmax(5, 1fr) 25% max-content", TrackList(tracks))
}

func TestCalculateTrackSizes(t *testing.T) {
	tests := []struct {
		name      string
		tracks    string
		available int
		gap       int
		hints     []int
		want      []int
	}{
		{"fr ratio", "1fr 2fr", 30, 0, nil, []int{10, 20}},
		{"fixed then fr with gap", "10 1fr", 30, 2, nil, []int{10, 18}},
		{"auto uses hint", "auto 1fr", 20, 0, []int{7}, []int{7, 13}},
		{"percentage", "50% 1fr", 40, 0, nil, []int{20, 20}},
		{"fr floors", "1fr 1fr 1fr", 10, 0, nil, []int{3, 3, 3}},
		{"fixed overflow leaves fr empty", "30 1fr", 20, 0, nil, []int{30, 0}},
		{"gaps eat the space", "1fr 1fr", 2, 5, nil, []int{0, 0}},
		{"negative available", "5 1fr", -10, 0, nil, []int{5, 0}},
		{"content keywords", "min-content max-content", 50, 0, []int{3, 9}, []int{3, 9}},
		{"minmax fr joins flex pass", "minmax(5, 1fr) 1fr", 25, 0, nil, []int{10, 10}},
		{"minmax clamps to minimum", "minmax(10, 1fr) 3fr", 20, 0, nil, []int{10, 7}},
		{"minmax grows to maximum", "minmax(5, 8) minmax(2, 20)", 30, 0, nil, []int{8, 13}},
		{"minmax auto min uses hint", "minmax(auto, 4) 1fr", 10, 0, []int{6}, []int{6, 4}},
		{"empty", "", 10, 0, nil, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracks, warnings := ParseTrackDefinition(tt.tracks)
			require.Empty(t, warnings)
			got := CalculateTrackSizes(tracks, tt.available, tt.gap, tt.hints)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("CalculateTrackSizes(%q, %d) mismatch (-want +got):\n%s", tt.tracks, tt.available, diff)
			}
		})
	}
}

func TestCalculateTrackSizes_FlexibleNeverOverflows(t *testing.T) {
	tracks, _ := ParseTrackDefinition("3 1fr 2fr 0.5fr minmax(2, 1fr)")
	for available := 0; available <= 120; available += 7 {
		for gap := 0; gap <= 2; gap++ {
			sizes := CalculateTrackSizes(tracks, available, gap, nil)
			require.Len(t, sizes, len(tracks))
			total := gap * (len(sizes) - 1)
			for _, s := range sizes {
				assert.GreaterOrEqual(t, s, 0)
				total += s
			}
			// Only the fixed track and the minmax minimum may overflow.
			if available >= 5+gap*(len(sizes)-1) {
				assert.LessOrEqual(t, total, available, "available=%d gap=%d sizes=%v", available, gap, sizes)
			}
			assert.GreaterOrEqual(t, sizes[4], 2)
		}
	}
}
