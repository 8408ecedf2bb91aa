// File: internal/layout/grid/areas_test.go
package grid

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

const holyGrail = `
	header header header
	nav    main   main
	nav    footer .
`

func TestParseGridAreas(t *testing.T) {
	want := map[string]Area{
		"header": {RowStart: 1, RowEnd: 2, ColStart: 1, ColEnd: 4},
		"nav":    {RowStart: 2, RowEnd: 4, ColStart: 1, ColEnd: 2},
		"main":   {RowStart: 2, RowEnd: 3, ColStart: 2, ColEnd: 4},
		"footer": {RowStart: 3, RowEnd: 4, ColStart: 2, ColEnd: 3},
	}

	tests := []struct {
		name     string
		template string
	}{
		{"unquoted lines", holyGrail},
		{"quoted lines", "\"header header header\"\n\"nav main main\"\n'nav footer .'"},
		{"quoted rows on one line", `"header header header" "nav main main" "nav footer ..."`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(want, ParseGridAreas(tt.template)); diff != "" {
				t.Errorf("ParseGridAreas mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseGridAreas_EdgeCases(t *testing.T) {
	assert.Empty(t, ParseGridAreas(""))
	assert.Empty(t, ParseGridAreas(". .\n. ."))

	// A non-rectangular label still gets its bounding box.
	got := ParseGridAreas("a a\na b")
	assert.Equal(t, Area{RowStart: 1, RowEnd: 3, ColStart: 1, ColEnd: 3}, got["a"])
	assert.Equal(t, Area{RowStart: 2, RowEnd: 3, ColStart: 2, ColEnd: 3}, got["b"])

	// Ragged rows.
	got = ParseGridAreas("a\nb b b")
	assert.Equal(t, 1, got["a"].Columns())
	assert.Equal(t, 3, got["b"].Columns())
	assert.Equal(t, 1, got["b"].Rows())
}

func TestGridAreasToTemplate(t *testing.T) {
	areas := ParseGridAreas(holyGrail)
	tmpl := GridAreasToTemplate(areas)

	assert.Equal(t, "header header header\nnav    main   main\nnav    footer .", tmpl)
	if diff := cmp.Diff(areas, ParseGridAreas(tmpl)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, GridAreasToTemplate(nil))
	assert.Equal(t, ". .\n. x", GridAreasToTemplate(map[string]Area{
		"x": {RowStart: 2, RowEnd: 3, ColStart: 2, ColEnd: 3},
	}))
}
