package element

import (
	"fmt"
	"strings"
)

// StaticSource renders every non-empty table of t as a static C array so
// device kernels can index facet/ridge topology without host lookups.
// Names are suffixed with the shape's short name, e.g. FacetVertices_Tet.
func (t *Tables) StaticSource() string {
	var sb strings.Builder
	sn := t.Shape.ShortName()
	for _, tbl := range []struct {
		name string
		rows [][]int
	}{
		{"FacetVertices", t.FacetVertices},
		{"VertexFacets", t.VertexFacets},
		{"FacetRidges", t.FacetRidges},
		{"RidgeVertices", t.RidgeVertices},
		{"RidgeFacets", t.RidgeFacets},
	} {
		if len(tbl.rows) == 0 {
			continue
		}
		sb.WriteString(formatStaticTable(tbl.name+"_"+sn, tbl.rows))
	}
	return sb.String()
}

// formatStaticTable formats a single table as a static C array. Ragged rows
// are padded with -1 up to the widest row.
func formatStaticTable(name string, rows [][]int) string {
	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r))
	}
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("const int %s[%d][%d] = {\n", name, len(rows), cols))

	for i, row := range rows {
		sb.WriteString("    {")
		for j := 0; j < cols; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			val := -1
			if j < len(row) {
				val = row[j]
			}
			sb.WriteString(fmt.Sprintf("%d", val))
		}
		sb.WriteString("}")
		if i < len(rows)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("};\n\n")

	return sb.String()
}
