package sparsity

import (
	"fmt"

	"github.com/notargets/DGTopo/mesh"
)

// VertexTable couples every pair of vertices sharing a cell. Rows are
// contiguous vertex ids.
func VertexTable(m *mesh.Mesh) *Table {
	t := New(m.NumVertices())
	ids := make([]int, 0, m.Tables().Nv)
	for c := range m.Cells() {
		ids = ids[:0]
		for _, v := range c.Vertices(m) {
			ids = append(ids, v.ContiguousID(m))
		}
		for _, a := range ids {
			for _, b := range ids {
				t.add(a, b)
			}
		}
	}
	return t
}

// DofHook returns the number of local degrees of freedom of a cell
type DofHook func(c mesh.CellH) int

// CellTable lays the dofs of each cell out consecutively in contiguous cell
// order and couples every dof of a cell to the dofs of the cell itself and of
// every cell sharing one of its facets. It also returns the first dof of each
// cell.
func CellTable(m *mesh.Mesh, dofs DofHook) (*Table, []int, error) {
	offsets := make([]int, m.NumCells()+1)
	var k int
	for c := range m.Cells() {
		n := dofs(c)
		if n < 0 {
			return nil, nil, fmt.Errorf("sparsity: cell %d reports %d dofs", c.ID(), n)
		}
		offsets[k+1] = offsets[k] + n
		k++
	}

	t := New(offsets[len(offsets)-1])
	couple := func(a, b int) {
		for i := offsets[a]; i < offsets[a+1]; i++ {
			for j := offsets[b]; j < offsets[b+1]; j++ {
				t.add(i, j)
				t.add(j, i)
			}
		}
	}
	for c := range m.Cells() {
		kc := c.ContiguousID(m)
		couple(kc, kc)
		for _, f := range c.Facets(m) {
			if f.Valency(m) < 2 {
				continue
			}
			// every cell around a singular facet, not only the stitched mate
			for _, nb := range m.FacetCells(f) {
				couple(kc, nb.ContiguousID(m))
			}
		}
	}
	return t, offsets[:len(offsets)-1], nil
}
