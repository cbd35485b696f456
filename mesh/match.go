package mesh

import (
	"fmt"
	"slices"
)

// Side is a local facet index as seen through a match. A facet matched in the
// reversed direction is stored complemented (^i), so Side is negative exactly
// when the two cells traverse the facet the same way.
type Side int

func (s Side) Index() int {
	if s < 0 {
		return ^int(s)
	}
	return int(s)
}

func (s Side) Reversed() bool { return s < 0 }

func (s Side) String() string {
	if s < 0 {
		return fmt.Sprintf("~%d", ^int(s))
	}
	return fmt.Sprintf("%d", int(s))
}

// rotation returns the anchor r with b[k] == a[(k+r)%n] for all k, or -1
func rotation(a, b []int) int {
	n := len(a)
	if n != len(b) {
		return -1
	}
	for r := 0; r < n; r++ {
		if a[r] != b[0] {
			continue
		}
		k := 1
		for k < n && a[(k+r)%n] == b[k] {
			k++
		}
		if k == n {
			return r
		}
	}
	return -1
}

func reversed(s []int) []int {
	out := slices.Clone(s)
	slices.Reverse(out)
	return out
}

// facetVertexIDs returns the global vertex ids of local facet i of cell c in
// table order
func (m *Mesh) facetVertexIDs(c, i int) []int {
	verts := m.cells.At(c).verts
	local := m.tbl.FacetVertices[i]
	out := make([]int, len(local))
	for k, lv := range local {
		out[k] = verts[lv]
	}
	return out
}

func (m *Mesh) ridgeVertexIDs(c, i int) []int {
	verts := m.cells.At(c).verts
	local := m.tbl.RidgeVertices[i]
	return []int{verts[local[0]], verts[local[1]]}
}

// isFacet searches the local facets of cell c for one whose vertex list equals
// candidate under cyclic rotation, retrying on the reversed list for 3-D
// shapes. The first match wins.
func (m *Mesh) isFacet(c int, candidate []int) (side Side, anchor int, ok bool) {
	for i := 0; i < m.tbl.Nf; i++ {
		fv := m.facetVertexIDs(c, i)
		if r := rotation(fv, candidate); r >= 0 {
			return Side(i), r, true
		}
		if m.tbl.Nr > 0 {
			if r := rotation(reversed(fv), candidate); r >= 0 {
				return Side(^i), r, true
			}
		}
	}
	return 0, 0, false
}

// isRidge searches the local ridges of cell c for the vertex pair (a, b). The
// anchor is 1 when c traverses the ridge from b to a.
func (m *Mesh) isRidge(c, a, b int) (local, anchor int, ok bool) {
	for i := 0; i < m.tbl.Nr; i++ {
		rv := m.ridgeVertexIDs(c, i)
		switch {
		case rv[0] == a && rv[1] == b:
			return i, 0, true
		case rv[0] == b && rv[1] == a:
			return i, 1, true
		}
	}
	return 0, 0, false
}

// mateOf returns the cell on the other side of facet f from cell c, or NullID
func (m *Mesh) mateOf(f, c int) int {
	fr := m.facets.At(f)
	if fr.icell != c {
		return fr.icell
	}
	return fr.oppCell
}

// AdjSideAndAnchor returns the cell adjacent to c across its local facet i,
// the side under which that cell sees the shared facet and the rotation that
// aligns the two views. Boundary facets return NullCell.
func (m *Mesh) AdjSideAndAnchor(c CellH, i int) (adj CellH, side Side, anchor int, err error) {
	if err = m.checkCell(c); err != nil {
		return NullCell, 0, 0, err
	}
	if i < 0 || i >= m.tbl.Nf {
		return NullCell, 0, 0, fmt.Errorf("%w: local facet %d of %s", ErrInvalidHandle, i, m.cfg.Shape)
	}
	mate := m.mateOf(m.cells.At(c.id).facets[i], c.id)
	if mate == NullID {
		return NullCell, 0, 0, nil
	}
	side, anchor, ok := m.isFacet(mate, reversed(m.facetVertexIDs(c.id, i)))
	if !ok {
		fatalf("AdjSideAndAnchor", c.id, "facet %d not found in adjacent cell %d", i, mate)
	}
	return CellH{mate}, side, anchor, nil
}

// FacetVerticesOf returns the vertices of local facet i of c in c's order
func (m *Mesh) FacetVerticesOf(c CellH, i int) ([]VertexH, error) {
	if err := m.checkCell(c); err != nil {
		return nil, err
	}
	if i < 0 || i >= m.tbl.Nf {
		return nil, fmt.Errorf("%w: local facet %d of %s", ErrInvalidHandle, i, m.cfg.Shape)
	}
	return toVertexHandles(m.facetVertexIDs(c.id, i)), nil
}

// AlignFacet re-derives local facet i of c from the adjacent cell's view,
// applying the side and anchor of the match. For a consistently stitched
// facet the result equals FacetVerticesOf(c, i). A boundary facet returns
// c's own view.
func (m *Mesh) AlignFacet(c CellH, i int) ([]VertexH, error) {
	adj, side, anchor, err := m.AdjSideAndAnchor(c, i)
	if err != nil {
		return nil, err
	}
	if !adj.IsValid() {
		return m.FacetVerticesOf(c, i)
	}
	fv := m.facetVertexIDs(adj.id, side.Index())
	if side.Reversed() {
		fv = reversed(fv)
	}
	n := len(fv)
	view := make([]int, n)
	for k := range view {
		view[k] = fv[(k+anchor)%n]
	}
	// view is the reversed traversal of c's facet
	return toVertexHandles(reversed(view)), nil
}

// RidgeLocalAndAnchor returns the local index of ridge r in cell c and its
// anchor: 0 when c traverses r as its incident cell does, 1 when reversed.
func (m *Mesh) RidgeLocalAndAnchor(c CellH, r RidgeH) (local, anchor int, err error) {
	if err = m.checkCell(c); err != nil {
		return 0, 0, err
	}
	if !r.IsValid() || !m.ridges.InRange(r.id) {
		return 0, 0, fmt.Errorf("%w: ridge %d", ErrInvalidHandle, r.id)
	}
	if m.ridges.IsDisabled(r.id) {
		return 0, 0, fmt.Errorf("%w: ridge %d", ErrDisabled, r.id)
	}
	rr := m.ridges.At(r.id)
	rv := m.ridgeVertexIDs(rr.icell, rr.localID)
	local, anchor, ok := m.isRidge(c.id, rv[0], rv[1])
	if !ok || m.cells.At(c.id).ridges[local] != r.id {
		return 0, 0, fmt.Errorf("%w: cell %d does not hold ridge %d", ErrInvalidHandle, c.id, r.id)
	}
	return local, anchor, nil
}
