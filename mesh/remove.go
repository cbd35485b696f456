package mesh

import (
	"fmt"
	"slices"
)

// RemoveCell unlinks c from its vertices, facets and ridges and disables it.
// Facets and ridges left without cells are disabled with it; vertices are
// kept and can be dropped afterwards with RemoveUnrefVertex.
func (m *Mesh) RemoveCell(c CellH) error {
	if err := m.checkCell(c); err != nil {
		return fmt.Errorf("RemoveCell: %w", err)
	}
	cr := m.cells.At(c.id)
	for _, v := range cr.verts {
		vr := m.vertices.At(v)
		var ok bool
		if vr.star, ok = removeSorted(vr.star, c.id); !ok {
			fatalf("RemoveCell", c.id, "cell missing from the star of vertex %d", v)
		}
	}
	for _, fid := range cr.facets {
		m.detachFacet(fid, c.id)
	}
	for _, rid := range cr.ridges {
		m.detachRidge(rid, c.id)
	}
	m.cells.Disable(c.id)
	return nil
}

// detachFacet drops cell c from facet fid. The cell must already be gone from
// the vertex stars.
func (m *Mesh) detachFacet(fid, c int) {
	f := m.facets.At(fid)
	f.valency--
	if f.valency == 0 {
		m.facets.Disable(fid)
		return
	}
	// f.icell may be c, so read the vertices through c before re-anchoring
	fv := m.facetVertexIDs(f.icell, f.localID)
	stars := make([][]int, len(fv))
	for k, v := range fv {
		stars[k] = m.vertices.At(v).star
	}
	holders := commonWhere(0, m.holdsFacet(fid), stars...)
	if len(holders) != f.valency {
		fatalf("RemoveCell", c, "facet %d has valency %d but %d holding cells", fid, f.valency, len(holders))
	}
	if f.icell == c {
		f.icell = holders[0]
		if f.oppCell != c && slices.Contains(holders, f.oppCell) {
			f.icell = f.oppCell
		}
	}
	f.localID = slices.Index(m.cells.At(f.icell).facets, fid)
	switch {
	case f.valency == 1:
		f.oppCell = NullID
	case f.oppCell == c || f.oppCell == f.icell || !slices.Contains(holders, f.oppCell):
		f.oppCell = NullID
		for _, h := range holders {
			if h != f.icell {
				f.oppCell = h
				break
			}
		}
	}
}

func (m *Mesh) detachRidge(rid, c int) {
	r := m.ridges.At(rid)
	r.valency--
	if r.valency == 0 {
		m.ridges.Disable(rid)
		return
	}
	holders := m.ridgeHolders(rid)
	if len(holders) != r.valency {
		fatalf("RemoveCell", c, "ridge %d has valency %d but %d holding cells", rid, r.valency, len(holders))
	}
	if r.icell == c {
		r.icell = holders[0]
		r.localID = slices.Index(m.cells.At(r.icell).ridges, rid)
	}
}

// RemoveUnrefVertex disables v and its point when no cell uses it. A vertex
// that is still referenced is left alone and false is returned.
func (m *Mesh) RemoveUnrefVertex(v VertexH) (bool, error) {
	if err := m.checkVertex(v); err != nil {
		return false, fmt.Errorf("RemoveUnrefVertex: %w", err)
	}
	if len(m.vertices.At(v.id).star) > 0 {
		return false, nil
	}
	m.vertices.Disable(v.id)
	if m.points != nil {
		m.points.Disable(v.id)
	}
	return true, nil
}

// RemoveUnrefVertices runs RemoveUnrefVertex over every live vertex and
// returns how many were removed
func (m *Mesh) RemoveUnrefVertices() int {
	var n int
	for v := range m.Vertices() {
		if ok, _ := m.RemoveUnrefVertex(v); ok {
			n++
		}
	}
	return n
}
