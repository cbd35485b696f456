package mesh

import (
	"fmt"
	"slices"
)

// AddCell inserts a cell over verts, whose order fixes the cell orientation,
// and stitches its facets (and ridges in 3-D) to the cells already sharing
// them. Preconditions are checked before anything is modified.
//
// Only the first common cell found for a facet is stitched; a facet shared by
// more than two cells keeps counting valency and records the newest cell as
// its opposite cell.
func (m *Mesh) AddCell(verts []VertexH) (CellH, error) {
	if len(verts) != m.tbl.Nv {
		return NullCell, fmt.Errorf("%w: %s takes %d vertices, got %d",
			ErrArity, m.cfg.Shape, m.tbl.Nv, len(verts))
	}
	ids := make([]int, len(verts))
	for i, v := range verts {
		if err := m.checkVertex(v); err != nil {
			return NullCell, fmt.Errorf("AddCell: %w", err)
		}
		ids[i] = v.id
	}
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	if len(slices.Compact(sorted)) != len(ids) {
		return NullCell, fmt.Errorf("%w: %v", ErrDuplicateVertex, ids)
	}

	cid := m.cells.Insert(Cell{
		verts:  ids,
		facets: filled(m.tbl.Nf, NullID),
		ridges: filled(m.tbl.Nr, NullID),
	})

	for i := 0; i < m.tbl.Nf; i++ {
		m.stitchFacet(cid, i)
	}
	for i := 0; i < m.tbl.Nr; i++ {
		m.stitchRidge(cid, i)
	}
	for _, v := range ids {
		vr := m.vertices.At(v)
		vr.star = insertSorted(vr.star, cid)
	}
	return CellH{cid}, nil
}

// stitchFacet reuses the facet of the first cell around the facet vertices
// that has them as one of its facets. Quadrangles and hexahedra can hold the
// same vertices as a diagonal; those cells are passed over.
func (m *Mesh) stitchFacet(cid, i int) {
	fv := m.facetVertexIDs(cid, i)
	rev := reversed(fv)
	stars := make([][]int, len(fv))
	for k, v := range fv {
		stars[k] = m.vertices.At(v).star
	}
	var side Side
	adj := intersect1(func(c int) bool {
		var ok bool
		side, _, ok = m.isFacet(c, rev)
		return ok
	}, stars...)
	if len(adj) == 0 {
		fid := m.facets.Insert(Facet{icell: cid, localID: i, oppCell: NullID, valency: 1})
		m.cells.At(cid).facets[i] = fid
		return
	}
	fid := m.cells.At(adj[0]).facets[side.Index()]
	if fid == NullID || m.facets.IsDisabled(fid) {
		fatalf("AddCell", cid, "cell %d has no live facet at side %s", adj[0], side)
	}
	f := m.facets.At(fid)
	f.valency++
	f.oppCell = cid
	m.cells.At(cid).facets[i] = fid
}

// stitchRidge reuses the ridge of the first cell around both ridge vertices
// that has them as one of its ridges. Cells holding the pair only as a
// diagonal do not count.
func (m *Mesh) stitchRidge(cid, i int) {
	rv := m.ridgeVertexIDs(cid, i)
	var local int
	adj := intersect1(func(c int) bool {
		var ok bool
		local, _, ok = m.isRidge(c, rv[0], rv[1])
		return ok
	}, m.vertices.At(rv[0]).star, m.vertices.At(rv[1]).star)
	if len(adj) == 0 {
		rid := m.ridges.Insert(Ridge{icell: cid, localID: i, valency: 1})
		m.cells.At(cid).ridges[i] = rid
		return
	}
	rid := m.cells.At(adj[0]).ridges[local]
	if rid == NullID || m.ridges.IsDisabled(rid) {
		fatalf("AddCell", cid, "cell %d has no live ridge at %d", adj[0], local)
	}
	m.ridges.At(rid).valency++
	m.cells.At(cid).ridges[i] = rid
}

func filled(n, v int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = v
	}
	return s
}
