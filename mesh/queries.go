package mesh

import (
	"slices"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Star returns the cells incident to v in ascending id order
func (m *Mesh) Star(v VertexH) []CellH {
	return toCellHandles(m.vertices.At(v.id).star)
}

// Valency returns the number of cells incident to v
func (m *Mesh) Valency(v VertexH) int {
	return len(m.vertices.At(v.id).star)
}

// IsBoundary reports whether some cell around v has a facet through v with
// no cell on its other side
func (m *Mesh) IsBoundary(v VertexH) bool {
	for _, c := range m.vertices.At(v.id).star {
		cr := m.cells.At(c)
		for k, lv := range cr.verts {
			if lv != v.id {
				continue
			}
			for _, lf := range m.tbl.VertexFacets[k] {
				if m.mateOf(cr.facets[lf], c) == NullID {
					return true
				}
			}
		}
	}
	return false
}

func (m *Mesh) facetStars(fid int) [][]int {
	f := m.facets.At(fid)
	fv := m.facetVertexIDs(f.icell, f.localID)
	stars := make([][]int, len(fv))
	for k, v := range fv {
		stars[k] = m.vertices.At(v).star
	}
	return stars
}

// holdsFacet and holdsRidge accept the cells whose arrays reference the id
func (m *Mesh) holdsFacet(fid int) func(int) bool {
	return func(c int) bool { return slices.Contains(m.cells.At(c).facets, fid) }
}

func (m *Mesh) holdsRidge(rid int) func(int) bool {
	return func(c int) bool { return slices.Contains(m.cells.At(c).ridges, rid) }
}

// facetHolders returns the cells whose facet array references fid
func (m *Mesh) facetHolders(fid int) []int {
	return commonWhere(0, m.holdsFacet(fid), m.facetStars(fid)...)
}

// ridgeHolders returns the cells whose ridge array references rid
func (m *Mesh) ridgeHolders(rid int) []int {
	r := m.ridges.At(rid)
	rv := m.ridgeVertexIDs(r.icell, r.localID)
	return commonWhere(0, m.holdsRidge(rid), m.vertices.At(rv[0]).star, m.vertices.At(rv[1]).star)
}

// FacetCells returns every live cell referencing f
func (m *Mesh) FacetCells(f FacetH) []CellH {
	return toCellHandles(m.facetHolders(f.id))
}

// IsInteriorFacet reports whether exactly two cells hold f. Cells having the
// facet vertices only as a diagonal do not count.
func (m *Mesh) IsInteriorFacet(f FacetH) bool {
	return len(intersect3(m.holdsFacet(f.id), m.facetStars(f.id)...)) == 2
}

// IsSingularFacet reports whether more than two cells hold f
func (m *Mesh) IsSingularFacet(f FacetH) bool {
	return len(intersect3(m.holdsFacet(f.id), m.facetStars(f.id)...)) > 2
}

// RidgeStar returns the cells having r as one of their ridges
func (m *Mesh) RidgeStar(r RidgeH) []CellH {
	return toCellHandles(m.ridgeHolders(r.id))
}

// IsSingularRidge reports whether the cells around r fall apart into more
// than one fan, cells of a fan being joined through facets containing r
func (m *Mesh) IsSingularRidge(r RidgeH) bool {
	holders := m.ridgeHolders(r.id)
	if len(holders) < 2 {
		return false
	}
	g := simple.NewUndirectedGraph()
	byFacet := make(map[int]int)
	for _, c := range holders {
		g.AddNode(simple.Node(c))
		cr := m.cells.At(c)
		local := slices.Index(cr.ridges, r.id)
		for _, lf := range m.tbl.RidgeFacets[local] {
			fid := cr.facets[lf]
			if o, ok := byFacet[fid]; ok {
				if o != c {
					g.SetEdge(simple.Edge{F: simple.Node(o), T: simple.Node(c)})
				}
				continue
			}
			byFacet[fid] = c
		}
	}
	return len(topo.ConnectedComponents(g)) > 1
}

// BoundaryFacets returns the live facets held by a single cell
func (m *Mesh) BoundaryFacets() []FacetH {
	var out []FacetH
	for fid, f := range m.facets.All() {
		if f.valency == 1 {
			out = append(out, FacetH{fid})
		}
	}
	return out
}
