package mesh

import (
	"github.com/notargets/DGTopo/store"
	"gonum.org/v1/gonum/spatial/r3"
)

// Handles carry only an index. They are meaningful relative to the mesh that
// produced them; mixing handles across meshes is not detected.
type (
	VertexH struct{ id int }
	CellH   struct{ id int }
	FacetH  struct{ id int }
	RidgeH  struct{ id int }
)

var (
	NullVertex = VertexH{NullID}
	NullCell   = CellH{NullID}
	NullFacet  = FacetH{NullID}
	NullRidge  = RidgeH{NullID}
)

func NewVertexH(id int) VertexH { return VertexH{id} }
func NewCellH(id int) CellH     { return CellH{id} }
func NewFacetH(id int) FacetH   { return FacetH{id} }
func NewRidgeH(id int) RidgeH   { return RidgeH{id} }

// ---- VertexH

func (h VertexH) ID() int             { return h.id }
func (h VertexH) IsValid() bool       { return h.id >= 0 }
func (h VertexH) Next() VertexH       { return VertexH{h.id + 1} }
func (h VertexH) Prev() VertexH       { return VertexH{h.id - 1} }
func (h VertexH) Less(o VertexH) bool { return h.id < o.id }
func (h VertexH) IsDisabled(m *Mesh) bool {
	return !m.vertices.InRange(h.id) || m.vertices.IsDisabled(h.id)
}
func (h VertexH) Tag(m *Mesh) int8          { return m.vertices.At(h.id).Tag }
func (h VertexH) Flags(m *Mesh) store.Flags { return m.vertices.At(h.id).Flags }
func (h VertexH) ContiguousID(m *Mesh) int  { return m.vertices.ContiguousID(h.id) }

// SetTag sets the tag of the vertex and of its point record
func (h VertexH) SetTag(m *Mesh, tag int8) {
	m.vertices.At(h.id).Tag = tag
	if m.points != nil {
		m.points.At(h.id).Tag = tag
	}
}

// SetFlags sets the user flags of the vertex; the disabled bit is preserved
func (h VertexH) SetFlags(m *Mesh, f store.Flags) {
	setUserFlags(&m.vertices.At(h.id).Label, f)
}

func (h VertexH) Star(m *Mesh) []CellH          { return m.Star(h) }
func (h VertexH) Valency(m *Mesh) int           { return m.Valency(h) }
func (h VertexH) IsBoundary(m *Mesh) bool       { return m.IsBoundary(h) }
func (h VertexH) Coord(m *Mesh) (r3.Vec, error) { return m.Coord(h) }

// ---- CellH

func (h CellH) ID() int           { return h.id }
func (h CellH) IsValid() bool     { return h.id >= 0 }
func (h CellH) Next() CellH       { return CellH{h.id + 1} }
func (h CellH) Prev() CellH       { return CellH{h.id - 1} }
func (h CellH) Less(o CellH) bool { return h.id < o.id }
func (h CellH) IsDisabled(m *Mesh) bool {
	return !m.cells.InRange(h.id) || m.cells.IsDisabled(h.id)
}
func (h CellH) Tag(m *Mesh) int8          { return m.cells.At(h.id).Tag }
func (h CellH) SetTag(m *Mesh, tag int8)  { m.cells.At(h.id).Tag = tag }
func (h CellH) Flags(m *Mesh) store.Flags { return m.cells.At(h.id).Flags }
func (h CellH) SetFlags(m *Mesh, f store.Flags) {
	setUserFlags(&m.cells.At(h.id).Label, f)
}
func (h CellH) ContiguousID(m *Mesh) int { return m.cells.ContiguousID(h.id) }

// Vertices returns the cell's vertices in local order
func (h CellH) Vertices(m *Mesh) []VertexH {
	c := m.cells.At(h.id)
	out := make([]VertexH, len(c.verts))
	for i, v := range c.verts {
		out[i] = VertexH{v}
	}
	return out
}

// Facets returns the cell's facets in local order
func (h CellH) Facets(m *Mesh) []FacetH {
	c := m.cells.At(h.id)
	out := make([]FacetH, len(c.facets))
	for i, f := range c.facets {
		out[i] = FacetH{f}
	}
	return out
}

// Ridges returns the cell's ridges in local order, empty below 3D
func (h CellH) Ridges(m *Mesh) []RidgeH {
	c := m.cells.At(h.id)
	out := make([]RidgeH, len(c.ridges))
	for i, r := range c.ridges {
		out[i] = RidgeH{r}
	}
	return out
}

// Neighbors returns, per local facet, the adjacent cell or NullCell on the
// boundary. Across a singular facet it is the cell the facet was stitched to;
// FacetCells lists all of them.
func (h CellH) Neighbors(m *Mesh) []CellH {
	c := m.cells.At(h.id)
	out := make([]CellH, len(c.facets))
	for i, f := range c.facets {
		out[i] = CellH{m.mateOf(f, h.id)}
	}
	return out
}

// ---- FacetH

func (h FacetH) ID() int            { return h.id }
func (h FacetH) IsValid() bool      { return h.id >= 0 }
func (h FacetH) Next() FacetH       { return FacetH{h.id + 1} }
func (h FacetH) Prev() FacetH       { return FacetH{h.id - 1} }
func (h FacetH) Less(o FacetH) bool { return h.id < o.id }
func (h FacetH) IsDisabled(m *Mesh) bool {
	return !m.facets.InRange(h.id) || m.facets.IsDisabled(h.id)
}
func (h FacetH) Tag(m *Mesh) int8          { return m.facets.At(h.id).Tag }
func (h FacetH) SetTag(m *Mesh, tag int8)  { m.facets.At(h.id).Tag = tag }
func (h FacetH) Flags(m *Mesh) store.Flags { return m.facets.At(h.id).Flags }
func (h FacetH) SetFlags(m *Mesh, f store.Flags) {
	setUserFlags(&m.facets.At(h.id).Label, f)
}
func (h FacetH) ContiguousID(m *Mesh) int { return m.facets.ContiguousID(h.id) }
func (h FacetH) ICell(m *Mesh) CellH      { return CellH{m.facets.At(h.id).icell} }
func (h FacetH) LocalID(m *Mesh) int      { return m.facets.At(h.id).localID }
func (h FacetH) OppCell(m *Mesh) CellH    { return CellH{m.facets.At(h.id).oppCell} }
func (h FacetH) Valency(m *Mesh) int      { return m.facets.At(h.id).valency }

// Vertices returns the facet's vertices as seen from its incident cell
func (h FacetH) Vertices(m *Mesh) []VertexH {
	f := m.facets.At(h.id)
	return toVertexHandles(m.facetVertexIDs(f.icell, f.localID))
}

// ---- RidgeH

func (h RidgeH) ID() int            { return h.id }
func (h RidgeH) IsValid() bool      { return h.id >= 0 }
func (h RidgeH) Next() RidgeH       { return RidgeH{h.id + 1} }
func (h RidgeH) Prev() RidgeH       { return RidgeH{h.id - 1} }
func (h RidgeH) Less(o RidgeH) bool { return h.id < o.id }
func (h RidgeH) IsDisabled(m *Mesh) bool {
	return !m.ridges.InRange(h.id) || m.ridges.IsDisabled(h.id)
}
func (h RidgeH) Tag(m *Mesh) int8          { return m.ridges.At(h.id).Tag }
func (h RidgeH) SetTag(m *Mesh, tag int8)  { m.ridges.At(h.id).Tag = tag }
func (h RidgeH) Flags(m *Mesh) store.Flags { return m.ridges.At(h.id).Flags }
func (h RidgeH) SetFlags(m *Mesh, f store.Flags) {
	setUserFlags(&m.ridges.At(h.id).Label, f)
}
func (h RidgeH) ContiguousID(m *Mesh) int { return m.ridges.ContiguousID(h.id) }
func (h RidgeH) ICell(m *Mesh) CellH      { return CellH{m.ridges.At(h.id).icell} }
func (h RidgeH) LocalID(m *Mesh) int      { return m.ridges.At(h.id).localID }
func (h RidgeH) Valency(m *Mesh) int      { return m.ridges.At(h.id).valency }
func (h RidgeH) Star(m *Mesh) []CellH     { return m.RidgeStar(h) }

// Vertices returns the ridge's two vertices as seen from its incident cell
func (h RidgeH) Vertices(m *Mesh) []VertexH {
	r := m.ridges.At(h.id)
	return toVertexHandles(m.ridgeVertexIDs(r.icell, r.localID))
}

func setUserFlags(l *store.Label, f store.Flags) {
	l.Flags = l.Flags&store.Disabled | f&^store.Disabled
}

func toVertexHandles(ids []int) []VertexH {
	out := make([]VertexH, len(ids))
	for i, id := range ids {
		out[i] = VertexH{id}
	}
	return out
}

func toCellHandles(ids []int) []CellH {
	out := make([]CellH, len(ids))
	for i, id := range ids {
		out[i] = CellH{id}
	}
	return out
}
