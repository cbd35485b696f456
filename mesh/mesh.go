// Package mesh is the topology engine: it owns the entity stores of one mesh
// (vertices, cells, facets, ridges and optionally points), stitches facet and
// ridge adjacency as cells are inserted or removed, and exposes the read-only
// query surface used by dof numbering, reordering and mesh I/O.
//
// Entities are referenced by handles (VertexH, CellH, FacetH, RidgeH) that
// hold only an index. Every handle query takes the owning *Mesh explicitly;
// callers check IsDisabled before trusting adjacency reached through a handle.
//
// A Mesh is not safe for concurrent use. Mutations (AddCell, RemoveCell,
// AddVertex, RemoveUnrefVertex) must not overlap with any other call.
package mesh

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/notargets/DGTopo/element"
	"github.com/notargets/DGTopo/store"
	"gonum.org/v1/gonum/spatial/r3"
)

// Config selects the cell shape and storage options of a mesh
type Config struct {
	Shape      element.Shape
	DropPoints bool // topology only, no vertex coordinates
	Capacity   int  // expected number of vertices, used to presize stores
}

type Mesh struct {
	cfg Config
	tbl *element.Tables

	vertices *vertexStore
	points   *pointStore // nil when cfg.DropPoints
	cells    *cellStore
	facets   *facetStore
	ridges   *ridgeStore
}

// New creates an empty mesh of cfg.Shape, initializing the shape's tables
func New(cfg Config) (*Mesh, error) {
	tbl, err := element.Init(cfg.Shape)
	if err != nil {
		return nil, fmt.Errorf("mesh: %w", err)
	}
	nv := max(cfg.Capacity, 0)
	// Rough Euler estimates, only used for presizing
	nc := nv * max(1, int(cfg.Shape.Dimensions()))
	m := &Mesh{
		cfg:      cfg,
		tbl:      tbl,
		vertices: store.New[Vertex, *Vertex](nv),
		cells:    store.New[Cell, *Cell](nc),
		facets:   store.New[Facet, *Facet](nc * tbl.Nf / 2),
		ridges:   store.New[Ridge, *Ridge](nc * tbl.Nr / 4),
	}
	if !cfg.DropPoints {
		m.points = store.New[Point, *Point](nv)
	}
	return m, nil
}

func (m *Mesh) Shape() element.Shape { return m.cfg.Shape }

func (m *Mesh) Tables() *element.Tables { return m.tbl }

func (m *Mesh) Dimensions() element.Dimensionality { return m.cfg.Shape.Dimensions() }

// HasGeometry reports whether vertex coordinates are stored
func (m *Mesh) HasGeometry() bool { return m.points != nil }

// Live counts
func (m *Mesh) NumVertices() int { return m.vertices.Size() }
func (m *Mesh) NumCells() int    { return m.cells.Size() }
func (m *Mesh) NumFacets() int   { return m.facets.Size() }
func (m *Mesh) NumRidges() int   { return m.ridges.Size() }

// Slot counts, disabled entities included
func (m *Mesh) NumVerticesTotal() int { return m.vertices.TotalSize() }
func (m *Mesh) NumCellsTotal() int    { return m.cells.TotalSize() }
func (m *Mesh) NumFacetsTotal() int   { return m.facets.TotalSize() }
func (m *Mesh) NumRidgesTotal() int   { return m.ridges.TotalSize() }

// Raw-id ranges for linear iteration with Next; entries in between may be
// disabled.
func (m *Mesh) VertexBegin() VertexH { return VertexH{m.vertices.Begin()} }
func (m *Mesh) VertexEnd() VertexH   { return VertexH{m.vertices.End()} }
func (m *Mesh) CellBegin() CellH     { return CellH{m.cells.Begin()} }
func (m *Mesh) CellEnd() CellH       { return CellH{m.cells.End()} }
func (m *Mesh) FacetBegin() FacetH   { return FacetH{m.facets.Begin()} }
func (m *Mesh) FacetEnd() FacetH     { return FacetH{m.facets.End()} }
func (m *Mesh) RidgeBegin() RidgeH   { return RidgeH{m.ridges.Begin()} }
func (m *Mesh) RidgeEnd() RidgeH     { return RidgeH{m.ridges.End()} }

// Vertices iterates live vertices in id order
func (m *Mesh) Vertices() iter.Seq[VertexH] {
	return func(yield func(VertexH) bool) {
		for id := range m.vertices.IDs() {
			if !yield(VertexH{id}) {
				return
			}
		}
	}
}

// Cells iterates live cells in id order
func (m *Mesh) Cells() iter.Seq[CellH] {
	return func(yield func(CellH) bool) {
		for id := range m.cells.IDs() {
			if !yield(CellH{id}) {
				return
			}
		}
	}
}

// Facets iterates live facets in id order
func (m *Mesh) Facets() iter.Seq[FacetH] {
	return func(yield func(FacetH) bool) {
		for id := range m.facets.IDs() {
			if !yield(FacetH{id}) {
				return
			}
		}
	}
}

// Ridges iterates live ridges in id order
func (m *Mesh) Ridges() iter.Seq[RidgeH] {
	return func(yield func(RidgeH) bool) {
		for id := range m.ridges.IDs() {
			if !yield(RidgeH{id}) {
				return
			}
		}
	}
}

// CompactedCells returns the raw id of every live cell indexed by contiguous id
func (m *Mesh) CompactedCells() []int { return m.cells.Compacted() }

// CompactedVertices returns the raw id of every live vertex indexed by
// contiguous id
func (m *Mesh) CompactedVertices() []int { return m.vertices.Compacted() }

// AddVertex appends a vertex with coordinates x. The coordinates are ignored
// when the mesh drops points.
func (m *Mesh) AddVertex(x r3.Vec, tag int8) VertexH {
	id := m.vertices.Insert(Vertex{Label: store.Label{Tag: tag}})
	if m.points != nil {
		pid := m.points.Insert(Point{Label: store.Label{Tag: tag}, X: x})
		if pid != id {
			fatalf("AddVertex", NullID, "point id %d out of step with vertex id %d", pid, id)
		}
	}
	return VertexH{id}
}

// Coord returns the coordinates of v
func (m *Mesh) Coord(v VertexH) (r3.Vec, error) {
	if m.points == nil {
		return r3.Vec{}, ErrNoGeometry
	}
	if err := m.checkVertex(v); err != nil {
		return r3.Vec{}, err
	}
	return m.points.At(v.id).X, nil
}

// SetCoord moves v to x
func (m *Mesh) SetCoord(v VertexH, x r3.Vec) error {
	if m.points == nil {
		return ErrNoGeometry
	}
	if err := m.checkVertex(v); err != nil {
		return err
	}
	m.points.At(v.id).X = x
	return nil
}

// AddCellIDs is AddCell for raw vertex ids
func (m *Mesh) AddCellIDs(ids ...int) (CellH, error) {
	verts := make([]VertexH, len(ids))
	for i, id := range ids {
		verts[i] = VertexH{id}
	}
	return m.AddCell(verts)
}

func (m *Mesh) checkVertex(v VertexH) error {
	if !v.IsValid() || !m.vertices.InRange(v.id) {
		return fmt.Errorf("%w: vertex %d", ErrInvalidHandle, v.id)
	}
	if m.vertices.IsDisabled(v.id) {
		return fmt.Errorf("%w: vertex %d", ErrDisabled, v.id)
	}
	return nil
}

func (m *Mesh) checkCell(c CellH) error {
	if !c.IsValid() || !m.cells.InRange(c.id) {
		return fmt.Errorf("%w: cell %d", ErrInvalidHandle, c.id)
	}
	if m.cells.IsDisabled(c.id) {
		return fmt.Errorf("%w: cell %d", ErrDisabled, c.id)
	}
	return nil
}

// String returns a summary of the mesh topology
func (m *Mesh) String() string {
	var sb strings.Builder

	sb.WriteString("=== Mesh Topology Summary ===\n")
	sb.WriteString(fmt.Sprintf("  Cell shape: %s (%s)\n", m.cfg.Shape, m.Dimensions()))
	sb.WriteString(fmt.Sprintf("  Vertices per cell: %d, facets per cell: %d, ridges per cell: %d\n",
		m.tbl.Nv, m.tbl.Nf, m.tbl.Nr))
	sb.WriteString(fmt.Sprintf("  Vertices: %d live / %d slots\n", m.NumVertices(), m.NumVerticesTotal()))
	sb.WriteString(fmt.Sprintf("  Cells:    %d live / %d slots\n", m.NumCells(), m.NumCellsTotal()))
	sb.WriteString(fmt.Sprintf("  Facets:   %d live / %d slots\n", m.NumFacets(), m.NumFacetsTotal()))
	if m.tbl.Nr > 0 {
		sb.WriteString(fmt.Sprintf("  Ridges:   %d live / %d slots\n", m.NumRidges(), m.NumRidgesTotal()))
	}
	sb.WriteString(fmt.Sprintf("  Geometry: %v\n", m.HasGeometry()))
	sb.WriteString("=============================\n")

	return sb.String()
}

// PrintStatistics writes facet valency and boundary statistics to w
func (m *Mesh) PrintStatistics(w io.Writer) {
	var boundary, interior, singular int
	for f := range m.Facets() {
		switch n := m.facets.At(f.id).valency; {
		case n == 1:
			boundary++
		case n == 2:
			interior++
		default:
			singular++
		}
	}
	boundaryVerts := 0
	maxValency := 0
	for v := range m.Vertices() {
		if m.IsBoundary(v) {
			boundaryVerts++
		}
		maxValency = max(maxValency, m.Valency(v))
	}

	fmt.Fprintf(w, "Mesh Statistics:\n")
	fmt.Fprintf(w, "  Shape: %s\n", m.cfg.Shape)
	fmt.Fprintf(w, "  Vertices: %d (%d on boundary, max valency %d)\n", m.NumVertices(), boundaryVerts, maxValency)
	fmt.Fprintf(w, "  Cells: %d\n", m.NumCells())
	fmt.Fprintf(w, "  Facets: %d (%d boundary, %d interior, %d singular)\n",
		m.NumFacets(), boundary, interior, singular)
	if m.tbl.Nr > 0 {
		fmt.Fprintf(w, "  Ridges: %d\n", m.NumRidges())
	}
}
