package mesh

import (
	"slices"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/mat"
)

// SingularNeighbor marks, in Connectivity, a face held by more than two cells.
// FacetCells lists the cells around it.
const SingularNeighbor = -2

// Connectivity returns the element-to-element and element-to-face arrays in
// contiguous cell ids. Boundary faces hold -1 in both arrays and faces shared
// by more than two cells hold SingularNeighbor in both, so every non-negative
// entry is reciprocal: EToE[EToE[k][i]][EToF[k][i]] == k.
func (m *Mesh) Connectivity() (EToE, EToF [][]int) {
	K := m.NumCells()
	EToE = make([][]int, 0, K)
	EToF = make([][]int, 0, K)
	for c := range m.Cells() {
		etoe := make([]int, m.tbl.Nf)
		etof := make([]int, m.tbl.Nf)
		for i, fid := range m.cells.At(c.id).facets {
			if m.facets.At(fid).valency > 2 {
				etoe[i], etof[i] = SingularNeighbor, SingularNeighbor
				continue
			}
			mate := m.mateOf(fid, c.id)
			if mate == NullID {
				etoe[i], etof[i] = -1, -1
				continue
			}
			side, _, ok := m.isFacet(mate, reversed(m.facetVertexIDs(c.id, i)))
			if !ok {
				fatalf("Connectivity", c.id, "facet %d not found in adjacent cell %d", i, mate)
			}
			etoe[i] = m.cells.ContiguousID(mate)
			etof[i] = side.Index()
		}
		EToE = append(EToE, etoe)
		EToF = append(EToF, etof)
	}
	return
}

// DualGraph returns the cell adjacency graph. Nodes are contiguous cell ids;
// every pair of cells sharing a facet is joined by an edge.
func (m *Mesh) DualGraph() *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for c := range m.Cells() {
		g.AddNode(simple.Node(m.cells.ContiguousID(c.id)))
	}
	for fid, f := range m.facets.All() {
		if f.valency < 2 {
			continue
		}
		holders := m.facetHolders(fid)
		for a := 0; a < len(holders); a++ {
			for b := a + 1; b < len(holders); b++ {
				g.SetEdge(simple.Edge{
					F: simple.Node(m.cells.ContiguousID(holders[a])),
					T: simple.Node(m.cells.ContiguousID(holders[b])),
				})
			}
		}
	}
	return g
}

// ConnectedComponents groups the live cells into facet-connected components,
// each sorted by id, ordered by their smallest cell
func (m *Mesh) ConnectedComponents() [][]CellH {
	raw := m.cells.Compacted()
	var out [][]CellH
	for _, comp := range topo.ConnectedComponents(m.DualGraph()) {
		cells := make([]CellH, len(comp))
		for i, n := range comp {
			cells[i] = CellH{raw[n.ID()]}
		}
		slices.SortFunc(cells, func(a, b CellH) int { return a.id - b.id })
		out = append(out, cells)
	}
	slices.SortFunc(out, func(a, b []CellH) int { return a[0].id - b[0].id })
	return out
}

// Coordinates returns the live vertex coordinates as a Nv x 3 matrix in
// contiguous vertex order, or nil when there is nothing to return
func (m *Mesh) Coordinates() *mat.Dense {
	if m.points == nil || m.NumVertices() == 0 {
		return nil
	}
	X := mat.NewDense(m.NumVertices(), 3, nil)
	var row int
	for _, p := range m.points.All() {
		X.SetRow(row, []float64{p.X.X, p.X.Y, p.X.Z})
		row++
	}
	return X
}
