package mesh

import (
	"testing"

	"github.com/notargets/DGTopo/element"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEdgeChain(t *testing.T) {
	m := newMesh(t, element.Edge)
	v := addVertices(m, 3)
	c0 := mustCell(t, m, 0, 1)
	c1 := mustCell(t, m, 1, 2)

	assert.Equal(t, 3, m.NumFacets())
	mid := c0.Facets(m)[1]
	assert.Equal(t, mid, c1.Facets(m)[0])
	assert.Equal(t, 2, mid.Valency(m))
	assert.Equal(t, []VertexH{v[1]}, mid.Vertices(m))

	assert.True(t, m.IsBoundary(v[0]))
	assert.False(t, m.IsBoundary(v[1]))
	assert.True(t, m.IsBoundary(v[2]))

	EToE, EToF := m.Connectivity()
	assert.Equal(t, [][]int{{-1, 1}, {0, -1}}, EToE)
	assert.Equal(t, [][]int{{-1, 0}, {1, -1}}, EToF)
	assertConsistent(t, m)
}

func TestQuadStrip(t *testing.T) {
	// 3---4---5
	// |   |   |
	// 0---1---2
	m := newMesh(t, element.Quadrangle)
	v := addVertices(m, 6)
	q0 := mustCell(t, m, 0, 1, 4, 3)
	q1 := mustCell(t, m, 1, 2, 5, 4)

	assert.Equal(t, 7, m.NumFacets())
	shared := q0.Facets(m)[1]
	assert.Equal(t, shared, q1.Facets(m)[3])
	assert.Equal(t, 2, shared.Valency(m))
	for _, x := range v {
		assert.True(t, m.IsBoundary(x))
	}

	adj, side, anchor, err := m.AdjSideAndAnchor(q1, 3)
	require.NoError(t, err)
	assert.Equal(t, q0, adj)
	assert.Equal(t, Side(1), side)
	assert.Equal(t, 0, anchor)
	assertConsistent(t, m)
}

func TestTwoTetrahedra(t *testing.T) {
	m := newMesh(t, element.Tetrahedron)
	addVertices(m, 5)
	t0 := mustCell(t, m, 0, 1, 2, 3)
	t1 := mustCell(t, m, 1, 0, 2, 4)

	assert.Equal(t, 7, m.NumFacets())
	assert.Equal(t, 9, m.NumRidges())

	shared := t0.Facets(m)[0]
	assert.Equal(t, shared, t1.Facets(m)[0])
	assert.Equal(t, 2, shared.Valency(m))

	adj, side, anchor, err := m.AdjSideAndAnchor(t1, 0)
	require.NoError(t, err)
	assert.Equal(t, t0, adj)
	assert.Equal(t, Side(0), side)
	assert.False(t, side.Reversed())
	assert.Equal(t, 2, anchor)

	// The three edges of the shared face are shared ridges
	for i, r := range t0.Ridges(m) {
		want := 1
		if i < 3 {
			want = 2
		}
		assert.Equal(t, want, r.Valency(m), "ridge %d", i)
		assert.Len(t, r.Star(m), want)
	}
	assert.Equal(t, t0.Ridges(m)[0], t1.Ridges(m)[0])

	EToE, EToF := m.Connectivity()
	assert.Equal(t, []int{1, -1, -1, -1}, EToE[0])
	assert.Equal(t, []int{0, -1, -1, -1}, EToF[0])
	assert.Equal(t, []int{0, -1, -1, -1}, EToE[1])
	assertConsistent(t, m)
}

func TestFlippedTetrahedronMatchesReversed(t *testing.T) {
	m := newMesh(t, element.Tetrahedron)
	addVertices(m, 5)
	t0 := mustCell(t, m, 0, 1, 2, 3)
	// Same orientation of the shared face as t0: matched through reversal
	t1 := mustCell(t, m, 0, 1, 2, 4)

	adj, side, _, err := m.AdjSideAndAnchor(t1, 0)
	require.NoError(t, err)
	assert.Equal(t, t0, adj)
	assert.True(t, side.Reversed())
	assert.Equal(t, 0, side.Index())
	assert.Equal(t, 7, m.NumFacets())
	assertConsistent(t, m)
}

func TestTwoHexahedra(t *testing.T) {
	m := newMesh(t, element.Hexahedron)
	addVertices(m, 12)
	h0 := mustCell(t, m, 0, 1, 2, 3, 4, 5, 6, 7)
	// h1 sits on face {1,2,6,5} of h0 through its own face 4
	h1 := mustCell(t, m, 1, 8, 9, 2, 5, 10, 11, 6)

	assert.Equal(t, 11, m.NumFacets())
	assert.Equal(t, 20, m.NumRidges())
	assert.Equal(t, h0.Facets(m)[2], h1.Facets(m)[4])

	adj, side, anchor, err := m.AdjSideAndAnchor(h1, 4)
	require.NoError(t, err)
	assert.Equal(t, h0, adj)
	assert.Equal(t, Side(2), side)
	assert.Equal(t, 2, anchor)

	shared := 0
	for _, r := range h1.Ridges(m) {
		if r.Valency(m) == 2 {
			shared++
		}
	}
	assert.Equal(t, 4, shared)
	assertConsistent(t, m)
}

// kuhnCube splits the unit cube into six tetrahedra around the 0-7 diagonal.
// Vertex b sits at the corner whose bits are x=1, y=2, z=4.
func kuhnCube(t *testing.T) *Mesh {
	m := newMesh(t, element.Tetrahedron)
	addVertices(m, 8)
	for _, p := range [][2]int{{1, 2}, {1, 4}, {2, 1}, {2, 4}, {4, 1}, {4, 2}} {
		mustCell(t, m, 0, p[0], p[0]+p[1], 7)
	}
	return m
}

func TestKuhnCube(t *testing.T) {
	m := kuhnCube(t)

	assert.Equal(t, 6, m.NumCells())
	assert.Equal(t, 18, m.NumFacets())
	assert.Equal(t, 19, m.NumRidges())
	assert.Len(t, m.BoundaryFacets(), 12)

	var diagonal RidgeH
	for r := range m.Ridges() {
		vs := r.Vertices(m)
		if (vs[0].ID() == 0 && vs[1].ID() == 7) || (vs[0].ID() == 7 && vs[1].ID() == 0) {
			diagonal = r
		}
	}
	assert.Equal(t, 6, diagonal.Valency(m))
	assert.Len(t, m.RidgeStar(diagonal), 6)
	assert.False(t, m.IsSingularRidge(diagonal))

	for f := range m.Facets() {
		assert.False(t, m.IsSingularFacet(f))
	}
	assert.Len(t, m.ConnectedComponents(), 1)
	assertConsistent(t, m)
}

func TestTetrahedraSharingOnlyAnEdge(t *testing.T) {
	m := newMesh(t, element.Tetrahedron)
	addVertices(m, 6)
	t0 := mustCell(t, m, 0, 1, 2, 3)
	t1 := mustCell(t, m, 0, 1, 4, 5)

	assert.Equal(t, 8, m.NumFacets())
	assert.Equal(t, 11, m.NumRidges())
	r := t0.Ridges(m)[0]
	assert.Equal(t, r, t1.Ridges(m)[0])
	assert.Equal(t, 2, r.Valency(m))
	assert.True(t, m.IsSingularRidge(r))
	assert.Len(t, m.ConnectedComponents(), 2)
	assertConsistent(t, m)
}

func TestQuadHoldingFacetAsDiagonal(t *testing.T) {
	m := newMesh(t, element.Quadrangle)
	addVertices(m, 6)
	q0 := mustCell(t, m, 0, 1, 2, 3)
	// 0-2 is a diagonal of q0 and an edge of q1
	q1 := mustCell(t, m, 0, 2, 4, 5)

	assert.Equal(t, 8, m.NumFacets())
	f := q1.Facets(m)[0]
	assert.NotContains(t, q0.Facets(m), f)
	assert.Equal(t, 1, f.Valency(m))
	assert.Equal(t, q1, f.ICell(m))
	assert.False(t, m.IsInteriorFacet(f))
	assert.Equal(t, []CellH{q1}, m.FacetCells(f))
	assert.Len(t, m.ConnectedComponents(), 2)
	assertConsistent(t, m)

	require.NoError(t, m.RemoveCell(q0))
	assert.Equal(t, 1, f.Valency(m))
	assertConsistent(t, m)
}

func TestDiagonalHolderIsNotCounted(t *testing.T) {
	m := newMesh(t, element.Quadrangle)
	addVertices(m, 8)
	q0 := mustCell(t, m, 0, 1, 2, 3)
	q1 := mustCell(t, m, 2, 1, 4, 5)
	// q2 holds 0 and 1 only as a diagonal
	mustCell(t, m, 6, 0, 7, 1)

	assert.Equal(t, 11, m.NumFacets())
	edge := q0.Facets(m)[0]
	assert.Equal(t, 1, edge.Valency(m))
	assert.False(t, m.IsInteriorFacet(edge))
	assert.False(t, m.IsSingularFacet(edge))
	assert.Equal(t, []CellH{q0}, m.FacetCells(edge))

	shared := q0.Facets(m)[1]
	assert.Equal(t, shared, q1.Facets(m)[0])
	assert.True(t, m.IsInteriorFacet(shared))
	assertConsistent(t, m)
}

func TestHexahedronHoldingFacetAsDiagonalPlane(t *testing.T) {
	m := newMesh(t, element.Hexahedron)
	addVertices(m, 12)
	h0 := mustCell(t, m, 0, 1, 2, 3, 4, 5, 6, 7)
	// {0,1,6,7} cuts h0 diagonally and is face 0 of h1
	h1 := mustCell(t, m, 0, 1, 6, 7, 8, 9, 10, 11)

	assert.Equal(t, 12, m.NumFacets())
	for _, f := range h1.Facets(m) {
		assert.Equal(t, 1, f.Valency(m))
		assert.NotContains(t, h0.Facets(m), f)
	}
	// 0-1 and 6-7 are edges of both, 1-6 and 7-0 are face diagonals of h0
	assert.Equal(t, 22, m.NumRidges())
	r := h1.Ridges(m)
	assert.Equal(t, h0.Ridges(m)[0], r[0])
	assert.Equal(t, h0.Ridges(m)[10], r[2])
	assert.Equal(t, 1, r[1].Valency(m))
	assert.Equal(t, 1, r[3].Valency(m))
	assertConsistent(t, m)
}

// threeTets stacks three tetrahedra on the face {0,1,2}
func threeTets(t *testing.T) (*Mesh, []CellH) {
	m := newMesh(t, element.Tetrahedron)
	addVertices(m, 6)
	return m, []CellH{
		mustCell(t, m, 0, 1, 2, 3),
		mustCell(t, m, 1, 0, 2, 4),
		mustCell(t, m, 0, 1, 2, 5),
	}
}

func TestTetrahedraSharingOneFace(t *testing.T) {
	m, cells := threeTets(t)
	f := cells[0].Facets(m)[0]
	for _, c := range cells {
		assert.Equal(t, f, c.Facets(m)[0])
	}
	assert.Equal(t, 10, m.NumFacets())
	assert.Equal(t, 12, m.NumRidges())
	assert.Equal(t, 3, f.Valency(m))
	assert.True(t, m.IsSingularFacet(f))
	assert.False(t, m.IsInteriorFacet(f))
	assert.Equal(t, cells, m.FacetCells(f))
	assert.Equal(t, cells[0], f.ICell(m))
	assert.Equal(t, cells[2], f.OppCell(m))
	assertConsistent(t, m)

	EToE, EToF := m.Connectivity()
	for k := range cells {
		assert.Equal(t, SingularNeighbor, EToE[k][0])
		assert.Equal(t, SingularNeighbor, EToF[k][0])
	}

	require.NoError(t, m.RemoveCell(cells[0]))
	assert.Equal(t, 7, m.NumFacets())
	assert.Equal(t, 2, f.Valency(m))
	assert.Equal(t, cells[2], f.ICell(m))
	assert.Equal(t, 0, f.LocalID(m))
	assert.Equal(t, cells[1], f.OppCell(m))
	assert.False(t, m.IsSingularFacet(f))
	assert.True(t, m.IsInteriorFacet(f))
	assertConsistent(t, m)

	EToE, EToF = m.Connectivity()
	assert.Equal(t, []int{1, -1, -1, -1}, EToE[0])
	assert.Equal(t, []int{0, -1, -1, -1}, EToE[1])
	assert.Equal(t, 0, EToF[0][0])
}

// hexGrid fills [0,n]^3 with unit hexahedra; vertex (i,j,k) is i+(n+1)(j+(n+1)k)
func hexGrid(t *testing.T, n int) *Mesh {
	m := newMesh(t, element.Hexahedron)
	p := n + 1
	addVertices(m, p*p*p)
	at := func(i, j, k int) int { return i + p*(j+p*k) }
	for k := 0; k < n; k++ {
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				mustCell(t, m,
					at(i, j, k), at(i+1, j, k), at(i+1, j+1, k), at(i, j+1, k),
					at(i, j, k+1), at(i+1, j, k+1), at(i+1, j+1, k+1), at(i, j+1, k+1))
			}
		}
	}
	return m
}

func TestIsBoundary3D(t *testing.T) {
	m := kuhnCube(t)
	for v := range m.Vertices() {
		assert.True(t, m.IsBoundary(v), "vertex %d", v.ID())
	}

	m = hexGrid(t, 2)
	assert.Equal(t, 8, m.NumCells())
	assert.Equal(t, 36, m.NumFacets())
	assert.Equal(t, 54, m.NumRidges())
	assert.Len(t, m.BoundaryFacets(), 24)
	center := NewVertexH(13)
	for v := range m.Vertices() {
		assert.Equal(t, v != center, m.IsBoundary(v), "vertex %d", v.ID())
	}
	assert.Equal(t, 8, m.Valency(center))
	assertConsistent(t, m)

	require.NoError(t, m.RemoveCell(NewCellH(0)))
	assert.True(t, m.IsBoundary(center))
	assertConsistent(t, m)
}

func TestRidgeLocalAndAnchor(t *testing.T) {
	m := newMesh(t, element.Tetrahedron)
	addVertices(m, 6)
	t0 := mustCell(t, m, 0, 1, 2, 3)
	t1 := mustCell(t, m, 1, 0, 2, 4)
	r := t0.Ridges(m)[0]
	require.Equal(t, r, t1.Ridges(m)[0])

	local, anchor, err := m.RidgeLocalAndAnchor(t0, r)
	require.NoError(t, err)
	assert.Equal(t, 0, local)
	assert.Equal(t, 0, anchor)

	// t1 runs 1->0 where t0 runs 0->1
	local, anchor, err = m.RidgeLocalAndAnchor(t1, r)
	require.NoError(t, err)
	assert.Equal(t, 0, local)
	assert.Equal(t, 1, anchor)

	// t1 holds 1-2 as its local ridge 2, running 2->1
	r12 := t0.Ridges(m)[1]
	local, anchor, err = m.RidgeLocalAndAnchor(t1, r12)
	require.NoError(t, err)
	assert.Equal(t, 2, local)
	assert.Equal(t, 1, anchor)

	_, _, err = m.RidgeLocalAndAnchor(t1, t0.Ridges(m)[3])
	assert.ErrorIs(t, err, ErrInvalidHandle)
	_, _, err = m.RidgeLocalAndAnchor(t1, NullRidge)
	assert.ErrorIs(t, err, ErrInvalidHandle)

	gone := t1.Ridges(m)[3]
	require.NoError(t, m.RemoveCell(t1))
	_, _, err = m.RidgeLocalAndAnchor(t0, gone)
	assert.ErrorIs(t, err, ErrDisabled)
	_, _, err = m.RidgeLocalAndAnchor(t1, r)
	assert.ErrorIs(t, err, ErrDisabled)
}
