package mesh

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/notargets/DGTopo/element"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestRemoveSingularCell(t *testing.T) {
	m, v, cells := twoTriangles(t)
	B, C := v[1], v[2]
	E := m.AddVertex(r3.Vec{X: 4}, 0)
	c2, err := m.AddCell([]VertexH{B, C, E})
	require.NoError(t, err)
	shared := cells[0].Facets(m)[1]

	require.NoError(t, m.RemoveCell(c2))
	assert.True(t, c2.IsDisabled(m))
	assert.Equal(t, 2, m.NumCells())
	assert.Equal(t, 5, m.NumFacets())
	assert.Equal(t, 2, shared.Valency(m))
	assert.Equal(t, cells[0], shared.ICell(m))
	assert.Equal(t, cells[1], shared.OppCell(m))
	assert.Equal(t, cells, m.Star(B))
	assert.Empty(t, m.Star(E))
	assertConsistent(t, m)

	ok, err := m.RemoveUnrefVertex(B)
	require.NoError(t, err)
	assert.False(t, ok, "referenced vertex is kept")
	ok, err = m.RemoveUnrefVertex(E)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4, m.NumVertices())

	err = m.RemoveCell(c2)
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = m.RemoveUnrefVertex(E)
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestRemoveAnchorCellReanchorsFacet(t *testing.T) {
	m, v, cells := twoTriangles(t)
	shared := cells[0].Facets(m)[1]

	require.NoError(t, m.RemoveCell(cells[0]))
	assert.Equal(t, 3, m.NumFacets())
	assert.Equal(t, 1, shared.Valency(m))
	assert.Equal(t, cells[1], shared.ICell(m))
	assert.Equal(t, 2, shared.LocalID(m))
	assert.Equal(t, NullCell, shared.OppCell(m))
	assertConsistent(t, m)

	// Re-adding reuses the freed cell id and restores the adjacency
	c, err := m.AddCell([]VertexH{v[0], v[1], v[2]})
	require.NoError(t, err)
	assert.Equal(t, cells[0], c)
	assert.Equal(t, 5, m.NumFacets())
	assert.Equal(t, 2, shared.Valency(m))
	assert.Equal(t, c, shared.OppCell(m))
	assertConsistent(t, m)
}

func TestRemoveTetraCascadesRidges(t *testing.T) {
	m := kuhnCube(t)
	first := CellH{0}
	require.NoError(t, m.RemoveCell(first))

	assert.Equal(t, 5, m.NumCells())
	// Two interior facets become boundary, two boundary facets disappear
	assert.Equal(t, 16, m.NumFacets())
	// Edge 1-3 was only used by the removed tetrahedron
	assert.Equal(t, 18, m.NumRidges())
	assertConsistent(t, m)

	require.NoError(t, m.RemoveCell(CellH{1}))
	assertConsistent(t, m)
	// Vertex 1 belonged to exactly the two removed tetrahedra
	assert.Equal(t, 1, m.RemoveUnrefVertices())
	assert.Equal(t, 7, m.NumVertices())
	assert.True(t, NewVertexH(1).IsDisabled(m))
}

// triangleGrid splits each of n*n unit squares into two triangles
func triangleGrid(t *testing.T, n int) (*Mesh, [][]int) {
	m := newMesh(t, element.Triangle)
	addVertices(m, (n+1)*(n+1))
	at := func(i, j int) int { return j*(n+1) + i }
	var cells [][]int
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			cells = append(cells,
				[]int{at(i, j), at(i+1, j), at(i+1, j+1)},
				[]int{at(i, j), at(i+1, j+1), at(i, j+1)})
		}
	}
	for _, c := range cells {
		mustCell(t, m, c...)
	}
	return m, cells
}

func TestRemoveAddChurnRestoresTopology(t *testing.T) {
	const n = 4
	m, cells := triangleGrid(t, n)
	wantFacets := 2*n*(n+1) + n*n
	require.Equal(t, wantFacets, m.NumFacets())
	stars := make([][]CellH, 0, m.NumVertices())
	for v := range m.Vertices() {
		stars = append(stars, m.Star(v))
	}

	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 5; round++ {
		removed := map[int]bool{}
		for _, id := range rng.Perm(len(cells))[:len(cells)/3] {
			require.NoError(t, m.RemoveCell(CellH{id}))
			removed[id] = true
		}
		require.NoError(t, m.Check())
		assert.Equal(t, len(cells)-len(removed), m.NumCells())

		// Free ids are reused from the back, so re-adding in descending id
		// order puts every cell back in its own slot
		ids := make([]int, 0, len(removed))
		for id := range removed {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for k := len(ids) - 1; k >= 0; k-- {
			c := mustCell(t, m, cells[ids[k]]...)
			assert.Equal(t, ids[k], c.ID())
		}
		assertConsistent(t, m)
		assert.Equal(t, wantFacets, m.NumFacets())
	}

	var i int
	for v := range m.Vertices() {
		assert.Equal(t, stars[i], m.Star(v))
		i++
	}
	EToE, _ := m.Connectivity()
	interior := 0
	for _, row := range EToE {
		for _, e := range row {
			if e >= 0 {
				interior++
			}
		}
	}
	assert.Equal(t, 2*(wantFacets-4*n), interior)
}
