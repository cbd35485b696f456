package element

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
)

// Tables holds the local incidence tables of one cell shape. Every row lists
// local indices; FacetVertices order is the canonical traversal of each facet
// and is what facet matching treats as anchor 0.
type Tables struct {
	Shape Shape
	Nv    int // vertices per cell
	Nf    int // facets per cell
	Nr    int // ridges per cell
	Nfv   int // vertices per facet

	FacetVertices [][]int // [Nf][Nfv]
	VertexFacets  [][]int // [Nv][...] facets touching each vertex, ascending
	FacetRidges   [][]int // [Nf][Nfv] ridge between facet vertex k and k+1 (3D only)
	RidgeVertices [][]int // [Nr][2]
	RidgeFacets   [][]int // [Nr][2] the two facets sharing each ridge, ascending
}

// Hand-derived facet orderings. 3D facets are oriented with outward normals for
// a positively oriented cell, so two consistently oriented neighbors traverse a
// shared facet in opposite directions.
var facetVertexTables = [numShapes][][]int{
	Edge:       {{0}, {1}},
	Triangle:   {{0, 1}, {1, 2}, {2, 0}},
	Quadrangle: {{0, 1}, {1, 2}, {2, 3}, {3, 0}},
	Tetrahedron: {
		{1, 0, 2},
		{0, 1, 3},
		{1, 2, 3},
		{2, 0, 3},
	},
	Hexahedron: {
		{0, 3, 2, 1}, // z = 0
		{0, 1, 5, 4}, // y = 0
		{1, 2, 6, 5}, // x = 1
		{2, 3, 7, 6}, // y = 1
		{3, 0, 4, 7}, // x = 0
		{4, 5, 6, 7}, // z = 1
	},
}

var ridgeVertexTables = [numShapes][][]int{
	Tetrahedron: {
		{0, 1}, {1, 2}, {2, 0},
		{0, 3}, {1, 3}, {2, 3},
	},
	Hexahedron: {
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
	},
}

type registryEntry struct {
	once   sync.Once
	tables atomic.Pointer[Tables]
}

var registry [numShapes]registryEntry

// Init builds the tables of shape once for the lifetime of the process.
// It must be called before any mesh of that shape is created; calling it again
// is cheap and returns the cached tables.
func Init(shape Shape) (*Tables, error) {
	if !shape.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownShape, shape)
	}
	entry := &registry[shape]
	entry.once.Do(func() {
		entry.tables.Store(buildTables(shape))
	})
	return entry.tables.Load(), nil
}

// Initialized reports whether Init has completed for shape
func Initialized(shape Shape) bool {
	return shape.Valid() && registry[shape].tables.Load() != nil
}

// TablesFor returns the cached tables of shape. Calling it before Init is a
// programming error and panics.
func TablesFor(shape Shape) *Tables {
	if !shape.Valid() {
		panic(fmt.Errorf("%w: %d", ErrUnknownShape, shape))
	}
	t := registry[shape].tables.Load()
	if t == nil {
		panic(fmt.Sprintf("element: tables for %s used before Init", shape))
	}
	return t
}

func buildTables(shape Shape) *Tables {
	t := &Tables{
		Shape: shape,
		Nv:    shape.NumVertices(),
		Nf:    shape.NumFacets(),
		Nr:    shape.NumRidges(),
		Nfv:   shape.NumFacetVertices(),
	}
	t.FacetVertices = cloneTable(facetVertexTables[shape])
	t.RidgeVertices = cloneTable(ridgeVertexTables[shape])

	t.VertexFacets = make([][]int, t.Nv)
	for f, fv := range t.FacetVertices {
		for _, v := range fv {
			t.VertexFacets[v] = append(t.VertexFacets[v], f)
		}
	}

	if t.Nr == 0 {
		return t
	}

	t.FacetRidges = make([][]int, t.Nf)
	t.RidgeFacets = make([][]int, t.Nr)
	for f, fv := range t.FacetVertices {
		t.FacetRidges[f] = make([]int, len(fv))
		for k := range fv {
			a, b := fv[k], fv[(k+1)%len(fv)]
			r := t.RidgeOf(a, b)
			if r < 0 {
				panic(fmt.Sprintf("element: %s facet %d edge (%d,%d) is not a ridge", shape, f, a, b))
			}
			t.FacetRidges[f][k] = r
			t.RidgeFacets[r] = append(t.RidgeFacets[r], f)
		}
	}
	for r, rf := range t.RidgeFacets {
		if len(rf) != 2 {
			panic(fmt.Sprintf("element: %s ridge %d bounds %d facets", shape, r, len(rf)))
		}
		slices.Sort(rf)
	}
	return t
}

// RidgeOf returns the local ridge joining local vertices a and b, or -1 when
// the pair is not a ridge of the shape (e.g. a hexahedron diagonal)
func (t *Tables) RidgeOf(a, b int) int {
	for r, rv := range t.RidgeVertices {
		if (rv[0] == a && rv[1] == b) || (rv[0] == b && rv[1] == a) {
			return r
		}
	}
	return -1
}

// FacetOf returns the local facet whose vertex set equals localVerts in any
// order, or -1
func (t *Tables) FacetOf(localVerts []int) int {
	if len(localVerts) != t.Nfv {
		return -1
	}
	for f, fv := range t.FacetVertices {
		match := true
		for _, v := range localVerts {
			if !slices.Contains(fv, v) {
				match = false
				break
			}
		}
		if match {
			return f
		}
	}
	return -1
}

func cloneTable(src [][]int) [][]int {
	if src == nil {
		return nil
	}
	dst := make([][]int, len(src))
	for i, row := range src {
		dst[i] = slices.Clone(row)
	}
	return dst
}
