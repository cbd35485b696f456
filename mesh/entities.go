package mesh

import (
	"github.com/notargets/DGTopo/store"
	"gonum.org/v1/gonum/spatial/r3"
)

// NullID marks an empty adjacency slot
const NullID = -1

// Vertex holds the star of a vertex: the sorted, duplicate-free ids of the
// live cells that contain it.
type Vertex struct {
	store.Label
	star []int
}

// Point is the coordinate record stored at the same id as its Vertex
type Point struct {
	store.Label
	X r3.Vec
}

// Cell holds the global ids of its vertices, facets and ridges in local order
type Cell struct {
	store.Label
	verts  []int
	facets []int
	ridges []int // empty for 1-D and 2-D shapes
}

// Facet is a codimension-1 entity. icell/localID name one incident cell and
// the facet's local index in it; oppCell is the last cell stitched to it.
type Facet struct {
	store.Label
	icell   int
	localID int
	oppCell int
	valency int
}

// Ridge is a codimension-2 entity of a 3-D mesh
type Ridge struct {
	store.Label
	icell   int
	localID int
	valency int
}

type (
	vertexStore = store.Store[Vertex, *Vertex]
	pointStore  = store.Store[Point, *Point]
	cellStore   = store.Store[Cell, *Cell]
	facetStore  = store.Store[Facet, *Facet]
	ridgeStore  = store.Store[Ridge, *Ridge]
)
