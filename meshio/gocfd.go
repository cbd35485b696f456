// Package meshio moves meshes between the topology engine and the gocfd mesh
// readers (Gmsh, Gambit neutral and SU2 files).
package meshio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/notargets/DGTopo/element"
	"github.com/notargets/DGTopo/mesh"
	gmesh "github.com/notargets/gocfd/DG3D/mesh"
	"github.com/notargets/gocfd/DG3D/mesh/readers"
	"github.com/notargets/gocfd/utils"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	ErrNoCells    = errors.New("meshio: no supported cells in mesh")
	ErrMixedShape = errors.New("meshio: mixed cell shapes")
)

// Options control an import
type Options struct {
	DropPoints bool      // build a topology-only mesh
	Verbose    bool      // report progress
	Log        io.Writer // progress destination, os.Stdout when nil
}

func (o Options) logf(format string, args ...any) {
	if !o.Verbose {
		return
	}
	w := o.Log
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintf(w, format, args...)
}

// ShapeOf maps a gocfd element type onto a cell shape. Higher order types map
// onto the shape of their corner nodes.
func ShapeOf(et utils.ElementType) (element.Shape, bool) {
	switch et {
	case utils.Line, utils.Line3:
		return element.Edge, true
	case utils.Triangle, utils.Triangle6, utils.Triangle9, utils.Triangle10:
		return element.Triangle, true
	case utils.Quad, utils.Quad8, utils.Quad9:
		return element.Quadrangle, true
	case utils.Tet, utils.Tet10:
		return element.Tetrahedron, true
	case utils.Hex, utils.Hex20, utils.Hex27:
		return element.Hexahedron, true
	}
	return 0, false
}

// ElementType is the linear gocfd element type of shape
func ElementType(shape element.Shape) utils.ElementType {
	switch shape {
	case element.Edge:
		return utils.Line
	case element.Triangle:
		return utils.Triangle
	case element.Quadrangle:
		return utils.Quad
	case element.Tetrahedron:
		return utils.Tet
	case element.Hexahedron:
		return utils.Hex
	}
	return utils.Unknown
}

// ReadFile reads a mesh file with the gocfd readers and builds its topology
func ReadFile(path string, opts Options) (*mesh.Mesh, error) {
	gm, err := readers.ReadMeshFile(path)
	if err != nil {
		return nil, fmt.Errorf("meshio: reading %s: %w", path, err)
	}
	opts.logf("Meshfile: %s has %d elements and %d vertices\n", path, gm.NumElements, len(gm.Vertices))
	return FromGocfd(gm, opts)
}

// FromGocfd builds the topology of the highest dimensional cells of gm. Lower
// dimensional elements (boundary faces, edges, points) are skipped. Every gocfd
// vertex becomes a mesh vertex with the same index, and the first element tag
// becomes the cell tag.
func FromGocfd(gm *gmesh.Mesh, opts Options) (*mesh.Mesh, error) {
	shape, err := cellShape(gm)
	if err != nil {
		return nil, err
	}
	m, err := mesh.New(mesh.Config{
		Shape:      shape,
		DropPoints: opts.DropPoints,
		Capacity:   len(gm.Vertices),
	})
	if err != nil {
		return nil, err
	}

	for _, x := range gm.Vertices {
		var v r3.Vec
		if len(x) > 0 {
			v.X = x[0]
		}
		if len(x) > 1 {
			v.Y = x[1]
		}
		if len(x) > 2 {
			v.Z = x[2]
		}
		m.AddVertex(v, 0)
	}

	dim := shape.Dimensions()
	var skipped int
	for k, et := range gm.ElementTypes {
		s, ok := ShapeOf(et)
		if !ok || s.Dimensions() != dim {
			skipped++
			continue
		}
		corners := et.GetCornerNodes()
		ids := make([]int, len(corners))
		for i, c := range corners {
			if c >= len(gm.EtoV[k]) || gm.EtoV[k][c] < 0 {
				return nil, fmt.Errorf("meshio: element %d (%s) is missing corner node %d", k, et, c)
			}
			ids[i] = gm.EtoV[k][c]
		}
		c, err := m.AddCellIDs(ids...)
		if err != nil {
			return nil, fmt.Errorf("meshio: element %d: %w", k, err)
		}
		if len(gm.ElementTags) > k && len(gm.ElementTags[k]) > 0 {
			c.SetTag(m, clampTag(gm.ElementTags[k][0]))
		}
	}
	opts.logf("Built %d %s cells, %d facets, %d ridges (%d lower dimensional elements skipped)\n",
		m.NumCells(), shape.ShortName(), m.NumFacets(), m.NumRidges(), skipped)
	return m, nil
}

// cellShape picks the single shape of the highest dimensional elements
func cellShape(gm *gmesh.Mesh) (element.Shape, error) {
	var (
		found bool
		shape element.Shape
	)
	for _, et := range gm.ElementTypes {
		s, ok := ShapeOf(et)
		if !ok {
			continue
		}
		switch {
		case !found || s.Dimensions() > shape.Dimensions():
			shape, found = s, true
		case s.Dimensions() == shape.Dimensions() && s != shape:
			return 0, fmt.Errorf("%w: %s and %s", ErrMixedShape, shape, s)
		}
	}
	if !found {
		return 0, ErrNoCells
	}
	return shape, nil
}

func clampTag(t int) int8 {
	return int8(min(max(t, math.MinInt8), math.MaxInt8))
}

// ToEToV returns the element to vertex table of m in contiguous ids, the
// layout gocfd solvers consume
func ToEToV(m *mesh.Mesh) [][]int {
	etov := make([][]int, 0, m.NumCells())
	for c := range m.Cells() {
		verts := c.Vertices(m)
		row := make([]int, len(verts))
		for i, v := range verts {
			row[i] = v.ContiguousID(m)
		}
		etov = append(etov, row)
	}
	return etov
}

// ToGocfd copies the live cells and vertices of m into a new gocfd mesh with
// 1-based node and element ids
func ToGocfd(m *mesh.Mesh) (*gmesh.Mesh, error) {
	gm := gmesh.NewMesh()
	for v := range m.Vertices() {
		var x r3.Vec
		if m.HasGeometry() {
			var err error
			if x, err = v.Coord(m); err != nil {
				return nil, err
			}
		}
		gm.AddNode(v.ContiguousID(m)+1, []float64{x.X, x.Y, x.Z})
	}
	et := ElementType(m.Shape())
	cells := m.CompactedCells()
	for k, row := range ToEToV(m) {
		nodes := make([]int, len(row))
		for i, v := range row {
			nodes[i] = v + 1
		}
		c := mesh.NewCellH(cells[k])
		if err := gm.AddElement(k+1, et, []int{int(c.Tag(m))}, nodes); err != nil {
			return nil, fmt.Errorf("meshio: %w", err)
		}
	}
	return gm, nil
}
