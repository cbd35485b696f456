package element

import (
	"errors"
	"fmt"
)

// Dimensionality represents the topological dimension of a cell shape
type Dimensionality uint8

const (
	D0 Dimensionality = iota // points
	D1                       // edges
	D2                       // triangles, quadrangles
	D3                       // tetrahedra, hexahedra
)

func (d Dimensionality) String() string {
	return fmt.Sprintf("%dD", int(d))
}

// Shape identifies the cell shape of a mesh. A mesh holds cells of one shape.
type Shape uint8

const (
	Edge Shape = iota
	Triangle
	Quadrangle
	Tetrahedron
	Hexahedron
	numShapes
)

var ErrUnknownShape = errors.New("unknown cell shape")

var shapeNames = [numShapes]string{"Edge", "Triangle", "Quadrangle", "Tetrahedron", "Hexahedron"}

// Short names follow the gocfd element type names
var shapeShortNames = [numShapes]string{"Line", "Triangle", "Quad", "Tet", "Hex"}

func (s Shape) String() string {
	if s >= numShapes {
		return "Invalid"
	}
	return shapeNames[s]
}

// ShortName returns the gocfd/gmsh style element type name
func (s Shape) ShortName() string {
	if s >= numShapes {
		return "Invalid"
	}
	return shapeShortNames[s]
}

// Valid reports whether s is one of the supported shapes
func (s Shape) Valid() bool {
	return s < numShapes
}

// Shapes returns every supported shape in enum order
func Shapes() []Shape {
	shapes := make([]Shape, numShapes)
	for i := range shapes {
		shapes[i] = Shape(i)
	}
	return shapes
}

// ParseShape maps a full or short shape name to its Shape
func ParseShape(name string) (Shape, error) {
	for i := Shape(0); i < numShapes; i++ {
		if name == shapeNames[i] || name == shapeShortNames[i] {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownShape, name)
}

// Dimensions returns the topological dimension of the shape
func (s Shape) Dimensions() Dimensionality {
	switch s {
	case Edge:
		return D1
	case Triangle, Quadrangle:
		return D2
	case Tetrahedron, Hexahedron:
		return D3
	default:
		return D0
	}
}

// NumVertices returns the number of vertices of the shape
func (s Shape) NumVertices() int {
	switch s {
	case Edge:
		return 2
	case Triangle:
		return 3
	case Quadrangle, Tetrahedron:
		return 4
	case Hexahedron:
		return 8
	default:
		return 0
	}
}

// NumFacets returns the number of codimension-1 entities of the shape
func (s Shape) NumFacets() int {
	switch s {
	case Edge:
		return 2
	case Triangle:
		return 3
	case Quadrangle, Tetrahedron:
		return 4
	case Hexahedron:
		return 6
	default:
		return 0
	}
}

// NumRidges returns the number of codimension-2 entities tracked for the
// shape. Only 3-D shapes carry ridges.
func (s Shape) NumRidges() int {
	switch s {
	case Tetrahedron:
		return 6
	case Hexahedron:
		return 12
	default:
		return 0
	}
}

// NumFacetVertices returns the number of vertices on each facet
func (s Shape) NumFacetVertices() int {
	switch s {
	case Edge:
		return 1
	case Triangle, Quadrangle:
		return 2
	case Tetrahedron:
		return 3
	case Hexahedron:
		return 4
	default:
		return 0
	}
}
