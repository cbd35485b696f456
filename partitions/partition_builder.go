package partitions

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/notargets/DGTopo/element"
	"github.com/notargets/DGTopo/mesh"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	ErrNoElements = errors.New("partitions: mesh has no cells")
	ErrNoGeometry = errors.New("partitions: strategy needs cell centroids")
)

// PartitionBuilder constructs partitions from mesh connectivity
type PartitionBuilder struct {
	// Mesh connectivity
	Mesh *MeshConnectivity

	// Partitioning parameters
	TargetPartitionSize int // Desired elements per partition
	Strategy            PartitionStrategy
}

// MeshConnectivity provides the mesh topology needed for partitioning, in
// contiguous cell ids
type MeshConnectivity struct {
	NumElements int
	Shape       element.Shape
	Cells       []mesh.CellH // contiguous id -> cell handle

	// Face connectivity for minimizing communication
	EToE [][]int // Element-to-element connectivity, -1 on the boundary
	EToF [][]int // Element-to-face connectivity, -1 on the boundary

	// Faces held by more than two elements are mesh.SingularNeighbor in
	// EToE; Singular lists every other element face sharing them
	Singular map[FaceRef][]FaceRef

	// Cell adjacency graph, nodes are contiguous cell ids
	Dual *simple.UndirectedGraph

	// Vertex average of each cell, nil for meshes without geometry
	Centroids []r3.Vec
}

// FaceRef names local face Face of element Element
type FaceRef struct {
	Element, Face int
}

// FromMesh extracts the partitioning inputs from a mesh
func FromMesh(m *mesh.Mesh) (*MeshConnectivity, error) {
	if m.NumCells() == 0 {
		return nil, ErrNoElements
	}
	mc := &MeshConnectivity{
		NumElements: m.NumCells(),
		Shape:       m.Shape(),
		Cells:       make([]mesh.CellH, 0, m.NumCells()),
		Dual:        m.DualGraph(),
	}
	mc.EToE, mc.EToF = m.Connectivity()
	for c := range m.Cells() {
		mc.Cells = append(mc.Cells, c)
	}
	for k, row := range mc.EToE {
		for i, e := range row {
			if e != mesh.SingularNeighbor {
				continue
			}
			if mc.Singular == nil {
				mc.Singular = make(map[FaceRef][]FaceRef)
			}
			f := mc.Cells[k].Facets(m)[i]
			for _, h := range m.FacetCells(f) {
				if h == mc.Cells[k] {
					continue
				}
				mc.Singular[FaceRef{k, i}] = append(mc.Singular[FaceRef{k, i}],
					FaceRef{h.ContiguousID(m), slices.Index(h.Facets(m), f)})
			}
		}
	}
	if !m.HasGeometry() {
		return mc, nil
	}
	mc.Centroids = make([]r3.Vec, 0, mc.NumElements)
	for _, c := range mc.Cells {
		var sum r3.Vec
		verts := c.Vertices(m)
		for _, v := range verts {
			x, err := v.Coord(m)
			if err != nil {
				return nil, fmt.Errorf("centroid of cell %d: %w", c.ID(), err)
			}
			sum = r3.Add(sum, x)
		}
		mc.Centroids = append(mc.Centroids, r3.Scale(1/float64(len(verts)), sum))
	}
	return mc, nil
}

// PartitionStrategy defines how elements are grouped
type PartitionStrategy int

const (
	// Simple strategies
	BlockPartition PartitionStrategy = iota // Consecutive elements
	RoundRobin                              // Distribute cyclically

	// Ordering strategies, blocked after reordering
	GraphPartition    // Breadth-first order over the dual graph
	SpaceFillingCurve // Morton order of cell centroids
)

func (s PartitionStrategy) String() string {
	switch s {
	case BlockPartition:
		return "Block"
	case RoundRobin:
		return "RoundRobin"
	case GraphPartition:
		return "Graph"
	case SpaceFillingCurve:
		return "SpaceFillingCurve"
	}
	return fmt.Sprintf("PartitionStrategy(%d)", int(s))
}

// BuildPartitions creates a partition layout from mesh connectivity
func (pb *PartitionBuilder) BuildPartitions() (*PartitionLayout, error) {
	if pb.Mesh == nil || pb.Mesh.NumElements == 0 {
		return nil, ErrNoElements
	}
	if pb.TargetPartitionSize < 1 {
		return nil, fmt.Errorf("target partition size %d must be positive", pb.TargetPartitionSize)
	}

	// Determine number of partitions needed
	numPartitions := pb.calculateNumPartitions()

	// Partition the elements
	eToP, err := pb.partitionElements(numPartitions)
	if err != nil {
		return nil, err
	}

	// Create partition structures
	partitions := pb.createPartitions(eToP, numPartitions)

	// Calculate KpartMax
	kpartMax := 0
	for _, p := range partitions {
		kpartMax = max(kpartMax, p.NumElements)
	}

	// Set MaxElements for all partitions
	for i := range partitions {
		partitions[i].MaxElements = kpartMax
	}

	// Create the layout
	layout := &PartitionLayout{
		Partitions:    partitions,
		Shape:         pb.Mesh.Shape,
		KpartMax:      kpartMax,
		TotalElements: pb.Mesh.NumElements,
		NumPartitions: numPartitions,
		EToP:          eToP,
	}

	// Validate the layout
	if err := layout.ValidateLayout(); err != nil {
		return nil, fmt.Errorf("invalid partition layout: %w", err)
	}

	return layout, nil
}

// calculateNumPartitions determines optimal partition count
func (pb *PartitionBuilder) calculateNumPartitions() int {
	numPartitions := int(math.Ceil(float64(pb.Mesh.NumElements) / float64(pb.TargetPartitionSize)))
	return max(numPartitions, 1)
}

// partitionElements assigns elements to partitions
func (pb *PartitionBuilder) partitionElements(numPartitions int) ([]int, error) {
	K := pb.Mesh.NumElements
	switch pb.Strategy {
	case BlockPartition:
		return blockAssign(identityOrder(K), numPartitions), nil

	case RoundRobin:
		eToP := make([]int, K)
		for i := range eToP {
			eToP[i] = i % numPartitions
		}
		return eToP, nil

	case GraphPartition:
		return blockAssign(pb.Mesh.BreadthFirstOrder(), numPartitions), nil

	case SpaceFillingCurve:
		order, err := pb.Mesh.MortonOrder()
		if err != nil {
			return nil, err
		}
		return blockAssign(order, numPartitions), nil
	}
	return nil, fmt.Errorf("unknown partition strategy %s", pb.Strategy)
}

// blockAssign cuts order into numPartitions consecutive blocks
func blockAssign(order []int, numPartitions int) []int {
	eToP := make([]int, len(order))
	elementsPerPartition := int(math.Ceil(float64(len(order)) / float64(numPartitions)))
	for pos, elem := range order {
		eToP[elem] = min(pos/elementsPerPartition, numPartitions-1)
	}
	return eToP
}

func identityOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// BreadthFirstOrder lists the elements component by component, each
// component walked breadth-first from its smallest element
func (mc *MeshConnectivity) BreadthFirstOrder() []int {
	order := make([]int, 0, mc.NumElements)
	var bf traverse.BreadthFirst
	for k := 0; k < mc.NumElements; k++ {
		if bf.Visited(simple.Node(k)) {
			continue
		}
		bf.Walk(mc.Dual, simple.Node(k), func(n graph.Node, _ int) bool {
			order = append(order, int(n.ID()))
			return false
		})
	}
	return order
}

// MortonOrder sorts the elements along a Z-order curve through their
// centroids
func (mc *MeshConnectivity) MortonOrder() ([]int, error) {
	if len(mc.Centroids) != mc.NumElements {
		return nil, ErrNoGeometry
	}
	lo, hi := mc.Centroids[0], mc.Centroids[0]
	for _, x := range mc.Centroids[1:] {
		lo = r3.Vec{X: min(lo.X, x.X), Y: min(lo.Y, x.Y), Z: min(lo.Z, x.Z)}
		hi = r3.Vec{X: max(hi.X, x.X), Y: max(hi.Y, x.Y), Z: max(hi.Z, x.Z)}
	}
	ext := r3.Sub(hi, lo)
	const cells = 1<<21 - 1
	quantize := func(x, lo, ext float64) uint64 {
		if ext == 0 {
			return 0
		}
		return uint64((x - lo) / ext * cells)
	}
	codes := make([]uint64, mc.NumElements)
	for k, x := range mc.Centroids {
		codes[k] = spreadBits(quantize(x.X, lo.X, ext.X)) |
			spreadBits(quantize(x.Y, lo.Y, ext.Y))<<1 |
			spreadBits(quantize(x.Z, lo.Z, ext.Z))<<2
	}
	order := identityOrder(mc.NumElements)
	slices.SortStableFunc(order, func(a, b int) int {
		switch {
		case codes[a] < codes[b]:
			return -1
		case codes[a] > codes[b]:
			return 1
		}
		return 0
	})
	return order, nil
}

// spreadBits moves the low 21 bits of x to every third bit position
func spreadBits(x uint64) uint64 {
	x &= 0x1fffff
	x = (x | x<<32) & 0x1f00000000ffff
	x = (x | x<<16) & 0x1f0000ff0000ff
	x = (x | x<<8) & 0x100f00f00f00f00f
	x = (x | x<<4) & 0x10c30c30c30c30c3
	x = (x | x<<2) & 0x1249249249249249
	return x
}

// createPartitions builds partition structures from element assignments
func (pb *PartitionBuilder) createPartitions(eToP []int, numPartitions int) []Partition {
	partitions := make([]Partition, numPartitions)

	// Initialize partitions
	for i := range partitions {
		partitions[i] = Partition{
			ID:       i,
			Elements: make([]int, 0),
		}
	}

	// Assign elements to partitions
	for elem, part := range eToP {
		partitions[part].Elements = append(partitions[part].Elements, elem)
		if pb.Mesh.Cells != nil {
			partitions[part].Cells = append(partitions[part].Cells, pb.Mesh.Cells[elem])
		}
		partitions[part].NumElements++
	}

	return partitions
}

// PartitionStatistics computes load balance metrics
func (layout *PartitionLayout) PartitionStatistics() PartitionStats {
	stats := PartitionStats{
		NumPartitions: layout.NumPartitions,
		MinElements:   math.MaxInt32,
		MaxElements:   0,
		AvgElements:   float64(layout.TotalElements) / float64(layout.NumPartitions),
	}

	for _, p := range layout.Partitions {
		if p.NumElements < stats.MinElements {
			stats.MinElements = p.NumElements
		}
		if p.NumElements > stats.MaxElements {
			stats.MaxElements = p.NumElements
		}
	}

	stats.Imbalance = float64(stats.MaxElements) / stats.AvgElements

	return stats
}

type PartitionStats struct {
	NumPartitions int
	MinElements   int
	MaxElements   int
	AvgElements   float64
	Imbalance     float64 // MaxElements / AvgElements
}
