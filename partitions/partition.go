package partitions

import (
	"fmt"

	"github.com/notargets/DGTopo/element"
	"github.com/notargets/DGTopo/mesh"
)

// Partition is a group of cells processed together. Element ids are
// contiguous cell ids of the mesh the layout was built from.
type Partition struct {
	// Unique identifier for this partition
	ID int

	// Element membership
	Elements    []int        // Contiguous cell ids in this partition
	Cells       []mesh.CellH // Handles of the same cells, for mesh queries
	NumElements int          // Actual number of elements
	MaxElements int          // Padded size shared by all partitions (KpartMax)
}

// PartitionLayout manages the complete mesh decomposition
type PartitionLayout struct {
	// All partitions in the mesh
	Partitions []Partition

	// Cell shape of the partitioned mesh
	Shape element.Shape

	// Global sizing information
	KpartMax      int // max(NumElements) across all partitions
	TotalElements int // Sum of all actual elements across partitions
	NumPartitions int // Total number of partitions

	// Element to partition mapping
	EToP []int // Length TotalElements: element k belongs to partition EToP[k]
}

// GetPartition returns the partition containing element k
func (pl *PartitionLayout) GetPartition(elementID int) int {
	if elementID < 0 || elementID >= len(pl.EToP) {
		return -1
	}
	return pl.EToP[elementID]
}

// ValidateLayout checks partition consistency
func (pl *PartitionLayout) ValidateLayout() error {
	if len(pl.Partitions) != pl.NumPartitions {
		return fmt.Errorf("%d partitions stored, NumPartitions is %d",
			len(pl.Partitions), pl.NumPartitions)
	}
	if len(pl.EToP) != pl.TotalElements {
		return fmt.Errorf("EToP has %d entries for %d elements", len(pl.EToP), pl.TotalElements)
	}

	// Verify KpartMax
	actualMax := 0
	total := 0
	for _, p := range pl.Partitions {
		if p.NumElements != len(p.Elements) {
			return fmt.Errorf("partition %d: NumElements %d != %d listed elements",
				p.ID, p.NumElements, len(p.Elements))
		}
		actualMax = max(actualMax, p.NumElements)
		total += p.NumElements
		if p.MaxElements != pl.KpartMax {
			return fmt.Errorf("partition %d: MaxElements %d != KpartMax %d",
				p.ID, p.MaxElements, pl.KpartMax)
		}
		for _, k := range p.Elements {
			if got := pl.GetPartition(k); got != p.ID {
				return fmt.Errorf("element %d listed in partition %d but EToP says %d", k, p.ID, got)
			}
		}
	}
	if actualMax != pl.KpartMax {
		return fmt.Errorf("computed KpartMax %d != stored KpartMax %d",
			actualMax, pl.KpartMax)
	}
	if total != pl.TotalElements {
		return fmt.Errorf("partitions hold %d elements, TotalElements is %d", total, pl.TotalElements)
	}
	return nil
}
