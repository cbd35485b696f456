package partitions

import (
	"fmt"
	"slices"

	"github.com/notargets/DGTopo/mesh"
)

// FaceCommunication describes a face whose two cells live in different
// partitions
type FaceCommunication struct {
	LocalElement    int // Element index within partition
	LocalFace       int // Face index within element
	RemotePartition int // Target partition ID
	RemoteElement   int // Contiguous cell id in the remote partition
	RemoteFace      int // Face index in remote element
}

// InterfaceFaces returns, per partition, the faces shared with another
// partition, in element then face order
func InterfaceFaces(layout *PartitionLayout, mc *MeshConnectivity) (map[int][]FaceCommunication, error) {
	if len(mc.EToE) != layout.TotalElements {
		return nil, fmt.Errorf("connectivity has %d elements, layout %d",
			len(mc.EToE), layout.TotalElements)
	}
	patterns := make(map[int][]FaceCommunication)

	// For each partition
	for partID, partition := range layout.Partitions {
		var faceComm []FaceCommunication
		send := func(localElem, face int, remote FaceRef) {
			// Check if neighbor is in different partition
			neighborPart := layout.GetPartition(remote.Element)
			if neighborPart != partID && neighborPart >= 0 {
				faceComm = append(faceComm, FaceCommunication{
					LocalElement:    localElem,
					LocalFace:       face,
					RemotePartition: neighborPart,
					RemoteElement:   remote.Element,
					RemoteFace:      remote.Face,
				})
			}
		}

		// For each element in partition
		for localElemIdx, globalElem := range partition.Elements {
			// For each face of element
			for face, neighbor := range mc.EToE[globalElem] {
				switch {
				case neighbor == mesh.SingularNeighbor:
					// One entry per other element around the face
					for _, remote := range mc.Singular[FaceRef{globalElem, face}] {
						send(localElemIdx, face, remote)
					}
				case neighbor < 0 || neighbor == globalElem:
					// Boundary face
				default:
					send(localElemIdx, face, FaceRef{neighbor, mc.EToF[globalElem][face]})
				}
			}
		}
		patterns[partID] = faceComm
	}

	if err := validateCommunicationSymmetry(layout, patterns); err != nil {
		return nil, fmt.Errorf("asymmetric partition interface: %w", err)
	}
	return patterns, nil
}

// NeighborPartitions returns the sorted ids of the partitions partID shares
// faces with
func NeighborPartitions(patterns map[int][]FaceCommunication, partID int) []int {
	var out []int
	for _, fc := range patterns[partID] {
		if !slices.Contains(out, fc.RemotePartition) {
			out = append(out, fc.RemotePartition)
		}
	}
	slices.Sort(out)
	return out
}

// validateCommunicationSymmetry verifies that if partition A sends a face to
// partition B, then B lists the same face coming back from A
func validateCommunicationSymmetry(layout *PartitionLayout, patterns map[int][]FaceCommunication) error {
	type link struct{ from, to FaceRef }
	sends := make(map[link]bool)
	for partID, faces := range patterns {
		for _, fc := range faces {
			from := FaceRef{layout.Partitions[partID].Elements[fc.LocalElement], fc.LocalFace}
			sends[link{from, FaceRef{fc.RemoteElement, fc.RemoteFace}}] = true
		}
	}
	for l := range sends {
		if !sends[link{l.to, l.from}] {
			return fmt.Errorf("element %d face %d sends to element %d face %d, which does not send back",
				l.from.Element, l.from.Face, l.to.Element, l.to.Face)
		}
	}
	return nil
}

// String summarizes the load balance of the layout
func (layout *PartitionLayout) String() string {
	stats := layout.PartitionStatistics()
	return fmt.Sprintf("%d %s partitions: elements min %d max %d avg %.1f, imbalance %.3f",
		stats.NumPartitions, layout.Shape.ShortName(), stats.MinElements, stats.MaxElements,
		stats.AvgElements, stats.Imbalance)
}
