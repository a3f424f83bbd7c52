package main

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Scene holds every projected patch inside the axes cube.
type Scene struct {
	Min, Max mgl64.Vec3
	Patches  []SpatialPatch
}

func NewScene(min, max mgl64.Vec3) *Scene {
	return &Scene{Min: min, Max: max}
}

func (s *Scene) Add(p SpatialPatch) {
	s.Patches = append(s.Patches, p)
}

// Corners returns the eight box corners: the front
// face (z = max) counter-clockwise, then the back face (z = min).
func (s *Scene) Corners() [8]mgl64.Vec3 {
	lo, hi := s.Min, s.Max
	return [8]mgl64.Vec3{
		{lo[0], lo[1], hi[2]},
		{hi[0], lo[1], hi[2]},
		{hi[0], hi[1], hi[2]},
		{lo[0], hi[1], hi[2]},
		{lo[0], lo[1], lo[2]},
		{hi[0], lo[1], lo[2]},
		{hi[0], hi[1], lo[2]},
		{lo[0], hi[1], lo[2]},
	}
}

// boxEdges indexes Corners in pairs, one pair per cube edge.
var boxEdges = []uint32{
	0, 1, 1, 2, 2, 3, 3, 0, // Front face
	4, 5, 5, 6, 6, 7, 7, 4, // Back face
	0, 4, 1, 5, 2, 6, 3, 7, // Connecting lines
}

// DepthOrder returns patch indices sorted farthest from eye first.
func (s *Scene) DepthOrder(eye mgl64.Vec3) []int {
	dist := make([]float64, len(s.Patches))
	order := make([]int, len(s.Patches))
	for i, p := range s.Patches {
		dist[i] = p.Centroid().Sub(eye).Len()
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return dist[order[a]] > dist[order[b]]
	})
	return order
}
