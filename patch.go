package main

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// PlanarPatch is a flat disk in its own XY plane.
type PlanarPatch struct {
	Center   mgl64.Vec2
	Radius   float64
	Segments int
	Fill     color.NRGBA
}

// NewDisk returns a disk centred at center.
func NewDisk(center mgl64.Vec2, radius float64, segments int, fill color.NRGBA) PlanarPatch {
	return PlanarPatch{Center: center, Radius: radius, Segments: segments, Fill: fill}
}

// Vertices applies the patch transform (scale by Radius, move to Center) to
// the unit circle boundary.
func (p PlanarPatch) Vertices() []mgl64.Vec2 {
	n := p.Segments
	if n < 3 {
		n = circleSegments
	}
	verts := make([]mgl64.Vec2, n)
	for i := range verts {
		t := 2 * math.Pi * float64(i) / float64(n)
		s, c := math.Sincos(t)
		verts[i] = mgl64.Vec2{c, s}.Mul(p.Radius).Add(p.Center)
	}
	return verts
}

// SpatialPatch is a patch embedded in 3D space.
type SpatialPatch struct {
	Vertices []mgl64.Vec3
	Fill     color.NRGBA
}

// ParseAxis resolves "x", "y" or "z" to its unit basis vector.
func ParseAxis(name string) (mgl64.Vec3, error) {
	switch name {
	case "x":
		return mgl64.Vec3{1, 0, 0}, nil
	case "y":
		return mgl64.Vec3{0, 1, 0}, nil
	case "z":
		return mgl64.Vec3{0, 0, 1}, nil
	}
	return mgl64.Vec3{}, errors.Errorf("unknown axis %q", name)
}

// ProjectAxis is Project with a named axis as the normal.
func ProjectAxis(p PlanarPatch, z float64, axis string) (SpatialPatch, error) {
	normal, err := ParseAxis(axis)
	if err != nil {
		return SpatialPatch{}, err
	}
	return Project(p, z, normal)
}

// Project rotates the patch so that its plane is perpendicular to normal and
// lifts it by z.
func Project(p PlanarPatch, z float64, normal mgl64.Vec3) (SpatialPatch, error) {
	if normal.Len() == 0 {
		return SpatialPatch{}, errors.New("zero normal vector")
	}
	normal = normal.Normalize()

	m, err := RotationMatrix(normal.Cross(zAxis))
	if err != nil {
		return SpatialPatch{}, errors.Wrap(err, "project patch")
	}

	lift := mgl64.Vec3{0, 0, z}
	flat := p.Vertices()
	verts := make([]mgl64.Vec3, len(flat))
	for i, v := range flat {
		verts[i] = m.Mul3x1(mgl64.Vec3{v[0], v[1], 0}).Add(lift)
	}
	return SpatialPatch{Vertices: verts, Fill: p.Fill}, nil
}

// Translate shifts every vertex by delta.
func (s *SpatialPatch) Translate(delta mgl64.Vec3) {
	for i := range s.Vertices {
		s.Vertices[i] = s.Vertices[i].Add(delta)
	}
}

// TranslateScalar shifts every vertex by d along each axis.
func (s *SpatialPatch) TranslateScalar(d float64) {
	s.Translate(mgl64.Vec3{d, d, d})
}

// Centroid is the mean of the boundary vertices.
func (s SpatialPatch) Centroid() mgl64.Vec3 {
	var c mgl64.Vec3
	if len(s.Vertices) == 0 {
		return c
	}
	for _, v := range s.Vertices {
		c = c.Add(v)
	}
	return c.Mul(1 / float64(len(s.Vertices)))
}
