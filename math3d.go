package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// ErrNumericDomain is returned when a rotation vector is longer than 1.
var ErrNumericDomain = errors.New("rotation magnitude exceeds 1")

const domainTolerance = 1e-12

var zAxis = mgl64.Vec3{0, 0, 1}

// RotationMatrix builds a rotation matrix from d. The direction of d is the
// rotation axis and its length is the sine of the rotation angle.
func RotationMatrix(d mgl64.Vec3) (mgl64.Mat3, error) {
	sin := d.Len()
	if sin == 0 {
		return mgl64.Ident3(), nil
	}

	cos2 := 1 - sin*sin
	if cos2 < -domainTolerance {
		return mgl64.Mat3{}, errors.Wrapf(ErrNumericDomain, "|d| = %g", sin)
	}
	cos := math.Sqrt(math.Max(cos2, 0))

	d = d.Mul(1 / sin)
	ddt := d.OuterProd3(d)
	skew := mgl64.Mat3FromRows(
		mgl64.Vec3{0, d[2], -d[1]},
		mgl64.Vec3{-d[2], 0, d[0]},
		mgl64.Vec3{d[1], -d[0], 0},
	)

	return ddt.Add(mgl64.Ident3().Sub(ddt).Mul(cos)).Add(skew.Mul(sin)), nil
}

// RingNormal tilts the face-on normal by the inclination about X, then turns
// it by the position angle about Z. Angles are in degrees.
func RingNormal(inclDeg, paDeg float64) mgl64.Vec3 {
	incl := mgl64.Rotate3DX(mgl64.DegToRad(inclDeg))
	pa := mgl64.Rotate3DZ(mgl64.DegToRad(paDeg))
	return pa.Mul3x1(incl.Mul3x1(zAxis))
}

// Camera orbits Target at a fixed distance. Elevation and Azimuth are in
// degrees, measured like a matplotlib 3D view.
type Camera struct {
	Elevation float64
	Azimuth   float64
	Target    mgl64.Vec3
	Distance  float64
	FovY      float64
}

// NewCamera looks at the centre of the box spanned by min and max.
func NewCamera(min, max mgl64.Vec3) Camera {
	return Camera{
		Target:   min.Add(max).Mul(0.5),
		Distance: cameraDistance,
		FovY:     cameraFovY,
	}
}

// ViewInit sets the view angles, like matplotlib's view_init.
func (c Camera) ViewInit(elev, azim float64) Camera {
	c.Elevation = elev
	c.Azimuth = azim
	return c
}

func (c Camera) Eye() mgl64.Vec3 {
	e := mgl64.DegToRad(c.Elevation)
	a := mgl64.DegToRad(c.Azimuth)
	dir := mgl64.Vec3{
		math.Cos(e) * math.Cos(a),
		math.Cos(e) * math.Sin(a),
		math.Sin(e),
	}
	return c.Target.Add(dir.Mul(c.Distance))
}

func (c Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Eye(), c.Target, zAxis)
}

func (c Camera) Projection(width, height int) mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FovY), float64(width)/float64(height), cameraNear, cameraFar)
}

// Project maps a world point to pixel coordinates with the origin top left.
// The third component is window depth in [0, 1].
func (c Camera) Project(p mgl64.Vec3, view, proj mgl64.Mat4, width, height int) mgl64.Vec3 {
	win := mgl64.Project(p, view, proj, 0, 0, width, height)
	win[1] = float64(height) - win[1]
	return win
}

// toMat4f narrows a matrix for GL uniforms.
func toMat4f(m mgl64.Mat4) mgl32.Mat4 {
	var out mgl32.Mat4
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}
