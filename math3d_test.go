package main

import (
	"fmt"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

// shouldBeNear compares mgl64 vectors and matrices entry by entry against an
// absolute tolerance, so exact zeros on either side compare sanely.
func shouldBeNear(actual interface{}, expected ...interface{}) string {
	if len(expected) != 2 {
		return "shouldBeNear needs a value and a tolerance"
	}
	tol, ok := expected[1].(float64)
	a, b := entries(actual), entries(expected[0])
	if !ok || a == nil || b == nil || len(a) != len(b) {
		return fmt.Sprintf("cannot compare %T with %T", actual, expected[0])
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return fmt.Sprintf("Expected %v to be within %g of %v (entry %d differs)", actual, tol, expected[0], i)
		}
	}
	return ""
}

func entries(v interface{}) []float64 {
	switch v := v.(type) {
	case mgl64.Vec2:
		return v[:]
	case mgl64.Vec3:
		return v[:]
	case mgl64.Mat3:
		return v[:]
	}
	return nil
}

func TestShouldBeNear(t *testing.T) {
	Convey("Near comparison uses an absolute tolerance", t, func() {
		So(mgl64.Vec3{6.1e-17, -1, 6.1e-17}, shouldBeNear, mgl64.Vec3{0, -1, 0}, 1e-12)
		So(mgl64.Mat3{1, 1e-17, 0, -1e-17, 1, 0, 0, 0, 1}, shouldBeNear, mgl64.Ident3(), 1e-9)
		So(shouldBeNear(mgl64.Vec3{1e-6, 0, 0}, mgl64.Vec3{}, 1e-9), ShouldNotBeEmpty)
		So(shouldBeNear(mgl64.Vec2{}, mgl64.Vec3{}, 1e-9), ShouldNotBeEmpty)
	})
}

func TestRotationMatrix(t *testing.T) {
	Convey("Rotation matrix builder", t, func() {
		Convey("zero vector gives the identity", func() {
			m, err := RotationMatrix(mgl64.Vec3{})
			So(err, ShouldBeNil)
			So(m, ShouldResemble, mgl64.Ident3())
		})

		Convey("result is orthogonal and keeps its axis fixed", func() {
			for _, d := range []mgl64.Vec3{
				{0, 0, 1},
				{0, -1, 0},
				{0.3, 0.2, 0.1},
				{0.5, 0.5, 0.5},
				{-0.1, 0.7, 0.2},
			} {
				m, err := RotationMatrix(d)
				So(err, ShouldBeNil)
				So(m.Transpose().Mul3(m), shouldBeNear, mgl64.Ident3(), 1e-9)
				So(m.Det(), ShouldAlmostEqual, 1, 1e-9)

				axis := d.Normalize()
				So(m.Mul3x1(axis), shouldBeNear, axis, 1e-9)
			}
		})

		Convey("rotation from n x z carries z onto n", func() {
			for _, n := range []mgl64.Vec3{
				{1, 0, 0},
				{0, 1, 0},
				RingNormal(30, 40),
				RingNormal(75, -120),
			} {
				m, err := RotationMatrix(n.Cross(zAxis))
				So(err, ShouldBeNil)
				So(m.Mul3x1(zAxis), shouldBeNear, n, 1e-9)
			}
		})

		Convey("rotation angle is asin of the length", func() {
			theta := math.Pi / 6
			m, err := RotationMatrix(mgl64.Vec3{0, 0, math.Sin(theta)})
			So(err, ShouldBeNil)
			// x rotated about z by -theta with this skew layout
			So(m.Mul3x1(mgl64.Vec3{1, 0, 0}), shouldBeNear,
				mgl64.Vec3{math.Cos(theta), -math.Sin(theta), 0}, 1e-9)
		})

		Convey("length above one is a domain error", func() {
			_, err := RotationMatrix(mgl64.Vec3{1.5, 0, 0})
			So(errors.Is(err, ErrNumericDomain), ShouldBeTrue)
		})

		Convey("rounding noise just above one is tolerated", func() {
			_, err := RotationMatrix(mgl64.Vec3{1 + 1e-15, 0, 0})
			So(err, ShouldBeNil)
		})
	})
}

func TestRingNormal(t *testing.T) {
	Convey("Ring normal", t, func() {
		Convey("face-on ring points along z", func() {
			So(RingNormal(0, 0), shouldBeNear, mgl64.Vec3{0, 0, 1}, 1e-12)
		})

		Convey("edge-on ring tips towards -y", func() {
			So(RingNormal(90, 0), shouldBeNear, mgl64.Vec3{0, -1, 0}, 1e-12)
		})

		Convey("position angle turns the tilted normal about z", func() {
			So(RingNormal(90, 90), shouldBeNear, mgl64.Vec3{1, 0, 0}, 1e-12)
		})

		Convey("normals are unit length", func() {
			So(RingNormal(37, 211).Len(), ShouldAlmostEqual, 1, 1e-12)
		})
	})
}

func TestCamera(t *testing.T) {
	Convey("Orbit camera", t, func() {
		lo, hi := sceneBounds()
		cam := NewCamera(lo, hi)
		So(cam.Target, ShouldResemble, mgl64.Vec3{0.75, 0.75, 0.75})

		Convey("zero angles look along -x", func() {
			eye := cam.ViewInit(0, 0).Eye()
			So(eye, shouldBeNear, mgl64.Vec3{0.75 + cameraDistance, 0.75, 0.75}, 1e-12)
		})

		Convey("elevation lifts the eye", func() {
			eye := cam.ViewInit(elevation, 90).Eye()
			So(eye[2], ShouldAlmostEqual, 0.75+cameraDistance*math.Sin(mgl64.DegToRad(elevation)), 1e-12)
			So(eye[0], ShouldAlmostEqual, 0.75, 1e-12)
		})

		Convey("target projects to the frame centre", func() {
			c := cam.ViewInit(elevation, 40)
			win := c.Project(c.Target, c.View(), c.Projection(64, 48), 64, 48)
			So(win[0], ShouldAlmostEqual, 32, 1e-9)
			So(win[1], ShouldAlmostEqual, 24, 1e-9)
		})
	})
}

func TestToMat4f(t *testing.T) {
	Convey("Narrowing a matrix keeps its entries", t, func() {
		So(toMat4f(mgl64.Ident4()), ShouldResemble, mgl32.Ident4())
		m := toMat4f(mgl64.Translate3D(1, 2, 3))
		So(m[12], ShouldEqual, float32(1))
		So(m[14], ShouldEqual, float32(3))
	})
}
