package main

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// Renderer turns the scene, seen from cam, into an image.
type Renderer interface {
	Render(scene *Scene, cam Camera) (*image.RGBA, error)
	Close() error
}

func newRenderer(backend string, width, height int, box bool) (Renderer, error) {
	if backend == "gl" {
		return newGLRenderer(width, height, box)
	}
	return newSoftRenderer(width, height, box), nil
}

// softRenderer fills projected patches on the CPU with antialiased edges.
type softRenderer struct {
	width, height int
	box           bool
	raster        *vector.Rasterizer
}

func newSoftRenderer(width, height int, box bool) *softRenderer {
	return &softRenderer{
		width:  width,
		height: height,
		box:    box,
		raster: vector.NewRasterizer(width, height),
	}
}

func (r *softRenderer) Render(scene *Scene, cam Camera) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	view := cam.View()
	proj := cam.Projection(r.width, r.height)

	for _, i := range scene.DepthOrder(cam.Eye()) {
		r.fillPatch(img, scene.Patches[i], view, proj)
	}

	if r.box {
		corners := scene.Corners()
		var pts [8][2]int
		for i, c := range corners {
			w := cam.Project(c, view, proj, r.width, r.height)
			pts[i] = [2]int{int(math.Round(w[0])), int(math.Round(w[1]))}
		}
		for i := 0; i < len(boxEdges); i += 2 {
			a, b := pts[boxEdges[i]], pts[boxEdges[i+1]]
			DrawLine(img, a[0], a[1], b[0], b[1], boxColor)
		}
	}
	return img, nil
}

// fillPatch clips the patch against the near plane in eye space, projects
// what is left and clips it again to the frame, so a disk reaching behind
// the camera still draws its visible part.
func (r *softRenderer) fillPatch(img *image.RGBA, p SpatialPatch, view, proj mgl64.Mat4) {
	if len(p.Vertices) < 3 {
		return
	}
	eye := make([]mgl64.Vec3, len(p.Vertices))
	for i, v := range p.Vertices {
		eye[i] = view.Mul4x1(v.Vec4(1)).Vec3()
		if !finite(eye[i]) {
			return
		}
	}

	w, h := float64(r.width), float64(r.height)
	poly := toScreen(clipNear(eye, cameraNear), proj, w, h)
	poly = clipAxis(poly, 0, 0, false)
	poly = clipAxis(poly, 0, w, true)
	poly = clipAxis(poly, 1, 0, false)
	poly = clipAxis(poly, 1, h, true)
	if len(poly) < 3 {
		return
	}

	r.raster.Reset(r.width, r.height)
	r.raster.MoveTo(float32(poly[0][0]), float32(poly[0][1]))
	for _, v := range poly[1:] {
		r.raster.LineTo(float32(v[0]), float32(v[1]))
	}
	r.raster.ClosePath()
	r.raster.Draw(img, img.Bounds(), image.NewUniform(p.Fill), image.Point{})
}

// clipPolygon is one Sutherland-Hodgman pass: it keeps the inside part of
// poly, and cross gives the point where an edge meets the boundary.
func clipPolygon[T any](poly []T, inside func(T) bool, cross func(a, b T) T) []T {
	if len(poly) == 0 {
		return nil
	}
	out := make([]T, 0, len(poly)+2)
	prev := poly[len(poly)-1]
	for _, cur := range poly {
		switch {
		case inside(cur) && inside(prev):
			out = append(out, cur)
		case inside(cur):
			out = append(out, cross(prev, cur), cur)
		case inside(prev):
			out = append(out, cross(prev, cur))
		}
		prev = cur
	}
	return out
}

// clipNear keeps the part of an eye-space polygon in front of the near
// plane. The camera looks down -z.
func clipNear(poly []mgl64.Vec3, near float64) []mgl64.Vec3 {
	return clipPolygon(poly,
		func(p mgl64.Vec3) bool { return p[2] <= -near },
		func(a, b mgl64.Vec3) mgl64.Vec3 {
			t := (-near - a[2]) / (b[2] - a[2])
			return a.Add(b.Sub(a).Mul(t))
		})
}

// clipAxis keeps the side of the line p[axis] == bound below it when below
// is set, above it otherwise.
func clipAxis(poly []mgl64.Vec2, axis int, bound float64, below bool) []mgl64.Vec2 {
	return clipPolygon(poly,
		func(p mgl64.Vec2) bool {
			if below {
				return p[axis] <= bound
			}
			return p[axis] >= bound
		},
		func(a, b mgl64.Vec2) mgl64.Vec2 {
			t := (bound - a[axis]) / (b[axis] - a[axis])
			return a.Add(b.Sub(a).Mul(t))
		})
}

// toScreen projects eye-space points in front of the camera to pixels with
// the origin top left, matching Camera.Project.
func toScreen(poly []mgl64.Vec3, proj mgl64.Mat4, width, height float64) []mgl64.Vec2 {
	out := make([]mgl64.Vec2, len(poly))
	for i, p := range poly {
		c := proj.Mul4x1(p.Vec4(1))
		out[i] = mgl64.Vec2{
			(c[0]/c[3] + 1) * width / 2,
			(1 - c[1]/c[3]) * height / 2,
		}
	}
	return out
}

func (r *softRenderer) Close() error { return nil }

func finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// DrawLine draws a line on the image from (x1, y1) to (x2, y2) with a DDA walk
func DrawLine(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	dx := float64(x2 - x1)
	dy := float64(y2 - y1)
	steps := math.Max(math.Abs(dx), math.Abs(dy))
	if steps == 0 {
		setPixel(img, x1, y1, col)
		return
	}

	xInc := dx / steps
	yInc := dy / steps

	x := float64(x1)
	y := float64(y1)

	for i := 0; i <= int(steps); i++ {
		setPixel(img, int(math.Round(x)), int(math.Round(y)), col)
		x += xInc
		y += yInc
	}
}

func setPixel(img *image.RGBA, x, y int, col color.RGBA) {
	if !image.Pt(x, y).In(img.Bounds()) {
		return
	}
	offset := img.PixOffset(x, y)
	img.Pix[offset] = col.R
	img.Pix[offset+1] = col.G
	img.Pix[offset+2] = col.B
	img.Pix[offset+3] = col.A
}

// flipRows turns bottom-up RGBA rows, as read back from GL, into an image.
func flipRows(pix []uint8, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	stride := width * 4
	for y := 0; y < height; y++ {
		src := pix[(height-1-y)*stride : (height-y)*stride]
		copy(img.Pix[y*img.Stride:y*img.Stride+stride], src)
	}
	return img
}
