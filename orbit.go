package main

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"image/png"
	"io"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// OrbitOptions describes the camera sweep and where frames go.
type OrbitOptions struct {
	Base      string
	Frames    int
	Elevation float64
	Step      float64
	GIF       bool
	Progress  io.Writer
}

func defaultOrbit(base string) OrbitOptions {
	return OrbitOptions{
		Base:      base,
		Frames:    frameCount,
		Elevation: elevation,
		Step:      azimuthStep,
	}
}

// FrameName is the file written for frame angle.
func FrameName(base string, angle int) string {
	return fmt.Sprintf("%s_%03d.png", base, angle)
}

// ExportOrbit renders one frame per azimuth step and writes each as a PNG.
// It stops at the first failed frame.
func ExportOrbit(scene *Scene, r Renderer, cam Camera, opts OrbitOptions) ([]string, error) {
	var (
		names  []string
		frames []*image.Paletted
		delays []int
	)

	for angle := 0; angle < opts.Frames; angle++ {
		img, err := r.Render(scene, cam.ViewInit(opts.Elevation, float64(angle)*opts.Step))
		if err != nil {
			return names, errors.Wrapf(err, "render frame %d", angle)
		}

		name := FrameName(opts.Base, angle)
		if err := savePNG(name, img); err != nil {
			return names, err
		}
		names = append(names, name)

		if opts.GIF {
			frames = append(frames, toPaletted(img))
			delays = append(delays, gifDelay)
		}
		if opts.Progress != nil {
			fmt.Fprintf(opts.Progress, "Rendered frame %d/%d\n", angle+1, opts.Frames)
		}
	}

	if opts.GIF && len(frames) > 0 {
		name := opts.Base + ".gif"
		anim := &gif.GIF{Image: frames, Delay: delays, LoopCount: 0}
		if err := saveGIF(name, anim); err != nil {
			return names, err
		}
		names = append(names, name)
	}
	return names, nil
}

func savePNG(name string, img image.Image) error {
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrapf(err, "create %s", name)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return errors.Wrapf(err, "encode %s", name)
	}
	return errors.Wrapf(f.Close(), "close %s", name)
}

func saveGIF(name string, anim *gif.GIF) error {
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrapf(err, "create %s", name)
	}
	if err := gif.EncodeAll(f, anim); err != nil {
		f.Close()
		return errors.Wrapf(err, "encode %s", name)
	}
	return errors.Wrapf(f.Close(), "close %s", name)
}

// toPaletted dithers a frame down to the Plan9 palette.
func toPaletted(img *image.RGBA) *image.Paletted {
	pal := image.NewPaletted(img.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(pal, img.Bounds(), img, img.Bounds().Min)
	return pal
}
