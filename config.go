package main

import (
	"flag"
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

const (
	defaultWidth  = 640
	defaultHeight = 480
	title         = "tiriplot"

	// Orbit: 90 frames at 4 degrees per frame make one full turn.
	frameCount  = 90
	azimuthStep = 4.0
	elevation   = 20.0

	// Axes cube and the offset that centres every ring inside it
	axisMin    = 0.0
	axisMax    = 1.5
	ringOffset = 0.75

	diskAlpha      = 0.05
	circleSegments = 72

	cameraDistance = 4.0
	cameraFovY     = 35.0
	cameraNear     = 0.1
	cameraFar      = 100.0

	// GIF frame delay in 100ths of a second
	gifDelay = 5
)

var (
	diskColor       = color.NRGBA{R: 0, G: 0, B: 255, A: uint8(math.Round(diskAlpha * 255))}
	backgroundColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	boxColor        = color.RGBA{R: 160, G: 160, B: 160, A: 255}
)

var errUsage = errors.New("usage: tiriplot [flags] tirific_file.txt plotname")

type options struct {
	input    string
	output   string
	width    int
	height   int
	backend  string
	segments int
	box      bool
	gif      bool
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet(title, flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.IntVar(&opts.width, "width", defaultWidth, "Frame width in pixels")
	fs.IntVar(&opts.height, "height", defaultHeight, "Frame height in pixels")
	fs.StringVar(&opts.backend, "backend", "soft", "Renderer: soft or gl")
	fs.IntVar(&opts.segments, "segments", circleSegments, "Boundary vertices per ring disk")
	fs.BoolVar(&opts.box, "box", false, "Draw the axes cube wireframe")
	fs.BoolVar(&opts.gif, "gif", false, "Also write an animated GIF of the orbit")

	if err := fs.Parse(args); err != nil {
		return nil, errors.Wrap(errUsage, err.Error())
	}
	if fs.NArg() != 2 {
		return nil, errUsage
	}
	opts.input = fs.Arg(0)
	opts.output = fs.Arg(1)

	if opts.width <= 0 || opts.height <= 0 {
		return nil, errors.Wrapf(errUsage, "invalid frame size %dx%d", opts.width, opts.height)
	}
	if opts.segments < 3 {
		return nil, errors.Wrapf(errUsage, "segments must be at least 3, got %d", opts.segments)
	}
	switch opts.backend {
	case "soft", "gl":
	default:
		return nil, errors.Wrapf(errUsage, "unknown backend %q", opts.backend)
	}
	return opts, nil
}

// sceneBounds returns the corners of the axes cube.
func sceneBounds() (mgl64.Vec3, mgl64.Vec3) {
	return mgl64.Vec3{axisMin, axisMin, axisMin}, mgl64.Vec3{axisMax, axisMax, axisMax}
}

func (o *options) String() string {
	return fmt.Sprintf("%s -> %s (%dx%d, %s)", o.input, o.output, o.width, o.height, o.backend)
}
