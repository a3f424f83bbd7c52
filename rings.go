package main

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// DiskStyle controls how each ring disk is drawn.
type DiskStyle struct {
	Fill     color.NRGBA
	Segments int
	Offset   float64
}

func defaultDiskStyle(segments int) DiskStyle {
	return DiskStyle{Fill: diskColor, Segments: segments, Offset: ringOffset}
}

// RenderRings adds one tilted disk per record to the scene. Radii are
// normalised to the first column of the last (outermost) record.
func RenderRings(scene *Scene, t *Table, style DiskStyle) error {
	if t.InclIdx < 0 || t.PAIdx < 0 {
		return errors.New("ring table has no INCL/PA columns; call Validate first")
	}
	if len(t.Records) == 0 {
		return errors.New("ring table is empty")
	}
	outer := t.Records[len(t.Records)-1][0]

	for i, rec := range t.Records {
		normal := RingNormal(rec[t.InclIdx], rec[t.PAIdx])

		radius := 0.0
		if outer != 0 {
			radius = rec[0] / outer
		}
		disk := NewDisk(mgl64.Vec2{0, 0}, radius, style.Segments, style.Fill)

		patch, err := Project(disk, 0, normal)
		if err != nil {
			return errors.Wrapf(err, "ring %d", i)
		}
		patch.TranslateScalar(style.Offset)
		scene.Add(patch)
	}
	return nil
}
