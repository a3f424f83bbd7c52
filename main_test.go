package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

const sampleTable = `4
RADI VROT Z0 INCL PA
10.0 80.0 0.2 45.0 120.0
20.0 120.0 0.2 50.0 125.0
30.0 140.0 0.2 55.0 130.0
40.0 150.0 0.2 60.0 135.0

`

func TestRunUsage(t *testing.T) {
	Convey("Argument handling", t, func() {
		var stdout, stderr bytes.Buffer

		Convey("one positional argument is a usage error", func() {
			err := run([]string{"rings.txt"}, &stdout, &stderr)
			So(errors.Is(err, errUsage), ShouldBeTrue)
		})

		Convey("three positional arguments is a usage error", func() {
			err := run([]string{"a", "b", "c"}, &stdout, &stderr)
			So(errors.Is(err, errUsage), ShouldBeTrue)
		})

		Convey("unknown backends and flags are usage errors", func() {
			err := run([]string{"-backend", "vulkan", "a", "b"}, &stdout, &stderr)
			So(errors.Is(err, errUsage), ShouldBeTrue)
			err = run([]string{"-nope", "a", "b"}, &stdout, &stderr)
			So(errors.Is(err, errUsage), ShouldBeTrue)
		})

		Convey("defaults match the orbit export", func() {
			opts, err := parseArgs([]string{"in.txt", "out"}, &stderr)
			So(err, ShouldBeNil)
			So(opts.input, ShouldEqual, "in.txt")
			So(opts.output, ShouldEqual, "out")
			So(opts.width, ShouldEqual, defaultWidth)
			So(opts.height, ShouldEqual, defaultHeight)
			So(opts.backend, ShouldEqual, "soft")
			So(opts.gif, ShouldBeFalse)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Running end to end", t, func() {
		dir := t.TempDir()
		input := filepath.Join(dir, "rings.txt")
		So(os.WriteFile(input, []byte(sampleTable), 0o644), ShouldBeNil)
		base := filepath.Join(dir, "galaxy")
		var stdout, stderr bytes.Buffer

		Convey("writes 90 frames and reports the resolved columns", func() {
			err := run([]string{"-width", "20", "-height", "16", "-box", input, base}, &stdout, &stderr)
			So(err, ShouldBeNil)

			out := stdout.String()
			So(out, ShouldContainSubstring, "Plotting 4 entries of tirific file: "+input)
			So(out, ShouldContainSubstring, "Column IDs 0 to 4: [RADI VROT Z0 INCL PA]")
			So(out, ShouldContainSubstring, "Using INCL from column 3 and PA from column 4")
			So(out, ShouldContainSubstring, "First record: [10 80 0.2 45 120]")
			So(out, ShouldContainSubstring, "Last record: [40 150 0.2 60 135]")
			So(out, ShouldNotContainSubstring, "Warning")

			for _, angle := range []int{0, 1, 44, 89} {
				_, err := os.Stat(FrameName(base, angle))
				So(err, ShouldBeNil)
			}
			_, err = os.Stat(FrameName(base, 90))
			So(os.IsNotExist(err), ShouldBeTrue)
		})

		Convey("a count mismatch warns on stderr only", func() {
			short := filepath.Join(dir, "short.txt")
			So(os.WriteFile(short, []byte("5\nINCL PA\n10 20\n30 40\n"), 0o644), ShouldBeNil)
			err := run([]string{"-width", "8", "-height", "6", short, base}, &stdout, &stderr)
			So(err, ShouldBeNil)
			So(stderr.String(), ShouldContainSubstring,
				"tiriplot: Warning: Number of entries specified in line 1 of file: 5, number of entries found in data: 2")
			So(stdout.String(), ShouldNotContainSubstring, "Warning")
			So(stdout.String(), ShouldContainSubstring, "Plotting 2 entries")
		})

		Convey("a missing input file is fatal but not a usage error", func() {
			err := run([]string{filepath.Join(dir, "missing.txt"), base}, &stdout, &stderr)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, errUsage), ShouldBeFalse)
		})

		Convey("a table without PA is a format error", func() {
			bad := filepath.Join(dir, "bad.txt")
			So(os.WriteFile(bad, []byte("1\nRADI INCL\n1 2\n"), 0o644), ShouldBeNil)
			err := run([]string{bad, base}, &stdout, &stderr)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "PA")
		})
	})
}
