package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/pkg/errors"
)

func main() {
	// glfw and GL calls must stay on the main thread
	runtime.LockOSThread()

	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error; %v\n", err)
			os.Exit(2)
		}
		log.Fatalf("%+v", err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}
	logger := log.New(stderr, title+": ", 0)

	table, err := LoadTable(opts.input, logger)
	if err != nil {
		return err
	}
	fmt.Fprint(stdout, table.Summary(opts.input))

	scene := NewScene(sceneBounds())
	if err := RenderRings(scene, table, defaultDiskStyle(opts.segments)); err != nil {
		return err
	}

	r, err := newRenderer(opts.backend, opts.width, opts.height, opts.box)
	if err != nil {
		return err
	}
	defer r.Close()

	orbit := defaultOrbit(opts.output)
	orbit.GIF = opts.gif
	orbit.Progress = stdout

	names, err := ExportOrbit(scene, r, NewCamera(scene.Min, scene.Max), orbit)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote %d files for %s\n", len(names), opts)
	return nil
}
