//go:build nogl

package main

import "github.com/pkg/errors"

func newGLRenderer(width, height int, box bool) (Renderer, error) {
	return nil, errors.New("gl backend not available: built with -tags nogl")
}
