package main

import (
	"strings"

	"github.com/pkg/errors"
)

// GLSL for the GL backend. gl.Strs and gl.Str need the trailing NUL.
var (
	vertexShaderSource = `
		#version 410
		in vec3 vp;
		uniform mat4 mvp;
		void main() {
			gl_Position = mvp * vec4(vp, 1.0);
		}
	` + "\x00"

	fragmentShaderSource = `
		#version 410
		uniform vec4 colour;
		out vec4 frag_colour;
		void main() {
			frag_colour = colour;
		}
	` + "\x00"
)

const (
	mvpUniformName    = "mvp\x00"
	colourUniformName = "colour\x00"
	vertexAttribName  = "vp\x00"
)

// infoLogError reports a failed compile or link step. GL pads the info log
// with NULs.
func infoLogError(step, raw string) error {
	msg := strings.TrimSpace(strings.TrimRight(raw, "\x00"))
	if msg == "" {
		msg = "driver gave no info log"
	}
	return errors.Errorf("%s: %s", step, msg)
}
