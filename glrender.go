//go:build !nogl

package main

import (
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
)

// glRenderer draws into an offscreen framebuffer owned by a hidden window.
// All calls must come from the thread that created it.
type glRenderer struct {
	window        *glfw.Window
	width, height int
	box           bool

	program       uint32
	mvpUniform    int32
	colourUniform int32

	fbo, rbo       uint32
	patchVAO, vbo  uint32
	boxVAO, boxVBO uint32
	boxEBO         uint32
	vertAttrib     uint32
	scratch        []float32
}

func newGLRenderer(width, height int, box bool) (Renderer, error) {
	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize glfw")
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, errors.Wrap(err, "create hidden window")
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, errors.Wrap(err, "init gl")
	}

	r := &glRenderer{window: window, width: width, height: height, box: box}
	if err := r.setup(); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

func (r *glRenderer) setup() error {
	program, err := linkProgram()
	if err != nil {
		return err
	}
	r.program = program
	gl.UseProgram(program)

	r.mvpUniform = gl.GetUniformLocation(program, gl.Str(mvpUniformName))
	r.colourUniform = gl.GetUniformLocation(program, gl.Str(colourUniformName))
	r.vertAttrib = uint32(gl.GetAttribLocation(program, gl.Str(vertexAttribName)))

	// Offscreen colour target
	gl.GenFramebuffers(1, &r.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, r.fbo)
	gl.GenRenderbuffers(1, &r.rbo)
	gl.BindRenderbuffer(gl.RENDERBUFFER, r.rbo)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.RGBA8, int32(r.width), int32(r.height))
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.RENDERBUFFER, r.rbo)
	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return errors.Errorf("framebuffer incomplete: 0x%x", status)
	}

	// Patch fans, re-uploaded per draw
	gl.GenVertexArrays(1, &r.patchVAO)
	gl.BindVertexArray(r.patchVAO)
	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.EnableVertexAttribArray(r.vertAttrib)
	gl.VertexAttribPointer(r.vertAttrib, 3, gl.FLOAT, false, 0, gl.PtrOffset(0))

	// Box wireframe
	gl.GenVertexArrays(1, &r.boxVAO)
	gl.BindVertexArray(r.boxVAO)
	gl.GenBuffers(1, &r.boxVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.boxVBO)
	gl.GenBuffers(1, &r.boxEBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.boxEBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(boxEdges)*4, gl.Ptr(boxEdges), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(r.vertAttrib)
	gl.VertexAttribPointer(r.vertAttrib, 3, gl.FLOAT, false, 0, gl.PtrOffset(0))

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Viewport(0, 0, int32(r.width), int32(r.height))
	return nil
}

func (r *glRenderer) Render(scene *Scene, cam Camera) (*image.RGBA, error) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, r.fbo)
	gl.UseProgram(r.program)

	bg := backgroundColor
	gl.ClearColor(float32(bg.R)/255, float32(bg.G)/255, float32(bg.B)/255, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	mvp := toMat4f(cam.Projection(r.width, r.height).Mul4(cam.View()))
	gl.UniformMatrix4fv(r.mvpUniform, 1, false, &mvp[0])

	gl.BindVertexArray(r.patchVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	for _, i := range scene.DepthOrder(cam.Eye()) {
		p := scene.Patches[i]
		if len(p.Vertices) < 3 {
			continue
		}
		fan := r.fan(p)
		gl.BufferData(gl.ARRAY_BUFFER, len(fan)*4, gl.Ptr(fan), gl.STREAM_DRAW)
		gl.Uniform4f(r.colourUniform,
			float32(p.Fill.R)/255, float32(p.Fill.G)/255, float32(p.Fill.B)/255, float32(p.Fill.A)/255)
		gl.DrawArrays(gl.TRIANGLE_FAN, 0, int32(len(fan)/3))
	}

	if r.box {
		var corners []float32
		for _, c := range scene.Corners() {
			corners = append(corners, float32(c[0]), float32(c[1]), float32(c[2]))
		}
		gl.BindVertexArray(r.boxVAO)
		gl.BindBuffer(gl.ARRAY_BUFFER, r.boxVBO)
		gl.BufferData(gl.ARRAY_BUFFER, len(corners)*4, gl.Ptr(corners), gl.STREAM_DRAW)
		gl.Uniform4f(r.colourUniform,
			float32(boxColor.R)/255, float32(boxColor.G)/255, float32(boxColor.B)/255, 1)
		gl.DrawElements(gl.LINES, int32(len(boxEdges)), gl.UNSIGNED_INT, gl.PtrOffset(0))
	}

	gl.Finish()
	pix := make([]uint8, r.width*r.height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(r.width), int32(r.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	if code := gl.GetError(); code != gl.NO_ERROR {
		return nil, errors.Errorf("gl error 0x%x", code)
	}
	return flipRows(pix, r.width, r.height), nil
}

// fan lays out centroid, boundary and the first boundary vertex again.
func (r *glRenderer) fan(p SpatialPatch) []float32 {
	r.scratch = r.scratch[:0]
	c := p.Centroid()
	r.scratch = append(r.scratch, float32(c[0]), float32(c[1]), float32(c[2]))
	for _, v := range p.Vertices {
		r.scratch = append(r.scratch, float32(v[0]), float32(v[1]), float32(v[2]))
	}
	v := p.Vertices[0]
	return append(r.scratch, float32(v[0]), float32(v[1]), float32(v[2]))
}

func (r *glRenderer) Close() error {
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
	for _, b := range []uint32{r.vbo, r.boxVBO, r.boxEBO} {
		if b != 0 {
			gl.DeleteBuffers(1, &b)
		}
	}
	for _, a := range []uint32{r.patchVAO, r.boxVAO} {
		if a != 0 {
			gl.DeleteVertexArrays(1, &a)
		}
	}
	if r.rbo != 0 {
		gl.DeleteRenderbuffers(1, &r.rbo)
	}
	if r.fbo != 0 {
		gl.DeleteFramebuffers(1, &r.fbo)
	}
	r.window.Destroy()
	glfw.Terminate()
	return nil
}

// linkProgram builds the single flat-colour program used for disks and the box.
func linkProgram() (uint32, error) {
	vertex, err := compileShader("vertex", vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragment, err := compileShader("fragment", fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertex)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertex)
	gl.AttachShader(program, fragment)
	gl.LinkProgram(program)
	// Attached shaders are freed with the program.
	gl.DeleteShader(vertex)
	gl.DeleteShader(fragment)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		msg := infoLog(program, gl.GetProgramiv, gl.GetProgramInfoLog)
		gl.DeleteProgram(program)
		return 0, infoLogError("link program", msg)
	}
	return program, nil
}

func compileShader(stage, source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		msg := infoLog(shader, gl.GetShaderiv, gl.GetShaderInfoLog)
		gl.DeleteShader(shader)
		return 0, infoLogError("compile "+stage+" shader", msg)
	}
	return shader, nil
}

// infoLog reads a shader or program log through the matching getters.
func infoLog(id uint32, getiv func(uint32, uint32, *int32), getLog func(uint32, int32, *int32, *uint8)) string {
	var n int32
	getiv(id, gl.INFO_LOG_LENGTH, &n)
	buf := make([]uint8, n+1)
	getLog(id, n, nil, &buf[0])
	return string(buf)
}
