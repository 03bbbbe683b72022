package emu

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/veandco/go-sdl2/sdl"

	"cyclenes/hw"
)

// screen is an OpenGL window showing the console picture in a texture
// stretched over the whole window. All methods must be called on the main
// thread, see sdl.Do.
type screen struct {
	win     *sdl.Window
	context sdl.GLContext

	prog    uint32
	texture uint32
	vao     uint32
}

func newScreen(title string, scale int, vsync bool) (*screen, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_GAMECONTROLLER); err != nil {
		return nil, fmt.Errorf("failed to initialize SDL: %s", err)
	}

	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 3)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 3)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)

	w, err := sdl.CreateWindow(title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(hw.ScreenWidth*scale), int32(hw.ScreenHeight*scale),
		sdl.WINDOW_OPENGL|sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("failed to create window: %s", err)
	}

	s := &screen{win: w}
	if err := s.initGL(vsync); err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}

func (s *screen) initGL(vsync bool) error {
	var err error
	s.context, err = s.win.GLCreateContext()
	if err != nil {
		return fmt.Errorf("failed to create OpenGL context: %s", err)
	}
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize opengl: %s", err)
	}

	interval := 0
	if vsync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		return fmt.Errorf("failed to set swap interval: %s", err)
	}

	gl.GenTextures(1, &s.texture)
	gl.BindTexture(gl.TEXTURE_2D, s.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, hw.ScreenWidth, hw.ScreenHeight, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)

	vert, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return fmt.Errorf("vertex shader compilation: %s", err)
	}
	frag, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return fmt.Errorf("fragment shader compilation: %s", err)
	}
	if s.prog, err = linkProgram(vert, frag); err != nil {
		return fmt.Errorf("shader program link: %s", err)
	}

	var vbo, ebo uint32
	gl.GenVertexArrays(1, &s.vao)
	gl.GenBuffers(1, &vbo)
	gl.GenBuffers(1, &ebo)

	gl.BindVertexArray(s.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(quadIndices)*4, gl.Ptr(quadIndices), gl.STATIC_DRAW)

	// position
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 4*4, 0)
	gl.EnableVertexAttribArray(0)
	// texture coordinates
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 4*4, 2*4)
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return nil
}

// present uploads the RGBA pixels of a frame and shows them.
func (s *screen) present(pix []byte) {
	w, h := s.win.GLGetDrawableSize()
	gl.Viewport(0, 0, w, h)
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.UseProgram(s.prog)
	gl.BindTexture(gl.TEXTURE_2D, s.texture)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, hw.ScreenWidth, hw.ScreenHeight, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	gl.BindVertexArray(s.vao)
	gl.DrawElements(gl.TRIANGLES, int32(len(quadIndices)), gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)

	s.win.GLSwap()
}

func (s *screen) close() {
	if s.context != nil {
		sdl.GLDeleteContext(s.context)
	}
	s.win.Destroy()
	sdl.Quit()
}

// Columns are position and texture coordinates. Rows are the quad vertices
// in clockwise order.
var quadVertices = []float32{
	// x, y, s, t
	1, 1, 1, 0, // top right
	1, -1, 1, 1, // bottom right
	-1, -1, 0, 1, // bottom left
	-1, 1, 0, 0, // top left
}

var quadIndices = []uint32{
	0, 1, 3,
	1, 2, 3,
}

const vertexShaderSource = `
#version 330 core
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aTexCoord;

out vec2 TexCoord;

void main() {
    gl_Position = vec4(aPos, 0.0, 1.0);
    TexCoord = aTexCoord;
}
` + "\x00"

const fragmentShaderSource = `
#version 330 core
out vec4 FragColor;
in vec2 TexCoord;

uniform sampler2D frame;

void main() {
    FragColor = texture(frame, TexCoord);
}
` + "\x00"

func compileShader(source string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(source)
	gl.ShaderSource(sh, 1, csrc, nil)
	free()
	gl.CompileShader(sh)

	var status int32
	if gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status); status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLength)

		log := make([]byte, logLength+1)
		gl.GetShaderInfoLog(sh, logLength, nil, &log[0])
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("shader compile error: %v", string(log))
	}
	return sh, nil
}

func linkProgram(vert, frag uint32) (uint32, error) {
	prg := gl.CreateProgram()
	gl.AttachShader(prg, vert)
	gl.AttachShader(prg, frag)
	gl.LinkProgram(prg)
	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	var status int32
	if gl.GetProgramiv(prg, gl.LINK_STATUS, &status); status == gl.FALSE {
		var logLength int32
		var glLog [256]byte
		gl.GetProgramInfoLog(prg, int32(len(glLog)), &logLength, &glLog[0])
		return 0, fmt.Errorf("shader program link error: %v", string(glLog[:logLength]))
	}
	return prg, nil
}
