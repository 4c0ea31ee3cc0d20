// Package glcore implements gpu.Context on OpenGL 4.1 core through go-gl.
package glcore

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/scenery/internal/engine/gpu"
)

// Context forwards to the current OpenGL context. A single vertex array
// object is bound for the lifetime of the context, as core profiles
// require one for attribute setup.
type Context struct {
	size func() (int, int)
	vao  uint32
}

// New initializes the GL function pointers for the current context.
// size reports the drawable size in pixels.
func New(size func() (int, int)) (*Context, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init OpenGL: %w", err)
	}
	c := &Context{size: size}
	gl.GenVertexArrays(1, &c.vao)
	gl.BindVertexArray(c.vao)
	return c, nil
}

// Version returns the GL version string of the driver.
func Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

// Close releases the vertex array object.
func (c *Context) Close() {
	if c.vao != 0 {
		gl.DeleteVertexArrays(1, &c.vao)
		c.vao = 0
	}
}

func (c *Context) CreateShader(kind gpu.Enum) gpu.Shader {
	return gpu.Shader(gl.CreateShader(uint32(kind)))
}

func (c *Context) ShaderSource(s gpu.Shader, source string) {
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(uint32(s), 1, csource, nil)
	free()
}

func (c *Context) CompileShader(s gpu.Shader) { gl.CompileShader(uint32(s)) }

func (c *Context) ShaderCompiled(s gpu.Shader) bool {
	var status int32
	gl.GetShaderiv(uint32(s), gl.COMPILE_STATUS, &status)
	return status == gl.TRUE
}

func (c *Context) ShaderInfoLog(s gpu.Shader) string {
	var n int32
	gl.GetShaderiv(uint32(s), gl.INFO_LOG_LENGTH, &n)
	if n == 0 {
		return ""
	}
	log := make([]byte, n)
	gl.GetShaderInfoLog(uint32(s), n, nil, &log[0])
	return strings.TrimRight(string(log), "\x00")
}

func (c *Context) DeleteShader(s gpu.Shader) { gl.DeleteShader(uint32(s)) }

func (c *Context) CreateProgram() gpu.Program { return gpu.Program(gl.CreateProgram()) }

func (c *Context) AttachShader(p gpu.Program, s gpu.Shader) {
	gl.AttachShader(uint32(p), uint32(s))
}

func (c *Context) LinkProgram(p gpu.Program) { gl.LinkProgram(uint32(p)) }

func (c *Context) ProgramLinked(p gpu.Program) bool {
	var status int32
	gl.GetProgramiv(uint32(p), gl.LINK_STATUS, &status)
	return status == gl.TRUE
}

func (c *Context) ProgramInfoLog(p gpu.Program) string {
	var n int32
	gl.GetProgramiv(uint32(p), gl.INFO_LOG_LENGTH, &n)
	if n == 0 {
		return ""
	}
	log := make([]byte, n)
	gl.GetProgramInfoLog(uint32(p), n, nil, &log[0])
	return strings.TrimRight(string(log), "\x00")
}

func (c *Context) DeleteProgram(p gpu.Program) { gl.DeleteProgram(uint32(p)) }
func (c *Context) UseProgram(p gpu.Program)    { gl.UseProgram(uint32(p)) }

func (c *Context) ActiveAttributes(p gpu.Program) []gpu.ActiveInfo {
	return c.active(p, gl.ACTIVE_ATTRIBUTES, gl.ACTIVE_ATTRIBUTE_MAX_LENGTH, gl.GetActiveAttrib)
}

func (c *Context) ActiveUniforms(p gpu.Program) []gpu.ActiveInfo {
	return c.active(p, gl.ACTIVE_UNIFORMS, gl.ACTIVE_UNIFORM_MAX_LENGTH, gl.GetActiveUniform)
}

type activeFunc func(program, index uint32, bufSize int32, length, size *int32, xtype *uint32, name *uint8)

func (c *Context) active(p gpu.Program, countParam, lenParam uint32, get activeFunc) []gpu.ActiveInfo {
	var count, maxLen int32
	gl.GetProgramiv(uint32(p), countParam, &count)
	gl.GetProgramiv(uint32(p), lenParam, &maxLen)
	if count == 0 || maxLen == 0 {
		return nil
	}
	infos := make([]gpu.ActiveInfo, 0, count)
	buf := make([]uint8, maxLen)
	for i := uint32(0); i < uint32(count); i++ {
		var length, size int32
		var xtype uint32
		get(uint32(p), i, maxLen, &length, &size, &xtype, &buf[0])
		name := strings.TrimSuffix(string(buf[:length]), "[0]")
		infos = append(infos, gpu.ActiveInfo{Name: name, Type: gpu.Enum(xtype), Size: int(size)})
	}
	return infos
}

func (c *Context) AttribLocation(p gpu.Program, name string) gpu.Location {
	return gpu.Location(gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00")))
}

func (c *Context) UniformLocation(p gpu.Program, name string) gpu.Location {
	return gpu.Location(gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00")))
}

func (c *Context) CreateBuffer() gpu.Buffer {
	var b uint32
	gl.GenBuffers(1, &b)
	return gpu.Buffer(b)
}

func (c *Context) BindBuffer(target gpu.Enum, b gpu.Buffer) {
	gl.BindBuffer(uint32(target), uint32(b))
}

func (c *Context) BufferData(target gpu.Enum, data []byte, usage gpu.Enum) {
	if len(data) == 0 {
		gl.BufferData(uint32(target), 0, nil, uint32(usage))
		return
	}
	gl.BufferData(uint32(target), len(data), gl.Ptr(data), uint32(usage))
}

func (c *Context) DeleteBuffer(b gpu.Buffer) {
	id := uint32(b)
	gl.DeleteBuffers(1, &id)
}

func (c *Context) EnableVertexAttribArray(loc gpu.Location) {
	gl.EnableVertexAttribArray(uint32(loc))
}

func (c *Context) DisableVertexAttribArray(loc gpu.Location) {
	gl.DisableVertexAttribArray(uint32(loc))
}

func (c *Context) VertexAttribPointer(loc gpu.Location, size int, typ gpu.Enum, normalized bool, stride, offset int) {
	gl.VertexAttribPointerWithOffset(uint32(loc), int32(size), uint32(typ), normalized, int32(stride), uintptr(offset))
}

func (c *Context) Uniform1f(loc gpu.Location, v float32) { gl.Uniform1f(int32(loc), v) }
func (c *Context) Uniform1i(loc gpu.Location, v int32)   { gl.Uniform1i(int32(loc), v) }

func (c *Context) Uniform2fv(loc gpu.Location, v []float32) {
	gl.Uniform2fv(int32(loc), int32(len(v)/2), &v[0])
}

func (c *Context) Uniform3fv(loc gpu.Location, v []float32) {
	gl.Uniform3fv(int32(loc), int32(len(v)/3), &v[0])
}

func (c *Context) Uniform4fv(loc gpu.Location, v []float32) {
	gl.Uniform4fv(int32(loc), int32(len(v)/4), &v[0])
}

func (c *Context) UniformMatrix3fv(loc gpu.Location, v []float32) {
	gl.UniformMatrix3fv(int32(loc), int32(len(v)/9), false, &v[0])
}

func (c *Context) UniformMatrix4fv(loc gpu.Location, v []float32) {
	gl.UniformMatrix4fv(int32(loc), int32(len(v)/16), false, &v[0])
}

func (c *Context) CreateTexture() gpu.Texture {
	var t uint32
	gl.GenTextures(1, &t)
	return gpu.Texture(t)
}

func (c *Context) ActiveTexture(unit gpu.Enum) { gl.ActiveTexture(uint32(unit)) }

func (c *Context) BindTexture(target gpu.Enum, t gpu.Texture) {
	gl.BindTexture(uint32(target), uint32(t))
}

// TexImage2D uploads RGBA8 pixels with trilinear filtering and repeat wrap.
func (c *Context) TexImage2D(target gpu.Enum, width, height int, pixels []byte) {
	var ptr unsafe.Pointer
	if len(pixels) > 0 {
		ptr = gl.Ptr(pixels)
	}
	t := uint32(target)
	gl.TexImage2D(t, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, ptr)
	gl.TexParameteri(t, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(t, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(t, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(t, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.GenerateMipmap(t)
}

func (c *Context) DeleteTexture(t gpu.Texture) {
	id := uint32(t)
	gl.DeleteTextures(1, &id)
}

func (c *Context) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (c *Context) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }
func (c *Context) Clear(mask gpu.Enum)           { gl.Clear(uint32(mask)) }
func (c *Context) Enable(capability gpu.Enum)    { gl.Enable(uint32(capability)) }
func (c *Context) CullFace(mode gpu.Enum)        { gl.CullFace(uint32(mode)) }

func (c *Context) DrawArrays(mode gpu.Enum, first, count int) {
	gl.DrawArrays(uint32(mode), int32(first), int32(count))
}

func (c *Context) DrawingBufferSize() (int, int) { return c.size() }

func (c *Context) ReadPixels(x, y, width, height int) []byte {
	pixels := make([]byte, width*height*4)
	if len(pixels) == 0 {
		return pixels
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(int32(x), int32(y), int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

var _ gpu.Context = (*Context)(nil)
