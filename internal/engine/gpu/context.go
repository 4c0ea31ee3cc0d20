// Package gpu defines the rasterization context the renderer draws through.
//
// The interface mirrors the subset of OpenGL the engine uses, so the
// production backend (glcore) is a thin pass-through and tests can swap in
// a recording fake.
package gpu

// Enum is a GL enumerant.
type Enum uint32

// Handles to GPU objects. Zero is never a valid object.
type (
	Shader  uint32
	Program uint32
	Buffer  uint32
	Texture uint32
)

// Location is a uniform or attribute location; -1 means inactive.
type Location int32

const (
	Byte          Enum = 0x1400
	UnsignedByte  Enum = 0x1401
	Short         Enum = 0x1402
	UnsignedShort Enum = 0x1403
	Int           Enum = 0x1404
	UnsignedInt   Enum = 0x1405
	Float         Enum = 0x1406

	FloatVec2 Enum = 0x8B50
	FloatVec3 Enum = 0x8B51
	FloatVec4 Enum = 0x8B52
	IntVec2   Enum = 0x8B53
	IntVec3   Enum = 0x8B54
	IntVec4   Enum = 0x8B55
	Bool      Enum = 0x8B56
	FloatMat2 Enum = 0x8B5A
	FloatMat3 Enum = 0x8B5B
	FloatMat4 Enum = 0x8B5C
	Sampler2D Enum = 0x8B5E

	FragmentShader Enum = 0x8B30
	VertexShader   Enum = 0x8B31

	ArrayBuffer Enum = 0x8892
	StaticDraw  Enum = 0x88E4

	DepthBufferBit Enum = 0x00000100
	ColorBufferBit Enum = 0x00004000

	CullFace  Enum = 0x0B44
	DepthTest Enum = 0x0B71
	Back      Enum = 0x0405

	Triangles Enum = 0x0004

	Texture2D Enum = 0x0DE1
	Texture0  Enum = 0x84C0
	RGBA      Enum = 0x1908
)

// ActiveInfo describes an active attribute or uniform of a linked program.
type ActiveInfo struct {
	Name string
	Type Enum
	Size int
}

// Context is the GPU API consumed by the renderer. Methods follow the GL
// calls of the same name. All calls happen on the thread that owns the
// context.
type Context interface {
	CreateShader(kind Enum) Shader
	ShaderSource(s Shader, source string)
	CompileShader(s Shader)
	ShaderCompiled(s Shader) bool
	ShaderInfoLog(s Shader) string
	DeleteShader(s Shader)

	CreateProgram() Program
	AttachShader(p Program, s Shader)
	LinkProgram(p Program)
	ProgramLinked(p Program) bool
	ProgramInfoLog(p Program) string
	DeleteProgram(p Program)
	UseProgram(p Program)

	ActiveAttributes(p Program) []ActiveInfo
	ActiveUniforms(p Program) []ActiveInfo
	AttribLocation(p Program, name string) Location
	UniformLocation(p Program, name string) Location

	CreateBuffer() Buffer
	BindBuffer(target Enum, b Buffer)
	BufferData(target Enum, data []byte, usage Enum)
	DeleteBuffer(b Buffer)
	EnableVertexAttribArray(loc Location)
	DisableVertexAttribArray(loc Location)
	VertexAttribPointer(loc Location, size int, typ Enum, normalized bool, stride, offset int)

	Uniform1f(loc Location, v float32)
	Uniform1i(loc Location, v int32)
	Uniform2fv(loc Location, v []float32)
	Uniform3fv(loc Location, v []float32)
	Uniform4fv(loc Location, v []float32)
	UniformMatrix3fv(loc Location, v []float32)
	UniformMatrix4fv(loc Location, v []float32)

	CreateTexture() Texture
	ActiveTexture(unit Enum)
	BindTexture(target Enum, t Texture)
	TexImage2D(target Enum, width, height int, pixels []byte)
	DeleteTexture(t Texture)

	Viewport(x, y, width, height int)
	ClearColor(r, g, b, a float32)
	Clear(mask Enum)
	Enable(capability Enum)
	CullFace(mode Enum)
	DrawArrays(mode Enum, first, count int)

	// DrawingBufferSize returns the current drawable size in pixels.
	DrawingBufferSize() (width, height int)
	// ReadPixels returns RGBA rows of the given rectangle, bottom row first.
	ReadPixels(x, y, width, height int) []byte
}
