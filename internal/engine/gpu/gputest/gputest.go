// Package gputest provides a recording gpu.Context for tests.
//
// Shaders "compile" by scanning their source for in/uniform declarations,
// which become the active attributes and uniforms of linked programs.
package gputest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Faultbox/scenery/internal/engine/gpu"
)

var (
	inDecl      = regexp.MustCompile(`(?m)^\s*(?:layout\s*\([^)]*\)\s*)?in\s+(\w+)\s+(\w+)\s*;`)
	uniformDecl = regexp.MustCompile(`(?m)^\s*uniform\s+(\w+)\s+(\w+)\s*;`)
)

var glslTypes = map[string]gpu.Enum{
	"float":     gpu.Float,
	"int":       gpu.Int,
	"bool":      gpu.Bool,
	"vec2":      gpu.FloatVec2,
	"vec3":      gpu.FloatVec3,
	"vec4":      gpu.FloatVec4,
	"ivec2":     gpu.IntVec2,
	"ivec3":     gpu.IntVec3,
	"ivec4":     gpu.IntVec4,
	"mat2":      gpu.FloatMat2,
	"mat3":      gpu.FloatMat3,
	"mat4":      gpu.FloatMat4,
	"sampler2D": gpu.Sampler2D,
}

type shader struct {
	kind     gpu.Enum
	source   string
	compiled bool
	log      string
}

type program struct {
	shaders  []gpu.Shader
	linked   bool
	log      string
	attribs  []gpu.ActiveInfo
	uniforms []gpu.ActiveInfo
}

// Draw records one DrawArrays call with the uniform state at that moment.
type Draw struct {
	Program  gpu.Program
	Mode     gpu.Enum
	First    int
	Count    int
	Uniforms map[string]any
	// Buffers maps each enabled attribute to the buffer it reads.
	Buffers map[string]gpu.Buffer
}

// Context is a fake gpu.Context. The zero value is not usable; call New.
type Context struct {
	Width, Height int

	// FailCompile makes any shader whose source contains it fail to compile.
	FailCompile string
	// FailLink makes every link fail.
	FailLink bool

	// Calls lists method names in call order, with UseProgram including
	// its argument ("UseProgram 3").
	Calls     []string
	Draws     []Draw
	Viewports [][4]int
	Enabled   map[gpu.Enum]bool

	next     uint32
	shaders  map[gpu.Shader]*shader
	programs map[gpu.Program]*program
	buffers  map[gpu.Buffer][]byte
	textures map[gpu.Texture][]byte

	current     gpu.Program
	bound       gpu.Buffer
	attribBufs  map[gpu.Location]gpu.Buffer
	attribOn    map[gpu.Location]bool
	uniforms    map[gpu.Program]map[string]any
	activeUnit  gpu.Enum
	unitTexture map[gpu.Enum]gpu.Texture
}

// New creates a fake context with a width x height drawing buffer.
func New(width, height int) *Context {
	return &Context{
		Width:       width,
		Height:      height,
		Enabled:     make(map[gpu.Enum]bool),
		shaders:     make(map[gpu.Shader]*shader),
		programs:    make(map[gpu.Program]*program),
		buffers:     make(map[gpu.Buffer][]byte),
		textures:    make(map[gpu.Texture][]byte),
		attribBufs:  make(map[gpu.Location]gpu.Buffer),
		attribOn:    make(map[gpu.Location]bool),
		uniforms:    make(map[gpu.Program]map[string]any),
		unitTexture: make(map[gpu.Enum]gpu.Texture),
	}
}

func (c *Context) id() uint32 {
	c.next++
	return c.next
}

func (c *Context) record(name string) { c.Calls = append(c.Calls, name) }

// Count returns how many recorded calls start with prefix.
func (c *Context) Count(prefix string) int {
	n := 0
	for _, call := range c.Calls {
		if strings.HasPrefix(call, prefix) {
			n++
		}
	}
	return n
}

// Reset clears the recorded calls and draws but keeps GPU objects.
func (c *Context) Reset() {
	c.Calls = nil
	c.Draws = nil
	c.Viewports = nil
}

// LivePrograms returns the number of programs not yet deleted.
func (c *Context) LivePrograms() int { return len(c.programs) }

// LiveBuffers returns the number of buffers not yet deleted.
func (c *Context) LiveBuffers() int { return len(c.buffers) }

// LiveTextures returns the number of textures not yet deleted.
func (c *Context) LiveTextures() int { return len(c.textures) }

// Uniform returns the last value set for a uniform of program p.
func (c *Context) Uniform(p gpu.Program, name string) (any, bool) {
	v, ok := c.uniforms[p][name]
	return v, ok
}

func (c *Context) CreateShader(kind gpu.Enum) gpu.Shader {
	c.record("CreateShader")
	s := gpu.Shader(c.id())
	c.shaders[s] = &shader{kind: kind}
	return s
}

func (c *Context) ShaderSource(s gpu.Shader, source string) {
	c.shaders[s].source = source
}

func (c *Context) CompileShader(s gpu.Shader) {
	c.record("CompileShader")
	sh := c.shaders[s]
	if c.FailCompile != "" && strings.Contains(sh.source, c.FailCompile) {
		sh.log = fmt.Sprintf("ERROR: 0:1: '%s' : syntax error", c.FailCompile)
		return
	}
	sh.compiled = true
}

func (c *Context) ShaderCompiled(s gpu.Shader) bool  { return c.shaders[s].compiled }
func (c *Context) ShaderInfoLog(s gpu.Shader) string { return c.shaders[s].log }
func (c *Context) DeleteShader(s gpu.Shader)         { delete(c.shaders, s) }

func (c *Context) CreateProgram() gpu.Program {
	c.record("CreateProgram")
	p := gpu.Program(c.id())
	c.programs[p] = &program{}
	return p
}

func (c *Context) AttachShader(p gpu.Program, s gpu.Shader) {
	c.programs[p].shaders = append(c.programs[p].shaders, s)
}

func (c *Context) LinkProgram(p gpu.Program) {
	c.record("LinkProgram")
	prog := c.programs[p]
	if c.FailLink {
		prog.log = "error: linking failed"
		return
	}
	seen := make(map[string]bool)
	for _, s := range prog.shaders {
		sh := c.shaders[s]
		if sh == nil || !sh.compiled {
			prog.log = "error: attached shader not compiled"
			return
		}
		if sh.kind == gpu.VertexShader {
			for _, m := range inDecl.FindAllStringSubmatch(sh.source, -1) {
				prog.attribs = append(prog.attribs, gpu.ActiveInfo{Name: m[2], Type: glslTypes[m[1]], Size: 1})
			}
		}
		for _, m := range uniformDecl.FindAllStringSubmatch(sh.source, -1) {
			if seen[m[2]] {
				continue
			}
			seen[m[2]] = true
			prog.uniforms = append(prog.uniforms, gpu.ActiveInfo{Name: m[2], Type: glslTypes[m[1]], Size: 1})
		}
	}
	prog.linked = true
}

func (c *Context) ProgramLinked(p gpu.Program) bool    { return c.programs[p].linked }
func (c *Context) ProgramInfoLog(p gpu.Program) string { return c.programs[p].log }

func (c *Context) DeleteProgram(p gpu.Program) {
	c.record("DeleteProgram")
	delete(c.programs, p)
	delete(c.uniforms, p)
}

func (c *Context) UseProgram(p gpu.Program) {
	c.record(fmt.Sprintf("UseProgram %d", p))
	c.current = p
}

func (c *Context) ActiveAttributes(p gpu.Program) []gpu.ActiveInfo { return c.programs[p].attribs }
func (c *Context) ActiveUniforms(p gpu.Program) []gpu.ActiveInfo   { return c.programs[p].uniforms }

// Locations are indices into the active lists, with uniforms offset by 1000
// so the two spaces never collide.
func (c *Context) AttribLocation(p gpu.Program, name string) gpu.Location {
	for i, a := range c.programs[p].attribs {
		if a.Name == name {
			return gpu.Location(i)
		}
	}
	return -1
}

func (c *Context) UniformLocation(p gpu.Program, name string) gpu.Location {
	for i, u := range c.programs[p].uniforms {
		if u.Name == name {
			return gpu.Location(1000 + i)
		}
	}
	return -1
}

func (c *Context) CreateBuffer() gpu.Buffer {
	c.record("CreateBuffer")
	b := gpu.Buffer(c.id())
	c.buffers[b] = nil
	return b
}

func (c *Context) BindBuffer(target gpu.Enum, b gpu.Buffer) { c.bound = b }

func (c *Context) BufferData(target gpu.Enum, data []byte, usage gpu.Enum) {
	c.record("BufferData")
	c.buffers[c.bound] = append([]byte(nil), data...)
}

func (c *Context) DeleteBuffer(b gpu.Buffer) {
	c.record("DeleteBuffer")
	delete(c.buffers, b)
}

func (c *Context) EnableVertexAttribArray(loc gpu.Location) { c.attribOn[loc] = true }

func (c *Context) DisableVertexAttribArray(loc gpu.Location) {
	c.record("DisableVertexAttribArray")
	c.attribOn[loc] = false
}

func (c *Context) VertexAttribPointer(loc gpu.Location, size int, typ gpu.Enum, normalized bool, stride, offset int) {
	c.record("VertexAttribPointer")
	c.attribBufs[loc] = c.bound
}

func (c *Context) setUniform(loc gpu.Location, v any) {
	prog := c.programs[c.current]
	if prog == nil || loc < 1000 || int(loc-1000) >= len(prog.uniforms) {
		panic(fmt.Sprintf("gputest: uniform location %d not valid for program %d", loc, c.current))
	}
	m := c.uniforms[c.current]
	if m == nil {
		m = make(map[string]any)
		c.uniforms[c.current] = m
	}
	m[prog.uniforms[loc-1000].Name] = v
}

func (c *Context) Uniform1f(loc gpu.Location, v float32) { c.setUniform(loc, v) }
func (c *Context) Uniform1i(loc gpu.Location, v int32)   { c.setUniform(loc, v) }

func (c *Context) Uniform2fv(loc gpu.Location, v []float32) {
	c.setUniform(loc, append([]float32(nil), v...))
}

func (c *Context) Uniform3fv(loc gpu.Location, v []float32) {
	c.setUniform(loc, append([]float32(nil), v...))
}

func (c *Context) Uniform4fv(loc gpu.Location, v []float32) {
	c.setUniform(loc, append([]float32(nil), v...))
}

func (c *Context) UniformMatrix3fv(loc gpu.Location, v []float32) {
	c.setUniform(loc, append([]float32(nil), v...))
}

func (c *Context) UniformMatrix4fv(loc gpu.Location, v []float32) {
	c.setUniform(loc, append([]float32(nil), v...))
}

func (c *Context) CreateTexture() gpu.Texture {
	c.record("CreateTexture")
	t := gpu.Texture(c.id())
	c.textures[t] = nil
	return t
}

func (c *Context) ActiveTexture(unit gpu.Enum) { c.activeUnit = unit }

func (c *Context) BindTexture(target gpu.Enum, t gpu.Texture) {
	c.unitTexture[c.activeUnit] = t
}

func (c *Context) TexImage2D(target gpu.Enum, width, height int, pixels []byte) {
	c.record("TexImage2D")
	c.textures[c.unitTexture[c.activeUnit]] = append([]byte(nil), pixels...)
}

func (c *Context) DeleteTexture(t gpu.Texture) {
	c.record("DeleteTexture")
	delete(c.textures, t)
}

// BoundTexture returns the texture bound to a unit (gpu.Texture0 + i).
func (c *Context) BoundTexture(unit gpu.Enum) gpu.Texture { return c.unitTexture[unit] }

func (c *Context) Viewport(x, y, width, height int) {
	c.record("Viewport")
	c.Viewports = append(c.Viewports, [4]int{x, y, width, height})
}

func (c *Context) ClearColor(r, g, b, a float32) { c.record("ClearColor") }
func (c *Context) Clear(mask gpu.Enum)           { c.record("Clear") }
func (c *Context) Enable(capability gpu.Enum)    { c.Enabled[capability] = true }
func (c *Context) CullFace(mode gpu.Enum)        { c.record("CullFace") }

func (c *Context) DrawArrays(mode gpu.Enum, first, count int) {
	c.record("DrawArrays")
	d := Draw{
		Program:  c.current,
		Mode:     mode,
		First:    first,
		Count:    count,
		Uniforms: make(map[string]any),
		Buffers:  make(map[string]gpu.Buffer),
	}
	for k, v := range c.uniforms[c.current] {
		d.Uniforms[k] = v
	}
	if prog := c.programs[c.current]; prog != nil {
		for i, a := range prog.attribs {
			loc := gpu.Location(i)
			if b, ok := c.attribBufs[loc]; ok && c.attribOn[loc] {
				d.Buffers[a.Name] = b
			}
		}
	}
	c.Draws = append(c.Draws, d)
}

func (c *Context) DrawingBufferSize() (int, int) { return c.Width, c.Height }

// ReadPixels returns opaque mid-grey pixels.
func (c *Context) ReadPixels(x, y, width, height int) []byte {
	c.record("ReadPixels")
	px := make([]byte, width*height*4)
	for i := 0; i < len(px); i += 4 {
		px[i], px[i+1], px[i+2], px[i+3] = 128, 128, 128, 255
	}
	return px
}

var _ gpu.Context = (*Context)(nil)
