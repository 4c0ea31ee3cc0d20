// Package shader compiles and links GPU programs and exposes their active
// attributes and uniforms.
package shader

import (
	"errors"
	"fmt"

	"github.com/Faultbox/scenery/internal/engine/gpu"
)

var (
	// ErrCompile wraps a shader compile failure; the message carries the
	// driver's info log.
	ErrCompile = errors.New("shader compile failed")
	// ErrLink wraps a program link failure; the message carries the
	// driver's info log.
	ErrLink = errors.New("program link failed")
)

// Program is a linked program with its introspected interface.
type Program struct {
	ID       gpu.Program
	Attribs  map[string]Input
	Uniforms map[string]Input
}

// Input is an active attribute or uniform and its location.
type Input struct {
	gpu.ActiveInfo
	Location gpu.Location
}

// CompileProgram compiles vertex and fragment shaders and links them into a program.
func CompileProgram(ctx gpu.Context, vertexSrc, fragmentSrc string) (*Program, error) {
	vert, err := compileShader(ctx, vertexSrc, gpu.VertexShader, "vertex")
	if err != nil {
		return nil, err
	}
	defer ctx.DeleteShader(vert)

	frag, err := compileShader(ctx, fragmentSrc, gpu.FragmentShader, "fragment")
	if err != nil {
		return nil, err
	}
	defer ctx.DeleteShader(frag)

	id := ctx.CreateProgram()
	ctx.AttachShader(id, vert)
	ctx.AttachShader(id, frag)
	ctx.LinkProgram(id)
	if !ctx.ProgramLinked(id) {
		log := ctx.ProgramInfoLog(id)
		ctx.DeleteProgram(id)
		return nil, fmt.Errorf("%w: %s", ErrLink, log)
	}

	p := &Program{
		ID:       id,
		Attribs:  make(map[string]Input),
		Uniforms: make(map[string]Input),
	}
	for _, info := range ctx.ActiveAttributes(id) {
		p.Attribs[info.Name] = Input{ActiveInfo: info, Location: ctx.AttribLocation(id, info.Name)}
	}
	for _, info := range ctx.ActiveUniforms(id) {
		p.Uniforms[info.Name] = Input{ActiveInfo: info, Location: ctx.UniformLocation(id, info.Name)}
	}
	return p, nil
}

// compileShader compiles a single shader of the given type.
func compileShader(ctx gpu.Context, source string, kind gpu.Enum, name string) (gpu.Shader, error) {
	s := ctx.CreateShader(kind)
	ctx.ShaderSource(s, source)
	ctx.CompileShader(s)
	if !ctx.ShaderCompiled(s) {
		log := ctx.ShaderInfoLog(s)
		ctx.DeleteShader(s)
		return 0, fmt.Errorf("%w: %s shader: %s", ErrCompile, name, log)
	}
	return s, nil
}
