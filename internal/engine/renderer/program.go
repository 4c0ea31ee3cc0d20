package renderer

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/scenery/internal/engine/geometry"
	"github.com/Faultbox/scenery/internal/engine/gpu"
	"github.com/Faultbox/scenery/internal/engine/shader"
	"github.com/Faultbox/scenery/internal/engine/texture"
	"github.com/Faultbox/scenery/pkg/math"
)

type uniformSetter func(v any)

type attributeSetter func(a *geometry.Attribute)

type attribBinding struct {
	loc gpu.Location
	set attributeSetter
}

// programInfo is a program cache entry: the linked program and one binding
// closure per active uniform and attribute. Attribute bindings are keyed by
// geometry attribute name ("a_normal" binds "normal").
type programInfo struct {
	prog     *shader.Program
	uniforms map[string]uniformSetter
	attribs  map[string]attribBinding
}

// set binds a uniform if the program uses it. Unused uniforms are dropped
// silently since every material shares the per-draw set.
func (p *programInfo) set(name string, v any) {
	if fn, ok := p.uniforms[name]; ok {
		fn(v)
	}
}

func (r *Renderer) newProgramInfo(prog *shader.Program) *programInfo {
	info := &programInfo{
		prog:     prog,
		uniforms: make(map[string]uniformSetter, len(prog.Uniforms)),
		attribs:  make(map[string]attribBinding, len(prog.Attribs)),
	}

	names := make([]string, 0, len(prog.Uniforms))
	for name := range prog.Uniforms {
		names = append(names, name)
	}
	sort.Strings(names)
	unit := 0
	for _, name := range names {
		in := prog.Uniforms[name]
		if in.Type == gpu.Sampler2D {
			info.uniforms[name] = r.samplerSetter(in.Location, unit)
			unit++
			continue
		}
		info.uniforms[name] = r.uniformSetter(name, in)
	}

	for name, in := range prog.Attribs {
		info.attribs[strings.TrimPrefix(name, "a_")] = attribBinding{
			loc: in.Location,
			set: r.attributeSetter(in.Location),
		}
	}
	return info
}

func (r *Renderer) uniformSetter(name string, in shader.Input) uniformSetter {
	ctx, loc := r.ctx, in.Location
	switch in.Type {
	case gpu.Float:
		return func(v any) {
			if f, ok := v.(float32); ok {
				ctx.Uniform1f(loc, f)
			}
		}
	case gpu.Int, gpu.Bool:
		return func(v any) {
			switch x := v.(type) {
			case int32:
				ctx.Uniform1i(loc, x)
			case int:
				ctx.Uniform1i(loc, int32(x))
			case bool:
				var i int32
				if x {
					i = 1
				}
				ctx.Uniform1i(loc, i)
			}
		}
	case gpu.FloatVec2:
		return floatsSetter(ctx.Uniform2fv, loc)
	case gpu.FloatVec3:
		return floatsSetter(ctx.Uniform3fv, loc)
	case gpu.FloatVec4:
		return floatsSetter(ctx.Uniform4fv, loc)
	case gpu.FloatMat3:
		return floatsSetter(ctx.UniformMatrix3fv, loc)
	case gpu.FloatMat4:
		return floatsSetter(ctx.UniformMatrix4fv, loc)
	}
	r.log.Debug("uniform type not supported",
		zap.String("uniform", name),
		zap.Uint32("type", uint32(in.Type)),
	)
	return func(any) {}
}

func floatsSetter(upload func(gpu.Location, []float32), loc gpu.Location) uniformSetter {
	return func(v any) {
		if f := floats(v); f != nil {
			upload(loc, f)
		}
	}
}

// floats flattens the value types materials and the renderer pass as
// uniforms.
func floats(v any) []float32 {
	switch x := v.(type) {
	case []float32:
		return x
	case math.Vec2:
		return []float32{x.X, x.Y}
	case math.Vec3:
		return []float32{x.X, x.Y, x.Z}
	case math.Vec4:
		return x[:]
	case math.Color:
		return []float32{x.R, x.G, x.B}
	case [9]float32:
		return x[:]
	case math.Mat4:
		return x.Slice()
	}
	return nil
}

// samplerSetter binds a texture to a fixed unit. Textures not uploaded yet
// leave the unit empty.
func (r *Renderer) samplerSetter(loc gpu.Location, unit int) uniformSetter {
	return func(v any) {
		t, _ := v.(*texture.Texture)
		var id gpu.Texture
		if e, ok := r.textures[t]; ok && t != nil {
			id = e.id
		}
		r.ctx.ActiveTexture(gpu.Texture0 + gpu.Enum(unit))
		r.ctx.BindTexture(gpu.Texture2D, id)
		r.ctx.Uniform1i(loc, int32(unit))
	}
}

// attributeSetter uploads the attribute once per attribute identity and
// points loc at it.
func (r *Renderer) attributeSetter(loc gpu.Location) attributeSetter {
	return func(a *geometry.Attribute) {
		buf, ok := r.buffers[a]
		if !ok {
			buf = r.ctx.CreateBuffer()
			r.ctx.BindBuffer(gpu.ArrayBuffer, buf)
			r.ctx.BufferData(gpu.ArrayBuffer, a.Bytes(), gpu.StaticDraw)
			r.buffers[a] = buf
		} else {
			r.ctx.BindBuffer(gpu.ArrayBuffer, buf)
		}
		r.ctx.EnableVertexAttribArray(loc)
		r.ctx.VertexAttribPointer(loc, a.Size, gpu.Enum(a.Element.GLType()), a.Normalize, a.Stride, a.Offset)
	}
}
