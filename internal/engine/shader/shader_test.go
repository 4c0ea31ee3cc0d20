package shader

import (
	"errors"
	"strings"
	"testing"

	"github.com/Faultbox/scenery/internal/engine/gpu"
	"github.com/Faultbox/scenery/internal/engine/gpu/gputest"
)

const vert = `#version 410 core
in vec3 a_position;
in vec2 a_texcoord;
uniform mat4 u_world;
void main() { gl_Position = u_world * vec4(a_position, 1.0); }
`

const frag = `#version 410 core
uniform vec3 u_color;
uniform sampler2D u_texture;
out vec4 fragColor;
void main() { fragColor = vec4(u_color, 1.0); }
`

func TestCompileProgramIntrospects(t *testing.T) {
	ctx := gputest.New(1, 1)
	p, err := CompileProgram(ctx, vert, frag)
	if err != nil {
		t.Fatalf("CompileProgram: %v", err)
	}
	if len(p.Attribs) != 2 || len(p.Uniforms) != 3 {
		t.Fatalf("attribs=%v uniforms=%v", p.Attribs, p.Uniforms)
	}
	if u := p.Uniforms["u_texture"]; u.Type != gpu.Sampler2D || u.Location < 0 {
		t.Errorf("u_texture = %+v", u)
	}
	if a := p.Attribs["a_texcoord"]; a.Type != gpu.FloatVec2 {
		t.Errorf("a_texcoord = %+v", a)
	}
}

func TestCompileErrorCarriesLog(t *testing.T) {
	ctx := gputest.New(1, 1)
	ctx.FailCompile = "fragColor"
	_, err := CompileProgram(ctx, vert, frag)
	if !errors.Is(err, ErrCompile) {
		t.Fatalf("err = %v, want ErrCompile", err)
	}
	if !strings.Contains(err.Error(), "fragment shader") || !strings.Contains(err.Error(), "syntax error") {
		t.Errorf("error lacks stage or driver log: %v", err)
	}
	if ctx.LivePrograms() != 0 {
		t.Error("program created despite compile failure")
	}
}

func TestLinkErrorDeletesProgram(t *testing.T) {
	ctx := gputest.New(1, 1)
	ctx.FailLink = true
	_, err := CompileProgram(ctx, vert, frag)
	if !errors.Is(err, ErrLink) {
		t.Fatalf("err = %v, want ErrLink", err)
	}
	if !strings.Contains(err.Error(), "linking failed") {
		t.Errorf("error lacks driver log: %v", err)
	}
	if ctx.LivePrograms() != 0 {
		t.Error("failed program not deleted")
	}
}
