// Package renderer draws a scene graph through an injected gpu.Context.
package renderer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/scenery/internal/engine/geometry"
	"github.com/Faultbox/scenery/internal/engine/gpu"
	"github.com/Faultbox/scenery/internal/engine/material"
	"github.com/Faultbox/scenery/internal/engine/scene"
	"github.com/Faultbox/scenery/internal/engine/serial"
	"github.com/Faultbox/scenery/internal/engine/shader"
	"github.com/Faultbox/scenery/internal/engine/texture"
	"github.com/Faultbox/scenery/internal/logger"
	"github.com/Faultbox/scenery/pkg/math"
)

var (
	// ErrProgramExists is returned when a material already has a program.
	ErrProgramExists = errors.New("renderer: material already has a program")
	// ErrNoCamera is returned when selecting a camera family the loaded
	// model does not contain.
	ErrNoCamera = errors.New("renderer: no camera of that kind")
)

// Config holds renderer configuration.
type Config struct {
	// Light is a single point light shared by all lit materials.
	LightColor    math.Color
	LightPosition math.Vec3
	// Logger defaults to the global logger named "renderer".
	Logger *zap.Logger
}

// DefaultConfig returns a white light above and in front of the origin.
func DefaultConfig() Config {
	return Config{
		LightColor:    math.Color{R: 1, G: 1, B: 1},
		LightPosition: math.Vec3{X: 5, Y: 10, Z: 10},
	}
}

// cameraKinds lists the projection families in selection preference.
var cameraKinds = [...]scene.CameraKind{
	scene.CameraPerspective,
	scene.CameraOrthographic,
	scene.CameraOblique,
}

type snapshot struct {
	position   math.Vec3
	quaternion math.Quat
}

type textureEntry struct {
	id      gpu.Texture
	version uint64
}

// Renderer owns every GPU object it creates: one program per material,
// one buffer per vertex attribute and one texture per loaded image.
// All methods must be called from the thread that owns the context.
type Renderer struct {
	ctx gpu.Context
	cfg Config
	log *zap.Logger

	scene    *scene.Scene
	programs map[uint64]*programInfo
	buffers  map[*geometry.Attribute]gpu.Buffer
	textures map[*texture.Texture]textureEntry
	stale    map[*texture.Texture]struct{}
	gen      uint64

	cameras   [len(cameraKinds)]*scene.Camera
	snapshots [len(cameraKinds)]snapshot
	selected  scene.CameraKind
	hasCamera bool

	width, height int
	queue         []scene.Object
}

// New creates a renderer drawing through ctx.
func New(ctx gpu.Context, cfg Config) *Renderer {
	log := cfg.Logger
	if log == nil {
		log = logger.Named("renderer")
	}
	return &Renderer{
		ctx:      ctx,
		cfg:      cfg,
		log:      log,
		programs: make(map[uint64]*programInfo),
		buffers:  make(map[*geometry.Attribute]gpu.Buffer),
		textures: make(map[*texture.Texture]textureEntry),
		stale:    make(map[*texture.Texture]struct{}),
	}
}

// UpdateFromParsedModel replaces the current model. All cached GPU objects
// are released, the first camera of each projection family becomes
// selectable and a program is compiled for every material in the model.
// If any program fails the renderer is left empty.
func (r *Renderer) UpdateFromParsedModel(p *serial.Parsed) error {
	r.release()
	r.scene = p.Scene
	r.cameras = [len(cameraKinds)]*scene.Camera{}
	r.hasCamera = false
	r.width, r.height = 0, 0

	for _, c := range p.Scene.Cameras() {
		k := c.CameraKind()
		if r.cameras[k] != nil {
			continue
		}
		r.cameras[k] = c
		r.snapshots[k] = snapshot{position: c.Position(), quaternion: c.Quaternion()}
	}
	for _, k := range cameraKinds {
		if r.cameras[k] != nil {
			r.selected, r.hasCamera = k, true
			break
		}
	}

	for i, m := range p.Materials {
		if err := r.ProgramFromMaterial(m); err != nil {
			r.release()
			r.scene = nil
			r.cameras = [len(cameraKinds)]*scene.Camera{}
			r.hasCamera = false
			return fmt.Errorf("material %d: %w", i, err)
		}
	}
	r.log.Debug("model loaded",
		zap.String("scene", p.Scene.Name),
		zap.Int("nodes", p.Scene.Count()),
		zap.Int("programs", len(r.programs)),
		zap.Bool("camera", r.hasCamera),
	)
	return nil
}

// ProgramFromMaterial compiles and caches the program for m. A material
// can be registered once; a second call returns ErrProgramExists.
func (r *Renderer) ProgramFromMaterial(m material.Material) error {
	if _, ok := r.programs[m.ID()]; ok {
		return fmt.Errorf("%w: %s material %d", ErrProgramExists, m.Kind(), m.ID())
	}
	prog, err := shader.CompileProgram(r.ctx, m.VertexSource(), m.FragmentSource())
	if err != nil {
		return fmt.Errorf("%s material: %w", m.Kind(), err)
	}
	r.programs[m.ID()] = r.newProgramInfo(prog)

	gen := r.gen
	for _, v := range m.Uniforms() {
		if t, ok := v.(*texture.Texture); ok {
			t.OnLoad(func(t *texture.Texture) {
				if r.gen == gen {
					r.stale[t] = struct{}{}
				}
			})
		}
	}
	r.log.Debug("program compiled",
		zap.String("material", m.Kind().String()),
		zap.Uint64("id", m.ID()),
		zap.Uint32("program", uint32(prog.ID)),
	)
	return nil
}

// Render draws the current model from the selected camera. It does
// nothing until a model with a camera is loaded. Meshes whose material
// was never registered get a program on first draw.
func (r *Renderer) Render() error {
	if r.scene == nil || !r.hasCamera {
		return nil
	}
	cam := r.cameras[r.selected]

	if w, h := r.ctx.DrawingBufferSize(); w != r.width || h != r.height {
		r.resize(w, h)
	}
	r.uploadTextures()

	bg := r.scene.Background
	r.ctx.ClearColor(bg.R, bg.G, bg.B, 1)
	r.ctx.Clear(gpu.ColorBufferBit | gpu.DepthBufferBit)
	r.ctx.Enable(gpu.DepthTest)
	r.ctx.Enable(gpu.CullFace)
	r.ctx.CullFace(gpu.Back)

	r.scene.UpdateWorldMatrix(false, true)
	viewProjection := cam.ViewProjectionMatrix()
	camWorld := cam.WorldMatrix()
	eye := math.Vec3{X: camWorld[12], Y: camWorld[13], Z: camWorld[14]}

	var current *programInfo
	r.queue = append(r.queue[:0], r.scene.Children()...)
	for i := 0; i < len(r.queue); i++ {
		obj := r.queue[i]
		r.queue = append(r.queue, obj.Base().Children()...)

		mesh, ok := obj.(*scene.Mesh)
		if !ok || mesh.Geometry == nil || mesh.Material == nil {
			continue
		}
		info, err := r.program(mesh.Material)
		if err != nil {
			clear(r.queue)
			return err
		}
		if info != current {
			r.ctx.UseProgram(info.prog.ID)
			info.set("u_viewProjection", viewProjection)
			info.set("u_cameraPosition", eye)
			current = info
		}
		r.draw(info, mesh)
	}
	clear(r.queue)
	return nil
}

func (r *Renderer) program(m material.Material) (*programInfo, error) {
	if info, ok := r.programs[m.ID()]; ok {
		return info, nil
	}
	if err := r.ProgramFromMaterial(m); err != nil {
		return nil, err
	}
	return r.programs[m.ID()], nil
}

func (r *Renderer) draw(info *programInfo, mesh *scene.Mesh) {
	// Inputs the geometry lacks are disabled so they never read the
	// previous mesh's buffers.
	attrs := mesh.Geometry.Attributes()
	for name, b := range info.attribs {
		if a := attrs[name]; a != nil {
			b.set(a)
		} else {
			r.ctx.DisableVertexAttribArray(b.loc)
		}
	}
	for name, v := range mesh.Material.Uniforms() {
		info.set(name, v)
	}
	world := mesh.WorldMatrix()
	info.set("u_world", world)
	info.set("u_lightColor", r.cfg.LightColor)
	info.set("u_lightPosition", r.cfg.LightPosition)
	info.set("u_worldInverseTranspose", world.NormalMatrix())
	r.ctx.DrawArrays(gpu.Triangles, 0, mesh.Geometry.VertexCount())
}

// resize sets the viewport and adapts every camera to the new aspect.
func (r *Renderer) resize(w, h int) {
	r.width, r.height = w, h
	r.ctx.Viewport(0, 0, w, h)
	if w <= 0 || h <= 0 {
		return
	}
	aspect := float32(w) / float32(h)
	for _, c := range r.cameras {
		if c != nil {
			c.SetAspect(aspect)
		}
	}
	r.log.Debug("viewport resized", zap.Int("width", w), zap.Int("height", h))
}

// uploadTextures pushes images that finished loading since the last frame.
func (r *Renderer) uploadTextures() {
	for t := range r.stale {
		delete(r.stale, t)
		if !t.Loaded() {
			continue
		}
		e, ok := r.textures[t]
		if ok && e.version == t.Version() {
			continue
		}
		if !ok {
			e.id = r.ctx.CreateTexture()
		}
		w, h := t.Size()
		r.ctx.ActiveTexture(gpu.Texture0)
		r.ctx.BindTexture(gpu.Texture2D, e.id)
		r.ctx.TexImage2D(gpu.Texture2D, w, h, t.Pixels())
		e.version = t.Version()
		r.textures[t] = e
		r.log.Debug("texture uploaded", zap.String("source", t.Source), zap.Int("width", w), zap.Int("height", h))
	}
}

// ResetCamera restores the selected camera's position and rotation to
// their values when the model was loaded.
func (r *Renderer) ResetCamera() {
	if !r.hasCamera {
		return
	}
	c, s := r.cameras[r.selected], r.snapshots[r.selected]
	c.SetPosition(s.position)
	c.SetQuaternion(s.quaternion)
}

// SelectCamera makes the model's camera of kind k the active one.
func (r *Renderer) SelectCamera(k scene.CameraKind) error {
	if int(k) >= len(r.cameras) || r.cameras[k] == nil {
		return fmt.Errorf("%w: %s", ErrNoCamera, k)
	}
	r.selected, r.hasCamera = k, true
	r.log.Debug("camera selected", zap.Stringer("kind", k), zap.String("name", r.cameras[k].Name))
	return nil
}

// SelectedCamera returns the active camera, or nil when none is loaded.
func (r *Renderer) SelectedCamera() *scene.Camera {
	if !r.hasCamera {
		return nil
	}
	return r.cameras[r.selected]
}

// Cameras returns the selectable camera of each family; missing families
// are nil. The array is indexed by scene.CameraKind.
func (r *Renderer) Cameras() [3]*scene.Camera {
	return r.cameras
}

// Scene returns the loaded scene, or nil.
func (r *Renderer) Scene() *scene.Scene { return r.scene }

// ReadPixels returns the drawing buffer as RGBA rows, bottom row first.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	w, h := r.ctx.DrawingBufferSize()
	return r.ctx.ReadPixels(0, 0, w, h), w, h
}

// Close releases every GPU object and unloads the model.
func (r *Renderer) Close() {
	r.log.Debug("closing renderer")
	r.release()
	r.scene = nil
	r.hasCamera = false
}

func (r *Renderer) release() {
	for id, info := range r.programs {
		r.ctx.DeleteProgram(info.prog.ID)
		delete(r.programs, id)
	}
	for a, b := range r.buffers {
		r.ctx.DeleteBuffer(b)
		delete(r.buffers, a)
	}
	for t, e := range r.textures {
		r.ctx.DeleteTexture(e.id)
		delete(r.textures, t)
	}
	clear(r.stale)
	r.gen++
}
