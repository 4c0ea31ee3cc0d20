package animation

import (
	stdmath "math"

	"github.com/Faultbox/scenery/internal/engine/scene"
	"github.com/Faultbox/scenery/pkg/math"
)

// State is the playback state of a Runner.
type State uint8

const (
	Stopped State = iota
	PlayingForward
	PlayingBackward
)

func (s State) String() string {
	switch s {
	case PlayingForward:
		return "forward"
	case PlayingBackward:
		return "backward"
	default:
		return "stopped"
	}
}

// DefaultFPS is the playback rate of a new Runner.
const DefaultFPS = 30

// Runner advances a frame index over time and applies the current frame of
// a clip to a node tree.
type Runner struct {
	root    scene.Object
	clip    *Clip
	state   State
	frame   int
	counter float64
	fps     float64
	repeat  bool
}

// NewRunner creates a stopped runner at frame 0 with repeat enabled.
func NewRunner() *Runner {
	return &Runner{fps: DefaultFPS, repeat: true}
}

// Load binds a clip to the tree rooted at root and rewinds to frame 0
// without applying it.
func (r *Runner) Load(root scene.Object, clip *Clip) {
	r.root = root
	r.clip = clip
	r.state = Stopped
	r.frame = 0
	r.counter = 0
}

func (r *Runner) State() State { return r.state }
func (r *Runner) Frame() int   { return r.frame }
func (r *Runner) Len() int     { return r.clip.Len() }
func (r *Runner) FPS() float64 { return r.fps }
func (r *Runner) Repeat() bool { return r.repeat }
func (r *Runner) Clip() *Clip  { return r.clip }

// SetRepeat enables or disables wrapping at the clip ends.
func (r *Runner) SetRepeat(repeat bool) { r.repeat = repeat }

// SetFPS changes the playback rate. Non-positive values are ignored.
func (r *Runner) SetFPS(fps float64) {
	if fps > 0 {
		r.fps = fps
	}
}

// StartForward plays toward the last frame.
func (r *Runner) StartForward() { r.start(PlayingForward) }

// StartBackward plays toward the first frame.
func (r *Runner) StartBackward() { r.start(PlayingBackward) }

func (r *Runner) start(s State) {
	if r.clip.Len() == 0 {
		return
	}
	r.state = s
	r.counter = 0
}

// Stop pauses playback on the current frame.
func (r *Runner) Stop() { r.state = Stopped }

// Update advances playback by dt seconds. Whole frames are stepped once the
// accumulated fraction reaches one; the remainder is discarded.
func (r *Runner) Update(dt float64) {
	n := r.clip.Len()
	if r.state == Stopped || n == 0 {
		return
	}
	r.counter += dt * r.fps
	if r.counter < 1 {
		return
	}
	steps := int(stdmath.Floor(r.counter))
	r.counter = 0

	next := r.frame
	switch r.state {
	case PlayingForward:
		next += steps
		if r.repeat {
			next %= n
		} else if next >= n-1 {
			next = n - 1
			r.state = Stopped
		}
	case PlayingBackward:
		next -= steps
		if r.repeat {
			next = ((next % n) + n) % n
		} else if next <= 0 {
			next = 0
			r.state = Stopped
		}
	}
	r.frame = next
	r.Apply()
}

// ToNextFrame stops playback and steps one frame forward, clamped.
func (r *Runner) ToNextFrame() { r.seek(r.frame + 1) }

// ToPrevFrame stops playback and steps one frame back, clamped.
func (r *Runner) ToPrevFrame() { r.seek(r.frame - 1) }

// ToFirstFrame stops playback on frame 0.
func (r *Runner) ToFirstFrame() { r.seek(0) }

// ToLastFrame stops playback on the last frame.
func (r *Runner) ToLastFrame() { r.seek(r.clip.Len() - 1) }

func (r *Runner) seek(frame int) {
	r.state = Stopped
	r.counter = 0
	n := r.clip.Len()
	if n == 0 {
		return
	}
	r.frame = max(0, min(frame, n-1))
	r.Apply()
}

// Apply writes the current frame onto the bound tree.
func (r *Runner) Apply() {
	if r.root == nil || r.clip.Len() == 0 {
		return
	}
	ApplyPath(r.root, r.clip.Frames[r.frame])
}

// ApplyPath applies p to obj and recursively to obj's children whose names
// appear in p.Children. If several children share a name, each receives
// the same nested path.
func ApplyPath(obj scene.Object, p *Path) {
	if p == nil {
		return
	}
	n := obj.Base()
	if kf := p.Keyframe; kf != nil {
		if kf.Translation != nil {
			n.SetPosition(math.Vec3FromArray(*kf.Translation))
		}
		if kf.Rotation != nil {
			deg := *kf.Rotation
			n.SetRotation(math.Euler{
				X:     math.DegToRad(deg[0]),
				Y:     math.DegToRad(deg[1]),
				Z:     math.DegToRad(deg[2]),
				Order: n.RotationOrder(),
			})
		}
		if kf.Scale != nil {
			n.SetScale(math.Vec3FromArray(*kf.Scale))
		}
	}
	if len(p.Children) == 0 {
		return
	}
	for _, child := range n.Children() {
		if cp, ok := p.Children[child.Base().Name]; ok {
			ApplyPath(child, cp)
		}
	}
}
