// Package animation plays keyframe clips onto a scene graph.
//
// A clip frame is a tree of paths that mirrors the node tree by child
// name. Names that match no live child are skipped along with their
// subtree.
package animation

// Keyframe overrides parts of a node's local transform. Nil fields leave
// the node untouched. Rotation is in degrees.
type Keyframe struct {
	Translation *[3]float32 `json:"translation,omitempty" yaml:"translation,omitempty"`
	Rotation    *[3]float32 `json:"rotation,omitempty" yaml:"rotation,omitempty"`
	Scale       *[3]float32 `json:"scale,omitempty" yaml:"scale,omitempty"`
}

// Path is one level of a frame: an optional keyframe for the node it is
// applied to plus nested paths for that node's children, keyed by name.
type Path struct {
	Keyframe *Keyframe        `json:"keyframe,omitempty" yaml:"keyframe,omitempty"`
	Children map[string]*Path `json:"children,omitempty" yaml:"children,omitempty"`
}

// Clip is a named sequence of frames.
type Clip struct {
	Name   string  `json:"name" yaml:"name"`
	Frames []*Path `json:"frames" yaml:"frames"`
}

// Len returns the number of frames.
func (c *Clip) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Frames)
}

// Child returns the nested path for name, creating it when missing.
func (p *Path) Child(name string) *Path {
	if p.Children == nil {
		p.Children = make(map[string]*Path)
	}
	c, ok := p.Children[name]
	if !ok {
		c = &Path{}
		p.Children[name] = c
	}
	return c
}

// Vec returns a pointer to a three-component array, for building keyframes.
func Vec(x, y, z float32) *[3]float32 {
	return &[3]float32{x, y, z}
}
