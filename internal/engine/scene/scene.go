package scene

import "github.com/Faultbox/scenery/pkg/math"

// Color is the linear RGB type used for scene backgrounds.
type Color = math.Color

// Scene is the root of a graph.
type Scene struct {
	Node

	Background Color
}

// New creates an empty scene with a black background.
func New(name string) *Scene {
	s := &Scene{}
	s.init(s, name)
	return s
}

func (s *Scene) Kind() Kind { return KindScene }

// Cameras returns every camera in the scene in level order.
func (s *Scene) Cameras() []*Camera {
	var cams []*Camera
	s.LevelOrder(func(o Object) {
		if c, ok := o.(*Camera); ok {
			cams = append(cams, c)
		}
	})
	return cams
}

// Count returns the number of descendants of the scene root.
func (s *Scene) Count() int {
	n := 0
	s.LevelOrder(func(Object) { n++ })
	return n
}
