package material

import (
	"strings"
	"sync"
	"testing"

	"github.com/Faultbox/scenery/pkg/math"
)

func TestIDsAreUniquePerInstance(t *testing.T) {
	a := NewBasic(math.Color{R: 1})
	b := NewBasic(math.Color{R: 1})
	if a.ID() == b.ID() {
		t.Errorf("identical materials share ID %d", a.ID())
	}
	if b.ID() <= a.ID() {
		t.Errorf("IDs not increasing: %d then %d", a.ID(), b.ID())
	}
}

func TestIDsUniqueAcrossGoroutines(t *testing.T) {
	const n = 64
	ids := make(chan uint64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- NewNormal().ID()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[uint64]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate ID %d", id)
		}
		seen[id] = true
	}
}

func TestShadersDeclareMaterialUniforms(t *testing.T) {
	mats := []Material{
		NewBasic(math.Color{}),
		NewLambert(math.Color{}, math.Color{}),
		NewPhong(math.Color{}, math.Color{}, 8),
		NewNormal(),
		NewTextured("a.png", math.Color{R: 1, G: 1, B: 1}),
	}
	for _, m := range mats {
		src := m.VertexSource() + m.FragmentSource()
		if !strings.Contains(m.VertexSource(), "#version 410 core") {
			t.Errorf("%s: vertex shader missing version", m.Kind())
		}
		for name := range m.Uniforms() {
			if !strings.Contains(src, name) {
				t.Errorf("%s: uniform %s not declared in shaders", m.Kind(), name)
			}
		}
	}
}

func TestKindNames(t *testing.T) {
	for k := KindBasic; k <= KindTextured; k++ {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseKind("toon"); ok {
		t.Error("ParseKind accepted unknown tag")
	}
}
