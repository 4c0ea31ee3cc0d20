package geometry

import (
	"fmt"
	"sort"
)

// Buffer is a geometry built from explicit attribute data, as produced by
// importers or read back from the wire format.
type Buffer struct {
	base
}

// NewBuffer validates attrs and derives any missing normal, tangent and
// bitangent attributes. A position attribute with three components is
// required, and its vertex count must be a multiple of three.
func NewBuffer(attrs map[string]*Attribute) (*Buffer, error) {
	pos := attrs[AttrPosition]
	if pos == nil {
		return nil, fmt.Errorf("%w: buffer geometry without %q", ErrInvalidParams, AttrPosition)
	}
	if pos.Size != 3 {
		return nil, fmt.Errorf("%w: position size %d", ErrInvalidParams, pos.Size)
	}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	own := make(map[string]*Attribute, len(attrs))
	for _, name := range names {
		a := attrs[name]
		if a == nil {
			continue
		}
		if err := a.validate(name); err != nil {
			return nil, err
		}
		if name != AttrPosition && a.Count() != pos.Count() {
			return nil, fmt.Errorf("%w: attribute %q has %d vertices, position has %d",
				ErrInvalidParams, name, a.Count(), pos.Count())
		}
		own[name] = a
	}
	if pos.Count()%3 != 0 {
		return nil, fmt.Errorf("%w: %d vertices is not a triangle list", ErrInvalidParams, pos.Count())
	}
	derive(own)
	return &Buffer{base: base{attrs: own}}, nil
}

func (*Buffer) Kind() Kind { return KindBuffer }
