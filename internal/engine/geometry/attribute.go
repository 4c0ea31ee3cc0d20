package geometry

import (
	"encoding/binary"
	"fmt"
	"math"
)

// GL component type enums, stored on attributes as the wire "dtype".
const (
	TypeByte          uint32 = 0x1400
	TypeUnsignedByte  uint32 = 0x1401
	TypeShort         uint32 = 0x1402
	TypeUnsignedShort uint32 = 0x1403
	TypeInt           uint32 = 0x1404
	TypeUnsignedInt   uint32 = 0x1405
	TypeFloat         uint32 = 0x1406
)

// ElementKind is the typed-array kind an attribute's data is stored as on
// the GPU.
type ElementKind uint8

const (
	Float32 ElementKind = iota
	Int8
	Uint8
	Int16
	Uint16
	Int32
	Uint32
)

var elementNames = [...]string{
	"Float32Array", "Int8Array", "Uint8Array", "Int16Array",
	"Uint16Array", "Int32Array", "Uint32Array",
}

var elementSizes = [...]int{4, 1, 1, 2, 2, 4, 4}

var elementTypes = [...]uint32{
	TypeFloat, TypeByte, TypeUnsignedByte, TypeShort,
	TypeUnsignedShort, TypeInt, TypeUnsignedInt,
}

func (k ElementKind) String() string {
	if int(k) < len(elementNames) {
		return elementNames[k]
	}
	return fmt.Sprintf("ElementKind(%d)", uint8(k))
}

// ByteSize is the size of one element in bytes.
func (k ElementKind) ByteSize() int {
	return elementSizes[k]
}

// GLType is the matching GL component type.
func (k ElementKind) GLType() uint32 {
	return elementTypes[k]
}

// ParseElementKind maps a wire name such as "Float32Array" to an ElementKind.
func ParseElementKind(s string) (ElementKind, bool) {
	for i, name := range elementNames {
		if name == s {
			return ElementKind(i), true
		}
	}
	return 0, false
}

// Attribute is one vertex attribute buffer. Data is kept as float32 on the
// CPU side and converted to Element when uploaded.
type Attribute struct {
	Data      []float32
	Element   ElementKind
	Size      int // components per vertex
	DType     uint32
	Normalize bool
	Stride    int
	Offset    int
}

// NewAttribute creates a tightly packed float attribute.
func NewAttribute(data []float32, size int) *Attribute {
	return &Attribute{
		Data:    data,
		Element: Float32,
		Size:    size,
		DType:   TypeFloat,
	}
}

// Count returns the number of vertices stored.
func (a *Attribute) Count() int {
	if a.Size <= 0 {
		return 0
	}
	return len(a.Data) / a.Size
}

// vec3 returns vertex i of a three-component attribute.
func (a *Attribute) vec3(i int) [3]float32 {
	return [3]float32{a.Data[i*3], a.Data[i*3+1], a.Data[i*3+2]}
}

// Bytes encodes Data as little-endian elements of the attribute's kind.
func (a *Attribute) Bytes() []byte {
	size := a.Element.ByteSize()
	out := make([]byte, len(a.Data)*size)
	for i, v := range a.Data {
		b := out[i*size:]
		switch a.Element {
		case Float32:
			binary.LittleEndian.PutUint32(b, math.Float32bits(v))
		case Int8:
			b[0] = byte(int8(v))
		case Uint8:
			b[0] = uint8(v)
		case Int16:
			binary.LittleEndian.PutUint16(b, uint16(int16(v)))
		case Uint16:
			binary.LittleEndian.PutUint16(b, uint16(v))
		case Int32:
			binary.LittleEndian.PutUint32(b, uint32(int32(v)))
		case Uint32:
			binary.LittleEndian.PutUint32(b, uint32(v))
		}
	}
	return out
}

func (a *Attribute) validate(name string) error {
	if a.Size < 1 || a.Size > 4 {
		return fmt.Errorf("%w: attribute %q size %d", ErrInvalidParams, name, a.Size)
	}
	if len(a.Data)%a.Size != 0 {
		return fmt.Errorf("%w: attribute %q has %d values, not a multiple of %d",
			ErrInvalidParams, name, len(a.Data), a.Size)
	}
	if int(a.Element) >= len(elementNames) {
		return fmt.Errorf("%w: attribute %q element kind %d", ErrInvalidParams, name, a.Element)
	}
	return nil
}
