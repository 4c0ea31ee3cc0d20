// Package scene implements the transform hierarchy: nodes, meshes, cameras
// and the scene root.
//
// World matrices are refreshed lazily. Mutating a transform only marks the
// subtree dirty; UpdateWorldMatrix recomputes matrices, optionally pulling
// fresh parent matrices first and pushing the result down to children.
package scene

import (
	"errors"
	"fmt"

	"github.com/Faultbox/scenery/pkg/math"
)

// ErrCycle is returned when attaching a node under itself or one of its
// descendants.
var ErrCycle = errors.New("scene: attachment would create a cycle")

// Kind identifies the concrete type of a graph element.
type Kind uint8

const (
	KindNode Kind = iota
	KindMesh
	KindCamera
	KindScene
)

var kindNames = [...]string{"node", "mesh", "camera", "scene"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Object is implemented by every graph element. The set of implementations
// is closed: *Node, *Mesh, *Camera and *Scene.
type Object interface {
	Base() *Node
	Kind() Kind
	UpdateWorldMatrix(updateParents, updateChildren bool)
	sealed()
}

type eulerCache struct {
	valid bool
	q     math.Quat
	e     math.Euler
}

// Node is a plain transform. Mesh, Camera and Scene embed it.
type Node struct {
	Name string

	self     Object
	parent   Object
	children []Object

	position   math.Vec3
	quaternion math.Quat
	scale      math.Vec3
	order      math.EulerOrder
	euler      eulerCache

	localMatrix math.Mat4
	worldMatrix math.Mat4
	dirty       bool
}

// NewNode creates a parentless node with an identity transform.
func NewNode(name string) *Node {
	n := &Node{}
	n.init(n, name)
	return n
}

func (n *Node) init(self Object, name string) {
	n.Name = name
	n.self = self
	n.quaternion = math.QuatIdentity()
	n.scale = math.Vec3{X: 1, Y: 1, Z: 1}
	n.order = math.DefaultOrder
	n.localMatrix = math.Identity()
	n.worldMatrix = math.Identity()
}

func (n *Node) Base() *Node { return n }
func (n *Node) Kind() Kind  { return KindNode }
func (n *Node) sealed()     {}

// Object returns the outermost value embedding n (the *Mesh for a mesh node).
func (n *Node) Object() Object { return n.self }

// Parent returns the parent or nil.
func (n *Node) Parent() Object { return n.parent }

// Children returns the ordered child list. Callers must not modify it.
func (n *Node) Children() []Object { return n.children }

// AddChild attaches child as the last child of n, detaching it from any
// previous parent. Attaching n under itself or a descendant returns ErrCycle
// and leaves the graph unchanged.
func (n *Node) AddChild(child Object) error {
	c := child.Base()
	for a := Object(n.self); a != nil; a = a.Base().parent {
		if a.Base() == c {
			return fmt.Errorf("%w: %q under %q", ErrCycle, c.Name, n.Name)
		}
	}
	if c.parent != nil {
		c.parent.Base().detach(c)
	}
	c.parent = n.self
	n.children = append(n.children, c.self)
	c.markDirty()
	return nil
}

// RemoveChild detaches child from n. It reports whether child was found.
func (n *Node) RemoveChild(child Object) bool {
	c := child.Base()
	if c.parent == nil || c.parent.Base() != n {
		return false
	}
	n.detach(c)
	c.parent = nil
	c.markDirty()
	return true
}

func (n *Node) detach(c *Node) {
	for i, o := range n.children {
		if o.Base() == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

// Remove detaches n from its parent, if any.
func (n *Node) Remove() {
	if n.parent != nil {
		n.parent.Base().RemoveChild(n)
	}
}

// Clear detaches all children of n.
func (n *Node) Clear() {
	for len(n.children) > 0 {
		n.RemoveChild(n.children[len(n.children)-1])
	}
}

// Dispose detaches n from its parent and releases its whole subtree.
func (n *Node) Dispose() {
	n.Remove()
	for _, c := range n.children {
		c.Base().parent = nil
		c.Base().Dispose()
	}
	n.children = nil
}

func (n *Node) markDirty() {
	n.dirty = true
	for _, c := range n.children {
		c.Base().markDirty()
	}
}

// WorldMatrixDirty reports whether a transform in the parent chain changed
// since the last UpdateWorldMatrix that covered n.
func (n *Node) WorldMatrixDirty() bool { return n.dirty }

// Position returns the local position.
func (n *Node) Position() math.Vec3 { return n.position }

// SetPosition sets the local position.
func (n *Node) SetPosition(p math.Vec3) {
	n.position = p
	n.markDirty()
}

// Scale returns the local scale.
func (n *Node) Scale() math.Vec3 { return n.scale }

// SetScale sets the local scale.
func (n *Node) SetScale(s math.Vec3) {
	n.scale = s
	n.markDirty()
}

// Quaternion returns the local rotation.
func (n *Node) Quaternion() math.Quat { return n.quaternion }

// SetQuaternion sets the local rotation. The Euler view is re-derived from it.
func (n *Node) SetQuaternion(q math.Quat) {
	n.quaternion = q
	n.euler.valid = false
	n.markDirty()
}

// Rotation returns the local rotation as Euler angles in the node's order.
// An Euler passed to SetRotation reads back unchanged until the quaternion
// is modified.
func (n *Node) Rotation() math.Euler {
	if !n.euler.valid || n.euler.q != n.quaternion {
		n.euler = eulerCache{
			valid: true,
			q:     n.quaternion,
			e:     math.EulerFromQuat(n.quaternion, n.order),
		}
	}
	return n.euler.e
}

// SetRotation sets the rotation from Euler angles and adopts e.Order.
func (n *Node) SetRotation(e math.Euler) {
	n.order = e.Order
	n.quaternion = e.Quat()
	n.euler = eulerCache{valid: true, q: n.quaternion, e: e}
	n.markDirty()
}

// RotationOrder returns the Euler order used by Rotation.
func (n *Node) RotationOrder() math.EulerOrder { return n.order }

// SetRotationOrder changes the order Rotation reports angles in. The
// orientation itself is unchanged.
func (n *Node) SetRotationOrder(order math.EulerOrder) {
	n.order = order
	n.euler.valid = false
}

// SetRotationFromAxisAngle sets the rotation to angle radians around axis.
func (n *Node) SetRotationFromAxisAngle(axis math.Vec3, angle float32) {
	n.SetQuaternion(math.QuatFromAxisAngle(axis.Normalize(), angle))
}

// SetRotationFromMatrix sets the rotation from the upper 3x3 of an
// unscaled rotation matrix.
func (n *Node) SetRotationFromMatrix(m math.Mat4) {
	n.SetQuaternion(math.QuatFromRotationMatrix(m))
}

// RotateOnAxis rotates around an axis in local space.
func (n *Node) RotateOnAxis(axis math.Vec3, angle float32) {
	n.SetQuaternion(n.quaternion.Mul(math.QuatFromAxisAngle(axis.Normalize(), angle)))
}

// RotateOnWorldAxis rotates around an axis in the parent's space.
func (n *Node) RotateOnWorldAxis(axis math.Vec3, angle float32) {
	n.SetQuaternion(math.QuatFromAxisAngle(axis.Normalize(), angle).Mul(n.quaternion))
}

func (n *Node) RotateX(angle float32) { n.RotateOnAxis(math.Vec3{X: 1}, angle) }
func (n *Node) RotateY(angle float32) { n.RotateOnAxis(math.Vec3{Y: 1}, angle) }
func (n *Node) RotateZ(angle float32) { n.RotateOnAxis(math.Vec3{Z: 1}, angle) }

// TranslateOnAxis moves the node along an axis expressed in its own
// rotated frame.
func (n *Node) TranslateOnAxis(axis math.Vec3, distance float32) {
	v := n.quaternion.Rotate(axis.Normalize())
	n.SetPosition(n.position.Add(v.Scale(distance)))
}

func (n *Node) TranslateX(distance float32) { n.TranslateOnAxis(math.Vec3{X: 1}, distance) }
func (n *Node) TranslateY(distance float32) { n.TranslateOnAxis(math.Vec3{Y: 1}, distance) }
func (n *Node) TranslateZ(distance float32) { n.TranslateOnAxis(math.Vec3{Z: 1}, distance) }

// LocalMatrix returns the matrix computed by the last UpdateWorldMatrix.
func (n *Node) LocalMatrix() math.Mat4 { return n.localMatrix }

// WorldMatrix returns the matrix computed by the last UpdateWorldMatrix.
// It is stale while WorldMatrixDirty reports true.
func (n *Node) WorldMatrix() math.Mat4 { return n.worldMatrix }

// UpdateWorldMatrix recomputes the local matrix as T * R * S and the world
// matrix as parentWorld * local. With updateParents the parent chain is
// refreshed first; with updateChildren the whole subtree is refreshed after.
func (n *Node) UpdateWorldMatrix(updateParents, updateChildren bool) {
	n.updateSelf(updateParents)
	if updateChildren {
		for _, c := range n.children {
			c.UpdateWorldMatrix(false, true)
		}
	}
}

func (n *Node) updateSelf(updateParents bool) {
	if updateParents && n.parent != nil {
		n.parent.UpdateWorldMatrix(true, false)
	}
	n.localMatrix = math.Compose(n.position, n.quaternion, n.scale)
	if n.parent == nil {
		n.worldMatrix = n.localMatrix
	} else {
		n.worldMatrix = n.parent.Base().worldMatrix.Mul(n.localMatrix)
	}
	n.dirty = false
}

// WorldPosition refreshes the parent chain and returns the world-space origin.
func (n *Node) WorldPosition() math.Vec3 {
	n.self.UpdateWorldMatrix(true, false)
	m := n.worldMatrix
	return math.Vec3{X: m[12], Y: m[13], Z: m[14]}
}

// WorldQuaternion refreshes the parent chain and returns the world rotation.
func (n *Node) WorldQuaternion() math.Quat {
	n.self.UpdateWorldMatrix(true, false)
	_, q, _ := n.worldMatrix.Decompose()
	return q
}

// LocalToWorld converts a point from n's space to world space.
func (n *Node) LocalToWorld(p math.Vec3) math.Vec3 {
	n.self.UpdateWorldMatrix(true, false)
	return n.worldMatrix.TransformVec3(p)
}

// WorldToLocal converts a world-space point into n's space.
func (n *Node) WorldToLocal(p math.Vec3) math.Vec3 {
	n.self.UpdateWorldMatrix(true, false)
	return n.worldMatrix.Inverse().TransformVec3(p)
}

// LookAt rotates the node so its +Z axis points at target (world space).
func (n *Node) LookAt(target math.Vec3) {
	n.lookAt(target, false)
}

// lookAt orients n toward target. Cameras look down -Z, other nodes face +Z.
func (n *Node) lookAt(target math.Vec3, camera bool) {
	eye := n.WorldPosition()
	var m math.Mat4
	if camera {
		m = math.LookRotation(eye, target, math.Up)
	} else {
		m = math.LookRotation(target, eye, math.Up)
	}
	q := math.QuatFromRotationMatrix(m)
	if n.parent != nil {
		parentRot := math.QuatFromRotationMatrix(n.parent.Base().worldMatrix.ExtractRotation())
		q = q.Premultiply(parentRot.Inverse())
	}
	n.SetQuaternion(q)
}

// Traverse calls fn for n and every descendant, depth first, parents
// before children.
func (n *Node) Traverse(fn func(Object)) {
	fn(n.self)
	for _, c := range n.children {
		c.Base().Traverse(fn)
	}
}

// LevelOrder calls fn for every descendant of n (not n itself) in level
// order: children are queued behind the nodes already waiting.
func (n *Node) LevelOrder(fn func(Object)) {
	queue := append([]Object(nil), n.children...)
	for len(queue) > 0 {
		o := queue[0]
		queue = queue[1:]
		fn(o)
		queue = append(queue, o.Base().children...)
	}
}

// FindByName returns the first node named name in depth-first order,
// including n itself, or nil.
func (n *Node) FindByName(name string) Object {
	if n.Name == name {
		return n.self
	}
	for _, c := range n.children {
		if found := c.Base().FindByName(name); found != nil {
			return found
		}
	}
	return nil
}

// Depth returns the number of ancestors of n.
func (n *Node) Depth() int {
	d := 0
	for p := n.parent; p != nil; p = p.Base().parent {
		d++
	}
	return d
}
