// Package camera holds the editor/play camera rig and which control set drives it.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Default rig placement: above and in front of the origin, looking at it.
var (
	DefaultPosition = mgl32.Vec3{10, 10, 10}
	DefaultTarget   = mgl32.Vec3{0, 0, 0}
	worldUp         = mgl32.Vec3{0, 1, 0}
)

// DefaultFovy is the vertical field of view in degrees.
const DefaultFovy = 45

// Rig is a free camera pose plus two mutually independent control flags: the editor
// orbit/fly controls and the in-game controls. The forward axis is -Z of Orientation.
type Rig struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
	Fovy        float32

	editorControls bool
	playControls   bool
}

// New returns a rig at DefaultPosition looking at DefaultTarget with editor controls on.
func New() *Rig {
	r := &Rig{Position: DefaultPosition, Fovy: DefaultFovy, editorControls: true}
	r.LookAt(DefaultTarget)
	return r
}

// Pose returns position and orientation.
func (r *Rig) Pose() (mgl32.Vec3, mgl32.Quat) { return r.Position, r.Orientation }

// SetPose replaces position and orientation.
func (r *Rig) SetPose(position mgl32.Vec3, orientation mgl32.Quat) {
	r.Position = position
	r.Orientation = orientation.Normalize()
}

// LookAt turns the rig toward target with no roll.
func (r *Rig) LookAt(target mgl32.Vec3) {
	d := target.Sub(r.Position)
	if d.Len() == 0 {
		return
	}
	d = d.Normalize()
	yaw := math32.Atan2(-d.X(), -d.Z())
	pitch := math32.Asin(min(max(d.Y(), -1), 1))
	r.Orientation = mgl32.QuatRotate(yaw, worldUp).Mul(mgl32.QuatRotate(pitch, mgl32.Vec3{1, 0, 0}))
}

// Forward is the unit view direction.
func (r *Rig) Forward() mgl32.Vec3 { return r.Orientation.Rotate(mgl32.Vec3{0, 0, -1}) }

// Right is the unit direction to the right of the view.
func (r *Rig) Right() mgl32.Vec3 { return r.Orientation.Rotate(mgl32.Vec3{1, 0, 0}) }

// Up is the unit up direction of the view.
func (r *Rig) Up() mgl32.Vec3 { return r.Orientation.Rotate(worldUp) }

// Target is the point one unit along the view direction.
func (r *Rig) Target() mgl32.Vec3 { return r.Position.Add(r.Forward()) }

// PointAhead returns the point distance units in front of the camera.
func (r *Rig) PointAhead(distance float32) mgl32.Vec3 {
	return r.Position.Add(r.Forward().Mul(distance))
}

// Move translates the rig along its own axes.
func (r *Rig) Move(forward, right, up float32) {
	delta := r.Forward().Mul(forward).Add(r.Right().Mul(right)).Add(worldUp.Mul(up))
	r.Position = r.Position.Add(delta)
}

// Turn applies yaw around world up and pitch around the rig's right axis, in radians.
func (r *Rig) Turn(yaw, pitch float32) {
	q := mgl32.QuatRotate(yaw, worldUp).Mul(r.Orientation).Mul(mgl32.QuatRotate(pitch, mgl32.Vec3{1, 0, 0}))
	r.Orientation = q.Normalize()
}

// EnableEditorControls turns on the editor orbit/fly input.
func (r *Rig) EnableEditorControls() { r.editorControls = true }

// DisableEditorControls turns off the editor input.
func (r *Rig) DisableEditorControls() { r.editorControls = false }

// EnableControls turns on the free-fly play input.
func (r *Rig) EnableControls() { r.playControls = true }

// DisableControls turns off the play input.
func (r *Rig) DisableControls() { r.playControls = false }

// EditorControls reports whether the editor controls drive the rig.
func (r *Rig) EditorControls() bool { return r.editorControls }

// PlayControls reports whether the in-game controls drive the rig.
func (r *Rig) PlayControls() bool { return r.playControls }
