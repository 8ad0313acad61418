package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestRig_LooksAtOrigin(t *testing.T) {
	r := New()
	want := DefaultTarget.Sub(DefaultPosition).Normalize()
	assert.True(t, r.Forward().ApproxEqualThreshold(want, 1e-5), "%v", r.Forward())
	assert.True(t, r.EditorControls())
	assert.False(t, r.PlayControls())
}

func TestRig_PointAhead(t *testing.T) {
	r := New()
	r.SetPose(mgl32.Vec3{1, 2, 3}, mgl32.QuatIdent())
	assert.True(t, r.PointAhead(5).ApproxEqual(mgl32.Vec3{1, 2, -2}))

	r.Turn(mgl32.DegToRad(90), 0)
	assert.True(t, r.Forward().ApproxEqualThreshold(mgl32.Vec3{-1, 0, 0}, 1e-5), "%v", r.Forward())

	r.Move(2, 0, 1)
	assert.True(t, r.Position.ApproxEqualThreshold(mgl32.Vec3{-1, 3, 3}, 1e-5), "%v", r.Position)
}

func TestRig_ControlFlags(t *testing.T) {
	r := New()
	r.DisableEditorControls()
	r.EnableControls()
	assert.False(t, r.EditorControls())
	assert.True(t, r.PlayControls())
}
