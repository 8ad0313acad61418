package graphics

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"sandbox-engine/internal/camera"
)

const (
	flySpeed         = 8
	fastMultiplier   = 3
	mouseSensitivity = 0.003
)

// DriveCamera moves the rig from keyboard and mouse. With play controls the mouse always
// looks around; with editor controls only while the right button is held. WASD moves,
// Q/E lower and raise, Shift is faster. Does nothing when neither control set is enabled
// or captured is false (console open).
func DriveCamera(r *camera.Rig, dt float32, captured bool) {
	if !captured || (!r.PlayControls() && !r.EditorControls()) {
		return
	}
	look := r.PlayControls() || rl.IsMouseButtonDown(rl.MouseButtonRight)
	if look {
		d := rl.GetMouseDelta()
		r.Turn(-d.X*mouseSensitivity, -d.Y*mouseSensitivity)
	}

	speed := float32(flySpeed) * dt
	if rl.IsKeyDown(rl.KeyLeftShift) {
		speed *= fastMultiplier
	}
	var forward, right, up float32
	if rl.IsKeyDown(rl.KeyW) {
		forward += speed
	}
	if rl.IsKeyDown(rl.KeyS) {
		forward -= speed
	}
	if rl.IsKeyDown(rl.KeyD) {
		right += speed
	}
	if rl.IsKeyDown(rl.KeyA) {
		right -= speed
	}
	if rl.IsKeyDown(rl.KeyE) {
		up += speed
	}
	if rl.IsKeyDown(rl.KeyQ) {
		up -= speed
	}
	r.Move(forward, right, up)
}
