package graphics

import (
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"

	rl "github.com/gen2brain/raylib-go/raylib"

	"sandbox-engine/internal/camera"
	"sandbox-engine/internal/primitives"
	"sandbox-engine/internal/render"
)

const (
	gridExtent     = 50
	gridMinorStep  = 1
	gridMajorStep  = 10
	gridMinorAlpha = 50
	gridMajorAlpha = 120
	axisLineAlpha  = 220
	skyboxScale    = 1000
)

// skyboxPaths are tried in order so the skybox is found whether run from repo root or cmd/game.
var skyboxPaths = []string{
	"assets/skybox/skybox.png",
	"assets/skybox/skybox.jpg",
	"../../assets/skybox/skybox.png",
	"../../assets/skybox/skybox.jpg",
}

var selectionColor = rl.NewColor(255, 200, 40, 255)

// Viewport draws the 3D world from the camera rig: skybox, editor grid, map props and actor visuals.
type Viewport struct {
	GridVisible bool

	prims *primitives.Registry

	skyboxPath      string
	skyboxLoaded    bool
	skyboxTex       rl.Texture2D
	skyboxMesh      rl.Mesh
	skyboxMtl       rl.Material
	skyboxCamPosLoc int32
	skyboxTexLoc    int32
}

// NewViewport returns a viewport with the grid visible. A panorama under assets/skybox/ is
// used as the skybox when present; GPU loading waits for the first Draw.
func NewViewport() *Viewport {
	v := &Viewport{GridVisible: true, prims: primitives.NewRegistry()}
	for _, p := range skyboxPaths {
		if _, err := os.Stat(filepath.Clean(p)); err == nil {
			v.skyboxPath = filepath.Clean(p)
			break
		}
	}
	return v
}

// SetGridVisible sets whether the editor grid is drawn.
func (v *Viewport) SetGridVisible(visible bool) { v.GridVisible = visible }

// Camera3D converts the rig to a raylib camera.
func Camera3D(r *camera.Rig) rl.Camera3D {
	pos, target, up := r.Position, r.Target(), r.Up()
	return rl.Camera3D{
		Position:   rl.NewVector3(pos.X(), pos.Y(), pos.Z()),
		Target:     rl.NewVector3(target.X(), target.Y(), target.Z()),
		Up:         rl.NewVector3(up.X(), up.Y(), up.Z()),
		Fovy:       r.Fovy,
		Projection: rl.CameraPerspective,
	}
}

func color(c render.RGBA) rl.Color { return rl.NewColor(c[0], c[1], c[2], c[3]) }

// Draw renders the world. Call after ClearBackground and before 2D overlays (console, HUD).
func (v *Viewport) Draw(r *camera.Rig, boxes []render.Box, visuals []*render.Visual) {
	v.ensureSkyboxLoaded()
	cam := Camera3D(r)
	v.prims.SetView([3]float32(r.Position), [3]float32{0.5, 1, 0.5})

	rl.BeginMode3D(cam)
	if v.skyboxLoaded {
		v.drawSkybox(r.Position)
	}
	if v.GridVisible {
		drawEditorGrid()
	}
	for _, b := range boxes {
		v.prims.Draw("cube", b.Model, color(b.Color))
	}
	for _, vis := range visuals {
		model := vis.Model()
		v.prims.Draw(vis.Primitive, model, color(vis.Color))
		if vis.Selected {
			v.prims.DrawWires(model, selectionColor)
		}
	}
	rl.EndMode3D()
}

// ensureSkyboxLoaded runs the first time we Draw with a skybox file; GPU resources need the window.
func (v *Viewport) ensureSkyboxLoaded() {
	if v.skyboxPath == "" {
		return
	}
	path := v.skyboxPath
	v.skyboxPath = ""

	v.skyboxTex = rl.LoadTexture(path)
	if !rl.IsTextureValid(v.skyboxTex) {
		return
	}
	shader := rl.LoadShaderFromMemory(equirectVS, equirectFS)
	if !rl.IsShaderValid(shader) {
		rl.UnloadTexture(v.skyboxTex)
		return
	}
	v.skyboxMesh = rl.GenMeshCube(1, 1, 1)
	v.skyboxMtl = rl.LoadMaterialDefault()
	v.skyboxMtl.Shader = shader
	v.skyboxCamPosLoc = rl.GetShaderLocation(shader, "cameraPosition")
	v.skyboxTexLoc = rl.GetShaderLocation(shader, "skybox")
	v.skyboxLoaded = true
}

// Equirectangular skybox shader: samples a 2D panorama by view direction.
const (
	equirectVS = `#version 330
in vec3 vertexPosition;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragWorldPos;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragWorldPos = worldPos.xyz;
  gl_Position = matProjection * matView * worldPos;
}
`
	equirectFS = `#version 330
in vec3 fragWorldPos;
out vec4 finalColor;
uniform sampler2D skybox;
uniform vec3 cameraPosition;
void main() {
  vec3 dir = normalize(fragWorldPos - cameraPosition);
  float lon = atan(dir.z, dir.x);
  float lat = asin(clamp(dir.y, -1.0, 1.0));
  float u = lon / 6.28318530718 + 0.5;
  float v = 0.5 - lat / 3.14159265359;
  finalColor = texture(skybox, vec2(u, v));
}
`
)

// drawSkybox draws the skybox as a large cube centered on the camera.
func (v *Viewport) drawSkybox(pos mgl32.Vec3) {
	rl.DisableDepthMask()
	rl.DisableBackfaceCulling()
	model := mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).Mul4(mgl32.Scale3D(skyboxScale, skyboxScale, skyboxScale))
	if v.skyboxCamPosLoc >= 0 {
		camPos := []float32{pos.X(), pos.Y(), pos.Z()}
		rl.SetShaderValueV(v.skyboxMtl.Shader, v.skyboxCamPosLoc, camPos, rl.ShaderUniformVec3, 1)
	}
	if v.skyboxTexLoc >= 0 {
		rl.SetShaderValueTexture(v.skyboxMtl.Shader, v.skyboxTexLoc, v.skyboxTex)
	}
	rl.DrawMesh(v.skyboxMesh, v.skyboxMtl, primitives.Matrix(model))
	rl.EnableBackfaceCulling()
	rl.EnableDepthMask()
}

// drawEditorGrid draws a grid on the XZ plane with major/minor lines and axis lines.
// Reuses start/end vectors to avoid per-frame allocations in the hot loop.
func drawEditorGrid() {
	minor := rl.NewColor(128, 128, 128, gridMinorAlpha)
	major := rl.NewColor(160, 160, 160, gridMajorAlpha)

	var start, end rl.Vector3
	for i := -gridExtent; i <= gridExtent; i += gridMinorStep {
		c := major
		if i%gridMajorStep != 0 {
			c = minor
		}
		start.X, start.Y, start.Z = float32(i), 0, -gridExtent
		end.X, end.Y, end.Z = float32(i), 0, gridExtent
		rl.DrawLine3D(start, end, c)
		start.X, start.Y, start.Z = -gridExtent, 0, float32(i)
		end.X, end.Y, end.Z = gridExtent, 0, float32(i)
		rl.DrawLine3D(start, end, c)
	}

	// Axis lines through origin (X=red, Y=green, Z=blue)
	axes := [3]rl.Color{
		rl.NewColor(220, 80, 80, axisLineAlpha),
		rl.NewColor(80, 220, 80, axisLineAlpha),
		rl.NewColor(80, 80, 220, axisLineAlpha),
	}
	for axis, c := range axes {
		var a, b [3]float32
		a[axis], b[axis] = -gridExtent, gridExtent
		rl.DrawLine3D(rl.NewVector3(a[0], a[1], a[2]), rl.NewVector3(b[0], b[1], b[2]), c)
	}
}
