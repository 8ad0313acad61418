package debug

import (
	"fmt"
	"runtime"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"sandbox-engine/internal/game"
)

const (
	fpsFontSize   = 20
	fpsPadding    = 12
	fpsLineHeight = fpsFontSize + 4
	// updateInterval: only refresh FPS/Mem text every N frames to reduce allocations.
	updateInterval = 30
)

// Debug holds runtime debugging features (FPS display, session status). FPS and memory overlays are off by default.
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	ShowStatus   bool
	font         rl.Font // optional; when set, Draw uses DrawTextEx instead of default font
	frameCount   uint32
	lastFpsText  string
	lastMemText  string
	lastMemStats runtime.MemStats
	status       []string
}

// New returns a Debug system with FPS and memory overlays hidden and the status line shown.
func New() *Debug {
	return &Debug{ShowStatus: true}
}

// SetStatus sets the session status drawn top-left. See StatusLines.
func (d *Debug) SetStatus(lines []string) {
	d.status = lines
}

// StatusLines describes the mounted map, the edit/play state and the running game mode.
func StatusLines(mapID string, playing bool, scheme string, mode *game.Status) []string {
	state := "EDIT"
	if playing {
		state = "PLAY (" + scheme + ")"
	}
	lines := []string{fmt.Sprintf("%s  map: %s", state, mapID)}
	if mode != nil {
		played := time.Duration(mode.TimePlayed) * time.Millisecond
		lines = append(lines, fmt.Sprintf("%s  %s  score %d  time %s", mode.Kind, mode.Phase, mode.Score, played.Truncate(time.Second)))
	}
	return lines
}

// SetShowFPS sets whether the FPS counter is drawn (top-right, green).
func (d *Debug) SetShowFPS(show bool) {
	d.ShowFPS = show
}

// SetShowMemAlloc sets whether the memory allocation counter is drawn (top-right, under FPS).
func (d *Debug) SetShowMemAlloc(show bool) {
	d.ShowMemAlloc = show
}

// SetFont sets the font used to draw FPS/Mem (e.g. same as UI). Zero texture ID = use raylib default.
func (d *Debug) SetFont(font rl.Font) {
	d.font = font
}

// Draw renders any enabled debug overlays. Call after the viewport and terminal in the draw loop.
// The status lines are drawn at the top-left when ShowStatus is true.
// FPS is drawn at the top-right in green when ShowFPS is true.
// Memory (heap alloc) is drawn under FPS when ShowMemAlloc is true.
// Text is only recomputed every updateInterval frames to limit allocations.
func (d *Debug) Draw() {
	d.frameCount++
	update := (d.frameCount % updateInterval) == 0
	if d.ShowFPS && d.lastFpsText == "" {
		update = true
	}
	if d.ShowMemAlloc && d.lastMemText == "" {
		update = true
	}

	screenW := int32(rl.GetScreenWidth())
	y := int32(fpsPadding)

	if d.ShowStatus {
		for i, line := range d.status {
			ly := int32(fpsPadding + i*fpsLineHeight)
			if d.font.Texture.ID != 0 {
				rl.DrawTextEx(d.font, line, rl.NewVector2(fpsPadding, float32(ly)), fpsFontSize, 1, rl.RayWhite)
			} else {
				rl.DrawText(line, fpsPadding, ly, fpsFontSize, rl.RayWhite)
			}
		}
	}

	if d.ShowFPS {
		if update {
			d.lastFpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		}
		text := d.lastFpsText
		if text != "" {
			if d.font.Texture.ID != 0 {
				sz := float32(fpsFontSize)
				pos := rl.NewVector2(float32(screenW)-rl.MeasureTextEx(d.font, text, sz, 1).X-float32(fpsPadding), float32(y))
				rl.DrawTextEx(d.font, text, pos, sz, 1, rl.Green)
			} else {
				w := rl.MeasureText(text, fpsFontSize)
				x := screenW - w - fpsPadding
				rl.DrawText(text, x, y, fpsFontSize, rl.Green)
			}
		}
		y += fpsLineHeight
	}

	if d.ShowMemAlloc {
		if update {
			runtime.ReadMemStats(&d.lastMemStats)
			mb := float64(d.lastMemStats.Alloc) / (1024 * 1024)
			d.lastMemText = fmt.Sprintf("Mem: %.2f MiB", mb)
		}
		text := d.lastMemText
		if text != "" {
			if d.font.Texture.ID != 0 {
				sz := float32(fpsFontSize)
				pos := rl.NewVector2(float32(screenW)-rl.MeasureTextEx(d.font, text, sz, 1).X-float32(fpsPadding), float32(y))
				rl.DrawTextEx(d.font, text, pos, sz, 1, rl.Green)
			} else {
				w := rl.MeasureText(text, fpsFontSize)
				x := screenW - w - fpsPadding
				rl.DrawText(text, x, y, fpsFontSize, rl.Green)
			}
		}
	}
}
