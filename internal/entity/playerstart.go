package entity

import (
	"fmt"
	"strconv"
	"strings"

	"sandbox-engine/internal/physics"
)

// DefaultPlayerStartColor is the marker color until a saved one is loaded.
const DefaultPlayerStartColor = "#00FF00"

// PlayerStart is a non-physical placement marker for where players enter a map.
type PlayerStart struct {
	*Actor
	color string
}

// NewPlayerStart returns a marker with the default color and a cylinder collider.
func NewPlayerStart() *PlayerStart {
	p := &PlayerStart{
		Actor: NewActor(TagPlayerStart, string(TagPlayerStart)),
		color: DefaultPlayerStartColor,
	}
	p.SetCollider(physics.Collider{Shape: physics.ShapeCylinder, Radius: 0.4, Height: 1.6})
	return p
}

// Color returns the marker color as "#RRGGBB".
func (p *PlayerStart) Color() string { return p.color }

// SetColor sets the marker color. Accepts "#RRGGBB", "RRGGBB", "0xRRGGBB" or a packed
// integer; anything else is ignored.
func (p *PlayerStart) SetColor(v any) {
	hex, ok := normalizeColor(v)
	if !ok {
		return
	}
	p.color = hex
	if t, ok := p.Mesh().(Tinter); ok {
		t.SetColor(hex)
	}
}

// Update keeps the marker in place; only the bounding box follows editor moves.
func (p *PlayerStart) Update(float32) {
	p.UpdateBounds()
}

// SpawnTransform is where a player pawn should appear.
func (p *PlayerStart) SpawnTransform() Transform {
	return p.Transform()
}

// Properties returns {name, color}.
func (p *PlayerStart) Properties() Properties {
	props := p.Actor.Properties()
	props["color"] = p.color
	return props
}

// LoadProperties restores name and color.
func (p *PlayerStart) LoadProperties(props Properties) {
	p.Actor.LoadProperties(props)
	if c, ok := props["color"]; ok {
		p.SetColor(c)
	}
}

func normalizeColor(v any) (string, bool) {
	var n uint64
	switch c := v.(type) {
	case string:
		s := strings.TrimSpace(c)
		s = strings.TrimPrefix(s, "#")
		s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
		if len(s) != 6 {
			return "", false
		}
		parsed, err := strconv.ParseUint(s, 16, 32)
		if err != nil {
			return "", false
		}
		n = parsed
	case float64:
		if c < 0 || c > 0xFFFFFF || c != float64(uint64(c)) {
			return "", false
		}
		n = uint64(c)
	case float32:
		return normalizeColor(float64(c))
	case int:
		if c < 0 || c > 0xFFFFFF {
			return "", false
		}
		n = uint64(c)
	case int64:
		return normalizeColor(int(c))
	case uint32:
		return normalizeColor(int(c))
	default:
		return "", false
	}
	return fmt.Sprintf("#%06X", n), true
}
