package persist

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"sandbox-engine/internal/entity"
	"sandbox-engine/internal/game"
	"sandbox-engine/internal/gamemap"
)

// Record keys.
const (
	SceneKeyPrefix = "sceneData_"
	StateKeySuffix = "_gameState"
	ConfigKey      = "gameSettings"
)

const (
	SceneVersion  = 1
	ConfigVersion = 1
)

// SceneKey is the key of the saved editor scene for a map.
func SceneKey(id gamemap.ID) string { return SceneKeyPrefix + string(id) }

// StateKey is the key of the saved game state for a mode kind.
func StateKey(kind game.Kind) string { return string(kind) + StateKeySuffix }

// SceneRecord is everything the editor saves for one map.
type SceneRecord struct {
	Version     int           `json:"version,omitempty"`
	Actors      []ActorRecord `json:"actors"`
	CameraState *CameraRecord `json:"cameraState,omitempty"`
}

// ActorRecord is one editor-placed actor.
type ActorRecord struct {
	Type       entity.Tag        `json:"type"`
	Name       string            `json:"name"`
	Position   mgl32.Vec3        `json:"position"`
	Rotation   Euler             `json:"rotation"`
	Scale      mgl32.Vec3        `json:"scale"`
	Properties entity.Properties `json:"properties,omitempty"`
}

// Transform converts the record's transform.
func (r ActorRecord) Transform() entity.Transform {
	return entity.Transform{Position: r.Position, Rotation: mgl32.Vec3(r.Rotation), Scale: r.Scale}
}

// CameraRecord is the editor camera pose.
type CameraRecord struct {
	Position mgl32.Vec3 `json:"position"`
	Rotation Quaternion `json:"rotation"`
}

// ModeStateRecord is a game state tagged with its type.
type ModeStateRecord struct {
	Type  game.StateType  `json:"type"`
	State json.RawMessage `json:"state"`
}

// Euler is an XYZ rotation in radians. It is written as [x, y, z]; older saves that append
// an order string ([x, y, z, "YXZ"]) are read and converted to XYZ.
type Euler mgl32.Vec3

// MarshalJSON writes three numbers.
func (e Euler) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float32(e))
}

// UnmarshalJSON accepts [x, y, z] or [x, y, z, order].
func (e *Euler) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("rotation: %w", err)
	}
	if len(parts) != 3 && len(parts) != 4 {
		return fmt.Errorf("rotation: want 3 or 4 elements, got %d", len(parts))
	}
	var v mgl32.Vec3
	for i := range 3 {
		if err := json.Unmarshal(parts[i], &v[i]); err != nil {
			return fmt.Errorf("rotation[%d]: %w", i, err)
		}
	}
	if len(parts) == 4 {
		var order string
		if err := json.Unmarshal(parts[3], &order); err != nil {
			return fmt.Errorf("rotation order: %w", err)
		}
		converted, ok := toXYZ(v, order)
		if !ok {
			return fmt.Errorf("rotation order %q", order)
		}
		v = converted
	}
	*e = Euler(v)
	return nil
}

// toXYZ re-expresses angles applied in order (e.g. "ZYX" means Rz*Ry*Rx) as XYZ angles.
func toXYZ(v mgl32.Vec3, order string) (mgl32.Vec3, bool) {
	order = strings.ToUpper(order)
	if order == "XYZ" {
		return v, true
	}
	if len(order) != 3 || !strings.ContainsRune(order, 'X') || !strings.ContainsRune(order, 'Y') || !strings.ContainsRune(order, 'Z') {
		return v, false
	}
	axes := map[byte]mgl32.Vec3{'X': {1, 0, 0}, 'Y': {0, 1, 0}, 'Z': {0, 0, 1}}
	angles := map[byte]float32{'X': v[0], 'Y': v[1], 'Z': v[2]}
	q := mgl32.QuatIdent()
	for i := 0; i < 3; i++ {
		a := order[i]
		q = q.Mul(mgl32.QuatRotate(angles[a], axes[a]))
	}
	return eulerXYZ(q.Mat4()), true
}

// eulerXYZ decomposes a rotation matrix R = Rx*Ry*Rz.
func eulerXYZ(m mgl32.Mat4) mgl32.Vec3 {
	m13 := min(max(m.At(0, 2), -1), 1)
	y := math32.Asin(m13)
	if math32.Abs(m13) < 0.9999999 {
		return mgl32.Vec3{math32.Atan2(-m.At(1, 2), m.At(2, 2)), y, math32.Atan2(-m.At(0, 1), m.At(0, 0))}
	}
	return mgl32.Vec3{math32.Atan2(m.At(2, 1), m.At(1, 1)), y, 0}
}

// Quaternion is a rotation written as [x, y, z, w].
type Quaternion [4]float32

// QuaternionOf converts an mgl32 quaternion.
func QuaternionOf(q mgl32.Quat) Quaternion {
	return Quaternion{q.V[0], q.V[1], q.V[2], q.W}
}

// Quat converts back to an mgl32 quaternion. The zero value maps to the identity.
func (q Quaternion) Quat() mgl32.Quat {
	if q == (Quaternion{}) {
		return mgl32.QuatIdent()
	}
	return mgl32.Quat{W: q[3], V: mgl32.Vec3{q[0], q[1], q[2]}}
}

// AppConfig is the persisted game settings record.
type AppConfig struct {
	Version    int         `json:"version"`
	StartupMap gamemap.ID  `json:"startupMap"`
	GameState  game.Preset `json:"gameState"`
}

// DefaultConfig starts in the main menu with the main menu game state.
func DefaultConfig() AppConfig {
	return AppConfig{Version: ConfigVersion, StartupMap: gamemap.MainMenuID, GameState: game.PresetMainMenu}
}
