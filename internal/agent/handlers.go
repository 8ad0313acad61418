package agent

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"sandbox-engine/internal/commands"
	"sandbox-engine/internal/editor"
	"sandbox-engine/internal/entity"
)

// RegisterEditorHandlers registers spawn, delete, set_transform, set_properties and run_cmd
// handlers that use the given editor and command registry.
func RegisterEditorHandlers(a *Agent, ed *editor.Editor, reg *commands.Registry) {
	a.RegisterHandler("spawn", func(payload map[string]any) error {
		typ, _ := payload["type"].(string)
		if typ == "" {
			return fmt.Errorf("missing type")
		}
		var tr *entity.Transform
		if _, ok := payload["position"]; ok {
			t, err := parseTransform(payload, entity.IdentityTransform())
			if err != nil {
				return err
			}
			tr = &t
		}
		e, ok := ed.Spawn(entity.Tag(typ), tr)
		if !ok {
			return fmt.Errorf("cannot spawn %q", typ)
		}
		props := entity.Properties{}
		if p, ok := payload["properties"].(map[string]any); ok {
			props = entity.Properties(p).Clone()
		}
		if name, _ := payload["name"].(string); name != "" {
			props["name"] = name
		}
		if len(props) > 0 {
			ed.SetProperties(e, props)
		}
		return nil
	})
	a.RegisterHandler("delete", func(payload map[string]any) error {
		e, err := target(ed, payload)
		if err != nil {
			return err
		}
		if !ed.Delete(e) {
			return fmt.Errorf("cannot delete")
		}
		return nil
	})
	a.RegisterHandler("set_transform", func(payload map[string]any) error {
		e, err := target(ed, payload)
		if err != nil {
			return err
		}
		t, err := parseTransform(payload, e.Base().Transform())
		if err != nil {
			return err
		}
		if !ed.SetTransform(e, t) {
			return fmt.Errorf("cannot edit")
		}
		return nil
	})
	a.RegisterHandler("set_properties", func(payload map[string]any) error {
		e, err := target(ed, payload)
		if err != nil {
			return err
		}
		props, ok := payload["properties"].(map[string]any)
		if !ok {
			return fmt.Errorf("missing properties")
		}
		if !ed.SetProperties(e, entity.Properties(props)) {
			return fmt.Errorf("cannot edit")
		}
		return nil
	})
	a.RegisterHandler("run_cmd", func(payload map[string]any) error {
		args, ok := payload["args"].([]any)
		if !ok || len(args) == 0 {
			return fmt.Errorf("missing or empty args")
		}
		strs := make([]string, 0, len(args))
		for _, v := range args {
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("args must be strings")
			}
			strs = append(strs, s)
		}
		return reg.Execute(strs)
	})
}

// target resolves "name" (or "selected") to an editor-owned entity.
func target(ed *editor.Editor, payload map[string]any) (entity.Entity, error) {
	name, _ := payload["name"].(string)
	if name == "" || name == "selected" {
		if sel := ed.Selected(); sel != nil {
			return sel, nil
		}
		return nil, fmt.Errorf("nothing selected")
	}
	e, ok := ed.Find(name)
	if !ok {
		return nil, fmt.Errorf("no editor actor named %q", name)
	}
	return e, nil
}

// parseTransform overlays position, rotation and scale from payload onto base.
func parseTransform(payload map[string]any, base entity.Transform) (entity.Transform, error) {
	for _, f := range []struct {
		key string
		dst *mgl32.Vec3
	}{
		{"position", &base.Position},
		{"rotation", &base.Rotation},
		{"scale", &base.Scale},
	} {
		v, ok := payload[f.key]
		if !ok {
			continue
		}
		vec, err := parseFloat3(v)
		if err != nil {
			return base, fmt.Errorf("%s: %w", f.key, err)
		}
		*f.dst = vec
	}
	return base, nil
}

func parseFloat3(v any) (mgl32.Vec3, error) {
	var out mgl32.Vec3
	arr, ok := v.([]any)
	if !ok || len(arr) < 3 {
		return out, fmt.Errorf("expected [x,y,z]")
	}
	for i := 0; i < 3; i++ {
		switch n := arr[i].(type) {
		case float64:
			out[i] = float32(n)
		case float32:
			out[i] = n
		default:
			return out, fmt.Errorf("[%d] not a number", i)
		}
	}
	return out, nil
}
