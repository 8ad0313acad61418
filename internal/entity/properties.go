package entity

import (
	"github.com/go-viper/mapstructure/v2"
)

// Properties is the flat, JSON-friendly extra state of an entity beyond its transform.
type Properties map[string]any

// decodeProperties fills out (a struct of pointer fields tagged `prop`) from p.
// Values are weakly typed so numbers decoded from JSON as float64 land in int or float32
// fields. Missing keys leave fields nil; keys that fail to convert are skipped.
func decodeProperties(p Properties, out any) {
	if len(p) == 0 {
		return
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "prop",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return
	}
	// Partial failures still populate every field that converted cleanly.
	_ = dec.Decode(map[string]any(p))
}

// Clone returns a shallow copy of p.
func (p Properties) Clone() Properties {
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
