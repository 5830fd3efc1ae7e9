// Package convert provides host-facing helpers for converting between an
// [ftml.Value] tree and JSON or YAML, for hosts that need to interop with
// tooling that only speaks those formats. None of this is part of the
// core tokenizer/parser/validator/serializer pipeline: a host that only
// ever speaks FTML never needs to import this package.
package convert

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/goccy/go-yaml"

	"go.jacobcolvin.com/x/ftml"
)

// ToJSON marshals v to JSON. Objects are lowered to Go maps, so their keys
// are emitted sorted by [encoding/json], not in insertion order; floats and
// ints round-trip through Go's standard [encoding/json] number formatting.
func ToJSON(v *ftml.Value) ([]byte, error) {
	return json.Marshal(toAny(v))
}

// ToJSONIndent is [ToJSON] with indentation, mirroring the indent controls
// exposed by [ftml.SerializeConfig.IndentSpaces].
func ToJSONIndent(v *ftml.Value, prefix, indent string) ([]byte, error) {
	return json.MarshalIndent(toAny(v), prefix, indent)
}

// FromJSON unmarshals JSON data into an [*ftml.Value] tree.
func FromJSON(data []byte) (*ftml.Value, error) {
	var v any

	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("convert: decode json: %w", err)
	}

	return fromAny(v), nil
}

// ToYAML marshals v to YAML using goccy/go-yaml. Objects are lowered to Go
// maps, so their insertion order is not kept in the output.
func ToYAML(v *ftml.Value) ([]byte, error) {
	out, err := yaml.MarshalWithOptions(toAny(v), yaml.UseLiteralStyleIfMultiline(true))
	if err != nil {
		return nil, fmt.Errorf("convert: encode yaml: %w", err)
	}

	return out, nil
}

// FromYAML unmarshals YAML data into an [*ftml.Value] tree.
func FromYAML(data []byte) (*ftml.Value, error) {
	var v any

	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("convert: decode yaml: %w", err)
	}

	return fromAny(v), nil
}

// toAny lowers v into the plain Go value shape [encoding/json] and
// goccy/go-yaml expect: map[string]any, []any, and the scalar Go kinds.
func toAny(v *ftml.Value) any {
	if v == nil {
		return nil
	}

	switch v.Kind {
	case ftml.VString:
		return v.Str
	case ftml.VInt:
		return v.Int
	case ftml.VFloat:
		return v.Float
	case ftml.VBool:
		return v.Bool
	case ftml.VNull:
		return nil
	case ftml.VObject:
		m := make(map[string]any, v.Map.Len())
		for _, e := range v.Map.Entries() {
			m[e.Key] = toAny(e.Value)
		}

		return m
	case ftml.VList:
		items := make([]any, len(v.List))
		for i, item := range v.List {
			items[i] = toAny(item)
		}

		return items
	default:
		return nil
	}
}

// fromAny lifts a plain decoded Go value (as produced by
// [encoding/json.Unmarshal] or goccy/go-yaml's Unmarshal into `any`) into
// an [*ftml.Value] tree. Decoded object keys are inserted in sorted order
// (see [sortedKeys]), not source order; callers that need source order
// should decode the object themselves with an ordered map type instead of
// plain `any`.
func fromAny(v any) *ftml.Value {
	switch val := v.(type) {
	case nil:
		return ftml.NewNull()
	case string:
		return ftml.NewString(val)
	case bool:
		return ftml.NewBool(val)
	case int:
		return ftml.NewInt(int64(val))
	case int64:
		return ftml.NewInt(val)
	case float64:
		return ftml.NewFloat(val)
	case uint64:
		return ftml.NewInt(int64(val))
	case map[string]any:
		m := ftml.NewValueMap()

		for _, k := range sortedKeys(val) {
			m.Set(k, fromAny(val[k]))
		}

		return ftml.NewObject(m)
	case []any:
		items := make([]*ftml.Value, len(val))
		for i, item := range val {
			items[i] = fromAny(item)
		}

		return ftml.NewList(items)
	default:
		return ftml.NewNull()
	}
}

// sortedKeys returns m's keys sorted lexically, used only as a
// deterministic fallback for decoders that hand back a plain
// map[string]any with no positional information.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
