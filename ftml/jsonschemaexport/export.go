// Package jsonschemaexport walks an FTML type-descriptor tree (the output
// of [ftml.ParseSchema]) and emits a Draft-7 [*jsonschema.Schema], so a
// schema written once in FTML's own type grammar can also be published as
// a values.schema.json for tooling that only understands JSON Schema.
package jsonschemaexport

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"go.jacobcolvin.com/x/ftml"
)

// Option configures [Export].
type Option func(*exporter)

// WithTitle sets the root schema's title.
func WithTitle(title string) Option {
	return func(e *exporter) { e.title = title }
}

// WithDescription sets the root schema's description.
func WithDescription(desc string) Option {
	return func(e *exporter) { e.description = desc }
}

// WithID sets the root schema's $id.
func WithID(id string) Option {
	return func(e *exporter) { e.id = id }
}

// WithRegistry supplies the [ftml.Registry] the schema was parsed against,
// so constraint aliases (e.g. "min" on a str field) resolve to their
// canonical JSON Schema keyword instead of being silently dropped.
// Defaults to [ftml.DefaultRegistry] if omitted.
func WithRegistry(reg *ftml.Registry) Option {
	return func(e *exporter) { e.reg = reg }
}

type exporter struct {
	title       string
	description string
	id          string
	reg         *ftml.Registry
}

// Export converts root, an object type parsed by [ftml.ParseSchema], into
// a Draft-7 JSON Schema document.
func Export(root *ftml.ObjectT, opts ...Option) *jsonschema.Schema {
	e := &exporter{reg: ftml.DefaultRegistry()}
	for _, opt := range opts {
		opt(e)
	}

	schema := e.objectSchema(root)
	schema.Schema = "http://json-schema.org/draft-07/schema#"

	if e.title != "" {
		schema.Title = e.title
	}

	if e.description != "" {
		schema.Description = e.description
	}

	if e.id != "" {
		schema.ID = e.id
	}

	return schema
}

func (e *exporter) typeSchema(t ftml.Type) *jsonschema.Schema {
	switch typ := t.(type) {
	case *ftml.ScalarT:
		return e.scalarSchema(typ)
	case *ftml.UnionT:
		return e.unionSchema(typ)
	case *ftml.ListT:
		return e.listSchema(typ)
	case *ftml.ObjectT:
		if typ.IsPattern() {
			return e.patternObjectSchema(typ)
		}

		return e.objectSchema(typ)
	default:
		return &jsonschema.Schema{}
	}
}

func (e *exporter) scalarSchema(t *ftml.ScalarT) *jsonschema.Schema {
	schema := &jsonschema.Schema{}

	name := t.Kind.String()

	switch t.Kind {
	case ftml.TStr:
		schema.Type = "string"
	case ftml.TInt:
		schema.Type = "integer"
	case ftml.TFloat:
		schema.Type = "number"
	case ftml.TBool:
		schema.Type = "boolean"
	case ftml.TNull:
		schema.Type = "null"
	case ftml.TAny:
		// Leave Type unset: an empty schema validates everything.
	case ftml.TDate, ftml.TTime, ftml.TDatetime, ftml.TTimestamp:
		schema.Type = "string"
		schema.Format = temporalFormat(t.Kind)
	case ftml.TCustom:
		name = t.CustomName
		schema.Type = "string"
		schema.Description = fmt.Sprintf("custom scalar %q", t.CustomName)
	}

	e.applyScalarConstraints(name, schema, t.Constraints)

	if t.HasDefault && t.Default != nil {
		schema.Default = defaultValue(t.Default)
	}

	return schema
}

func temporalFormat(kind ftml.ScalarName) string {
	switch kind {
	case ftml.TDate:
		return "date"
	case ftml.TTime:
		return "time"
	case ftml.TDatetime:
		return "date-time"
	case ftml.TTimestamp:
		return "int64"
	default:
		return ""
	}
}

func (e *exporter) applyScalarConstraints(scalarName string, schema *jsonschema.Schema, constraints map[string]ftml.ConstraintValue) {
	for cname, cv := range constraints {
		canonical, _, ok := e.reg.ResolveScalarConstraint(scalarName, cname)
		if !ok {
			canonical = cname
		}

		switch canonical {
		case "min_length":
			n := int(cv.Int)
			schema.MinLength = &n
		case "max_length":
			n := int(cv.Int)
			schema.MaxLength = &n
		case "pattern":
			schema.Pattern = cv.Str
		case "format":
			schema.Format = cv.Str
		case "enum":
			schema.Enum = enumValues(cv)
		case "min":
			f := float64(cv.Int)
			if cv.Kind == ftml.VFloat {
				f = cv.Float
			}

			schema.Minimum = &f
		case "max":
			f := float64(cv.Int)
			if cv.Kind == ftml.VFloat {
				f = cv.Float
			}

			schema.Maximum = &f
		case "precision":
			// No direct Draft-7 equivalent; surfaced via description instead
			// of silently dropped.
			schema.Description = appendConstraintNote(schema.Description, "precision", cv)
		}
	}
}

func appendConstraintNote(desc, name string, cv ftml.ConstraintValue) string {
	note := fmt.Sprintf("%s=%v", name, rawFromConstraint(cv))
	if desc == "" {
		return note
	}

	return desc + "; " + note
}

func enumValues(cv ftml.ConstraintValue) []any {
	vals := make([]any, 0, len(cv.List))
	for _, item := range cv.List {
		vals = append(vals, rawFromConstraint(item))
	}

	return vals
}

func rawFromConstraint(cv ftml.ConstraintValue) any {
	switch cv.Kind {
	case ftml.VString:
		return cv.Str
	case ftml.VInt:
		return cv.Int
	case ftml.VFloat:
		return cv.Float
	case ftml.VBool:
		return cv.Bool
	default:
		return nil
	}
}

func (e *exporter) unionSchema(t *ftml.UnionT) *jsonschema.Schema {
	alts := make([]*jsonschema.Schema, 0, len(t.Alts))
	for _, alt := range t.Alts {
		alts = append(alts, e.typeSchema(alt))
	}

	schema := &jsonschema.Schema{AnyOf: alts}

	if t.HasDefault && t.Default != nil {
		schema.Default = defaultValue(t.Default)
	}

	return schema
}

func (e *exporter) listSchema(t *ftml.ListT) *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Type:  "array",
		Items: e.typeSchema(t.Item),
	}

	for cname, cv := range t.Constraints {
		canonical, _, ok := e.reg.ResolveListConstraint(cname)
		if !ok {
			canonical = cname
		}

		switch canonical {
		case "min_items":
			n := int(cv.Int)
			schema.MinItems = &n
		case "max_items":
			n := int(cv.Int)
			schema.MaxItems = &n
		case "unique":
			schema.UniqueItems = cv.Bool
		}
	}

	if t.HasDefault && t.Default != nil {
		schema.Default = defaultValue(t.Default)
	}

	return schema
}

func (e *exporter) objectSchema(t *ftml.ObjectT) *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: make(map[string]*jsonschema.Schema, len(t.Fields)),
	}

	order := make([]string, 0, len(t.Fields))

	var required []string

	for _, f := range t.Fields {
		fieldSchema := e.typeSchema(f.Type)
		schema.Properties[f.Name] = fieldSchema
		order = append(order, f.Name)

		if !isOptional(f.Type) {
			required = append(required, f.Name)
		}
	}

	schema.PropertyOrder = order
	schema.Required = required

	if t.Ext {
		schema.AdditionalProperties = &jsonschema.Schema{}
	} else {
		schema.AdditionalProperties = &jsonschema.Schema{Not: &jsonschema.Schema{}}
	}

	e.applyObjectConstraints(schema, t.Constraints)

	if t.HasDefault && t.Default != nil {
		schema.Default = defaultValue(t.Default)
	}

	return schema
}

func (e *exporter) patternObjectSchema(t *ftml.ObjectT) *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Type:                 "object",
		AdditionalProperties: e.typeSchema(t.Pattern),
	}

	e.applyObjectConstraints(schema, t.Constraints)

	if t.HasDefault && t.Default != nil {
		schema.Default = defaultValue(t.Default)
	}

	return schema
}

func (e *exporter) applyObjectConstraints(schema *jsonschema.Schema, constraints map[string]ftml.ConstraintValue) {
	for cname, cv := range constraints {
		canonical, _, ok := e.reg.ResolveObjectConstraint(cname)
		if !ok {
			canonical = cname
		}

		switch canonical {
		case "min_properties":
			n := int(cv.Int)
			schema.MinProperties = &n
		case "max_properties":
			n := int(cv.Int)
			schema.MaxProperties = &n
		case "required_keys":
			for _, item := range cv.List {
				schema.Required = append(schema.Required, item.Str)
			}
		}
	}
}

func isOptional(t ftml.Type) bool {
	switch typ := t.(type) {
	case *ftml.ScalarT:
		return typ.Optional
	case *ftml.UnionT:
		return typ.Optional
	case *ftml.ListT:
		return typ.Optional
	case *ftml.ObjectT:
		return typ.Optional
	default:
		return false
	}
}

// defaultValue marshals a default [*ftml.Value] into the [json.RawMessage]
// jsonschema.Schema.Default expects. Returns nil on a marshal failure,
// which cannot happen for a value tree built only from ftml.New* calls.
func defaultValue(v *ftml.Value) json.RawMessage {
	raw, err := json.Marshal(valueToRaw(v))
	if err != nil {
		return nil
	}

	return raw
}

// valueToRaw lowers a default [*ftml.Value] into the plain-Go-value shape
// [encoding/json.Marshal] expects.
func valueToRaw(v *ftml.Value) any {
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
		for _, entry := range v.Map.Entries() {
			m[entry.Key] = valueToRaw(entry.Value)
		}

		return m
	case ftml.VList:
		items := make([]any, len(v.List))
		for i, item := range v.List {
			items[i] = valueToRaw(item)
		}

		return items
	default:
		return nil
	}
}
