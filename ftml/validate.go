package ftml

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidateConfig controls validator behavior.
type ValidateConfig struct {
	// Strict rejects unknown fields in enumerated objects. Default true.
	Strict bool
	// ApplyDefaults mutates the value tree in place to inject declared
	// defaults for missing optional fields. Default true on load, false
	// on dump.
	ApplyDefaults bool
}

// DefaultValidateConfig returns the load-time defaults: strict mode and
// default application both on.
func DefaultValidateConfig() ValidateConfig {
	return ValidateConfig{Strict: true, ApplyDefaults: true}
}

// Validate walks v against t using reg, accumulating every error rather
// than stopping at the first (the validator never short-circuits across
// siblings). When cfg.ApplyDefaults is set, v is mutated in place.
func Validate(reg *Registry, t Type, v *Value, cfg ValidateConfig) []error {
	ctx := &validateCtx{reg: reg, cfg: cfg}
	errs := ctx.validateType(t, v, "")

	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}

	return out
}

// ValidateDocument validates root -- typically the [ValueMap] extracted
// via [ToValueTree] -- against a parsed schema's top-level field set.
func ValidateDocument(reg *Registry, schema *ObjectT, root *ValueMap, cfg ValidateConfig) []error {
	return Validate(reg, schema, &Value{Kind: VObject, Map: root}, cfg)
}

type validateCtx struct {
	reg *Registry
	cfg ValidateConfig
}

func (c *validateCtx) validateType(t Type, v *Value, path string) []*ValidationError {
	switch tt := t.(type) {
	case *ScalarT:
		return c.validateScalar(tt, v, path)
	case *UnionT:
		return c.validateUnion(tt, v, path)
	case *ListT:
		return c.validateList(tt, v, path)
	case *ObjectT:
		return c.validateObject(tt, v, path)
	default:
		return nil
	}
}

func (c *validateCtx) validateScalar(t *ScalarT, v *Value, path string) []*ValidationError {
	name := t.Kind.String()
	if t.Kind == TCustom {
		name = t.CustomName
	}

	def, ok := c.reg.Scalar(name)
	if !ok {
		return []*ValidationError{{Path: path, Kind: TypeMismatch, Message: fmt.Sprintf("unregistered scalar kind %q", name)}}
	}

	if !def.Match(v) {
		return []*ValidationError{{
			Path: path, Kind: TypeMismatch,
			Message: fmt.Sprintf("expected %s, got %s", name, v.Kind),
		}}
	}

	return c.checkScalarConstraints(name, t.Constraints, v, path)
}

func (c *validateCtx) checkScalarConstraints(name string, constraints map[string]ConstraintValue, v *Value, path string) []*ValidationError {
	var errs []*ValidationError

	for cname, arg := range constraints {
		canonical, validator, ok := c.reg.ResolveScalarConstraint(name, cname)
		if !ok {
			errs = append(errs, &ValidationError{Path: path, Kind: ConstraintViolation, Constraint: cname, Message: "unknown constraint"})

			continue
		}

		if err := validator(v, arg); err != nil {
			errs = append(errs, &ValidationError{Path: path, Kind: ConstraintViolation, Constraint: canonical, Message: err.Error()})
		}
	}

	return errs
}

// validateUnion tries each alternative in source order: the first whose
// match and constraints both succeed wins; only the last tried
// alternative's errors are reported on failure.
func (c *validateCtx) validateUnion(t *UnionT, v *Value, path string) []*ValidationError {
	var lastErrs []*ValidationError

	for _, alt := range t.Alts {
		errs := c.validateType(alt, v, path)
		if len(errs) == 0 {
			return nil
		}

		lastErrs = errs
	}

	return []*ValidationError{{Path: path, Kind: UnionNoMatch, Message: "no alternative matched", Sub: lastErrs}}
}

func (c *validateCtx) validateList(t *ListT, v *Value, path string) []*ValidationError {
	if v.Kind != VList {
		return []*ValidationError{{Path: path, Kind: TypeMismatch, Message: fmt.Sprintf("expected list, got %s", v.Kind)}}
	}

	var errs []*ValidationError

	for i, item := range v.List {
		errs = append(errs, c.validateType(t.Item, item, path+indexSuffix(i))...)
	}

	for cname, arg := range t.Constraints {
		canonical, validator, ok := c.reg.ResolveListConstraint(cname)
		if !ok {
			errs = append(errs, &ValidationError{Path: path, Kind: ConstraintViolation, Constraint: cname, Message: "unknown constraint"})

			continue
		}

		if err := validator(v.List, arg); err != nil {
			errs = append(errs, &ValidationError{Path: path, Kind: ConstraintViolation, Constraint: canonical, Message: err.Error()})
		}
	}

	return errs
}

func (c *validateCtx) validateObject(t *ObjectT, v *Value, path string) []*ValidationError {
	if v.Kind != VObject {
		return []*ValidationError{{Path: path, Kind: TypeMismatch, Message: fmt.Sprintf("expected object, got %s", v.Kind)}}
	}

	m := v.Map

	var errs []*ValidationError

	if t.IsPattern() {
		for _, k := range m.Keys() {
			val, _ := m.Get(k)
			errs = append(errs, c.validateType(t.Pattern, val, joinPath(path, quotePathKey(k)))...)
		}
	} else {
		errs = append(errs, c.validateEnumeratedFields(t, m, path)...)
	}

	for cname, arg := range t.Constraints {
		canonical, validator, ok := c.reg.ResolveObjectConstraint(cname)
		if !ok {
			errs = append(errs, &ValidationError{Path: path, Kind: ConstraintViolation, Constraint: cname, Message: "unknown constraint"})

			continue
		}

		if err := validator(m, arg); err != nil {
			errs = append(errs, &ValidationError{Path: path, Kind: ConstraintViolation, Constraint: canonical, Message: err.Error()})
		}
	}

	return errs
}

func (c *validateCtx) validateEnumeratedFields(t *ObjectT, m *ValueMap, path string) []*ValidationError {
	var errs []*ValidationError

	declared := make(map[string]bool, len(t.Fields))

	for _, f := range t.Fields {
		declared[f.Name] = true

		present, ok := m.Get(f.Name)
		if !ok {
			errs = append(errs, c.applyAbsentField(f, m, path)...)

			continue
		}

		errs = append(errs, c.validateType(f.Type, present, joinPath(path, f.Name))...)
	}

	if c.cfg.Strict && !t.Ext {
		for _, k := range m.Keys() {
			if !declared[k] {
				errs = append(errs, &ValidationError{
					Path: joinPath(path, quotePathKey(k)), Kind: UnknownField,
					Message: fmt.Sprintf("unknown field %q", k),
				})
			}
		}
	}

	return errs
}

// applyAbsentField handles a field missing from m: inject its default
// (when requested), accept silently when optional, or report
// MissingRequiredField.
func (c *validateCtx) applyAbsentField(f ObjectField, m *ValueMap, path string) []*ValidationError {
	optional, hasDefault, def := typeOptionalDefault(f.Type)

	switch {
	case hasDefault && c.cfg.ApplyDefaults:
		dv := deepCopyValue(def)
		m.Set(f.Name, dv)

		return c.validateType(f.Type, dv, joinPath(path, f.Name))
	case optional || hasDefault:
		return nil
	default:
		return []*ValidationError{{
			Path: joinPath(path, f.Name), Kind: MissingRequiredField,
			Message: fmt.Sprintf("missing required field %q", f.Name),
		}}
	}
}

func typeOptionalDefault(t Type) (optional, hasDefault bool, def *Value) {
	switch tt := t.(type) {
	case *ScalarT:
		return tt.Optional, tt.HasDefault, tt.Default
	case *UnionT:
		return tt.Optional, tt.HasDefault, tt.Default
	case *ListT:
		return tt.Optional, tt.HasDefault, tt.Default
	case *ObjectT:
		return tt.Optional, tt.HasDefault, tt.Default
	default:
		return false, false, nil
	}
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}

	if strings.HasPrefix(child, "[") {
		return parent + child
	}

	return parent + "." + child
}

func quotePathKey(k string) string {
	if isBarePathKey(k) {
		return k
	}

	return strconv.Quote(k)
}

func isBarePathKey(k string) bool {
	if k == "" {
		return false
	}

	for i := 0; i < len(k); i++ {
		c := k[i]

		switch {
		case c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
		case i > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}

	return true
}

// deepCopyValue returns an independent copy of v with no AST
// back-reference, used when materializing a schema default into a value
// tree: applying defaults twice yields the same tree because the copy is
// deterministic and the field is then present.
func deepCopyValue(v *Value) *Value {
	if v == nil {
		return nil
	}

	cp := &Value{Kind: v.Kind, Str: v.Str, Int: v.Int, Float: v.Float, Bool: v.Bool}

	if v.Map != nil {
		m := NewValueMap()
		for _, e := range v.Map.Entries() {
			m.Set(e.Key, deepCopyValue(e.Value))
		}

		cp.Map = m
	}

	if v.List != nil {
		lst := make([]*Value, len(v.List))
		for i, it := range v.List {
			lst[i] = deepCopyValue(it)
		}

		cp.List = lst
	}

	return cp
}
