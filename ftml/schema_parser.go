package ftml

import "fmt"

// SchemaParser is a recursive-descent parser over the same token stream
// [Lexer] produces, discarding comments, that builds a type-descriptor
// tree instead of a data AST. Union-splitting and
// constraint-splitting depth rules fall out for free from
// recursive descent: an Atom always consumes its own nested
// `{}`/`[]`/`<>` before returning, so a `|` or `,` seen back at the
// caller's level is already at the right nesting depth.
type SchemaParser struct {
	toks []Token
	pos  int
	reg  *Registry
}

// ParseSchema tokenizes and parses src into the schema's top-level field
// set, represented as an enumerated [ObjectT] (the root production
// `(Field Newline+)* EOF` is exactly an enumerated object body without
// its braces). Schema errors are fatal: on the first error, parsing stops
// and no partial type tree is returned.
func ParseSchema(src string, reg *Registry) (*ObjectT, error) {
	toks, err := tokenizeAll(src)
	if err != nil {
		return nil, err
	}

	p := &SchemaParser{toks: toks, reg: reg}

	return p.parseRoot()
}

func (p *SchemaParser) parseRoot() (*ObjectT, error) {
	var fields []ObjectField

	for {
		if p.cur().Kind == KindEOF {
			break
		}

		f, err := p.parseField()
		if err != nil {
			return nil, err
		}

		fields = append(fields, f)

		// parseField's trailing lookahead (cur) can step past the separating
		// NEWLINE; back up over that trivia so the check below still sees it.
		for p.pos > 0 && p.pos <= len(p.toks) {
			k := p.toks[p.pos-1].Kind
			if k != KindNewline && k != KindWhitespace && !k.IsComment() {
				break
			}

			p.pos--
		}

		p.skipWhitespaceAndComments()

		t := p.rawPeek()
		if t.Kind != KindNewline && t.Kind != KindEOF {
			return nil, &SchemaError{Pos: t.Pos, Message: fmt.Sprintf("expected newline after field, got %s", t.Kind)}
		}
	}

	return &ObjectT{Fields: fields}, nil
}

// cur returns the next significant token, skipping WHITESPACE, comments
// of any kind, and NEWLINE -- schema grammar below the root uses commas,
// not newlines, as separators.
func (p *SchemaParser) cur() Token {
	for {
		if p.pos >= len(p.toks) {
			return Token{Kind: KindEOF}
		}

		t := p.toks[p.pos]

		switch t.Kind {
		case KindWhitespace, KindNewline, KindComment, KindOuterDoc, KindInnerDoc:
			p.pos++
		default:
			return t
		}
	}
}

func (p *SchemaParser) advance() Token {
	t := p.cur()
	p.pos++

	return t
}

// skipWhitespaceAndComments advances past WHITESPACE and comments only,
// leaving NEWLINE visible -- used at root scope to check the field
// separator without silently eating it.
func (p *SchemaParser) skipWhitespaceAndComments() {
	for p.pos < len(p.toks) {
		switch p.toks[p.pos].Kind {
		case KindWhitespace, KindComment, KindOuterDoc, KindInnerDoc:
			p.pos++
		default:
			return
		}
	}
}

func (p *SchemaParser) rawPeek() Token {
	if p.pos >= len(p.toks) {
		return Token{Kind: KindEOF}
	}

	return p.toks[p.pos]
}

// parseField parses `Key Optional? ':' TypeExpr Default?`.
func (p *SchemaParser) parseField() (ObjectField, error) {
	keyTok := p.cur()

	name, err := p.parseFieldKey(keyTok)
	if err != nil {
		return ObjectField{}, err
	}

	p.pos++

	optional := false
	if p.cur().Kind == KindQuestion {
		optional = true

		p.advance()
	}

	colon := p.cur()
	if colon.Kind != KindColon {
		return ObjectField{}, &SchemaError{Pos: colon.Pos, Message: fmt.Sprintf("expected ':', got %s", colon.Kind)}
	}

	p.advance()

	typ, err := p.parseTypeExpr()
	if err != nil {
		return ObjectField{}, err
	}

	if optional {
		setOptional(typ, true)
	}

	if p.cur().Kind == KindEqual {
		p.advance()

		def, err := p.parseDefaultValue()
		if err != nil {
			return ObjectField{}, err
		}

		if err := p.applyDefault(typ, def); err != nil {
			return ObjectField{}, err
		}
	}

	return ObjectField{Name: name, Type: typ}, nil
}

func (p *SchemaParser) parseFieldKey(tok Token) (string, error) {
	switch tok.Kind {
	case KindIdent:
		if reservedBareWords[tok.Text] {
			return "", &SchemaError{Pos: tok.Pos, Message: fmt.Sprintf("reserved word %q cannot be used as an unquoted field name", tok.Text)}
		}

		return tok.Text, nil
	case KindString:
		s, err := DecodeDoubleString(tok.Text)
		if err != nil {
			return "", &SchemaError{Pos: tok.Pos, Message: err.Error()}
		}

		return s, nil
	case KindSingleString:
		s, err := DecodeSingleString(tok.Text)
		if err != nil {
			return "", &SchemaError{Pos: tok.Pos, Message: err.Error()}
		}

		return s, nil
	default:
		return "", &SchemaError{Pos: tok.Pos, Message: fmt.Sprintf("expected field name, got %s", tok.Kind)}
	}
}

func setOptional(t Type, optional bool) {
	switch tt := t.(type) {
	case *ScalarT:
		tt.Optional = optional
	case *UnionT:
		tt.Optional = optional
	case *ListT:
		tt.Optional = optional
	case *ObjectT:
		tt.Optional = optional
	}
}

func setDefault(t Type, def *Value) {
	switch tt := t.(type) {
	case *ScalarT:
		tt.HasDefault, tt.Default = true, def
	case *UnionT:
		tt.HasDefault, tt.Default = true, def
	case *ListT:
		tt.HasDefault, tt.Default = true, def
	case *ObjectT:
		tt.HasDefault, tt.Default = true, def
	}
}

// applyDefault validates def against typ using the same rules as the
// validator, at schema-parse time; a default failing its own declared
// type is a schema error.
func (p *SchemaParser) applyDefault(typ Type, defNode ValueNode) error {
	def := valueFromNode(nil, defNode)

	errs := Validate(p.reg, typ, def, ValidateConfig{Strict: true, ApplyDefaults: false})
	if len(errs) > 0 {
		return &SchemaError{Pos: defNode.Position(), Message: fmt.Sprintf("default value fails its own type: %s", errs[0])}
	}

	setDefault(typ, def)

	return nil
}

// parseDefaultValue parses a Default's value expression by delegating to
// [Parser]: a Default's value is a data expression subset of the same
// grammar, not its own grammar.
func (p *SchemaParser) parseDefaultValue() (ValueNode, error) {
	tmp := &Parser{toks: p.toks, pos: p.pos, doc: &Document{}}

	val, ok := tmp.parseValue()

	p.pos = tmp.pos

	if !ok {
		if len(tmp.errs) > 0 {
			return nil, tmp.errs[0]
		}

		return nil, &SchemaError{Pos: p.cur().Pos, Message: "invalid default value"}
	}

	return val, nil
}

// parseTypeExpr parses `Union := Atom ('|' Atom)*`.
func (p *SchemaParser) parseTypeExpr() (Type, error) {
	first, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	if p.cur().Kind != KindPipe {
		return first, nil
	}

	alts := []Type{first}

	for p.cur().Kind == KindPipe {
		p.advance()

		next, err := p.parseAtom()
		if err != nil {
			return nil, err
		}

		alts = append(alts, next)
	}

	return &UnionT{Alts: alts}, nil
}

// parseAtom parses `ScalarName Constraints? | '[' TypeExpr? ']' Constraints? | '{' ObjectBody '}' Constraints?`.
func (p *SchemaParser) parseAtom() (Type, error) {
	t := p.cur()

	switch t.Kind {
	case KindLBracket:
		return p.parseListAtom()
	case KindLBrace:
		return p.parseObjectAtom()
	case KindIdent:
		return p.parseScalarAtom()
	default:
		return nil, &SchemaError{Pos: t.Pos, Message: fmt.Sprintf("expected type, got %s", t.Kind)}
	}
}

func (p *SchemaParser) parseScalarAtom() (Type, error) {
	tok := p.advance()

	st := &ScalarT{}

	if sn, ok := scalarNames[tok.Text]; ok {
		st.Kind = sn
	} else if _, ok := p.reg.Scalar(tok.Text); ok {
		st.Kind = TCustom
		st.CustomName = tok.Text
	} else {
		return nil, &SchemaError{Pos: tok.Pos, Message: fmt.Sprintf("unknown type %q", tok.Text)}
	}

	constraints, err := p.parseConstraintsOpt()
	if err != nil {
		return nil, err
	}

	st.Constraints = constraints

	return st, nil
}

// parseListAtom parses `'[' TypeExpr? ']' Constraints?`; an empty `[]` is
// an unconstrained list (Item is an `any` scalar, so the validator treats
// every element as matching).
func (p *SchemaParser) parseListAtom() (Type, error) {
	open := p.advance() // '['

	lt := &ListT{}

	if p.cur().Kind != KindRBracket {
		item, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}

		lt.Item = item
	} else {
		lt.Item = &ScalarT{Kind: TAny}
	}

	close := p.cur()
	if close.Kind != KindRBracket {
		return nil, &SchemaError{Pos: open.Pos, Message: "unterminated list type"}
	}

	p.advance()

	constraints, err := p.parseConstraintsOpt()
	if err != nil {
		return nil, err
	}

	lt.Constraints = constraints

	return lt, nil
}

// parseObjectAtom parses `'{' ObjectBody '}' Constraints?`, disambiguating
// the enumerated and pattern-typed shapes: peek past an optional
// key and '?' to see whether a ':' follows.
func (p *SchemaParser) parseObjectAtom() (Type, error) {
	open := p.advance() // '{'

	ot := &ObjectT{}

	switch {
	case p.cur().Kind == KindRBrace:
		// Empty {} is an unconstrained enumerated object (no fields).
	case p.looksEnumerated():
		fields, err := p.parseFieldListUntilBrace()
		if err != nil {
			return nil, err
		}

		ot.Fields = fields
	default:
		inner, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}

		ot.Pattern = inner
	}

	close := p.cur()
	if close.Kind != KindRBrace {
		return nil, &SchemaError{Pos: open.Pos, Message: "unterminated object type"}
	}

	p.advance()

	constraints, ext, err := p.parseConstraintsOptObject(ot.Pattern == nil)
	if err != nil {
		return nil, err
	}

	ot.Constraints = constraints
	ot.Ext = ext

	return ot, nil
}

// looksEnumerated peeks, without consuming, whether the object body opens
// with `Key ':'` or `Key '?' ':'`.
func (p *SchemaParser) looksEnumerated() bool {
	t := p.cur()
	if t.Kind != KindIdent && t.Kind != KindString && t.Kind != KindSingleString {
		return false
	}

	save := p.pos

	defer func() { p.pos = save }()

	p.advance()

	if p.cur().Kind == KindQuestion {
		p.advance()
	}

	return p.cur().Kind == KindColon
}

// parseFieldListUntilBrace parses `(Field (',' Field)* ','?)?` up to (not
// including) the closing '}'.
func (p *SchemaParser) parseFieldListUntilBrace() ([]ObjectField, error) {
	var fields []ObjectField

	for {
		if p.cur().Kind == KindRBrace {
			break
		}

		f, err := p.parseField()
		if err != nil {
			return nil, err
		}

		fields = append(fields, f)

		if p.cur().Kind == KindComma {
			p.advance()

			if p.cur().Kind == KindRBrace {
				break
			}

			continue
		}

		break
	}

	return fields, nil
}

// parseConstraintsOpt parses an optional `'<' Constraint (',' Constraint)* '>'`.
func (p *SchemaParser) parseConstraintsOpt() (map[string]ConstraintValue, error) {
	if p.cur().Kind != KindLAngle {
		return nil, nil
	}

	open := p.advance()

	constraints := make(map[string]ConstraintValue)

	for {
		name, val, err := p.parseConstraint()
		if err != nil {
			return nil, err
		}

		constraints[name] = val

		if p.cur().Kind == KindComma {
			p.advance()

			continue
		}

		break
	}

	if p.cur().Kind != KindRAngle {
		return nil, &SchemaError{Pos: open.Pos, Message: "missing closing angle bracket"}
	}

	p.advance()

	return constraints, nil
}

// parseConstraintsOptObject is parseConstraintsOpt plus extraction of the
// enumerated-only "ext" constraint into its own return value.
func (p *SchemaParser) parseConstraintsOptObject(enumerated bool) (map[string]ConstraintValue, bool, error) {
	raw, err := p.parseConstraintsOpt()
	if err != nil {
		return nil, false, err
	}

	ext := false

	if enumerated {
		if c, ok := raw["ext"]; ok {
			ext = c.Bool
			delete(raw, "ext")
		}
	}

	if len(raw) == 0 {
		raw = nil
	}

	return raw, ext, nil
}

// parseConstraint parses `IDENT '=' ConstraintValue`.
func (p *SchemaParser) parseConstraint() (string, ConstraintValue, error) {
	nameTok := p.cur()
	if nameTok.Kind != KindIdent {
		return "", ConstraintValue{}, &SchemaError{Pos: nameTok.Pos, Message: fmt.Sprintf("expected constraint name, got %s", nameTok.Kind)}
	}

	p.advance()

	eq := p.cur()
	if eq.Kind != KindEqual {
		return "", ConstraintValue{}, &SchemaError{Pos: eq.Pos, Message: fmt.Sprintf("expected '=', got %s", eq.Kind)}
	}

	p.advance()

	val, err := p.parseConstraintValue()
	if err != nil {
		return "", ConstraintValue{}, err
	}

	return nameTok.Text, val, nil
}

// parseConstraintValue parses `STRING | INT | FLOAT | BOOL | NULL | '[' ConstraintValue (',' ConstraintValue)* ']'`.
func (p *SchemaParser) parseConstraintValue() (ConstraintValue, error) {
	t := p.cur()

	switch t.Kind {
	case KindString:
		s, err := DecodeDoubleString(t.Text)
		if err != nil {
			return ConstraintValue{}, &SchemaError{Pos: t.Pos, Message: err.Error()}
		}

		p.advance()

		return ConstraintValue{Kind: VString, Str: s}, nil

	case KindSingleString:
		s, err := DecodeSingleString(t.Text)
		if err != nil {
			return ConstraintValue{}, &SchemaError{Pos: t.Pos, Message: err.Error()}
		}

		p.advance()

		return ConstraintValue{Kind: VString, Str: s}, nil

	case KindInt:
		n, err := DecodeInt(t.Text)
		if err != nil {
			return ConstraintValue{}, &SchemaError{Pos: t.Pos, Message: err.Error()}
		}

		p.advance()

		return ConstraintValue{Kind: VInt, Int: n}, nil

	case KindFloat:
		f, err := DecodeFloat(t.Text)
		if err != nil {
			return ConstraintValue{}, &SchemaError{Pos: t.Pos, Message: err.Error()}
		}

		p.advance()

		return ConstraintValue{Kind: VFloat, Float: f}, nil

	case KindBool:
		p.advance()

		return ConstraintValue{Kind: VBool, Bool: t.Text == "true"}, nil

	case KindNull:
		p.advance()

		return ConstraintValue{Kind: VNull}, nil

	case KindLBracket:
		return p.parseConstraintValueList()

	default:
		return ConstraintValue{}, &SchemaError{Pos: t.Pos, Message: fmt.Sprintf("expected constraint value, got %s", t.Kind)}
	}
}

func (p *SchemaParser) parseConstraintValueList() (ConstraintValue, error) {
	open := p.advance() // '['

	var list []ConstraintValue

	if p.cur().Kind != KindRBracket {
		for {
			v, err := p.parseConstraintValue()
			if err != nil {
				return ConstraintValue{}, err
			}

			list = append(list, v)

			if p.cur().Kind == KindComma {
				p.advance()

				continue
			}

			break
		}
	}

	if p.cur().Kind != KindRBracket {
		return ConstraintValue{}, &SchemaError{Pos: open.Pos, Message: "unterminated constraint list"}
	}

	p.advance()

	return ConstraintValue{Kind: VList, List: list}, nil
}
