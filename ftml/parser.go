package ftml

import "fmt"

// reservedBareWords are bare identifiers rejected as unquoted keys.
var reservedBareWords = map[string]bool{
	"null": true, "true": true, "false": true,
	"int": true, "float": true, "str": true, "bool": true,
}

// Parser is a recursive-descent parser over the full token stream that
// builds the structural AST skeleton, ignoring comment tokens.
type Parser struct {
	toks []Token
	pos  int

	errs   []error
	doc    *Document
	nextID nodeID
}

// newID hands out the next node identity and registers n under it in the
// document's lookup table, so a value tree extracted later can resolve an
// AstRef without the document having to hand out strong pointers.
func (p *Parser) newID(n Node) nodeID {
	p.nextID++
	p.doc.register(p.nextID, n)

	return p.nextID
}

// ParseDocument tokenizes and parses src into a [Document]. It returns the
// best-effort AST alongside any accumulated parse errors (error
// recovery means multiple errors can be reported from a single pass).
// Comments are NOT attached by this function; call [AttachComments] (or use
// [Load], which does both) to populate comment slots.
func ParseDocument(src string) (*Document, []error) {
	toks, err := tokenizeAll(src)
	if err != nil {
		return &Document{}, []error{err}
	}

	p := &Parser{toks: toks}

	return p.parseDocument(), p.errs
}

// Load tokenizes, parses, and attaches comments to src in one step: the
// combination of [ParseDocument] and [AttachComments] a typical caller
// wants.
func Load(src string) (*Document, []error) {
	toks, err := tokenizeAll(src)
	if err != nil {
		return &Document{}, []error{err}
	}

	p := &Parser{toks: toks}
	doc := p.parseDocument()

	p.errs = append(p.errs, AttachComments(doc, toks)...)

	return doc, p.errs
}

// tokenizeAll runs the Lexer to completion, returning every token including
// WHITESPACE, comments, and NEWLINE, terminated by EOF.
func tokenizeAll(src string) ([]Token, error) {
	lx := NewLexer(src)

	var toks []Token

	for {
		t, err := lx.Next()
		if err != nil {
			return nil, err
		}

		toks = append(toks, t)

		if t.Kind == KindEOF {
			return toks, nil
		}
	}
}

// cur returns the current token, skipping WHITESPACE (never comments --
// the caller decides whether comments are structurally visible).
func (p *Parser) cur() Token {
	for p.pos < len(p.toks) && p.toks[p.pos].Kind == KindWhitespace {
		p.pos++
	}

	if p.pos >= len(p.toks) {
		return Token{Kind: KindEOF}
	}

	return p.toks[p.pos]
}

// curSkipComments returns the current token, skipping WHITESPACE and any
// comment tokens -- the view the parser uses to build the skeleton.
func (p *Parser) curSkipComments() Token {
	for {
		t := p.cur()
		if t.Kind.IsComment() {
			p.pos++

			continue
		}

		return t
	}
}

func (p *Parser) advance() Token {
	t := p.curSkipComments()
	p.pos++

	return t
}

func (p *Parser) errf(pos Position, kind ParseErrorKind, format string, args ...any) {
	p.errs = append(p.errs, &ParseError{Pos: pos, Kind: kind, Message: fmt.Sprintf(format, args...)})
}

func (p *Parser) unexpected(pos Position, expected, got string) {
	p.errs = append(p.errs, &ParseError{Pos: pos, Kind: UnexpectedToken, Expected: expected, Got: got})
}

func (p *Parser) parseDocument() *Document {
	doc := &Document{}
	p.doc = doc
	doc.id = p.newID(doc)

	for {
		for p.curSkipComments().Kind == KindNewline {
			p.pos++
		}

		t := p.curSkipComments()
		if t.Kind == KindEOF {
			break
		}

		kv, ok := p.parseKeyValue()
		if !ok {
			p.recoverToNewline()

			continue
		}

		if _, exists := doc.Get(kv.Key); exists {
			p.errf(kv.Pos, DuplicateKey, "duplicate key %q", kv.Key)

			continue
		}

		doc.set(kv)
	}

	return doc
}

// recoverToNewline implements root-scope error recovery: skip to the next
// NEWLINE (or EOF) and resume.
func (p *Parser) recoverToNewline() {
	for {
		t := p.curSkipComments()
		if t.Kind == KindNewline || t.Kind == KindEOF {
			return
		}

		p.pos++
	}
}

// parseKeyValue parses `Key '=' Value`. Returns ok=false (with an error
// already recorded) if the key or '=' is missing.
func (p *Parser) parseKeyValue() (*KeyValue, bool) {
	keyTok := p.curSkipComments()

	key, quoted, quoteKind, ok := p.parseKey(keyTok)
	if !ok {
		return nil, false
	}

	p.pos++

	eq := p.curSkipComments()
	if eq.Kind != KindEqual {
		p.unexpected(eq.Pos, "'='", eq.Kind.String())

		return nil, false
	}

	p.pos++

	val, ok := p.parseValue()
	if !ok {
		return nil, false
	}

	return &KeyValue{
		Key:          key,
		KeyIsQuoted:  quoted,
		KeyQuoteKind: quoteKind,
		Value:        val,
		Pos:          keyTok.Pos,
	}, true
}

func (p *Parser) parseKey(tok Token) (key string, quoted bool, quoteKind Kind, ok bool) {
	switch tok.Kind {
	case KindIdent:
		if reservedBareWords[tok.Text] {
			p.errf(tok.Pos, UnexpectedToken, "reserved word %q cannot be used as an unquoted key", tok.Text)

			return "", false, 0, false
		}

		return tok.Text, false, 0, true

	case KindString:
		s, err := DecodeDoubleString(tok.Text)
		if err != nil {
			p.errf(tok.Pos, UnexpectedToken, "%s", err)

			return "", false, 0, false
		}

		return s, true, KindString, true

	case KindSingleString:
		s, err := DecodeSingleString(tok.Text)
		if err != nil {
			p.errf(tok.Pos, UnexpectedToken, "%s", err)

			return "", false, 0, false
		}

		return s, true, KindSingleString, true

	default:
		p.unexpected(tok.Pos, "key", tok.Kind.String())

		return "", false, 0, false
	}
}

// parseValue parses `Scalar | Object | List`.
func (p *Parser) parseValue() (ValueNode, bool) {
	t := p.curSkipComments()

	switch t.Kind {
	case KindLBrace:
		return p.parseObject()
	case KindLBracket:
		return p.parseList()
	case KindString, KindSingleString, KindInt, KindFloat, KindBool, KindNull:
		p.pos++

		return p.scalarFromToken(t), true
	default:
		p.unexpected(t.Pos, "value", t.Kind.String())

		return nil, false
	}
}

func (p *Parser) scalarFromToken(t Token) *Scalar {
	sv := ScalarValue{}

	switch t.Kind {
	case KindString:
		sv.Kind = ScalarString

		s, err := DecodeDoubleString(t.Text)
		if err != nil {
			p.errf(t.Pos, UnexpectedToken, "%s", err)
		}

		sv.Str = s
	case KindSingleString:
		sv.Kind = ScalarSingleString

		s, err := DecodeSingleString(t.Text)
		if err != nil {
			p.errf(t.Pos, UnexpectedToken, "%s", err)
		}

		sv.Str = s
	case KindInt:
		sv.Kind = ScalarInt

		n, err := DecodeInt(t.Text)
		if err != nil {
			p.errf(t.Pos, UnexpectedToken, "%s", err)
		}

		sv.Int = n
	case KindFloat:
		sv.Kind = ScalarFloat

		f, err := DecodeFloat(t.Text)
		if err != nil {
			p.errf(t.Pos, UnexpectedToken, "%s", err)
		}

		sv.Float = f
	case KindBool:
		sv.Kind = ScalarBool
		sv.Bool = t.Text == "true"
	case KindNull:
		sv.Kind = ScalarNull
	}

	return &Scalar{Value: sv, Pos: t.Pos}
}

// parseObject parses `'{' (KVPair (',' KVPair)* ','?)? '}'`.
func (p *Parser) parseObject() (*Object, bool) {
	open := p.curSkipComments()
	p.pos++

	obj := &Object{Pos: open.Pos}
	obj.id = p.newID(obj)

	if p.curSkipComments().Kind == KindRBrace {
		p.pos++

		return obj, true
	}

	for {
		p.skipNewlines()

		if p.curSkipComments().Kind == KindRBrace {
			break
		}

		kv, ok := p.parseKeyValue()
		if !ok {
			if !p.recoverInContainer(KindRBrace) {
				return obj, false
			}

			break
		}

		if _, exists := obj.Get(kv.Key); exists {
			p.errf(kv.Pos, DuplicateKey, "duplicate key %q", kv.Key)
		} else {
			obj.set(kv)
		}

		p.skipNewlines()

		sep := p.curSkipComments()

		switch sep.Kind {
		case KindComma:
			p.pos++

			p.skipNewlines()

			if p.curSkipComments().Kind == KindRBrace {
				break
			}

			continue
		case KindRBrace:
		default:
			p.errf(sep.Pos, MissingComma, "missing comma between object members")

			if !p.recoverInContainer(KindRBrace) {
				return obj, false
			}
		}

		break
	}

	close := p.curSkipComments()
	if close.Kind != KindRBrace {
		p.errs = append(p.errs, &ParseError{Pos: open.Pos, Kind: Unterminated, Message: "unterminated object"})

		return obj, false
	}

	p.pos++

	return obj, true
}

// parseList parses `'[' (Value (',' Value)* ','?)? ']'`.
func (p *Parser) parseList() (*List, bool) {
	open := p.curSkipComments()
	p.pos++

	list := &List{Pos: open.Pos}
	list.id = p.newID(list)

	if p.curSkipComments().Kind == KindRBracket {
		p.pos++

		return list, true
	}

	for {
		p.skipNewlines()

		if p.curSkipComments().Kind == KindRBracket {
			break
		}

		val, ok := p.parseValue()
		if !ok {
			if !p.recoverInContainer(KindRBracket) {
				return list, false
			}

			break
		}

		list.Items = append(list.Items, val)

		p.skipNewlines()

		sep := p.curSkipComments()

		switch sep.Kind {
		case KindComma:
			p.pos++

			p.skipNewlines()

			if p.curSkipComments().Kind == KindRBracket {
				break
			}

			continue
		case KindRBracket:
		default:
			p.errf(sep.Pos, MissingComma, "missing comma between list elements")

			if !p.recoverInContainer(KindRBracket) {
				return list, false
			}
		}

		break
	}

	close := p.curSkipComments()
	if close.Kind != KindRBracket {
		p.errs = append(p.errs, &ParseError{Pos: open.Pos, Kind: Unterminated, Message: "unterminated list"})

		return list, false
	}

	p.pos++

	return list, true
}

func (p *Parser) skipNewlines() {
	for p.curSkipComments().Kind == KindNewline {
		p.pos++
	}
}

// recoverInContainer implements container-scope error recovery: skip to
// the next COMMA or the matching closing delimiter, tracking a count of
// unclosed openers so nested containers don't cause early exit. Returns
// false if EOF is reached before recovery completes.
func (p *Parser) recoverInContainer(closing Kind) bool {
	depth := 0

	for {
		t := p.curSkipComments()

		switch t.Kind {
		case KindEOF:
			return false
		case KindLBrace, KindLBracket:
			depth++
			p.pos++
		case KindRBrace, KindRBracket:
			if depth == 0 {
				if t.Kind == closing {
					return true
				}

				return true
			}

			depth--
			p.pos++
		case KindComma:
			if depth == 0 {
				p.pos++

				return true
			}

			p.pos++
		default:
			p.pos++
		}
	}
}
