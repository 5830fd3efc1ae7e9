package ftml

// Kind classifies a lexical token produced by the tokenizer.
type Kind byte

const (
	KindInvalid Kind = iota
	KindIdent
	KindString       // double-quoted
	KindSingleString // single-quoted
	KindInt
	KindFloat
	KindBool
	KindNull
	KindLBrace
	KindRBrace
	KindLBracket
	KindRBracket
	KindEqual
	KindColon
	KindPipe
	KindLAngle
	KindRAngle
	KindComma
	KindQuestion
	KindComment  // "//..."
	KindOuterDoc // "///..."
	KindInnerDoc // "//!..."
	KindNewline
	KindWhitespace
	KindEOF
)

//nolint:cyclop // one-kind-per-case switch, no meaningful way to shrink it
func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "INVALID"
	case KindIdent:
		return "IDENT"
	case KindString:
		return "STRING"
	case KindSingleString:
		return "SINGLE_STRING"
	case KindInt:
		return "INT"
	case KindFloat:
		return "FLOAT"
	case KindBool:
		return "BOOL"
	case KindNull:
		return "NULL"
	case KindLBrace:
		return "LBRACE"
	case KindRBrace:
		return "RBRACE"
	case KindLBracket:
		return "LBRACKET"
	case KindRBracket:
		return "RBRACKET"
	case KindEqual:
		return "EQUAL"
	case KindColon:
		return "COLON"
	case KindPipe:
		return "PIPE"
	case KindLAngle:
		return "LANGLE"
	case KindRAngle:
		return "RANGLE"
	case KindComma:
		return "COMMA"
	case KindQuestion:
		return "QUESTION"
	case KindComment:
		return "COMMENT"
	case KindOuterDoc:
		return "OUTER_DOC"
	case KindInnerDoc:
		return "INNER_DOC"
	case KindNewline:
		return "NEWLINE"
	case KindWhitespace:
		return "WHITESPACE"
	case KindEOF:
		return "EOF"
	default:
		return "UNKNOWN"
	}
}

// IsComment reports whether k is one of the three comment token kinds.
func (k Kind) IsComment() bool {
	return k == KindComment || k == KindOuterDoc || k == KindInnerDoc
}

// Token is a single lexical unit with its source text and position.
//
// Text holds the raw source slice for the token, including quote
// delimiters for strings and the comment marker ("//", "///", "//!") for
// comments. Consumers that need the decoded value (unescaped string
// contents, parsed numeric value, comment body with marker stripped) use
// the helpers in lexer.go.
type Token struct {
	Text string
	Pos  Position
	Kind Kind
}
