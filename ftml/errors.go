package ftml

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with [errors.Is]. Each concrete error type
// (LexError, ParseError, SchemaError, ValidationError, VersionError)
// wraps the matching sentinel below.
var (
	ErrLex        = errors.New("ftml: lex error")
	ErrParse      = errors.New("ftml: parse error")
	ErrSchema     = errors.New("ftml: schema error")
	ErrValidation = errors.New("ftml: validation error")
	ErrVersion    = errors.New("ftml: version error")
)

// ParseErrorKind distinguishes the parse failure modes the parser reports.
type ParseErrorKind int

const (
	UnexpectedToken ParseErrorKind = iota
	DuplicateKey
	Unterminated
	DuplicateInlineComment
	MissingComma
)

func (k ParseErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "UnexpectedToken"
	case DuplicateKey:
		return "DuplicateKey"
	case Unterminated:
		return "Unterminated"
	case DuplicateInlineComment:
		return "DuplicateInlineComment"
	case MissingComma:
		return "MissingComma"
	default:
		return "Unknown"
	}
}

// ParseError reports a document or schema parse failure at a position.
type ParseError struct {
	Pos      Position
	Kind     ParseErrorKind
	Message  string
	Expected string
	Got      string
}

func (e *ParseError) Error() string {
	if e.Expected != "" || e.Got != "" {
		return fmt.Sprintf("%s: %s: expected %s, got %s", e.Pos, e.Kind, e.Expected, e.Got)
	}

	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Message)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// SchemaError reports a schema-parse failure. Schema
// errors are fatal to the schema: no partial type tree is ever returned.
type SchemaError struct {
	Pos     Position
	Message string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: schema error: %s", e.Pos, e.Message)
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// ValidationErrorKind distinguishes validation failure modes.
type ValidationErrorKind int

const (
	TypeMismatch ValidationErrorKind = iota
	UnknownField
	MissingRequiredField
	ConstraintViolation
	UnionNoMatch
)

func (k ValidationErrorKind) String() string {
	switch k {
	case TypeMismatch:
		return "TypeMismatch"
	case UnknownField:
		return "UnknownField"
	case MissingRequiredField:
		return "MissingRequiredField"
	case ConstraintViolation:
		return "ConstraintViolation"
	case UnionNoMatch:
		return "UnionNoMatch"
	default:
		return "Unknown"
	}
}

// ValidationError reports a single validation failure, path-qualified per
// the dotted/bracketed path of the offending node.
type ValidationError struct {
	Path    string
	Kind    ValidationErrorKind
	Message string
	// Constraint names the violated constraint when Kind is
	// ConstraintViolation (e.g. "min_length", "unique").
	Constraint string
	// Sub holds the collected sub-errors of the last tried alternative
	// when Kind is UnionNoMatch.
	Sub []*ValidationError
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case ConstraintViolation:
		return fmt.Sprintf("%s: %s(%s): %s", e.Path, e.Kind, e.Constraint, e.Message)
	case UnionNoMatch:
		msgs := make([]string, 0, len(e.Sub))
		for _, s := range e.Sub {
			msgs = append(msgs, s.Error())
		}

		return fmt.Sprintf("%s: %s: no alternative matched (%s)", e.Path, e.Kind, strings.Join(msgs, "; "))
	default:
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Kind, e.Message)
	}
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// VersionError reports a failure in the version-compatibility gate.
type VersionError struct {
	DocVersion    string
	ParserVersion string
	Message       string
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("version error: %s (document %q, parser %q)", e.Message, e.DocVersion, e.ParserVersion)
}

func (e *VersionError) Unwrap() error { return ErrVersion }

// FormatErrors renders a batch of errors as a multi-line, source-annotated
// report. Errors that are not [*ParseError] or [*LexError] are rendered as
// a plain line with no source snippet. This is a host convenience;
// the core never requires callers to use it.
func FormatErrors(errs []error, src string) string {
	lines := strings.Split(src, "\n")

	var sb strings.Builder

	for i, err := range errs {
		if i > 0 {
			sb.WriteByte('\n')
		}

		pos, ok := errorPosition(err)
		if !ok {
			sb.WriteString(err.Error())

			continue
		}

		fmt.Fprintf(&sb, "%s\n", err.Error())

		if pos.Line >= 1 && pos.Line <= len(lines) {
			srcLine := lines[pos.Line-1]
			fmt.Fprintf(&sb, "    %s\n", srcLine)

			if pos.Column >= 1 {
				fmt.Fprintf(&sb, "    %s^\n", strings.Repeat(" ", pos.Column-1))
			}
		}
	}

	return sb.String()
}

func errorPosition(err error) (Position, bool) {
	var (
		lexErr   *LexError
		parseErr *ParseError
	)

	switch {
	case errors.As(err, &lexErr):
		return lexErr.Pos, true
	case errors.As(err, &parseErr):
		return parseErr.Pos, true
	default:
		return Position{}, false
	}
}
