package ftml

import (
	"fmt"
	"strconv"
	"strings"
)

// CurrentVersion is the version this package declares compatibility for,
// checked against a document's ftml_version by [CheckVersion].
const CurrentVersion = "1.0"

// versionStage orders a version's pre-release stage: alpha precedes beta
// precedes release candidate precedes a final release.
type versionStage int

const (
	stageAlpha versionStage = iota
	stageBeta
	stageRC
	stageRelease
)

// Version is a parsed MAJOR.MINOR[a|b|rc]N version string, the shape of
// the reserved ftml_version root key.
type Version struct {
	Major, Minor int
	Stage        versionStage
	StageNum     int
}

// ParseVersion parses a version string of the form MAJOR.MINOR, optionally
// suffixed with a pre-release tag ('a', 'b', or 'rc') and its number.
func ParseVersion(s string) (Version, error) {
	majorStr, rest, ok := strings.Cut(s, ".")
	if !ok {
		return Version{}, fmt.Errorf("malformed version %q: missing '.'", s)
	}

	major, err := strconv.Atoi(majorStr)
	if err != nil {
		return Version{}, fmt.Errorf("malformed version %q: %w", s, err)
	}

	minorStr, stage, stageNum, err := splitStage(rest)
	if err != nil {
		return Version{}, fmt.Errorf("malformed version %q: %w", s, err)
	}

	minor, err := strconv.Atoi(minorStr)
	if err != nil {
		return Version{}, fmt.Errorf("malformed version %q: %w", s, err)
	}

	return Version{Major: major, Minor: minor, Stage: stage, StageNum: stageNum}, nil
}

func splitStage(s string) (minorStr string, stage versionStage, stageNum int, err error) {
	for i := range len(s) {
		c := s[i]
		if c >= '0' && c <= '9' {
			continue
		}

		minorStr = s[:i]
		tag := s[i:]

		switch {
		case strings.HasPrefix(tag, "rc"):
			stage = stageRC
			tag = tag[2:]
		case strings.HasPrefix(tag, "a"):
			stage = stageAlpha
			tag = tag[1:]
		case strings.HasPrefix(tag, "b"):
			stage = stageBeta
			tag = tag[1:]
		default:
			return "", 0, 0, fmt.Errorf("unrecognized pre-release tag %q", tag)
		}

		if tag == "" {
			return "", 0, 0, fmt.Errorf("pre-release tag missing its stage number")
		}

		n, numErr := strconv.Atoi(tag)
		if numErr != nil {
			return "", 0, 0, fmt.Errorf("malformed stage number %q: %w", tag, numErr)
		}

		return minorStr, stage, n, nil
	}

	return s, stageRelease, 0, nil
}

// Compare orders versions by major, then minor, then stage, then stage
// number -- a final release sorts after every pre-release stage at the
// same major.minor.
func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		return cmpInt(v.Major, o.Major)
	case v.Minor != o.Minor:
		return cmpInt(v.Minor, o.Minor)
	case v.Stage != o.Stage:
		return cmpInt(int(v.Stage), int(o.Stage))
	default:
		return cmpInt(v.StageNum, o.StageNum)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (v Version) String() string {
	base := fmt.Sprintf("%d.%d", v.Major, v.Minor)

	switch v.Stage {
	case stageAlpha:
		return fmt.Sprintf("%sa%d", base, v.StageNum)
	case stageBeta:
		return fmt.Sprintf("%sb%d", base, v.StageNum)
	case stageRC:
		return fmt.Sprintf("%src%d", base, v.StageNum)
	default:
		return base
	}
}

// CheckVersion enforces the ftml_version compatibility gate: incompatible
// when the document's major version exceeds the parser's, or (equal
// major) its minor exceeds the parser's, or (equal major.minor) its
// pre-release stage exceeds the parser's, ordered alpha < beta < rc <
// release. A document from an older major, minor, or stage is always
// compatible -- only a document newer than the parser is rejected.
func CheckVersion(docVersion, parserVersion string) error {
	dv, err := ParseVersion(docVersion)
	if err != nil {
		return &VersionError{DocVersion: docVersion, ParserVersion: parserVersion, Message: err.Error()}
	}

	pv, err := ParseVersion(parserVersion)
	if err != nil {
		return &VersionError{DocVersion: docVersion, ParserVersion: parserVersion, Message: err.Error()}
	}

	if dv.Major > pv.Major {
		return &VersionError{
			DocVersion: docVersion, ParserVersion: parserVersion,
			Message: fmt.Sprintf("document major version %d is newer than parser's %d", dv.Major, pv.Major),
		}
	}

	if dv.Major == pv.Major && dv.Minor > pv.Minor {
		return &VersionError{
			DocVersion: docVersion, ParserVersion: parserVersion,
			Message: fmt.Sprintf("document minor version %d is newer than parser's %d", dv.Minor, pv.Minor),
		}
	}

	if dv.Major == pv.Major && dv.Minor == pv.Minor && dv.Compare(pv) > 0 {
		return &VersionError{
			DocVersion: docVersion, ParserVersion: parserVersion,
			Message: fmt.Sprintf("document pre-release stage %s is newer than parser's %s", dv, pv),
		}
	}

	return nil
}
