package ftml

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for FTML load/dump configuration, allowing
// callers to customize flag names while keeping sensible defaults.
type Flags struct {
	Strict           string
	PreserveComments string
	ApplyDefaults    string
	CheckVersion     string
	IndentSpaces     string
	InlineThreshold  string
}

// Config holds CLI flag values for the configuration surface: the
// validator's strictness and default-application behavior, whether a
// round trip goes through [Reconcile] to keep comments, the version gate,
// and the serializer's formatting knobs.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.ValidateConfig] and
// [Config.SerializeConfig] to derive the lower-level configs the core
// pipeline expects.
type Config struct {
	Flags Flags

	Strict           bool
	PreserveComments bool
	ApplyDefaults    bool
	CheckVersion     bool
	IndentSpaces     int
	InlineThreshold  int

	// ParserVersion is the version string this build of the parser
	// declares compatibility for (the right-hand side of CheckVersion).
	ParserVersion string
}

// NewConfig returns a new [Config] with default flag names and the
// package defaults: strict validation, comments preserved, defaults
// applied, version checked, 4-space indent, inline up to 3 children.
func NewConfig() *Config {
	return &Config{
		Flags: Flags{
			Strict:           "strict",
			PreserveComments: "preserve-comments",
			ApplyDefaults:    "apply-defaults",
			CheckVersion:     "check-version",
			IndentSpaces:     "indent-spaces",
			InlineThreshold:  "inline-threshold",
		},
		Strict:           true,
		PreserveComments: true,
		ApplyDefaults:    true,
		CheckVersion:     true,
		IndentSpaces:     4,
		InlineThreshold:  3,
		ParserVersion:    CurrentVersion,
	}
}

// RegisterFlags adds load/dump configuration flags to the given
// [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.BoolVar(&c.Strict, c.Flags.Strict, c.Strict,
		"reject unknown fields in enumerated objects")
	flags.BoolVar(&c.PreserveComments, c.Flags.PreserveComments, c.PreserveComments,
		"carry comments through a load-mutate-dump round trip")
	flags.BoolVar(&c.ApplyDefaults, c.Flags.ApplyDefaults, c.ApplyDefaults,
		"inject schema defaults for missing optional fields")
	flags.BoolVar(&c.CheckVersion, c.Flags.CheckVersion, c.CheckVersion,
		"reject documents whose ftml_version the parser can't read")
	flags.IntVar(&c.IndentSpaces, c.Flags.IndentSpaces, c.IndentSpaces,
		"spaces per nesting level in multiline output")
	flags.IntVar(&c.InlineThreshold, c.Flags.InlineThreshold, c.InlineThreshold,
		"largest comment-free child count still rendered on one line")
}

// RegisterCompletions registers shell completions for the integer-valued
// configuration flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	noFileComp := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	for _, flag := range []string{c.Flags.IndentSpaces, c.Flags.InlineThreshold} {
		if err := cmd.RegisterFlagCompletionFunc(flag, noFileComp); err != nil {
			return fmt.Errorf("registering %s completion: %w", flag, err)
		}
	}

	return nil
}

// ValidateConfig derives the validator's configuration from c.
func (c *Config) ValidateConfig() ValidateConfig {
	return ValidateConfig{Strict: c.Strict, ApplyDefaults: c.ApplyDefaults}
}

// SerializeConfig derives the serializer's configuration from c.
func (c *Config) SerializeConfig() SerializeConfig {
	return SerializeConfig{IndentSpaces: c.IndentSpaces, InlineThreshold: c.InlineThreshold}
}
