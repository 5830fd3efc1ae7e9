package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/x/ftml"
)

func newValidateCmd(docCfg *ftml.Config) *cobra.Command {
	var schemaPath string

	cmd := &cobra.Command{
		Use:   "validate [flags] <file.ftml> [file2.ftml ...]",
		Short: "Parse and validate FTML documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(docCfg, schemaPath, args)
		},
	}

	cmd.Flags().StringVar(&schemaPath, "schema", "", "FTML schema file to validate against")

	return cmd
}

func runValidate(docCfg *ftml.Config, schemaPath string, args []string) error {
	reg := ftml.DefaultRegistry()

	var schema *ftml.ObjectT

	if schemaPath != "" {
		schemaSrc, err := readInput(schemaPath)
		if err != nil {
			return err
		}

		schema, err = ftml.ParseSchema(string(schemaSrc), reg)
		if err != nil {
			return fmt.Errorf("parse schema %s: %w", schemaPath, err)
		}
	}

	failed := false

	for _, arg := range args {
		ok, err := validateOne(docCfg, reg, schema, arg)
		if err != nil {
			return err
		}

		if !ok {
			failed = true
		}
	}

	if failed {
		return errors.New("validation failed")
	}

	return nil
}

func validateOne(docCfg *ftml.Config, reg *ftml.Registry, schema *ftml.ObjectT, arg string) (bool, error) {
	data, err := readInput(arg)
	if err != nil {
		return false, err
	}

	src := string(data)

	doc, parseErrs := ftml.Load(src)
	if len(parseErrs) > 0 {
		fmt.Fprintf(os.Stderr, "%s:\n%s", arg, ftml.FormatErrors(parseErrs, src))

		return false, nil
	}

	root := ftml.ToValueTree(doc)

	if docCfg.CheckVersion {
		if docVersion, ok := root.Get("ftml_version"); ok {
			if err := ftml.CheckVersion(docVersion.Str, docCfg.ParserVersion); err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", arg, err)

				return false, nil
			}
		}
	}

	if schema == nil {
		fmt.Printf("%s: ok\n", arg)

		return true, nil
	}

	validateErrs := ftml.ValidateDocument(reg, schema, root, docCfg.ValidateConfig())
	if len(validateErrs) > 0 {
		fmt.Fprintf(os.Stderr, "%s:\n%s", arg, ftml.FormatErrors(validateErrs, src))

		return false, nil
	}

	fmt.Printf("%s: ok\n", arg)

	return true, nil
}
