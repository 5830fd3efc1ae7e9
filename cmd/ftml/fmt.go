package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/x/ftml"
)

func newFmtCmd(docCfg *ftml.Config) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "fmt [flags] <file.ftml> [file2.ftml ...]",
		Short: "Reformat FTML documents to canonical style",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runFmt(docCfg, write, args)
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write result to file instead of stdout")

	return cmd
}

func runFmt(docCfg *ftml.Config, write bool, args []string) error {
	for _, arg := range args {
		if err := fmtOne(docCfg, write, arg); err != nil {
			return err
		}
	}

	return nil
}

func fmtOne(docCfg *ftml.Config, write bool, arg string) error {
	data, err := readInput(arg)
	if err != nil {
		return err
	}

	src := string(data)

	doc, parseErrs := ftml.Load(src)
	if len(parseErrs) > 0 {
		return fmt.Errorf("%s:\n%s", arg, ftml.FormatErrors(parseErrs, src))
	}

	out := ftml.Serialize(doc, docCfg.SerializeConfig())

	if !write || arg == "-" {
		_, err := fmt.Print(out)

		return err
	}

	if err := os.WriteFile(arg, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", arg, err)
	}

	return nil
}
