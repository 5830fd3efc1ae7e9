// Command ftml loads, validates, formats, and inspects FTML documents.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/x/ftml"
	xlog "go.jacobcolvin.com/x/log"
	"go.jacobcolvin.com/x/profile"
)

func main() {
	os.Exit(run())
}

func run() int {
	docCfg := ftml.NewConfig()
	logCfg := xlog.NewConfig()
	profCfg := profile.NewConfig()

	var profiler *profile.Profiler

	rootCmd := &cobra.Command{
		Use:           "ftml",
		Short:         "Load, validate, format, and inspect FTML documents",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			handler, err := logCfg.NewHandler(os.Stderr)
			if err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}

			slog.SetDefault(slog.New(handler))

			profiler = profCfg.NewProfiler()

			return profiler.Start()
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if profiler == nil {
				return nil
			}

			return profiler.Stop()
		},
	}

	docCfg.RegisterFlags(rootCmd.PersistentFlags())
	logCfg.RegisterFlags(rootCmd.PersistentFlags())
	profCfg.RegisterFlags(rootCmd.PersistentFlags())

	for _, registerCompletions := range []func(*cobra.Command) error{
		docCfg.RegisterCompletions,
		logCfg.RegisterCompletions,
		profCfg.RegisterCompletions,
	} {
		if err := registerCompletions(rootCmd); err != nil {
			fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
		}
	}

	rootCmd.AddCommand(
		newValidateCmd(docCfg),
		newFmtCmd(docCfg),
		newSchemaCmd(),
		newTreeCmd(docCfg),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)

		return 1
	}

	return 0
}

// readInput reads arg as a file path, or stdin when arg is "-".
func readInput(arg string) ([]byte, error) {
	if arg == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}

		return data, nil
	}

	data, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", arg, err)
	}

	return data, nil
}
