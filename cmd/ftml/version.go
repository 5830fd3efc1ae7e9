package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/x/ftml"
	"go.jacobcolvin.com/x/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build and FTML version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "ftml %s\n", ftml.CurrentVersion)
			fmt.Fprintf(cmd.OutOrStdout(), "build %s (%s) %s/%s %s\n",
				orUnknown(version.Version), orUnknown(version.Revision),
				version.GoOS, version.GoArch, version.GoVersion)

			return nil
		},
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}

	return s
}
