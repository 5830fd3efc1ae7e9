package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/x/ftml"
	"go.jacobcolvin.com/x/ftml/jsonschemaexport"
)

func newSchemaCmd() *cobra.Command {
	var title, description, id string

	cmd := &cobra.Command{
		Use:   "schema <schema.ftml>",
		Short: "Export an FTML schema as Draft-7 JSON Schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runSchema(args[0], title, description, id)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "JSON Schema title")
	cmd.Flags().StringVar(&description, "description", "", "JSON Schema description")
	cmd.Flags().StringVar(&id, "id", "", "JSON Schema $id")

	return cmd
}

func runSchema(arg, title, description, id string) error {
	data, err := readInput(arg)
	if err != nil {
		return err
	}

	reg := ftml.DefaultRegistry()

	root, err := ftml.ParseSchema(string(data), reg)
	if err != nil {
		return fmt.Errorf("parse schema %s: %w", arg, err)
	}

	opts := []jsonschemaexport.Option{jsonschemaexport.WithRegistry(reg)}
	if title != "" {
		opts = append(opts, jsonschemaexport.WithTitle(title))
	}

	if description != "" {
		opts = append(opts, jsonschemaexport.WithDescription(description))
	}

	if id != "" {
		opts = append(opts, jsonschemaexport.WithID(id))
	}

	schema := jsonschemaexport.Export(root, opts...)

	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json schema: %w", err)
	}

	fmt.Println(string(out))

	return nil
}
