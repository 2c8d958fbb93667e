package app

import (
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/agentstation/webhost/internal/todo"
	"github.com/agentstation/webhost/pkg/errors"
)

func (a *App) newOpenAPICommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the sample API's OpenAPI document",
		Example: `  webhost openapi > openapi.json
  webhost openapi --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := renderDocument(a.version, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, yaml")
	return cmd
}

// renderDocument encodes the sample API document. YAML is converted from
// the JSON encoding so both formats carry the same fields.
func renderDocument(version, format string) ([]byte, error) {
	body, err := json.MarshalIndent(todo.Document(version), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	switch format {
	case "json":
		return append(body, '\n'), nil
	case "yaml", "yml":
		out, err := yaml.JSONToYAML(body)
		if err != nil {
			return nil, fmt.Errorf("convert document to yaml: %w", err)
		}
		return out, nil
	default:
		return nil, errors.NewValidationError("format", format, "must be json or yaml")
	}
}
