package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"upstreamproxy/internal/application/classify"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// newVariantsCmd creates the command listing every error variant the API can answer with.
func newVariantsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "variants",
		Short: "List the error variants of the API",
		Long: `List every variant code an error envelope can carry, with the HTTP
statuses it is sent with and what it means.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeCatalog(cmd.OutOrStdout(), format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format (yaml, json)")
	return cmd
}

func writeCatalog(w io.Writer, format string) error {
	catalog := classify.Catalog()

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(catalog); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(catalog)
	default:
		return fmt.Errorf("unsupported format %q: must be yaml or json", format)
	}
}

func init() { //nolint:gochecknoinits // Standard Cobra CLI pattern for command registration
	rootCmd.AddCommand(newVariantsCmd())
}
