// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/darijamt/colmap/pkg/schema"
)

// parent command for column mapping subcommands
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Column mapping utilities",
}

var schemaDumpCmd = &cobra.Command{
	Use:     "dump",
	Short:   "Loads a column mapping and writes it back in its normalised form",
	PreRunE: schemaDumpFlagBinding,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, s, err := loadSchema()
		if err != nil {
			return err
		}

		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			data, err := schema.Dump(s)
			if err != nil {
				return fmt.Errorf("marshaling column mapping: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data)) //nolint:forbidigo
			return nil
		}

		if err := schema.WriteFile(s, output); err != nil {
			pterm.Error.Println(err.Error())
			return err
		}
		pterm.Success.Printfln("column mapping written to %s", output)
		return nil
	},
	Example: `
	colmap schema dump -f column_mapping.yaml
	colmap schema dump -f column_mapping.yaml -o normalised.yaml
	`,
}

func schemaDumpFlagBinding(cmd *cobra.Command, _ []string) error {
	schemaFlagBinding(cmd)
	return nil
}
