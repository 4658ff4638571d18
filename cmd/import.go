package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	importTable     string
	importDelimiter string
	importDecimal   string
	importSheet     string
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a CSV, TSV or XLSX file into a table",
	Long: `Import a file into the database, replacing any table with the same name.
The table is named after the file (spaces and dashes become underscores) unless --table is set.
Compressed inputs (.gz, .bz2, .xz, .zst) are read transparently.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		// Per-run overrides never reach the saved config
		local := *c
		if importDelimiter != "" {
			local.Delimiter = importDelimiter
		}
		if importDecimal != "" {
			local.DecimalSeparator = importDecimal
		}
		if importSheet != "" {
			local.Sheet = importSheet
		}
		if err := local.Validate(); err != nil {
			return err
		}
		s, err := openSession(&local, true)
		if err != nil {
			return err
		}
		defer s.Close()

		name, t, err := s.ws.ImportFile(cmd.Context(), args[0], importTable)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %s into table '%s' (%d rows × %d columns)\n",
			args[0], name, t.Len(), t.Width())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVarP(&importTable, "table", "t", "", "table name (default derived from the file name)")
	importCmd.Flags().StringVar(&importDelimiter, "delimiter", "", "field delimiter: a character or tab|comma|semicolon|pipe")
	importCmd.Flags().StringVar(&importDecimal, "decimal", "", "decimal separator: '.' or ','")
	importCmd.Flags().StringVar(&importSheet, "sheet", "", "XLSX sheet name (default first sheet)")
}
