package cmd

import (
	"fmt"

	"github.com/KaramelBytes/tablescope/internal/utils"
	"github.com/spf13/cobra"
)

var tablesJSON bool

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List tables in the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			names, err := s.ws.Tables(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if tablesJSON {
				if names == nil {
					names = []string{}
				}
				b, err := utils.PrettyJSON(names)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(b))
				return nil
			}
			if len(names) == 0 {
				fmt.Fprintln(out, "(no tables)")
				return nil
			}
			for _, n := range names {
				fmt.Fprintf(out, "- %s\n", n)
			}
			return nil
		})
	},
}

var dropCmd = &cobra.Command{
	Use:   "drop <table>",
	Short: "Remove a table from the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			if err := s.ws.Drop(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Dropped table '%s'\n", args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(dropCmd)
	tablesCmd.Flags().BoolVar(&tablesJSON, "json", false, "print table names as a JSON array")
}
