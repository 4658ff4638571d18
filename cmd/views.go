package cmd

import (
	"fmt"

	"github.com/KaramelBytes/tablescope/internal/analysis"
	"github.com/KaramelBytes/tablescope/internal/chart"
	"github.com/KaramelBytes/tablescope/internal/utils"
	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"
)

var viewOutput string

var statsCmd = &cobra.Command{
	Use:   "stats <table>",
	Short: "Show shape, column types, describe() and top correlations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			t, err := s.ws.Table(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return emit(cmd, analysis.Summary(t))
		})
	},
}

var heatmapCmd = &cobra.Command{
	Use:   "heatmap <table>",
	Short: "Draw the correlation heatmap of a table's numeric columns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			t, err := s.ws.Table(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			f := &chart.Figure{}
			chart.DrawHeatmap(f, analysis.CorrelationMatrix(t), chart.HeatmapTitle(t.Name))
			return emitFigure(cmd, f)
		})
	},
}

var pairplotCmd = &cobra.Command{
	Use:   "pairplot <table>",
	Short: "Draw the simplified pairplot (correlation overview)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			t, err := s.ws.Table(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			f := &chart.Figure{}
			chart.DrawPairplot(f, t)
			return emitFigure(cmd, f)
		})
	},
}

var lineCmd = &cobra.Command{
	Use:   "line <table> [column]",
	Short: "Plot a numeric column against the row index",
	Long: `Plot the values of a numeric column against the 0-based row index.
When no column is given the first numeric column is used.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			t, err := s.ws.Table(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			f := &chart.Figure{}
			column := ""
			if len(args) == 2 {
				column = args[1]
			} else if numeric := analysis.NumericColumnNames(t); len(numeric) > 0 {
				column = numeric[0]
			}
			if column == "" {
				chart.DrawEmptyLine(f)
				return emitFigure(cmd, f)
			}
			if err := chart.DrawLine(f, t, column); err != nil {
				s.ws.Log().Logf("Line chart failed: %v", err)
				return err
			}
			return emitFigure(cmd, f)
		})
	},
}

func emitFigure(cmd *cobra.Command, f *chart.Figure) error {
	c, err := requireConfig()
	if err != nil {
		return err
	}
	return emit(cmd, chart.Render(f, c.ChartWidth, c.ChartHeight))
}

// emit prints text, or writes it without terminal styling to --output.
func emit(cmd *cobra.Command, text string) error {
	if viewOutput == "" {
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	}
	if err := utils.SafeWriteFile(viewOutput, []byte(ansi.Strip(text))); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", viewOutput)
	return nil
}

func init() {
	for _, c := range []*cobra.Command{statsCmd, heatmapCmd, pairplotCmd, lineCmd} {
		rootCmd.AddCommand(c)
		c.Flags().StringVarP(&viewOutput, "output", "o", "", "write the output to a file instead of stdout")
	}
}
