package cmd

import (
	"os"

	"github.com/KaramelBytes/tablescope/internal/tui"
	"github.com/spf13/cobra"
)

var uiStartDir string

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive terminal view",
	Long: `Open a tabbed terminal view with table statistics, the correlation overview,
the heatmap, a line chart and the action log. Press o to import a file and q to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		// stderr stays quiet while the screen is owned by the view
		s, err := openSession(c, false)
		if err != nil {
			return err
		}
		defer s.Close()
		dir := uiStartDir
		if dir == "" {
			dir, _ = os.Getwd()
		}
		return tui.Run(cmd.Context(), s.ws, tui.Options{
			ChartWidth:  c.ChartWidth,
			ChartHeight: c.ChartHeight,
			StartDir:    dir,
			Sink:        s.fileSink,
		})
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
	uiCmd.Flags().StringVar(&uiStartDir, "dir", "", "directory the file picker opens in (default working directory)")
}
