package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"fiximg/internal/processor"
	"fiximg/internal/tui"
	"fiximg/pkg/imgutil"
)

var scanFlags runFlags

var scanCmd = &cobra.Command{
	Use:   "scan [flags] <input> [output]",
	Short: "Show where each file would be placed without writing anything",
	Long: `Run the full optimization pipeline over <input> and print each file's
digest name, size change and metadata tag count. Nothing is written or
renamed.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := scanFlags.buildConfig(cmd, args, true)
		if err != nil {
			return err
		}

		rep, err := execute(cmd.Context(), cfg, scanFlags.plain)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for i, o := range rep.Outcomes {
			if i > 0 {
				fmt.Fprintln(out)
			}
			printScanOutcome(out, o)
		}
		if len(rep.Outcomes) > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, tui.RenderSummary(tui.SummaryRows(rep)))

		return finish(cfg, rep)
	},
}

func printScanOutcome(w io.Writer, o processor.Outcome) {
	fmt.Fprintf(w, "%s %s\n", scanFileStyle.Render(o.Path), scanDimStyle.Render("("+o.Kind.String()+")"))
	if !o.OK() {
		fmt.Fprintf(w, "  %s %s\n", scanBulletStyle.Render("-"), scanErrorStyle.Render(o.Err.Error()))
		return
	}

	fmt.Fprintf(w, "  %s %s\n", scanBulletStyle.Render("-"), scanValueStyle.Render(o.Destination))
	fmt.Fprintf(w, "  %s %s\n", scanBulletStyle.Render("-"),
		scanValueStyle.Render(fmt.Sprintf("%s -> %s", tui.FormatBytes(o.InputBytes), tui.FormatBytes(o.OutputBytes))))
	if o.MetadataTags > 0 {
		fmt.Fprintf(w, "  %s %s\n", scanBulletStyle.Render("-"),
			scanCategoryStyle.Render(fmt.Sprintf("%d EXIF tags", o.MetadataTags)))
	}

	// Classification goes by extension only; flag content that disagrees.
	if sniffed, err := imgutil.SniffFile(o.Path); err == nil && sniffed != imgutil.KindOther && sniffed != o.Kind {
		fmt.Fprintf(w, "  %s %s\n", scanBulletStyle.Render("-"),
			scanWarnStyle.Render(fmt.Sprintf("content looks like %s", sniffed)))
	}
}

var (
	scanFileStyle     = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccent)
	scanCategoryStyle = lipgloss.NewStyle().Foreground(tui.ColorAccentAlt)
	scanValueStyle    = lipgloss.NewStyle().Foreground(tui.ColorInk)
	scanDimStyle      = lipgloss.NewStyle().Foreground(tui.ColorDim)
	scanBulletStyle   = lipgloss.NewStyle().Foreground(tui.ColorDim)
	scanWarnStyle     = lipgloss.NewStyle().Foreground(tui.ColorWarn)
	scanErrorStyle    = lipgloss.NewStyle().Foreground(tui.ColorError)
)

func init() {
	scanFlags.register(scanCmd)
	rootCmd.AddCommand(scanCmd)
}
