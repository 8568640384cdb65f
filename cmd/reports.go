package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/tech-interviewer/internal/report"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List saved interview reports, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return listReports(cmd, viper.GetString("reports-dir"))
	},
}

var showLatest bool

func init() {
	rootCmd.AddCommand(reportsCmd)

	reportsCmd.Flags().BoolVar(&showLatest, "latest", false, "print the newest report and its session summary instead of the list")
}

func listReports(cmd *cobra.Command, dir string) error {
	entries, err := report.List(dir)
	if err != nil {
		return fmt.Errorf("listing reports in %q: %w", dir, err)
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintf(out, "no reports in %s\n", dir)
		return nil
	}

	if showLatest {
		data, err := os.ReadFile(entries[0].Path)
		if err != nil {
			return err
		}
		if _, err := out.Write(data); err != nil {
			return err
		}
		return printSessionSummary(out, report.SessionPath(entries[0].Path))
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SAVED\tSIZE\tFILE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%d\t%s\n", e.ModTime.Format("2006-01-02 15:04:05"), e.Size, e.Path)
	}
	return w.Flush()
}

// printSessionSummary adds the score line from the session exported with
// --save-session. Reports saved without it have nothing to add.
func printSessionSummary(out io.Writer, path string) error {
	s, err := report.LoadSession(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nSession %s: %d/%d correct (%s%%), %d candidate question(s)\n",
		s.ID, s.CorrectCount, s.QuestionCount, report.FormatRate(s.SuccessRate()), len(s.CandidateQuestions))
	return nil
}
