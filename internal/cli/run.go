package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fjglira/GoE2E-PageFlow/internal/domain"
	"github.com/fjglira/GoE2E-PageFlow/internal/runner"
	"github.com/fjglira/GoE2E-PageFlow/internal/suite"
)

var errRunFailed = errors.New("one or more scenarios did not pass")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every configured scenario against the browser",
	Long: `Scans feature sources, launches the configured browser engine and runs
each scenario through its page objects. With --dry-run every step is matched
against the step registry but nothing is executed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s, err := suite.New(ctx, cfgFile, suite.WithVerbose(verbose), suite.WithDryRun(dryRun))
		if err != nil {
			return err
		}

		summary, runErr := s.Run(ctx)
		closeErr := s.Close()
		if summary != nil {
			printSummary(summary)
		}
		if err := errors.Join(runErr, closeErr); err != nil {
			return err
		}
		if summary.Failed() {
			return errRunFailed
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

var statusColors = map[string]*color.Color{
	string(domain.StatusPassed):    color.New(color.FgGreen),
	string(domain.StatusFailed):    color.New(color.FgRed, color.Bold),
	string(domain.StatusUndefined): color.New(color.FgYellow),
	string(domain.StatusSkipped):   color.New(color.FgCyan),
}

func printSummary(summary *runner.Summary) {
	for _, r := range summary.Results {
		if r.Status != domain.StatusFailed && r.Status != domain.StatusUndefined {
			continue
		}
		statusColors[string(r.Status)].Printf("%-9s", r.Status)
		fmt.Printf(" %s: %s (%s)\n", r.Feature, r.Scenario, r.File)
		if r.Err != nil {
			color.New(color.Faint).Printf("          %v\n", r.Err)
		}
	}

	counts := summary.Counts()
	statuses := make([]string, 0, len(counts))
	for status := range counts {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)

	fmt.Printf("\n%d scenario(s) in %s:", len(summary.Results), summary.Duration.Round(time.Millisecond))
	for _, status := range statuses {
		c, ok := statusColors[status]
		if !ok {
			c = color.New(color.Reset)
		}
		fmt.Print(" ")
		c.Printf("%d %s", counts[status], status)
	}
	fmt.Println()
	color.New(color.Faint).Printf("run %s\n", summary.RunID)
}
