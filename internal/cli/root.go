package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fjglira/GoE2E-PageFlow/internal/config"
	"github.com/fjglira/GoE2E-PageFlow/internal/logging"
)

var (
	cfgFile string
	verbose bool
	dryRun  bool
	log     *logrus.Logger
)

// rootCmd is the base command for pageflow.
var rootCmd = &cobra.Command{
	Use:   "pageflow",
	Short: "Run page-object driven E2E scenarios against a browser",
	Long: `GoE2E-PageFlow runs Gherkin scenarios (.feature files and gherkin
blocks inside Markdown) against a real browser through page objects backed by
JSON/YAML fixtures. It can also scaffold Ginkgo suites that run the same
scenarios under go test.

Everything is driven by a YAML configuration file (pageflow.yaml).`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log, _ = logging.New(config.DefaultConfig().Logging, verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "pageflow.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "match steps or render files without touching the browser or disk")

	// Initialize default logger (overridden in PersistentPreRun)
	log = logrus.New()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
