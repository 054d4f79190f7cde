package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fjglira/GoE2E-PageFlow/internal/config"
	"github.com/fjglira/GoE2E-PageFlow/internal/converter"
	"github.com/fjglira/GoE2E-PageFlow/internal/generator"
	"github.com/fjglira/GoE2E-PageFlow/internal/logging"
	"github.com/fjglira/GoE2E-PageFlow/internal/parser"
	"github.com/fjglira/GoE2E-PageFlow/internal/scanner"
	"github.com/fjglira/GoE2E-PageFlow/internal/suite"
	tmpl "github.com/fjglira/GoE2E-PageFlow/internal/template"
)

var scaffoldCmd = &cobra.Command{
	Use:   "scaffold",
	Short: "Generate Ginkgo suites that run the configured scenarios",
	Long: `Scans feature sources and writes one Ginkgo test file per feature, plus a
suite bootstrap, into scaffold.output_dir. Each generated It block runs one
scenario by name through the same runner as "pageflow run".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := suite.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if dryRun {
			cfg.DryRun = true
		}

		var closeLog func() error
		log, closeLog = logging.New(cfg.Logging, verbose)
		defer closeLog()

		log.Info("Configuration loaded successfully")
		log.WithField("directories", cfg.Features.Directories).Info("Scanning directories")
		log.WithField("path", cfg.Scaffold.OutputDir).Info("Output directory")

		written, err := runScaffold(cfg)
		if err != nil {
			return err
		}
		for _, p := range written {
			fmt.Println(p)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scaffoldCmd)
}

// runScaffold wires all components and runs the generator.
func runScaffold(cfg *config.Config) ([]string, error) {
	recursive := true
	if cfg.Features.Recursive != nil {
		recursive = *cfg.Features.Recursive
	}
	s := scanner.NewScanner(recursive)

	engine, err := tmpl.NewEngine(cfg.Scaffold.TemplateDir, cfg.Scaffold.Template)
	if err != nil {
		return nil, fmt.Errorf("failed to create template engine: %w", err)
	}

	gen := generator.NewGenerator(s, parser.NewDefaultRegistry(), converter.NewConverter(), engine, log)
	return gen.Generate(cfg, cfgFile)
}
