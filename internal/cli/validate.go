package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fjglira/GoE2E-PageFlow/internal/suite"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate pageflow.yaml and check that every step is defined",
	Long: `Loads the configuration file and checks for errors, missing required fields, and invalid values.
Then parses every feature source and reports steps that no definition matches.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := suite.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		log.Debugf("Loaded config: %+v", cfg)
		cfg.Report.Enabled = false

		s, err := suite.NewFromConfig(cmd.Context(), cfg, suite.WithDryRun(true), suite.WithLogger(log))
		if err != nil {
			return err
		}
		defer s.Close()

		features, err := s.Runner.Load()
		if err != nil {
			return err
		}
		if err := s.Runner.Check(features); err != nil {
			return fmt.Errorf("undefined steps:\n%w", err)
		}

		fmt.Printf("Configuration file %q is valid; %d feature(s) checked.\n", cfgFile, len(features))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
