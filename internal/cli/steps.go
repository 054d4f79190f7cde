package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fjglira/GoE2E-PageFlow/internal/steps"
)

var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "List the step patterns scenarios can use",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, p := range steps.NewDefaultRegistry().Patterns() {
			fmt.Println(p)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stepsCmd)
}
