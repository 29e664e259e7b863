package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "coachctl",
	Short: "Operator tools for the coaching API",
	Long: `coachctl runs the self-training planner locally and prepares a database
for the coaching API.

  $ coachctl assess --age 30 --sex male --height 180 --weight 80 --goal weight_loss
  $ coachctl seed-packages --config ./`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(newAssessCmd())
	rootCmd.AddCommand(newSeedPackagesCmd())
}
