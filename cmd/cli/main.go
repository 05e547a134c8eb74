package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/farmwatch/internal/cli/commands"
)

var rootCmd = &cobra.Command{
	Use:   "farmwatch",
	Short: "FarmWatch CLI - farm alert monitoring",
	Long: `FarmWatch CLI is a command-line tool for working with the FarmWatch
alert engine. It lists and manages alerts, prints farm statistics and
reports, and triggers monitoring sweeps on demand.`,
}

func init() {
	rootCmd.AddCommand(commands.NewAlertCommand())
	rootCmd.AddCommand(commands.NewStatsCommand())
	rootCmd.AddCommand(commands.NewReportCommand())
	rootCmd.AddCommand(commands.NewSweepCommand())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
