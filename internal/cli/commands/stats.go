package commands

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/farmwatch/internal/api/client"
)

func NewStatsCommand() *cobra.Command {
	var window string

	cmd := &cobra.Command{
		Use:   "stats [farm_id]",
		Short: "Show alert statistics for a farm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewClient()
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			stats, err := c.GetStats(args[0], window)
			if err != nil {
				return fmt.Errorf("failed to fetch stats: %w", err)
			}

			fmt.Printf("Farm %s (%s to %s)\n", stats.FarmID,
				stats.WindowStart.Format("2006-01-02"), stats.WindowEnd.Format("2006-01-02"))
			fmt.Printf("  open alerts:      %d\n", stats.ActiveCount)
			fmt.Printf("  critical open:    %d\n", stats.CriticalCount)
			fmt.Printf("  raised in window: %d\n", stats.TotalInWindow)
			fmt.Printf("  resolution rate:  %.0f%%\n", stats.ResolutionRate*100)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "\nTYPE\tCOUNT")
			types := make([]string, 0, len(stats.ByType))
			for alertType := range stats.ByType {
				types = append(types, alertType)
			}
			sort.Strings(types)
			for _, alertType := range types {
				fmt.Fprintf(w, "%s\t%d\n", alertType, stats.ByType[alertType])
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&window, "window", "", "Trailing window, e.g. 168h")
	return cmd
}

func NewReportCommand() *cobra.Command {
	var window string

	cmd := &cobra.Command{
		Use:   "report [farm_id]",
		Short: "Print the alert summary report for a farm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewClient()
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			text, err := c.GetReport(args[0], window)
			if err != nil {
				return fmt.Errorf("failed to fetch report: %w", err)
			}

			fmt.Print(text)
			return nil
		},
	}

	cmd.Flags().StringVar(&window, "window", "", "Trailing window, e.g. 168h")
	return cmd
}
