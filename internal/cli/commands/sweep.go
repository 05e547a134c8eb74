package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/farmwatch/internal/api/client"
)

func NewSweepCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep [farm_id]",
		Short: "Run a monitoring sweep for a farm now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewClient()
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			created, err := c.RunSweep(args[0])
			if err != nil {
				return fmt.Errorf("failed to run sweep: %w", err)
			}

			fmt.Printf("Sweep complete: %d new alert(s)\n", created)
			return nil
		},
	}
}
