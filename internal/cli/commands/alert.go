package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/farmwatch/internal/alert"
	"github.com/farmwatch/internal/api/client"
)

func NewAlertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "alert",
		Short:   "Alert management commands",
		Aliases: []string{"alerts", "a"},
	}

	cmd.AddCommand(newAlertListCommand())
	cmd.AddCommand(newAlertShowCommand())
	cmd.AddCommand(newAlertAcknowledgeCommand())
	cmd.AddCommand(newAlertResolveCommand())
	cmd.AddCommand(newAlertDismissCommand())
	cmd.AddCommand(newAlertEscalateCommand())
	cmd.AddCommand(newAlertSnoozeCommand())

	return cmd
}

func newAlertListCommand() *cobra.Command {
	var (
		farmID   string
		status   string
		severity string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List alerts for a farm",
		Aliases: []string{"ls"},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewClient()
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			alerts, err := c.ListAlerts(farmID, status, severity)
			if err != nil {
				return fmt.Errorf("failed to list alerts: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tTYPE\tSEVERITY\tPRIORITY\tURGENCY\tSTATUS\tCREATED")

			for _, a := range alerts {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
					a.ID,
					a.Type,
					a.Severity,
					a.Priority,
					a.UrgencyScore,
					a.Status,
					a.CreatedAt.Format(time.RFC3339),
				)
			}

			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&farmID, "farm", "", "Farm ID (required)")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (active/acknowledged/in_progress/resolved/dismissed/expired)")
	cmd.Flags().StringVar(&severity, "severity", "", "Filter by severity (info/low/medium/high/critical/emergency)")
	cmd.MarkFlagRequired("farm")

	return cmd
}

func newAlertShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [alert_id]",
		Short: "Show one alert in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewClient()
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			view, err := c.GetAlert(args[0])
			if err != nil {
				return fmt.Errorf("failed to fetch alert: %w", err)
			}

			fmt.Printf("%s [%s]\n", view.Title, view.Severity)
			fmt.Printf("  %s\n", view.Message)
			fmt.Printf("  status: %s  priority: %d/10  urgency: %d  impact: %d\n",
				view.Status, view.Priority, view.UrgencyScore, view.EstimatedImpact)
			if view.Unit != "" {
				fmt.Printf("  reading: %.2f%s (threshold %s %.2f%s)\n",
					view.CurrentValue, view.Unit, view.Operator, view.ThresholdValue, view.Unit)
			}
			for _, action := range view.RecommendedActions {
				fmt.Printf("  - %s\n", action)
			}
			for _, rec := range view.Notifications {
				fmt.Printf("  notified %s via %s at %s (delivered: %t)\n",
					rec.Recipient, rec.Channel, rec.SentAt.Format(time.RFC3339), rec.Delivered)
			}
			return nil
		},
	}
}

func newAlertAcknowledgeCommand() *cobra.Command {
	var (
		userID string
		notes  string
	)

	cmd := &cobra.Command{
		Use:     "acknowledge [alert_id]",
		Short:   "Acknowledge an alert",
		Aliases: []string{"ack"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewClient()
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			if err := c.AcknowledgeAlert(args[0], userID, notes); err != nil {
				return fmt.Errorf("failed to acknowledge alert: %w", err)
			}

			fmt.Printf("Alert %s acknowledged\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "Acting user ID (required)")
	cmd.Flags().StringVar(&notes, "notes", "", "Acknowledgment notes")
	cmd.MarkFlagRequired("user")
	return cmd
}

func newAlertResolveCommand() *cobra.Command {
	var (
		userID     string
		resolution string
	)

	cmd := &cobra.Command{
		Use:   "resolve [alert_id]",
		Short: "Resolve an alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewClient()
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			input := alert.ResolutionInput{Resolution: resolution}
			if err := c.ResolveAlert(args[0], userID, input); err != nil {
				return fmt.Errorf("failed to resolve alert: %w", err)
			}

			fmt.Printf("Alert %s resolved\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "Acting user ID (required)")
	cmd.Flags().StringVar(&resolution, "resolution", "", "What was done")
	cmd.MarkFlagRequired("user")
	return cmd
}

func newAlertDismissCommand() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "dismiss [alert_id]",
		Short: "Dismiss an alert without resolution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewClient()
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			if err := c.DismissAlert(args[0], userID); err != nil {
				return fmt.Errorf("failed to dismiss alert: %w", err)
			}

			fmt.Printf("Alert %s dismissed\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "Acting user ID (required)")
	cmd.MarkFlagRequired("user")
	return cmd
}

func newAlertEscalateCommand() *cobra.Command {
	var (
		userID string
		to     string
		reason string
	)

	cmd := &cobra.Command{
		Use:   "escalate [alert_id]",
		Short: "Escalate an alert's priority",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewClient()
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			if err := c.EscalateAlert(args[0], userID, to, reason); err != nil {
				return fmt.Errorf("failed to escalate alert: %w", err)
			}

			fmt.Printf("Alert %s escalated to %s\n", args[0], to)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "Acting user ID (required)")
	cmd.Flags().StringVar(&to, "to", "", "Who the alert is escalated to (required)")
	cmd.Flags().StringVar(&reason, "reason", "", "Escalation reason")
	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("to")
	return cmd
}

func newAlertSnoozeCommand() *cobra.Command {
	var minutes int

	cmd := &cobra.Command{
		Use:   "snooze [alert_id]",
		Short: "Push an alert's expiry out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewClient()
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			if err := c.SnoozeAlert(args[0], minutes); err != nil {
				return fmt.Errorf("failed to snooze alert: %w", err)
			}

			fmt.Printf("Alert %s snoozed for %d minutes\n", args[0], minutes)
			return nil
		},
	}

	cmd.Flags().IntVar(&minutes, "minutes", 60, "How long to snooze")
	return cmd
}
