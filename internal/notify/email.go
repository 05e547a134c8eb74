package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/farmwatch/internal/models"
)

type EmailAdapter struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailAdapter(host string, port int, from, password string) *EmailAdapter {
	return &EmailAdapter{
		dialer: gomail.NewDialer(host, port, from, password),
		from:   from,
	}
}

func (e *EmailAdapter) Channel() Channel { return ChannelEmail }

func (e *EmailAdapter) Send(_ context.Context, recipient string, alert *models.Alert) error {
	m := gomail.NewMessage()
	m.SetHeader("From", e.from)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", fmt.Sprintf("FarmWatch %s alert: %s", alert.Severity, alert.Title))

	var body strings.Builder
	fmt.Fprintf(&body, "%s\n\n", alert.Message)
	fmt.Fprintf(&body, "Severity: %s\nPriority: %d/10\nType: %s\n", alert.Severity, alert.Priority, alert.Type)
	if alert.Unit != "" {
		fmt.Fprintf(&body, "Reading: %.2f%s (threshold %s %.2f%s)\n",
			alert.CurrentValue, alert.Unit, alert.Operator, alert.ThresholdValue, alert.Unit)
	}
	if len(alert.RecommendedActions) > 0 {
		body.WriteString("\nRecommended actions:\n")
		for _, action := range alert.RecommendedActions {
			fmt.Fprintf(&body, "  - %s\n", action)
		}
	}
	fmt.Fprintf(&body, "\nRaised at %s\n", alert.CreatedAt.Format(time.RFC3339))

	m.SetBody("text/plain", body.String())

	return e.dialer.DialAndSend(m)
}
