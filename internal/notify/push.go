package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/slack-go/slack"

	"github.com/farmwatch/internal/models"
)

// PushAdapter delivers push notifications as Slack messages, either to
// the user's Slack ID or to the configured fallback channel.
type PushAdapter struct {
	client          *slack.Client
	fallbackChannel string
}

func NewPushAdapter(token, fallbackChannel string) *PushAdapter {
	return &PushAdapter{
		client:          slack.New(token),
		fallbackChannel: fallbackChannel,
	}
}

func (p *PushAdapter) Channel() Channel { return ChannelPush }

func (p *PushAdapter) Send(ctx context.Context, recipient string, alert *models.Alert) error {
	target := recipient
	if target == "" {
		target = p.fallbackChannel
	}
	if target == "" {
		return fmt.Errorf("no push target for alert %s", alert.ID)
	}

	attachment := slack.Attachment{
		Color: severityColor(alert.Severity),
		Title: alert.Title,
		Text:  alert.Message,
		Fields: []slack.AttachmentField{
			{Title: "Severity", Value: string(alert.Severity), Short: true},
			{Title: "Priority", Value: fmt.Sprintf("%d/10", alert.Priority), Short: true},
			{Title: "Type", Value: string(alert.Type), Short: true},
			{Title: "Farm", Value: alert.FarmID, Short: true},
		},
		Footer: "FarmWatch Alerts",
		Ts:     json.Number(strconv.FormatInt(time.Now().Unix(), 10)),
	}

	_, _, err := p.client.PostMessageContext(ctx, target, slack.MsgOptionAttachments(attachment))
	return err
}

func severityColor(severity models.AlertSeverity) string {
	switch severity {
	case models.SeverityEmergency, models.SeverityCritical:
		return "#FF0000"
	case models.SeverityHigh:
		return "#FFA500"
	case models.SeverityMedium:
		return "#FFCC00"
	case models.SeverityLow:
		return "#36A64F"
	default:
		return "#808080"
	}
}
