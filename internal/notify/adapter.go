package notify

import (
	"context"

	"github.com/farmwatch/internal/models"
)

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelPush  Channel = "push"
)

// ChannelAdapter delivers one alert to one recipient over one channel.
// A nil error means delivered; the dispatcher records either outcome in
// the audit log.
type ChannelAdapter interface {
	Channel() Channel
	Send(ctx context.Context, recipient string, alert *models.Alert) error
}

// ChannelsForSeverity maps severity to the channel fan-out set.
func ChannelsForSeverity(severity models.AlertSeverity) []Channel {
	switch severity {
	case models.SeverityInfo, models.SeverityLow:
		return []Channel{ChannelPush}
	case models.SeverityMedium:
		return []Channel{ChannelPush, ChannelEmail}
	default:
		return []Channel{ChannelPush, ChannelEmail, ChannelSMS}
	}
}

// Recipient returns the user's address for the channel, empty when the
// user has none on file.
func Recipient(user *models.User, channel Channel) string {
	switch channel {
	case ChannelEmail:
		return user.Email
	case ChannelSMS:
		return user.Phone
	case ChannelPush:
		return user.SlackID
	default:
		return ""
	}
}
