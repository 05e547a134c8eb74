package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/farmwatch/internal/models"
)

type SMSAdapter struct {
	client     *twilio.RestClient
	fromNumber string
}

func NewSMSAdapter(accountSID, authToken, fromNumber string) *SMSAdapter {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &SMSAdapter{client: client, fromNumber: fromNumber}
}

func (s *SMSAdapter) Channel() Channel { return ChannelSMS }

func (s *SMSAdapter) Send(_ context.Context, recipient string, alert *models.Alert) error {
	if !strings.HasPrefix(recipient, "+") {
		return fmt.Errorf("invalid phone number: %s", recipient)
	}

	body := fmt.Sprintf("FarmWatch [%s] %s: %s", strings.ToUpper(string(alert.Severity)), alert.Title, alert.Message)

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(recipient)
	params.SetFrom(s.fromNumber)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS to %s: %w", recipient, err)
	}
	return nil
}
