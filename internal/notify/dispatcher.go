package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/farmwatch/internal/models"
)

// AuditLog is where the dispatcher records every delivery attempt,
// failed ones included.
type AuditLog interface {
	AppendNotification(ctx context.Context, rec *models.NotificationRecord) error
}

// UserDirectory resolves the alert's owning user for recipient
// addresses and channel preferences.
type UserDirectory interface {
	UserByID(ctx context.Context, id string) (*models.User, error)
}

type gormUserDirectory struct {
	db *gorm.DB
}

func NewUserDirectory(db *gorm.DB) UserDirectory {
	return &gormUserDirectory{db: db}
}

func (d *gormUserDirectory) UserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := d.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s not found", id)
		}
		return nil, fmt.Errorf("failed to load user %s: %w", id, err)
	}
	return &user, nil
}

const (
	maxSendAttempts = 3
	retryDelay      = 2 * time.Second
)

// Dispatcher fans an alert out to the severity's channel set, honoring
// per-user opt-outs. One audit entry is written per surviving channel
// with the final delivery result; delivery failure is never fatal to
// the caller.
type Dispatcher struct {
	adapters map[Channel]ChannelAdapter
	users    UserDirectory
	audit    AuditLog
	logger   *zap.Logger
	now      func() time.Time
	sleep    func(time.Duration)
}

func NewDispatcher(users UserDirectory, audit AuditLog, logger *zap.Logger, adapters ...ChannelAdapter) *Dispatcher {
	byChannel := make(map[Channel]ChannelAdapter, len(adapters))
	for _, adapter := range adapters {
		byChannel[adapter.Channel()] = adapter
	}
	return &Dispatcher{
		adapters: byChannel,
		users:    users,
		audit:    audit,
		logger:   logger,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// Dispatch sends the alert over every channel its severity maps to,
// minus the user's opt-outs, and returns the audit entries written.
func (d *Dispatcher) Dispatch(ctx context.Context, alert *models.Alert) []models.NotificationRecord {
	user, err := d.users.UserByID(ctx, alert.UserID)
	if err != nil {
		d.logger.Warn("cannot dispatch alert, user lookup failed",
			zap.String("alert_id", alert.ID), zap.Error(err))
		return nil
	}

	prefs := user.ChannelPreferences()
	var records []models.NotificationRecord

	for _, channel := range ChannelsForSeverity(alert.Severity) {
		if !prefs[string(channel)] {
			d.logger.Debug("channel filtered by user preference",
				zap.String("alert_id", alert.ID), zap.String("channel", string(channel)))
			continue
		}

		adapter, ok := d.adapters[channel]
		if !ok {
			d.logger.Warn("no adapter configured for channel",
				zap.String("channel", string(channel)))
			continue
		}

		recipient := Recipient(user, channel)
		sendErr := d.sendWithRetry(ctx, adapter, recipient, alert)

		rec := models.NotificationRecord{
			AlertID:   alert.ID,
			Channel:   string(channel),
			Recipient: recipient,
			SentAt:    d.now(),
			Delivered: sendErr == nil,
		}
		if sendErr != nil {
			rec.Error = sendErr.Error()
			d.logger.Warn("notification delivery failed",
				zap.String("alert_id", alert.ID),
				zap.String("channel", string(channel)),
				zap.Error(sendErr))
		}

		if err := d.audit.AppendNotification(ctx, &rec); err != nil {
			d.logger.Error("failed to record notification audit entry",
				zap.String("alert_id", alert.ID), zap.Error(err))
		}
		records = append(records, rec)
	}

	return records
}

func (d *Dispatcher) sendWithRetry(ctx context.Context, adapter ChannelAdapter, recipient string, alert *models.Alert) error {
	var lastErr error
	for attempt := 1; attempt <= maxSendAttempts; attempt++ {
		if err := adapter.Send(ctx, recipient, alert); err != nil {
			lastErr = err
			if attempt < maxSendAttempts {
				d.sleep(time.Duration(attempt) * retryDelay)
			}
			continue
		}
		return nil
	}
	return fmt.Errorf("failed after %d attempts: %w", maxSendAttempts, lastErr)
}
