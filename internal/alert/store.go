package alert

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/farmwatch/internal/models"
)

// Store is the GORM-backed alert repository. Lifecycle writes go
// through UpdateChecked so the version compare-and-swap is never
// bypassed.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, alert *models.Alert) error {
	if err := s.db.WithContext(ctx).Create(alert).Error; err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*models.Alert, error) {
	var alert models.Alert
	err := s.db.WithContext(ctx).Preload("Notifications").First(&alert, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load alert %s: %w", id, err)
	}
	return &alert, nil
}

// FindOpen returns alerts for the farm and type whose status still
// counts toward the active-alert uniqueness invariant.
func (s *Store) FindOpen(ctx context.Context, farmID string, alertType models.AlertType) ([]models.Alert, error) {
	var alerts []models.Alert
	err := s.db.WithContext(ctx).
		Where("farm_id = ? AND type = ? AND status IN ?", farmID, alertType, openStatuses()).
		Find(&alerts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query open alerts: %w", err)
	}
	return alerts, nil
}

// UpdateChecked persists the alert only if its stored version still
// matches the in-memory one, then bumps the version. A row that was
// modified underneath the caller yields ErrStaleState.
func (s *Store) UpdateChecked(ctx context.Context, alert *models.Alert) error {
	prev := alert.Version
	alert.Version = prev + 1

	res := s.db.WithContext(ctx).Model(&models.Alert{}).
		Where("id = ? AND version = ?", alert.ID, prev).
		Select("*").
		Omit("id", "created_at", "Notifications").
		Updates(alert)
	if res.Error != nil {
		alert.Version = prev
		return fmt.Errorf("failed to update alert %s: %w", alert.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		alert.Version = prev
		return ErrStaleState
	}
	return nil
}

// AppendNotification adds an entry to the append-only delivery log.
func (s *Store) AppendNotification(ctx context.Context, rec *models.NotificationRecord) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to append notification record: %w", err)
	}
	return nil
}

// ListFilter narrows List results. Zero values mean "no constraint".
type ListFilter struct {
	FarmID   string
	Status   models.AlertStatus
	Severity models.AlertSeverity
	Type     models.AlertType
	Since    time.Time
	Until    time.Time
	Limit    int
}

func (s *Store) List(ctx context.Context, filter ListFilter) ([]models.Alert, error) {
	query := s.db.WithContext(ctx).Model(&models.Alert{})
	if filter.FarmID != "" {
		query = query.Where("farm_id = ?", filter.FarmID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Severity != "" {
		query = query.Where("severity = ?", filter.Severity)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if !filter.Since.IsZero() {
		query = query.Where("created_at >= ?", filter.Since)
	}
	if !filter.Until.IsZero() {
		query = query.Where("created_at <= ?", filter.Until)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var alerts []models.Alert
	if err := query.Order("created_at desc").Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, nil
}

// ExpireDue transitions every alert whose expiry has passed and whose
// status is still active or acknowledged. In-progress and terminal
// alerts are never touched, so rerunning is a no-op.
func (s *Store) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Alert{}).
		Where("expires_at IS NOT NULL AND expires_at < ? AND status IN ?",
			now, []models.AlertStatus{models.AlertStatusActive, models.AlertStatusAcknowledged}).
		Updates(map[string]interface{}{
			"status":    models.AlertStatusExpired,
			"is_active": false,
			"version":   gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to expire alerts: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// DueRecurrences returns resolved recurring alerts whose next
// occurrence has arrived.
func (s *Store) DueRecurrences(ctx context.Context, now time.Time) ([]models.Alert, error) {
	var alerts []models.Alert
	err := s.db.WithContext(ctx).
		Where("is_recurring = ? AND status = ? AND next_occurrence IS NOT NULL AND next_occurrence <= ?",
			true, models.AlertStatusResolved, now).
		Find(&alerts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query due recurrences: %w", err)
	}
	return alerts, nil
}

// CountsByColumn returns alert counts for a farm grouped by the given
// column (status, severity or type) since the cutoff.
func (s *Store) CountsByColumn(ctx context.Context, farmID, column string, since time.Time) (map[string]int64, error) {
	switch column {
	case "status", "severity", "type":
	default:
		return nil, fmt.Errorf("unsupported group column: %s", column)
	}

	var rows []struct {
		Key   string
		Count int64
	}
	query := s.db.WithContext(ctx).Model(&models.Alert{}).
		Select(column+" as key, count(*) as count").
		Where("farm_id = ?", farmID).
		Group(column)
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count alerts by %s: %w", column, err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Key] = row.Count
	}
	return counts, nil
}

func openStatuses() []models.AlertStatus {
	return []models.AlertStatus{
		models.AlertStatusActive,
		models.AlertStatusAcknowledged,
		models.AlertStatusInProgress,
	}
}
