package alert

import (
	"context"
	"time"

	"github.com/farmwatch/internal/models"
)

// DashboardStats is the read-only aggregate view for a farm over a
// trailing window.
type DashboardStats struct {
	FarmID         string           `json:"farm_id"`
	WindowStart    time.Time        `json:"window_start"`
	WindowEnd      time.Time        `json:"window_end"`
	ActiveCount    int64            `json:"active_count"`
	CriticalCount  int64            `json:"critical_count"`
	TotalInWindow  int64            `json:"total_in_window"`
	ResolvedCount  int64            `json:"resolved_count"`
	ResolutionRate float64          `json:"resolution_rate"`
	BySeverity     map[string]int64 `json:"by_severity"`
	ByType         map[string]int64 `json:"by_type"`
	ByStatus       map[string]int64 `json:"by_status"`
}

// Stats computes the dashboard aggregates for a farm. Counts in the
// window come from grouped store queries; the rate is folded here.
func (s *Store) Stats(ctx context.Context, farmID string, window time.Duration, now time.Time) (*DashboardStats, error) {
	since := now.Add(-window)

	byStatus, err := s.CountsByColumn(ctx, farmID, "status", since)
	if err != nil {
		return nil, err
	}
	bySeverity, err := s.CountsByColumn(ctx, farmID, "severity", since)
	if err != nil {
		return nil, err
	}
	byType, err := s.CountsByColumn(ctx, farmID, "type", since)
	if err != nil {
		return nil, err
	}

	// Open counts are point-in-time, not windowed.
	openByStatus, err := s.CountsByColumn(ctx, farmID, "status", time.Time{})
	if err != nil {
		return nil, err
	}
	openBySeverity := map[string]int64{}
	openAlerts, err := s.List(ctx, ListFilter{FarmID: farmID, Status: models.AlertStatusActive})
	if err != nil {
		return nil, err
	}
	for _, a := range openAlerts {
		openBySeverity[string(a.Severity)]++
	}

	stats := &DashboardStats{
		FarmID:      farmID,
		WindowStart: since,
		WindowEnd:   now,
		ActiveCount: openByStatus[string(models.AlertStatusActive)] +
			openByStatus[string(models.AlertStatusAcknowledged)] +
			openByStatus[string(models.AlertStatusInProgress)],
		CriticalCount: openBySeverity[string(models.SeverityCritical)] +
			openBySeverity[string(models.SeverityEmergency)],
		BySeverity: bySeverity,
		ByType:     byType,
		ByStatus:   byStatus,
	}

	for _, count := range byStatus {
		stats.TotalInWindow += count
	}
	stats.ResolvedCount = byStatus[string(models.AlertStatusResolved)]
	if stats.TotalInWindow > 0 {
		stats.ResolutionRate = float64(stats.ResolvedCount) / float64(stats.TotalInWindow)
	}

	return stats, nil
}
