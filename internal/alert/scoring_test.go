package alert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/farmwatch/internal/models"
)

func TestUrgencyScore_SeverityAndPriority(t *testing.T) {
	now := time.Now()

	fresh := func(severity models.AlertSeverity, priority int) *models.Alert {
		return &models.Alert{
			Severity:  severity,
			Priority:  priority,
			Status:    models.AlertStatusActive,
			CreatedAt: now,
		}
	}

	// info p1 active: 1*10 + 1*5 + 10 = 25
	require.Equal(t, 25, UrgencyScore(fresh(models.SeverityInfo, 1), now))
	// medium p4 active: 4*10 + 4*5 + 10 = 70
	require.Equal(t, 70, UrgencyScore(fresh(models.SeverityMedium, 4), now))
	// high p7 active: 7*10 + 7*5 + 10 = 115, clamped to 100
	require.Equal(t, 100, UrgencyScore(fresh(models.SeverityHigh, 7), now))
	// emergency never exceeds the cap either
	require.Equal(t, 100, UrgencyScore(fresh(models.SeverityEmergency, 10), now))
}

func TestUrgencyScore_AgeBonusTiers(t *testing.T) {
	now := time.Now()

	at := func(age time.Duration) *models.Alert {
		return &models.Alert{
			Severity:  models.SeverityInfo,
			Priority:  1,
			Status:    models.AlertStatusResolved, // no status bonus
			CreatedAt: now.Add(-age),
		}
	}

	base := UrgencyScore(at(0), now)
	require.Equal(t, 15, base)
	require.Equal(t, base, UrgencyScore(at(5*time.Hour), now))
	require.Equal(t, base+5, UrgencyScore(at(7*time.Hour), now))
	require.Equal(t, base+10, UrgencyScore(at(13*time.Hour), now))
	require.Equal(t, base+20, UrgencyScore(at(25*time.Hour), now))
}

func TestUrgencyScore_StatusBonus(t *testing.T) {
	now := time.Now()

	alert := &models.Alert{
		Severity:  models.SeverityLow,
		Priority:  2,
		CreatedAt: now,
	}

	alert.Status = models.AlertStatusActive
	active := UrgencyScore(alert, now)
	alert.Status = models.AlertStatusAcknowledged
	acked := UrgencyScore(alert, now)
	alert.Status = models.AlertStatusResolved
	resolved := UrgencyScore(alert, now)

	require.Equal(t, resolved+10, active)
	require.Equal(t, resolved+5, acked)
}

func TestEstimatedImpact(t *testing.T) {
	require.Equal(t, 9, EstimatedImpact(models.AlertWeatherDrought))
	require.Equal(t, 8, EstimatedImpact(models.AlertWorkerSafetyIncident))
	// unranked types fall back to the default
	require.Equal(t, 5, EstimatedImpact(models.AlertTaskHighWorkload))
}
