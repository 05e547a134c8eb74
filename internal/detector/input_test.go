package detector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/farmwatch/internal/gateway"
	"github.com/farmwatch/internal/models"
)

func TestInputDetector_LowStock(t *testing.T) {
	now := time.Now()
	snap := &gateway.Snapshot{
		Inputs: []models.Input{
			{ID: "in-1", Name: "DAP Fertilizer", CurrentStock: 3, MinimumStock: 10, Unit: "bags"},
			{ID: "in-2", Name: "Dairy Feed", CurrentStock: 40, MinimumStock: 15, Unit: "kg"},
		},
	}

	cands := InputDetector{}.Detect(snap, now)
	require.Len(t, cands, 1)
	require.Equal(t, models.AlertInputLowStock, cands[0].Type)
	require.Equal(t, models.SeverityMedium, cands[0].Severity)
	require.Equal(t, []string{"in-1"}, cands[0].RelatedInputs)
	require.Equal(t, 3.0, cands[0].CurrentValue)
	require.Equal(t, 10.0, cands[0].ThresholdValue)
}

func TestInputDetector_StockExactlyAtMinimum(t *testing.T) {
	snap := &gateway.Snapshot{
		Inputs: []models.Input{
			{ID: "in-1", Name: "Seed", CurrentStock: 10, MinimumStock: 10},
		},
	}

	cands := InputDetector{}.Detect(snap, time.Now())
	require.Len(t, cands, 1)
	require.Equal(t, models.AlertInputLowStock, cands[0].Type)
}

func TestInputDetector_Expiry(t *testing.T) {
	now := time.Now()
	expired := now.AddDate(0, 0, -1)
	soon := now.AddDate(0, 0, 10)
	far := now.AddDate(0, 0, 60)

	snap := &gateway.Snapshot{
		Inputs: []models.Input{
			{ID: "in-1", Name: "Pesticide A", CurrentStock: 50, MinimumStock: 5, ExpiryDate: &expired},
			{ID: "in-2", Name: "Pesticide B", CurrentStock: 50, MinimumStock: 5, ExpiryDate: &soon},
			{ID: "in-3", Name: "Pesticide C", CurrentStock: 50, MinimumStock: 5, ExpiryDate: &far},
		},
	}

	byType := candidatesByType(InputDetector{}.Detect(snap, now))
	require.Len(t, byType, 2)

	require.Equal(t, models.SeverityHigh, byType[models.AlertInputExpired].Severity)
	require.Equal(t, []string{"in-1"}, byType[models.AlertInputExpired].RelatedInputs)

	expiring := byType[models.AlertInputExpiringSoon]
	require.Equal(t, []string{"in-2"}, expiring.RelatedInputs)
	require.InDelta(t, 9, expiring.CurrentValue, 1)
}

func TestInputDetector_LowStockAndExpiredSameInput(t *testing.T) {
	now := time.Now()
	expired := now.AddDate(0, 0, -5)
	snap := &gateway.Snapshot{
		Inputs: []models.Input{
			{ID: "in-1", Name: "Feed", CurrentStock: 2, MinimumStock: 10, ExpiryDate: &expired},
		},
	}

	cands := InputDetector{}.Detect(snap, now)
	require.Len(t, cands, 2)
}
