package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/farmwatch/internal/alert"
	"github.com/farmwatch/internal/database"
	"github.com/farmwatch/internal/gateway"
	"github.com/farmwatch/internal/models"
	"github.com/farmwatch/internal/monitor"
	"github.com/farmwatch/internal/notify"
	"github.com/farmwatch/internal/report"
)

type emptyFarmData struct{}

func (emptyFarmData) Snapshot(ctx context.Context, farmID string) (*gateway.Snapshot, error) {
	return &gateway.Snapshot{Farm: models.Farm{ID: farmID, OwnerID: "owner-1"}}, nil
}

func (emptyFarmData) ListFarmIDs(ctx context.Context) ([]string, error) {
	return nil, nil
}

type testEnv struct {
	server *Server
	store  *alert.Store
	db     *gorm.DB
	token  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)

	store := alert.NewStore(db)
	logger, _ := zap.NewDevelopment()
	lifecycle := alert.NewLifecycle(store, logger)
	dispatcher := notify.NewDispatcher(notify.NewUserDirectory(db), store, logger)
	orchestrator := monitor.NewOrchestrator(emptyFarmData{}, alert.NewAdmitter(store, logger), dispatcher, logger)
	reports, err := report.NewGenerator(store)
	require.NoError(t, err)

	secret := []byte("test-secret")
	server := NewServer(db, store, lifecycle, orchestrator, reports, secret)

	user := &models.User{
		Username: "operator-" + uuid.NewString(),
		Role:     models.RoleUser,
		Email:    uuid.NewString() + "@example.com",
		IsActive: true,
	}
	require.NoError(t, user.SetPassword("secret123"))
	require.NoError(t, db.Create(user).Error)

	env := &testEnv{server: server, store: store, db: db}
	env.token = env.login(t, user.Username, "secret123")
	return env
}

func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	e.server.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (e *testEnv) do(t *testing.T, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.token)
	e.server.Router().ServeHTTP(w, req)
	return w
}

func (e *testEnv) seedAlert(t *testing.T, farmID string) *models.Alert {
	t.Helper()
	a := &models.Alert{
		ID:        uuid.NewString(),
		FarmID:    farmID,
		UserID:    "owner-1",
		Type:      models.AlertInputLowStock,
		Severity:  models.SeverityMedium,
		Priority:  6,
		Title:     "Low stock: DAP Fertilizer",
		Status:    models.AlertStatusActive,
		IsActive:  true,
		Version:   1,
		CreatedAt: time.Now(),
	}
	require.NoError(t, e.store.Create(context.Background(), a))
	return a
}

func TestServer_LoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)

	body, _ := json.Marshal(map[string]string{"username": "nobody", "password": "wrong"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	env.server.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestServer_ProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/farms/f-1/alerts", nil)
	env.server.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestServer_ListAlertsWithDerivedFields(t *testing.T) {
	env := newTestEnv(t)
	farmID := uuid.NewString()
	seeded := env.seedAlert(t, farmID)

	w := env.do(t, http.MethodGet, "/api/v1/farms/"+farmID+"/alerts", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var views []struct {
		ID           string `json:"id"`
		UrgencyScore int    `json:"urgency_score"`
		Impact       int    `json:"estimated_impact"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Len(t, views, 1)
	require.Equal(t, seeded.ID, views[0].ID)
	// medium p6 active and fresh: 40 + 30 + 10
	require.Equal(t, 80, views[0].UrgencyScore)
	require.Equal(t, 5, views[0].Impact)
}

func TestServer_ListAlertsStatusFilter(t *testing.T) {
	env := newTestEnv(t)
	farmID := uuid.NewString()
	env.seedAlert(t, farmID)

	w := env.do(t, http.MethodGet, "/api/v1/farms/"+farmID+"/alerts?status=resolved", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var views []json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Empty(t, views)
}

func TestServer_LifecycleFlow(t *testing.T) {
	env := newTestEnv(t)
	farmID := uuid.NewString()
	seeded := env.seedAlert(t, farmID)
	base := "/api/v1/alerts/" + seeded.ID

	w := env.do(t, http.MethodPut, base+"/acknowledge", map[string]string{"user_id": "user-2", "notes": "checking"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodPut, base+"/start", map[string]string{"user_id": "user-2"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodPut, base+"/resolve", map[string]interface{}{
		"user_id":    "user-2",
		"resolution": map[string]interface{}{"resolution": "restocked", "cost": 80.0},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	final, err := env.store.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	require.Equal(t, models.AlertStatusResolved, final.Status)
	require.Equal(t, "restocked", final.Resolution)
}

func TestServer_InvalidTransitionIs422(t *testing.T) {
	env := newTestEnv(t)
	farmID := uuid.NewString()
	seeded := env.seedAlert(t, farmID)

	// start is only legal from acknowledged
	w := env.do(t, http.MethodPut, "/api/v1/alerts/"+seeded.ID+"/start", map[string]string{"user_id": "user-2"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestServer_UnknownAlertIs404(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/alerts/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_StatsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	farmID := uuid.NewString()
	env.seedAlert(t, farmID)

	w := env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/farms/%s/alerts/stats?window=48h", farmID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stats alert.DashboardStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	require.Equal(t, farmID, stats.FarmID)
	require.Equal(t, int64(1), stats.TotalInWindow)
	require.Equal(t, int64(1), stats.ActiveCount)
}

func TestServer_ReportEndpoint(t *testing.T) {
	env := newTestEnv(t)
	farmID := uuid.NewString()
	env.seedAlert(t, farmID)

	w := env.do(t, http.MethodGet, "/api/v1/farms/"+farmID+"/report", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), farmID)
	require.Contains(t, w.Body.String(), "Low stock: DAP Fertilizer")
}

func TestServer_SweepEndpoint(t *testing.T) {
	env := newTestEnv(t)
	farmID := uuid.NewString()

	w := env.do(t, http.MethodPost, "/api/v1/farms/"+farmID+"/sweep", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Zero(t, resp.Count)
}
