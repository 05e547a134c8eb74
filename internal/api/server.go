package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/farmwatch/internal/alert"
	"github.com/farmwatch/internal/auth"
	"github.com/farmwatch/internal/models"
	"github.com/farmwatch/internal/monitor"
	"github.com/farmwatch/internal/report"
)

const defaultStatsWindow = 7 * 24 * time.Hour

type Server struct {
	db           *gorm.DB
	store        *alert.Store
	lifecycle    *alert.Lifecycle
	orchestrator *monitor.Orchestrator
	reports      *report.Generator
	jwtSecret    []byte
	router       *gin.Engine
}

func NewServer(db *gorm.DB, store *alert.Store, lifecycle *alert.Lifecycle,
	orchestrator *monitor.Orchestrator, reports *report.Generator, jwtSecret []byte) *Server {
	server := &Server{
		db:           db,
		store:        store,
		lifecycle:    lifecycle,
		orchestrator: orchestrator,
		reports:      reports,
		jwtSecret:    jwtSecret,
		router:       gin.Default(),
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	// Public routes
	s.router.POST("/api/v1/auth/login", s.login)

	// Protected routes
	api := s.router.Group("/api/v1")
	api.Use(auth.Middleware(s.jwtSecret, s.db))

	// Dashboard queries
	api.GET("/farms/:farmId/alerts", s.listAlerts)
	api.GET("/farms/:farmId/alerts/stats", s.alertStats)
	api.GET("/farms/:farmId/report", s.farmReport)
	api.GET("/alerts/:id", s.getAlert)

	// Lifecycle commands
	cmd := api.Group("/alerts/:id")
	cmd.Use(auth.RequireRole(models.RoleAdmin, models.RoleUser))
	cmd.PUT("/acknowledge", s.acknowledgeAlert)
	cmd.PUT("/start", s.startAlert)
	cmd.PUT("/resolve", s.resolveAlert)
	cmd.PUT("/escalate", s.escalateAlert)
	cmd.PUT("/dismiss", s.dismissAlert)
	cmd.PUT("/snooze", s.snoozeAlert)

	// Manual sweep trigger
	api.POST("/farms/:farmId/sweep", auth.RequireRole(models.RoleAdmin, models.RoleUser), s.runSweep)
}

func (s *Server) Start(port int) error {
	return s.router.Run(fmt.Sprintf(":%d", port))
}

// Router exposes the engine, used by tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) login(c *gin.Context) {
	var loginReq struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&loginReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := s.db.Where("username = ?", loginReq.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if !user.CheckPassword(loginReq.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(s.jwtSecret, &user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// alertView wraps a persisted alert with its derived metrics.
type alertView struct {
	models.Alert
	UrgencyScore    int     `json:"urgency_score"`
	EstimatedImpact int     `json:"estimated_impact"`
	AgeMinutes      float64 `json:"age_minutes"`
}

func newAlertView(a models.Alert, now time.Time) alertView {
	return alertView{
		Alert:           a,
		UrgencyScore:    alert.UrgencyScore(&a, now),
		EstimatedImpact: alert.EstimatedImpact(a.Type),
		AgeMinutes:      a.TimeSinceCreation(now),
	}
}

func (s *Server) listAlerts(c *gin.Context) {
	filter := alert.ListFilter{
		FarmID:   c.Param("farmId"),
		Status:   models.AlertStatus(c.Query("status")),
		Severity: models.AlertSeverity(c.Query("severity")),
		Type:     models.AlertType(c.Query("type")),
	}
	if start := c.Query("start"); start != "" {
		if t, err := time.Parse(time.RFC3339, start); err == nil {
			filter.Since = t
		}
	}
	if end := c.Query("end"); end != "" {
		if t, err := time.Parse(time.RFC3339, end); err == nil {
			filter.Until = t
		}
	}
	if limit := c.Query("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil {
			filter.Limit = l
		}
	}

	alerts, err := s.store.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch alerts"})
		return
	}

	now := time.Now()
	views := make([]alertView, len(alerts))
	for i, a := range alerts {
		views[i] = newAlertView(a, now)
	}
	c.JSON(http.StatusOK, views)
}

func (s *Server) getAlert(c *gin.Context) {
	found, err := s.store.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAlertView(*found, time.Now()))
}

func (s *Server) alertStats(c *gin.Context) {
	window := defaultStatsWindow
	if w := c.Query("window"); w != "" {
		if parsed, err := time.ParseDuration(w); err == nil && parsed > 0 {
			window = parsed
		}
	}

	stats, err := s.store.Stats(c.Request.Context(), c.Param("farmId"), window, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) farmReport(c *gin.Context) {
	window := defaultStatsWindow
	if w := c.Query("window"); w != "" {
		if parsed, err := time.ParseDuration(w); err == nil && parsed > 0 {
			window = parsed
		}
	}

	text, err := s.reports.Render(c.Request.Context(), c.Param("farmId"), window)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate report"})
		return
	}
	c.String(http.StatusOK, text)
}

func (s *Server) acknowledgeAlert(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
		Notes  string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := s.lifecycle.Acknowledge(c.Request.Context(), c.Param("id"), req.UserID, req.Notes)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) startAlert(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := s.lifecycle.Start(c.Request.Context(), c.Param("id"), req.UserID)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) resolveAlert(c *gin.Context) {
	var req struct {
		UserID     string                `json:"user_id" binding:"required"`
		Resolution alert.ResolutionInput `json:"resolution"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := s.lifecycle.Resolve(c.Request.Context(), c.Param("id"), req.UserID, req.Resolution)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) escalateAlert(c *gin.Context) {
	var req struct {
		UserID      string `json:"user_id" binding:"required"`
		EscalatedTo string `json:"escalated_to" binding:"required"`
		Reason      string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := s.lifecycle.Escalate(c.Request.Context(), c.Param("id"), req.UserID, req.EscalatedTo, req.Reason)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) dismissAlert(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := s.lifecycle.Dismiss(c.Request.Context(), c.Param("id"), req.UserID)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) snoozeAlert(c *gin.Context) {
	var req struct {
		Minutes int `json:"minutes" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := s.lifecycle.Snooze(c.Request.Context(), c.Param("id"), req.Minutes)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) runSweep(c *gin.Context) {
	created, err := s.orchestrator.RunSweep(c.Request.Context(), c.Param("farmId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": created, "count": len(created)})
}

func (s *Server) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, alert.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, alert.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, alert.ErrStaleState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
