package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"time"

	"github.com/farmwatch/internal/alert"
	"github.com/farmwatch/internal/models"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient() (*Client, error) {
	baseURL := os.Getenv("FARMWATCH_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	token := os.Getenv("FARMWATCH_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("FARMWATCH_TOKEN environment variable is not set")
	}

	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// AlertView mirrors the server's alert payload with derived metrics.
type AlertView struct {
	models.Alert
	UrgencyScore    int     `json:"urgency_score"`
	EstimatedImpact int     `json:"estimated_impact"`
	AgeMinutes      float64 `json:"age_minutes"`
}

func (c *Client) ListAlerts(farmID, status, severity string) ([]AlertView, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	if severity != "" {
		query.Set("severity", severity)
	}

	var alerts []AlertView
	endpoint := fmt.Sprintf("/api/v1/farms/%s/alerts?%s", farmID, query.Encode())
	if err := c.get(endpoint, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

func (c *Client) GetAlert(alertID string) (*AlertView, error) {
	var view AlertView
	if err := c.get(fmt.Sprintf("/api/v1/alerts/%s", alertID), &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) AcknowledgeAlert(alertID, userID, notes string) error {
	body := map[string]string{"user_id": userID, "notes": notes}
	return c.put(fmt.Sprintf("/api/v1/alerts/%s/acknowledge", alertID), body, nil)
}

func (c *Client) ResolveAlert(alertID, userID string, resolution alert.ResolutionInput) error {
	body := map[string]interface{}{"user_id": userID, "resolution": resolution}
	return c.put(fmt.Sprintf("/api/v1/alerts/%s/resolve", alertID), body, nil)
}

func (c *Client) DismissAlert(alertID, userID string) error {
	body := map[string]string{"user_id": userID}
	return c.put(fmt.Sprintf("/api/v1/alerts/%s/dismiss", alertID), body, nil)
}

func (c *Client) EscalateAlert(alertID, userID, escalatedTo, reason string) error {
	body := map[string]string{"user_id": userID, "escalated_to": escalatedTo, "reason": reason}
	return c.put(fmt.Sprintf("/api/v1/alerts/%s/escalate", alertID), body, nil)
}

func (c *Client) SnoozeAlert(alertID string, minutes int) error {
	body := map[string]int{"minutes": minutes}
	return c.put(fmt.Sprintf("/api/v1/alerts/%s/snooze", alertID), body, nil)
}

func (c *Client) RunSweep(farmID string) (int, error) {
	var result struct {
		Count int `json:"count"`
	}
	if err := c.post(fmt.Sprintf("/api/v1/farms/%s/sweep", farmID), nil, &result); err != nil {
		return 0, err
	}
	return result.Count, nil
}

func (c *Client) GetStats(farmID, window string) (*alert.DashboardStats, error) {
	query := url.Values{}
	if window != "" {
		query.Set("window", window)
	}

	var stats alert.DashboardStats
	endpoint := fmt.Sprintf("/api/v1/farms/%s/alerts/stats?%s", farmID, query.Encode())
	if err := c.get(endpoint, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) GetReport(farmID, window string) (string, error) {
	query := url.Values{}
	if window != "" {
		query.Set("window", window)
	}

	resp, err := c.doRequest(http.MethodGet, fmt.Sprintf("/api/v1/farms/%s/report?%s", farmID, query.Encode()), nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read report: %w", err)
	}
	return string(text), nil
}

func (c *Client) get(endpoint string, v interface{}) error {
	resp, err := c.doRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(v)
}

func (c *Client) post(endpoint string, data, v interface{}) error {
	return c.send(http.MethodPost, endpoint, data, v)
}

func (c *Client) put(endpoint string, data, v interface{}) error {
	return c.send(http.MethodPut, endpoint, data, v)
}

func (c *Client) send(method, endpoint string, data, v interface{}) error {
	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	resp, err := c.doRequest(method, endpoint, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if v != nil {
		return json.NewDecoder(resp.Body).Decode(v)
	}
	return nil
}

func (c *Client) doRequest(method, endpoint string, body io.Reader) (*http.Response, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}
	u.Path = path.Join(u.Path, parsed.Path)
	u.RawQuery = parsed.RawQuery

	req, err := http.NewRequest(method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		var errResp struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
			return nil, fmt.Errorf("API error: %s", errResp.Error)
		}
		return nil, fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	return resp, nil
}
