package client

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Session is a recorded interview-practice session.
type Session struct {
	ID            int64     `json:"id"`
	Topic         string    `json:"topic"`
	Position      string    `json:"position"`
	StartedAt     time.Time `json:"startedAt"`
	QuestionCount int       `json:"questionCount"`
	Score         float64   `json:"score"`
}

// Turn is a single question/answer exchange within a session.
type Turn struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	AskedAt time.Time `json:"askedAt"`
}

// SessionDetail is a session together with its full transcript.
type SessionDetail struct {
	Session
	Turns []Turn `json:"turns"`
}

// StatsDay is one day's aggregate in the session statistics series.
type StatsDay struct {
	Date         string  `json:"date"`
	Sessions     int     `json:"sessions"`
	AverageScore float64 `json:"averageScore"`
}

// SessionsResponse wraps the session list endpoint payload.
type SessionsResponse struct {
	Sessions []Session `json:"sessions"`
}

// StatsResponse wraps the session statistics endpoint payload.
type StatsResponse struct {
	Days []StatsDay `json:"days"`
}

// ListSessions returns all interview sessions, newest first.
func (c *Client) ListSessions(ctx context.Context) ([]Session, error) {
	var resp SessionsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/sessions", nil, &resp); err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return resp.Sessions, nil
}

// GetSession returns a single session with its transcript.
func (c *Client) GetSession(ctx context.Context, id int64) (*SessionDetail, error) {
	var detail SessionDetail
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/sessions/%d", id), nil, &detail); err != nil {
		return nil, fmt.Errorf("getting session %d: %w", id, err)
	}
	return &detail, nil
}

// DeleteSession removes a session permanently.
func (c *Client) DeleteSession(ctx context.Context, id int64) error {
	if err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/sessions/%d", id), nil, nil); err != nil {
		return fmt.Errorf("deleting session %d: %w", id, err)
	}
	return nil
}

// SessionStats returns the per-day session statistics series used by the
// stats chart.
func (c *Client) SessionStats(ctx context.Context) ([]StatsDay, error) {
	var resp StatsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/sessions/stats", nil, &resp); err != nil {
		return nil, fmt.Errorf("getting session stats: %w", err)
	}
	return resp.Days, nil
}
