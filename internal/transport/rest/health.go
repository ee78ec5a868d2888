package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

const (
	statusOK       = "ok"
	statusDown     = "down"
	statusDisabled = "disabled"

	pingTimeout = 3 * time.Second
)

type dbPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness, readiness and health endpoints.
type HealthHandler struct {
	db          dbPinger
	version     string
	mailEnabled bool
}

// NewHealthHandler creates a HealthHandler. Mail is reported as a component
// but never fails the check: contacts and invoices work without SMTP.
func NewHealthHandler(db dbPinger, version string, mailEnabled bool) *HealthHandler {
	return &HealthHandler{db: db, version: version, mailEnabled: mailEnabled}
}

// HealthResponse is the body of every health endpoint.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of one dependency.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// Live always answers 200 while the process serves HTTP.
func (h *HealthHandler) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: statusOK, Timestamp: time.Now()})
}

// Ready answers 503 while the database is unreachable.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	db := h.database(r.Context())
	writeJSON(w, httpStatus(db.Status), HealthResponse{Status: db.Status, Timestamp: time.Now()})
}

// Health reports every component with the build version. Only the database
// decides the overall status.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	db := h.database(r.Context())

	mail := CompStatus{Status: statusDisabled}
	if h.mailEnabled {
		mail.Status = statusOK
	}

	writeJSON(w, httpStatus(db.Status), HealthResponse{
		Status:     db.Status,
		Version:    h.version,
		Components: map[string]CompStatus{"database": db, "mail": mail},
		Timestamp:  time.Now(),
	})
}

func (h *HealthHandler) database(ctx context.Context) CompStatus {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := time.Now()
	if err := h.db.Ping(ctx); err != nil {
		return CompStatus{Status: statusDown}
	}
	return CompStatus{Status: statusOK, Latency: time.Since(start).String()}
}

func httpStatus(status string) int {
	if status == statusOK {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
