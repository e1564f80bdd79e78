// health.go — health endpoints панели.
// /health/live — liveness probe (процесс жив)
// /health/ready — readiness probe (PostgreSQL + HR backend доступны)
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/retailhr/adminka/internal/config"
	"github.com/retailhr/adminka/internal/hrapi"
)

// ReadinessChecker — интерфейс проверки готовности зависимости.
type ReadinessChecker interface {
	// CheckReady возвращает статус ("ok", "degraded", "fail") и сообщение.
	CheckReady() (status string, message string)
}

// HealthHandler — обработчик health endpoints.
type HealthHandler struct {
	pgChecker ReadinessChecker
	hrChecker ReadinessChecker
}

// NewHealthHandler создаёт обработчик health endpoints.
// Оба checker'а могут быть nil (readiness вернёт "fail").
func NewHealthHandler(pgChecker, hrChecker ReadinessChecker) *HealthHandler {
	return &HealthHandler{
		pgChecker: pgChecker,
		hrChecker: hrChecker,
	}
}

// healthCheckResult — результат проверки одной зависимости.
type healthCheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// healthLiveResponse — ответ liveness probe.
type healthLiveResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
}

// healthReadyResponse — ответ readiness probe.
type healthReadyResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
	Checks    struct {
		PostgreSQL healthCheckResult `json:"postgresql"`
		HRBackend  healthCheckResult `json:"hr_backend"`
	} `json:"checks"`
}

// HealthLive — liveness probe. Возвращает 200 если процесс жив.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	resp := healthLiveResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   "adminka",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// HealthReady — readiness probe. Проверяет PostgreSQL и HR backend.
// Возвращает 200 (ok/degraded) или 503 (fail).
func (h *HealthHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	resp := healthReadyResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   "adminka",
	}

	if h.pgChecker != nil {
		status, msg := h.pgChecker.CheckReady()
		resp.Checks.PostgreSQL = healthCheckResult{Status: status, Message: msg}
	} else {
		resp.Checks.PostgreSQL = healthCheckResult{Status: "fail", Message: "не инициализирован"}
	}

	if h.hrChecker != nil {
		status, msg := h.hrChecker.CheckReady()
		resp.Checks.HRBackend = healthCheckResult{Status: status, Message: msg}
	} else {
		resp.Checks.HRBackend = healthCheckResult{Status: "fail", Message: "не инициализирован"}
	}

	resp.Status = overallStatus(resp.Checks.PostgreSQL.Status, resp.Checks.HRBackend.Status)

	w.Header().Set("Content-Type", "application/json")
	if resp.Status == "fail" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// overallStatus определяет итоговый статус из статусов зависимостей.
// Хотя бы одна fail — итог fail, хотя бы одна degraded — degraded.
func overallStatus(statuses ...string) string {
	hasDegraded := false
	for _, s := range statuses {
		if s == "fail" {
			return "fail"
		}
		if s == "degraded" {
			hasDegraded = true
		}
	}
	if hasDegraded {
		return "degraded"
	}
	return "ok"
}

// HRReadinessChecker — проверка доступности HR backend.
// Недоступный backend — degraded, не fail: панель продолжает отдавать
// страницы по последним снимкам сессий.
type HRReadinessChecker struct {
	api *hrapi.Client
}

// NewHRReadinessChecker создаёт checker поверх клиента HR backend.
func NewHRReadinessChecker(api *hrapi.Client) *HRReadinessChecker {
	return &HRReadinessChecker{api: api}
}

// CheckReady выполняет запрос к /health backend'а.
func (c *HRReadinessChecker) CheckReady() (string, string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := c.api.Ping(ctx); err != nil {
		return "degraded", "HR backend недоступен: " + err.Error()
	}
	return "ok", ""
}
