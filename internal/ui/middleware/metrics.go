// metrics.go — Prometheus HTTP метрики панели.
// Регистрирует метрики: hra_http_requests_total, hra_http_request_duration_seconds.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP метрики
var (
	// httpRequestsTotal — общее количество HTTP-запросов.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hra_http_requests_total",
			Help: "Общее количество HTTP-запросов к админ-панели",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration — гистограмма длительности HTTP-запросов.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hra_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов к админ-панели в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// MetricsMiddleware возвращает HTTP middleware для сбора Prometheus метрик.
// Записывает количество запросов и длительность для каждого endpoint.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Нормализуем путь для лейблов метрик
			// (заменяем идентификаторы на {id} для предотвращения кардинальности)
			normalizedPath := normalizePath(r.URL.Path)

			wrapped := newMetricsResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(wrapped.statusCode)

			httpRequestsTotal.WithLabelValues(r.Method, normalizedPath, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, normalizedPath).Observe(duration)
		})
	}
}

// metricsResponseWriter — обёртка для перехвата статус-кода.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newMetricsResponseWriter(w http.ResponseWriter) *metricsResponseWriter {
	return &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap позволяет http.ResponseController получить доступ к оригинальному ResponseWriter.
func (rw *metricsResponseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// normalizePath заменяет идентификаторы в сегментах пути на {id} для
// предотвращения взрывного роста кардинальности метрик.
// /admin/access/users/a1b2c3d4 → /admin/access/users/{id}
func normalizePath(path string) string {
	// Статические пути — возвращаем как есть
	switch path {
	case "/health/live", "/health/ready", "/metrics",
		"/admin", "/admin/", "/admin/login", "/admin/logout",
		"/admin/employees", "/admin/vacations", "/admin/birthdays",
		"/admin/assets", "/admin/payouts", "/admin/payouts-control",
		"/admin/incentives", "/admin/reports", "/admin/broadcast",
		"/admin/messages", "/admin/dictionary", "/admin/settings",
		"/admin/access":
		return path
	}

	// Динамические пути с идентификаторами
	prefixes := []struct {
		prefix string
		result string
	}{
		{"/admin/access/roles/", "/admin/access/roles/{id}"},
		{"/admin/access/users/", "/admin/access/users/{id}"},
	}

	for _, p := range prefixes {
		if strings.HasPrefix(path, p.prefix) && len(path) > len(p.prefix) {
			rest := path[len(p.prefix):]
			// Суффиксы после идентификатора (/delete и т.п.)
			if idx := strings.IndexByte(rest, '/'); idx >= 0 {
				return p.result + rest[idx:]
			}
			return p.result
		}
	}

	return path
}
