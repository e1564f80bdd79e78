// Пакет server — HTTP-сервер админ-панели с graceful shutdown.
// Без TLS — HTTP внутри кластера, TLS termination на входном прокси.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/retailhr/adminka/internal/config"
	uihandlers "github.com/retailhr/adminka/internal/ui/handlers"
	uimiddleware "github.com/retailhr/adminka/internal/ui/middleware"
	"github.com/retailhr/adminka/internal/ui/static"
)

// Handlers — обработчики страниц панели.
type Handlers struct {
	Health    *uihandlers.HealthHandler
	Auth      *uihandlers.AuthHandler
	Dashboard *uihandlers.DashboardHandler
	Entities  *uihandlers.EntityHandler
	Broadcast *uihandlers.BroadcastHandler
	Access    *uihandlers.AccessHandler
	Settings  *uihandlers.SettingsHandler
}

// Server — HTTP-сервер панели.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт HTTP-сервер с настроенными маршрутами и middleware.
// uiAuth — route guard страниц /admin/*, loginLimiter — ограничение
// частоты попыток входа по IP.
func New(
	cfg *config.Config,
	logger *slog.Logger,
	h *Handlers,
	uiAuth *uimiddleware.UIAuth,
	loginLimiter *uimiddleware.RateLimiter,
) *Server {
	router := chi.NewRouter()

	// Метрики собираются по всем маршрутам
	router.Use(uimiddleware.MetricsMiddleware())

	// Служебные endpoints: health проверяется Kubernetes напрямую
	router.Get("/health/live", h.Health.HealthLive)
	router.Get("/health/ready", h.Health.HealthReady)
	router.Handle("/metrics", promhttp.Handler())

	// Статика и вход — без route guard
	router.Handle("/admin/static/*",
		http.StripPrefix("/admin/static/", http.FileServer(static.FileSystem())))
	router.Get("/admin/login", h.Auth.HandleLoginPage)
	router.With(loginLimiter.Middleware()).Post("/admin/login", h.Auth.HandleLogin)
	// Logout работает и с повреждённой сессией
	router.Post("/admin/logout", h.Auth.HandleLogout)

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/admin", http.StatusFound)
	})

	// Страницы панели — только с валидной сессией
	router.Group(func(r chi.Router) {
		r.Use(uiAuth.Middleware())

		r.Get("/admin", h.Dashboard.HandleDashboard)
		r.Get("/admin/", h.Dashboard.HandleDashboard)

		r.Get("/admin/employees", h.Entities.HandleEmployees)
		r.Get("/admin/vacations", h.Entities.HandleVacations)
		r.Get("/admin/birthdays", h.Entities.HandleBirthdays)
		r.Get("/admin/assets", h.Entities.HandleAssets)
		r.Get("/admin/payouts", h.Entities.HandlePayouts)
		r.Get("/admin/payouts-control", h.Entities.HandlePayoutsControl)
		r.Get("/admin/incentives", h.Entities.HandleIncentives)
		r.Get("/admin/reports", h.Entities.HandleReports)
		r.Get("/admin/messages", h.Entities.HandleMessages)
		r.Get("/admin/dictionary", h.Entities.HandleDictionary)

		r.Get("/admin/broadcast", h.Broadcast.HandleBroadcastPage)
		r.Post("/admin/broadcast", h.Broadcast.HandleBroadcastSubmit)

		r.Get("/admin/access", h.Access.HandleAccessPage)
		r.Post("/admin/access/roles", h.Access.HandleRoleCreate)
		r.Post("/admin/access/roles/{id}", h.Access.HandleRoleUpdate)
		r.Post("/admin/access/roles/{id}/delete", h.Access.HandleRoleDelete)
		r.Post("/admin/access/users", h.Access.HandleUserCreate)
		r.Post("/admin/access/users/{id}", h.Access.HandleUserUpdate)
		r.Post("/admin/access/users/{id}/delete", h.Access.HandleUserDelete)

		r.Get("/admin/settings", h.Settings.HandleSettingsPage)
		r.Post("/admin/settings", h.Settings.HandleSettingsSave)
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
