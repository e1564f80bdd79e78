// Точка входа админ-панели RetailHR.
// Загружает конфигурацию, применяет миграции и подключается к PostgreSQL,
// создаёт клиент HR backend, менеджер сессий и обработчики страниц,
// запускает мониторинг зависимостей (topologymetrics) и HTTP-сервер
// с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/retailhr/adminka/internal/config"
	"github.com/retailhr/adminka/internal/database"
	"github.com/retailhr/adminka/internal/hrapi"
	"github.com/retailhr/adminka/internal/identity"
	"github.com/retailhr/adminka/internal/repository"
	"github.com/retailhr/adminka/internal/server"
	"github.com/retailhr/adminka/internal/service"
	"github.com/retailhr/adminka/internal/ui/auth"
	uihandlers "github.com/retailhr/adminka/internal/ui/handlers"
	uimiddleware "github.com/retailhr/adminka/internal/ui/middleware"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Админ-панель запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("api_url", cfg.APIURL),
	)

	// 3. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Подключение к PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 4.1 Адаптер pgxpool → *sql.DB для topologymetrics (connection pool mode).
	// Проверка здоровья PostgreSQL идёт через существующий пул соединений,
	// что позволяет обнаружить его исчерпание.
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 5. Клиент HR backend и resolver личности
	apiClient := hrapi.New(cfg.APIURL, cfg.APITimeout, logger)
	resolver := identity.NewResolver(apiClient, logger)

	// 6. Менеджер сессий (AES-256-GCM cookie)
	sessionMgr, err := auth.NewSessionManager(cfg.SessionSecret, cfg.SessionSecure)
	if err != nil {
		logger.Error("Ошибка создания менеджера сессий", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.SessionSecret == "" {
		logger.Warn("HRA_SESSION_SECRET не задан, сессии не переживут рестарт")
	}

	// 7. Repositories
	draftsRepo := repository.NewBroadcastDraftRepository(pool)
	settingsRepo := repository.NewUISettingsRepository(pool)

	// 8. Обработчики страниц
	base := uihandlers.NewBase(sessionMgr, settingsRepo, cfg.UITheme, logger)
	handlers := &server.Handlers{
		Health: uihandlers.NewHealthHandler(
			database.NewReadinessChecker(pool),
			uihandlers.NewHRReadinessChecker(apiClient),
		),
		Auth:      uihandlers.NewAuthHandler(base, resolver, logger),
		Dashboard: uihandlers.NewDashboardHandler(base, logger),
		Entities:  uihandlers.NewEntityHandler(base, apiClient, logger),
		Broadcast: uihandlers.NewBroadcastHandler(base, apiClient, draftsRepo, logger),
		Access:    uihandlers.NewAccessHandler(base, apiClient, resolver, logger),
		Settings:  uihandlers.NewSettingsHandler(base, settingsRepo, logger),
	}

	// 9. Middleware: route guard и ограничение частоты входа
	uiAuth := uimiddleware.NewUIAuth(sessionMgr, resolver, cfg.ProfileTTL, logger)
	loginLimiter := uimiddleware.NewRateLimiter(cfg.LoginRateRPS, cfg.LoginRateBurst, logger)

	// 10. topologymetrics — мониторинг зависимостей (PostgreSQL + HR backend)
	var dephealthSvc *service.DephealthService
	dephealthSvc, dephealthErr := service.NewDephealthService(
		"adminka",
		cfg.DephealthGroup,
		pgDB,
		cfg.DatabaseURL(),
		cfg.APIURL,
		cfg.DephealthCheckInterval,
		logger,
	)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
	} else {
		if startErr := dephealthSvc.Start(ctx); startErr != nil {
			logger.Warn("Ошибка запуска topologymetrics",
				slog.String("error", startErr.Error()),
			)
		} else {
			logger.Info("topologymetrics запущен",
				slog.String("group", cfg.DephealthGroup),
				slog.String("check_interval", cfg.DephealthCheckInterval.String()),
			)
		}
	}

	// 11. HTTP-сервер с graceful shutdown
	srv := server.New(cfg, logger, handlers, uiAuth, loginLimiter)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 12. Остановка фоновых задач
	loginLimiter.Stop()
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("Админ-панель остановлена")
}
