// Пакет config — загрузка и валидация конфигурации админ-панели
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации админ-панели.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- HR backend ---

	// Базовый URL HR backend (например, https://hr-api.retailhr.lan)
	APIURL string
	// Таймаут HTTP-запросов к HR backend
	APITimeout time.Duration

	// --- Сессия ---

	// Ключ шифрования cookie сессии (base64 или произвольная строка).
	// Пустое значение — случайный ключ, сессии не переживают рестарт.
	SessionSecret string
	// Secure flag для cookie сессии (true при работе за HTTPS)
	SessionSecure bool
	// Срок годности снимка профиля в cookie; по истечении профиль
	// перечитывается из HR backend
	ProfileTTL time.Duration

	// --- PostgreSQL (локальное хранилище панели) ---

	// Хост PostgreSQL
	DBHost string
	// Порт PostgreSQL
	DBPort int
	// Имя базы данных
	DBName string
	// Имя пользователя PostgreSQL
	DBUser string
	// Пароль пользователя PostgreSQL
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string

	// --- UI ---

	// Вариант темы интерфейса (light, dark)
	UITheme string

	// --- Ограничение частоты входа ---

	// Запросов в секунду на IP для формы входа
	LoginRateRPS int
	// Допустимый всплеск запросов на IP для формы входа
	LoginRateBurst int

	// --- Мониторинг ---

	// Имя группы в метриках topologymetrics
	DephealthGroup string
	// Интервал проверки зависимостей topologymetrics
	DephealthCheckInterval time.Duration

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// HRA_PORT — порт HTTP-сервера (по умолчанию 8080)
	cfg.Port, err = getEnvInt("HRA_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("HRA_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("HRA_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// HRA_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("HRA_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("HRA_LOG_LEVEL: %w", err)
	}

	// HRA_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("HRA_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("HRA_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- HR backend ---

	// HRA_API_URL — обязательный
	cfg.APIURL, err = getEnvRequired("HRA_API_URL")
	if err != nil {
		return nil, err
	}
	// Убираем trailing slash
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	// HRA_API_TIMEOUT — таймаут запросов к HR backend (по умолчанию 15s)
	cfg.APITimeout, err = getEnvDuration("HRA_API_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("HRA_API_TIMEOUT: %w", err)
	}

	// --- Сессия ---

	// HRA_SESSION_SECRET — ключ шифрования cookie (опционально)
	cfg.SessionSecret = getEnvDefault("HRA_SESSION_SECRET", "")

	// HRA_SESSION_SECURE — Secure flag для cookie (по умолчанию true)
	cfg.SessionSecure, err = getEnvBool("HRA_SESSION_SECURE", true)
	if err != nil {
		return nil, fmt.Errorf("HRA_SESSION_SECURE: %w", err)
	}

	// HRA_PROFILE_TTL — срок годности снимка профиля (по умолчанию 5m)
	cfg.ProfileTTL, err = getEnvDuration("HRA_PROFILE_TTL", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("HRA_PROFILE_TTL: %w", err)
	}

	// --- PostgreSQL ---

	// HRA_DB_HOST — обязательный
	cfg.DBHost, err = getEnvRequired("HRA_DB_HOST")
	if err != nil {
		return nil, err
	}

	// HRA_DB_PORT — порт PostgreSQL (по умолчанию 5432)
	cfg.DBPort, err = getEnvInt("HRA_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("HRA_DB_PORT: %w", err)
	}

	// HRA_DB_NAME — обязательный
	cfg.DBName, err = getEnvRequired("HRA_DB_NAME")
	if err != nil {
		return nil, err
	}

	// HRA_DB_USER — обязательный
	cfg.DBUser, err = getEnvRequired("HRA_DB_USER")
	if err != nil {
		return nil, err
	}

	// HRA_DB_PASSWORD — обязательный
	cfg.DBPassword, err = getEnvRequired("HRA_DB_PASSWORD")
	if err != nil {
		return nil, err
	}

	// HRA_DB_SSL_MODE — режим SSL (по умолчанию disable)
	cfg.DBSSLMode = getEnvDefault("HRA_DB_SSL_MODE", "disable")
	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[cfg.DBSSLMode] {
		return nil, fmt.Errorf("HRA_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}

	// --- UI ---

	// HRA_UI_THEME — вариант темы (по умолчанию light)
	cfg.UITheme = getEnvDefault("HRA_UI_THEME", "light")
	if cfg.UITheme != "light" && cfg.UITheme != "dark" {
		return nil, fmt.Errorf("HRA_UI_THEME: недопустимое значение %q, допустимые: light, dark", cfg.UITheme)
	}

	// --- Ограничение частоты входа ---

	// HRA_LOGIN_RATE_RPS — запросов в секунду на IP (по умолчанию 5)
	cfg.LoginRateRPS, err = getEnvInt("HRA_LOGIN_RATE_RPS", 5)
	if err != nil {
		return nil, fmt.Errorf("HRA_LOGIN_RATE_RPS: %w", err)
	}
	if cfg.LoginRateRPS < 1 {
		return nil, fmt.Errorf("HRA_LOGIN_RATE_RPS: значение %d должно быть положительным", cfg.LoginRateRPS)
	}

	// HRA_LOGIN_RATE_BURST — всплеск на IP (по умолчанию 10)
	cfg.LoginRateBurst, err = getEnvInt("HRA_LOGIN_RATE_BURST", 10)
	if err != nil {
		return nil, fmt.Errorf("HRA_LOGIN_RATE_BURST: %w", err)
	}
	if cfg.LoginRateBurst < cfg.LoginRateRPS {
		return nil, fmt.Errorf("HRA_LOGIN_RATE_BURST: значение %d меньше HRA_LOGIN_RATE_RPS", cfg.LoginRateBurst)
	}

	// --- Мониторинг ---

	// HRA_DEPHEALTH_GROUP — имя группы в метриках (по умолчанию retailhr)
	cfg.DephealthGroup = getEnvDefault("HRA_DEPHEALTH_GROUP", "retailhr")

	// HRA_DEPHEALTH_CHECK_INTERVAL — интервал проверки зависимостей (по умолчанию 15s)
	cfg.DephealthCheckInterval, err = getEnvDuration("HRA_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("HRA_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// --- Graceful shutdown ---

	// HRA_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("HRA_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("HRA_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// DatabaseURL возвращает URL-форму строки подключения к PostgreSQL
// (для topologymetrics и миграций).
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvBool возвращает булево значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное булево значение: %q", val)
	}
	return b, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
