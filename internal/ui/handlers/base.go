// Пакет handlers — HTTP-обработчики админ-панели.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/a-h/templ"

	"github.com/retailhr/adminka/internal/domain/access"
	"github.com/retailhr/adminka/internal/hrapi"
	"github.com/retailhr/adminka/internal/nav"
	"github.com/retailhr/adminka/internal/repository"
	"github.com/retailhr/adminka/internal/ui/auth"
	"github.com/retailhr/adminka/internal/ui/pages"
)

// themeSettingKey — ключ темы в ui_settings.
const themeSettingKey = "theme"

// Base — общие зависимости обработчиков страниц: менеджер сессий,
// настройки панели и рендеринг каркаса.
type Base struct {
	sessionManager *auth.SessionManager
	settings       repository.UISettingsRepository
	defaultTheme   string
	logger         *slog.Logger
}

// NewBase создаёт общую основу обработчиков.
func NewBase(
	sessionManager *auth.SessionManager,
	settings repository.UISettingsRepository,
	defaultTheme string,
	logger *slog.Logger,
) *Base {
	return &Base{
		sessionManager: sessionManager,
		settings:       settings,
		defaultTheme:   defaultTheme,
		logger:         logger.With(slog.String("component", "ui_handlers")),
	}
}

// Theme возвращает текущую тему панели из ui_settings.
// При любой ошибке используется тема из конфигурации.
func (b *Base) Theme(ctx context.Context) string {
	setting, err := b.settings.Get(ctx, themeSettingKey)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			b.logger.Warn("Ошибка чтения темы из ui_settings", slog.String("error", err.Error()))
		}
		return b.defaultTheme
	}
	if setting.Value != "light" && setting.Value != "dark" {
		return b.defaultTheme
	}
	return setting.Value
}

// Layout собирает каркас страницы: тема, пользователь и навигация,
// отфильтрованная по правам из снимка сессии.
func (b *Base) Layout(r *http.Request, session *auth.SessionData, title string) pages.LayoutData {
	return pages.LayoutData{
		Title:    title,
		Theme:    b.Theme(r.Context()),
		Login:    session.Login,
		RoleName: session.RoleName,
		Nav:      nav.Visible(sessionGrants(session), r.URL.Path),
	}
}

// Render пишет компонент в ответ. Ошибка рендеринга после начала
// записи тела уже не исправима — только логируется.
func (b *Base) Render(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		b.logger.Error("Ошибка рендеринга страницы",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Ошибка рендеринга страницы", http.StatusInternalServerError)
	}
}

// RenderForbidden — страница «раздел недоступен» со статусом 403.
func (b *Base) RenderForbidden(w http.ResponseWriter, r *http.Request, session *auth.SessionData, title string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	layout := b.Layout(r, session, title)
	if err := pages.Forbidden(layout).Render(r.Context(), w); err != nil {
		b.logger.Error("Ошибка рендеринга страницы 403", slog.String("error", err.Error()))
	}
}

// HandleAPIError — общая обработка ошибки обращения к HR backend.
// Отвергнутый токен сбрасывает сессию и возвращает на вход;
// прочие ошибки показывают страницу ошибки, сессия сохраняется.
func (b *Base) HandleAPIError(w http.ResponseWriter, r *http.Request, session *auth.SessionData, err error, title string) {
	if errors.Is(err, hrapi.ErrSessionExpired) {
		b.logger.Info("Токен отвергнут backend'ом при загрузке данных",
			slog.String("login", session.Login),
			slog.String("path", r.URL.Path),
		)
		b.RedirectToLogin(w, r)
		return
	}

	b.logger.Error("Ошибка обращения к HR backend",
		slog.String("login", session.Login),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)

	message := "Не удалось получить данные от HR backend. Попробуйте повторить запрос."
	var statusErr *hrapi.StatusError
	if errors.As(err, &statusErr) && statusErr.Detail != "" {
		message = statusErr.Detail
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusBadGateway)
	data := pages.ErrorData{
		Layout:  b.Layout(r, session, title),
		Message: message,
		Retry:   r.URL.RequestURI(),
	}
	if renderErr := pages.Error(data).Render(r.Context(), w); renderErr != nil {
		b.logger.Error("Ошибка рендеринга страницы ошибки", slog.String("error", renderErr.Error()))
	}
}

// RedirectToLogin сбрасывает сессию и возвращает на страницу входа,
// сохраняя исходный путь в параметре next.
func (b *Base) RedirectToLogin(w http.ResponseWriter, r *http.Request) {
	b.sessionManager.ClearSessionCookie(w)

	target := "/admin/login"
	if next := r.URL.RequestURI(); next != "" && next != "/admin/login" {
		target += "?next=" + url.QueryEscape(next)
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// sessionGrants — эффективные права из снимка сессии.
func sessionGrants(session *auth.SessionData) access.Grants {
	return access.Grants{
		Permissions: session.Permissions,
		BotButtons:  session.BotButtons,
	}
}
