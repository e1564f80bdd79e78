// settings.go — настройки панели: тема интерфейса.
// Значение хранится в локальной базе панели (ui_settings) и действует
// для всех пользователей.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/retailhr/adminka/internal/repository"
	uimiddleware "github.com/retailhr/adminka/internal/ui/middleware"
	"github.com/retailhr/adminka/internal/ui/pages"
)

// settingsPermission — право раздела настроек.
const settingsPermission = "settings"

// SettingsHandler — обработчики страницы настроек.
type SettingsHandler struct {
	base     *Base
	settings repository.UISettingsRepository
	logger   *slog.Logger
}

// NewSettingsHandler создаёт новый SettingsHandler.
func NewSettingsHandler(base *Base, settings repository.UISettingsRepository, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{
		base:     base,
		settings: settings,
		logger:   logger.With(slog.String("component", "ui_settings")),
	}
}

// HandleSettingsPage — GET /admin/settings.
func (h *SettingsHandler) HandleSettingsPage(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/admin/login", http.StatusFound)
		return
	}
	if !sessionGrants(session).HasPermission(settingsPermission) {
		h.base.RenderForbidden(w, r, session, "Настройки")
		return
	}

	data := pages.SettingsData{
		Layout: h.base.Layout(r, session, "Настройки"),
		Theme:  h.base.Theme(r.Context()),
	}
	if r.URL.Query().Get("ok") != "" {
		data.Success = "Настройки сохранены"
	}

	h.base.Render(w, r, pages.Settings(data))
}

// HandleSettingsSave — POST /admin/settings.
func (h *SettingsHandler) HandleSettingsSave(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/admin/login", http.StatusFound)
		return
	}
	if !sessionGrants(session).HasPermission(settingsPermission) {
		h.base.RenderForbidden(w, r, session, "Настройки")
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Некорректная форма", http.StatusBadRequest)
		return
	}

	theme := r.PostFormValue("theme")
	if theme != "light" && theme != "dark" {
		h.base.Render(w, r, pages.Settings(pages.SettingsData{
			Layout: h.base.Layout(r, session, "Настройки"),
			Theme:  h.base.Theme(r.Context()),
			Error:  "Неизвестная тема",
		}))
		return
	}

	if err := h.settings.Set(r.Context(), themeSettingKey, theme, session.Login); err != nil {
		h.logger.Error("Ошибка сохранения темы",
			slog.String("login", session.Login),
			slog.String("error", err.Error()),
		)
		h.base.Render(w, r, pages.Settings(pages.SettingsData{
			Layout: h.base.Layout(r, session, "Настройки"),
			Theme:  h.base.Theme(r.Context()),
			Error:  "Не удалось сохранить настройки",
		}))
		return
	}

	h.logger.Info("Тема панели изменена",
		slog.String("login", session.Login),
		slog.String("theme", theme),
	)
	http.Redirect(w, r, "/admin/settings?ok=1", http.StatusFound)
}
