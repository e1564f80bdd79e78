// auth.go — вход по логину и паролю через HR backend.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/retailhr/adminka/internal/hrapi"
	"github.com/retailhr/adminka/internal/identity"
	"github.com/retailhr/adminka/internal/ui/auth"
	"github.com/retailhr/adminka/internal/ui/pages"
)

// AuthHandler — обработчики входа и выхода.
type AuthHandler struct {
	base     *Base
	resolver *identity.Resolver
	logger   *slog.Logger
}

// NewAuthHandler создаёт новый AuthHandler.
func NewAuthHandler(base *Base, resolver *identity.Resolver, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		base:     base,
		resolver: resolver,
		logger:   logger.With(slog.String("component", "ui_auth")),
	}
}

// HandleLoginPage — GET /admin/login: форма входа.
// Уже аутентифицированный пользователь сразу уходит на дашборд.
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if session, err := h.base.sessionManager.GetSessionFromRequest(r); err == nil && session != nil {
		http.Redirect(w, r, "/admin", http.StatusFound)
		return
	}

	h.base.Render(w, r, pages.Login(pages.LoginData{
		Theme: h.base.Theme(r.Context()),
		Next:  sanitizeNext(r.URL.Query().Get("next")),
	}))
}

// HandleLogin — POST /admin/login: обмен учётных данных на токен,
// установка сессии и возврат на исходную страницу из параметра next.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Некорректная форма", http.StatusBadRequest)
		return
	}

	login := strings.TrimSpace(r.PostFormValue("login"))
	password := r.PostFormValue("password")
	next := sanitizeNext(r.PostFormValue("next"))

	if login == "" || password == "" {
		h.renderLoginError(w, r, next, "Укажите логин и пароль")
		return
	}

	token, user, err := h.resolver.Login(r.Context(), login, password)
	if err != nil {
		if errors.Is(err, hrapi.ErrInvalidCredentials) {
			h.logger.Info("Неверные учётные данные",
				slog.String("login", login),
				slog.String("remote_addr", r.RemoteAddr),
			)
			h.renderLoginError(w, r, next, "Неверный логин или пароль")
			return
		}
		h.logger.Error("Ошибка входа через HR backend",
			slog.String("login", login),
			slog.String("error", err.Error()),
		)
		h.renderLoginError(w, r, next, "HR backend недоступен, попробуйте позже")
		return
	}

	session := &auth.SessionData{
		Token:       token,
		UserID:      user.ID,
		Login:       user.Login,
		FullName:    user.FullName,
		RoleName:    user.RoleName,
		Permissions: user.Grants.Permissions,
		BotButtons:  user.Grants.BotButtons,
		RefreshedAt: time.Now().Unix(),
	}
	if err := h.base.sessionManager.SetSessionCookie(w, session); err != nil {
		h.logger.Error("Ошибка установки session cookie", slog.String("error", err.Error()))
		http.Error(w, "Ошибка создания сессии", http.StatusInternalServerError)
		return
	}

	target := next
	if target == "" {
		target = "/admin"
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// HandleLogout — POST /admin/logout: завершение сессии на backend'е
// (ошибка игнорируется) и сброс cookie.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if session, err := h.base.sessionManager.GetSessionFromRequest(r); err == nil && session != nil {
		h.resolver.Logout(r.Context(), session.Token)
		h.logger.Info("Пользователь вышел", slog.String("login", session.Login))
	}

	h.base.sessionManager.ClearSessionCookie(w)
	http.Redirect(w, r, "/admin/login", http.StatusFound)
}

// renderLoginError перерисовывает форму входа с сообщением об ошибке.
func (h *AuthHandler) renderLoginError(w http.ResponseWriter, r *http.Request, next, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	data := pages.LoginData{
		Theme: h.base.Theme(r.Context()),
		Next:  next,
		Error: message,
	}
	if err := pages.Login(data).Render(r.Context(), w); err != nil {
		h.logger.Error("Ошибка рендеринга формы входа", slog.String("error", err.Error()))
	}
}

// sanitizeNext принимает только внутренние пути панели:
// внешние redirect'ы после входа запрещены.
func sanitizeNext(next string) string {
	if !strings.HasPrefix(next, "/admin") || strings.HasPrefix(next, "//") {
		return ""
	}
	return next
}
