// Пакет middleware — HTTP middleware админ-панели.
// auth.go — route guard: проверка сессии из cookie и восстановление
// пути после входа через параметр next.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/retailhr/adminka/internal/hrapi"
	"github.com/retailhr/adminka/internal/identity"
	"github.com/retailhr/adminka/internal/ui/auth"
)

// contextKey — тип для ключей контекста UI.
type contextKey string

const (
	// ContextKeyUISession — данные сессии в контексте запроса.
	ContextKeyUISession contextKey = "ui_session"
)

// UIAuth — route guard для страниц панели.
// Без валидной сессии пользователь перенаправляется на /admin/login
// с исходным путём в параметре next; устаревший снимок профиля
// перечитывается из HR backend. Прав guard не проверяет — это делают
// страницы, а окончательное слово за backend'ом.
type UIAuth struct {
	sessionManager *auth.SessionManager
	resolver       *identity.Resolver
	profileTTL     time.Duration
	logger         *slog.Logger
}

// NewUIAuth создаёт новый UIAuth middleware.
func NewUIAuth(
	sessionManager *auth.SessionManager,
	resolver *identity.Resolver,
	profileTTL time.Duration,
	logger *slog.Logger,
) *UIAuth {
	return &UIAuth{
		sessionManager: sessionManager,
		resolver:       resolver,
		profileTTL:     profileTTL,
		logger:         logger.With(slog.String("component", "ui_auth_middleware")),
	}
}

// Middleware возвращает HTTP middleware проверки сессии.
// Применяется к маршрутам /admin/*, кроме /admin/login.
func (ua *UIAuth) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. Извлекаем сессию из cookie
			session, err := ua.sessionManager.GetSessionFromRequest(r)
			if err != nil {
				ua.logger.Debug("Ошибка чтения сессии",
					slog.String("error", err.Error()),
					slog.String("remote_addr", r.RemoteAddr),
				)
				// Повреждённый cookie — очищаем и redirect на login
				ua.redirectToLogin(w, r)
				return
			}

			// 2. Если сессия отсутствует — redirect на login
			if session == nil {
				ua.redirectToLogin(w, r)
				return
			}

			// 3. Устаревший снимок профиля — перечитываем из HR backend.
			// Токен в cookie может пережить отзыв прав или удаление роли;
			// перечитывание гарантирует, что панель видит актуальный набор.
			if session.IsStale(ua.profileTTL) {
				refreshed, refreshErr := ua.refreshSession(r.Context(), session)
				if refreshErr != nil {
					if errors.Is(refreshErr, hrapi.ErrSessionExpired) {
						ua.logger.Info("Токен отвергнут backend'ом, redirect на login",
							slog.String("login", session.Login),
						)
						ua.redirectToLogin(w, r)
						return
					}
					// Backend недоступен — работаем по последнему снимку,
					// сессию не сбрасываем
					ua.logger.Warn("Не удалось обновить снимок профиля",
						slog.String("login", session.Login),
						slog.String("error", refreshErr.Error()),
					)
				} else {
					if err := ua.sessionManager.SetSessionCookie(w, refreshed); err != nil {
						ua.logger.Error("Ошибка обновления session cookie",
							slog.String("error", err.Error()),
						)
						ua.redirectToLogin(w, r)
						return
					}
					session = refreshed
					ua.logger.Debug("Снимок профиля обновлён",
						slog.String("login", session.Login),
					)
				}
			}

			// 4. Помещаем сессию в контекст
			ctx := context.WithValue(r.Context(), ContextKeyUISession, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// redirectToLogin очищает cookie и перенаправляет на страницу входа,
// сохраняя исходный путь в параметре next.
func (ua *UIAuth) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	ua.sessionManager.ClearSessionCookie(w)

	target := "/admin/login"
	if next := r.URL.RequestURI(); next != "" && next != "/admin/login" {
		target += "?next=" + url.QueryEscape(next)
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// refreshSession перечитывает профиль по токену сессии и собирает
// обновлённый снимок.
func (ua *UIAuth) refreshSession(ctx context.Context, session *auth.SessionData) (*auth.SessionData, error) {
	user, err := ua.resolver.Resolve(ctx, session.Token)
	if err != nil {
		return nil, err
	}

	return &auth.SessionData{
		Token:       session.Token,
		UserID:      user.ID,
		Login:       user.Login,
		FullName:    user.FullName,
		RoleName:    user.RoleName,
		Permissions: user.Grants.Permissions,
		BotButtons:  user.Grants.BotButtons,
		RefreshedAt: time.Now().Unix(),
	}, nil
}

// SessionFromContext извлекает SessionData из контекста запроса.
// Возвращает nil если сессия не найдена (не прошёл через UIAuth middleware).
func SessionFromContext(ctx context.Context) *auth.SessionData {
	session, ok := ctx.Value(ContextKeyUISession).(*auth.SessionData)
	if !ok {
		return nil
	}
	return session
}
