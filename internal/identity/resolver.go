// Пакет identity — установление личности пользователя панели.
// Оборачивает клиент HR backend: вход, перечитывание профиля,
// выход. Переходы между состояниями «аноним» и «аутентифицирован»
// происходят на каждом запросе, промежуточное состояние наружу
// не отдаётся.
package identity

import (
	"context"
	"log/slog"

	"github.com/retailhr/adminka/internal/domain/access"
	"github.com/retailhr/adminka/internal/hrapi"
)

// User — аутентифицированный пользователь с эффективными правами.
// Права уже вычислены HR backend'ом; панель их не пересчитывает,
// только применяет к навигации и страницам.
type User struct {
	ID       string
	Login    string
	FullName string
	RoleName string
	Grants   access.Grants
}

// Resolver — устанавливает личность по учётным данным или токену.
type Resolver struct {
	api    *hrapi.Client
	logger *slog.Logger
}

// NewResolver создаёт Resolver поверх клиента HR backend.
func NewResolver(api *hrapi.Client, logger *slog.Logger) *Resolver {
	return &Resolver{
		api:    api,
		logger: logger.With(slog.String("component", "identity")),
	}
}

// Login обменивает учётные данные на токен и профиль.
// hrapi.ErrInvalidCredentials — неверные данные, прочие ошибки — транспорт.
func (r *Resolver) Login(ctx context.Context, login, password string) (string, *User, error) {
	resp, err := r.api.Login(ctx, login, password)
	if err != nil {
		return "", nil, err
	}

	user := fromProfile(&resp.User)
	r.logger.Info("пользователь вошёл",
		slog.String("login", user.Login),
		slog.String("role", user.RoleName),
	)
	return resp.Token, user, nil
}

// Resolve перечитывает профиль по токену. Вызывается при входе
// с устаревшим снимком профиля и после каждого изменения прав.
// hrapi.ErrSessionExpired — токен отвергнут, сессию нужно сбросить.
func (r *Resolver) Resolve(ctx context.Context, token string) (*User, error) {
	profile, err := r.api.Me(ctx, token)
	if err != nil {
		return nil, err
	}
	return fromProfile(profile), nil
}

// Logout завершает сессию на backend'е. Ошибка только логируется:
// локальная сессия сбрасывается в любом случае.
func (r *Resolver) Logout(ctx context.Context, token string) {
	if err := r.api.Logout(ctx, token); err != nil {
		r.logger.Warn("не удалось завершить сессию на backend", slog.Any("error", err))
	}
}

// fromProfile переводит профиль backend'а в доменного пользователя.
func fromProfile(p *hrapi.Profile) *User {
	return &User{
		ID:       p.ID,
		Login:    p.Login,
		FullName: p.FullName,
		RoleName: p.RoleName,
		Grants: access.Grants{
			Permissions: p.Permissions,
			BotButtons:  p.BotButtons,
		},
	}
}
