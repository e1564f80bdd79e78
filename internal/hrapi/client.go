// Пакет hrapi — HTTP-клиент HR backend. Все решения о правах принимает
// backend; клиент лишь прикладывает Bearer-токен и транслирует ответы.
// Ответ 401 любого авторизованного запроса означает конец сессии
// (ErrSessionExpired); сетевые ошибки сессию не завершают.
package hrapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrSessionExpired — токен отвергнут backend'ом (истёк или отозван).
// Единственная точка обработки — route guard, который сбрасывает сессию.
var ErrSessionExpired = errors.New("сессия истекла")

// ErrInvalidCredentials — неверный логин или пароль при входе.
var ErrInvalidCredentials = errors.New("неверный логин или пароль")

// StatusError — backend ответил статусом вне 2xx (кроме 401).
type StatusError struct {
	Status int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("HR backend вернул статус %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("HR backend вернул статус %d", e.Status)
}

// Client — HTTP-клиент HR backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New создаёт клиент HR backend.
// baseURL — базовый URL backend'а, timeout — таймаут каждого запроса.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    normalizeURL(baseURL),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With(slog.String("component", "hr_client")),
	}
}

// Login выполняет вход. POST /auth/login — без токена.
// 401 означает неверные учётные данные, не конец сессии.
func (c *Client) Login(ctx context.Context, login, password string) (*LoginResponse, error) {
	body, err := json.Marshal(LoginRequest{Login: login, Password: password})
	if err != nil {
		return nil, fmt.Errorf("сериализация запроса входа: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("создание запроса входа: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("запрос входа: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrInvalidCredentials
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var loginResp LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return nil, fmt.Errorf("декодирование ответа входа: %w", err)
	}
	return &loginResp, nil
}

// Me возвращает профиль текущего пользователя. GET /auth/me.
func (c *Client) Me(ctx context.Context, token string) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Logout завершает сессию на backend'е. POST /auth/logout, best effort:
// вызывающий сбрасывает локальную сессию независимо от результата.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", token, nil, nil)
}

// AccessConfig возвращает каталоги, роли и пользователей. GET /auth/access.
func (c *Client) AccessConfig(ctx context.Context, token string) (*AccessConfig, error) {
	var cfg AccessConfig
	if err := c.do(ctx, http.MethodGet, "/auth/access", token, nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// CreateRole создаёт роль. POST /auth/roles.
func (c *Client) CreateRole(ctx context.Context, token string, req CreateRoleRequest) (*Role, error) {
	var role Role
	if err := c.do(ctx, http.MethodPost, "/auth/roles", token, req, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

// UpdateRole изменяет роль. PATCH /auth/roles/{id}.
func (c *Client) UpdateRole(ctx context.Context, token, roleID string, req UpdateRoleRequest) (*Role, error) {
	var role Role
	path := "/auth/roles/" + url.PathEscape(roleID)
	if err := c.do(ctx, http.MethodPatch, path, token, req, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

// DeleteRole удаляет роль. DELETE /auth/roles/{id}.
// Пользователи удалённой роли резолвятся как пользователи без роли.
func (c *Client) DeleteRole(ctx context.Context, token, roleID string) error {
	return c.do(ctx, http.MethodDelete, "/auth/roles/"+url.PathEscape(roleID), token, nil, nil)
}

// CreateUser создаёт пользователя панели. POST /auth/users.
func (c *Client) CreateUser(ctx context.Context, token string, req CreateUserRequest) (*AdminUser, error) {
	var user AdminUser
	if err := c.do(ctx, http.MethodPost, "/auth/users", token, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser изменяет пользователя. PATCH /auth/users/{id}.
func (c *Client) UpdateUser(ctx context.Context, token, userID string, req UpdateUserRequest) (*AdminUser, error) {
	var user AdminUser
	path := "/auth/users/" + url.PathEscape(userID)
	if err := c.do(ctx, http.MethodPatch, path, token, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser удаляет пользователя. DELETE /auth/users/{id}.
func (c *Client) DeleteUser(ctx context.Context, token, userID string) error {
	return c.do(ctx, http.MethodDelete, "/auth/users/"+url.PathEscape(userID), token, nil, nil)
}

// Employees возвращает список сотрудников. GET /employees.
func (c *Client) Employees(ctx context.Context, token string) ([]Employee, error) {
	var items []Employee
	if err := c.do(ctx, http.MethodGet, "/employees", token, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Payouts возвращает список выплат. GET /payouts.
func (c *Client) Payouts(ctx context.Context, token string) ([]Payout, error) {
	var items []Payout
	if err := c.do(ctx, http.MethodGet, "/payouts", token, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Vacations возвращает список отпусков. GET /vacations.
func (c *Client) Vacations(ctx context.Context, token string) ([]Vacation, error) {
	var items []Vacation
	if err := c.do(ctx, http.MethodGet, "/vacations", token, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Assets возвращает список имущества. GET /assets.
func (c *Client) Assets(ctx context.Context, token string) ([]Asset, error) {
	var items []Asset
	if err := c.do(ctx, http.MethodGet, "/assets", token, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Incentives возвращает штрафы и премии. GET /incentives.
func (c *Client) Incentives(ctx context.Context, token string) ([]Incentive, error) {
	var items []Incentive
	if err := c.do(ctx, http.MethodGet, "/incentives", token, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Messages возвращает историю сообщений рассылки. GET /messages.
func (c *Client) Messages(ctx context.Context, token string) ([]Message, error) {
	var items []Message
	if err := c.do(ctx, http.MethodGet, "/messages", token, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SendBroadcast отправляет рассылку. POST /broadcast.
func (c *Client) SendBroadcast(ctx context.Context, token string, req BroadcastRequest) (*BroadcastResponse, error) {
	var result BroadcastResponse
	if err := c.do(ctx, http.MethodPost, "/broadcast", token, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Ping проверяет доступность backend'а. GET /health — без токена.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("создание запроса health: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("запрос health: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

// BaseURL возвращает базовый URL backend'а (для проверки зависимостей).
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do выполняет авторизованный запрос и декодирует ответ в out (если не nil).
// 401 транслируется в ErrSessionExpired, прочие не-2xx — в StatusError.
func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("сериализация запроса %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("создание запроса %s %s: %w", method, path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("запрос %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.logger.Debug("backend отверг токен",
			slog.String("method", method),
			slog.String("path", path),
		)
		return ErrSessionExpired
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return statusError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("декодирование ответа %s %s: %w", method, path, err)
	}
	return nil
}

// statusError строит StatusError, извлекая detail из тела ответа.
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var payload struct {
		Detail string `json:"detail"`
	}
	detail := ""
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		detail = payload.Detail
	} else if len(body) > 0 {
		detail = strings.TrimSpace(string(body))
	}

	return &StatusError{Status: resp.StatusCode, Detail: detail}
}

// normalizeURL убирает trailing slash из URL.
func normalizeURL(rawURL string) string {
	return strings.TrimRight(rawURL, "/")
}
