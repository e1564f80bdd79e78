package hrapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second, testLogger())
}

func TestLogin_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("неожиданный запрос: %s %s", r.Method, r.URL.Path)
		}

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("декодирование тела запроса: %v", err)
		}
		if req.Login != "admin" || req.Password != "secret" {
			t.Errorf("тело запроса = %+v", req)
		}

		json.NewEncoder(w).Encode(LoginResponse{
			Token: "tok-123",
			User: Profile{
				ID:          "u1",
				Login:       "admin",
				RoleName:    "Владелец",
				Permissions: []string{"*"},
				BotButtons:  []string{"common.home"},
			},
		})
	})

	resp, err := client.Login(context.Background(), "admin", "secret")
	if err != nil {
		t.Fatalf("Login() вернул ошибку: %v", err)
	}
	if resp.Token != "tok-123" {
		t.Errorf("Token = %q, ожидается tok-123", resp.Token)
	}
	if resp.User.Login != "admin" {
		t.Errorf("User.Login = %q, ожидается admin", resp.User.Login)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Неверный логин или пароль"})
	})

	_, err := client.Login(context.Background(), "admin", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() = %v, ожидается ErrInvalidCredentials", err)
	}
}

func TestMe_AttachesBearer(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q, ожидается Bearer tok-123", got)
		}
		// Ответ в форме провода: имя пользователя приходит как display_name
		io.WriteString(w, `{"id": "u1", "login": "admin", "display_name": "Иванова А.", "permissions": ["*"], "bot_buttons": []}`)
	})

	profile, err := client.Me(context.Background(), "tok-123")
	if err != nil {
		t.Fatalf("Me() вернул ошибку: %v", err)
	}
	if profile.ID != "u1" {
		t.Errorf("ID = %q, ожидается u1", profile.ID)
	}
	if profile.FullName != "Иванова А." {
		t.Errorf("FullName = %q, display_name не декодируется", profile.FullName)
	}
}

func TestMe_SessionExpired(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.Me(context.Background(), "stale")
	if !errors.Is(err, ErrSessionExpired) {
		t.Errorf("Me() = %v, ожидается ErrSessionExpired", err)
	}
}

func TestDo_StatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Недостаточно прав"})
	})

	_, err := client.AccessConfig(context.Background(), "tok")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("AccessConfig() = %v, ожидается *StatusError", err)
	}
	if statusErr.Status != http.StatusForbidden {
		t.Errorf("Status = %d, ожидается 403", statusErr.Status)
	}
	if statusErr.Detail != "Недостаточно прав" {
		t.Errorf("Detail = %q, ожидается «Недостаточно прав»", statusErr.Detail)
	}
}

func TestDo_NetworkErrorIsNotSessionExpired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // сервер остановлен — сетевая ошибка

	client := New(srv.URL, time.Second, testLogger())
	_, err := client.Me(context.Background(), "tok")
	if err == nil {
		t.Fatal("Me() не вернул ошибку при недоступном сервере")
	}
	if errors.Is(err, ErrSessionExpired) {
		t.Error("сетевая ошибка не должна трактоваться как истечение сессии")
	}
}

// TestAccessConfig_OverrideStates — декодирование ответа /auth/access
// в форме провода: каталог кнопок приходит как available_bot_buttons,
// переопределения пользователя — как permissions / bot_buttons
// (null — наследовать, [] — отозвать всё, список — ровно этот набор).
func TestAccessConfig_OverrideStates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{
			"available_permissions": [{"id": "payouts", "label": "Выплаты"}],
			"available_bot_buttons": [{"id": "help", "label": "Помощь", "text": "❓ Помощь", "scope": "user", "fixed": true}],
			"roles": [],
			"users": [
				{"id": "u1", "login": "inherit", "display_name": "Иванова А.", "permissions": null, "bot_buttons": null, "allowed_employee_ids": null, "allowed_departments": null},
				{"id": "u2", "login": "revoked", "permissions": [], "bot_buttons": [], "allowed_employee_ids": null, "allowed_departments": null},
				{"id": "u3", "login": "explicit", "permissions": ["payouts"], "bot_buttons": null, "allowed_employee_ids": ["emp-1", "emp-2"], "allowed_departments": null}
			],
			"available_employees": [{"id": "emp-1", "name": "Сидорова А.", "department": "Склад"}],
			"available_departments": ["Склад"]
		}`)
	})

	cfg, err := client.AccessConfig(context.Background(), "tok")
	if err != nil {
		t.Fatalf("AccessConfig() вернул ошибку: %v", err)
	}
	if len(cfg.Users) != 3 {
		t.Fatalf("Users: %d, ожидается 3", len(cfg.Users))
	}

	// Каталог кнопок декодируется из available_bot_buttons
	if len(cfg.BotButtons) != 1 || !cfg.BotButtons[0].Fixed {
		t.Fatalf("каталог кнопок декодирован неверно: %+v", cfg.BotButtons)
	}
	if len(cfg.AvailableEmployees) != 1 || cfg.AvailableEmployees[0].ID != "emp-1" {
		t.Errorf("справочник сотрудников декодирован неверно: %+v", cfg.AvailableEmployees)
	}

	inherit := cfg.Users[0]
	if inherit.PermissionsOverride != nil {
		t.Errorf("null должен декодироваться в nil-указатель, получено %v", inherit.PermissionsOverride)
	}
	if inherit.FullName != "Иванова А." {
		t.Errorf("FullName = %q, display_name не декодируется", inherit.FullName)
	}

	revoked := cfg.Users[1]
	if revoked.PermissionsOverride == nil {
		t.Fatal("[] должен декодироваться в не-nil указатель")
	}
	if len(*revoked.PermissionsOverride) != 0 {
		t.Errorf("[] должен давать пустой срез, получено %v", *revoked.PermissionsOverride)
	}

	explicit := cfg.Users[2]
	if explicit.PermissionsOverride == nil || len(*explicit.PermissionsOverride) != 1 {
		t.Fatalf("непустой список декодирован неверно: %v", explicit.PermissionsOverride)
	}
	if explicit.AllowedEmployeeIDs == nil || len(*explicit.AllowedEmployeeIDs) != 2 {
		t.Errorf("allowed_employee_ids декодирован неверно: %v", explicit.AllowedEmployeeIDs)
	}
}

// TestUpdateUser_OverrideSerialization — точные имена полей и четыре
// состояния переопределения в PATCH-запросе: отсутствует / null / [] /
// список. Сравнение с сырым телом фиксирует контракт провода.
func TestUpdateUser_OverrideSerialization(t *testing.T) {
	empty := []string{}
	explicit := []string{"payouts"}
	var inherit []string // nil-срез → null
	employees := []string{"emp-7"}

	tests := []struct {
		name string
		req  UpdateUserRequest
		want string
	}{
		{
			name: "nil-указатель — поле не отправляется",
			req:  UpdateUserRequest{},
			want: `{}`,
		},
		{
			name: "указатель на nil-срез — null (сброс до наследования)",
			req:  UpdateUserRequest{PermissionsOverride: &inherit},
			want: `{"permissions":null}`,
		},
		{
			name: "указатель на пустой срез — явный отзыв",
			req:  UpdateUserRequest{PermissionsOverride: &empty},
			want: `{"permissions":[]}`,
		},
		{
			name: "непустой список — ровно этот набор",
			req:  UpdateUserRequest{PermissionsOverride: &explicit},
			want: `{"permissions":["payouts"]}`,
		},
		{
			name: "кнопки и область видимости — имена полей как у роли",
			req:  UpdateUserRequest{BotButtonsOverride: &empty, AllowedEmployeeIDs: &employees},
			want: `{"bot_buttons":[],"allowed_employee_ids":["emp-7"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotBody string
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				body, _ := io.ReadAll(r.Body)
				gotBody = string(body)
				json.NewEncoder(w).Encode(AdminUser{ID: "u1"})
			})

			if _, err := client.UpdateUser(context.Background(), "tok", "u1", tt.req); err != nil {
				t.Fatalf("UpdateUser() вернул ошибку: %v", err)
			}
			if gotBody != tt.want {
				t.Errorf("тело запроса = %s, ожидается %s", gotBody, tt.want)
			}
		})
	}
}

func TestDeleteRole_NoContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/auth/roles/r1" {
			t.Errorf("неожиданный запрос: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.DeleteRole(context.Background(), "tok", "r1"); err != nil {
		t.Errorf("DeleteRole() вернул ошибку: %v", err)
	}
}

func TestSendBroadcast(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req BroadcastRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("декодирование тела запроса: %v", err)
		}
		if req.Text != "Всем привет" {
			t.Errorf("Text = %q", req.Text)
		}
		json.NewEncoder(w).Encode(BroadcastResponse{Sent: 12, Failed: 1})
	})

	resp, err := client.SendBroadcast(context.Background(), "tok", BroadcastRequest{Text: "Всем привет"})
	if err != nil {
		t.Fatalf("SendBroadcast() вернул ошибку: %v", err)
	}
	if resp.Sent != 12 || resp.Failed != 1 {
		t.Errorf("ответ = %+v", resp)
	}
}

func TestNormalizeURL(t *testing.T) {
	client := New("https://hr-api.retailhr.lan///", time.Second, testLogger())
	if client.BaseURL() != "https://hr-api.retailhr.lan" {
		t.Errorf("BaseURL = %q, ожидается без trailing slash", client.BaseURL())
	}
}
