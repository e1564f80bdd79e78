package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/retailhr/adminka/internal/hrapi"
	"github.com/retailhr/adminka/internal/ui/auth"
	uimiddleware "github.com/retailhr/adminka/internal/ui/middleware"
)

// requestWithSession — GET-запрос с сессией в контексте,
// как после прохождения route guard.
func requestWithSession(path string, session *auth.SessionData) *http.Request {
	r := httptest.NewRequest("GET", path, nil)
	ctx := context.WithValue(r.Context(), uimiddleware.ContextKeyUISession, session)
	return r.WithContext(ctx)
}

// newEntityHandler — EntityHandler поверх httptest-backend'а.
func newEntityHandler(t *testing.T, backend http.Handler) *EntityHandler {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	api := hrapi.New(srv.URL, 5*time.Second, slog.Default())
	base, _ := newTestBase(t)
	return NewEntityHandler(base, api, slog.Default())
}

func TestHandleEmployees_Таблица(t *testing.T) {
	handler := newEntityHandler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/employees" {
			t.Errorf("неожиданный путь %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("Authorization = %q", got)
		}
		_ = json.NewEncoder(w).Encode([]hrapi.Employee{
			{ID: 1, FullName: "Иванова А.", Position: "Кассир", Department: "Магазин №3"},
		})
	}))

	session := &auth.SessionData{
		Token: "tok-1", Login: "admin", Permissions: []string{"employees"},
		RefreshedAt: time.Now().Unix(),
	}
	w := httptest.NewRecorder()
	handler.HandleEmployees(w, requestWithSession("/admin/employees", session))

	if w.Code != http.StatusOK {
		t.Fatalf("статус = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Иванова А.") || !strings.Contains(body, "Магазин №3") {
		t.Error("данные сотрудника не отрендерены")
	}
}

func TestHandleEmployees_НетПрава(t *testing.T) {
	backendCalled := false
	handler := newEntityHandler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backendCalled = true
	}))

	session := &auth.SessionData{
		Token: "tok-1", Login: "viewer", Permissions: []string{"dashboard"},
		RefreshedAt: time.Now().Unix(),
	}
	w := httptest.NewRecorder()
	handler.HandleEmployees(w, requestWithSession("/admin/employees", session))

	if w.Code != http.StatusForbidden {
		t.Fatalf("статус = %d, ожидалось 403", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Раздел недоступен") {
		t.Error("нет страницы «раздел недоступен»")
	}
	if backendCalled {
		t.Error("backend не должен вызываться без права")
	}
}

func TestHandleEmployees_Wildcard(t *testing.T) {
	handler := newEntityHandler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]hrapi.Employee{})
	}))

	session := &auth.SessionData{
		Token: "tok-1", Login: "root", Permissions: []string{"*"},
		RefreshedAt: time.Now().Unix(),
	}
	w := httptest.NewRecorder()
	handler.HandleEmployees(w, requestWithSession("/admin/employees", session))

	if w.Code != http.StatusOK {
		t.Fatalf("wildcard должен открывать раздел, статус = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Нет данных") {
		t.Error("нет заглушки пустого списка")
	}
}

func TestHandleEmployees_ТокенОтвергнут(t *testing.T) {
	handler := newEntityHandler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	session := &auth.SessionData{
		Token: "dead", Login: "admin", Permissions: []string{"employees"},
		RefreshedAt: time.Now().Unix(),
	}
	w := httptest.NewRecorder()
	handler.HandleEmployees(w, requestWithSession("/admin/employees", session))

	if w.Code != http.StatusFound {
		t.Fatalf("статус = %d, ожидался redirect на вход", w.Code)
	}
	loc := w.Header().Get("Location")
	if !strings.HasPrefix(loc, "/admin/login?next=") {
		t.Errorf("redirect = %q", loc)
	}
}

func TestHandleEmployees_BackendНедоступен(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	api := hrapi.New(srv.URL, time.Second, slog.Default())
	base, _ := newTestBase(t)
	handler := NewEntityHandler(base, api, slog.Default())

	session := &auth.SessionData{
		Token: "tok-1", Login: "admin", Permissions: []string{"employees"},
		RefreshedAt: time.Now().Unix(),
	}
	w := httptest.NewRecorder()
	handler.HandleEmployees(w, requestWithSession("/admin/employees", session))

	// Сессия сохраняется, показывается страница ошибки с повтором
	if w.Code != http.StatusBadGateway {
		t.Fatalf("статус = %d, ожидалось 502", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Повторить") {
		t.Error("нет ссылки повторной попытки")
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.SessionCookieName && c.MaxAge < 0 {
			t.Error("сессия не должна сбрасываться при сетевой ошибке")
		}
	}
}

func TestHandlePayoutsControl_ФильтруетОплаченные(t *testing.T) {
	handler := newEntityHandler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]hrapi.Payout{
			{ID: 1, Employee: "Иванова А.", Amount: "50000", Status: "paid", Period: "2026-08"},
			{ID: 2, Employee: "Петров Б.", Amount: "48000", Status: "pending", Period: "2026-08"},
		})
	}))

	session := &auth.SessionData{
		Token: "tok-1", Login: "admin", Permissions: []string{"payouts-control"},
		RefreshedAt: time.Now().Unix(),
	}
	w := httptest.NewRecorder()
	handler.HandlePayoutsControl(w, requestWithSession("/admin/payouts-control", session))

	body := w.Body.String()
	if strings.Contains(body, "Иванова А.") {
		t.Error("оплаченная выплата не должна попадать в контроль")
	}
	if !strings.Contains(body, "Петров Б.") {
		t.Error("неоплаченная выплата отсутствует")
	}
}

func TestHandleReports_СводкаПоПериодам(t *testing.T) {
	handler := newEntityHandler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]hrapi.Payout{
			{ID: 1, Status: "paid", Period: "2026-07"},
			{ID: 2, Status: "paid", Period: "2026-08"},
			{ID: 3, Status: "pending", Period: "2026-08"},
		})
	}))

	session := &auth.SessionData{
		Token: "tok-1", Login: "admin", Permissions: []string{"reports"},
		RefreshedAt: time.Now().Unix(),
	}
	w := httptest.NewRecorder()
	handler.HandleReports(w, requestWithSession("/admin/reports", session))

	body := w.Body.String()
	// Свежий период первым
	if strings.Index(body, "2026-08") > strings.Index(body, "2026-07") {
		t.Error("периоды не отсортированы по убыванию")
	}
	if !strings.Contains(body, "<td>2</td>") {
		t.Error("итог за 2026-08 не совпадает")
	}
}
