package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/retailhr/adminka/internal/ui/auth"
	uimiddleware "github.com/retailhr/adminka/internal/ui/middleware"
)

func settingsSession() *auth.SessionData {
	return &auth.SessionData{
		Token: "tok-1", Login: "admin",
		Permissions: []string{"settings"},
		RefreshedAt: time.Now().Unix(),
	}
}

func TestSettings_СменаТемы(t *testing.T) {
	sm, err := auth.NewSessionManager("test-secret", false)
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	repo := newFakeSettingsRepo()
	base := NewBase(sm, repo, "light", slog.Default())
	handler := NewSettingsHandler(base, repo, slog.Default())

	form := url.Values{"theme": {"dark"}}
	r := httptest.NewRequest("POST", "/admin/settings", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r = r.WithContext(context.WithValue(r.Context(), uimiddleware.ContextKeyUISession, settingsSession()))
	w := httptest.NewRecorder()

	handler.HandleSettingsSave(w, r)

	if w.Code != http.StatusFound {
		t.Fatalf("статус = %d", w.Code)
	}
	if got := base.Theme(context.Background()); got != "dark" {
		t.Errorf("тема после сохранения = %q", got)
	}

	// Страница отражает выбранную тему
	r2 := httptest.NewRequest("GET", "/admin/settings?ok=1", nil)
	r2 = r2.WithContext(context.WithValue(r2.Context(), uimiddleware.ContextKeyUISession, settingsSession()))
	w2 := httptest.NewRecorder()
	handler.HandleSettingsPage(w2, r2)

	body := w2.Body.String()
	if !strings.Contains(body, `data-theme="dark"`) {
		t.Error("каркас не использует сохранённую тему")
	}
	if !strings.Contains(body, "Настройки сохранены") {
		t.Error("нет сообщения об успехе")
	}
}

func TestSettings_НеизвестнаяТема(t *testing.T) {
	sm, _ := auth.NewSessionManager("test-secret", false)
	repo := newFakeSettingsRepo()
	base := NewBase(sm, repo, "light", slog.Default())
	handler := NewSettingsHandler(base, repo, slog.Default())

	form := url.Values{"theme": {"neon"}}
	r := httptest.NewRequest("POST", "/admin/settings", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r = r.WithContext(context.WithValue(r.Context(), uimiddleware.ContextKeyUISession, settingsSession()))
	w := httptest.NewRecorder()

	handler.HandleSettingsSave(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("статус = %d, ожидалась перерисовка формы", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Неизвестная тема") {
		t.Error("нет сообщения об ошибке")
	}
	if got := base.Theme(context.Background()); got != "light" {
		t.Errorf("тема не должна меняться, got %q", got)
	}
}
