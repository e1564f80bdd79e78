package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// TestSessionEncryptDecryptRoundTrip проверяет шифрование и дешифрование SessionData.
func TestSessionEncryptDecryptRoundTrip(t *testing.T) {
	sm, err := NewSessionManager("", false)
	if err != nil {
		t.Fatalf("Ошибка создания SessionManager: %v", err)
	}

	original := &SessionData{
		Token:       "hr-token-12345",
		UserID:      "u1",
		Login:       "admin",
		FullName:    "Иванова А.П.",
		RoleName:    "Владелец",
		Permissions: []string{"*"},
		BotButtons:  []string{"common.home"},
		RefreshedAt: time.Now().Unix(),
	}

	// Шифруем
	encrypted, err := sm.Encrypt(original)
	if err != nil {
		t.Fatalf("Ошибка шифрования: %v", err)
	}

	if encrypted == "" {
		t.Fatal("Зашифрованная строка пустая")
	}

	// Дешифруем
	decrypted, err := sm.Decrypt(encrypted)
	if err != nil {
		t.Fatalf("Ошибка дешифрования: %v", err)
	}

	// Сравниваем поля
	if decrypted.Token != original.Token {
		t.Errorf("Token: want %q, got %q", original.Token, decrypted.Token)
	}
	if decrypted.UserID != original.UserID {
		t.Errorf("UserID: want %q, got %q", original.UserID, decrypted.UserID)
	}
	if decrypted.Login != original.Login {
		t.Errorf("Login: want %q, got %q", original.Login, decrypted.Login)
	}
	if decrypted.RoleName != original.RoleName {
		t.Errorf("RoleName: want %q, got %q", original.RoleName, decrypted.RoleName)
	}
	if decrypted.RefreshedAt != original.RefreshedAt {
		t.Errorf("RefreshedAt: want %d, got %d", original.RefreshedAt, decrypted.RefreshedAt)
	}
	if len(decrypted.Permissions) != len(original.Permissions) {
		t.Errorf("Permissions length: want %d, got %d", len(original.Permissions), len(decrypted.Permissions))
	}
	if len(decrypted.BotButtons) != len(original.BotButtons) {
		t.Errorf("BotButtons length: want %d, got %d", len(original.BotButtons), len(decrypted.BotButtons))
	}
}

// TestSessionManagerWithStringKey проверяет инициализацию с произвольной строкой-ключом.
func TestSessionManagerWithStringKey(t *testing.T) {
	sm, err := NewSessionManager("my-secret-key-for-testing", false)
	if err != nil {
		t.Fatalf("Ошибка создания SessionManager с string-ключом: %v", err)
	}

	data := &SessionData{
		Token: "token123",
		Login: "user",
	}

	encrypted, err := sm.Encrypt(data)
	if err != nil {
		t.Fatalf("Ошибка шифрования: %v", err)
	}

	decrypted, err := sm.Decrypt(encrypted)
	if err != nil {
		t.Fatalf("Ошибка дешифрования: %v", err)
	}

	if decrypted.Token != data.Token {
		t.Errorf("Token: want %q, got %q", data.Token, decrypted.Token)
	}
}

// TestSessionDecryptWithWrongKey проверяет, что дешифрование чужим ключом не работает.
func TestSessionDecryptWithWrongKey(t *testing.T) {
	sm1, _ := NewSessionManager("key-one", false)
	sm2, _ := NewSessionManager("key-two", false)

	data := &SessionData{Token: "secret"}
	encrypted, err := sm1.Encrypt(data)
	if err != nil {
		t.Fatalf("Ошибка шифрования: %v", err)
	}

	// Попытка дешифрования другим ключом должна завершиться ошибкой
	_, err = sm2.Decrypt(encrypted)
	if err == nil {
		t.Error("Ожидалась ошибка при дешифровании чужим ключом")
	}
}

// TestSessionIsStale проверяет логику устаревания снимка профиля.
func TestSessionIsStale(t *testing.T) {
	ttl := 5 * time.Minute

	// Снимок, сделанный только что — свежий
	fresh := &SessionData{RefreshedAt: time.Now().Unix()}
	if fresh.IsStale(ttl) {
		t.Error("Ожидалось IsStale()=false для свежего снимка")
	}

	// Снимок старше TTL — устарел
	stale := &SessionData{RefreshedAt: time.Now().Add(-10 * time.Minute).Unix()}
	if !stale.IsStale(ttl) {
		t.Error("Ожидалось IsStale()=true для устаревшего снимка")
	}
}

// TestSessionCookieSetAndGet проверяет установку и извлечение cookie.
func TestSessionCookieSetAndGet(t *testing.T) {
	sm, _ := NewSessionManager("test-key", false)

	data := &SessionData{
		Token:       "hr-token-123",
		Login:       "admin",
		RoleName:    "Владелец",
		RefreshedAt: time.Now().Unix(),
	}

	// Устанавливаем cookie
	w := httptest.NewRecorder()
	if err := sm.SetSessionCookie(w, data); err != nil {
		t.Fatalf("Ошибка установки cookie: %v", err)
	}

	// Извлекаем cookie из response и создаём request с ним
	resp := w.Result()
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		t.Fatal("Cookie не установлен")
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.AddCookie(cookies[0])

	// Читаем сессию из request
	got, err := sm.GetSessionFromRequest(req)
	if err != nil {
		t.Fatalf("Ошибка чтения сессии из cookie: %v", err)
	}
	if got == nil {
		t.Fatal("Сессия не найдена")
	}
	if got.Token != data.Token {
		t.Errorf("Token: want %q, got %q", data.Token, got.Token)
	}
	if got.Login != data.Login {
		t.Errorf("Login: want %q, got %q", data.Login, got.Login)
	}

	// Проверяем атрибуты cookie
	cookie := cookies[0]
	if cookie.Name != SessionCookieName {
		t.Errorf("Cookie name: want %q, got %q", SessionCookieName, cookie.Name)
	}
	if cookie.Path != "/admin" {
		t.Errorf("Cookie path: want %q, got %q", "/admin", cookie.Path)
	}
	if !cookie.HttpOnly {
		t.Error("Cookie должен быть HttpOnly")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Error("Cookie должен быть SameSite=Lax")
	}
}

// TestSessionCookieMissing проверяет, что отсутствие cookie возвращает nil, nil.
func TestSessionCookieMissing(t *testing.T) {
	sm, _ := NewSessionManager("test-key", false)

	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	data, err := sm.GetSessionFromRequest(req)
	if err != nil {
		t.Fatalf("Ожидалось nil error, получено: %v", err)
	}
	if data != nil {
		t.Error("Ожидалось nil data при отсутствии cookie")
	}
}

// TestSessionCookieCorrupted проверяет, что повреждённый cookie даёт ошибку.
func TestSessionCookieCorrupted(t *testing.T) {
	sm, _ := NewSessionManager("test-key", false)

	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "not-a-valid-session"})

	_, err := sm.GetSessionFromRequest(req)
	if err == nil {
		t.Error("Ожидалась ошибка при повреждённом cookie")
	}
}

// TestClearSessionCookie проверяет очистку session cookie.
func TestClearSessionCookie(t *testing.T) {
	sm, _ := NewSessionManager("test-key", false)

	w := httptest.NewRecorder()
	sm.ClearSessionCookie(w)

	resp := w.Result()
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		t.Fatal("Cookie очистки не установлен")
	}

	cookie := cookies[0]
	if cookie.MaxAge != -1 {
		t.Errorf("MaxAge: want -1, got %d", cookie.MaxAge)
	}
	if cookie.Value != "" {
		t.Error("Value должен быть пустым")
	}

	// Повторная очистка — идемпотентна
	sm.ClearSessionCookie(w)
}
