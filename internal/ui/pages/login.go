package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// LoginData — данные страницы входа.
type LoginData struct {
	// Theme — вариант темы.
	Theme string
	// Next — путь, на который вернуть пользователя после входа.
	Next string
	// Error — сообщение об ошибке входа (пустое — не показывать).
	Error string
}

// Login — страница входа. Рендерится вне общего каркаса:
// навигации до аутентификации нет.
func Login(data LoginData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html lang="ru" data-theme="%s"><head><meta charset="utf-8"><title>Вход — HR Admin</title><link rel="stylesheet" href="/admin/static/app.css"></head><body class="login-page">`,
			templ.EscapeString(data.Theme),
		); err != nil {
			return err
		}

		if _, err := io.WriteString(w, `<div class="login-box"><h1>HR Admin</h1>`); err != nil {
			return err
		}
		if err := alert(w, "error", data.Error); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w,
			`<form method="post" action="/admin/login"><input type="hidden" name="next" value="%s"><label>Логин<input type="text" name="login" required autofocus></label><label>Пароль<input type="password" name="password" required></label><button type="submit">Войти</button></form></div>`,
			templ.EscapeString(data.Next),
		); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}
