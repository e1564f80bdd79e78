// Пакет pages — templ-компоненты страниц админ-панели.
// Страницы рендерятся на сервере; разметка намеренно минимальная,
// логика видимости разделов приходит готовой из пакета nav.
package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/retailhr/adminka/internal/nav"
)

// LayoutData — общие данные каркаса страницы.
type LayoutData struct {
	// Title — заголовок вкладки браузера.
	Title string
	// Theme — вариант темы (light, dark).
	Theme string
	// Login — логин текущего пользователя.
	Login string
	// RoleName — название роли текущего пользователя.
	RoleName string
	// Nav — отфильтрованная по правам навигация.
	Nav []nav.Category
}

// page собирает полную страницу: каркас с навигацией вокруг body.
func page(layout LayoutData, body func(ctx context.Context, w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html lang="ru" data-theme="%s"><head><meta charset="utf-8"><title>%s — HR Admin</title><link rel="stylesheet" href="/admin/static/app.css"></head><body>`,
			templ.EscapeString(layout.Theme), templ.EscapeString(layout.Title),
		); err != nil {
			return err
		}

		if err := renderHeader(w, layout); err != nil {
			return err
		}
		if err := renderNav(w, layout.Nav); err != nil {
			return err
		}

		if _, err := io.WriteString(w, `<main class="content">`); err != nil {
			return err
		}
		if err := body(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

// renderHeader — шапка с текущим пользователем и кнопкой выхода.
func renderHeader(w io.Writer, layout LayoutData) error {
	_, err := fmt.Fprintf(w,
		`<header class="topbar"><span class="brand">HR Admin</span><span class="user">%s · %s</span><form method="post" action="/admin/logout" class="logout"><button type="submit">Выйти</button></form></header>`,
		templ.EscapeString(layout.Login), templ.EscapeString(layout.RoleName),
	)
	return err
}

// renderNav — боковая навигация по категориям.
func renderNav(w io.Writer, categories []nav.Category) error {
	if _, err := io.WriteString(w, `<nav class="sidebar">`); err != nil {
		return err
	}
	for _, cat := range categories {
		if _, err := fmt.Fprintf(w, `<div class="nav-category"><h3>%s</h3><ul>`, templ.EscapeString(cat.Title)); err != nil {
			return err
		}
		for _, e := range cat.Entries {
			class := ""
			if e.Active {
				class = ` class="active"`
			}
			if _, err := fmt.Fprintf(w, `<li%s><a href="%s">%s</a></li>`,
				class, templ.EscapeString(e.Path), templ.EscapeString(e.Label),
			); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</ul></div>`); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</nav>`)
	return err
}

// alert — блок сообщения об ошибке или успехе (kind: error, success).
func alert(w io.Writer, kind, text string) error {
	if text == "" {
		return nil
	}
	_, err := fmt.Fprintf(w, `<div class="alert alert-%s">%s</div>`,
		templ.EscapeString(kind), templ.EscapeString(text))
	return err
}
