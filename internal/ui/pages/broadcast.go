package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// BroadcastData — данные страницы рассылки.
type BroadcastData struct {
	Layout LayoutData
	// DraftText — сохранённый черновик сообщения.
	DraftText string
	// DraftDepartments — отделы из черновика.
	DraftDepartments []string
	// Departments — все известные отделы для выбора.
	Departments []string
	// Success — сообщение об успешной отправке.
	Success string
	// Error — сообщение об ошибке.
	Error string
}

// Broadcast — страница рассылки сообщений сотрудникам.
// Черновик сохраняется в локальной базе панели и переживает рестарты;
// успешная отправка его удаляет.
func Broadcast(data BroadcastData) templ.Component {
	return page(data.Layout, func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<h1>Рассылка</h1>`); err != nil {
			return err
		}
		if err := alert(w, "success", data.Success); err != nil {
			return err
		}
		if err := alert(w, "error", data.Error); err != nil {
			return err
		}

		if _, err := fmt.Fprintf(w,
			`<form method="post" action="/admin/broadcast"><label>Текст сообщения<textarea name="text" rows="6" required>%s</textarea></label>`,
			templ.EscapeString(data.DraftText),
		); err != nil {
			return err
		}

		// Выбор отделов: пустой выбор — рассылка всем
		if _, err := io.WriteString(w, `<fieldset><legend>Отделы (пусто — всем)</legend>`); err != nil {
			return err
		}
		selected := make(map[string]bool, len(data.DraftDepartments))
		for _, d := range data.DraftDepartments {
			selected[d] = true
		}
		for _, dep := range data.Departments {
			checked := ""
			if selected[dep] {
				checked = " checked"
			}
			if _, err := fmt.Fprintf(w,
				`<label class="check"><input type="checkbox" name="departments" value="%s"%s> %s</label>`,
				templ.EscapeString(dep), checked, templ.EscapeString(dep),
			); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</fieldset>`); err != nil {
			return err
		}

		_, err := io.WriteString(w,
			`<button type="submit" name="action" value="send">Отправить</button> <button type="submit" name="action" value="draft">Сохранить черновик</button></form>`)
		return err
	})
}
