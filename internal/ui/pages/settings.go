package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// SettingsData — данные страницы настроек панели.
type SettingsData struct {
	Layout LayoutData
	// Theme — текущая тема панели.
	Theme string
	// Success / Error — сообщения после сохранения.
	Success string
	Error   string
}

// Settings — страница настроек: тема интерфейса.
// Выбор сохраняется в локальной базе панели и действует для всех.
func Settings(data SettingsData) templ.Component {
	return page(data.Layout, func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<h1>Настройки</h1>`); err != nil {
			return err
		}
		if err := alert(w, "success", data.Success); err != nil {
			return err
		}
		if err := alert(w, "error", data.Error); err != nil {
			return err
		}

		lightSel, darkSel := "", ""
		if data.Theme == "dark" {
			darkSel = " checked"
		} else {
			lightSel = " checked"
		}
		_, err := fmt.Fprintf(w,
			`<form method="post" action="/admin/settings"><fieldset><legend>Тема интерфейса</legend><label class="check"><input type="radio" name="theme" value="light"%s> Светлая</label><label class="check"><input type="radio" name="theme" value="dark"%s> Тёмная</label></fieldset><button type="submit">Сохранить</button></form>`,
			lightSel, darkSel,
		)
		return err
	})
}
