package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// ErrorData — данные страницы ошибки.
type ErrorData struct {
	Layout LayoutData
	// Message — человекочитаемое описание проблемы.
	Message string
	// Retry — путь для повторной попытки (пустой — не показывать ссылку).
	Retry string
}

// Error — страница ошибки обращения к HR backend. Сессия при этом
// сохраняется: пользователь может повторить попытку.
func Error(data ErrorData) templ.Component {
	return page(data.Layout, func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<h1>Что-то пошло не так</h1><p class="error-message">%s</p>`,
			templ.EscapeString(data.Message),
		); err != nil {
			return err
		}
		if data.Retry != "" {
			_, err := fmt.Fprintf(w, `<p><a href="%s">Повторить</a></p>`, templ.EscapeString(data.Retry))
			return err
		}
		return nil
	})
}

// Forbidden — страница «раздел недоступен»: у пользователя нет права
// на раздел, но сессия валидна.
func Forbidden(layout LayoutData) templ.Component {
	return page(layout, func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w,
			`<h1>Раздел недоступен</h1><p>У вас нет прав для просмотра этого раздела. Если вы считаете это ошибкой, обратитесь к администратору.</p>`)
		return err
	})
}
