package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// EntityListData — данные табличной страницы раздела.
// Все справочные разделы (сотрудники, выплаты, отпуска, имущество,
// штрафы и премии, история сообщений) рендерятся одной таблицей:
// источник данных — HR backend, панель ничего не агрегирует.
type EntityListData struct {
	Layout LayoutData
	// Title — заголовок раздела.
	Title string
	// Columns — заголовки столбцов.
	Columns []string
	// Rows — строки таблицы.
	Rows [][]string
	// Empty — текст при отсутствии данных.
	Empty string
}

// EntityList — табличная страница раздела.
func EntityList(data EntityListData) templ.Component {
	return page(data.Layout, func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<h1>%s</h1>`, templ.EscapeString(data.Title)); err != nil {
			return err
		}

		if len(data.Rows) == 0 {
			empty := data.Empty
			if empty == "" {
				empty = "Нет данных"
			}
			_, err := fmt.Fprintf(w, `<p class="empty">%s</p>`, templ.EscapeString(empty))
			return err
		}

		if _, err := io.WriteString(w, `<table class="list"><thead><tr>`); err != nil {
			return err
		}
		for _, col := range data.Columns {
			if _, err := fmt.Fprintf(w, `<th>%s</th>`, templ.EscapeString(col)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</tr></thead><tbody>`); err != nil {
			return err
		}
		for _, row := range data.Rows {
			if _, err := io.WriteString(w, `<tr>`); err != nil {
				return err
			}
			for _, cell := range row {
				if _, err := fmt.Fprintf(w, `<td>%s</td>`, templ.EscapeString(cell)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</tr>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</tbody></table>`)
		return err
	})
}
