package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// DashboardData — данные страницы дашборда.
type DashboardData struct {
	Layout LayoutData
	// FullName — отображаемое имя пользователя.
	FullName string
	// RoleName — название роли.
	RoleName string
	// SectionsCount — число доступных разделов.
	SectionsCount int
}

// Dashboard — стартовая страница панели.
func Dashboard(data DashboardData) templ.Component {
	return page(data.Layout, func(ctx context.Context, w io.Writer) error {
		name := data.FullName
		if name == "" {
			name = data.Layout.Login
		}
		_, err := fmt.Fprintf(w,
			`<h1>Дашборд</h1><p>Здравствуйте, %s!</p><p>Ваша роль: <strong>%s</strong>. Доступных разделов: %d.</p>`,
			templ.EscapeString(name), templ.EscapeString(data.RoleName), data.SectionsCount,
		)
		return err
	})
}
