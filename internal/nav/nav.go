// Пакет nav — боковая навигация панели. Статичное дерево категорий
// фильтруется по эффективным правам пользователя: пункт без тега права
// виден всем, категория без видимых пунктов не показывается.
// Фильтрация — только удобство интерфейса; доступ к данным в любом
// случае контролирует HR backend.
package nav

import (
	"strings"

	"github.com/retailhr/adminka/internal/domain/access"
)

// Entry — пункт навигации.
type Entry struct {
	// Label — подпись пункта.
	Label string
	// Path — путь страницы.
	Path string
	// Permission — тег права, открывающего пункт. Пустой — виден всем.
	Permission string
	// Active — пункт соответствует текущей странице.
	Active bool
}

// Category — группа пунктов с заголовком.
type Category struct {
	Title   string
	Entries []Entry
}

// tree — полное дерево навигации. Порядок категорий и пунктов фиксирован.
var tree = []Category{
	{
		Title: "Обзор",
		Entries: []Entry{
			{Label: "Дашборд", Path: "/admin", Permission: "dashboard"},
		},
	},
	{
		Title: "Персонал",
		Entries: []Entry{
			{Label: "Сотрудники", Path: "/admin/employees", Permission: "employees"},
			{Label: "Отпуска", Path: "/admin/vacations", Permission: "vacations"},
			{Label: "Дни рождения", Path: "/admin/birthdays", Permission: "birthdays"},
			{Label: "Имущество", Path: "/admin/assets", Permission: "assets"},
		},
	},
	{
		Title: "Финансы",
		Entries: []Entry{
			{Label: "Выплаты", Path: "/admin/payouts", Permission: "payouts"},
			{Label: "Контроль выплат", Path: "/admin/payouts-control", Permission: "payouts-control"},
			{Label: "Штрафы и премии", Path: "/admin/incentives", Permission: "incentives"},
			{Label: "Отчёты", Path: "/admin/reports", Permission: "reports"},
		},
	},
	{
		Title: "Управление",
		Entries: []Entry{
			{Label: "Рассылка", Path: "/admin/broadcast", Permission: "broadcast"},
			{Label: "История сообщений", Path: "/admin/messages", Permission: "messages"},
			{Label: "Словарь", Path: "/admin/dictionary", Permission: "dictionary"},
			{Label: "Настройки", Path: "/admin/settings", Permission: "settings"},
			{Label: "Доступ", Path: "/admin/access", Permission: "access"},
		},
	},
}

// Visible возвращает дерево навигации, отфильтрованное по правам.
// currentPath — путь текущей страницы для пометки активного пункта.
func Visible(grants access.Grants, currentPath string) []Category {
	var result []Category
	for _, cat := range tree {
		var entries []Entry
		for _, e := range cat.Entries {
			if e.Permission != "" && !grants.HasPermission(e.Permission) {
				continue
			}
			e.Active = isActive(e.Path, currentPath)
			entries = append(entries, e)
		}
		if len(entries) == 0 {
			continue
		}
		result = append(result, Category{Title: cat.Title, Entries: entries})
	}
	return result
}

// isActive сопоставляет пункт с текущим путём. Корневой пункт /admin
// активен только при точном совпадении, прочие — по префиксу.
func isActive(entryPath, currentPath string) bool {
	if entryPath == "/admin" {
		return currentPath == "/admin" || currentPath == "/admin/"
	}
	return currentPath == entryPath || strings.HasPrefix(currentPath, entryPath+"/")
}
