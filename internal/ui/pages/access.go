package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// PermissionOption — право в чекбоксах редактора.
type PermissionOption struct {
	ID    string
	Label string
}

// ButtonOption — кнопка бота в чекбоксах редактора.
// Fixed-кнопки показываются отмеченными и заблокированными:
// снять их нельзя ни у роли, ни у пользователя.
type ButtonOption struct {
	ID    string
	Label string
	Fixed bool
}

// EmployeeOption — сотрудник в выборе области видимости.
type EmployeeOption struct {
	ID   string
	Name string
}

// AccessRoleView — роль в редакторе доступа.
type AccessRoleView struct {
	ID         string
	Name       string
	System     bool
	UsersCount int
	// Permissions / BotButtons — идентификаторы, входящие в роль.
	Permissions []string
	BotButtons  []string
}

// AccessUserView — пользователь в редакторе доступа.
type AccessUserView struct {
	ID       string
	Login    string
	FullName string
	RoleID   string
	RoleName string
	// InheritPermissions — переопределение прав не задано (наследует роль).
	InheritPermissions bool
	// Permissions — набор прав переопределения (если не наследует).
	Permissions []string
	// InheritButtons / Buttons — то же для кнопок бота.
	InheritButtons bool
	Buttons        []string
	// ScopeEmployees / ScopeDepartments — область видимости;
	// nil-семантика уже разобрана: пустые списки = без ограничений.
	ScopeAll         bool
	ScopeEmployees   []string
	ScopeDepartments []string
	// PreviewButtons — подписи кнопок, как их увидит сотрудник в боте.
	PreviewButtons []string
}

// AccessData — данные страницы «Доступ».
type AccessData struct {
	Layout      LayoutData
	Permissions []PermissionOption
	Buttons     []ButtonOption
	Roles       []AccessRoleView
	Users       []AccessUserView
	Employees   []EmployeeOption
	Departments []string
	Success     string
	Error       string
}

// Access — редактор ролей и пользователей.
func Access(data AccessData) templ.Component {
	return page(data.Layout, func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<h1>Управление доступом</h1>`); err != nil {
			return err
		}
		if err := alert(w, "success", data.Success); err != nil {
			return err
		}
		if err := alert(w, "error", data.Error); err != nil {
			return err
		}

		if err := renderRoles(w, data); err != nil {
			return err
		}
		return renderUsers(w, data)
	})
}

// renderRoles — секция ролей: список и формы редактирования.
func renderRoles(w io.Writer, data AccessData) error {
	if _, err := io.WriteString(w, `<section class="roles"><h2>Роли</h2>`); err != nil {
		return err
	}

	for _, role := range data.Roles {
		if _, err := fmt.Fprintf(w,
			`<details class="role"><summary>%s (пользователей: %d)</summary>`,
			templ.EscapeString(role.Name), role.UsersCount,
		); err != nil {
			return err
		}

		action := "/admin/access/roles/" + templ.EscapeString(role.ID)
		if _, err := fmt.Fprintf(w,
			`<form method="post" action="%s"><label>Название<input type="text" name="name" value="%s"></label>`,
			action, templ.EscapeString(role.Name),
		); err != nil {
			return err
		}
		if err := permissionChecks(w, data.Permissions, role.Permissions); err != nil {
			return err
		}
		if err := buttonChecks(w, data.Buttons, role.BotButtons); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<button type="submit">Сохранить</button></form>`); err != nil {
			return err
		}

		// Системные роли удалять нельзя
		if !role.System {
			if _, err := fmt.Fprintf(w,
				`<form method="post" action="%s/delete" class="inline"><button type="submit" class="danger">Удалить роль</button></form>`,
				action,
			); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</details>`); err != nil {
			return err
		}
	}

	// Форма создания роли
	if _, err := io.WriteString(w,
		`<details class="role-new"><summary>Новая роль</summary><form method="post" action="/admin/access/roles"><label>Название<input type="text" name="name" required></label>`,
	); err != nil {
		return err
	}
	if err := permissionChecks(w, data.Permissions, nil); err != nil {
		return err
	}
	if err := buttonChecks(w, data.Buttons, nil); err != nil {
		return err
	}
	_, err := io.WriteString(w, `<button type="submit">Создать</button></form></details></section>`)
	return err
}

// renderUsers — секция пользователей: переопределения, область
// видимости и предпросмотр меню бота.
func renderUsers(w io.Writer, data AccessData) error {
	if _, err := io.WriteString(w, `<section class="users"><h2>Пользователи</h2>`); err != nil {
		return err
	}

	for _, user := range data.Users {
		title := user.Login
		if user.FullName != "" {
			title = fmt.Sprintf("%s (%s)", user.FullName, user.Login)
		}
		if _, err := fmt.Fprintf(w,
			`<details class="user"><summary>%s — %s</summary>`,
			templ.EscapeString(title), templ.EscapeString(user.RoleName),
		); err != nil {
			return err
		}

		action := "/admin/access/users/" + templ.EscapeString(user.ID)
		if _, err := fmt.Fprintf(w, `<form method="post" action="%s">`, action); err != nil {
			return err
		}

		// Роль
		if _, err := io.WriteString(w, `<label>Роль<select name="role_id"><option value="">— без роли —</option>`); err != nil {
			return err
		}
		for _, role := range data.Roles {
			sel := ""
			if role.ID == user.RoleID {
				sel = " selected"
			}
			if _, err := fmt.Fprintf(w, `<option value="%s"%s>%s</option>`,
				templ.EscapeString(role.ID), sel, templ.EscapeString(role.Name)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</select></label>`); err != nil {
			return err
		}

		// Переопределение прав: наследование или свой набор
		if err := overrideModeRadio(w, "permissions_mode", user.InheritPermissions); err != nil {
			return err
		}
		if err := permissionChecks(w, data.Permissions, user.Permissions); err != nil {
			return err
		}

		// Переопределение кнопок бота
		if err := overrideModeRadio(w, "buttons_mode", user.InheritButtons); err != nil {
			return err
		}
		if err := buttonChecks(w, data.Buttons, user.Buttons); err != nil {
			return err
		}

		// Область видимости
		if err := scopeFields(w, data, user); err != nil {
			return err
		}

		if _, err := io.WriteString(w, `<button type="submit">Сохранить</button></form>`); err != nil {
			return err
		}

		// Предпросмотр меню бота
		if err := botPreview(w, user.PreviewButtons); err != nil {
			return err
		}

		if _, err := fmt.Fprintf(w,
			`<form method="post" action="%s/delete" class="inline"><button type="submit" class="danger">Удалить пользователя</button></form></details>`,
			action,
		); err != nil {
			return err
		}
	}

	// Форма создания пользователя
	if _, err := io.WriteString(w,
		`<details class="user-new"><summary>Новый пользователь</summary><form method="post" action="/admin/access/users"><label>Логин<input type="text" name="login" required></label><label>Пароль<input type="password" name="password" required></label><label>Роль<select name="role_id"><option value="">— без роли —</option>`,
	); err != nil {
		return err
	}
	for _, role := range data.Roles {
		if _, err := fmt.Fprintf(w, `<option value="%s">%s</option>`,
			templ.EscapeString(role.ID), templ.EscapeString(role.Name)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</select></label><button type="submit">Создать</button></form></details></section>`)
	return err
}

// overrideModeRadio — переключатель «наследовать роль / свой набор».
func overrideModeRadio(w io.Writer, name string, inherit bool) error {
	inheritChecked, customChecked := "", " checked"
	if inherit {
		inheritChecked, customChecked = " checked", ""
	}
	_, err := fmt.Fprintf(w,
		`<div class="override-mode"><label class="check"><input type="radio" name="%s" value="inherit"%s> Наследовать роль</label><label class="check"><input type="radio" name="%s" value="custom"%s> Свой набор</label></div>`,
		name, inheritChecked, name, customChecked,
	)
	return err
}

// permissionChecks — чекбоксы прав каталога.
func permissionChecks(w io.Writer, options []PermissionOption, selected []string) error {
	set := make(map[string]bool, len(selected))
	for _, id := range selected {
		set[id] = true
	}

	if _, err := io.WriteString(w, `<fieldset><legend>Права</legend>`); err != nil {
		return err
	}
	for _, opt := range options {
		checked := ""
		if set[opt.ID] {
			checked = " checked"
		}
		if _, err := fmt.Fprintf(w,
			`<label class="check"><input type="checkbox" name="permissions" value="%s"%s> %s</label>`,
			templ.EscapeString(opt.ID), checked, templ.EscapeString(opt.Label),
		); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</fieldset>`)
	return err
}

// buttonChecks — чекбоксы кнопок бота. Fixed-кнопки отмечены
// и заблокированы.
func buttonChecks(w io.Writer, options []ButtonOption, selected []string) error {
	set := make(map[string]bool, len(selected))
	for _, id := range selected {
		set[id] = true
	}

	if _, err := io.WriteString(w, `<fieldset><legend>Кнопки бота</legend>`); err != nil {
		return err
	}
	for _, opt := range options {
		attrs := ""
		if opt.Fixed {
			// disabled-чекбокс не попадает в POST: значение дублируется
			// скрытым полем, чтобы сохранённый набор совпадал с показанным
			attrs = " checked disabled"
			if _, err := fmt.Fprintf(w,
				`<input type="hidden" name="bot_buttons" value="%s">`,
				templ.EscapeString(opt.ID),
			); err != nil {
				return err
			}
		} else if set[opt.ID] {
			attrs = " checked"
		}
		if _, err := fmt.Fprintf(w,
			`<label class="check"><input type="checkbox" name="bot_buttons" value="%s"%s> %s</label>`,
			templ.EscapeString(opt.ID), attrs, templ.EscapeString(opt.Label),
		); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</fieldset>`)
	return err
}

// scopeFields — область видимости пользователя: сотрудники и отделы.
func scopeFields(w io.Writer, data AccessData, user AccessUserView) error {
	allChecked, limitedChecked := " checked", ""
	if !user.ScopeAll {
		allChecked, limitedChecked = "", " checked"
	}
	if _, err := fmt.Fprintf(w,
		`<fieldset><legend>Область видимости</legend><label class="check"><input type="radio" name="scope_mode" value="all"%s> Все сотрудники</label><label class="check"><input type="radio" name="scope_mode" value="limited"%s> Ограничить</label>`,
		allChecked, limitedChecked,
	); err != nil {
		return err
	}

	empSet := make(map[string]bool, len(user.ScopeEmployees))
	for _, id := range user.ScopeEmployees {
		empSet[id] = true
	}
	if _, err := io.WriteString(w, `<select name="scope_employees" multiple>`); err != nil {
		return err
	}
	for _, emp := range data.Employees {
		sel := ""
		if empSet[emp.ID] {
			sel = " selected"
		}
		if _, err := fmt.Fprintf(w, `<option value="%s"%s>%s</option>`,
			templ.EscapeString(emp.ID), sel, templ.EscapeString(emp.Name)); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, `</select>`); err != nil {
		return err
	}

	depSet := make(map[string]bool, len(user.ScopeDepartments))
	for _, d := range user.ScopeDepartments {
		depSet[d] = true
	}
	for _, dep := range data.Departments {
		checked := ""
		if depSet[dep] {
			checked = " checked"
		}
		if _, err := fmt.Fprintf(w,
			`<label class="check"><input type="checkbox" name="scope_departments" value="%s"%s> %s</label>`,
			templ.EscapeString(dep), checked, templ.EscapeString(dep),
		); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</fieldset>`)
	return err
}

// botPreview — мобильный макет клавиатуры бота: как сотрудник
// увидит свои кнопки после сохранения.
func botPreview(w io.Writer, labels []string) error {
	if _, err := io.WriteString(w, `<div class="bot-preview"><h4>Меню в боте</h4><div class="bot-keyboard">`); err != nil {
		return err
	}
	for _, label := range labels {
		if _, err := fmt.Fprintf(w, `<span class="bot-key">%s</span>`, templ.EscapeString(label)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</div></div>`)
	return err
}
