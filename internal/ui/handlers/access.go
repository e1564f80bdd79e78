// access.go — редактор доступа: роли, пользователи панели,
// персональные переопределения и область видимости.
// Вся истина о правах живёт на HR backend; панель отправляет изменения
// и после каждого — перечитывает собственный снимок профиля,
// чтобы навигация отразила возможную смену своих же прав.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/retailhr/adminka/internal/domain/access"
	"github.com/retailhr/adminka/internal/hrapi"
	"github.com/retailhr/adminka/internal/identity"
	"github.com/retailhr/adminka/internal/ui/auth"
	uimiddleware "github.com/retailhr/adminka/internal/ui/middleware"
	"github.com/retailhr/adminka/internal/ui/pages"
)

// accessPermission — право раздела «Доступ».
const accessPermission = "access"

// AccessHandler — обработчики редактора доступа.
type AccessHandler struct {
	base     *Base
	api      *hrapi.Client
	resolver *identity.Resolver
	logger   *slog.Logger
}

// NewAccessHandler создаёт новый AccessHandler.
func NewAccessHandler(base *Base, api *hrapi.Client, resolver *identity.Resolver, logger *slog.Logger) *AccessHandler {
	return &AccessHandler{
		base:     base,
		api:      api,
		resolver: resolver,
		logger:   logger.With(slog.String("component", "ui_access")),
	}
}

// HandleAccessPage — GET /admin/access.
func (h *AccessHandler) HandleAccessPage(w http.ResponseWriter, r *http.Request) {
	session, ok := h.guard(w, r)
	if !ok {
		return
	}

	config, err := h.api.AccessConfig(r.Context(), session.Token)
	if err != nil {
		h.base.HandleAPIError(w, r, session, err, "Управление доступом")
		return
	}

	data := buildAccessData(config, h.base.Layout(r, session, "Управление доступом"))
	data.Success = r.URL.Query().Get("ok")
	data.Error = r.URL.Query().Get("err")

	h.base.Render(w, r, pages.Access(data))
}

// HandleRoleCreate — POST /admin/access/roles.
func (h *AccessHandler) HandleRoleCreate(w http.ResponseWriter, r *http.Request) {
	session, ok := h.guard(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Некорректная форма", http.StatusBadRequest)
		return
	}

	req := hrapi.CreateRoleRequest{
		Name:        r.PostFormValue("name"),
		Permissions: formList(r, "permissions"),
		BotButtons:  formList(r, "bot_buttons"),
	}
	_, err := h.api.CreateRole(r.Context(), session.Token, req)
	h.finishMutation(w, r, session, err, "Роль создана")
}

// HandleRoleUpdate — POST /admin/access/roles/{id}.
func (h *AccessHandler) HandleRoleUpdate(w http.ResponseWriter, r *http.Request) {
	session, ok := h.guard(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Некорректная форма", http.StatusBadRequest)
		return
	}

	name := r.PostFormValue("name")
	permissions := formList(r, "permissions")
	buttons := formList(r, "bot_buttons")
	req := hrapi.UpdateRoleRequest{
		Name:        &name,
		Permissions: &permissions,
		BotButtons:  &buttons,
	}
	_, err := h.api.UpdateRole(r.Context(), session.Token, chi.URLParam(r, "id"), req)
	h.finishMutation(w, r, session, err, "Роль сохранена")
}

// HandleRoleDelete — POST /admin/access/roles/{id}/delete.
// Пользователи удалённой роли остаются без базовых прав; их эффективный
// набор пересчитает backend.
func (h *AccessHandler) HandleRoleDelete(w http.ResponseWriter, r *http.Request) {
	session, ok := h.guard(w, r)
	if !ok {
		return
	}

	err := h.api.DeleteRole(r.Context(), session.Token, chi.URLParam(r, "id"))
	h.finishMutation(w, r, session, err, "Роль удалена")
}

// HandleUserCreate — POST /admin/access/users.
func (h *AccessHandler) HandleUserCreate(w http.ResponseWriter, r *http.Request) {
	session, ok := h.guard(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Некорректная форма", http.StatusBadRequest)
		return
	}

	req := hrapi.CreateUserRequest{
		Login:    r.PostFormValue("login"),
		Password: r.PostFormValue("password"),
		RoleID:   r.PostFormValue("role_id"),
	}
	_, err := h.api.CreateUser(r.Context(), session.Token, req)
	h.finishMutation(w, r, session, err, "Пользователь создан")
}

// HandleUserUpdate — POST /admin/access/users/{id}.
// Форма всегда описывает полное состояние пользователя, поэтому
// переопределения отправляются явно: null — наследовать роль,
// список (возможно пустой) — ровно этот набор.
func (h *AccessHandler) HandleUserUpdate(w http.ResponseWriter, r *http.Request) {
	session, ok := h.guard(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Некорректная форма", http.StatusBadRequest)
		return
	}

	roleID := r.PostFormValue("role_id")
	req := hrapi.UpdateUserRequest{
		RoleID:              &roleID,
		PermissionsOverride: overrideFromForm(r, "permissions_mode", "permissions"),
		BotButtonsOverride:  overrideFromForm(r, "buttons_mode", "bot_buttons"),
	}
	req.AllowedEmployeeIDs, req.AllowedDepartments = scopeFromForm(r)

	_, err := h.api.UpdateUser(r.Context(), session.Token, chi.URLParam(r, "id"), req)
	h.finishMutation(w, r, session, err, "Пользователь сохранён")
}

// HandleUserDelete — POST /admin/access/users/{id}/delete.
func (h *AccessHandler) HandleUserDelete(w http.ResponseWriter, r *http.Request) {
	session, ok := h.guard(w, r)
	if !ok {
		return
	}

	err := h.api.DeleteUser(r.Context(), session.Token, chi.URLParam(r, "id"))
	h.finishMutation(w, r, session, err, "Пользователь удалён")
}

// guard — общая проверка раздела: сессия и право "access".
func (h *AccessHandler) guard(w http.ResponseWriter, r *http.Request) (*auth.SessionData, bool) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/admin/login", http.StatusFound)
		return nil, false
	}
	if !sessionGrants(session).HasPermission(accessPermission) {
		h.base.RenderForbidden(w, r, session, "Управление доступом")
		return nil, false
	}
	return session, true
}

// finishMutation — общее завершение изменения: обработка ошибки,
// обновление собственного снимка профиля и redirect на редактор.
func (h *AccessHandler) finishMutation(
	w http.ResponseWriter,
	r *http.Request,
	session *auth.SessionData,
	err error,
	successMessage string,
) {
	if err != nil {
		if errors.Is(err, hrapi.ErrSessionExpired) {
			h.base.RedirectToLogin(w, r)
			return
		}
		h.logger.Error("Ошибка изменения доступа",
			slog.String("login", session.Login),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		message := "Не удалось сохранить изменения"
		var statusErr *hrapi.StatusError
		if errors.As(err, &statusErr) && statusErr.Detail != "" {
			message = statusErr.Detail
		}
		http.Redirect(w, r, "/admin/access?err="+url.QueryEscape(message), http.StatusFound)
		return
	}

	// Изменение могло затронуть права текущего пользователя —
	// снимок сессии обновляется немедленно, не дожидаясь TTL
	h.refreshOwnSession(r.Context(), w, session)

	h.logger.Info("Доступ изменён",
		slog.String("login", session.Login),
		slog.String("path", r.URL.Path),
	)
	http.Redirect(w, r, "/admin/access?ok="+url.QueryEscape(successMessage), http.StatusFound)
}

// refreshOwnSession перечитывает собственный профиль и переустанавливает
// cookie. Ошибки не фатальны: снимок обновится по TTL.
func (h *AccessHandler) refreshOwnSession(ctx context.Context, w http.ResponseWriter, session *auth.SessionData) {
	user, err := h.resolver.Resolve(ctx, session.Token)
	if err != nil {
		h.logger.Warn("Не удалось обновить собственный снимок профиля",
			slog.String("login", session.Login),
			slog.String("error", err.Error()),
		)
		return
	}

	refreshed := &auth.SessionData{
		Token:       session.Token,
		UserID:      user.ID,
		Login:       user.Login,
		FullName:    user.FullName,
		RoleName:    user.RoleName,
		Permissions: user.Grants.Permissions,
		BotButtons:  user.Grants.BotButtons,
		RefreshedAt: time.Now().Unix(),
	}
	if err := h.base.sessionManager.SetSessionCookie(w, refreshed); err != nil {
		h.logger.Warn("Ошибка переустановки session cookie", slog.String("error", err.Error()))
	}
}

// buildAccessData переводит ответ backend'а в данные страницы,
// вычисляя для каждого пользователя предпросмотр меню бота.
func buildAccessData(config *hrapi.AccessConfig, layout pages.LayoutData) pages.AccessData {
	catalog := access.Catalog{
		Permissions: make([]access.Permission, 0, len(config.AvailablePermissions)),
		BotButtons:  make([]access.BotButton, 0, len(config.BotButtons)),
	}
	permissions := make([]pages.PermissionOption, 0, len(config.AvailablePermissions))
	for _, p := range config.AvailablePermissions {
		catalog.Permissions = append(catalog.Permissions, access.Permission{ID: p.ID, Label: p.Label})
		permissions = append(permissions, pages.PermissionOption{ID: p.ID, Label: p.Label})
	}
	buttons := make([]pages.ButtonOption, 0, len(config.BotButtons))
	for _, b := range config.BotButtons {
		catalog.BotButtons = append(catalog.BotButtons, access.BotButton{
			ID: b.ID, Label: b.Label, Text: b.Text, Scope: b.Scope, Fixed: b.Fixed,
		})
		buttons = append(buttons, pages.ButtonOption{ID: b.ID, Label: b.Label, Fixed: b.Fixed})
	}

	rolesByID := make(map[string]*access.Role, len(config.Roles))
	roles := make([]pages.AccessRoleView, 0, len(config.Roles))
	for _, role := range config.Roles {
		rolesByID[role.ID] = &access.Role{
			ID:          role.ID,
			Name:        role.Name,
			Permissions: role.Permissions,
			BotButtons:  role.BotButtons,
		}
		roles = append(roles, pages.AccessRoleView{
			ID:          role.ID,
			Name:        role.Name,
			System:      role.System,
			UsersCount:  role.UsersCount,
			Permissions: role.Permissions,
			BotButtons:  role.BotButtons,
		})
	}

	users := make([]pages.AccessUserView, 0, len(config.Users))
	for _, u := range config.Users {
		view := pages.AccessUserView{
			ID:       u.ID,
			Login:    u.Login,
			FullName: u.FullName,
			RoleID:   u.RoleID,
			RoleName: u.RoleName,
		}

		permsOverride := derefOverride(u.PermissionsOverride)
		buttonsOverride := derefOverride(u.BotButtonsOverride)
		view.InheritPermissions = permsOverride == nil
		view.InheritButtons = buttonsOverride == nil

		// В чекбоксах показывается действующий набор: переопределение
		// или база роли
		role := rolesByID[u.RoleID]
		if permsOverride != nil {
			view.Permissions = permsOverride
		} else if role != nil {
			view.Permissions = role.Permissions
		}
		if buttonsOverride != nil {
			view.Buttons = buttonsOverride
		} else if role != nil {
			view.Buttons = role.BotButtons
		}

		// Область видимости
		employees := derefOverride(u.AllowedEmployeeIDs)
		departments := derefOverride(u.AllowedDepartments)
		view.ScopeAll = employees == nil && departments == nil
		view.ScopeEmployees = employees
		view.ScopeDepartments = departments

		// Предпросмотр меню бота: эффективные кнопки после всех правил
		grants := access.Resolve(role, permsOverride, buttonsOverride, catalog)
		view.PreviewButtons = catalog.ButtonTexts(grants.BotButtons)

		users = append(users, view)
	}

	employees := make([]pages.EmployeeOption, 0, len(config.AvailableEmployees))
	for _, e := range config.AvailableEmployees {
		employees = append(employees, pages.EmployeeOption{ID: e.ID, Name: e.Name})
	}

	return pages.AccessData{
		Layout:      layout,
		Permissions: permissions,
		Buttons:     buttons,
		Roles:       roles,
		Users:       users,
		Employees:   employees,
		Departments: config.AvailableDepartments,
	}
}

// formList возвращает значения чекбоксов, гарантируя непустой срез
// (пустой выбор — пустой список, не null).
func formList(r *http.Request, name string) []string {
	values := r.Form[name]
	if values == nil {
		values = []string{}
	}
	return values
}

// overrideFromForm собирает переопределение из формы:
// mode=inherit — null (наследовать роль), иначе — выбранный набор,
// пустой в том числе (отозвать всё).
func overrideFromForm(r *http.Request, modeField, listField string) *[]string {
	if r.PostFormValue(modeField) == "inherit" {
		var inherit []string
		return &inherit
	}
	values := formList(r, listField)
	return &values
}

// scopeFromForm собирает область видимости: mode=all — null-значения
// (без ограничений), иначе — выбранные сотрудники и отделы.
func scopeFromForm(r *http.Request) (*[]string, *[]string) {
	if r.PostFormValue("scope_mode") != "limited" {
		var employees []string
		var departments []string
		return &employees, &departments
	}

	employees := formList(r, "scope_employees")
	departments := formList(r, "scope_departments")
	return &employees, &departments
}

// derefOverride разворачивает tri-state указатель: nil-указатель и
// указатель на nil равнозначны отсутствию переопределения.
func derefOverride(p *[]string) []string {
	if p == nil {
		return nil
	}
	return *p
}
