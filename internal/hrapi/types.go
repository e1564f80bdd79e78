package hrapi

// Типы данных HR backend. Поля с переопределениями кодируются
// через *[]string, чтобы различать четыре состояния JSON:
// nil-указатель — поле отсутствует (PATCH: не менять),
// указатель на nil-срез — null (наследовать роль),
// указатель на пустой срез — [] (явно пустой набор),
// указатель на непустой срез — ровно этот набор.

// Profile — профиль аутентифицированного пользователя (GET /auth/me).
// Permissions и BotButtons уже вычислены сервером.
type Profile struct {
	ID          string   `json:"id"`
	Login       string   `json:"login"`
	FullName    string   `json:"display_name,omitempty"`
	RoleID      string   `json:"role_id,omitempty"`
	RoleName    string   `json:"role_name,omitempty"`
	Permissions []string `json:"permissions"`
	BotButtons  []string `json:"bot_buttons"`
}

// LoginRequest — тело POST /auth/login.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// LoginResponse — ответ POST /auth/login: токен и профиль.
type LoginResponse struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}

// Permission — элемент каталога прав.
type Permission struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// BotButton — элемент каталога кнопок бота.
type BotButton struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Text  string `json:"text"`
	Scope string `json:"scope"`
	Fixed bool   `json:"fixed,omitempty"`
}

// Role — роль доступа (управляется в редакторе доступа).
type Role struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
	BotButtons  []string `json:"bot_buttons"`
	System      bool     `json:"system,omitempty"`
	UsersCount  int      `json:"users_count,omitempty"`
}

// AdminUser — пользователь панели с персональными переопределениями.
// На проводе переопределения называются так же, как базовые поля роли:
// permissions и bot_buttons пользователя — это его override.
type AdminUser struct {
	ID       string `json:"id"`
	Login    string `json:"login"`
	FullName string `json:"display_name,omitempty"`
	RoleID   string `json:"role_id,omitempty"`
	RoleName string `json:"role_name,omitempty"`
	// Переопределения: null — наследовать роль, [] — отозвать всё,
	// непустой список — использовать ровно его.
	PermissionsOverride *[]string `json:"permissions"`
	BotButtonsOverride  *[]string `json:"bot_buttons"`
	// Область видимости: null — без ограничений.
	AllowedEmployeeIDs *[]string `json:"allowed_employee_ids"`
	AllowedDepartments *[]string `json:"allowed_departments"`
}

// ScopeEmployee — сотрудник в справочнике области видимости
// (available_employees). Идентификаторы — строки.
type ScopeEmployee struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
}

// AccessConfig — ответ GET /auth/access: каталоги, роли, пользователи
// и справочники для области видимости.
type AccessConfig struct {
	AvailablePermissions []Permission    `json:"available_permissions"`
	BotButtons           []BotButton     `json:"available_bot_buttons"`
	Roles                []Role          `json:"roles"`
	Users                []AdminUser     `json:"users"`
	AvailableEmployees   []ScopeEmployee `json:"available_employees"`
	AvailableDepartments []string        `json:"available_departments"`
}

// CreateRoleRequest — тело POST /auth/roles.
type CreateRoleRequest struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
	BotButtons  []string `json:"bot_buttons"`
}

// UpdateRoleRequest — тело PATCH /auth/roles/{id}.
// nil-поля не отправляются и не меняются на сервере.
type UpdateRoleRequest struct {
	Name        *string   `json:"name,omitempty"`
	Permissions *[]string `json:"permissions,omitempty"`
	BotButtons  *[]string `json:"bot_buttons,omitempty"`
}

// CreateUserRequest — тело POST /auth/users.
type CreateUserRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	RoleID   string `json:"role_id,omitempty"`
}

// UpdateUserRequest — тело PATCH /auth/users/{id}.
// Указатели с omitempty: nil — поле не отправляется; указатель на
// nil-срез сериализуется как null (сброс переопределения).
type UpdateUserRequest struct {
	Login               *string   `json:"login,omitempty"`
	Password            *string   `json:"password,omitempty"`
	RoleID              *string   `json:"role_id,omitempty"`
	PermissionsOverride *[]string `json:"permissions,omitempty"`
	BotButtonsOverride  *[]string `json:"bot_buttons,omitempty"`
	AllowedEmployeeIDs  *[]string `json:"allowed_employee_ids,omitempty"`
	AllowedDepartments  *[]string `json:"allowed_departments,omitempty"`
}

// Employee — сотрудник (GET /employees).
type Employee struct {
	ID         int64  `json:"id"`
	FullName   string `json:"full_name"`
	Position   string `json:"position,omitempty"`
	Department string `json:"department,omitempty"`
	Phone      string `json:"phone,omitempty"`
	BirthDate  string `json:"birth_date,omitempty"`
	HiredAt    string `json:"hired_at,omitempty"`
}

// Payout — выплата (GET /payouts).
type Payout struct {
	ID         int64  `json:"id"`
	EmployeeID int64  `json:"employee_id"`
	Employee   string `json:"employee,omitempty"`
	Amount     string `json:"amount"`
	Status     string `json:"status"`
	Period     string `json:"period,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// Vacation — отпуск (GET /vacations).
type Vacation struct {
	ID         int64  `json:"id"`
	EmployeeID int64  `json:"employee_id"`
	Employee   string `json:"employee,omitempty"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Status     string `json:"status,omitempty"`
}

// Asset — имущество, выданное сотруднику (GET /assets).
type Asset struct {
	ID         int64  `json:"id"`
	EmployeeID int64  `json:"employee_id"`
	Employee   string `json:"employee,omitempty"`
	Name       string `json:"name"`
	IssuedAt   string `json:"issued_at,omitempty"`
	ReturnedAt string `json:"returned_at,omitempty"`
}

// Incentive — штраф или премия (GET /incentives).
type Incentive struct {
	ID         int64  `json:"id"`
	EmployeeID int64  `json:"employee_id"`
	Employee   string `json:"employee,omitempty"`
	Kind       string `json:"kind"`
	Amount     string `json:"amount"`
	Reason     string `json:"reason,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// Message — отправленное сообщение рассылки (GET /messages).
type Message struct {
	ID         int64  `json:"id"`
	Text       string `json:"text"`
	Author     string `json:"author,omitempty"`
	Recipients int    `json:"recipients,omitempty"`
	SentAt     string `json:"sent_at,omitempty"`
}

// BroadcastRequest — тело POST /broadcast.
type BroadcastRequest struct {
	Text        string   `json:"text"`
	Departments []string `json:"departments,omitempty"`
}

// BroadcastResponse — результат рассылки.
type BroadcastResponse struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}
