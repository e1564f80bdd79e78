// entities.go — справочные разделы панели. Все данные приходят
// из HR backend; панель только проверяет право на раздел и рендерит
// таблицу. Окончательную проверку прав выполняет backend.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	"github.com/retailhr/adminka/internal/hrapi"
	uimiddleware "github.com/retailhr/adminka/internal/ui/middleware"
	"github.com/retailhr/adminka/internal/ui/pages"
)

// EntityHandler — обработчики табличных разделов.
type EntityHandler struct {
	base   *Base
	api    *hrapi.Client
	logger *slog.Logger
}

// NewEntityHandler создаёт новый EntityHandler.
func NewEntityHandler(base *Base, api *hrapi.Client, logger *slog.Logger) *EntityHandler {
	return &EntityHandler{
		base:   base,
		api:    api,
		logger: logger.With(slog.String("component", "ui_entities")),
	}
}

// tableFetch загружает данные раздела и возвращает строки таблицы.
type tableFetch func(ctx context.Context, token string) ([][]string, error)

// handle — общий сценарий раздела: сессия, право, загрузка, таблица.
func (h *EntityHandler) handle(
	w http.ResponseWriter,
	r *http.Request,
	permission, title string,
	columns []string,
	fetch tableFetch,
) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/admin/login", http.StatusFound)
		return
	}

	if !sessionGrants(session).HasPermission(permission) {
		h.base.RenderForbidden(w, r, session, title)
		return
	}

	rows, err := fetch(r.Context(), session.Token)
	if err != nil {
		h.base.HandleAPIError(w, r, session, err, title)
		return
	}

	h.base.Render(w, r, pages.EntityList(pages.EntityListData{
		Layout:  h.base.Layout(r, session, title),
		Title:   title,
		Columns: columns,
		Rows:    rows,
	}))
}

// HandleEmployees — GET /admin/employees.
func (h *EntityHandler) HandleEmployees(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "employees", "Сотрудники",
		[]string{"ФИО", "Должность", "Отдел", "Телефон", "Принят"},
		func(ctx context.Context, token string) ([][]string, error) {
			employees, err := h.api.Employees(ctx, token)
			if err != nil {
				return nil, err
			}
			rows := make([][]string, 0, len(employees))
			for _, e := range employees {
				rows = append(rows, []string{e.FullName, e.Position, e.Department, e.Phone, e.HiredAt})
			}
			return rows, nil
		})
}

// HandleVacations — GET /admin/vacations.
func (h *EntityHandler) HandleVacations(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "vacations", "Отпуска",
		[]string{"Сотрудник", "Начало", "Конец", "Статус"},
		func(ctx context.Context, token string) ([][]string, error) {
			vacations, err := h.api.Vacations(ctx, token)
			if err != nil {
				return nil, err
			}
			rows := make([][]string, 0, len(vacations))
			for _, v := range vacations {
				rows = append(rows, []string{employeeLabel(v.Employee, v.EmployeeID), v.StartDate, v.EndDate, v.Status})
			}
			return rows, nil
		})
}

// HandleBirthdays — GET /admin/birthdays. Отдельного endpoint'а нет:
// раздел строится из списка сотрудников.
func (h *EntityHandler) HandleBirthdays(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "birthdays", "Дни рождения",
		[]string{"ФИО", "Отдел", "Дата рождения"},
		func(ctx context.Context, token string) ([][]string, error) {
			employees, err := h.api.Employees(ctx, token)
			if err != nil {
				return nil, err
			}
			var rows [][]string
			for _, e := range employees {
				if e.BirthDate == "" {
					continue
				}
				rows = append(rows, []string{e.FullName, e.Department, e.BirthDate})
			}
			return rows, nil
		})
}

// HandleAssets — GET /admin/assets.
func (h *EntityHandler) HandleAssets(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "assets", "Имущество",
		[]string{"Сотрудник", "Наименование", "Выдано", "Возвращено"},
		func(ctx context.Context, token string) ([][]string, error) {
			assets, err := h.api.Assets(ctx, token)
			if err != nil {
				return nil, err
			}
			rows := make([][]string, 0, len(assets))
			for _, a := range assets {
				rows = append(rows, []string{employeeLabel(a.Employee, a.EmployeeID), a.Name, a.IssuedAt, a.ReturnedAt})
			}
			return rows, nil
		})
}

// HandlePayouts — GET /admin/payouts.
func (h *EntityHandler) HandlePayouts(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "payouts", "Выплаты",
		[]string{"Сотрудник", "Сумма", "Статус", "Период"},
		func(ctx context.Context, token string) ([][]string, error) {
			payouts, err := h.api.Payouts(ctx, token)
			if err != nil {
				return nil, err
			}
			rows := make([][]string, 0, len(payouts))
			for _, p := range payouts {
				rows = append(rows, []string{employeeLabel(p.Employee, p.EmployeeID), p.Amount, p.Status, p.Period})
			}
			return rows, nil
		})
}

// HandlePayoutsControl — GET /admin/payouts-control: выплаты,
// требующие внимания (всё, что не в статусе "paid").
func (h *EntityHandler) HandlePayoutsControl(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "payouts-control", "Контроль выплат",
		[]string{"Сотрудник", "Сумма", "Статус", "Период", "Создана"},
		func(ctx context.Context, token string) ([][]string, error) {
			payouts, err := h.api.Payouts(ctx, token)
			if err != nil {
				return nil, err
			}
			var rows [][]string
			for _, p := range payouts {
				if p.Status == "paid" {
					continue
				}
				rows = append(rows, []string{employeeLabel(p.Employee, p.EmployeeID), p.Amount, p.Status, p.Period, p.CreatedAt})
			}
			return rows, nil
		})
}

// HandleIncentives — GET /admin/incentives.
func (h *EntityHandler) HandleIncentives(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "incentives", "Штрафы и премии",
		[]string{"Сотрудник", "Тип", "Сумма", "Причина", "Создано"},
		func(ctx context.Context, token string) ([][]string, error) {
			incentives, err := h.api.Incentives(ctx, token)
			if err != nil {
				return nil, err
			}
			rows := make([][]string, 0, len(incentives))
			for _, i := range incentives {
				rows = append(rows, []string{
					employeeLabel(i.Employee, i.EmployeeID), incentiveKind(i.Kind), i.Amount, i.Reason, i.CreatedAt,
				})
			}
			return rows, nil
		})
}

// HandleReports — GET /admin/reports: сводка выплат по периодам.
func (h *EntityHandler) HandleReports(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "reports", "Отчёты",
		[]string{"Период", "Выплат всего", "Оплачено", "В работе"},
		func(ctx context.Context, token string) ([][]string, error) {
			payouts, err := h.api.Payouts(ctx, token)
			if err != nil {
				return nil, err
			}

			type periodStats struct {
				total, paid, pending int
			}
			stats := make(map[string]*periodStats)
			for _, p := range payouts {
				s, ok := stats[p.Period]
				if !ok {
					s = &periodStats{}
					stats[p.Period] = s
				}
				s.total++
				if p.Status == "paid" {
					s.paid++
				} else {
					s.pending++
				}
			}

			periods := make([]string, 0, len(stats))
			for period := range stats {
				periods = append(periods, period)
			}
			sort.Sort(sort.Reverse(sort.StringSlice(periods)))

			rows := make([][]string, 0, len(periods))
			for _, period := range periods {
				s := stats[period]
				rows = append(rows, []string{
					period,
					strconv.Itoa(s.total),
					strconv.Itoa(s.paid),
					strconv.Itoa(s.pending),
				})
			}
			return rows, nil
		})
}

// HandleMessages — GET /admin/messages: история рассылок.
func (h *EntityHandler) HandleMessages(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "messages", "История сообщений",
		[]string{"Текст", "Автор", "Получателей", "Отправлено"},
		func(ctx context.Context, token string) ([][]string, error) {
			messages, err := h.api.Messages(ctx, token)
			if err != nil {
				return nil, err
			}
			rows := make([][]string, 0, len(messages))
			for _, m := range messages {
				rows = append(rows, []string{m.Text, m.Author, strconv.Itoa(m.Recipients), m.SentAt})
			}
			return rows, nil
		})
}

// HandleDictionary — GET /admin/dictionary: словарь команд бота
// из каталога кнопок.
func (h *EntityHandler) HandleDictionary(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "dictionary", "Словарь",
		[]string{"Кнопка", "Текст в боте", "Область"},
		func(ctx context.Context, token string) ([][]string, error) {
			config, err := h.api.AccessConfig(ctx, token)
			if err != nil {
				return nil, err
			}
			rows := make([][]string, 0, len(config.BotButtons))
			for _, btn := range config.BotButtons {
				scope := btn.Scope
				if btn.Fixed {
					scope += " (обязательная)"
				}
				rows = append(rows, []string{btn.Label, btn.Text, scope})
			}
			return rows, nil
		})
}

// employeeLabel — имя сотрудника или его идентификатор, если имя
// backend не прислал.
func employeeLabel(name string, id int64) string {
	if name != "" {
		return name
	}
	return "#" + strconv.FormatInt(id, 10)
}

// incentiveKind переводит тип записи в подпись.
func incentiveKind(kind string) string {
	switch kind {
	case "bonus":
		return "Премия"
	case "fine":
		return "Штраф"
	default:
		return kind
	}
}
