package pages

import (
	"context"
	"strings"
	"testing"
)

// TestAccess_ОбязательнаяКнопкаВФорме — disabled-чекбокс не попадает
// в POST браузера, поэтому обязательная кнопка дублируется скрытым
// полем: сохранённый набор совпадает с тем, что показывает редактор.
func TestAccess_ОбязательнаяКнопкаВФорме(t *testing.T) {
	data := AccessData{
		Layout: LayoutData{Title: "Управление доступом", Theme: "light"},
		Buttons: []ButtonOption{
			{ID: "help", Label: "Помощь", Fixed: true},
			{ID: "payslip", Label: "Расчётный лист"},
		},
		Roles: []AccessRoleView{{ID: "r1", Name: "Бухгалтер"}},
	}

	var b strings.Builder
	if err := Access(data).Render(context.Background(), &b); err != nil {
		t.Fatalf("Render: %v", err)
	}
	body := b.String()

	if !strings.Contains(body, `<input type="hidden" name="bot_buttons" value="help">`) {
		t.Error("нет скрытого поля для обязательной кнопки")
	}
	if !strings.Contains(body, `value="help" checked disabled`) {
		t.Error("обязательная кнопка должна быть отмечена и заблокирована")
	}
	if strings.Contains(body, `<input type="hidden" name="bot_buttons" value="payslip">`) {
		t.Error("скрытое поле ожидается только для обязательных кнопок")
	}
}
