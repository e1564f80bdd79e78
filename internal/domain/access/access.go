// Пакет access — логика вычисления эффективных прав пользователя.
// Права складываются из двух уровней: базовая роль + персональные
// переопределения. Переопределение имеет три состояния: nil — наследовать
// роль, пустой список — явно отозвать всё, непустой список — использовать
// ровно его, игнорируя роль.
package access

// Wildcard — спец-тег «все права». Присутствие в эффективном наборе
// прав означает, что любая проверка HasPermission возвращает true.
const Wildcard = "*"

// Permission — элемент каталога прав (раздел админ-панели).
type Permission struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// BotButton — элемент каталога кнопок Telegram-бота.
type BotButton struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Text  string `json:"text"`
	Scope string `json:"scope"`
	// Fixed — кнопка обязательная, её нельзя снять ни у роли, ни у пользователя.
	Fixed bool `json:"fixed,omitempty"`
}

// Catalog — каталоги доступных прав и кнопок, задаются сервером.
// Клиент трактует идентификаторы как непрозрачные ключи.
type Catalog struct {
	Permissions []Permission
	BotButtons  []BotButton
}

// Role — роль с базовыми наборами прав и кнопок.
type Role struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
	BotButtons  []string `json:"bot_buttons"`
}

// Grants — эффективные права после применения роли и переопределений.
type Grants struct {
	Permissions []string
	BotButtons  []string
}

// Resolve вычисляет эффективные права.
// role == nil (нет роли или роль удалена) — пустая база, не ошибка.
// permsOverride / buttonsOverride: nil — наследовать роль,
// пустой срез — явно пустой набор, иначе — ровно этот набор.
// Fixed-кнопки каталога добавляются всегда, независимо от переопределений.
func Resolve(role *Role, permsOverride, buttonsOverride []string, catalog Catalog) Grants {
	return Grants{
		Permissions: resolvePermissions(role, permsOverride, catalog),
		BotButtons:  resolveButtons(role, buttonsOverride, catalog),
	}
}

// HasPermission проверяет наличие права с учётом wildcard.
func (g Grants) HasPermission(tag string) bool {
	for _, p := range g.Permissions {
		if p == Wildcard || p == tag {
			return true
		}
	}
	return false
}

// HasButton проверяет наличие кнопки бота в эффективном наборе.
func (g Grants) HasButton(id string) bool {
	for _, b := range g.BotButtons {
		if b == id {
			return true
		}
	}
	return false
}

// resolvePermissions — шаги 1-2 и 5 алгоритма: база из роли,
// переопределение поверх, нормализация wildcard.
func resolvePermissions(role *Role, override []string, catalog Catalog) []string {
	base := override
	if base == nil && role != nil {
		base = role.Permissions
	}
	if len(base) == 0 {
		return nil
	}

	// Wildcard поглощает остальные теги
	for _, tag := range base {
		if tag == Wildcard {
			return []string{Wildcard}
		}
	}

	valid := permissionSet(catalog)
	result := make([]string, 0, len(base))
	seen := make(map[string]bool, len(base))
	for _, tag := range base {
		if !valid[tag] || seen[tag] {
			continue
		}
		seen[tag] = true
		result = append(result, tag)
	}
	return result
}

// resolveButtons — шаги 3-4 алгоритма: база из роли, переопределение,
// wildcard раскрывается в пользовательские кнопки, fixed добавляются всегда.
func resolveButtons(role *Role, override []string, catalog Catalog) []string {
	base := override
	if base == nil && role != nil {
		base = role.BotButtons
	}

	var result []string
	seen := make(map[string]bool)

	if containsWildcard(base) {
		// «Все кнопки» — все необязательные кнопки каталога,
		// fixed добавятся ниже
		for _, btn := range catalog.BotButtons {
			if !btn.Fixed {
				seen[btn.ID] = true
				result = append(result, btn.ID)
			}
		}
	} else {
		valid := buttonSet(catalog)
		for _, id := range base {
			if !valid[id] || seen[id] {
				continue
			}
			seen[id] = true
			result = append(result, id)
		}
	}

	// Fixed-кнопки присутствуют всегда: их нельзя снять ни в одном редакторе
	for _, btn := range catalog.BotButtons {
		if btn.Fixed && !seen[btn.ID] {
			seen[btn.ID] = true
			result = append(result, btn.ID)
		}
	}

	return result
}

// FixedButtonIDs возвращает идентификаторы обязательных кнопок каталога.
func (c Catalog) FixedButtonIDs() []string {
	var ids []string
	for _, btn := range c.BotButtons {
		if btn.Fixed {
			ids = append(ids, btn.ID)
		}
	}
	return ids
}

// ButtonLabels возвращает подписи кнопок по их идентификаторам
// в порядке следования, без дубликатов. Неизвестные идентификаторы
// пропускаются.
func (c Catalog) ButtonLabels(ids []string) []string {
	labels := make(map[string]string, len(c.BotButtons))
	for _, btn := range c.BotButtons {
		labels[btn.ID] = btn.Label
	}

	var result []string
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		label, ok := labels[id]
		if !ok || seen[label] {
			continue
		}
		seen[label] = true
		result = append(result, label)
	}
	return result
}

// ButtonTexts возвращает тексты кнопок (как их видит пользователь бота).
func (c Catalog) ButtonTexts(ids []string) []string {
	texts := make(map[string]string, len(c.BotButtons))
	for _, btn := range c.BotButtons {
		texts[btn.ID] = btn.Text
	}

	var result []string
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		text, ok := texts[id]
		if !ok || seen[text] {
			continue
		}
		seen[text] = true
		result = append(result, text)
	}
	return result
}

// PermissionLabels раскрывает набор прав в подписи каталога.
// Wildcard раскрывается во все права каталога.
func (c Catalog) PermissionLabels(tags []string) []string {
	for _, tag := range tags {
		if tag == Wildcard {
			result := make([]string, 0, len(c.Permissions))
			for _, p := range c.Permissions {
				result = append(result, p.Label)
			}
			return result
		}
	}

	labels := make(map[string]string, len(c.Permissions))
	for _, p := range c.Permissions {
		labels[p.ID] = p.Label
	}

	var result []string
	for _, tag := range tags {
		if label, ok := labels[tag]; ok {
			result = append(result, label)
		}
	}
	return result
}

// containsWildcard проверяет наличие wildcard в наборе.
func containsWildcard(tags []string) bool {
	for _, tag := range tags {
		if tag == Wildcard {
			return true
		}
	}
	return false
}

// permissionSet — множество допустимых тегов прав каталога.
func permissionSet(catalog Catalog) map[string]bool {
	s := make(map[string]bool, len(catalog.Permissions))
	for _, p := range catalog.Permissions {
		s[p.ID] = true
	}
	return s
}

// buttonSet — множество допустимых идентификаторов кнопок каталога.
func buttonSet(catalog Catalog) map[string]bool {
	s := make(map[string]bool, len(catalog.BotButtons))
	for _, btn := range catalog.BotButtons {
		s[btn.ID] = true
	}
	return s
}
