// dashboard.go — стартовая страница панели.
package handlers

import (
	"log/slog"
	"net/http"

	uimiddleware "github.com/retailhr/adminka/internal/ui/middleware"
	"github.com/retailhr/adminka/internal/ui/pages"
)

// DashboardHandler — обработчик дашборда.
type DashboardHandler struct {
	base   *Base
	logger *slog.Logger
}

// NewDashboardHandler создаёт новый DashboardHandler.
func NewDashboardHandler(base *Base, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		base:   base,
		logger: logger.With(slog.String("component", "ui_dashboard")),
	}
}

// HandleDashboard — GET /admin: приветствие и число доступных разделов.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/admin/login", http.StatusFound)
		return
	}

	layout := h.base.Layout(r, session, "Дашборд")

	sections := 0
	for _, cat := range layout.Nav {
		sections += len(cat.Entries)
	}

	h.base.Render(w, r, pages.Dashboard(pages.DashboardData{
		Layout:        layout,
		FullName:      session.FullName,
		RoleName:      session.RoleName,
		SectionsCount: sections,
	}))
}
