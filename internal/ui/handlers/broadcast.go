// broadcast.go — рассылка сообщений сотрудникам через HR backend.
// Черновик хранится в локальной базе панели и переживает рестарты.
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/retailhr/adminka/internal/hrapi"
	"github.com/retailhr/adminka/internal/repository"
	"github.com/retailhr/adminka/internal/ui/auth"
	uimiddleware "github.com/retailhr/adminka/internal/ui/middleware"
	"github.com/retailhr/adminka/internal/ui/pages"
)

// broadcastPermission — право раздела рассылки.
const broadcastPermission = "broadcast"

// BroadcastHandler — обработчики страницы рассылки.
type BroadcastHandler struct {
	base   *Base
	api    *hrapi.Client
	drafts repository.BroadcastDraftRepository
	logger *slog.Logger
}

// NewBroadcastHandler создаёт новый BroadcastHandler.
func NewBroadcastHandler(
	base *Base,
	api *hrapi.Client,
	drafts repository.BroadcastDraftRepository,
	logger *slog.Logger,
) *BroadcastHandler {
	return &BroadcastHandler{
		base:   base,
		api:    api,
		drafts: drafts,
		logger: logger.With(slog.String("component", "ui_broadcast")),
	}
}

// HandleBroadcastPage — GET /admin/broadcast: форма с черновиком.
func (h *BroadcastHandler) HandleBroadcastPage(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/admin/login", http.StatusFound)
		return
	}
	if !sessionGrants(session).HasPermission(broadcastPermission) {
		h.base.RenderForbidden(w, r, session, "Рассылка")
		return
	}

	data, err := h.pageData(r, session)
	if err != nil {
		h.base.HandleAPIError(w, r, session, err, "Рассылка")
		return
	}

	if r.URL.Query().Get("sent") != "" {
		data.Success = "Сообщение отправлено: " + r.URL.Query().Get("sent")
	}
	if r.URL.Query().Get("draft") != "" {
		data.Success = "Черновик сохранён"
	}

	h.base.Render(w, r, pages.Broadcast(*data))
}

// HandleBroadcastSubmit — POST /admin/broadcast.
// action=draft — сохранить черновик; action=send — отправить рассылку
// и удалить черновик.
func (h *BroadcastHandler) HandleBroadcastSubmit(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/admin/login", http.StatusFound)
		return
	}
	if !sessionGrants(session).HasPermission(broadcastPermission) {
		h.base.RenderForbidden(w, r, session, "Рассылка")
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Некорректная форма", http.StatusBadRequest)
		return
	}

	text := strings.TrimSpace(r.PostFormValue("text"))
	departments := r.Form["departments"]

	switch r.PostFormValue("action") {
	case "draft":
		if err := h.drafts.Save(r.Context(), session.UserID, text, departments); err != nil {
			h.logger.Error("Ошибка сохранения черновика",
				slog.String("author", session.Login),
				slog.String("error", err.Error()),
			)
			h.renderWithError(w, r, session, text, departments, "Не удалось сохранить черновик")
			return
		}
		h.logger.Info("Черновик сохранён", slog.String("author", session.Login))
		http.Redirect(w, r, "/admin/broadcast?draft=1", http.StatusFound)

	case "send":
		if text == "" {
			h.renderWithError(w, r, session, text, departments, "Текст сообщения пуст")
			return
		}

		resp, err := h.api.SendBroadcast(r.Context(), session.Token, hrapi.BroadcastRequest{
			Text:        text,
			Departments: departments,
		})
		if err != nil {
			if errors.Is(err, hrapi.ErrSessionExpired) {
				h.base.RedirectToLogin(w, r)
				return
			}
			h.logger.Error("Ошибка отправки рассылки",
				slog.String("author", session.Login),
				slog.String("error", err.Error()),
			)
			// Текст не теряем: он остаётся в форме
			h.renderWithError(w, r, session, text, departments, "Не удалось отправить рассылку, попробуйте ещё раз")
			return
		}

		// Черновик своё отработал
		if err := h.drafts.Delete(r.Context(), session.UserID); err != nil {
			h.logger.Warn("Ошибка удаления черновика после отправки",
				slog.String("author", session.Login),
				slog.String("error", err.Error()),
			)
		}

		h.logger.Info("Рассылка отправлена",
			slog.String("author", session.Login),
			slog.Int("sent", resp.Sent),
			slog.Int("failed", resp.Failed),
		)
		result := fmt.Sprintf("доставлено %d", resp.Sent)
		if resp.Failed > 0 {
			result = fmt.Sprintf("доставлено %d, не доставлено %d", resp.Sent, resp.Failed)
		}
		http.Redirect(w, r, "/admin/broadcast?sent="+url.QueryEscape(result), http.StatusFound)

	default:
		http.Error(w, "Неизвестное действие", http.StatusBadRequest)
	}
}

// pageData собирает данные страницы: черновик и список отделов.
func (h *BroadcastHandler) pageData(r *http.Request, session *auth.SessionData) (*pages.BroadcastData, error) {
	config, err := h.api.AccessConfig(r.Context(), session.Token)
	if err != nil {
		return nil, err
	}

	data := &pages.BroadcastData{
		Layout:      h.base.Layout(r, session, "Рассылка"),
		Departments: config.AvailableDepartments,
	}

	draft, err := h.drafts.Get(r.Context(), session.UserID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			h.logger.Warn("Ошибка чтения черновика",
				slog.String("author", session.Login),
				slog.String("error", err.Error()),
			)
		}
		return data, nil
	}

	data.DraftText = draft.Text
	data.DraftDepartments = draft.Departments
	return data, nil
}

// renderWithError перерисовывает форму с введённым текстом и ошибкой.
func (h *BroadcastHandler) renderWithError(
	w http.ResponseWriter,
	r *http.Request,
	session *auth.SessionData,
	text string,
	departments []string,
	message string,
) {
	config, err := h.api.AccessConfig(r.Context(), session.Token)
	var available []string
	if err == nil {
		available = config.AvailableDepartments
	}

	h.base.Render(w, r, pages.Broadcast(pages.BroadcastData{
		Layout:           h.base.Layout(r, session, "Рассылка"),
		DraftText:        text,
		DraftDepartments: departments,
		Departments:      available,
		Error:            message,
	}))
}
