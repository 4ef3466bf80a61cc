package handler

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pinstack-dev/pinstack/internal/api"
	"github.com/pinstack-dev/pinstack/internal/domain"
	"github.com/pinstack-dev/pinstack/internal/errors"
	mw "github.com/pinstack-dev/pinstack/internal/middleware"
	"github.com/pinstack-dev/pinstack/internal/utils"
)

const maxUploadBytes = 32 << 20

func (h *Handler) ListPins(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := parseIntQuery(q.Get("page"), 1)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	pageSize, err := parseIntQuery(q.Get("page_size"), 0)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var filter domain.PinFilter
	if v := q.Get("board_id"); v != "" {
		id, err := parseIdParam(v, "board_id")
		if err != nil {
			utils.WriteError(w, err)
			return
		}
		filter.BoardId = &id
	}
	if v := q.Get("user_id"); v != "" {
		id, err := parseIdParam(v, "user_id")
		if err != nil {
			utils.WriteError(w, err)
			return
		}
		filter.OwnerId = &id
	}

	pins, err := h.feed.ListPins(filter, page, pageSize)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, api.PinListResponse{Pins: pins, Page: page})
}

func (h *Handler) GetPin(w http.ResponseWriter, r *http.Request) {
	id, err := parseIdParam(chi.URLParam(r, "pin"), "pin")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	pin, err := h.feed.GetPin(id)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, api.PinResponse{Pin: pin})
}

// CreatePin accepts a multipart form: title, description, website, board_id
// fields plus the image file.
func (h *Handler) CreatePin(w http.ResponseWriter, r *http.Request) {
	actor := mw.GetUserFromContext(r)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		utils.WriteError(w, errors.Wrap(errors.Validation, "invalid multipart form", err))
		return
	}

	boardId, err := parseIdParam(r.FormValue("board_id"), "board_id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		utils.WriteError(w, errors.Wrap(errors.Validation, "pin image is required", err))
		return
	}
	defer file.Close()
	raw, err := io.ReadAll(file)
	if err != nil {
		utils.WriteError(w, errors.Wrap(errors.Validation, "can't read pin image", err))
		return
	}

	pin, err := h.pin.Create(actor, boardId,
		r.FormValue("title"), r.FormValue("description"), r.FormValue("website"), raw)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSONStatus(w, http.StatusCreated, pin)
}

func (h *Handler) UpdatePin(w http.ResponseWriter, r *http.Request) {
	actor := mw.GetUserFromContext(r)
	id, err := parseIdParam(chi.URLParam(r, "pin"), "pin")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var body api.UpdatePinRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteError(w, err)
		return
	}

	pin, err := h.pin.Update(actor, id, domain.PinUpdate{
		Title:       body.Title,
		Description: body.Description,
		Website:     body.Website,
		BoardId:     body.BoardId,
	})
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, pin)
}

func (h *Handler) DeletePin(w http.ResponseWriter, r *http.Request) {
	actor := mw.GetUserFromContext(r)
	id, err := parseIdParam(chi.URLParam(r, "pin"), "pin")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	msg, err := h.pin.Delete(actor, id)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, api.ConfirmationResponse{Message: msg})
}
