package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pinstack-dev/pinstack/internal/api"
	mw "github.com/pinstack-dev/pinstack/internal/middleware"
	"github.com/pinstack-dev/pinstack/internal/utils"
)

func (h *Handler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	actor := mw.GetUserFromContext(r)

	var body api.CreateBoardRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteError(w, err)
		return
	}

	board, err := h.board.Create(actor, body.Name)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSONStatus(w, http.StatusCreated, api.BoardResponse{Board: board})
}

// ListBoards is public: board listings by user are not access-restricted.
func (h *Handler) ListBoards(w http.ResponseWriter, r *http.Request) {
	userId, err := parseIdParam(chi.URLParam(r, "user"), "user")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	boards, err := h.feed.ListBoards(userId)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, api.BoardListResponse{Boards: boards})
}

func (h *Handler) DeleteBoard(w http.ResponseWriter, r *http.Request) {
	actor := mw.GetUserFromContext(r)
	id, err := parseIdParam(chi.URLParam(r, "board"), "board")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	msg, err := h.board.Delete(actor, id)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, api.ConfirmationResponse{Message: msg})
}
