package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pinstack-dev/pinstack/internal/api"
	mw "github.com/pinstack-dev/pinstack/internal/middleware"
	"github.com/pinstack-dev/pinstack/internal/utils"
)

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	pinId, err := parseIdParam(chi.URLParam(r, "pin"), "pin")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	comments, err := h.feed.ListComments(pinId)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, api.CommentListResponse{Comments: comments})
}

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	actor := mw.GetUserFromContext(r)
	pinId, err := parseIdParam(chi.URLParam(r, "pin"), "pin")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var body api.CreateCommentRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteError(w, err)
		return
	}

	comment, err := h.comment.Create(actor, pinId, body.Text)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSONStatus(w, http.StatusCreated, comment)
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	actor := mw.GetUserFromContext(r)
	id, err := parseIdParam(chi.URLParam(r, "comment"), "comment")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	msg, err := h.comment.Delete(actor, id)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, api.ConfirmationResponse{Message: msg})
}
