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

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	profile, err := h.user.Profile(username)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, api.ProfileResponse{Profile: profile})
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor := mw.GetUserFromContext(r)
	id, err := parseIdParam(chi.URLParam(r, "user"), "user")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		utils.WriteError(w, errors.Wrap(errors.Validation, "invalid multipart form", err))
		return
	}

	var upd domain.ProfileUpdate
	if r.Form.Has("first_name") {
		v := r.FormValue("first_name")
		upd.FirstName = &v
	}
	if r.Form.Has("last_name") {
		v := r.FormValue("last_name")
		upd.LastName = &v
	}

	// The avatar file is optional; the stored URL is derived server-side from
	// the upload, never taken from the request.
	var avatar []byte
	if file, _, ferr := r.FormFile("avatar"); ferr == nil {
		raw, rerr := io.ReadAll(file)
		file.Close()
		if rerr != nil {
			utils.WriteError(w, errors.Wrap(errors.Validation, "can't read avatar image", rerr))
			return
		}
		avatar = raw
	}

	view, err := h.user.UpdateProfile(actor, id, upd, avatar)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, view)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor := mw.GetUserFromContext(r)
	id, err := parseIdParam(chi.URLParam(r, "user"), "user")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	msg, err := h.user.Delete(actor, id)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, api.ConfirmationResponse{Message: msg})
}

func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	actor := mw.GetUserFromContext(r)
	target, err := parseIdParam(chi.URLParam(r, "user"), "user")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	if err := h.user.Follow(actor, target); err != nil {
		utils.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	actor := mw.GetUserFromContext(r)
	target, err := parseIdParam(chi.URLParam(r, "user"), "user")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	if err := h.user.Unfollow(actor, target); err != nil {
		utils.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
