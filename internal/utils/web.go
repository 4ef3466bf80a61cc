package utils

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/pinstack-dev/pinstack/internal/errors"
	"github.com/pinstack-dev/pinstack/internal/logger"
)

// WriteError maps the error kind to an HTTP status and writes the message.
func WriteError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), errors.StatusCode(err))
}

func WriteJSON(w http.ResponseWriter, payload any) {
	WriteJSONStatus(w, http.StatusOK, payload)
}

// WriteJSONStatus writes payload with an explicit status code. Headers must be
// set before WriteHeader or they are silently dropped.
func WriteJSONStatus(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeValidate decodes a JSON body and checks `validate` struct tags.
func DecodeValidate(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		return errors.Wrap(errors.Validation, "body is invalid json", err)
	}
	if err := validate.Struct(body); err != nil {
		return errors.Wrap(errors.Validation, "required fields missing or malformed", err)
	}
	return nil
}
