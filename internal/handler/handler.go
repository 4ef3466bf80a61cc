package handler

import (
	"strconv"

	"github.com/pinstack-dev/pinstack/internal/config"
	"github.com/pinstack-dev/pinstack/internal/errors"
	"github.com/pinstack-dev/pinstack/internal/service"
)

type Handler struct {
	auth    service.AuthService
	user    service.UserService
	board   service.BoardService
	pin     service.PinService
	comment service.CommentService
	feed    service.FeedService
	cfg     *config.Config
}

func New(
	auth service.AuthService,
	user service.UserService,
	board service.BoardService,
	pin service.PinService,
	comment service.CommentService,
	feed service.FeedService,
	cfg *config.Config,
) *Handler {
	return &Handler{auth, user, board, pin, comment, feed, cfg}
}

func parseIdParam(value, name string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, errors.Newf(errors.Validation, "%s must be an integer", name)
	}
	return id, nil
}

func parseIntQuery(value string, fallback int) (int, error) {
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.Newf(errors.Validation, "%q is not an integer", value)
	}
	return n, nil
}
