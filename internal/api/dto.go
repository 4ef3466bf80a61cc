package api

import "github.com/pinstack-dev/pinstack/internal/domain"

// Request DTOs

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateBoardRequest struct {
	Name string `json:"name" validate:"required,min=1,max=64"`
}

type UpdatePinRequest struct {
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Website     *string         `json:"website,omitempty"`
	BoardId     *domain.BoardId `json:"board_id,omitempty"`
}

type CreateCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// Response DTOs

type TokenResponse struct {
	Token string `json:"token"`
}

type ProfileResponse struct {
	Profile domain.ProfileView `json:"profile"`
}

type PinResponse struct {
	Pin domain.PinView `json:"pin"`
}

type PinListResponse struct {
	Pins []domain.PinView `json:"pins"`
	Page int              `json:"page"`
}

type CommentListResponse struct {
	Comments []domain.CommentView `json:"comments"`
}

type BoardResponse struct {
	Board domain.Board `json:"board"`
}

type BoardListResponse struct {
	Boards []domain.Board `json:"boards"`
}

// ConfirmationResponse carries a human-readable confirmation for deletes.
type ConfirmationResponse struct {
	Message string `json:"message"`
}
