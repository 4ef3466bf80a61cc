package domain

import "time"

// Read-side views assembled for display. A view never carries the credential
// hash and never propagates a dangling denormalized reference to the caller.

// UserView is the trimmed user embedded in pins, comments and profiles.
type UserView struct {
	Id        UserId   `json:"id"`
	Username  Username `json:"username"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Avatar    string   `json:"avatar"`
}

func (u *User) View() UserView {
	return UserView{
		Id:        u.Id,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Avatar:    u.Avatar,
	}
}

// BoardRef is the trimmed board reference embedded in pin views.
type BoardRef struct {
	Id   BoardId `json:"id"`
	Name string  `json:"name"`
}

type PinView struct {
	Id          PinId         `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Website     string        `json:"website,omitempty"`
	Image       ImageVariants `json:"image"`
	Author      UserView      `json:"author"`
	Board       BoardRef      `json:"board"`
	CreatedAt   time.Time     `json:"created_at"`
}

type CommentView struct {
	Id        CommentId `json:"id"`
	Text      string    `json:"text"`
	Html      string    `json:"html"`
	Author    UserView  `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

type ProfileView struct {
	UserView
	Email     Email      `json:"email"`
	Following []UserView `json:"following"`
	Followers []UserView `json:"followers"`
	CreatedAt time.Time  `json:"created_at"`
}
