package domain

import "time"

type User struct {
	Id        UserId
	Email     Email
	Username  Username
	PassHash  string
	FirstName string
	LastName  string
	Admin     bool
	Avatar    string

	// Denormalized adjacency. Following is the authoritative side of a follow
	// edge; Followers is the derived fast path kept in sync best-effort.
	Following []UserId
	Followers []UserId

	CreatedAt time.Time
	UpdatedAt *time.Time
}

func (u *User) Owner() UserId { return u.Id }

// Follows reports whether the authoritative side records an edge to other.
func (u *User) Follows(other UserId) bool {
	for _, id := range u.Following {
		if id == other {
			return true
		}
	}
	return false
}

// ProfileUpdate carries the fields a user may change on their own profile.
// Nil fields are left untouched.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Avatar    *string
}
