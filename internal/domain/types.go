package domain

type (
	UserId    = int64
	BoardId   = int64
	PinId     = int64
	CommentId = int64

	Email    = string
	Username = string
	Password = string
)

// SetOp names the two atomic list mutations the store supports.
// Both are idempotent: adding a present id or removing an absent one is a no-op.
type SetOp string

const (
	SetAdd    SetOp = "add"
	SetRemove SetOp = "remove"
)

// FollowField selects which denormalized adjacency list of a user row to mutate.
type FollowField string

const (
	FieldFollowing FollowField = "following"
	FieldFollowers FollowField = "followers"
)
