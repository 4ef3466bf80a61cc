package domain

// FollowRef locates one entry of a user's denormalized follow list.
type FollowRef struct {
	UserId UserId
	Field  FollowField
	Ref    UserId
}

// FollowerDrift is a followers-list entry out of step with the authoritative
// following side between two existing users: either an entry missing after a
// failed dependent write, or one left behind by a failed unfollow. Op is the
// set mutation that restores symmetry on UserId's followers list.
type FollowerDrift struct {
	UserId   UserId
	Follower UserId
	Op       SetOp
}

// CommentRef locates one entry of a pin's denormalized comment list.
type CommentRef struct {
	PinId PinId
	Ref   CommentId
}
