package domain

import "time"

type Comment struct {
	Id        CommentId
	Text      string
	AuthorId  UserId
	PinId     PinId
	CreatedAt time.Time
}

func (c *Comment) Owner() UserId { return c.AuthorId }
