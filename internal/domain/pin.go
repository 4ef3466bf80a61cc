package domain

import "time"

// ImageVariants holds resolution-tagged URLs produced by the media pipeline.
type ImageVariants struct {
	High   string `json:"high"`
	Medium string `json:"medium"`
	Low    string `json:"low"`
}

type Pin struct {
	Id          PinId
	Title       string
	Description string
	Website     string
	BoardId     BoardId
	OwnerId     UserId
	Image       ImageVariants

	// CommentIds is the denormalized child list; comment rows are authoritative.
	CommentIds []CommentId

	CreatedAt time.Time
	UpdatedAt *time.Time
}

func (p *Pin) Owner() UserId { return p.OwnerId }

type PinCreationData struct {
	Title       string
	Description string
	Website     string
	BoardId     BoardId
	OwnerId     UserId
	Image       ImageVariants
}

// PinUpdate carries the mutable pin fields. Nil fields are left untouched.
type PinUpdate struct {
	Title       *string
	Description *string
	Website     *string
	BoardId     *BoardId
}
