package domain

import "time"

// Board names are lowercased before storage; (OwnerId, Name) is unique.
type Board struct {
	Id        BoardId
	Name      string
	OwnerId   UserId
	CreatedAt time.Time
}

func (b *Board) Owner() UserId { return b.OwnerId }

type BoardCreationData struct {
	Name    string
	OwnerId UserId
}
