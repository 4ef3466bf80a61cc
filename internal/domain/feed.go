package domain

// PinFilter narrows the pin feed. Zero value means the global feed.
type PinFilter struct {
	BoardId *BoardId
	OwnerId *UserId
}
