package service

import (
	"github.com/pinstack-dev/pinstack/internal/domain"
	"github.com/pinstack-dev/pinstack/internal/errors"
)

// Action names the mutation a guard check protects.
type Action string

const (
	ActionUpdate    Action = "update"
	ActionDelete    Action = "delete"
	ActionCreatePin Action = "create pin on" // resource is the target board
)

// Ownable is anything with a single owning user. Boards, pins, comments and
// user records (owning themselves) all qualify.
type Ownable interface {
	Owner() domain.UserId
}

// Guard is the single authorization predicate consulted before every
// mutating operation. It never skips a mutation silently: a failed check is
// always a typed Unauthorized error.
type Guard struct{}

func (Guard) MayAct(actor *domain.User, action Action, resource Ownable) error {
	if actor == nil {
		return errors.New(errors.Unauthorized, "authentication required")
	}
	if actor.Admin {
		return nil
	}
	if actor.Id != resource.Owner() {
		return errors.Newf(errors.Unauthorized, "not allowed to %s this resource", action)
	}
	return nil
}
