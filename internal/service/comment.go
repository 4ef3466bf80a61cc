package service

import (
	"strings"

	"github.com/pinstack-dev/pinstack/internal/domain"
	"github.com/pinstack-dev/pinstack/internal/errors"
)

type CommentService interface {
	Create(actor *domain.User, pinId domain.PinId, text string) (domain.Comment, error)
	Delete(actor *domain.User, id domain.CommentId) (string, error)
}

type Comment struct {
	storage CommentStorage
	guard   Guard
}

type CommentStorage interface {
	SaveComment(text string, authorId domain.UserId, pinId domain.PinId) (domain.Comment, error)
	CommentById(id domain.CommentId) (domain.Comment, error)
	DeleteComment(id domain.CommentId) error
	PinById(id domain.PinId) (domain.Pin, error)
	UpdatePinComments(id domain.PinId, op domain.SetOp, commentId domain.CommentId) error
}

func NewComment(storage CommentStorage, guard Guard) CommentService {
	return &Comment{storage, guard}
}

// Create inserts the comment record (authoritative), then appends its id to
// the parent pin's denormalized list. The append is idempotent and
// best-effort; on failure the comment still exists and the list entry is
// recovered by the repair sweep.
func (s *Comment) Create(actor *domain.User, pinId domain.PinId, text string) (domain.Comment, error) {
	if actor == nil {
		return domain.Comment{}, errors.New(errors.Unauthorized, "authentication required")
	}
	if strings.TrimSpace(text) == "" {
		return domain.Comment{}, errors.New(errors.Validation, "comment text can't be blank")
	}
	if _, err := s.storage.PinById(pinId); err != nil {
		return domain.Comment{}, err
	}

	comment, err := s.storage.SaveComment(text, actor.Id, pinId)
	if err != nil {
		return domain.Comment{}, err
	}
	completeDependent("create comment", func() error {
		return s.storage.UpdatePinComments(pinId, domain.SetAdd, comment.Id)
	})
	return comment, nil
}

// Delete removes the comment record, then detaches its id from the parent
// pin's list. Detaching an id that is already absent is a no-op.
func (s *Comment) Delete(actor *domain.User, id domain.CommentId) (string, error) {
	comment, err := s.storage.CommentById(id)
	if err != nil {
		return "", err
	}
	if err := s.guard.MayAct(actor, ActionDelete, &comment); err != nil {
		return "", err
	}

	if err := s.storage.DeleteComment(id); err != nil {
		return "", err
	}
	completeDependent("delete comment", func() error {
		return s.storage.UpdatePinComments(comment.PinId, domain.SetRemove, id)
	})
	return "The Comment has been deleted.", nil
}
