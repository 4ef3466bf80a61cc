package service

import (
	"github.com/pinstack-dev/pinstack/internal/domain"
	"github.com/pinstack-dev/pinstack/internal/errors"
	"github.com/pinstack-dev/pinstack/internal/logger"
)

// FeedService assembles paginated, denormalized read views. It never mutates
// state except to detach dangling references it finds along the way.
type FeedService interface {
	ListPins(filter domain.PinFilter, page, pageSize int) ([]domain.PinView, error)
	GetPin(id domain.PinId) (domain.PinView, error)
	ListComments(pinId domain.PinId) ([]domain.CommentView, error)
	ListBoards(userId domain.UserId) ([]domain.Board, error)
}

type Feed struct {
	storage         FeedStorage
	renderer        CommentRenderer
	defaultPageSize int
	maxPageSize     int
}

type FeedStorage interface {
	ListPinViews(filter domain.PinFilter, limit, offset int) ([]domain.PinView, error)
	PinViewById(id domain.PinId) (domain.PinView, error)
	PinById(id domain.PinId) (domain.Pin, error)
	CommentViewsByIds(ids []domain.CommentId) ([]domain.CommentView, error)
	UpdatePinComments(id domain.PinId, op domain.SetOp, commentId domain.CommentId) error
	BoardsByOwner(ownerId domain.UserId) ([]domain.Board, error)
}

// CommentRenderer turns raw comment text into sanitized display HTML.
type CommentRenderer interface {
	Render(text string) string
}

func NewFeed(storage FeedStorage, renderer CommentRenderer, defaultPageSize, maxPageSize int) FeedService {
	return &Feed{storage, renderer, defaultPageSize, maxPageSize}
}

// ListPins returns one page, strictly descending by creation time.
// offset = (page-1) * pageSize; an empty page is a valid result.
func (s *Feed) ListPins(filter domain.PinFilter, page, pageSize int) ([]domain.PinView, error) {
	if page < 1 {
		return nil, errors.New(errors.Validation, "page must be >= 1")
	}
	if pageSize <= 0 {
		pageSize = s.defaultPageSize
	}
	if pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}
	return s.storage.ListPinViews(filter, pageSize, (page-1)*pageSize)
}

func (s *Feed) GetPin(id domain.PinId) (domain.PinView, error) {
	return s.storage.PinViewById(id)
}

// ListComments expands the pin's denormalized comment list, ascending by
// creation time. Entries whose comment (or author) row is gone are dropped,
// audited and detached; a dangling reference never becomes a caller error.
func (s *Feed) ListComments(pinId domain.PinId) ([]domain.CommentView, error) {
	pin, err := s.storage.PinById(pinId)
	if err != nil {
		return nil, err
	}

	views, err := s.storage.CommentViewsByIds(pin.CommentIds)
	if err != nil {
		return nil, err
	}

	found := make(map[domain.CommentId]bool, len(views))
	for i := range views {
		found[views[i].Id] = true
		views[i].Html = s.renderer.Render(views[i].Text)
	}

	for _, id := range pin.CommentIds {
		if found[id] {
			continue
		}
		danglingRefsDetected.WithLabelValues("comments").Inc()
		logger.Log.Warn("dangling comment reference, detaching", "pin", pinId, "ref", id)
		if err := s.storage.UpdatePinComments(pinId, domain.SetRemove, id); err != nil {
			logger.Log.Error("failed to detach dangling comment reference",
				"pin", pinId, "ref", id, "error", err)
			continue
		}
		danglingRefsRepaired.WithLabelValues("comments").Inc()
	}
	return views, nil
}

// ListBoards returns a user's boards in insertion order.
func (s *Feed) ListBoards(userId domain.UserId) ([]domain.Board, error) {
	return s.storage.BoardsByOwner(userId)
}
