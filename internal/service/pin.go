package service

import (
	"fmt"
	"strings"

	"github.com/pinstack-dev/pinstack/internal/domain"
	"github.com/pinstack-dev/pinstack/internal/errors"
)

type PinService interface {
	Create(actor *domain.User, boardId domain.BoardId, title, description, website string, imageRaw []byte) (domain.Pin, error)
	Update(actor *domain.User, id domain.PinId, upd domain.PinUpdate) (domain.Pin, error)
	Delete(actor *domain.User, id domain.PinId) (string, error)
}

type Pin struct {
	storage PinStorage
	media   MediaPipeline
	guard   Guard
}

type PinStorage interface {
	SavePin(data domain.PinCreationData) (domain.Pin, error)
	PinById(id domain.PinId) (domain.Pin, error)
	UpdatePin(id domain.PinId, upd domain.PinUpdate) (domain.Pin, error)
	DeletePin(id domain.PinId) error
	DeleteCommentsByPin(pinId domain.PinId) error
	BoardById(id domain.BoardId) (domain.Board, error)
}

// MediaPipeline turns raw upload bytes into stored resolution variants.
type MediaPipeline interface {
	StoreVariants(raw []byte) (domain.ImageVariants, error)
}

func NewPin(storage PinStorage, media MediaPipeline, guard Guard) PinService {
	return &Pin{storage, media, guard}
}

// Create inserts a pin into a board the actor owns. Board membership is not
// kept as a stored list; it is derivable by querying pins on board_id, so the
// insert is the only write.
func (s *Pin) Create(actor *domain.User, boardId domain.BoardId, title, description, website string, imageRaw []byte) (domain.Pin, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Pin{}, errors.New(errors.Validation, "pin title can't be blank")
	}
	if len(imageRaw) == 0 {
		return domain.Pin{}, errors.New(errors.Validation, "pin image is required")
	}

	board, err := s.storage.BoardById(boardId)
	if err != nil {
		return domain.Pin{}, err
	}
	if err := s.guard.MayAct(actor, ActionCreatePin, &board); err != nil {
		return domain.Pin{}, err
	}

	variants, err := s.media.StoreVariants(imageRaw)
	if err != nil {
		return domain.Pin{}, err
	}

	return s.storage.SavePin(domain.PinCreationData{
		Title:       title,
		Description: description,
		Website:     website,
		BoardId:     board.Id,
		OwnerId:     actor.Id,
		Image:       variants,
	})
}

func (s *Pin) Update(actor *domain.User, id domain.PinId, upd domain.PinUpdate) (domain.Pin, error) {
	pin, err := s.storage.PinById(id)
	if err != nil {
		return domain.Pin{}, err
	}
	if err := s.guard.MayAct(actor, ActionUpdate, &pin); err != nil {
		return domain.Pin{}, err
	}

	// Moving a pin re-derives board ownership; the stored owner id is never
	// trusted on its own.
	if upd.BoardId != nil {
		board, err := s.storage.BoardById(*upd.BoardId)
		if err != nil {
			return domain.Pin{}, err
		}
		if err := s.guard.MayAct(actor, ActionCreatePin, &board); err != nil {
			return domain.Pin{}, err
		}
	}

	return s.storage.UpdatePin(id, upd)
}

// Delete removes a pin and its comment children, children first.
func (s *Pin) Delete(actor *domain.User, id domain.PinId) (string, error) {
	pin, err := s.storage.PinById(id)
	if err != nil {
		return "", err
	}
	if err := s.guard.MayAct(actor, ActionDelete, &pin); err != nil {
		return "", err
	}

	if err := s.storage.DeleteCommentsByPin(id); err != nil {
		return "", err
	}
	if err := s.storage.DeletePin(id); err != nil {
		return "", err
	}
	return fmt.Sprintf("The Pin %d has been deleted.", id), nil
}
