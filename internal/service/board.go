package service

import (
	"fmt"
	"strings"

	"github.com/pinstack-dev/pinstack/internal/domain"
	"github.com/pinstack-dev/pinstack/internal/errors"
)

type BoardService interface {
	Create(actor *domain.User, name string) (domain.Board, error)
	Get(id domain.BoardId) (domain.Board, error)
	Delete(actor *domain.User, id domain.BoardId) (string, error)
}

type Board struct {
	storage BoardStorage
	guard   Guard
}

type BoardStorage interface {
	SaveBoard(data domain.BoardCreationData) (domain.Board, error)
	BoardById(id domain.BoardId) (domain.Board, error)
	DeleteBoard(id domain.BoardId) error

	PinIdsByBoard(boardId domain.BoardId) ([]domain.PinId, error)
	DeletePin(id domain.PinId) error
	DeleteCommentsByPin(pinId domain.PinId) error
}

func NewBoard(storage BoardStorage, guard Guard) BoardService {
	return &Board{storage, guard}
}

// Create stores a new board. Names are case-normalized; (owner, name) is
// unique, so a duplicate surfaces as AlreadyExists from the store.
func (s *Board) Create(actor *domain.User, name string) (domain.Board, error) {
	if actor == nil {
		return domain.Board{}, errors.New(errors.Unauthorized, "authentication required")
	}
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return domain.Board{}, errors.New(errors.Validation, "board name can't be blank")
	}
	return s.storage.SaveBoard(domain.BoardCreationData{Name: name, OwnerId: actor.Id})
}

func (s *Board) Get(id domain.BoardId) (domain.Board, error) {
	return s.storage.BoardById(id)
}

// Delete removes a board and synchronously cascades its pins and their
// comments, children first.
func (s *Board) Delete(actor *domain.User, id domain.BoardId) (string, error) {
	board, err := s.storage.BoardById(id)
	if err != nil {
		return "", err
	}
	if err := s.guard.MayAct(actor, ActionDelete, &board); err != nil {
		return "", err
	}

	pinIds, err := s.storage.PinIdsByBoard(id)
	if err != nil {
		return "", err
	}
	for _, pinId := range pinIds {
		if err := s.storage.DeleteCommentsByPin(pinId); err != nil {
			return "", err
		}
		if err := s.storage.DeletePin(pinId); err != nil && !errors.IsNotFound(err) {
			return "", err
		}
	}

	if err := s.storage.DeleteBoard(id); err != nil {
		return "", err
	}
	return fmt.Sprintf("The Board %d has been deleted.", id), nil
}
