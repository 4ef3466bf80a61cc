package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinstack-dev/pinstack/internal/domain"
	"github.com/pinstack-dev/pinstack/internal/errors"
)

// MockPinStorage mocks the PinStorage interface.
type MockPinStorage struct {
	savePinFunc             func(data domain.PinCreationData) (domain.Pin, error)
	pinByIdFunc             func(id domain.PinId) (domain.Pin, error)
	updatePinFunc           func(id domain.PinId, upd domain.PinUpdate) (domain.Pin, error)
	deletePinFunc           func(id domain.PinId) error
	deleteCommentsByPinFunc func(pinId domain.PinId) error
	boardByIdFunc           func(id domain.BoardId) (domain.Board, error)
}

func (m *MockPinStorage) SavePin(data domain.PinCreationData) (domain.Pin, error) {
	if m.savePinFunc != nil {
		return m.savePinFunc(data)
	}
	return domain.Pin{Id: 1, Title: data.Title, BoardId: data.BoardId, OwnerId: data.OwnerId, Image: data.Image}, nil
}

func (m *MockPinStorage) PinById(id domain.PinId) (domain.Pin, error) {
	if m.pinByIdFunc != nil {
		return m.pinByIdFunc(id)
	}
	return domain.Pin{Id: id}, nil
}

func (m *MockPinStorage) UpdatePin(id domain.PinId, upd domain.PinUpdate) (domain.Pin, error) {
	if m.updatePinFunc != nil {
		return m.updatePinFunc(id, upd)
	}
	return domain.Pin{Id: id}, nil
}

func (m *MockPinStorage) DeletePin(id domain.PinId) error {
	if m.deletePinFunc != nil {
		return m.deletePinFunc(id)
	}
	return nil
}

func (m *MockPinStorage) DeleteCommentsByPin(pinId domain.PinId) error {
	if m.deleteCommentsByPinFunc != nil {
		return m.deleteCommentsByPinFunc(pinId)
	}
	return nil
}

func (m *MockPinStorage) BoardById(id domain.BoardId) (domain.Board, error) {
	if m.boardByIdFunc != nil {
		return m.boardByIdFunc(id)
	}
	return domain.Board{Id: id, OwnerId: 1}, nil
}

// MockMedia mocks the MediaPipeline interface.
type MockMedia struct {
	storeVariantsFunc func(raw []byte) (domain.ImageVariants, error)
}

func (m *MockMedia) StoreVariants(raw []byte) (domain.ImageVariants, error) {
	if m.storeVariantsFunc != nil {
		return m.storeVariantsFunc(raw)
	}
	return domain.ImageVariants{High: "/media/x_high.jpg", Medium: "/media/x_medium.jpg", Low: "/media/x_low.jpg"}, nil
}

func TestPinCreate(t *testing.T) {
	actor := &domain.User{Id: 1}
	image := []byte{0xff, 0xd8}

	t.Run("Success", func(t *testing.T) {
		var saved domain.PinCreationData
		storage := &MockPinStorage{
			savePinFunc: func(data domain.PinCreationData) (domain.Pin, error) {
				saved = data
				return domain.Pin{Id: 1, Title: data.Title}, nil
			},
		}
		s := NewPin(storage, &MockMedia{}, Guard{})
		pin, err := s.Create(actor, 10, " Sunset ", "desc", "https://example.com", image)
		require.NoError(t, err)

		assert.Equal(t, "Sunset", saved.Title)
		assert.Equal(t, domain.BoardId(10), saved.BoardId)
		assert.Equal(t, domain.UserId(1), saved.OwnerId)
		assert.NotEmpty(t, saved.Image.Medium)
		assert.Equal(t, domain.PinId(1), pin.Id)
	})

	t.Run("BlankTitle", func(t *testing.T) {
		s := NewPin(&MockPinStorage{}, &MockMedia{}, Guard{})
		_, err := s.Create(actor, 10, "  ", "", "", image)
		assert.True(t, errors.Is(err, errors.Validation))
	})

	t.Run("MissingImage", func(t *testing.T) {
		s := NewPin(&MockPinStorage{}, &MockMedia{}, Guard{})
		_, err := s.Create(actor, 10, "Sunset", "", "", nil)
		assert.True(t, errors.Is(err, errors.Validation))
	})

	t.Run("OtherUsersBoard", func(t *testing.T) {
		storage := &MockPinStorage{
			boardByIdFunc: func(id domain.BoardId) (domain.Board, error) {
				return domain.Board{Id: id, OwnerId: 2}, nil
			},
		}
		s := NewPin(storage, &MockMedia{}, Guard{})
		_, err := s.Create(actor, 10, "Sunset", "", "", image)
		assert.True(t, errors.Is(err, errors.Unauthorized))
	})

	t.Run("BoardMissing", func(t *testing.T) {
		storage := &MockPinStorage{
			boardByIdFunc: func(id domain.BoardId) (domain.Board, error) {
				return domain.Board{}, errors.New(errors.NotFound, "board not found")
			},
		}
		s := NewPin(storage, &MockMedia{}, Guard{})
		_, err := s.Create(actor, 10, "Sunset", "", "", image)
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("MediaFailure", func(t *testing.T) {
		media := &MockMedia{
			storeVariantsFunc: func(raw []byte) (domain.ImageVariants, error) {
				return domain.ImageVariants{}, errors.New(errors.Validation, "can't decode image")
			},
		}
		s := NewPin(&MockPinStorage{}, media, Guard{})
		_, err := s.Create(actor, 10, "Sunset", "", "", image)
		assert.True(t, errors.Is(err, errors.Validation))
	})
}

func TestPinUpdate(t *testing.T) {
	owned := func(id domain.PinId) (domain.Pin, error) {
		return domain.Pin{Id: id, OwnerId: 1, BoardId: 10}, nil
	}
	title := "New title"

	t.Run("OwnerMayUpdate", func(t *testing.T) {
		s := NewPin(&MockPinStorage{pinByIdFunc: owned}, &MockMedia{}, Guard{})
		_, err := s.Update(&domain.User{Id: 1}, 1, domain.PinUpdate{Title: &title})
		assert.NoError(t, err)
	})

	t.Run("OtherUserForbidden", func(t *testing.T) {
		s := NewPin(&MockPinStorage{pinByIdFunc: owned}, &MockMedia{}, Guard{})
		_, err := s.Update(&domain.User{Id: 2}, 1, domain.PinUpdate{Title: &title})
		assert.True(t, errors.Is(err, errors.Unauthorized))
	})

	t.Run("MoveToOwnBoard", func(t *testing.T) {
		newBoard := domain.BoardId(11)
		s := NewPin(&MockPinStorage{pinByIdFunc: owned}, &MockMedia{}, Guard{})
		_, err := s.Update(&domain.User{Id: 1}, 1, domain.PinUpdate{BoardId: &newBoard})
		assert.NoError(t, err)
	})

	t.Run("MoveToForeignBoardForbidden", func(t *testing.T) {
		newBoard := domain.BoardId(11)
		storage := &MockPinStorage{
			pinByIdFunc: owned,
			boardByIdFunc: func(id domain.BoardId) (domain.Board, error) {
				return domain.Board{Id: id, OwnerId: 2}, nil
			},
		}
		s := NewPin(storage, &MockMedia{}, Guard{})
		_, err := s.Update(&domain.User{Id: 1}, 1, domain.PinUpdate{BoardId: &newBoard})
		assert.True(t, errors.Is(err, errors.Unauthorized))
	})
}

func TestPinDelete(t *testing.T) {
	owned := func(id domain.PinId) (domain.Pin, error) {
		return domain.Pin{Id: id, OwnerId: 1}, nil
	}

	t.Run("CommentsGoFirst", func(t *testing.T) {
		var ops []string
		storage := &MockPinStorage{
			pinByIdFunc: owned,
			deleteCommentsByPinFunc: func(pinId domain.PinId) error {
				ops = append(ops, "comments")
				return nil
			},
			deletePinFunc: func(id domain.PinId) error {
				ops = append(ops, "pin")
				return nil
			},
		}
		s := NewPin(storage, &MockMedia{}, Guard{})
		msg, err := s.Delete(&domain.User{Id: 1}, 1)
		require.NoError(t, err)
		assert.Equal(t, "The Pin 1 has been deleted.", msg)
		assert.Equal(t, []string{"comments", "pin"}, ops)
	})

	t.Run("OtherUserForbidden", func(t *testing.T) {
		var deleted bool
		storage := &MockPinStorage{
			pinByIdFunc: owned,
			deletePinFunc: func(id domain.PinId) error {
				deleted = true
				return nil
			},
		}
		s := NewPin(storage, &MockMedia{}, Guard{})
		_, err := s.Delete(&domain.User{Id: 2}, 1)
		assert.True(t, errors.Is(err, errors.Unauthorized))
		assert.False(t, deleted)
	})

	t.Run("AdminMayDelete", func(t *testing.T) {
		s := NewPin(&MockPinStorage{pinByIdFunc: owned}, &MockMedia{}, Guard{})
		_, err := s.Delete(&domain.User{Id: 2, Admin: true}, 1)
		assert.NoError(t, err)
	})
}
