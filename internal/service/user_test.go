package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinstack-dev/pinstack/internal/domain"
	"github.com/pinstack-dev/pinstack/internal/errors"
)

// MockUserStorage mocks the UserStorage interface.
type MockUserStorage struct {
	userByIdFunc               func(id domain.UserId) (domain.User, error)
	userByUsernameFunc         func(username domain.Username) (domain.User, error)
	usersByIdsFunc             func(ids []domain.UserId) ([]domain.User, error)
	updateProfileFunc          func(id domain.UserId, upd domain.ProfileUpdate) (domain.User, error)
	deleteUserFunc             func(id domain.UserId) error
	updateFollowSetFunc        func(id domain.UserId, field domain.FollowField, op domain.SetOp, other domain.UserId) error
	boardsByOwnerFunc          func(ownerId domain.UserId) ([]domain.Board, error)
	deleteBoardFunc            func(id domain.BoardId) error
	pinIdsByOwnerFunc          func(ownerId domain.UserId) ([]domain.PinId, error)
	deletePinFunc              func(id domain.PinId) error
	deleteCommentsByPinFunc    func(pinId domain.PinId) error
	deleteCommentsByAuthorFunc func(authorId domain.UserId) ([]domain.CommentRef, error)
	updatePinCommentsFunc      func(id domain.PinId, op domain.SetOp, commentId domain.CommentId) error
}

func (m *MockUserStorage) UserById(id domain.UserId) (domain.User, error) {
	if m.userByIdFunc != nil {
		return m.userByIdFunc(id)
	}
	return domain.User{Id: id}, nil
}

func (m *MockUserStorage) UserByUsername(username domain.Username) (domain.User, error) {
	if m.userByUsernameFunc != nil {
		return m.userByUsernameFunc(username)
	}
	return domain.User{Username: username}, nil
}

func (m *MockUserStorage) UsersByIds(ids []domain.UserId) ([]domain.User, error) {
	if m.usersByIdsFunc != nil {
		return m.usersByIdsFunc(ids)
	}
	users := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, domain.User{Id: id})
	}
	return users, nil
}

func (m *MockUserStorage) UpdateProfile(id domain.UserId, upd domain.ProfileUpdate) (domain.User, error) {
	if m.updateProfileFunc != nil {
		return m.updateProfileFunc(id, upd)
	}
	return domain.User{Id: id}, nil
}

func (m *MockUserStorage) DeleteUser(id domain.UserId) error {
	if m.deleteUserFunc != nil {
		return m.deleteUserFunc(id)
	}
	return nil
}

func (m *MockUserStorage) UpdateFollowSet(id domain.UserId, field domain.FollowField, op domain.SetOp, other domain.UserId) error {
	if m.updateFollowSetFunc != nil {
		return m.updateFollowSetFunc(id, field, op, other)
	}
	return nil
}

func (m *MockUserStorage) BoardsByOwner(ownerId domain.UserId) ([]domain.Board, error) {
	if m.boardsByOwnerFunc != nil {
		return m.boardsByOwnerFunc(ownerId)
	}
	return nil, nil
}

func (m *MockUserStorage) DeleteBoard(id domain.BoardId) error {
	if m.deleteBoardFunc != nil {
		return m.deleteBoardFunc(id)
	}
	return nil
}

func (m *MockUserStorage) PinIdsByOwner(ownerId domain.UserId) ([]domain.PinId, error) {
	if m.pinIdsByOwnerFunc != nil {
		return m.pinIdsByOwnerFunc(ownerId)
	}
	return nil, nil
}

func (m *MockUserStorage) DeletePin(id domain.PinId) error {
	if m.deletePinFunc != nil {
		return m.deletePinFunc(id)
	}
	return nil
}

func (m *MockUserStorage) DeleteCommentsByPin(pinId domain.PinId) error {
	if m.deleteCommentsByPinFunc != nil {
		return m.deleteCommentsByPinFunc(pinId)
	}
	return nil
}

func (m *MockUserStorage) DeleteCommentsByAuthor(authorId domain.UserId) ([]domain.CommentRef, error) {
	if m.deleteCommentsByAuthorFunc != nil {
		return m.deleteCommentsByAuthorFunc(authorId)
	}
	return nil, nil
}

func (m *MockUserStorage) UpdatePinComments(id domain.PinId, op domain.SetOp, commentId domain.CommentId) error {
	if m.updatePinCommentsFunc != nil {
		return m.updatePinCommentsFunc(id, op, commentId)
	}
	return nil
}

// MockAvatarStore mocks the AvatarStore interface.
type MockAvatarStore struct {
	storeAvatarFunc func(raw []byte) (string, error)
}

func (m *MockAvatarStore) StoreAvatar(raw []byte) (string, error) {
	if m.storeAvatarFunc != nil {
		return m.storeAvatarFunc(raw)
	}
	return "/media/avatar.jpg", nil
}

type followCall struct {
	id    domain.UserId
	field domain.FollowField
	op    domain.SetOp
	other domain.UserId
}

func TestFollow(t *testing.T) {
	actor := &domain.User{Id: 1}

	t.Run("SelfFollow", func(t *testing.T) {
		s := NewUser(&MockUserStorage{}, &MockAvatarStore{}, Guard{})
		err := s.Follow(actor, 1)
		assert.True(t, errors.Is(err, errors.Validation))
	})

	t.Run("NilActor", func(t *testing.T) {
		s := NewUser(&MockUserStorage{}, &MockAvatarStore{}, Guard{})
		err := s.Follow(nil, 2)
		assert.True(t, errors.Is(err, errors.Unauthorized))
	})

	t.Run("TargetMissing", func(t *testing.T) {
		storage := &MockUserStorage{
			userByIdFunc: func(id domain.UserId) (domain.User, error) {
				if id == 2 {
					return domain.User{}, errors.New(errors.NotFound, "user not found")
				}
				return domain.User{Id: id}, nil
			},
		}
		s := NewUser(storage, &MockAvatarStore{}, Guard{})
		err := s.Follow(actor, 2)
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("AlreadyFollowing", func(t *testing.T) {
		storage := &MockUserStorage{
			userByIdFunc: func(id domain.UserId) (domain.User, error) {
				if id == 1 {
					return domain.User{Id: 1, Following: []domain.UserId{2}}, nil
				}
				return domain.User{Id: id}, nil
			},
		}
		s := NewUser(storage, &MockAvatarStore{}, Guard{})
		err := s.Follow(actor, 2)
		assert.True(t, errors.Is(err, errors.AlreadyExists))
	})

	t.Run("WritesBothSides", func(t *testing.T) {
		var calls []followCall
		storage := &MockUserStorage{
			updateFollowSetFunc: func(id domain.UserId, field domain.FollowField, op domain.SetOp, other domain.UserId) error {
				calls = append(calls, followCall{id, field, op, other})
				return nil
			},
		}
		s := NewUser(storage, &MockAvatarStore{}, Guard{})
		require.NoError(t, s.Follow(actor, 2))

		require.Len(t, calls, 2)
		assert.Equal(t, followCall{1, domain.FieldFollowing, domain.SetAdd, 2}, calls[0])
		assert.Equal(t, followCall{2, domain.FieldFollowers, domain.SetAdd, 1}, calls[1])
	})

	t.Run("DependentFailureStillSucceeds", func(t *testing.T) {
		var calls []followCall
		storage := &MockUserStorage{
			updateFollowSetFunc: func(id domain.UserId, field domain.FollowField, op domain.SetOp, other domain.UserId) error {
				calls = append(calls, followCall{id, field, op, other})
				if field == domain.FieldFollowers {
					return errors.New(errors.StoreUnavailable, "db down")
				}
				return nil
			},
		}
		s := NewUser(storage, &MockAvatarStore{}, Guard{})
		// The authoritative write landed, so the operation succeeds even though
		// the derived side is now undercounting.
		assert.NoError(t, s.Follow(actor, 2))
		assert.Len(t, calls, 2)
	})

	t.Run("PrimaryFailureFailsOperation", func(t *testing.T) {
		storage := &MockUserStorage{
			updateFollowSetFunc: func(id domain.UserId, field domain.FollowField, op domain.SetOp, other domain.UserId) error {
				return errors.New(errors.StoreUnavailable, "db down")
			},
		}
		s := NewUser(storage, &MockAvatarStore{}, Guard{})
		err := s.Follow(actor, 2)
		assert.True(t, errors.Is(err, errors.StoreUnavailable))
	})
}

func TestUnfollow(t *testing.T) {
	actor := &domain.User{Id: 1}
	following := func(id domain.UserId) (domain.User, error) {
		if id == 1 {
			return domain.User{Id: 1, Following: []domain.UserId{2}}, nil
		}
		return domain.User{Id: id}, nil
	}

	t.Run("NotFollowing", func(t *testing.T) {
		s := NewUser(&MockUserStorage{}, &MockAvatarStore{}, Guard{})
		err := s.Unfollow(actor, 2)
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("RemovesBothSides", func(t *testing.T) {
		var calls []followCall
		storage := &MockUserStorage{
			userByIdFunc: following,
			updateFollowSetFunc: func(id domain.UserId, field domain.FollowField, op domain.SetOp, other domain.UserId) error {
				calls = append(calls, followCall{id, field, op, other})
				return nil
			},
		}
		s := NewUser(storage, &MockAvatarStore{}, Guard{})
		require.NoError(t, s.Unfollow(actor, 2))

		require.Len(t, calls, 2)
		assert.Equal(t, followCall{1, domain.FieldFollowing, domain.SetRemove, 2}, calls[0])
		assert.Equal(t, followCall{2, domain.FieldFollowers, domain.SetRemove, 1}, calls[1])
	})

	t.Run("SelfUnfollow", func(t *testing.T) {
		s := NewUser(&MockUserStorage{}, &MockAvatarStore{}, Guard{})
		err := s.Unfollow(actor, 1)
		assert.True(t, errors.Is(err, errors.Validation))
	})
}

func TestProfileDetachesDanglingRefs(t *testing.T) {
	// User 1 claims followers 2 and 3, but 3's row is gone. The profile must
	// render without 3 and detach the stale entry.
	var detached []followCall
	storage := &MockUserStorage{
		userByUsernameFunc: func(username domain.Username) (domain.User, error) {
			return domain.User{Id: 1, Username: username, Followers: []domain.UserId{2, 3}}, nil
		},
		usersByIdsFunc: func(ids []domain.UserId) ([]domain.User, error) {
			var users []domain.User
			for _, id := range ids {
				if id == 3 {
					continue
				}
				users = append(users, domain.User{Id: id})
			}
			return users, nil
		},
		updateFollowSetFunc: func(id domain.UserId, field domain.FollowField, op domain.SetOp, other domain.UserId) error {
			detached = append(detached, followCall{id, field, op, other})
			return nil
		},
	}

	s := NewUser(storage, &MockAvatarStore{}, Guard{})
	profile, err := s.Profile("alice")
	require.NoError(t, err)

	require.Len(t, profile.Followers, 1)
	assert.Equal(t, domain.UserId(2), profile.Followers[0].Id)

	require.Len(t, detached, 1)
	assert.Equal(t, followCall{1, domain.FieldFollowers, domain.SetRemove, 3}, detached[0])
}

func TestUpdateProfile(t *testing.T) {
	first := "Alice"
	upd := domain.ProfileUpdate{FirstName: &first}

	t.Run("OwnerMayUpdate", func(t *testing.T) {
		storage := &MockUserStorage{
			updateProfileFunc: func(id domain.UserId, u domain.ProfileUpdate) (domain.User, error) {
				return domain.User{Id: id, FirstName: *u.FirstName}, nil
			},
		}
		s := NewUser(storage, &MockAvatarStore{}, Guard{})
		view, err := s.UpdateProfile(&domain.User{Id: 1}, 1, upd, nil)
		require.NoError(t, err)
		assert.Equal(t, "Alice", view.FirstName)
	})

	t.Run("OtherUserForbidden", func(t *testing.T) {
		s := NewUser(&MockUserStorage{}, &MockAvatarStore{}, Guard{})
		_, err := s.UpdateProfile(&domain.User{Id: 2}, 1, upd, nil)
		assert.True(t, errors.Is(err, errors.Unauthorized))
	})

	t.Run("AdminMayUpdate", func(t *testing.T) {
		s := NewUser(&MockUserStorage{}, &MockAvatarStore{}, Guard{})
		_, err := s.UpdateProfile(&domain.User{Id: 2, Admin: true}, 1, upd, nil)
		assert.NoError(t, err)
	})

	t.Run("AvatarUploadStoredServerSide", func(t *testing.T) {
		var stored []byte
		var recorded *string
		media := &MockAvatarStore{
			storeAvatarFunc: func(raw []byte) (string, error) {
				stored = raw
				return "/media/abc_avatar.jpg", nil
			},
		}
		storage := &MockUserStorage{
			updateProfileFunc: func(id domain.UserId, u domain.ProfileUpdate) (domain.User, error) {
				recorded = u.Avatar
				return domain.User{Id: id}, nil
			},
		}
		s := NewUser(storage, media, Guard{})
		_, err := s.UpdateProfile(&domain.User{Id: 1}, 1, domain.ProfileUpdate{}, []byte("img"))
		require.NoError(t, err)
		assert.Equal(t, []byte("img"), stored)
		require.NotNil(t, recorded)
		assert.Equal(t, "/media/abc_avatar.jpg", *recorded)
	})

	t.Run("AvatarFailureAborts", func(t *testing.T) {
		media := &MockAvatarStore{
			storeAvatarFunc: func(raw []byte) (string, error) {
				return "", errors.New(errors.Validation, "unsupported or corrupt image")
			},
		}
		storage := &MockUserStorage{
			updateProfileFunc: func(id domain.UserId, u domain.ProfileUpdate) (domain.User, error) {
				t.Fatal("profile must not be written when the avatar upload fails")
				return domain.User{}, nil
			},
		}
		s := NewUser(storage, media, Guard{})
		_, err := s.UpdateProfile(&domain.User{Id: 1}, 1, domain.ProfileUpdate{}, []byte("junk"))
		assert.True(t, errors.Is(err, errors.Validation))
	})
}

func TestUserDeleteCascade(t *testing.T) {
	// User 1 owns board 10 holding pin 100 (with comments), wrote comment 500
	// on someone else's pin 200, follows 4 and is followed by 5. Everything
	// owned must go children-first, and every follow edge must be detached
	// from the other side.
	var ops []string
	storage := &MockUserStorage{
		userByIdFunc: func(id domain.UserId) (domain.User, error) {
			return domain.User{Id: 1, Following: []domain.UserId{4}, Followers: []domain.UserId{5}}, nil
		},
		deleteCommentsByAuthorFunc: func(authorId domain.UserId) ([]domain.CommentRef, error) {
			ops = append(ops, "comments_by_author")
			return []domain.CommentRef{{PinId: 200, Ref: 500}}, nil
		},
		updatePinCommentsFunc: func(id domain.PinId, op domain.SetOp, commentId domain.CommentId) error {
			ops = append(ops, fmt.Sprintf("detach_comment %d %d", id, commentId))
			return nil
		},
		pinIdsByOwnerFunc: func(ownerId domain.UserId) ([]domain.PinId, error) {
			return []domain.PinId{100}, nil
		},
		deleteCommentsByPinFunc: func(pinId domain.PinId) error {
			ops = append(ops, fmt.Sprintf("comments_by_pin %d", pinId))
			return nil
		},
		deletePinFunc: func(id domain.PinId) error {
			ops = append(ops, fmt.Sprintf("pin %d", id))
			return nil
		},
		boardsByOwnerFunc: func(ownerId domain.UserId) ([]domain.Board, error) {
			return []domain.Board{{Id: 10, OwnerId: 1}}, nil
		},
		deleteBoardFunc: func(id domain.BoardId) error {
			ops = append(ops, fmt.Sprintf("board %d", id))
			return nil
		},
		updateFollowSetFunc: func(id domain.UserId, field domain.FollowField, op domain.SetOp, other domain.UserId) error {
			ops = append(ops, fmt.Sprintf("detach_follow %d %s", id, field))
			return nil
		},
		deleteUserFunc: func(id domain.UserId) error {
			ops = append(ops, "user")
			return nil
		},
	}

	s := NewUser(storage, &MockAvatarStore{}, Guard{})
	msg, err := s.Delete(&domain.User{Id: 1}, 1)
	require.NoError(t, err)
	assert.Equal(t, "The User 1 has been deleted.", msg)

	assert.Equal(t, []string{
		"comments_by_author",
		"detach_comment 200 500",
		"comments_by_pin 100",
		"pin 100",
		"board 10",
		"detach_follow 5 following",
		"detach_follow 4 followers",
		"user",
	}, ops)
}

func TestUserDeleteForbidden(t *testing.T) {
	s := NewUser(&MockUserStorage{}, &MockAvatarStore{}, Guard{})
	_, err := s.Delete(&domain.User{Id: 2}, 1)
	assert.True(t, errors.Is(err, errors.Unauthorized))
}
