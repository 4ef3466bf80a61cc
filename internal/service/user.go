package service

import (
	"fmt"

	"github.com/pinstack-dev/pinstack/internal/domain"
	"github.com/pinstack-dev/pinstack/internal/errors"
	"github.com/pinstack-dev/pinstack/internal/logger"
)

type UserService interface {
	Profile(username domain.Username) (domain.ProfileView, error)
	UpdateProfile(actor *domain.User, id domain.UserId, upd domain.ProfileUpdate, avatar []byte) (domain.UserView, error)
	Follow(actor *domain.User, target domain.UserId) error
	Unfollow(actor *domain.User, target domain.UserId) error
	Delete(actor *domain.User, id domain.UserId) (string, error)
}

type User struct {
	storage UserStorage
	media   AvatarStore
	guard   Guard
}

// AvatarStore turns raw upload bytes into a stored profile picture URL.
type AvatarStore interface {
	StoreAvatar(raw []byte) (string, error)
}

type UserStorage interface {
	UserById(id domain.UserId) (domain.User, error)
	UserByUsername(username domain.Username) (domain.User, error)
	UsersByIds(ids []domain.UserId) ([]domain.User, error)
	UpdateProfile(id domain.UserId, upd domain.ProfileUpdate) (domain.User, error)
	DeleteUser(id domain.UserId) error
	UpdateFollowSet(id domain.UserId, field domain.FollowField, op domain.SetOp, other domain.UserId) error

	// Cascade enumeration and deletion of owned content.
	BoardsByOwner(ownerId domain.UserId) ([]domain.Board, error)
	DeleteBoard(id domain.BoardId) error
	PinIdsByOwner(ownerId domain.UserId) ([]domain.PinId, error)
	DeletePin(id domain.PinId) error
	DeleteCommentsByPin(pinId domain.PinId) error
	DeleteCommentsByAuthor(authorId domain.UserId) ([]domain.CommentRef, error)
	UpdatePinComments(id domain.PinId, op domain.SetOp, commentId domain.CommentId) error
}

func NewUser(storage UserStorage, media AvatarStore, guard Guard) UserService {
	return &User{storage, media, guard}
}

// Follow records the edge actor -> target. The actor's following list is the
// authoritative side and is written first; the target's followers entry is
// the derived fast path, written second and never rolled back on failure.
func (s *User) Follow(actor *domain.User, target domain.UserId) error {
	if actor == nil {
		return errors.New(errors.Unauthorized, "authentication required")
	}
	if actor.Id == target {
		return errors.New(errors.Validation, "users can't follow themselves")
	}

	a, err := s.storage.UserById(actor.Id)
	if err != nil {
		return err
	}
	if _, err := s.storage.UserById(target); err != nil {
		return err
	}
	if a.Follows(target) {
		return errors.New(errors.AlreadyExists, "already following this user")
	}

	if err := s.storage.UpdateFollowSet(actor.Id, domain.FieldFollowing, domain.SetAdd, target); err != nil {
		return err
	}
	completeDependent("follow", func() error {
		return s.storage.UpdateFollowSet(target, domain.FieldFollowers, domain.SetAdd, actor.Id)
	})
	return nil
}

// Unfollow removes the edge actor -> target, mirroring Follow's ordering.
func (s *User) Unfollow(actor *domain.User, target domain.UserId) error {
	if actor == nil {
		return errors.New(errors.Unauthorized, "authentication required")
	}
	if actor.Id == target {
		return errors.New(errors.Validation, "users can't unfollow themselves")
	}

	a, err := s.storage.UserById(actor.Id)
	if err != nil {
		return err
	}
	if !a.Follows(target) {
		return errors.New(errors.NotFound, "not following this user")
	}

	if err := s.storage.UpdateFollowSet(actor.Id, domain.FieldFollowing, domain.SetRemove, target); err != nil {
		return err
	}
	completeDependent("unfollow", func() error {
		return s.storage.UpdateFollowSet(target, domain.FieldFollowers, domain.SetRemove, actor.Id)
	})
	return nil
}

func (s *User) Profile(username domain.Username) (domain.ProfileView, error) {
	u, err := s.storage.UserByUsername(username)
	if err != nil {
		return domain.ProfileView{}, err
	}

	following := s.expandUserViews(u.Id, domain.FieldFollowing, u.Following)
	followers := s.expandUserViews(u.Id, domain.FieldFollowers, u.Followers)

	return domain.ProfileView{
		UserView:  u.View(),
		Email:     u.Email,
		Following: following,
		Followers: followers,
		CreatedAt: u.CreatedAt,
	}, nil
}

// expandUserViews resolves a denormalized follow list into trimmed views.
// Entries whose user row is gone are dropped from the result, audited and
// detached in place; a read never fails because of a dangling reference.
func (s *User) expandUserViews(owner domain.UserId, field domain.FollowField, ids []domain.UserId) []domain.UserView {
	views := make([]domain.UserView, 0, len(ids))
	users, err := s.storage.UsersByIds(ids)
	if err != nil {
		logger.Log.Error("failed to expand follow list", "user", owner, "field", field, "error", err)
		return views
	}

	found := make(map[domain.UserId]bool, len(users))
	for _, u := range users {
		found[u.Id] = true
		views = append(views, u.View())
	}

	for _, id := range ids {
		if found[id] {
			continue
		}
		danglingRefsDetected.WithLabelValues(string(field)).Inc()
		logger.Log.Warn("dangling follow reference, detaching",
			"user", owner, "field", field, "ref", id)
		if err := s.storage.UpdateFollowSet(owner, field, domain.SetRemove, id); err != nil {
			logger.Log.Error("failed to detach dangling follow reference",
				"user", owner, "field", field, "ref", id, "error", err)
			continue
		}
		danglingRefsRepaired.WithLabelValues(string(field)).Inc()
	}
	return views
}

// UpdateProfile applies partial name changes and, when avatar bytes are
// present, stores a resized profile picture and records its URL. The avatar
// URL is never taken from the caller.
func (s *User) UpdateProfile(actor *domain.User, id domain.UserId, upd domain.ProfileUpdate, avatar []byte) (domain.UserView, error) {
	subject, err := s.storage.UserById(id)
	if err != nil {
		return domain.UserView{}, err
	}
	if err := s.guard.MayAct(actor, ActionUpdate, &subject); err != nil {
		return domain.UserView{}, err
	}

	if len(avatar) > 0 {
		url, err := s.media.StoreAvatar(avatar)
		if err != nil {
			return domain.UserView{}, err
		}
		upd.Avatar = &url
	}

	updated, err := s.storage.UpdateProfile(id, upd)
	if err != nil {
		return domain.UserView{}, err
	}
	return updated.View(), nil
}

// Delete removes a user and synchronously cascades their content, children
// first: comments, pins, boards, then follow edges, then the user row. A
// crash mid-cascade leaves missing children, never a reference to a deleted
// parent.
func (s *User) Delete(actor *domain.User, id domain.UserId) (string, error) {
	subject, err := s.storage.UserById(id)
	if err != nil {
		return "", err
	}
	if err := s.guard.MayAct(actor, ActionDelete, &subject); err != nil {
		return "", err
	}

	// Comments the user wrote on any pin, detached from each parent list.
	refs, err := s.storage.DeleteCommentsByAuthor(id)
	if err != nil {
		return "", err
	}
	for _, ref := range refs {
		completeDependent("delete user comments", func() error {
			return s.storage.UpdatePinComments(ref.PinId, domain.SetRemove, ref.Ref)
		})
	}

	// The user's own pins and their comment children.
	pinIds, err := s.storage.PinIdsByOwner(id)
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

	boards, err := s.storage.BoardsByOwner(id)
	if err != nil {
		return "", err
	}
	for _, board := range boards {
		if err := s.storage.DeleteBoard(board.Id); err != nil && !errors.IsNotFound(err) {
			return "", err
		}
	}

	// Detach both directions of every follow edge touching the user.
	for _, followerId := range subject.Followers {
		completeDependent("delete user follow edges", func() error {
			return s.storage.UpdateFollowSet(followerId, domain.FieldFollowing, domain.SetRemove, id)
		})
	}
	for _, followedId := range subject.Following {
		completeDependent("delete user follow edges", func() error {
			return s.storage.UpdateFollowSet(followedId, domain.FieldFollowers, domain.SetRemove, id)
		})
	}

	if err := s.storage.DeleteUser(id); err != nil {
		return "", err
	}
	return fmt.Sprintf("The User %d has been deleted.", id), nil
}
