package pg

import (
	"database/sql"

	"github.com/lib/pq"
	"github.com/pinstack-dev/pinstack/internal/domain"
	"github.com/pinstack-dev/pinstack/internal/errors"
)

func (s *Storage) SaveComment(text string, authorId domain.UserId, pinId domain.PinId) (domain.Comment, error) {
	var c domain.Comment
	err := s.db.QueryRow(`
	INSERT INTO comments(text, author_id, pin_id)
	VALUES($1, $2, $3)
	RETURNING id, text, author_id, pin_id, created_at`,
		text, authorId, pinId).Scan(&c.Id, &c.Text, &c.AuthorId, &c.PinId, &c.CreatedAt)
	if err != nil {
		return domain.Comment{}, translateError(err, "")
	}
	return c, nil
}

func (s *Storage) CommentById(id domain.CommentId) (domain.Comment, error) {
	var c domain.Comment
	err := s.db.QueryRow(`
	SELECT id, text, author_id, pin_id, created_at
	FROM comments
	WHERE id = $1`, id).Scan(&c.Id, &c.Text, &c.AuthorId, &c.PinId, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Comment{}, errors.New(errors.NotFound, "comment not found")
		}
		return domain.Comment{}, translateError(err, "")
	}
	return c, nil
}

func (s *Storage) DeleteComment(id domain.CommentId) error {
	result, err := s.db.Exec(`DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "")
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return errors.New(errors.NotFound, "comment not found")
	}
	return nil
}

func (s *Storage) DeleteCommentsByPin(pinId domain.PinId) error {
	_, err := s.db.Exec(`DELETE FROM comments WHERE pin_id = $1`, pinId)
	return translateError(err, "")
}

// DeleteCommentsByAuthor removes all comments written by a user and returns
// refs locating the pins whose denormalized lists now need detaching.
func (s *Storage) DeleteCommentsByAuthor(authorId domain.UserId) ([]domain.CommentRef, error) {
	rows, err := s.db.Query(`
	DELETE FROM comments WHERE author_id = $1
	RETURNING pin_id, id`, authorId)
	if err != nil {
		return nil, translateError(err, "")
	}
	defer rows.Close()

	var refs []domain.CommentRef
	for rows.Next() {
		var ref domain.CommentRef
		if err := rows.Scan(&ref.PinId, &ref.Ref); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "")
	}
	return refs, nil
}

// CommentViewsByIds expands a denormalized comment list: returns views for the
// ids whose comment row (and author row) still exists, ascending by creation
// time. Missing entries are simply absent; callers treat them as dangling.
func (s *Storage) CommentViewsByIds(ids []domain.CommentId) ([]domain.CommentView, error) {
	if len(ids) == 0 {
		return []domain.CommentView{}, nil
	}
	rows, err := s.db.Query(`
	SELECT
		c.id, c.text, c.created_at,
		u.id, u.username, u.first_name, u.last_name, u.avatar
	FROM comments c
	JOIN users u ON u.id = c.author_id
	WHERE c.id = ANY($1)
	ORDER BY c.created_at ASC, c.id ASC`, pq.Array(ids))
	if err != nil {
		return nil, translateError(err, "")
	}
	defer rows.Close()

	views := []domain.CommentView{}
	for rows.Next() {
		var v domain.CommentView
		err := rows.Scan(&v.Id, &v.Text, &v.CreatedAt,
			&v.Author.Id, &v.Author.Username, &v.Author.FirstName, &v.Author.LastName, &v.Author.Avatar)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "")
	}
	return views, nil
}
