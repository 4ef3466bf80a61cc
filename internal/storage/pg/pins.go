package pg

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/pinstack-dev/pinstack/internal/domain"
	"github.com/pinstack-dev/pinstack/internal/errors"
)

const pinColumns = `id, title, description, website, board_id, owner_id, image_high, image_medium, image_low, comment_ids, created_at, updated_at`

func scanPin(row interface{ Scan(...any) error }) (domain.Pin, error) {
	var p domain.Pin
	var commentIds pq.Int64Array
	var updated sql.NullTime
	err := row.Scan(&p.Id, &p.Title, &p.Description, &p.Website, &p.BoardId, &p.OwnerId,
		&p.Image.High, &p.Image.Medium, &p.Image.Low, &commentIds, &p.CreatedAt, &updated)
	if err != nil {
		return domain.Pin{}, err
	}
	p.CommentIds = commentIds
	if updated.Valid {
		t := updated.Time
		p.UpdatedAt = &t
	}
	return p, nil
}

func (s *Storage) SavePin(data domain.PinCreationData) (domain.Pin, error) {
	p, err := scanPin(s.db.QueryRow(fmt.Sprintf(`
	INSERT INTO pins(title, description, website, board_id, owner_id, image_high, image_medium, image_low)
	VALUES($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING %s`, pinColumns),
		data.Title, data.Description, data.Website, data.BoardId, data.OwnerId,
		data.Image.High, data.Image.Medium, data.Image.Low))
	if err != nil {
		return domain.Pin{}, translateError(err, "")
	}
	return p, nil
}

func (s *Storage) PinById(id domain.PinId) (domain.Pin, error) {
	p, err := scanPin(s.db.QueryRow(
		fmt.Sprintf(`SELECT %s FROM pins WHERE id = $1`, pinColumns), id))
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Pin{}, errors.New(errors.NotFound, "pin not found")
		}
		return domain.Pin{}, translateError(err, "")
	}
	return p, nil
}

func (s *Storage) UpdatePin(id domain.PinId, upd domain.PinUpdate) (domain.Pin, error) {
	p, err := scanPin(s.db.QueryRow(fmt.Sprintf(`
	UPDATE pins SET
		title = COALESCE($2::text, title),
		description = COALESCE($3::text, description),
		website = COALESCE($4::text, website),
		board_id = COALESCE($5::bigint, board_id),
		updated_at = now()
	WHERE id = $1
	RETURNING %s`, pinColumns),
		id, upd.Title, upd.Description, upd.Website, upd.BoardId))
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Pin{}, errors.New(errors.NotFound, "pin not found")
		}
		return domain.Pin{}, translateError(err, "")
	}
	return p, nil
}

func (s *Storage) DeletePin(id domain.PinId) error {
	result, err := s.db.Exec(`DELETE FROM pins WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "")
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return errors.New(errors.NotFound, "pin not found")
	}
	return nil
}

// UpdatePinComments applies one atomic, idempotent mutation to a pin's
// denormalized comment list. Same contract as UpdateFollowSet.
func (s *Storage) UpdatePinComments(id domain.PinId, op domain.SetOp, commentId domain.CommentId) error {
	var expr string
	switch op {
	case domain.SetAdd:
		expr = "CASE WHEN $2 = ANY(comment_ids) THEN comment_ids ELSE array_append(comment_ids, $2) END"
	case domain.SetRemove:
		expr = "array_remove(comment_ids, $2)"
	default:
		return errors.Newf(errors.Validation, "unknown set op %q", op)
	}

	result, err := s.db.Exec(fmt.Sprintf(
		`UPDATE pins SET comment_ids = %s, updated_at = now() WHERE id = $1`, expr),
		id, commentId)
	if err != nil {
		return translateError(err, "")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.New(errors.NotFound, "pin not found")
	}
	return nil
}

func (s *Storage) PinIdsByBoard(boardId domain.BoardId) ([]domain.PinId, error) {
	return s.pinIds(`SELECT id FROM pins WHERE board_id = $1 ORDER BY id`, boardId)
}

func (s *Storage) PinIdsByOwner(ownerId domain.UserId) ([]domain.PinId, error) {
	return s.pinIds(`SELECT id FROM pins WHERE owner_id = $1 ORDER BY id`, ownerId)
}

func (s *Storage) pinIds(query string, arg any) ([]domain.PinId, error) {
	rows, err := s.db.Query(query, arg)
	if err != nil {
		return nil, translateError(err, "")
	}
	defer rows.Close()

	var ids []domain.PinId
	for rows.Next() {
		var id domain.PinId
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "")
	}
	return ids, nil
}

// PinViewById returns the assembled display view of a single pin.
func (s *Storage) PinViewById(id domain.PinId) (domain.PinView, error) {
	var v domain.PinView
	err := s.db.QueryRow(`
	SELECT
		p.id, p.title, p.description, p.website,
		p.image_high, p.image_medium, p.image_low,
		p.created_at,
		u.id, u.username, u.first_name, u.last_name, u.avatar,
		p.board_id, COALESCE(b.name, '')
	FROM pins p
	JOIN users u ON u.id = p.owner_id
	LEFT JOIN boards b ON b.id = p.board_id
	WHERE p.id = $1`, id).Scan(
		&v.Id, &v.Title, &v.Description, &v.Website,
		&v.Image.High, &v.Image.Medium, &v.Image.Low,
		&v.CreatedAt,
		&v.Author.Id, &v.Author.Username, &v.Author.FirstName, &v.Author.LastName, &v.Author.Avatar,
		&v.Board.Id, &v.Board.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.PinView{}, errors.New(errors.NotFound, "pin not found")
		}
		return domain.PinView{}, translateError(err, "")
	}
	return v, nil
}

// ListPinViews returns one page of the feed, newest first. Ordering includes
// the id as a tiebreaker so pagination stays deterministic for equal
// timestamps. Pins whose author row is gone are dropped (they are mid-cascade);
// a missing board row degrades to an empty board name rather than an error.
func (s *Storage) ListPinViews(filter domain.PinFilter, limit, offset int) ([]domain.PinView, error) {
	query := `
	SELECT
		p.id, p.title, p.description, p.website,
		p.image_high, p.image_medium, p.image_low,
		p.created_at,
		u.id, u.username, u.first_name, u.last_name, u.avatar,
		p.board_id, COALESCE(b.name, '')
	FROM pins p
	JOIN users u ON u.id = p.owner_id
	LEFT JOIN boards b ON b.id = p.board_id`

	args := []any{}
	where := ""
	if filter.BoardId != nil {
		args = append(args, *filter.BoardId)
		where = fmt.Sprintf(" WHERE p.board_id = $%d", len(args))
	}
	if filter.OwnerId != nil {
		args = append(args, *filter.OwnerId)
		if where == "" {
			where = fmt.Sprintf(" WHERE p.owner_id = $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND p.owner_id = $%d", len(args))
		}
	}

	args = append(args, limit, offset)
	query += where + fmt.Sprintf(`
	ORDER BY p.created_at DESC, p.id DESC
	LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, translateError(err, "")
	}
	defer rows.Close()

	views := []domain.PinView{}
	for rows.Next() {
		var v domain.PinView
		err := rows.Scan(&v.Id, &v.Title, &v.Description, &v.Website,
			&v.Image.High, &v.Image.Medium, &v.Image.Low,
			&v.CreatedAt,
			&v.Author.Id, &v.Author.Username, &v.Author.FirstName, &v.Author.LastName, &v.Author.Avatar,
			&v.Board.Id, &v.Board.Name)
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

// CommentDrift reports comments whose id is missing from their parent pin's
// denormalized list — the undercount left by a failed dependent append on
// comment creation. Pins mid-cascade (row already gone) are excluded; their
// comments are deleted by the cascade, not re-attached. Used by the
// consistency sweep.
func (s *Storage) CommentDrift() ([]domain.CommentRef, error) {
	rows, err := s.db.Query(`
	SELECT c.pin_id, c.id
	FROM comments c
	JOIN pins p ON p.id = c.pin_id
	WHERE NOT c.id = ANY(p.comment_ids)`)
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

// DanglingCommentRefs returns comment-list entries whose comment row no longer
// exists. Used by the consistency sweep.
func (s *Storage) DanglingCommentRefs() ([]domain.CommentRef, error) {
	rows, err := s.db.Query(`
	SELECT p.id, x.ref
	FROM pins p
	CROSS JOIN LATERAL unnest(p.comment_ids) AS x(ref)
	LEFT JOIN comments c ON c.id = x.ref
	WHERE c.id IS NULL`)
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
