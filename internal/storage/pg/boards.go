package pg

import (
	"database/sql"

	"github.com/pinstack-dev/pinstack/internal/domain"
	"github.com/pinstack-dev/pinstack/internal/errors"
)

func (s *Storage) SaveBoard(data domain.BoardCreationData) (domain.Board, error) {
	var b domain.Board
	err := s.db.QueryRow(`
	INSERT INTO boards(name, owner_id)
	VALUES($1, $2)
	RETURNING id, name, owner_id, created_at`,
		data.Name, data.OwnerId).Scan(&b.Id, &b.Name, &b.OwnerId, &b.CreatedAt)
	if err != nil {
		return domain.Board{}, translateError(err, "board already exists")
	}
	return b, nil
}

func (s *Storage) BoardById(id domain.BoardId) (domain.Board, error) {
	var b domain.Board
	err := s.db.QueryRow(`
	SELECT id, name, owner_id, created_at
	FROM boards
	WHERE id = $1`, id).Scan(&b.Id, &b.Name, &b.OwnerId, &b.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Board{}, errors.New(errors.NotFound, "board not found")
		}
		return domain.Board{}, translateError(err, "")
	}
	return b, nil
}

// BoardsByOwner lists a user's boards in insertion order.
func (s *Storage) BoardsByOwner(ownerId domain.UserId) ([]domain.Board, error) {
	rows, err := s.db.Query(`
	SELECT id, name, owner_id, created_at
	FROM boards
	WHERE owner_id = $1
	ORDER BY id`, ownerId)
	if err != nil {
		return nil, translateError(err, "")
	}
	defer rows.Close()

	boards := []domain.Board{}
	for rows.Next() {
		var b domain.Board
		if err := rows.Scan(&b.Id, &b.Name, &b.OwnerId, &b.CreatedAt); err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "")
	}
	return boards, nil
}

func (s *Storage) DeleteBoard(id domain.BoardId) error {
	result, err := s.db.Exec(`DELETE FROM boards WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "")
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return errors.New(errors.NotFound, "board not found")
	}
	return nil
}
