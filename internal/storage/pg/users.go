package pg

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/pinstack-dev/pinstack/internal/domain"
	"github.com/pinstack-dev/pinstack/internal/errors"
)

const userColumns = `id, email, username, pass_hash, first_name, last_name, is_admin, avatar, following, followers, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var u domain.User
	var following, followers pq.Int64Array
	var updated sql.NullTime
	err := row.Scan(&u.Id, &u.Email, &u.Username, &u.PassHash, &u.FirstName, &u.LastName,
		&u.Admin, &u.Avatar, &following, &followers, &u.CreatedAt, &updated)
	if err != nil {
		return domain.User{}, err
	}
	u.Following = following
	u.Followers = followers
	if updated.Valid {
		t := updated.Time
		u.UpdatedAt = &t
	}
	return u, nil
}

func (s *Storage) SaveUser(user domain.User) (domain.UserId, error) {
	var id domain.UserId
	err := s.db.QueryRow(`
	INSERT INTO users(email, username, pass_hash)
	VALUES($1, $2, $3)
	RETURNING id`,
		user.Email, user.Username, user.PassHash).Scan(&id)
	if err != nil {
		return 0, translateError(err, "email or username already taken")
	}
	return id, nil
}

func (s *Storage) userBy(where string, arg any) (domain.User, error) {
	u, err := scanUser(s.db.QueryRow(
		fmt.Sprintf(`SELECT %s FROM users WHERE %s`, userColumns, where), arg))
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.User{}, errors.New(errors.NotFound, "user not found")
		}
		return domain.User{}, translateError(err, "")
	}
	return u, nil
}

func (s *Storage) UserById(id domain.UserId) (domain.User, error) {
	return s.userBy("id = $1", id)
}

func (s *Storage) UserByEmail(email domain.Email) (domain.User, error) {
	return s.userBy("email = $1", email)
}

func (s *Storage) UserByUsername(username domain.Username) (domain.User, error) {
	return s.userBy("username = $1", username)
}

// UsersByIds returns the users that still exist among ids, in the order of ids.
// Missing ids are simply absent from the result; callers treat those as
// dangling references.
func (s *Storage) UsersByIds(ids []domain.UserId) ([]domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.Query(
		fmt.Sprintf(`SELECT %s FROM users WHERE id = ANY($1)`, userColumns),
		pq.Array(ids))
	if err != nil {
		return nil, translateError(err, "")
	}
	defer rows.Close()

	byId := make(map[domain.UserId]domain.User, len(ids))
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		byId[u.Id] = u
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "")
	}

	users := make([]domain.User, 0, len(byId))
	for _, id := range ids {
		if u, ok := byId[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (s *Storage) UpdateProfile(id domain.UserId, upd domain.ProfileUpdate) (domain.User, error) {
	u, err := scanUser(s.db.QueryRow(fmt.Sprintf(`
	UPDATE users SET
		first_name = COALESCE($2::text, first_name),
		last_name = COALESCE($3::text, last_name),
		avatar = COALESCE($4::text, avatar),
		updated_at = now()
	WHERE id = $1
	RETURNING %s`, userColumns),
		id, upd.FirstName, upd.LastName, upd.Avatar))
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.User{}, errors.New(errors.NotFound, "user not found")
		}
		return domain.User{}, translateError(err, "")
	}
	return u, nil
}

func (s *Storage) DeleteUser(id domain.UserId) error {
	result, err := s.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "")
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return errors.New(errors.NotFound, "user not found")
	}
	return nil
}

// UpdateFollowSet applies one atomic, idempotent set mutation to a user's
// following or followers list. A single UPDATE statement so concurrent calls
// can't lose updates; adding a present id or removing an absent one is a
// successful no-op. Returns NotFound only when the user row itself is gone.
func (s *Storage) UpdateFollowSet(id domain.UserId, field domain.FollowField, op domain.SetOp, other domain.UserId) error {
	var column string
	switch field {
	case domain.FieldFollowing:
		column = "following"
	case domain.FieldFollowers:
		column = "followers"
	default:
		return errors.Newf(errors.Validation, "unknown follow field %q", field)
	}

	var expr string
	switch op {
	case domain.SetAdd:
		expr = fmt.Sprintf("CASE WHEN $2 = ANY(%s) THEN %s ELSE array_append(%s, $2) END", column, column, column)
	case domain.SetRemove:
		expr = fmt.Sprintf("array_remove(%s, $2)", column)
	default:
		return errors.Newf(errors.Validation, "unknown set op %q", op)
	}

	result, err := s.db.Exec(fmt.Sprintf(
		`UPDATE users SET %s = %s, updated_at = now() WHERE id = $1`, column, expr),
		id, other)
	if err != nil {
		return translateError(err, "")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.New(errors.NotFound, "user not found")
	}
	return nil
}

// FollowerDrift reports followers-list entries out of step with the
// authoritative following side, for pairs of users that both still exist.
// Missing entries come from a failed dependent write of a follow, extras from
// a failed dependent write of an unfollow. Used by the consistency sweep.
func (s *Storage) FollowerDrift() ([]domain.FollowerDrift, error) {
	rows, err := s.db.Query(`
	SELECT t.id, u.id, 'add'
	FROM users u
	CROSS JOIN LATERAL unnest(u.following) AS x(ref)
	JOIN users t ON t.id = x.ref
	WHERE NOT u.id = ANY(t.followers)
	UNION ALL
	SELECT u.id, x.ref, 'remove'
	FROM users u
	CROSS JOIN LATERAL unnest(u.followers) AS x(ref)
	JOIN users t ON t.id = x.ref
	WHERE NOT u.id = ANY(t.following)`)
	if err != nil {
		return nil, translateError(err, "")
	}
	defer rows.Close()

	var drifts []domain.FollowerDrift
	for rows.Next() {
		var d domain.FollowerDrift
		var op string
		if err := rows.Scan(&d.UserId, &d.Follower, &op); err != nil {
			return nil, err
		}
		d.Op = domain.SetOp(op)
		drifts = append(drifts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "")
	}
	return drifts, nil
}

// DanglingFollowRefs returns follow-list entries whose target user row no
// longer exists. Used by the consistency sweep.
func (s *Storage) DanglingFollowRefs() ([]domain.FollowRef, error) {
	var refs []domain.FollowRef
	for _, field := range []domain.FollowField{domain.FieldFollowing, domain.FieldFollowers} {
		rows, err := s.db.Query(fmt.Sprintf(`
		SELECT u.id, x.ref
		FROM users u
		CROSS JOIN LATERAL unnest(u.%s) AS x(ref)
		LEFT JOIN users t ON t.id = x.ref
		WHERE t.id IS NULL`, field))
		if err != nil {
			return nil, translateError(err, "")
		}
		for rows.Next() {
			ref := domain.FollowRef{Field: field}
			if err := rows.Scan(&ref.UserId, &ref.Ref); err != nil {
				rows.Close()
				return nil, err
			}
			refs = append(refs, ref)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, translateError(err, "")
		}
		rows.Close()
	}
	return refs, nil
}
