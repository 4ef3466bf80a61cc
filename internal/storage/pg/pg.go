package pg

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/pinstack-dev/pinstack/internal/config"
	"github.com/pinstack-dev/pinstack/internal/errors"
	"github.com/pinstack-dev/pinstack/internal/logger"
)

type Storage struct {
	db *sql.DB
}

func New(cfg *config.Public) (*Storage, error) {
	logger.Log.Info("connecting to db", "host", cfg.Pg.Host, "dbname", cfg.Pg.Dbname)
	db, err := Connect(&cfg.Pg)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	logger.Log.Info("successfully connected to db")
	return &Storage{db}, nil
}

func Connect(cfg *config.Pg) (*sql.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, errors.Wrap(errors.StoreUnavailable, "db unreachable", err)
	}
	return db, nil
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}

const uniqueViolation = "23505"

// translateError converts driver errors into the typed taxonomy. Unique
// violations become AlreadyExists with the given message; connection-class
// failures become StoreUnavailable.
func translateError(err error, duplicateMsg string) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if string(pqErr.Code) == uniqueViolation {
			return errors.Wrap(errors.AlreadyExists, duplicateMsg, err)
		}
		if pqErr.Code.Class() == "08" { // connection exceptions
			return errors.Wrap(errors.StoreUnavailable, "db connection failure", err)
		}
	}
	return err
}
